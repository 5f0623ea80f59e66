package testing

import "github.com/go-drift/compositor/pkg/scene"

// Record types shared with the scene tree.
type (
	Mutation        = scene.Mutation
	AnimatingChange = scene.AnimatingChange
	AnimatingState  = scene.AnimatingState
)

// RecordingClient is a scene tree with golden snapshot support. It
// satisfies animhost.MutatorHostClient through the embedded tree.
type RecordingClient struct {
	*scene.Tree
}

// NewRecordingClient returns an empty client with no elements.
func NewRecordingClient() *RecordingClient {
	return &RecordingClient{Tree: scene.NewTree()}
}
