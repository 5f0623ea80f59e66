package animhost

import (
	"maps"
	"slices"

	"github.com/go-drift/compositor/pkg/errors"
)

// AnimationTimeline groups players that share a host. Timelines created on
// the main side are mirrored to the impl side on commit; impl-only
// timelines exist on the impl side alone.
type AnimationTimeline struct {
	id         int
	host       *AnimationHost
	players    map[int]*AnimationPlayer
	isImplOnly bool
}

// NewAnimationTimeline returns an empty timeline with id.
func NewAnimationTimeline(id int) *AnimationTimeline {
	return &AnimationTimeline{id: id, players: make(map[int]*AnimationPlayer)}
}

// CreateImplInstance returns the impl side twin of t.
func (t *AnimationTimeline) CreateImplInstance() *AnimationTimeline {
	impl := NewAnimationTimeline(t.id)
	impl.isImplOnly = t.isImplOnly
	return impl
}

func (t *AnimationTimeline) ID() int                       { return t.id }
func (t *AnimationTimeline) AnimationHost() *AnimationHost { return t.host }
func (t *AnimationTimeline) IsImplOnly() bool              { return t.isImplOnly }
func (t *AnimationTimeline) SetIsImplOnly(v bool)          { t.isImplOnly = v }

// SetAnimationHost moves t and its players to host.
func (t *AnimationTimeline) SetAnimationHost(host *AnimationHost) {
	t.host = host
	for _, id := range t.playerIDs() {
		t.players[id].SetAnimationHost(host)
	}
}

// GetPlayerByID returns the attached player with id, or nil.
func (t *AnimationTimeline) GetPlayerByID(id int) *AnimationPlayer {
	return t.players[id]
}

// AttachPlayer adds p to t, registering it with the host when it already
// targets an element.
func (t *AnimationTimeline) AttachPlayer(p *AnimationPlayer) error {
	if p.timeline != nil {
		return errors.Invariant("AnimationTimeline.AttachPlayer", uint64(p.elementID), errors.ErrPlayerAttached)
	}
	p.SetAnimationHost(t.host)
	p.SetAnimationTimeline(t)
	t.players[p.ID()] = p
	t.setNeedsPushProperties()
	return nil
}

// DetachPlayer removes p from t.
func (t *AnimationTimeline) DetachPlayer(p *AnimationPlayer) {
	if t.players[p.ID()] != p {
		return
	}
	t.erasePlayer(p)
	delete(t.players, p.ID())
	t.setNeedsPushProperties()
}

// ClearPlayers detaches every player.
func (t *AnimationTimeline) ClearPlayers() {
	for _, id := range t.playerIDs() {
		t.erasePlayer(t.players[id])
	}
	clear(t.players)
	t.setNeedsPushProperties()
}

func (t *AnimationTimeline) erasePlayer(p *AnimationPlayer) {
	if p.elementAnimations != nil {
		p.DetachElement()
	}
	p.SetAnimationTimeline(nil)
	p.SetAnimationHost(nil)
}

func (t *AnimationTimeline) setNeedsPushProperties() {
	if t.host != nil {
		t.host.SetNeedsPushProperties()
	}
}

func (t *AnimationTimeline) playerIDs() []int {
	return slices.Sorted(maps.Keys(t.players))
}

// PushPropertiesTo mirrors t's players into impl.
func (t *AnimationTimeline) PushPropertiesTo(impl *AnimationTimeline) {
	for _, id := range t.playerIDs() {
		if impl.GetPlayerByID(id) == nil {
			_ = impl.AttachPlayer(t.players[id].CreateImplInstance())
		}
	}
	for _, id := range impl.playerIDs() {
		if t.players[id] == nil {
			impl.erasePlayer(impl.players[id])
			delete(impl.players, id)
		}
	}
	for _, id := range t.playerIDs() {
		if pi := impl.GetPlayerByID(id); pi != nil {
			t.players[id].PushPropertiesTo(pi)
		}
	}
}
