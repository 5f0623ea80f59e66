// Package scene holds an in-memory scene tree that an animation host can
// drive. It keeps the latest animated value per element and tree generation
// and logs every callback it receives.
package scene

import (
	"fmt"
	"strings"

	"github.com/go-drift/compositor/pkg/animation"
	"github.com/go-drift/compositor/pkg/gfx"
)

// ElementRegistrar is the part of a host the tree tells about tree
// membership changes.
type ElementRegistrar interface {
	RegisterElement(id animation.ElementID, list animation.ElementListType)
	UnregisterElement(id animation.ElementID, list animation.ElementListType)
}

type elementKey struct {
	id   animation.ElementID
	list animation.ElementListType
}

type animatingKey struct {
	elementKey
	property animation.TargetProperty
}

// AnimatingState is what the tree was last told about one property.
type AnimatingState struct {
	Potential bool
	Running   bool
}

// Mutation is one value write recorded by a Tree.
type Mutation struct {
	Element  uint64 `json:"element"`
	List     string `json:"list"`
	Property string `json:"property"`
	Value    string `json:"value"`
}

// AnimatingChange is one animating state callback recorded by a Tree.
type AnimatingChange struct {
	Element   uint64 `json:"element"`
	List      string `json:"list"`
	Property  string `json:"property"`
	Change    string `json:"change"`
	Animating bool   `json:"animating"`
}

// Tree is an in-memory scene tree for one side of the compositor.
// It is not safe for concurrent use.
type Tree struct {
	registrar ElementRegistrar

	elements     map[elementKey]bool
	opacity      map[elementKey]float64
	transform    map[elementKey]gfx.Transform
	filter       map[elementKey]gfx.FilterOperations
	scrollOffset map[elementKey]gfx.ScrollOffset
	animating    map[animatingKey]AnimatingState
	scrollBase   map[animation.ElementID]gfx.ScrollOffset

	Mutations        []Mutation
	AnimatingChanges []AnimatingChange

	NeedsCommitCount          int
	RebuildPropertyTreesCount int
	ScrollFinishedCount       int
}

// NewTree returns an empty tree with no elements.
func NewTree() *Tree {
	return &Tree{
		elements:     make(map[elementKey]bool),
		opacity:      make(map[elementKey]float64),
		transform:    make(map[elementKey]gfx.Transform),
		filter:       make(map[elementKey]gfx.FilterOperations),
		scrollOffset: make(map[elementKey]gfx.ScrollOffset),
		animating:    make(map[animatingKey]AnimatingState),
		scrollBase:   make(map[animation.ElementID]gfx.ScrollOffset),
	}
}

// SetHost sets where membership changes are forwarded.
func (t *Tree) SetHost(r ElementRegistrar) { t.registrar = r }

// RegisterElement adds id to list and tells the host.
func (t *Tree) RegisterElement(id animation.ElementID, list animation.ElementListType) {
	t.elements[elementKey{id, list}] = true
	if t.registrar != nil {
		t.registrar.RegisterElement(id, list)
	}
}

// UnregisterElement removes id from list and tells the host.
func (t *Tree) UnregisterElement(id animation.ElementID, list animation.ElementListType) {
	delete(t.elements, elementKey{id, list})
	if t.registrar != nil {
		t.registrar.UnregisterElement(id, list)
	}
}

func (t *Tree) IsElementInList(id animation.ElementID, list animation.ElementListType) bool {
	return t.elements[elementKey{id, list}]
}

func (t *Tree) SetMutatorsNeedCommit()               { t.NeedsCommitCount++ }
func (t *Tree) SetMutatorsNeedRebuildPropertyTrees() { t.RebuildPropertyTreesCount++ }
func (t *Tree) ScrollOffsetAnimationFinished()       { t.ScrollFinishedCount++ }

func (t *Tree) SetElementFilterMutated(id animation.ElementID, list animation.ElementListType, filters gfx.FilterOperations) {
	t.filter[elementKey{id, list}] = filters.Clone()
	t.record(id, list, animation.TargetFilter, formatFilters(filters))
}

func (t *Tree) SetElementOpacityMutated(id animation.ElementID, list animation.ElementListType, opacity float64) {
	t.opacity[elementKey{id, list}] = opacity
	t.record(id, list, animation.TargetOpacity, fmt.Sprintf("%.4g", opacity))
}

func (t *Tree) SetElementTransformMutated(id animation.ElementID, list animation.ElementListType, transform gfx.Transform) {
	t.transform[elementKey{id, list}] = transform
	t.record(id, list, animation.TargetTransform, formatTransform(transform))
}

func (t *Tree) SetElementScrollOffsetMutated(id animation.ElementID, list animation.ElementListType, offset gfx.ScrollOffset) {
	t.scrollOffset[elementKey{id, list}] = offset
	t.record(id, list, animation.TargetScrollOffset, fmt.Sprintf("(%.4g, %.4g)", offset.X(), offset.Y()))
}

func (t *Tree) ElementTransformIsAnimatingChanged(id animation.ElementID, list animation.ElementListType, change animation.AnimationChangeType, animating bool) {
	t.animatingChanged(id, list, animation.TargetTransform, change, animating)
}

func (t *Tree) ElementOpacityIsAnimatingChanged(id animation.ElementID, list animation.ElementListType, change animation.AnimationChangeType, animating bool) {
	t.animatingChanged(id, list, animation.TargetOpacity, change, animating)
}

func (t *Tree) ElementFilterIsAnimatingChanged(id animation.ElementID, list animation.ElementListType, change animation.AnimationChangeType, animating bool) {
	t.animatingChanged(id, list, animation.TargetFilter, change, animating)
}

// GetScrollOffsetForAnimation returns the offset set with
// SetScrollOffsetForAnimation.
func (t *Tree) GetScrollOffsetForAnimation(id animation.ElementID) gfx.ScrollOffset {
	return t.scrollBase[id]
}

// SetScrollOffsetForAnimation sets the offset scroll animations start from.
func (t *Tree) SetScrollOffsetForAnimation(id animation.ElementID, offset gfx.ScrollOffset) {
	t.scrollBase[id] = offset
}

func (t *Tree) record(id animation.ElementID, list animation.ElementListType, p animation.TargetProperty, value string) {
	t.Mutations = append(t.Mutations, Mutation{
		Element:  uint64(id),
		List:     list.String(),
		Property: p.String(),
		Value:    value,
	})
}

func (t *Tree) animatingChanged(id animation.ElementID, list animation.ElementListType, p animation.TargetProperty, change animation.AnimationChangeType, animating bool) {
	key := animatingKey{elementKey{id, list}, p}
	st := t.animating[key]
	if change == animation.ChangePotential || change == animation.ChangeBoth {
		st.Potential = animating
	}
	if change == animation.ChangeRunning || change == animation.ChangeBoth {
		st.Running = animating
	}
	t.animating[key] = st
	t.AnimatingChanges = append(t.AnimatingChanges, AnimatingChange{
		Element:   uint64(id),
		List:      list.String(),
		Property:  p.String(),
		Change:    change.String(),
		Animating: animating,
	})
}

// Opacity returns the last opacity written for id in list.
func (t *Tree) Opacity(id animation.ElementID, list animation.ElementListType) (float64, bool) {
	v, ok := t.opacity[elementKey{id, list}]
	return v, ok
}

// Transform returns the last transform written for id in list.
func (t *Tree) Transform(id animation.ElementID, list animation.ElementListType) (gfx.Transform, bool) {
	v, ok := t.transform[elementKey{id, list}]
	return v, ok
}

// Filter returns the last filters written for id in list.
func (t *Tree) Filter(id animation.ElementID, list animation.ElementListType) (gfx.FilterOperations, bool) {
	v, ok := t.filter[elementKey{id, list}]
	return v, ok
}

// ScrollOffset returns the last scroll offset written for id in list.
func (t *Tree) ScrollOffset(id animation.ElementID, list animation.ElementListType) (gfx.ScrollOffset, bool) {
	v, ok := t.scrollOffset[elementKey{id, list}]
	return v, ok
}

// Animating returns the animating state last reported for property.
func (t *Tree) Animating(id animation.ElementID, list animation.ElementListType, property animation.TargetProperty) AnimatingState {
	return t.animating[animatingKey{elementKey{id, list}, property}]
}

// ResetLog clears the recorded callbacks but keeps the element state.
func (t *Tree) ResetLog() {
	t.Mutations = nil
	t.AnimatingChanges = nil
}

func formatTransform(t gfx.Transform) string {
	if t.IsTranslation() {
		x, y := t.Translation2D()
		return fmt.Sprintf("translate(%.4g, %.4g)", x, y)
	}
	parts := make([]string, len(t.M))
	for i, v := range t.M {
		parts[i] = fmt.Sprintf("%.4g", v)
	}
	return "matrix(" + strings.Join(parts, ", ") + ")"
}

func formatFilters(f gfx.FilterOperations) string {
	parts := make([]string, len(f))
	for i, op := range f {
		parts[i] = fmt.Sprintf("%s(%.4g)", op.Kind, op.Amount)
	}
	return strings.Join(parts, " ")
}
