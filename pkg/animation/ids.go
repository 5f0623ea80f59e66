package animation

import "sync/atomic"

// IDProvider hands out animation, group, timeline and player ids. A main
// host and its impl host should share one provider so ids created on
// either side never collide.
type IDProvider struct {
	animation atomic.Int64
	group     atomic.Int64
	timeline  atomic.Int64
	player    atomic.Int64
}

// NewIDProvider returns a provider whose first ids are 1.
func NewIDProvider() *IDProvider { return &IDProvider{} }

func (p *IDProvider) NextAnimationID() int { return int(p.animation.Add(1)) }
func (p *IDProvider) NextGroupID() int     { return int(p.group.Add(1)) }
func (p *IDProvider) NextTimelineID() int  { return int(p.timeline.Add(1)) }
func (p *IDProvider) NextPlayerID() int    { return int(p.player.Add(1)) }
