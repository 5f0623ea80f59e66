// Package animhost runs compositor animations for a scene tree.
//
// An AnimationHost exists per side: the main host is driven by authoring
// code, the impl host by frame production. Each host keeps one
// ElementAnimations per animated element and an index of the elements that
// need ticking. The sides meet only in AnimationHost.PushPropertiesTo, which
// copies main state onto the impl host, and in SetAnimationEvents, which
// feeds impl events back to the main host.
//
// Nothing in this package locks. A host belongs to one goroutine at a time,
// and the embedder must ensure neither side is ticking while a commit runs.
package animhost
