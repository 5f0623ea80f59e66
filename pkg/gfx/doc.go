// Package gfx holds the value types that compositor animations produce:
// transforms, transform operation lists, filters, colors and scroll offsets.
//
// The types are plain values. Nothing in this package keeps state between
// calls, so values can be copied freely between the main and impl sides of
// the animation host.
package gfx
