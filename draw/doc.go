// Package draw defines the command model of the care renderer: one Command
// per drawing call, carrying the transform and color that were current when
// it was issued and one of a fixed set of shape payloads.
//
// The payload set is closed. Every type implementing Data lives in this
// package, so a type switch over Data in the tessellator is exhaustive.
package draw
