// Package geom provides the float32 vector and matrix types used by the
// care command model and tessellator.
//
// Positions are in pixels with the origin in the top-left corner and Y
// growing downward. Rotations are in radians and turn clockwise on screen.
package geom
