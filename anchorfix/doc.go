// Package anchorfix removes the motion of an anchor object from the world trajectory of an
// animated subject, so that the subject stays where it was relative to the anchor's pose at a
// reference frame while keeping the rest of its own animation.
//
// A run has two passes over the frame range that never interleave. SampleFrames evaluates
// every frame and records the transforms it needs. Plan computes each frame's corrected pose
// from those samples alone, and Commit writes the poses back as keyframes.
package anchorfix
