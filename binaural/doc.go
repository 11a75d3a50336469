// Package binaural implements the stereo voice engine: two independently
// tunable sine oscillators routed to the left and right channels, a
// frequency policy (manual or base-plus-offset) and a post-mix master gain.
//
// A Generator is not safe for concurrent use. The live and offline paths each
// own their own instance.
package binaural
