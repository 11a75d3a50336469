// Package live drives a binaural generator in real time.
//
// A [Processor] reads a parameter snapshot once per block and renders into a
// planar block. A [Stream] adapts it to an interleaved float32 io.Reader, and
// a [Player] feeds that reader to the system audio device through oto.
package live
