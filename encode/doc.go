// Package encode streams planar float blocks into audio files.
//
// Formats form a closed set ([FormatWAV], [FormatMP3]) behind the uniform
// [Sink] interface, so a render loop never depends on the container it
// writes. WAV is written natively with github.com/go-audio/wav; MP3 is
// produced by piping 16-bit PCM into an external LAME encoder.
package encode
