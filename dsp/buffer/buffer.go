package buffer

// Block is a planar (one slice per channel) block of samples. All channels
// share the same length.
type Block struct {
	channels [][]float64
	length   int
}

// New returns a zero-filled Block with the given channel count and length.
func New(channels, length int) *Block {
	if channels < 0 {
		channels = 0
	}
	if length < 0 {
		length = 0
	}
	b := &Block{channels: make([][]float64, channels), length: length}
	for ch := range b.channels {
		b.channels[ch] = make([]float64, length)
	}
	return b
}

// FromChannels wraps existing channel slices without copying. The block
// length is the shortest channel length.
func FromChannels(channels ...[]float64) *Block {
	length := 0
	for i, ch := range channels {
		if i == 0 || len(ch) < length {
			length = len(ch)
		}
	}
	b := &Block{channels: make([][]float64, len(channels)), length: length}
	for i, ch := range channels {
		b.channels[i] = ch[:length]
	}
	return b
}

// NumChannels returns the channel count.
func (b *Block) NumChannels() int {
	return len(b.channels)
}

// Len returns the number of samples per channel.
func (b *Block) Len() int {
	return b.length
}

// Channel returns the samples of channel ch. The slice aliases the block.
func (b *Block) Channel(ch int) []float64 {
	return b.channels[ch]
}

// Channels returns all channel slices. The slices alias the block.
func (b *Block) Channels() [][]float64 {
	return b.channels
}

// Cap returns the smallest per-channel capacity.
func (b *Block) Cap() int {
	c := 0
	for i, ch := range b.channels {
		if i == 0 || cap(ch) < c {
			c = cap(ch)
		}
	}
	return c
}

// SetChannels changes the channel count, keeping existing channels and
// allocating new zeroed ones at the current length.
func (b *Block) SetChannels(channels int) {
	if channels < 0 {
		channels = 0
	}
	if channels <= cap(b.channels) {
		old := len(b.channels)
		b.channels = b.channels[:channels]
		for ch := old; ch < channels; ch++ {
			b.channels[ch] = resize(b.channels[ch], b.length)
			zero(b.channels[ch])
		}
		return
	}
	grown := make([][]float64, channels)
	copy(grown, b.channels)
	for ch := len(b.channels); ch < channels; ch++ {
		grown[ch] = make([]float64, b.length)
	}
	b.channels = grown
}

// Resize sets the per-channel length to n, reusing capacity when possible.
// Newly exposed samples are zeroed.
func (b *Block) Resize(n int) {
	if n < 0 {
		n = 0
	}
	old := b.length
	for ch := range b.channels {
		b.channels[ch] = resize(b.channels[ch], n)
		if n > old {
			zero(b.channels[ch][old:])
		}
	}
	b.length = n
}

// Clear sets every sample of every channel to 0.
func (b *Block) Clear() {
	for _, ch := range b.channels {
		zero(ch)
	}
}

// Copy returns a deep copy of the block.
func (b *Block) Copy() *Block {
	out := New(len(b.channels), b.length)
	for ch, s := range b.channels {
		copy(out.channels[ch], s)
	}
	return out
}

func resize(s []float64, n int) []float64 {
	if n <= cap(s) {
		return s[:n]
	}
	grown := make([]float64, n)
	copy(grown, s)
	return grown
}

func zero(s []float64) {
	for i := range s {
		s[i] = 0
	}
}
