package live

import (
	"fmt"

	"github.com/cwbudde/algo-binaural/binaural"
	"github.com/cwbudde/algo-binaural/dsp/buffer"
	"github.com/cwbudde/algo-binaural/params"
)

// Processor owns the live generator. It must be driven from a single
// goroutine; parameters are changed through the shared [params.Store].
type Processor struct {
	store *params.Store
	gen   *binaural.Generator
}

// NewProcessor creates a Processor reading from store.
func NewProcessor(store *params.Store) (*Processor, error) {
	if store == nil {
		return nil, fmt.Errorf("live: store must not be nil")
	}
	return &Processor{store: store, gen: binaural.New()}, nil
}

// Prepare configures the generator for sampleRate and blockSize and resets
// its phase.
func (p *Processor) Prepare(sampleRate float64, blockSize int) {
	p.gen.Prepare(sampleRate, blockSize)
	p.store.Snapshot().Apply(p.gen)
}

// Reset restarts both oscillators at zero phase.
func (p *Processor) Reset() { p.gen.Reset() }

// ProcessBlock renders one block. The parameter store is read exactly once,
// before any oscillator state changes. When muted the block is cleared and
// the generator is not advanced.
func (p *Processor) ProcessBlock(block *buffer.Block) {
	snap := p.store.Snapshot()
	if snap.Mute {
		block.Clear()
		return
	}

	snap.Apply(p.gen)
	p.gen.Process(block)
}

// Generator exposes the underlying generator for inspection.
func (p *Processor) Generator() *binaural.Generator { return p.gen }
