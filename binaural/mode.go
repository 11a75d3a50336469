package binaural

import "fmt"

// Mode selects how the oscillator frequencies are derived.
type Mode int

const (
	// ModeManual sets the left and right frequencies independently.
	ModeManual Mode = iota
	// ModeBinaural sets left = base and right = base + offset.
	ModeBinaural
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case ModeManual:
		return "manual"
	case ModeBinaural:
		return "binaural"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ModeFromBool maps the host's boolean mode parameter (true = binaural).
func ModeFromBool(binaural bool) Mode {
	if binaural {
		return ModeBinaural
	}
	return ModeManual
}

// ParseMode parses "manual" or "binaural".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "manual":
		return ModeManual, nil
	case "binaural":
		return ModeBinaural, nil
	default:
		return 0, fmt.Errorf("binaural: unknown mode %q", s)
	}
}
