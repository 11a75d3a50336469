package buffer

import "testing"

func TestNewZeroFilled(t *testing.T) {
	b := New(2, 8)
	if b.NumChannels() != 2 || b.Len() != 8 {
		t.Fatalf("shape = %dx%d, want 2x8", b.NumChannels(), b.Len())
	}
	for ch := 0; ch < b.NumChannels(); ch++ {
		for i, v := range b.Channel(ch) {
			if v != 0 {
				t.Fatalf("ch%d[%d] = %v, want 0", ch, i, v)
			}
		}
	}
}

func TestNewNegativeShape(t *testing.T) {
	b := New(-1, -1)
	if b.NumChannels() != 0 || b.Len() != 0 {
		t.Fatalf("shape = %dx%d, want 0x0", b.NumChannels(), b.Len())
	}
}

func TestFromChannelsSharesMemory(t *testing.T) {
	l := []float64{1, 2, 3}
	r := []float64{4, 5}
	b := FromChannels(l, r)
	if b.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", b.Len())
	}
	b.Channel(0)[0] = 99
	if l[0] != 99 {
		t.Fatal("FromChannels should share underlying memory")
	}
}

func TestResizeZeroesExposedSamples(t *testing.T) {
	b := New(2, 4)
	for ch := 0; ch < 2; ch++ {
		for i := range b.Channel(ch) {
			b.Channel(ch)[i] = 1
		}
	}
	b.Resize(2)
	b.Resize(4)
	for ch := 0; ch < 2; ch++ {
		if b.Channel(ch)[2] != 0 || b.Channel(ch)[3] != 0 {
			t.Fatalf("ch%d stale data after shrink/grow: %v", ch, b.Channel(ch))
		}
		if b.Channel(ch)[0] != 1 {
			t.Fatalf("ch%d lost data: %v", ch, b.Channel(ch))
		}
	}
}

func TestResizeReusesCapacity(t *testing.T) {
	b := New(2, 16)
	c := b.Cap()
	b.Resize(8)
	b.Resize(16)
	if b.Cap() != c {
		t.Fatalf("Cap() = %d, want %d", b.Cap(), c)
	}
}

func TestSetChannels(t *testing.T) {
	b := New(1, 4)
	b.Channel(0)[0] = 7
	b.SetChannels(3)
	if b.NumChannels() != 3 {
		t.Fatalf("NumChannels() = %d, want 3", b.NumChannels())
	}
	if len(b.Channel(2)) != 4 {
		t.Fatalf("new channel len = %d, want 4", len(b.Channel(2)))
	}
	if b.Channel(0)[0] != 7 {
		t.Fatal("SetChannels lost existing data")
	}
	b.SetChannels(1)
	if b.NumChannels() != 1 {
		t.Fatalf("NumChannels() = %d, want 1", b.NumChannels())
	}
}

func TestClearAndCopy(t *testing.T) {
	b := New(2, 3)
	b.Channel(1)[2] = 5
	c := b.Copy()
	b.Clear()
	if b.Channel(1)[2] != 0 {
		t.Fatal("Clear did not zero samples")
	}
	if c.Channel(1)[2] != 5 {
		t.Fatal("Copy should be independent of the source")
	}
}
