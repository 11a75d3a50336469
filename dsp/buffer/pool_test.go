package buffer

import "testing"

func TestPoolGetShapeAndZeroed(t *testing.T) {
	p := NewPool()
	b := p.Get(2, 32)
	if b.NumChannels() != 2 || b.Len() != 32 {
		t.Fatalf("shape = %dx%d, want 2x32", b.NumChannels(), b.Len())
	}
	b.Channel(0)[5] = 1
	p.Put(b)

	b2 := p.Get(2, 16)
	for ch := 0; ch < 2; ch++ {
		for i, v := range b2.Channel(ch) {
			if v != 0 {
				t.Fatalf("ch%d[%d] = %v, want 0", ch, i, v)
			}
		}
	}
}

func TestPoolPutNil(t *testing.T) {
	p := NewPool()
	p.Put(nil)
}
