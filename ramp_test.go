package gamma

import (
	"errors"
	"math"
	"testing"
)

func TestNewGammaRamps(t *testing.T) {
	r, err := NewGammaRamps[uint16](256, 128, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if red, green, blue := r.Sizes(); red != 256 || green != 128 || blue != 0 {
		t.Errorf("expected sizes 256, 128, 0, got %d, %d, %d", red, green, blue)
	}
	if d := r.Depth(); d != Depth16 {
		t.Errorf("expected depth 16, got %s", d)
	}

	if _, err = NewGammaRamps[uint8](-1, 256, 256); CodeOf(err) != ErrImpossibleAmount {
		t.Errorf("expected %v, got %v", ErrImpossibleAmount, err)
	}

	_, err = NewGammaRamps[float64](256, MaxRampSize+1, 256)
	if !errors.Is(err, ErrOutOfMemory) {
		t.Errorf("expected out of memory, got %v", err)
	}
	if CodeOf(err) != ErrErrnoSet {
		t.Errorf("expected %v, got %v", ErrErrnoSet, CodeOf(err))
	}
}

func testRampValues[T Sample](t *testing.T, values ...T) {
	t.Helper()
	r, err := NewGammaRamps[T](len(values), 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range values {
		r.Red.Set(i, v)
	}
	for i, want := range values {
		if got := r.Red.At(i); got != want {
			t.Errorf("%s: expected stop %d to be %v, got %v", r.Depth(), i, want, got)
		}
	}
}

func TestRampSetAt(t *testing.T) {
	testRampValues[uint8](t, 0, 1, 0x7f, 0xff)
	testRampValues[uint16](t, 0, 1, 0x7fff, 0xffff)
	testRampValues[uint32](t, 0, 1, 0x7fffffff, math.MaxUint32)
	testRampValues[uint64](t, 0, 1, 1<<63, math.MaxUint64)
	testRampValues[float32](t, 0, 0.5, 1, -0.25, 1.5)
	testRampValues[float64](t, 0, 0.5, 1, -0.25, 1.5)
}

func TestIdentity(t *testing.T) {
	r8, _ := NewGammaRamps[uint8](256, 256, 256)
	r8.Identity()
	for i := 0; i < 256; i++ {
		if v := r8.Green.At(i); int(v) != i {
			t.Fatalf("expected stop %d to be %d, got %d", i, i, v)
		}
	}

	r16, _ := NewGammaRamps[uint16](256, 256, 256)
	r16.Identity()
	for i := 0; i < 256; i++ {
		if v := r16.Blue.At(i); int(v) != i*0x101 {
			t.Fatalf("expected stop %d to be %#04x, got %#04x", i, i*0x101, v)
		}
	}

	rd, _ := NewGammaRamps[float64](3, 1, 0)
	rd.Identity()
	for i, want := range []float64{0, 0.5, 1} {
		if v := rd.Red.At(i); v != want {
			t.Errorf("expected stop %d to be %g, got %g", i, want, v)
		}
	}
	if v := rd.Green.At(0); v != 0 {
		t.Errorf("expected single stop ramp to be 0, got %g", v)
	}
}

func convertOne[D, S Sample](v S) D {
	dst := make([]D, 1)
	convert(dst, []S{v})
	return dst[0]
}

func TestConvert(t *testing.T) {
	if v := convertOne[uint16](uint8(0xab)); v != 0xabab {
		t.Errorf("8 to 16: expected 0xabab, got %#04x", v)
	}
	if v := convertOne[uint32](uint8(0xab)); v != 0xabababab {
		t.Errorf("8 to 32: expected 0xabababab, got %#08x", v)
	}
	if v := convertOne[uint64](uint8(0xff)); v != math.MaxUint64 {
		t.Errorf("8 to 64: expected max, got %#x", v)
	}
	if v := convertOne[uint64](uint16(0x1234)); v != 0x1234123412341234 {
		t.Errorf("16 to 64: expected 0x1234123412341234, got %#x", v)
	}
	if v := convertOne[uint8](uint16(0xabcd)); v != 0xab {
		t.Errorf("16 to 8: expected 0xab, got %#02x", v)
	}
	if v := convertOne[uint16](uint64(math.MaxUint64)); v != 0xffff {
		t.Errorf("64 to 16: expected 0xffff, got %#04x", v)
	}

	if v := convertOne[float32](uint16(0xffff)); v != 1 {
		t.Errorf("16 to float: expected 1, got %g", v)
	}
	if v := convertOne[float64](uint8(0)); v != 0 {
		t.Errorf("8 to double: expected 0, got %g", v)
	}
	if v := convertOne[uint16](float32(0.5)); v != 0x8000 {
		t.Errorf("float to 16: expected 0x8000, got %#04x", v)
	}
	if v := convertOne[uint64](float64(1)); v != math.MaxUint64 {
		t.Errorf("double to 64: expected max, got %#x", v)
	}
	if v := convertOne[uint64](float64(0.5)); v != 1<<63 {
		t.Errorf("double to 64: expected 1<<63, got %#x", v)
	}
	if v := convertOne[uint8](float64(-0.5)); v != 0 {
		t.Errorf("double to 8: expected clamping to 0, got %d", v)
	}
	if v := convertOne[uint8](float32(2)); v != 0xff {
		t.Errorf("float to 8: expected clamping to 0xff, got %d", v)
	}
	if v := convertOne[float64](float32(0.25)); v != 0.25 {
		t.Errorf("float to double: expected 0.25, got %g", v)
	}
}

func TestConvertRoundTrip(t *testing.T) {
	src, _ := NewGammaRamps[uint8](256, 256, 256)
	for i := 0; i < 256; i++ {
		src.Red.Set(i, uint8(i))
		src.Green.Set(i, uint8(255-i))
		src.Blue.Set(i, uint8(i^0x55))
	}

	for _, depth := range []Depth{Depth16, Depth32, Depth64, DepthFloat, DepthDouble} {
		t.Run(depth.String(), func(t *testing.T) {
			mid, err := NewRampSet(depth, 256, 256, 256)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			mid.copyFrom(src)
			back, _ := NewGammaRamps[uint8](256, 256, 256)
			back.copyFrom(mid)
			for i := 0; i < 256; i++ {
				if back.Red.At(i) != src.Red.At(i) || back.Green.At(i) != src.Green.At(i) || back.Blue.At(i) != src.Blue.At(i) {
					t.Fatalf("stop %d did not round-trip", i)
				}
			}
		})
	}
}

func TestNewRampSet(t *testing.T) {
	for _, depth := range []Depth{Depth8, Depth16, Depth32, Depth64, DepthFloat, DepthDouble} {
		t.Run(depth.String(), func(t *testing.T) {
			ramps, err := NewRampSet(depth, 3, 2, 1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer ramps.Close()
			if ramps.Depth() != depth {
				t.Errorf("expected depth %s, got %s", depth, ramps.Depth())
			}
			if r, g, b := ramps.Sizes(); r != 3 || g != 2 || b != 1 {
				t.Errorf("expected sizes 3, 2, 1, got %d, %d, %d", r, g, b)
			}
		})
	}
}

func TestNewRampSetInvalidDepth(t *testing.T) {
	if _, err := NewRampSet(Depth(12), 1, 1, 1); CodeOf(err) != ErrErrnoSet {
		t.Errorf("expected %v, got %v", ErrErrnoSet, err)
	}
}
