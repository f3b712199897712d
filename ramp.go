package gamma

import (
	"math"
	"strconv"
	"syscall"
	"unsafe"
)

// Sample is the type of a gamma ramp stop.
type Sample interface {
	uint8 | uint16 | uint32 | uint64 | float32 | float64
}

// Depth is the encoding of gamma ramp stops: the bit width for integer
// samples, DepthFloat for float32 and DepthDouble for float64.
type Depth int

// Depths.
const (
	Depth8      Depth = 8
	Depth16     Depth = 16
	Depth32     Depth = 32
	Depth64     Depth = 64
	DepthFloat  Depth = -1
	DepthDouble Depth = -2
)

// IsFloat reports whether the depth is a floating point encoding.
func (d Depth) IsFloat() bool {
	return d == DepthFloat || d == DepthDouble
}

// IsValid reports whether d is one of the defined depths.
func (d Depth) IsValid() bool {
	switch d {
	case Depth8, Depth16, Depth32, Depth64, DepthFloat, DepthDouble:
		return true
	}
	return false
}

func (d Depth) String() string {
	switch d {
	case DepthFloat:
		return "float"
	case DepthDouble:
		return "double"
	}
	return strconv.Itoa(int(d))
}

// depthOf returns the depth of sample type T.
func depthOf[T Sample]() Depth {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return Depth8
	case uint16:
		return Depth16
	case uint32:
		return Depth32
	case uint64:
		return Depth64
	case float32:
		return DepthFloat
	default:
		return DepthDouble
	}
}

// MaxRampSize is the largest number of stops a single ramp may have.
// Larger sizes are reported as out of memory without allocating.
var MaxRampSize = 1 << 24

// Ramp is the gamma ramp of one channel.
type Ramp[T Sample] struct {
	samples []T
}

// Size is the number of stops.
func (r Ramp[T]) Size() int {
	return len(r.samples)
}

// At returns stop i. The index must be in [0, Size()).
func (r Ramp[T]) At(i int) T {
	return r.samples[i]
}

// Set stop i to v. The index must be in [0, Size()).
func (r Ramp[T]) Set(i int, v T) {
	r.samples[i] = v
}

// Samples returns the stops. The slice shares memory with the ramp.
func (r Ramp[T]) Samples() []T {
	return r.samples
}

// GammaRamps is a set of red, green and blue gamma ramps.
type GammaRamps[T Sample] struct {
	Red, Green, Blue Ramp[T]
}

// Ramp sets per sample type.
type (
	GammaRamps8  = GammaRamps[uint8]
	GammaRamps16 = GammaRamps[uint16]
	GammaRamps32 = GammaRamps[uint32]
	GammaRamps64 = GammaRamps[uint64]
	GammaRampsF  = GammaRamps[float32]
	GammaRampsD  = GammaRamps[float64]
)

// NewGammaRamps allocates a zeroed set of ramps with the given sizes. A size
// may be zero. Sizes that cannot be allocated return an *Error with Errno
// ErrOutOfMemory.
func NewGammaRamps[T Sample](red, green, blue int) (*GammaRamps[T], error) {
	var (
		zero  T
		width = int(unsafe.Sizeof(zero))
	)
	for _, size := range [3]int{red, green, blue} {
		if size < 0 {
			return nil, &Error{Op: "allocate gamma ramps", Code: ErrImpossibleAmount}
		}
		if size > MaxRampSize || size > math.MaxInt/width {
			return nil, &Error{Op: "allocate gamma ramps", Code: ErrErrnoSet, Errno: ErrOutOfMemory}
		}
	}
	return &GammaRamps[T]{
		Red:   Ramp[T]{samples: make([]T, red)},
		Green: Ramp[T]{samples: make([]T, green)},
		Blue:  Ramp[T]{samples: make([]T, blue)},
	}, nil
}

// Close releases the ramps. The set must not be used afterwards.
func (r *GammaRamps[T]) Close() {
	r.Red.samples = nil
	r.Green.samples = nil
	r.Blue.samples = nil
}

// Sizes returns the red, green and blue ramp sizes.
func (r *GammaRamps[T]) Sizes() (red, green, blue int) {
	return r.Red.Size(), r.Green.Size(), r.Blue.Size()
}

// Depth returns the sample encoding.
func (r *GammaRamps[T]) Depth() Depth {
	return depthOf[T]()
}

// Identity fills the ramps with a linear ramp from zero to full intensity.
func (r *GammaRamps[T]) Identity() {
	for _, ramp := range [3]Ramp[T]{r.Red, r.Green, r.Blue} {
		identity(ramp.samples)
	}
}

func (r *GammaRamps[T]) copyFrom(src RampSet) {
	switch s := src.(type) {
	case *GammaRamps[uint8]:
		convertRamps(r, s)
	case *GammaRamps[uint16]:
		convertRamps(r, s)
	case *GammaRamps[uint32]:
		convertRamps(r, s)
	case *GammaRamps[uint64]:
		convertRamps(r, s)
	case *GammaRamps[float32]:
		convertRamps(r, s)
	case *GammaRamps[float64]:
		convertRamps(r, s)
	}
}

func (r *GammaRamps[T]) newLike(red, green, blue int) (RampSet, error) {
	return NewGammaRamps[T](red, green, blue)
}

// RampSet is a set of gamma ramps of any sample type; it is implemented by
// *GammaRamps[T] only.
type RampSet interface {
	Sizes() (red, green, blue int)
	Depth() Depth
	Identity()
	Close()

	// copyFrom converts src into the receiver. Sizes must match.
	copyFrom(src RampSet)

	// newLike allocates a ramp set of the same sample type.
	newLike(red, green, blue int) (RampSet, error)
}

// NewRampSet allocates a ramp set of the given depth, for example the
// GammaDepth of a CRTC, with every stop zero.
func NewRampSet(depth Depth, red, green, blue int) (RampSet, error) {
	switch depth {
	case Depth8:
		return NewGammaRamps[uint8](red, green, blue)
	case Depth16:
		return NewGammaRamps[uint16](red, green, blue)
	case Depth32:
		return NewGammaRamps[uint32](red, green, blue)
	case Depth64:
		return NewGammaRamps[uint64](red, green, blue)
	case DepthFloat:
		return NewGammaRamps[float32](red, green, blue)
	case DepthDouble:
		return NewGammaRamps[float64](red, green, blue)
	}
	return nil, &Error{Op: "allocate gamma ramps", Code: ErrErrnoSet, Errno: syscall.EINVAL}
}

func convertRamps[D, S Sample](dst *GammaRamps[D], src *GammaRamps[S]) {
	convert(dst.Red.samples, src.Red.samples)
	convert(dst.Green.samples, src.Green.samples)
	convert(dst.Blue.samples, src.Blue.samples)
}

// maxOf returns the largest integer sample of depth d.
func maxOf(d Depth) uint64 {
	if d == Depth64 {
		return math.MaxUint64
	}
	return 1<<uint(d) - 1
}

// replicate returns the factor that widens a sample of depth d to 64 bits by
// repeating its bit pattern.
func replicate(d Depth) uint64 {
	return math.MaxUint64 / maxOf(d)
}

// convert rescales src into dst. Integer samples are widened by bit
// replication and narrowed by truncation, so widening and narrowing back
// round-trips exactly. Float samples map [0, 1] onto the full integer range.
func convert[D, S Sample](dst []D, src []S) {
	sd, dd := depthOf[S](), depthOf[D]()
	if sd == dd {
		for i := range dst {
			dst[i] = D(src[i])
		}
		return
	}

	switch {
	case sd.IsFloat() && dd.IsFloat():
		for i := range dst {
			dst[i] = D(src[i])
		}
	case sd.IsFloat():
		for i := range dst {
			dst[i] = D(floatToInt(float64(src[i]), dd))
		}
	case dd.IsFloat():
		max := float64(maxOf(sd))
		for i := range dst {
			dst[i] = D(float64(src[i]) / max)
		}
	default:
		widen, shift := replicate(sd), 64-uint(dd)
		for i := range dst {
			dst[i] = D(uint64(src[i]) * widen >> shift)
		}
	}
}

func floatToInt(f float64, d Depth) uint64 {
	switch {
	case f <= 0 || math.IsNaN(f):
		return 0
	case f >= 1:
		return maxOf(d)
	case d == Depth64:
		return uint64(f * 0x1p64)
	}
	return uint64(math.Round(f * float64(maxOf(d))))
}

// identity fills s with a linear ramp.
func identity[T Sample](s []T) {
	n := len(s)
	if n == 0 {
		return
	}
	if n == 1 {
		var zero T
		s[0] = zero
		return
	}
	d := depthOf[T]()
	for i := range s {
		f := float64(i) / float64(n-1)
		if d.IsFloat() {
			s[i] = T(f)
		} else {
			s[i] = T(floatToInt(f, d))
		}
	}
}
