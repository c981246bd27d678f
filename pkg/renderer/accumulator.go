package renderer

import (
	"math"
	"sync/atomic"
)

// Accumulator is the shared radiance buffer: three float32 per pixel,
// row-major. Workers only ever add to it. Each add is a compare-and-swap
// loop on the float's bit pattern, so concurrent writers never tear or lose
// an update and no lock is taken.
type Accumulator struct {
	Width, Height int
	bits          []uint32
}

// NewAccumulator creates a zeroed buffer for a width × height canvas
func NewAccumulator(width, height int) *Accumulator {
	return &Accumulator{
		Width:  width,
		Height: height,
		bits:   make([]uint32, width*height*3),
	}
}

// Len returns the number of float32 slots (3 per pixel)
func (a *Accumulator) Len() int {
	return len(a.bits)
}

// Add adds v to slot i
func (a *Accumulator) Add(i int, v float32) {
	if v == 0 {
		return
	}
	addr := &a.bits[i]
	for {
		old := atomic.LoadUint32(addr)
		next := math.Float32bits(math.Float32frombits(old) + v)
		if atomic.CompareAndSwapUint32(addr, old, next) {
			return
		}
	}
}

// AddPixel adds an RGB triple to pixel (x, y)
func (a *Accumulator) AddPixel(x, y int, r, g, b float64) {
	i := (y*a.Width + x) * 3
	a.Add(i, float32(r))
	a.Add(i+1, float32(g))
	a.Add(i+2, float32(b))
}

// Pixel returns the accumulated RGB of pixel (x, y)
func (a *Accumulator) Pixel(x, y int) (r, g, b float32) {
	i := (y*a.Width + x) * 3
	return a.load(i), a.load(i + 1), a.load(i + 2)
}

// Snapshot copies the buffer. Concurrent adds may or may not be included.
func (a *Accumulator) Snapshot() []float32 {
	out := make([]float32, len(a.bits))
	for i := range a.bits {
		out[i] = a.load(i)
	}
	return out
}

// Reset zeroes every slot
func (a *Accumulator) Reset() {
	for i := range a.bits {
		atomic.StoreUint32(&a.bits[i], 0)
	}
}

func (a *Accumulator) load(i int) float32 {
	return math.Float32frombits(atomic.LoadUint32(&a.bits[i]))
}

// PhotonCounters holds one photon counter per worker
type PhotonCounters struct {
	slots []atomic.Uint64
}

// NewPhotonCounters creates n zeroed counters
func NewPhotonCounters(n int) *PhotonCounters {
	return &PhotonCounters{slots: make([]atomic.Uint64, n)}
}

// Len returns the number of counters
func (pc *PhotonCounters) Len() int {
	return len(pc.slots)
}

// Add adds n photons to worker i's counter
func (pc *PhotonCounters) Add(i int, n uint64) {
	pc.slots[i].Add(n)
}

// Load returns worker i's count
func (pc *PhotonCounters) Load(i int) uint64 {
	return pc.slots[i].Load()
}

// Total returns the sum over all workers
func (pc *PhotonCounters) Total() uint64 {
	var total uint64
	for i := range pc.slots {
		total += pc.slots[i].Load()
	}
	return total
}

// Reset zeroes every counter
func (pc *PhotonCounters) Reset() {
	for i := range pc.slots {
		pc.slots[i].Store(0)
	}
}

// SharedBuffers are the buffers every worker of one render writes into
type SharedBuffers struct {
	Accumulator *Accumulator
	Photons     *PhotonCounters
}

// NewSharedBuffers allocates buffers for a canvas and worker count
func NewSharedBuffers(width, height, workers int) SharedBuffers {
	return SharedBuffers{
		Accumulator: NewAccumulator(width, height),
		Photons:     NewPhotonCounters(workers),
	}
}
