package audio

import (
	"math"
	"time"
)

// sample rate used for speech recognition
const DefaultSampleRate = 16000

const maxSampleValue = 32768.0

// normalization headroom below full scale, in dB
const normalizeHeadroomDB = 0.1

// decoded mono PCM audio held in memory
type Buffer struct {
	Samples    []int16
	SampleRate int
}

// length of the buffer as wall-clock time
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(b.Samples)) * time.Second / time.Duration(b.SampleRate)
}

// RMS loudness relative to full scale, in dB. Empty or silent
// buffers report negative infinity.
func (b *Buffer) DBFS() float64 {
	return dbfs(b.Samples)
}

// Slice returns the samples between start and end as a new buffer sharing
// the underlying array. Bounds are clamped to the buffer.
func (b *Buffer) Slice(start, end time.Duration) *Buffer {
	lo := b.sampleIndex(start)
	hi := b.sampleIndex(end)
	if hi > len(b.Samples) {
		hi = len(b.Samples)
	}
	if lo > hi {
		lo = hi
	}
	return &Buffer{
		Samples:    b.Samples[lo:hi],
		SampleRate: b.SampleRate,
	}
}

func (b *Buffer) sampleIndex(at time.Duration) int {
	if at < 0 {
		return 0
	}
	idx := int(int64(at) * int64(b.SampleRate) / int64(time.Second))
	if idx > len(b.Samples) {
		idx = len(b.Samples)
	}
	return idx
}

// Normalize scales the samples so the peak sits normalizeHeadroomDB below
// full scale. A silent buffer is returned unchanged.
func (b *Buffer) Normalize() {
	var peak float64
	for _, s := range b.Samples {
		v := math.Abs(float64(s))
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		return
	}

	target := maxSampleValue * math.Pow(10, -normalizeHeadroomDB/20)
	gain := target / peak
	for i, s := range b.Samples {
		v := float64(s) * gain
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		b.Samples[i] = int16(v)
	}
}

func dbfs(samples []int16) float64 {
	if len(samples) == 0 {
		return math.Inf(-1)
	}
	var sum float64
	for _, s := range samples {
		v := float64(s)
		sum += v * v
	}
	rms := math.Sqrt(sum / float64(len(samples)))
	if rms == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(rms/maxSampleValue)
}

// RMSLevel reports the loudness of an arbitrary sample window in dBFS.
func RMSLevel(samples []int16) float64 {
	return dbfs(samples)
}
