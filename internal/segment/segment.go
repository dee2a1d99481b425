// Package segment isolates spoken utterances in a decoded recording.
// Candidate boundaries come from silence detection against the recording's
// own loudness; a duration policy then drops fragments too short to
// transcribe and re-chunks stretches too long to send to recognition.
package segment

import (
	"time"

	"github.com/lbreton/ecoute/internal/audio"
)

// analysis window for per-frame loudness
const frameDuration = 10 * time.Millisecond

// splitting policy
type Config struct {
	MinSilence      time.Duration // silence run length that marks a boundary
	SilenceMarginDB float64       // threshold below the buffer's mean loudness
	KeepSilence     time.Duration // padding retained at segment edges
	MinDuration     time.Duration // candidates at or under this are dropped
	MaxDuration     time.Duration // candidates over this are re-chunked
	ChunkDuration   time.Duration // re-chunk size for long candidates
	MinChunk        time.Duration // re-chunked pieces at or under this are dropped
}

func DefaultConfig() Config {
	return Config{
		MinSilence:      time.Second,
		SilenceMarginDB: 16,
		KeepSilence:     500 * time.Millisecond,
		MinDuration:     3 * time.Second,
		MaxDuration:     30 * time.Second,
		ChunkDuration:   20 * time.Second,
		MinChunk:        5 * time.Second,
	}
}

// one utterance candidate within the source recording
type Segment struct {
	Start  time.Duration
	End    time.Duration
	Buffer *audio.Buffer
}

func (s Segment) Duration() time.Duration {
	return s.End - s.Start
}

type span struct {
	start time.Duration
	end   time.Duration
}

// Split partitions a buffer into utterance segments in temporal order.
// A recording with no qualifying silence gap and a total duration at or
// under MinDuration yields no segments; that is not an error.
func Split(buf *audio.Buffer, cfg Config) []Segment {
	candidates := detectUtterances(buf, cfg)

	var spans []span
	for _, c := range candidates {
		dur := c.end - c.start
		switch {
		case dur > cfg.MaxDuration:
			for off := time.Duration(0); off < dur; off += cfg.ChunkDuration {
				chunkEnd := off + cfg.ChunkDuration
				if chunkEnd > dur {
					chunkEnd = dur
				}
				if chunkEnd-off > cfg.MinChunk {
					spans = append(spans, span{c.start + off, c.start + chunkEnd})
				}
			}
		case dur > cfg.MinDuration:
			spans = append(spans, c)
		}
	}

	segments := make([]Segment, 0, len(spans))
	for _, s := range spans {
		segments = append(segments, Segment{
			Start:  s.start,
			End:    s.end,
			Buffer: buf.Slice(s.start, s.end),
		})
	}
	return segments
}

// detectUtterances returns the non-silent spans of the buffer, each padded
// with KeepSilence on both sides. The silence threshold sits
// SilenceMarginDB below the buffer's overall loudness, so quiet recordings
// still split on their own relative pauses.
func detectUtterances(buf *audio.Buffer, cfg Config) []span {
	total := buf.Duration()
	if total == 0 {
		return nil
	}

	threshold := buf.DBFS() - cfg.SilenceMarginDB

	frameSamples := int(int64(frameDuration) * int64(buf.SampleRate) / int64(time.Second))
	if frameSamples < 1 {
		frameSamples = 1
	}
	numFrames := (len(buf.Samples) + frameSamples - 1) / frameSamples

	silent := make([]bool, numFrames)
	for i := 0; i < numFrames; i++ {
		lo := i * frameSamples
		hi := lo + frameSamples
		if hi > len(buf.Samples) {
			hi = len(buf.Samples)
		}
		silent[i] = audio.RMSLevel(buf.Samples[lo:hi]) <= threshold
	}

	minSilentFrames := int(cfg.MinSilence / frameDuration)
	if minSilentFrames < 1 {
		minSilentFrames = 1
	}

	// maximal silent runs long enough to count as boundaries
	var boundaries []span
	runStart := -1
	for i := 0; i <= numFrames; i++ {
		if i < numFrames && silent[i] {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		if runStart >= 0 && i-runStart >= minSilentFrames {
			boundaries = append(boundaries, span{
				start: time.Duration(runStart) * frameDuration,
				end:   time.Duration(i) * frameDuration,
			})
		}
		runStart = -1
	}

	// complement of the boundaries, padded with kept silence
	var utterances []span
	cursor := time.Duration(0)
	prevEnd := time.Duration(0)
	emit := func(start, end time.Duration) {
		if end <= start {
			return
		}
		start -= cfg.KeepSilence
		end += cfg.KeepSilence
		if start < prevEnd {
			start = prevEnd
		}
		if end > total {
			end = total
		}
		utterances = append(utterances, span{start, end})
		prevEnd = end
	}
	for _, b := range boundaries {
		emit(cursor, b.start)
		cursor = b.end
	}
	emit(cursor, total)

	return utterances
}
