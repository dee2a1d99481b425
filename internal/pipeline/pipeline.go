// Package pipeline drives one complete processing run: decode, segment,
// then per segment transcribe, clean, translate, clean, persist audio,
// synthesize, and finally assemble the manifest. Per-segment collaborator
// failures never abort the run; one bad segment must not invalidate the
// rest of a long recording.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lbreton/ecoute/internal/audio"
	"github.com/lbreton/ecoute/internal/logging"
	"github.com/lbreton/ecoute/internal/manifest"
	"github.com/lbreton/ecoute/internal/segment"
	"github.com/lbreton/ecoute/internal/speech"
	"github.com/lbreton/ecoute/internal/textclean"
	"github.com/lbreton/ecoute/internal/translate"
	"github.com/lbreton/ecoute/internal/tts"
)

const (
	frenchAudioDir  = "french_audio"
	englishAudioDir = "english_audio"
	tempSegmentFile = "temp_segment.wav"

	placeholderExcerptLen = 50
)

// Observer is notified after each raw segment is handled. section is nil
// when the segment was skipped for an empty transcription.
type Observer interface {
	SegmentProcessed(index, total int, section *manifest.Section)
}

type noopObserver struct{}

func (noopObserver) SegmentProcessed(int, int, *manifest.Section) {}

// run settings
type Config struct {
	OutputDir   string
	Timestamped bool // append a run timestamp to output names
	Segmenter   segment.Config
	Compression audio.CompressionOptions
}

func DefaultConfig(outputDir string) Config {
	return Config{
		OutputDir:   outputDir,
		Timestamped: true,
		Segmenter:   segment.DefaultConfig(),
		Compression: audio.DefaultCompressionOptions(),
	}
}

type exportFunc func(ctx context.Context, buf *audio.Buffer, path string, opts audio.CompressionOptions) error

// Processor runs the pipeline over one input file at a time.
type Processor struct {
	cfg         Config
	recognizer  speech.Recognizer
	translator  translate.Translator
	synthesizer tts.Synthesizer
	logger      *logging.Logger
	observer    Observer

	export exportFunc
	now    func() time.Time
}

func New(
	cfg Config,
	recognizer speech.Recognizer,
	translator translate.Translator,
	synthesizer tts.Synthesizer,
	logger *logging.Logger,
) *Processor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Processor{
		cfg:         cfg,
		recognizer:  recognizer,
		translator:  translator,
		synthesizer: synthesizer,
		logger:      logger,
		observer:    noopObserver{},
		export:      audio.ExportCompressed,
		now:         time.Now,
	}
}

// SetObserver replaces the default no-op progress observer.
func (p *Processor) SetObserver(o Observer) {
	if o != nil {
		p.observer = o
	}
}

// Process decodes and segments inputPath, runs every segment through the
// collaborators, and writes the manifest. Decode and segmentation failures
// abort the run with no manifest written.
func (p *Processor) Process(ctx context.Context, inputPath string) (*manifest.Manifest, string, error) {
	buf, err := audio.Load(ctx, inputPath)
	if err != nil {
		return nil, "", err
	}
	return p.ProcessBuffer(ctx, buf, inputPath)
}

// ProcessBuffer runs the pipeline over an already-decoded buffer.
func (p *Processor) ProcessBuffer(
	ctx context.Context,
	buf *audio.Buffer,
	inputPath string,
) (*manifest.Manifest, string, error) {
	base := manifest.OutputBase(inputPath, p.cfg.Timestamped, p.now())

	segments := segment.Split(buf, p.cfg.Segmenter)
	p.logger.Infow("audio segmented",
		"input", inputPath,
		"segments", len(segments),
		"duration", buf.Duration().String(),
	)

	sections := make([]manifest.Section, 0, len(segments))
	for i, seg := range segments {
		section := p.processSegment(ctx, seg, base, len(sections)+1)
		if section != nil {
			sections = append(sections, *section)
		}
		p.observer.SegmentProcessed(i+1, len(segments), section)
	}

	m := &manifest.Manifest{
		FileName:        filepath.Base(inputPath),
		ProcessedAt:     p.now().Format(time.RFC3339),
		TotalSegments:   len(sections),
		TotalDuration:   buf.Duration().Seconds(),
		OutputDirectory: p.cfg.OutputDir,
		Sections:        sections,
	}

	path := filepath.Join(p.cfg.OutputDir, manifest.FileName(base))
	if err := manifest.Write(m, path); err != nil {
		return nil, "", err
	}

	p.logger.Infow("processing complete",
		"sections", len(sections),
		"manifest", path,
	)

	return m, path, nil
}

// processSegment runs one segment through the collaborators. It returns
// nil when the segment yields no transcription; every other failure is
// absorbed and reflected only as missing or placeholder data.
func (p *Processor) processSegment(
	ctx context.Context,
	seg segment.Segment,
	base string,
	number int,
) *manifest.Section {
	frenchText := p.transcribe(ctx, seg)
	if frenchText == "" {
		p.logger.Infow("skipping segment, no transcription", "start", seg.Start.String())
		return nil
	}
	frenchText = textclean.Clean(frenchText)

	englishText, err := p.translator.Translate(ctx, frenchText)
	if err != nil {
		p.logger.Warnw("translation failed", "error", err)
		englishText = translationPlaceholder(frenchText)
	}
	englishText = textclean.Clean(englishText)

	frenchRel := filepath.Join(frenchAudioDir, fmt.Sprintf("%s_fr_%03d.mp3", base, number))
	englishRel := filepath.Join(englishAudioDir, fmt.Sprintf("%s_en_%03d.mp3", base, number))

	frenchAbs := filepath.Join(p.cfg.OutputDir, frenchRel)
	if err := p.export(ctx, seg.Buffer, frenchAbs, p.cfg.Compression); err != nil {
		p.logger.Warnw("failed to export segment audio", "path", frenchAbs, "error", err)
	}

	englishAbs := filepath.Join(p.cfg.OutputDir, englishRel)
	if err := p.synthesizer.Synthesize(ctx, englishText, englishAbs); err != nil {
		p.logger.Warnw("synthesis failed", "path", englishAbs, "error", err)
	}

	return &manifest.Section{
		FrenchText:           frenchText,
		EnglishText:          englishText,
		FrenchAudioFilePath:  frenchRel,
		EnglishAudioFilePath: englishRel,
		DurationSeconds:      seg.Duration().Seconds(),
		SegmentNumber:        number,
	}
}

// transcribe writes the segment to the transient working file, hands it to
// the recognizer, and removes the file whatever the outcome. Unintelligible
// audio and service errors both come back as an empty transcription.
func (p *Processor) transcribe(ctx context.Context, seg segment.Segment) string {
	tempPath := filepath.Join(p.cfg.OutputDir, tempSegmentFile)
	defer os.Remove(tempPath)

	if err := os.MkdirAll(p.cfg.OutputDir, 0755); err != nil {
		p.logger.Warnw("failed to create output directory", "error", err)
		return ""
	}
	if err := audio.WriteWAV(seg.Buffer, tempPath); err != nil {
		p.logger.Warnw("failed to write working file", "error", err)
		return ""
	}

	text, err := p.recognizer.Recognize(ctx, tempPath)
	if err != nil {
		if errors.Is(err, speech.ErrNoSpeech) {
			p.logger.Debugw("could not understand audio segment", "start", seg.Start.String())
		} else {
			p.logger.Warnw("speech recognition failed", "error", err)
		}
		return ""
	}

	return text
}

func translationPlaceholder(frenchText string) string {
	excerpt := []rune(frenchText)
	if len(excerpt) > placeholderExcerptLen {
		excerpt = excerpt[:placeholderExcerptLen]
	}
	return fmt.Sprintf("[Translation failed for: %s...]", string(excerpt))
}
