package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/lbreton/ecoute/internal/audio"
	"github.com/lbreton/ecoute/internal/manifest"
	"github.com/lbreton/ecoute/internal/speech"
)

// twoUtteranceBuffer yields exactly two segments when split with defaults.
func twoUtteranceBuffer() *audio.Buffer {
	stretches := []struct {
		d      time.Duration
		speech bool
	}{
		{6 * time.Second, true},
		{2 * time.Second, false},
		{5 * time.Second, true},
	}
	var samples []int16
	for _, st := range stretches {
		n := int(int64(st.d) * audio.DefaultSampleRate / int64(time.Second))
		for i := 0; i < n; i++ {
			var s int16
			if st.speech {
				if i%2 == 0 {
					s = 16000
				} else {
					s = -16000
				}
			}
			samples = append(samples, s)
		}
	}
	return &audio.Buffer{Samples: samples, SampleRate: audio.DefaultSampleRate}
}

func silentBuffer(d time.Duration) *audio.Buffer {
	n := int(int64(d) * audio.DefaultSampleRate / int64(time.Second))
	return &audio.Buffer{Samples: make([]int16, n), SampleRate: audio.DefaultSampleRate}
}

type fakeRecognizer struct {
	texts []string // one per call; "" means ErrNoSpeech
	errs  []error  // optional per-call service errors
	calls int
}

func (f *fakeRecognizer) Recognize(ctx context.Context, wavPath string) (string, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i >= len(f.texts) || f.texts[i] == "" {
		return "", speech.ErrNoSpeech
	}
	return f.texts[i], nil
}

type fakeTranslator struct {
	failOn map[int]bool
	calls  int
}

func (f *fakeTranslator) Translate(ctx context.Context, text string) (string, error) {
	i := f.calls
	f.calls++
	if f.failOn[i] {
		return "", errors.New("translation service unavailable")
	}
	return "EN: " + text, nil
}

type fakeSynthesizer struct {
	fail  bool
	paths []string
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text, outputPath string) error {
	f.paths = append(f.paths, outputPath)
	if f.fail {
		return errors.New("tts unavailable")
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(outputPath, []byte("mp3"), 0644)
}

type recordingObserver struct {
	indexes  []int
	sections []*manifest.Section
}

func (r *recordingObserver) SegmentProcessed(index, total int, section *manifest.Section) {
	r.indexes = append(r.indexes, index)
	r.sections = append(r.sections, section)
}

func newTestProcessor(t *testing.T, rec *fakeRecognizer, tr *fakeTranslator, syn *fakeSynthesizer) *Processor {
	t.Helper()
	cfg := DefaultConfig(t.TempDir())
	cfg.Timestamped = false
	p := New(cfg, rec, tr, syn, nil)
	p.export = func(ctx context.Context, buf *audio.Buffer, path string, opts audio.CompressionOptions) error {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		return os.WriteFile(path, []byte("mp3"), 0644)
	}
	p.now = func() time.Time { return time.Date(2026, 8, 26, 10, 30, 0, 0, time.UTC) }
	return p
}

func TestProcessBufferFullRun(t *testing.T) {
	rec := &fakeRecognizer{texts: []string{"Bonjour   tout le monde .", "C'est   bon ."}}
	tr := &fakeTranslator{}
	syn := &fakeSynthesizer{}
	p := newTestProcessor(t, rec, tr, syn)

	m, path, err := p.ProcessBuffer(context.Background(), twoUtteranceBuffer(), "/tmp/leçon.mp3")
	if err != nil {
		t.Fatalf("ProcessBuffer error: %v", err)
	}

	if m.FileName != "leçon.mp3" {
		t.Errorf("fileName = %q", m.FileName)
	}
	if m.TotalSegments != 2 || len(m.Sections) != 2 {
		t.Fatalf("totalSegments = %d, sections = %d, want 2", m.TotalSegments, len(m.Sections))
	}
	if m.TotalDuration < 12.9 || m.TotalDuration > 13.1 {
		t.Errorf("totalDuration = %v, want ~13", m.TotalDuration)
	}

	// transcriptions and translations are cleaned
	if m.Sections[0].FrenchText != "Bonjour tout le monde." {
		t.Errorf("frenchText = %q", m.Sections[0].FrenchText)
	}
	if m.Sections[0].EnglishText != "EN: Bonjour tout le monde." {
		t.Errorf("englishText = %q", m.Sections[0].EnglishText)
	}

	// dense numbering and zero-padded audio names
	for i, s := range m.Sections {
		if s.SegmentNumber != i+1 {
			t.Errorf("section %d segment_number = %d", i, s.SegmentNumber)
		}
		wantFr := fmt.Sprintf("french_audio/leçon_fr_%03d.mp3", i+1)
		if s.FrenchAudioFilePath != wantFr {
			t.Errorf("frenchAudioFilePath = %q, want %q", s.FrenchAudioFilePath, wantFr)
		}
		wantEn := fmt.Sprintf("english_audio/leçon_en_%03d.mp3", i+1)
		if s.EnglishAudioFilePath != wantEn {
			t.Errorf("englishAudioFilePath = %q, want %q", s.EnglishAudioFilePath, wantEn)
		}
		if s.DurationSeconds <= 0 {
			t.Errorf("section %d duration_seconds = %v", i, s.DurationSeconds)
		}
	}

	// manifest round-trips from disk
	if filepath.Base(path) != "leçon_processed.json" {
		t.Errorf("manifest path = %q", path)
	}
	loaded, err := manifest.Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !reflect.DeepEqual(m, loaded) {
		t.Error("manifest on disk differs from returned manifest")
	}

	// french audio exported, english synthesized
	for _, s := range m.Sections {
		if _, err := os.Stat(filepath.Join(p.cfg.OutputDir, s.FrenchAudioFilePath)); err != nil {
			t.Errorf("french audio missing: %v", err)
		}
		if _, err := os.Stat(filepath.Join(p.cfg.OutputDir, s.EnglishAudioFilePath)); err != nil {
			t.Errorf("english audio missing: %v", err)
		}
	}
}

func TestProcessBufferSkipsEmptyTranscription(t *testing.T) {
	// first segment is unintelligible; numbering stays dense from 1
	rec := &fakeRecognizer{texts: []string{"", "Deuxième phrase."}}
	p := newTestProcessor(t, rec, &fakeTranslator{}, &fakeSynthesizer{})

	m, _, err := p.ProcessBuffer(context.Background(), twoUtteranceBuffer(), "in.mp3")
	if err != nil {
		t.Fatalf("ProcessBuffer error: %v", err)
	}
	if len(m.Sections) != 1 {
		t.Fatalf("sections = %d, want 1", len(m.Sections))
	}
	if m.Sections[0].SegmentNumber != 1 {
		t.Errorf("segment_number = %d, want 1", m.Sections[0].SegmentNumber)
	}
	if !strings.Contains(m.Sections[0].FrenchAudioFilePath, "_fr_001") {
		t.Errorf("audio path %q not numbered densely", m.Sections[0].FrenchAudioFilePath)
	}
}

func TestProcessBufferRecognitionServiceErrorIsNotFatal(t *testing.T) {
	rec := &fakeRecognizer{
		texts: []string{"ignored", "Une phrase."},
		errs:  []error{errors.New("service unreachable"), nil},
	}
	p := newTestProcessor(t, rec, &fakeTranslator{}, &fakeSynthesizer{})

	m, _, err := p.ProcessBuffer(context.Background(), twoUtteranceBuffer(), "in.mp3")
	if err != nil {
		t.Fatalf("ProcessBuffer error: %v", err)
	}
	if len(m.Sections) != 1 || m.Sections[0].FrenchText != "Une phrase." {
		t.Errorf("unexpected sections: %+v", m.Sections)
	}
}

func TestProcessBufferTranslationFailureUsesPlaceholder(t *testing.T) {
	rec := &fakeRecognizer{texts: []string{"Première phrase.", "Deuxième phrase."}}
	tr := &fakeTranslator{failOn: map[int]bool{0: true}}
	p := newTestProcessor(t, rec, tr, &fakeSynthesizer{})

	m, _, err := p.ProcessBuffer(context.Background(), twoUtteranceBuffer(), "in.mp3")
	if err != nil {
		t.Fatalf("ProcessBuffer error: %v", err)
	}
	if len(m.Sections) != 2 {
		t.Fatalf("sections = %d, want 2: later segments must survive a translation failure", len(m.Sections))
	}
	if !strings.HasPrefix(m.Sections[0].EnglishText, "[Translation failed for: Première phrase.") {
		t.Errorf("placeholder = %q", m.Sections[0].EnglishText)
	}
	if m.Sections[1].EnglishText != "EN: Deuxième phrase." {
		t.Errorf("section 2 englishText = %q", m.Sections[1].EnglishText)
	}
}

func TestProcessBufferSynthesisFailureStillEmitsSection(t *testing.T) {
	rec := &fakeRecognizer{texts: []string{"Phrase.", "Autre phrase."}}
	syn := &fakeSynthesizer{fail: true}
	p := newTestProcessor(t, rec, &fakeTranslator{}, syn)

	m, _, err := p.ProcessBuffer(context.Background(), twoUtteranceBuffer(), "in.mp3")
	if err != nil {
		t.Fatalf("ProcessBuffer error: %v", err)
	}
	if len(m.Sections) != 2 {
		t.Errorf("sections = %d, want 2", len(m.Sections))
	}
	if len(syn.paths) != 2 {
		t.Errorf("synthesizer called %d times, want 2", len(syn.paths))
	}
}

func TestProcessBufferNoSegments(t *testing.T) {
	rec := &fakeRecognizer{}
	p := newTestProcessor(t, rec, &fakeTranslator{}, &fakeSynthesizer{})

	m, path, err := p.ProcessBuffer(context.Background(), silentBuffer(10*time.Second), "quiet.mp3")
	if err != nil {
		t.Fatalf("ProcessBuffer error: %v", err)
	}
	if m.TotalSegments != 0 || len(m.Sections) != 0 {
		t.Errorf("expected empty run, got %d sections", len(m.Sections))
	}
	if m.TotalDuration <= 0 {
		t.Errorf("totalDuration = %v, want > 0", m.TotalDuration)
	}
	if rec.calls != 0 {
		t.Errorf("recognizer called %d times for silent input", rec.calls)
	}

	// an empty run still writes a manifest with an empty sections array
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("manifest not written: %v", err)
	}
	if !strings.Contains(string(raw), `"sections": []`) {
		t.Errorf("empty sections not serialized as []: %s", raw)
	}
}

func TestProcessBufferRemovesWorkingFile(t *testing.T) {
	rec := &fakeRecognizer{texts: []string{"Un.", "Deux."}}
	p := newTestProcessor(t, rec, &fakeTranslator{}, &fakeSynthesizer{})

	if _, _, err := p.ProcessBuffer(context.Background(), twoUtteranceBuffer(), "in.mp3"); err != nil {
		t.Fatalf("ProcessBuffer error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(p.cfg.OutputDir, tempSegmentFile)); !os.IsNotExist(err) {
		t.Error("working file left behind after run")
	}
}

func TestProcessBufferObserverSeesEverySegment(t *testing.T) {
	rec := &fakeRecognizer{texts: []string{"", "Phrase."}}
	p := newTestProcessor(t, rec, &fakeTranslator{}, &fakeSynthesizer{})
	obs := &recordingObserver{}
	p.SetObserver(obs)

	if _, _, err := p.ProcessBuffer(context.Background(), twoUtteranceBuffer(), "in.mp3"); err != nil {
		t.Fatalf("ProcessBuffer error: %v", err)
	}

	if !reflect.DeepEqual(obs.indexes, []int{1, 2}) {
		t.Errorf("observer indexes = %v", obs.indexes)
	}
	if obs.sections[0] != nil {
		t.Error("skipped segment should report a nil section")
	}
	if obs.sections[1] == nil {
		t.Error("kept segment should report its section")
	}
}

func TestTimestampedOutputBase(t *testing.T) {
	rec := &fakeRecognizer{texts: []string{"Un.", "Deux."}}
	p := newTestProcessor(t, rec, &fakeTranslator{}, &fakeSynthesizer{})
	p.cfg.Timestamped = true

	_, path, err := p.ProcessBuffer(context.Background(), twoUtteranceBuffer(), "lesson.mp3")
	if err != nil {
		t.Fatalf("ProcessBuffer error: %v", err)
	}
	if filepath.Base(path) != "lesson_20260826_103000_processed.json" {
		t.Errorf("timestamped manifest name = %q", filepath.Base(path))
	}
}

func TestTranslationPlaceholderTruncates(t *testing.T) {
	long := strings.Repeat("é", 80)
	got := translationPlaceholder(long)
	want := "[Translation failed for: " + strings.Repeat("é", 50) + "...]"
	if got != want {
		t.Errorf("placeholder = %q, want %q", got, want)
	}

	short := translationPlaceholder("court")
	if short != "[Translation failed for: court...]" {
		t.Errorf("short placeholder = %q", short)
	}
}

func TestProcessMissingInputIsFatal(t *testing.T) {
	p := newTestProcessor(t, &fakeRecognizer{}, &fakeTranslator{}, &fakeSynthesizer{})
	_, _, err := p.Process(context.Background(), filepath.Join(t.TempDir(), "absent.mp3"))
	if !errors.Is(err, audio.ErrDecode) {
		t.Errorf("err = %v, want ErrDecode", err)
	}

	// no manifest may exist after a fatal failure
	names, _ := os.ReadDir(p.cfg.OutputDir)
	for _, n := range names {
		if strings.HasSuffix(n.Name(), "_processed.json") {
			t.Errorf("manifest %s written despite fatal failure", n.Name())
		}
	}
}
