// Package export writes study transcripts from a processing manifest
// as SRT or WebVTT files. Sections are laid out on a cumulative
// timeline built from their durations, so the transcript plays back
// against a concatenation of the per-section audio clips.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lbreton/ecoute/internal/manifest"
)

// Format identifies a transcript output format.
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "srt":
		return FormatSRT, nil
	case "vtt", "webvtt":
		return FormatVTT, nil
	default:
		return "", fmt.Errorf("unsupported transcript format: %s", name)
	}
}

// Extension returns the file extension for the format, with leading dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// Options controls transcript content.
type Options struct {
	// Bilingual includes the English translation on a second line
	// below the French text of each cue.
	Bilingual bool
}

type entry struct {
	start time.Duration
	end   time.Duration
	text  string
}

// Write renders the manifest sections to path in the given format.
func Write(m *manifest.Manifest, format Format, path string, opts Options) error {
	entries := buildEntries(m, opts)

	switch format {
	case FormatSRT:
		return writeSRT(entries, path)
	case FormatVTT:
		return writeVTT(entries, path)
	default:
		return fmt.Errorf("unsupported transcript format: %s", format)
	}
}

func buildEntries(m *manifest.Manifest, opts Options) []entry {
	entries := make([]entry, 0, len(m.Sections))
	var offset time.Duration

	for _, section := range m.Sections {
		dur := time.Duration(section.DurationSeconds * float64(time.Second))
		text := section.FrenchText
		if opts.Bilingual && section.EnglishText != "" {
			text = section.FrenchText + "\n" + section.EnglishText
		}
		entries = append(entries, entry{
			start: offset,
			end:   offset + dur,
			text:  text,
		})
		offset += dur
	}

	return entries
}

func writeSRT(entries []entry, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	var sb strings.Builder

	for i, e := range entries {
		// sequence number
		sb.WriteString(fmt.Sprintf("%d\n", i+1))

		// timestamps: 00:00:00,000 --> 00:00:00,000
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatSRTTime(e.start),
			formatSRTTime(e.end)))

		// text
		sb.WriteString(e.text)
		sb.WriteString("\n\n")
	}

	return os.WriteFile(path, []byte(sb.String()), 0644)
}

func writeVTT(entries []entry, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	var sb strings.Builder

	// header
	sb.WriteString("WEBVTT\n\n")

	for _, e := range entries {
		// timestamps: 00:00:00.000 --> 00:00:00.000
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatVTTTime(e.start),
			formatVTTTime(e.end)))

		// text
		sb.WriteString(e.text)
		sb.WriteString("\n\n")
	}

	return os.WriteFile(path, []byte(sb.String()), 0644)
}

func formatSRTTime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

func formatVTTTime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}
