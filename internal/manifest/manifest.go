// Package manifest defines the JSON study-packet record written after a
// processing run and consumed by the review dashboard. Field names are
// part of the on-disk contract and must not change.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const fileSuffix = "_processed.json"

// one processed utterance
type Section struct {
	FrenchText           string  `json:"frenchText"`
	EnglishText          string  `json:"englishText"`
	FrenchAudioFilePath  string  `json:"frenchAudioFilePath"`
	EnglishAudioFilePath string  `json:"englishAudioFilePath"`
	DurationSeconds      float64 `json:"duration_seconds"`
	SegmentNumber        int     `json:"segment_number"`
}

// one completed processing run
type Manifest struct {
	FileName        string    `json:"fileName"`
	ProcessedAt     string    `json:"processedAt"`
	TotalSegments   int       `json:"totalSegments"`
	TotalDuration   float64   `json:"totalDuration"`
	OutputDirectory string    `json:"outputDirectory"`
	Sections        []Section `json:"sections"`
}

// OutputBase derives the output file stem for a run. Standalone runs get a
// timestamp suffix so repeat runs never collide; dashboard runs reuse the
// bare stem and overwrite.
func OutputBase(inputPath string, timestamped bool, now time.Time) string {
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	if timestamped {
		return fmt.Sprintf("%s_%s", stem, now.Format("20060102_150405"))
	}
	return stem
}

// FileName returns the manifest file name for an output base.
func FileName(outputBase string) string {
	return outputBase + fileSuffix
}

// Write serializes the manifest as indented UTF-8 JSON with non-ASCII
// characters preserved literally.
func Write(m *Manifest, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	return nil
}

// Load reads a manifest back from disk.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	return &m, nil
}

// List returns the manifest file names in a directory, sorted.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list manifests: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), fileSuffix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	return names, nil
}
