package audio

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/lbreton/ecoute/internal/ffmpeg"
)

// ErrDecode marks inputs that cannot be read as audio. Per-run fatal.
var ErrDecode = errors.New("audio decode failed")

// settings for compressed segment export
type CompressionOptions struct {
	Format     string // output format (mp3, aac)
	SampleRate int    // sample rate in Hz
	Channels   int    // 1=mono, 2=stereo
	Bitrate    string // e.g. "64k", "128k"
}

// defaults matching the recognition pipeline
func DefaultCompressionOptions() CompressionOptions {
	return CompressionOptions{
		Format:     "mp3",
		SampleRate: DefaultSampleRate,
		Channels:   1,
		Bitrate:    "64k",
	}
}

// Load decodes a media file into a mono 16 kHz buffer with the peak
// normalized. Any container ffmpeg can read is accepted; video streams
// are discarded.
func Load(ctx context.Context, path string) (*Buffer, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "ecoute-decode-*.raw")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	rawPath := tmp.Name()
	tmp.Close()
	defer os.Remove(rawPath)

	err = ffmpeg.Input(path).
		Output(rawPath, ffmpeg.KwArgs{
			"f":      "s16le",
			"acodec": "pcm_s16le",
			"ac":     1,
			"ar":     DefaultSampleRate,
			"vn":     "",
		}).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Run()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}

	raw, err := os.ReadFile(rawPath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading decoded samples: %v", ErrDecode, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %s: no audio stream", ErrDecode, path)
	}

	buf := &Buffer{
		Samples:    bytesToSamples(raw),
		SampleRate: DefaultSampleRate,
	}
	buf.Normalize()

	return buf, nil
}

// ExportCompressed encodes a buffer to a compressed audio file, creating
// the output directory if needed.
func ExportCompressed(
	ctx context.Context,
	buf *Buffer,
	outputPath string,
	opts CompressionOptions,
) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp("", "ecoute-encode-*.raw")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	rawPath := tmp.Name()
	_, werr := tmp.Write(samplesToBytes(buf.Samples))
	cerr := tmp.Close()
	defer os.Remove(rawPath)
	if werr != nil {
		return fmt.Errorf("failed to stage samples: %w", werr)
	}
	if cerr != nil {
		return fmt.Errorf("failed to stage samples: %w", cerr)
	}

	kwargs := ffmpeg.KwArgs{
		"ar": opts.SampleRate,
		"ac": opts.Channels,
		"y":  "",
	}
	switch opts.Format {
	case "aac":
		kwargs["acodec"] = "aac"
	default:
		kwargs["acodec"] = "libmp3lame"
	}
	if opts.Bitrate != "" {
		kwargs["b:a"] = opts.Bitrate
	}

	err = ffmpeg.Input(rawPath, ffmpeg.KwArgs{
		"f":  "s16le",
		"ar": buf.SampleRate,
		"ac": 1,
	}).
		Output(outputPath, kwargs).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Run()
	if err != nil {
		return fmt.Errorf("compression failed: %w", err)
	}

	return nil
}

func bytesToSamples(raw []byte) []int16 {
	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	return samples
}

func samplesToBytes(samples []int16) []byte {
	raw := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(s))
	}
	return raw
}

// checks if the file is an audio file based on extension
func IsAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	audioExts := map[string]bool{
		".mp3":  true,
		".wav":  true,
		".aac":  true,
		".flac": true,
		".ogg":  true,
		".m4a":  true,
		".wma":  true,
		".aiff": true,
	}
	return audioExts[ext]
}

// checks if the file is a video file based on extension
func IsVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	videoExts := map[string]bool{
		".mp4":  true,
		".mkv":  true,
		".avi":  true,
		".mov":  true,
		".webm": true,
		".m4v":  true,
		".mpeg": true,
		".mpg":  true,
	}
	return videoExts[ext]
}

// checks if the file is either audio or video
func IsMediaFile(path string) bool {
	return IsAudioFile(path) || IsVideoFile(path)
}
