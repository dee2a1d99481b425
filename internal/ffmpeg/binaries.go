package ffmpeg

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
)

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

var (
	ensureOnce sync.Once
	ensureErr  error
	ensurePath BinaryPaths
)

// Ensure resolves the ffmpeg and ffprobe binaries once per process.
// ECOUTE_FFMPEG_PATH / ECOUTE_FFPROBE_PATH take precedence over PATH lookup.
func Ensure() (BinaryPaths, error) {
	ensureOnce.Do(func() {
		ensurePath, ensureErr = resolve()
	})
	return ensurePath, ensureErr
}

func FFmpegPath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFmpeg, nil
}

func FFprobePath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFprobe, nil
}

func resolve() (BinaryPaths, error) {
	paths := BinaryPaths{}

	ffmpegPath, err := resolveBinary("ffmpeg", os.Getenv("ECOUTE_FFMPEG_PATH"))
	if err != nil {
		return paths, err
	}
	paths.FFmpeg = ffmpegPath

	ffprobePath, err := resolveBinary("ffprobe", os.Getenv("ECOUTE_FFPROBE_PATH"))
	if err != nil {
		return paths, err
	}
	paths.FFprobe = ffprobePath

	return paths, nil
}

func resolveBinary(name, override string) (string, error) {
	if override != "" {
		if _, err := os.Stat(override); err != nil {
			return "", fmt.Errorf("%s override %q not usable: %w", name, override, err)
		}
		return override, nil
	}

	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf(
			"%s not found in PATH: install it or set ECOUTE_%s_PATH",
			name,
			strings.ToUpper(name),
		)
	}
	return path, nil
}
