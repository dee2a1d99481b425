package audio

import (
	"encoding/binary"
	"fmt"
	"os"
)

// WriteWAV writes the buffer as a canonical 16-bit PCM WAV file. Used for
// the transient per-segment file handed to speech recognition.
func WriteWAV(buf *Buffer, path string) error {
	data := samplesToBytes(buf.Samples)

	header := make([]byte, 44)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+len(data)))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16) // PCM chunk size
	binary.LittleEndian.PutUint16(header[20:22], 1)  // PCM format
	binary.LittleEndian.PutUint16(header[22:24], 1)  // mono
	binary.LittleEndian.PutUint32(header[24:28], uint32(buf.SampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(buf.SampleRate*2)) // byte rate
	binary.LittleEndian.PutUint16(header[32:34], 2)                        // block align
	binary.LittleEndian.PutUint16(header[34:36], 16)                       // bits per sample
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(len(data)))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create wav file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(header); err != nil {
		return fmt.Errorf("failed to write wav header: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write wav data: %w", err)
	}

	return nil
}
