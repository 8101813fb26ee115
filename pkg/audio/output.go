package audio

import (
	"encoding/binary"
	"io"
)

// WAVWriter writes interleaved stereo 16-bit PCM WAV.
type WAVWriter struct {
	writer     io.Writer
	sampleRate int
	channels   int
}

// NewWAVWriter creates a WAV writer for the given channel count.
func NewWAVWriter(w io.Writer, sampleRate, channels int) *WAVWriter {
	return &WAVWriter{writer: w, sampleRate: sampleRate, channels: channels}
}

// WriteHeader writes the RIFF/WAVE header for dataSize bytes of 16-bit
// PCM payload that will follow.
func (w *WAVWriter) WriteHeader(dataSize int) error {
	w.writer.Write([]byte("RIFF"))
	binary.Write(w.writer, binary.LittleEndian, uint32(dataSize+36))
	w.writer.Write([]byte("WAVE"))

	w.writer.Write([]byte("fmt "))
	binary.Write(w.writer, binary.LittleEndian, uint32(16))
	binary.Write(w.writer, binary.LittleEndian, uint16(1))
	binary.Write(w.writer, binary.LittleEndian, uint16(w.channels))
	binary.Write(w.writer, binary.LittleEndian, uint32(w.sampleRate))
	byteRate := w.sampleRate * w.channels * 2
	binary.Write(w.writer, binary.LittleEndian, uint32(byteRate))
	blockAlign := w.channels * 2
	binary.Write(w.writer, binary.LittleEndian, uint16(blockAlign))
	binary.Write(w.writer, binary.LittleEndian, uint16(16))

	w.writer.Write([]byte("data"))
	binary.Write(w.writer, binary.LittleEndian, uint32(dataSize))

	return nil
}

// WriteInterleaved writes one block's worth of already-interleaved
// stereo samples as 16-bit PCM.
func (w *WAVWriter) WriteInterleaved(samples []float64) error {
	for _, s := range samples {
		s16 := int16(clamp(s) * 32767)
		if err := binary.Write(w.writer, binary.LittleEndian, s16); err != nil {
			return err
		}
	}
	return nil
}

// ExportWAV renders durationSeconds of stereo audio from source into a
// WAV file written to w, in fixed-size chunks.
func ExportWAV(source StereoSource, w io.Writer, sampleRate int, durationSeconds float64) error {
	totalFrames := int(durationSeconds * float64(sampleRate))
	dataSize := totalFrames * 2 * 2 // 16-bit stereo

	wavWriter := NewWAVWriter(w, sampleRate, 2)
	if err := wavWriter.WriteHeader(dataSize); err != nil {
		return err
	}

	const chunkFrames = 4096
	bufL := make([]float64, chunkFrames)
	bufR := make([]float64, chunkFrames)
	interleaved := make([]float64, chunkFrames*2)

	for written := 0; written < totalFrames; {
		n := chunkFrames
		if remaining := totalFrames - written; remaining < n {
			n = remaining
		}
		source.Process(bufL[:n], bufR[:n])
		for i := 0; i < n; i++ {
			interleaved[i*2] = bufL[i]
			interleaved[i*2+1] = bufR[i]
		}
		if err := wavWriter.WriteInterleaved(interleaved[:n*2]); err != nil {
			return err
		}
		written += n
	}

	return nil
}
