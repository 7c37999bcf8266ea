package audio

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeSeekBuffer adapts a byte slice to the io.WriteSeeker the wav encoder
// needs for header back-patching.
type writeSeekBuffer struct {
	buf []byte
	pos int
}

func (w *writeSeekBuffer) Write(p []byte) (int, error) {
	if grow := w.pos + len(p) - len(w.buf); grow > 0 {
		w.buf = append(w.buf, make([]byte, grow)...)
	}
	copy(w.buf[w.pos:], p)
	w.pos += len(p)
	return len(p), nil
}

func (w *writeSeekBuffer) Seek(offset int64, whence int) (int64, error) {
	var next int
	switch whence {
	case io.SeekStart:
		next = int(offset)
	case io.SeekCurrent:
		next = w.pos + int(offset)
	case io.SeekEnd:
		next = len(w.buf) + int(offset)
	default:
		return 0, fmt.Errorf("audio: invalid seek whence %d", whence)
	}
	if next < 0 {
		return 0, fmt.Errorf("audio: seek before start of buffer")
	}
	w.pos = next
	return int64(next), nil
}

// EncodeWAVBytes renders mono 16-bit PCM as an in-memory WAV file, the upload
// format accepted by the hosted transcription APIs.
func EncodeWAVBytes(samples []int16, sampleRate int) ([]byte, error) {
	ints := make([]int, len(samples))
	for i, s := range samples {
		ints[i] = int(s)
	}

	out := &writeSeekBuffer{}
	enc := wav.NewEncoder(out, sampleRate, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:   ints,
	}
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("audio: encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("audio: finalise wav: %w", err)
	}
	return out.buf, nil
}
