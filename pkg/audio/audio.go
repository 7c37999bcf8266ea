// Package audio implements microphone phrase capture with energy-based
// endpointing: wait for speech onset, accumulate until a trailing pause or
// the phrase time limit, and hand the PCM to a transcription backend.
//
// Ambient-noise calibration runs once per process and is cached, so the
// per-cycle latency is bounded by the configured timeouts alone.
package audio

import (
	"context"
	"errors"
)

// ErrNoSpeech is returned by Record when no speech onset is detected within
// the configured timeout.
var ErrNoSpeech = errors.New("audio: no speech detected before timeout")

// Source yields one spoken phrase of 16-bit PCM per call. The microphone
// Recorder is the production implementation; tests substitute canned
// samples.
type Source interface {
	// Record blocks until a phrase has been captured, the onset timeout
	// expires (ErrNoSpeech), or ctx is cancelled.
	Record(ctx context.Context) ([]int16, error)

	// SampleRate returns the PCM sample rate in Hz.
	SampleRate() int
}

// ToFloat32 converts 16-bit PCM to the normalised [-1, 1] float samples
// expected by whisper.cpp.
func ToFloat32(samples []int16) []float32 {
	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = float32(s) / 32768.0
	}
	return out
}
