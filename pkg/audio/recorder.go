package audio

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
)

// RecorderConfig holds capture parameters. Zero values select the defaults
// noted per field.
type RecorderConfig struct {
	// SampleRate in Hz. Default 16000, the rate expected by every
	// supported transcription backend.
	SampleRate int

	// FramesPerBuffer is the portaudio read size. Default 1600 (100 ms at
	// 16 kHz), which is also the endpointer's decision granularity.
	FramesPerBuffer int

	// EnergyThreshold is the minimum RMS frame energy treated as speech
	// before calibration adjusts it. Default 300.
	EnergyThreshold float64

	// OnsetTimeout bounds the wait for speech to start. Default 10s.
	OnsetTimeout time.Duration

	// PauseThreshold is the trailing silence that completes a phrase.
	// Default 800ms.
	PauseThreshold time.Duration

	// PhraseTimeLimit caps phrase duration once speech starts. Default 5s.
	PhraseTimeLimit time.Duration

	// CalibrationTime is how long the one-time ambient calibration
	// listens. Default 1s.
	CalibrationTime time.Duration
}

// withDefaults fills zero fields.
func (c RecorderConfig) withDefaults() RecorderConfig {
	if c.SampleRate <= 0 {
		c.SampleRate = 16000
	}
	if c.FramesPerBuffer <= 0 {
		c.FramesPerBuffer = 1600
	}
	if c.EnergyThreshold <= 0 {
		c.EnergyThreshold = 300
	}
	if c.OnsetTimeout <= 0 {
		c.OnsetTimeout = 10 * time.Second
	}
	if c.PauseThreshold <= 0 {
		c.PauseThreshold = 800 * time.Millisecond
	}
	if c.PhraseTimeLimit <= 0 {
		c.PhraseTimeLimit = 5 * time.Second
	}
	if c.CalibrationTime <= 0 {
		c.CalibrationTime = time.Second
	}
	return c
}

// Recorder captures phrases from the default input device. It implements
// [Source]. Record is not safe for concurrent use — the dispatch loop is the
// sole caller.
type Recorder struct {
	cfg    RecorderConfig
	stream *portaudio.Stream
	buf    []int16

	calibrateOnce sync.Once
	threshold     float64
}

// Ensure Recorder implements Source at compile time.
var _ Source = (*Recorder)(nil)

// NewRecorder initialises portaudio and opens the default input stream.
// Close must be called when the recorder is no longer needed.
func NewRecorder(cfg RecorderConfig) (*Recorder, error) {
	cfg = cfg.withDefaults()

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("audio: initialise portaudio: %w", err)
	}

	buf := make([]int16, cfg.FramesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(cfg.SampleRate), len(buf), buf)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("audio: open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("audio: start input stream: %w", err)
	}

	return &Recorder{
		cfg:       cfg,
		stream:    stream,
		buf:       buf,
		threshold: cfg.EnergyThreshold,
	}, nil
}

// SampleRate returns the capture rate in Hz.
func (r *Recorder) SampleRate() int {
	return r.cfg.SampleRate
}

// Record captures one phrase. The first call calibrates against ambient
// noise; the result is cached for the life of the process.
func (r *Recorder) Record(ctx context.Context) ([]int16, error) {
	r.calibrateOnce.Do(func() { r.calibrate(ctx) })

	frameDur := r.frameDuration()
	ep := NewEndpointer(r.threshold, frameDur, r.cfg.PauseThreshold, r.cfg.PhraseTimeLimit)
	deadline := time.Now().Add(r.cfg.OnsetTimeout)

	var phrase []int16
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !ep.Started() && time.Now().After(deadline) {
			return nil, ErrNoSpeech
		}

		if err := r.stream.Read(); err != nil {
			return nil, fmt.Errorf("audio: read stream: %w", err)
		}
		frame := make([]int16, len(r.buf))
		copy(frame, r.buf)

		speech, done := ep.Feed(frame)
		if speech {
			phrase = append(phrase, frame...)
		}
		if done {
			return phrase, nil
		}
	}
}

// calibrate measures ambient energy and raises the speech threshold above it
// when the room is louder than the configured floor.
func (r *Recorder) calibrate(ctx context.Context) {
	frames := int(r.cfg.CalibrationTime / r.frameDuration())
	if frames < 1 {
		frames = 1
	}

	var total float64
	read := 0
	for i := 0; i < frames; i++ {
		if ctx.Err() != nil {
			break
		}
		if err := r.stream.Read(); err != nil {
			slog.Warn("audio: calibration read failed", "err", err)
			break
		}
		total += Energy(r.buf)
		read++
	}
	if read == 0 {
		return
	}

	ambient := total / float64(read)
	if adjusted := ambient * 1.5; adjusted > r.threshold {
		r.threshold = adjusted
	}
	slog.Info("audio: ambient calibration complete",
		"ambient_energy", int(ambient),
		"threshold", int(r.threshold),
	)
}

// frameDuration returns the time covered by one buffer read.
func (r *Recorder) frameDuration() time.Duration {
	return time.Duration(len(r.buf)) * time.Second / time.Duration(r.cfg.SampleRate)
}

// Close stops the stream and tears down portaudio.
func (r *Recorder) Close() error {
	if err := r.stream.Stop(); err != nil {
		_ = r.stream.Close()
		_ = portaudio.Terminate()
		return fmt.Errorf("audio: stop stream: %w", err)
	}
	if err := r.stream.Close(); err != nil {
		_ = portaudio.Terminate()
		return fmt.Errorf("audio: close stream: %w", err)
	}
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("audio: terminate portaudio: %w", err)
	}
	return nil
}
