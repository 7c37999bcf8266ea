// Package whispercpp provides a transcriber backed by the whisper.cpp CGO
// bindings. The whisper.cpp static library (libwhisper.a) and headers
// (whisper.h) must be available at link time via LIBRARY_PATH and
// C_INCLUDE_PATH environment variables.
//
// The model is loaded once at startup and shared; each Capture runs inference
// in a fresh whisper context.
package whispercpp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"github.com/novakit/nova/pkg/audio"
	"github.com/novakit/nova/pkg/provider/transcriber"
)

const defaultLanguage = "en"

// Ensure Provider implements the transcriber.Provider interface.
var _ transcriber.Provider = (*Provider)(nil)

// Provider implements transcriber.Provider using a local whisper.cpp model.
// No audio leaves the machine.
type Provider struct {
	model    whisperlib.Model
	source   audio.Source
	language string
}

// Option is a functional option for Provider.
type Option func(*Provider)

// WithLanguage sets the transcription language code (e.g. "en", "de").
// Defaults to "en".
func WithLanguage(lang string) Option {
	return func(p *Provider) { p.language = lang }
}

// New loads the whisper.cpp model from modelPath and returns a Provider
// reading audio from source. The caller must call Close when done.
func New(modelPath string, source audio.Source, opts ...Option) (*Provider, error) {
	if modelPath == "" {
		return nil, errors.New("whispercpp: modelPath must not be empty")
	}
	if source == nil {
		return nil, errors.New("whispercpp: source must not be nil")
	}
	model, err := whisperlib.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("whispercpp: load model %q: %w", modelPath, err)
	}

	p := &Provider{
		model:    model,
		source:   source,
		language: defaultLanguage,
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Close releases the whisper model.
func (p *Provider) Close() error {
	if p.model != nil {
		return p.model.Close()
	}
	return nil
}

// Capture implements transcriber.Provider.
func (p *Provider) Capture(ctx context.Context) (transcriber.Utterance, error) {
	samples, err := p.source.Record(ctx)
	if err != nil {
		if errors.Is(err, audio.ErrNoSpeech) {
			return transcriber.Utterance{}, transcriber.ErrTimeout
		}
		return transcriber.Utterance{}, fmt.Errorf("whispercpp: record: %w", err)
	}

	text, err := p.infer(audio.ToFloat32(samples))
	if err != nil {
		slog.Warn("whispercpp: inference failed", "err", err)
		return transcriber.Utterance{}, transcriber.ErrServiceUnavailable
	}
	if text == "" {
		return transcriber.Utterance{}, transcriber.ErrUnintelligible
	}

	rate := p.source.SampleRate()
	return transcriber.Utterance{
		Text:     text,
		Duration: time.Duration(len(samples)) * time.Second / time.Duration(rate),
	}, nil
}

// infer runs whisper.cpp inference in a fresh context. Contexts are not
// thread-safe, but the model can be shared.
func (p *Provider) infer(samples []float32) (string, error) {
	wctx, err := p.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("create context: %w", err)
	}

	if err := wctx.SetLanguage(p.language); err != nil {
		slog.Warn("whispercpp: failed to set language, using default", "language", p.language, "err", err)
	}

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return "", fmt.Errorf("process audio: %w", err)
	}

	var parts []string
	for {
		segment, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read segment: %w", err)
		}
		if text := strings.TrimSpace(segment.Text); text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, " "), nil
}
