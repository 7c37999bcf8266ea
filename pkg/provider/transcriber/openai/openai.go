// Package openai provides a transcriber backed by the OpenAI audio
// transcription API (Whisper).
package openai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/novakit/nova/pkg/audio"
	"github.com/novakit/nova/pkg/provider/transcriber"
)

// DefaultModel is the default OpenAI transcription model.
const DefaultModel = oai.AudioModelWhisper1

// Ensure Provider implements the transcriber.Provider interface.
var _ transcriber.Provider = (*Provider)(nil)

// Provider implements transcriber.Provider by capturing a phrase from the
// shared audio source, encoding it as WAV, and uploading it to the OpenAI
// transcription endpoint.
type Provider struct {
	client oai.Client
	source audio.Source
	model  oai.AudioModel
}

// config holds optional configuration for the provider.
type config struct {
	baseURL string
	timeout time.Duration
}

// Option is a functional option for Provider.
type Option func(*config)

// WithBaseURL overrides the default OpenAI API base URL.
func WithBaseURL(url string) Option {
	return func(c *config) {
		c.baseURL = url
	}
}

// WithTimeout sets a per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// New constructs an OpenAI transcriber reading audio from source.
// If model is empty, DefaultModel (whisper-1) is used.
func New(apiKey string, source audio.Source, model string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai transcriber: apiKey must not be empty")
	}
	if source == nil {
		return nil, fmt.Errorf("openai transcriber: source must not be nil")
	}
	if model == "" {
		model = DefaultModel
	}

	cfg := &config{}
	for _, o := range opts {
		o(cfg)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{
			Timeout: cfg.timeout,
		}))
	}

	return &Provider{
		client: oai.NewClient(reqOpts...),
		source: source,
		model:  oai.AudioModel(model),
	}, nil
}

// Capture implements transcriber.Provider.
func (p *Provider) Capture(ctx context.Context) (transcriber.Utterance, error) {
	samples, err := p.source.Record(ctx)
	if err != nil {
		if errors.Is(err, audio.ErrNoSpeech) {
			return transcriber.Utterance{}, transcriber.ErrTimeout
		}
		return transcriber.Utterance{}, fmt.Errorf("openai transcriber: record: %w", err)
	}

	rate := p.source.SampleRate()
	wavData, err := audio.EncodeWAVBytes(samples, rate)
	if err != nil {
		return transcriber.Utterance{}, fmt.Errorf("openai transcriber: %w", err)
	}

	resp, err := p.client.Audio.Transcriptions.New(ctx, oai.AudioTranscriptionNewParams{
		Model: p.model,
		File:  oai.File(bytes.NewReader(wavData), "phrase.wav", "audio/wav"),
	})
	if err != nil {
		slog.Warn("openai transcriber: request failed", "err", err)
		return transcriber.Utterance{}, transcriber.ErrServiceUnavailable
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return transcriber.Utterance{}, transcriber.ErrUnintelligible
	}

	return transcriber.Utterance{
		Text:     text,
		Duration: time.Duration(len(samples)) * time.Second / time.Duration(rate),
	}, nil
}
