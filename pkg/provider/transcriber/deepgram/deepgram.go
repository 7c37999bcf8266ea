// Package deepgram provides a transcriber backed by the Deepgram
// pre-recorded audio API. Each captured phrase is uploaded as a single WAV
// request; there is no streaming session to maintain, which keeps the
// provider stateless between phrases.
package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/novakit/nova/pkg/audio"
	"github.com/novakit/nova/pkg/provider/transcriber"
)

// DefaultBaseURL is the production Deepgram API endpoint.
const DefaultBaseURL = "https://api.deepgram.com/v1/listen"

// DefaultModel is the default Deepgram recognition model.
const DefaultModel = "nova-2"

// Ensure Provider implements the transcriber.Provider interface.
var _ transcriber.Provider = (*Provider)(nil)

// Provider implements transcriber.Provider using Deepgram's synchronous
// pre-recorded transcription endpoint.
type Provider struct {
	apiKey     string
	source     audio.Source
	model      string
	language   string
	baseURL    string
	httpClient *http.Client
}

// Option is a functional option for Provider.
type Option func(*Provider)

// WithModel sets the Deepgram model. Defaults to nova-2.
func WithModel(model string) Option {
	return func(p *Provider) { p.model = model }
}

// WithLanguage sets the BCP-47 recognition language (e.g. "en-US").
// An empty value lets Deepgram auto-detect.
func WithLanguage(lang string) Option {
	return func(p *Provider) { p.language = lang }
}

// WithBaseURL overrides the API endpoint, typically for tests.
func WithBaseURL(u string) Option {
	return func(p *Provider) { p.baseURL = u }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.httpClient = c }
}

// New constructs a Deepgram transcriber reading audio from source.
func New(apiKey string, source audio.Source, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("deepgram: apiKey must not be empty")
	}
	if source == nil {
		return nil, fmt.Errorf("deepgram: source must not be nil")
	}

	p := &Provider{
		apiKey:     apiKey,
		source:     source,
		model:      DefaultModel,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// response mirrors the subset of the Deepgram pre-recorded response we read.
type response struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// Capture implements transcriber.Provider.
func (p *Provider) Capture(ctx context.Context) (transcriber.Utterance, error) {
	samples, err := p.source.Record(ctx)
	if err != nil {
		if errors.Is(err, audio.ErrNoSpeech) {
			return transcriber.Utterance{}, transcriber.ErrTimeout
		}
		return transcriber.Utterance{}, fmt.Errorf("deepgram: record: %w", err)
	}

	rate := p.source.SampleRate()
	wavData, err := audio.EncodeWAVBytes(samples, rate)
	if err != nil {
		return transcriber.Utterance{}, fmt.Errorf("deepgram: %w", err)
	}

	text, confidence, err := p.transcribe(ctx, wavData)
	if err != nil {
		slog.Warn("deepgram: request failed", "err", err)
		return transcriber.Utterance{}, transcriber.ErrServiceUnavailable
	}
	if text == "" {
		return transcriber.Utterance{}, transcriber.ErrUnintelligible
	}

	return transcriber.Utterance{
		Text:       text,
		Confidence: confidence,
		Duration:   time.Duration(len(samples)) * time.Second / time.Duration(rate),
	}, nil
}

// transcribe posts the WAV payload and extracts the top alternative.
func (p *Provider) transcribe(ctx context.Context, wavData []byte) (string, float64, error) {
	q := url.Values{}
	q.Set("model", p.model)
	if p.language != "" {
		q.Set("language", p.language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"?"+q.Encode(), bytes.NewReader(wavData))
	if err != nil {
		return "", 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+p.apiKey)
	req.Header.Set("Content-Type", "audio/wav")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("post audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", 0, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	var parsed response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", 0, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Results.Channels) == 0 || len(parsed.Results.Channels[0].Alternatives) == 0 {
		return "", 0, nil
	}

	alt := parsed.Results.Channels[0].Alternatives[0]
	return strings.TrimSpace(alt.Transcript), alt.Confidence, nil
}
