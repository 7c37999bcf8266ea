package deepgram_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/novakit/nova/pkg/audio"
	"github.com/novakit/nova/pkg/provider/transcriber"
	"github.com/novakit/nova/pkg/provider/transcriber/deepgram"
)

// fakeSource replays one canned phrase.
type fakeSource struct {
	samples []int16
	err     error
}

func (f *fakeSource) Record(_ context.Context) ([]int16, error) {
	return f.samples, f.err
}

func (f *fakeSource) SampleRate() int { return 16000 }

func tone(n int) []int16 {
	s := make([]int16, n)
	for i := range s {
		s[i] = int16(1000 * (1 - 2*(i%2)))
	}
	return s
}

func TestCapture_ParsesTranscript(t *testing.T) {
	t.Parallel()

	var gotAuth, gotContentType, gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotModel = r.URL.Query().Get("model")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"results": {"channels": [{"alternatives": [
				{"transcript": "open notepad", "confidence": 0.97}
			]}]}
		}`))
	}))
	defer srv.Close()

	p, err := deepgram.New("test-key", &fakeSource{samples: tone(16000)},
		deepgram.WithBaseURL(srv.URL),
		deepgram.WithModel("nova-2"),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	u, err := p.Capture(context.Background())
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if u.Text != "open notepad" {
		t.Errorf("Text = %q, want %q", u.Text, "open notepad")
	}
	if u.Confidence != 0.97 {
		t.Errorf("Confidence = %v, want 0.97", u.Confidence)
	}
	if u.Duration.Seconds() != 1 {
		t.Errorf("Duration = %v, want 1s for 16000 samples at 16kHz", u.Duration)
	}

	if gotAuth != "Token test-key" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Token test-key")
	}
	if !strings.HasPrefix(gotContentType, "audio/wav") {
		t.Errorf("Content-Type = %q, want audio/wav", gotContentType)
	}
	if gotModel != "nova-2" {
		t.Errorf("model query = %q, want nova-2", gotModel)
	}
}

func TestCapture_EmptyTranscriptIsUnintelligible(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"results": {"channels": [{"alternatives": [
				{"transcript": "", "confidence": 0}
			]}]}
		}`))
	}))
	defer srv.Close()

	p, err := deepgram.New("test-key", &fakeSource{samples: tone(160)}, deepgram.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := p.Capture(context.Background()); !errors.Is(err, transcriber.ErrUnintelligible) {
		t.Errorf("Capture err = %v, want ErrUnintelligible", err)
	}
}

func TestCapture_ServerErrorIsServiceUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream broke", http.StatusBadGateway)
	}))
	defer srv.Close()

	p, err := deepgram.New("test-key", &fakeSource{samples: tone(160)}, deepgram.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := p.Capture(context.Background()); !errors.Is(err, transcriber.ErrServiceUnavailable) {
		t.Errorf("Capture err = %v, want ErrServiceUnavailable", err)
	}
}

func TestCapture_NoSpeechIsTimeout(t *testing.T) {
	t.Parallel()

	p, err := deepgram.New("test-key", &fakeSource{err: audio.ErrNoSpeech})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := p.Capture(context.Background()); !errors.Is(err, transcriber.ErrTimeout) {
		t.Errorf("Capture err = %v, want ErrTimeout", err)
	}
}

func TestNew_RequiresKeyAndSource(t *testing.T) {
	t.Parallel()

	if _, err := deepgram.New("", &fakeSource{}); err == nil {
		t.Error("New with empty key: got nil error")
	}
	if _, err := deepgram.New("key", nil); err == nil {
		t.Error("New with nil source: got nil error")
	}
}
