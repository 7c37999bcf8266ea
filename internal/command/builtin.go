package command

import (
	"context"
	"fmt"
	"net/url"
	"runtime"
	"strings"
	"time"

	"github.com/novakit/nova/pkg/provider/actions"
	"github.com/novakit/nova/pkg/provider/speaker"
	"github.com/novakit/nova/pkg/system"
)

// Env gives built-in handlers access to the assistant's collaborators.
// Clock is injectable so the time and date commands are testable.
type Env struct {
	Speaker speaker.Provider
	Runner  actions.Runner
	System  system.Interface
	Clock   func() time.Time
}

// now returns the current time via the injected clock, defaulting to
// time.Now.
func (e Env) now() time.Time {
	if e.Clock != nil {
		return e.Clock()
	}
	return time.Now()
}

// Builtin pairs a set of spoken phrasings with the handler to run on a
// match. When CapturesQuery is set, the words following the matched phrase
// are passed to the handler as the query.
type Builtin struct {
	// Name is a stable label for logging and metrics.
	Name string

	// Phrases are the literal phrasings checked by word containment, in
	// priority order.
	Phrases []string

	// CapturesQuery marks prefix commands like "search <query>".
	CapturesQuery bool

	// Handler performs the command. Handlers own all user feedback —
	// success and failure alike go through env.Speaker — and return an
	// error only so the dispatcher can log and count it.
	Handler func(ctx context.Context, env Env, query string) error
}

// MatchBuiltin finds the first builtin whose phrase occurs as consecutive
// words of text and returns it with the captured trailing query (empty for
// non-capturing builtins). Word-level containment keeps "time" from firing
// inside "sometimes".
func MatchBuiltin(text string, builtins []Builtin) (Builtin, string, bool) {
	words := strings.Fields(text)
	for _, b := range builtins {
		for _, phrase := range b.Phrases {
			end, ok := containsWords(words, strings.Fields(phrase))
			if !ok {
				continue
			}
			query := ""
			if b.CapturesQuery {
				query = strings.Join(words[end:], " ")
			}
			return b, query, true
		}
	}
	return Builtin{}, "", false
}

// containsWords reports whether phrase occurs as a consecutive word run in
// words, returning the index just past the first occurrence.
func containsWords(words, phrase []string) (end int, ok bool) {
	if len(phrase) == 0 || len(phrase) > len(words) {
		return 0, false
	}
outer:
	for i := 0; i+len(phrase) <= len(words); i++ {
		for j, p := range phrase {
			if words[i+j] != p {
				continue outer
			}
		}
		return i + len(phrase), true
	}
	return 0, false
}

// Builtins returns the fixed table of built-in commands, in match-priority
// order. Prefix commands ("search", "play") come last so their single-word
// phrases cannot shadow more specific ones.
func Builtins() []Builtin {
	return []Builtin{
		{
			Name:    "greeting",
			Phrases: []string{"hello", "hey", "hi"},
			Handler: func(ctx context.Context, env Env, _ string) error {
				env.Speaker.Say(ctx, "Hello! How can I help you?")
				return nil
			},
		},
		{
			Name:    "time",
			Phrases: []string{"time"},
			Handler: func(ctx context.Context, env Env, _ string) error {
				env.Speaker.Say(ctx, "The time is "+env.now().Format("3:04 PM"))
				return nil
			},
		},
		{
			Name:    "date",
			Phrases: []string{"date", "today"},
			Handler: func(ctx context.Context, env Env, _ string) error {
				env.Speaker.Say(ctx, "Today is "+env.now().Format("January 2, 2006"))
				return nil
			},
		},
		{
			Name:    "open-chrome",
			Phrases: []string{"open chrome"},
			Handler: func(ctx context.Context, env Env, _ string) error {
				env.Speaker.Say(ctx, "Opening Chrome")
				if err := env.Runner.Run(ctx, chromePath()); err != nil {
					env.Speaker.Say(ctx, "I couldn't find Chrome at its default location.")
					return err
				}
				return nil
			},
		},
		{
			Name:    "open-spotify",
			Phrases: []string{"open spotify"},
			Handler: func(ctx context.Context, env Env, _ string) error {
				env.Speaker.Say(ctx, "Opening Spotify")
				if err := env.Runner.Run(ctx, "https://open.spotify.com"); err != nil {
					env.Speaker.Say(ctx, "Sorry, I couldn't open Spotify.")
					return err
				}
				return nil
			},
		},
		{
			Name:    "open-gmail",
			Phrases: []string{"open gmail", "open email", "write email"},
			Handler: func(ctx context.Context, env Env, _ string) error {
				env.Speaker.Say(ctx, "Opening Gmail")
				if err := env.Runner.Run(ctx, "https://mail.google.com"); err != nil {
					env.Speaker.Say(ctx, "Sorry, I couldn't open Gmail.")
					return err
				}
				return nil
			},
		},
		{
			Name:    "battery",
			Phrases: []string{"battery"},
			Handler: func(ctx context.Context, env Env, _ string) error {
				status, err := env.System.BatteryStatus()
				if err != nil {
					env.Speaker.Say(ctx, "Battery information is unavailable.")
					return err
				}
				env.Speaker.Say(ctx, status)
				return nil
			},
		},
		{
			Name:    "screenshot",
			Phrases: []string{"screenshot", "screen shot"},
			Handler: func(ctx context.Context, env Env, _ string) error {
				env.Speaker.Say(ctx, "Taking a screenshot")
				name := fmt.Sprintf("screenshot_%s.png", env.now().Format("20060102_150405"))
				if err := env.System.Screenshot(name); err != nil {
					env.Speaker.Say(ctx, "Sorry, the screenshot failed.")
					return err
				}
				env.Speaker.Say(ctx, "Screenshot saved")
				return nil
			},
		},
		{
			Name:    "volume-up",
			Phrases: []string{"volume up", "increase volume"},
			Handler: func(ctx context.Context, env Env, _ string) error {
				if err := env.System.VolumeUp(); err != nil {
					env.Speaker.Say(ctx, "Sorry, I couldn't change the volume.")
					return err
				}
				env.Speaker.Say(ctx, "Volume increased")
				return nil
			},
		},
		{
			Name:    "volume-down",
			Phrases: []string{"volume down", "decrease volume"},
			Handler: func(ctx context.Context, env Env, _ string) error {
				if err := env.System.VolumeDown(); err != nil {
					env.Speaker.Say(ctx, "Sorry, I couldn't change the volume.")
					return err
				}
				env.Speaker.Say(ctx, "Volume decreased")
				return nil
			},
		},
		{
			Name:    "mute",
			Phrases: []string{"mute", "unmute"},
			Handler: func(ctx context.Context, env Env, _ string) error {
				if err := env.System.ToggleMute(); err != nil {
					env.Speaker.Say(ctx, "Sorry, I couldn't change the volume.")
					return err
				}
				return nil
			},
		},
		{
			Name:          "search",
			Phrases:       []string{"search", "google"},
			CapturesQuery: true,
			Handler: func(ctx context.Context, env Env, query string) error {
				if query == "" {
					env.Speaker.Say(ctx, "What should I search for?")
					return nil
				}
				target := "https://www.google.com/search?q=" + url.QueryEscape(query)
				if err := env.Runner.Run(ctx, target); err != nil {
					env.Speaker.Say(ctx, "Sorry, I couldn't open the search.")
					return err
				}
				env.Speaker.Say(ctx, "Searching for "+query)
				return nil
			},
		},
		{
			Name:          "play",
			Phrases:       []string{"play"},
			CapturesQuery: true,
			Handler: func(ctx context.Context, env Env, query string) error {
				if query == "" {
					env.Speaker.Say(ctx, "What should I play?")
					return nil
				}
				target := "https://www.youtube.com/results?search_query=" + url.QueryEscape(query)
				if err := env.Runner.Run(ctx, target); err != nil {
					env.Speaker.Say(ctx, "Sorry, I couldn't open the player.")
					return err
				}
				env.Speaker.Say(ctx, "Playing "+query)
				return nil
			},
		},
	}
}

// chromePath returns the default Chrome location for the current OS.
func chromePath() string {
	switch runtime.GOOS {
	case "windows":
		return `C:\Program Files\Google\Chrome\Application\chrome.exe`
	case "darwin":
		return "/Applications/Google Chrome.app"
	default:
		return "google-chrome"
	}
}
