// Package dispatch implements the assistant's conversation state machine.
//
// One Dispatcher instance consumes transcribed utterances and drives all
// user-visible behaviour: waking up, running learned and built-in commands,
// walking the two-step teaching flow, and shutting the session down on an
// exit phrase. The capture loop is the sole caller; the dispatcher itself
// never touches the microphone.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/novakit/nova/internal/command"
	"github.com/novakit/nova/internal/interaction"
	"github.com/novakit/nova/internal/match"
	"github.com/novakit/nova/internal/normalize"
	"github.com/novakit/nova/internal/observe"
	"github.com/novakit/nova/internal/teach"
	"github.com/novakit/nova/pkg/provider/actions"
	"github.com/novakit/nova/pkg/provider/speaker"
	"github.com/novakit/nova/pkg/system"
)

// State is the dispatcher's conversation state.
type State int

const (
	// StateIdle means the assistant ignores everything except the wake
	// word and a direct exit phrase.
	StateIdle State = iota

	// StateListening means the next utterance is treated as a command.
	StateListening

	// StateTeachingTrigger means the next utterance is a candidate
	// trigger phrase.
	StateTeachingTrigger

	// StateTeachingAction means the next utterance is the action for the
	// pending trigger.
	StateTeachingAction

	// StateTerminated means the session has ended; all input is ignored.
	StateTerminated
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListening:
		return "listening"
	case StateTeachingTrigger:
		return "teaching-trigger"
	case StateTeachingAction:
		return "teaching-action"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// learnPhrases are the phrasings that start the teaching flow.
var learnPhrases = []string{
	"learn new command",
	"learning mode",
	"teach you",
	"learn something",
}

// Config holds the dispatcher's tunables. Zero values select the defaults
// noted per field.
type Config struct {
	// AssistantName is used in the greeting. Default "Nova".
	AssistantName string

	// SimilarityThreshold is the minimum score for a learned command to
	// fire. Default match.DefaultThreshold.
	SimilarityThreshold float64

	// ExitThreshold is the minimum score for an exit phrase. Default
	// match.DefaultExitThreshold.
	ExitThreshold float64
}

// Deps are the dispatcher's collaborators. Registry, Wake, Speaker, Runner,
// and Validator are required; the rest have working defaults or are optional.
type Deps struct {
	Registry  *command.Registry
	Validator *teach.Validator
	Wake      *match.WakeDetector
	Speaker   speaker.Provider
	Runner    actions.Runner
	System    system.Interface

	// Builtins defaults to command.Builtins().
	Builtins []command.Builtin

	// Log records conversation turns. Nil disables interaction logging.
	Log *interaction.Recorder

	// Metrics defaults to observe.Default().
	Metrics *observe.Metrics
}

// Dispatcher consumes one utterance at a time and mutates its state
// accordingly. Not safe for concurrent use — the capture loop is the sole
// caller.
type Dispatcher struct {
	cfg  Config
	deps Deps

	exitPhrases []string
	env         command.Env

	state State

	// Teaching-flow scratch state.
	pendingTrigger string
	reprompted     bool
}

// New returns a Dispatcher in StateIdle.
func New(cfg Config, deps Deps) (*Dispatcher, error) {
	if deps.Registry == nil {
		return nil, fmt.Errorf("dispatch: Registry is required")
	}
	if deps.Validator == nil {
		return nil, fmt.Errorf("dispatch: Validator is required")
	}
	if deps.Wake == nil {
		return nil, fmt.Errorf("dispatch: Wake is required")
	}
	if deps.Speaker == nil {
		return nil, fmt.Errorf("dispatch: Speaker is required")
	}
	if deps.Runner == nil {
		return nil, fmt.Errorf("dispatch: Runner is required")
	}

	if cfg.AssistantName == "" {
		cfg.AssistantName = "Nova"
	}
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = match.DefaultThreshold
	}
	if cfg.ExitThreshold <= 0 {
		cfg.ExitThreshold = match.DefaultExitThreshold
	}
	if deps.Builtins == nil {
		deps.Builtins = command.Builtins()
	}
	if deps.Metrics == nil {
		deps.Metrics = observe.Default()
	}

	return &Dispatcher{
		cfg:         cfg,
		deps:        deps,
		exitPhrases: exitPhrases(deps.Wake.Word()),
		env: command.Env{
			Speaker: deps.Speaker,
			Runner:  deps.Runner,
			System:  deps.System,
		},
		state: StateIdle,
	}, nil
}

// exitPhrases builds the end-session phrase list around the wake word.
func exitPhrases(wake string) []string {
	phrases := []string{"goodbye", "bye", "exit", "quit", "stop", "turn off"}
	if wake != "" {
		phrases = append(phrases,
			"stop "+wake,
			wake+" stop",
			"shut down "+wake,
			"close "+wake,
		)
	}
	return phrases
}

// State returns the current conversation state.
func (d *Dispatcher) State() State {
	return d.state
}

// Flush persists the command registry. Called on shutdown.
func (d *Dispatcher) Flush() error {
	return d.deps.Registry.Save()
}

// Dispatch processes one raw utterance. Terminated sessions ignore input.
func (d *Dispatcher) Dispatch(ctx context.Context, raw string) {
	if d.state == StateTerminated {
		return
	}

	text := normalize.Normalize(raw)
	d.record(interaction.RoleUser, raw, text)
	slog.Debug("dispatching utterance", "state", d.state.String(), "text", text)

	switch d.state {
	case StateIdle:
		d.handleIdle(ctx, text)
	case StateListening:
		d.handleListening(ctx, text)
	case StateTeachingTrigger:
		d.handleTeachTrigger(ctx, text)
	case StateTeachingAction:
		// Actions keep the raw casing: paths and URLs are
		// case-sensitive on most platforms.
		d.handleTeachAction(ctx, strings.TrimSpace(raw))
	}
}

// handleIdle waits for the wake word, honouring a direct exit phrase so the
// user never has to wake the assistant just to turn it off.
func (d *Dispatcher) handleIdle(ctx context.Context, text string) {
	if text == "" {
		return
	}

	if d.isExit(ctx, text) {
		return
	}

	remainder, ok := d.deps.Wake.Detect(text)
	if !ok {
		return
	}
	d.state = StateListening
	if remainder == "" {
		d.say(ctx, "Yes?")
		return
	}
	// "nova open notepad" carries the command with the wake word; run it
	// without a second round trip.
	d.handleListening(ctx, remainder)
}

// handleListening routes a command utterance: exit, then the teaching intent,
// then learned commands, then built-ins, then the fallback hint.
func (d *Dispatcher) handleListening(ctx context.Context, text string) {
	if text == "" {
		return
	}

	if d.isExit(ctx, text) {
		return
	}

	if phraseMatch(text, learnPhrases, d.cfg.SimilarityThreshold) {
		d.state = StateTeachingTrigger
		d.reprompted = false
		d.say(ctx, "Okay, let's learn something new. What should the trigger phrase be?")
		return
	}

	if d.runLearned(ctx, text) {
		return
	}

	if b, query, ok := command.MatchBuiltin(text, d.deps.Builtins); ok {
		d.deps.Metrics.RecordUtterance(ctx, "builtin")
		if err := b.Handler(ctx, d.env, query); err != nil {
			d.deps.Metrics.ActionFailures.Add(ctx, 1)
			slog.Warn("builtin command failed", "name", b.Name, "err", err)
		}
		return
	}

	d.deps.Metrics.RecordUtterance(ctx, "unknown")
	d.say(ctx, "I don't know that yet. You can teach me by saying learn new command.")
}

// runLearned matches text against the learned triggers and runs the action on
// a hit.
func (d *Dispatcher) runLearned(ctx context.Context, text string) bool {
	triggers := d.deps.Registry.All()
	res, ok := match.Best(text, triggers, d.cfg.SimilarityThreshold)
	if len(triggers) > 0 {
		d.deps.Metrics.MatchScore.Record(ctx, res.Score)
	}
	if !ok {
		return false
	}

	action, found := d.deps.Registry.Get(res.Candidate)
	if !found {
		return false
	}

	d.deps.Metrics.RecordUtterance(ctx, "matched")
	d.say(ctx, "Okay, running "+res.Candidate)
	if err := d.deps.Runner.Run(ctx, action); err != nil {
		d.deps.Metrics.ActionFailures.Add(ctx, 1)
		slog.Warn("learned command failed", "trigger", res.Candidate, "action", action, "err", err)
		d.say(ctx, "Sorry, I couldn't run that.")
	}
	return true
}

// handleTeachTrigger validates a candidate trigger. The utterance is data
// here, not intent: exit phrases are not matched, so triggers like "stop the
// music" can be taught. A rejected trigger gets one spoken re-prompt; a
// second rejection abandons the flow so the user is never trapped in
// teaching mode.
func (d *Dispatcher) handleTeachTrigger(ctx context.Context, text string) {
	ok, reason := d.deps.Validator.Validate(text)
	if !ok {
		if d.reprompted {
			d.reprompted = false
			d.state = StateListening
			d.say(ctx, reason+" Let's try again another time.")
			return
		}
		d.reprompted = true
		d.say(ctx, reason+" Please say a different trigger phrase.")
		return
	}

	d.pendingTrigger = text
	d.reprompted = false
	d.state = StateTeachingAction
	d.say(ctx, "Got it. What should I do when you say "+text+"? Tell me the path or link to open.")
}

// handleTeachAction stores the action for the pending trigger. The action
// must look runnable — a filesystem path or a link — or the lesson is
// discarded.
func (d *Dispatcher) handleTeachAction(ctx context.Context, action string) {
	d.state = StateListening
	trigger := d.pendingTrigger
	d.pendingTrigger = ""

	if !looksRunnable(action) {
		d.deps.Metrics.RecordUtterance(ctx, "unknown")
		d.say(ctx, "That doesn't look like a path or a link, so I didn't save it.")
		return
	}

	if err := d.deps.Registry.Put(trigger, action); err != nil {
		slog.Error("failed to persist learned command", "trigger", trigger, "err", err)
		d.deps.Metrics.CommandsLearned.Add(ctx, 1)
		d.say(ctx, "I learned "+trigger+" for this session, but I couldn't save it to disk.")
		return
	}

	d.deps.Metrics.CommandsLearned.Add(ctx, 1)
	d.deps.Metrics.RecordUtterance(ctx, "learned")
	d.say(ctx, "Done! Say "+trigger+" and I will open it.")
}

// phraseMatch reports whether any phrase occurs in text or scores at least
// threshold against it. Containment is one-directional and allows single-word
// phrases ("stop", "bye"), unlike match.Best: intent phrases are a fixed,
// curated list, while learned triggers are arbitrary user speech. The bare
// wake word still never counts as a hit for "stop <wake>".
func phraseMatch(text string, phrases []string, threshold float64) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	for _, p := range phrases {
		if strings.Contains(text, p) || match.Ratio(text, p) >= threshold {
			return true
		}
	}
	return false
}

// isExit checks text against the exit phrases and, on a hit, ends the
// session: goodbye, flush, terminate.
func (d *Dispatcher) isExit(ctx context.Context, text string) bool {
	if !phraseMatch(text, d.exitPhrases, d.cfg.ExitThreshold) {
		return false
	}

	d.deps.Metrics.RecordUtterance(ctx, "exit")
	d.say(ctx, "Goodbye!")
	if err := d.Flush(); err != nil {
		slog.Error("failed to flush command registry on exit", "err", err)
	}
	d.state = StateTerminated
	return true
}

// looksRunnable reports whether action is plausibly a path or link the action
// runner can open.
func looksRunnable(action string) bool {
	if action == "" {
		return false
	}
	lower := strings.ToLower(action)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return true
	}
	if strings.ContainsAny(action, `/\`) {
		return true
	}
	for _, ext := range []string{".exe", ".bat", ".cmd", ".sh", ".app"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// say speaks text and records the assistant turn.
func (d *Dispatcher) say(ctx context.Context, text string) {
	d.deps.Speaker.Say(ctx, text)
	d.record(interaction.RoleAssistant, text, "")
}

// record appends a turn to the interaction log when logging is enabled.
func (d *Dispatcher) record(role interaction.Role, raw, normalized string) {
	if d.deps.Log == nil {
		return
	}
	d.deps.Log.Record(role, raw, normalized)
}
