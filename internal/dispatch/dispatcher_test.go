package dispatch_test

import (
	"context"
	"testing"

	"github.com/spf13/afero"

	"github.com/novakit/nova/internal/command"
	"github.com/novakit/nova/internal/dispatch"
	"github.com/novakit/nova/internal/match"
	"github.com/novakit/nova/internal/teach"
	actmock "github.com/novakit/nova/pkg/provider/actions/mock"
	spkmock "github.com/novakit/nova/pkg/provider/speaker/mock"
	sysmock "github.com/novakit/nova/pkg/system/mock"
)

// harness bundles a dispatcher with its mocks for assertion.
type harness struct {
	d        *dispatch.Dispatcher
	speaker  *spkmock.Speaker
	runner   *actmock.Runner
	system   *sysmock.Host
	registry *command.Registry
	fs       afero.Fs
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	fs := afero.NewMemMapFs()
	registry, err := command.NewRegistry(command.NewJSONStore(fs, "commands.json"))
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	speaker := &spkmock.Speaker{}
	runner := &actmock.Runner{}
	sys := &sysmock.Host{BatteryText: "Battery is at 80 percent"}

	d, err := dispatch.New(dispatch.Config{}, dispatch.Deps{
		Registry:  registry,
		Validator: teach.NewValidator(),
		Wake:      match.NewWakeDetector("nova"),
		Speaker:   speaker,
		Runner:    runner,
		System:    sys,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	return &harness{d: d, speaker: speaker, runner: runner, system: sys, registry: registry, fs: fs}
}

// wake moves the harness dispatcher into the listening state.
func (h *harness) wake(t *testing.T) {
	t.Helper()
	h.d.Dispatch(context.Background(), "nova")
	if got := h.d.State(); got != dispatch.StateListening {
		t.Fatalf("state after wake = %v, want listening", got)
	}
	h.speaker.Reset()
}

func TestIdle_IgnoresWithoutWakeWord(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.d.Dispatch(context.Background(), "open notepad")
	if got := h.d.State(); got != dispatch.StateIdle {
		t.Errorf("state = %v, want idle", got)
	}
	if len(h.speaker.Utterances) != 0 {
		t.Errorf("spoke while idle: %v", h.speaker.Utterances)
	}
}

func TestIdle_WakeWordAlonePrompts(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.d.Dispatch(context.Background(), "Nova")
	if got := h.d.State(); got != dispatch.StateListening {
		t.Errorf("state = %v, want listening", got)
	}
	if !h.speaker.Said("Yes?") {
		t.Errorf("prompt missing, said %v", h.speaker.Utterances)
	}
}

func TestIdle_FuzzyWakeWordStillWakes(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	// A common speech-to-text mishearing of "nova".
	h.d.Dispatch(context.Background(), "novah")
	if got := h.d.State(); got != dispatch.StateListening {
		t.Errorf("state = %v, want listening", got)
	}
}

func TestIdle_WakeWithCommandRunsImmediately(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	if err := h.registry.Put("open notepad", "notepad.exe"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	h.d.Dispatch(context.Background(), "nova open notepad")

	if !h.runner.Ran("notepad.exe") {
		t.Errorf("action not run; calls = %v", h.runner.RunCalls)
	}
	if got := h.d.State(); got != dispatch.StateListening {
		t.Errorf("state = %v, want listening", got)
	}
}

func TestIdle_DirectExitTerminates(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.d.Dispatch(context.Background(), "goodbye")
	if got := h.d.State(); got != dispatch.StateTerminated {
		t.Errorf("state = %v, want terminated", got)
	}
	if !h.speaker.Said("Goodbye") {
		t.Errorf("no goodbye, said %v", h.speaker.Utterances)
	}
}

func TestListening_FuzzyMatchRunsLearnedCommand(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	if err := h.registry.Put("open notepad", "notepad.exe"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	h.wake(t)

	// "open note" scores above the threshold against "open notepad".
	h.d.Dispatch(context.Background(), "open note")

	if !h.runner.Ran("notepad.exe") {
		t.Errorf("fuzzy match did not run; calls = %v", h.runner.RunCalls)
	}
	if !h.speaker.Said("open notepad") {
		t.Errorf("confirmation missing, said %v", h.speaker.Utterances)
	}
}

func TestListening_NoMatchBelowThreshold(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	if err := h.registry.Put("time", "clock.exe"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	h.wake(t)

	// "time now" vs "time" scores ≈0.67, below the 0.75 threshold, and the
	// single-word trigger must not match by containment.
	h.d.Dispatch(context.Background(), "time now")

	if h.runner.Ran("clock.exe") {
		t.Error("dissimilar phrase ran a learned command")
	}
}

func TestListening_UnknownCommandSuggestsTeaching(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.wake(t)

	h.d.Dispatch(context.Background(), "frobnicate the widget")

	if !h.speaker.Said("teach me") {
		t.Errorf("fallback hint missing, said %v", h.speaker.Utterances)
	}
	if got := h.d.State(); got != dispatch.StateListening {
		t.Errorf("state = %v, want listening", got)
	}
}

func TestListening_BuiltinBattery(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.wake(t)

	h.d.Dispatch(context.Background(), "what is the battery level")

	if !h.speaker.Said("80 percent") {
		t.Errorf("battery status missing, said %v", h.speaker.Utterances)
	}
}

func TestListening_BuiltinWordsDoNotFireInsideOtherWords(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.wake(t)

	h.d.Dispatch(context.Background(), "sometimes i wonder")

	if h.speaker.Said("The time is") {
		t.Errorf("time builtin fired inside 'sometimes': %v", h.speaker.Utterances)
	}
}

func TestListening_ExitTerminatesAndFlushes(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	if err := h.registry.Put("open notepad", "notepad.exe"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	h.wake(t)

	h.d.Dispatch(context.Background(), "nova stop")

	if got := h.d.State(); got != dispatch.StateTerminated {
		t.Fatalf("state = %v, want terminated", got)
	}
	// Input after termination is ignored.
	h.speaker.Reset()
	h.d.Dispatch(context.Background(), "nova open notepad")
	if len(h.speaker.Utterances) != 0 {
		t.Errorf("spoke after termination: %v", h.speaker.Utterances)
	}

	data, err := afero.ReadFile(h.fs, "commands.json")
	if err != nil {
		t.Fatalf("commands file not flushed: %v", err)
	}
	if len(data) == 0 {
		t.Error("flushed commands file is empty")
	}
}

func TestListening_ExitPhraseWordOrderIrrelevant(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.wake(t)

	// "stop nova" must terminate exactly like "nova stop".
	h.d.Dispatch(context.Background(), "stop nova")

	if got := h.d.State(); got != dispatch.StateTerminated {
		t.Fatalf("state = %v, want terminated", got)
	}
	if !h.speaker.Said("Goodbye") {
		t.Errorf("no goodbye, said %v", h.speaker.Utterances)
	}
}

func TestTeaching_FullFlowLearnsCommand(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.wake(t)

	h.d.Dispatch(context.Background(), "learn new command")
	if got := h.d.State(); got != dispatch.StateTeachingTrigger {
		t.Fatalf("state = %v, want teaching-trigger", got)
	}
	if !h.speaker.Said("trigger phrase") {
		t.Errorf("trigger prompt missing, said %v", h.speaker.Utterances)
	}

	h.speaker.Reset()
	h.d.Dispatch(context.Background(), "open my project")
	if got := h.d.State(); got != dispatch.StateTeachingAction {
		t.Fatalf("state = %v, want teaching-action", got)
	}

	h.speaker.Reset()
	h.d.Dispatch(context.Background(), "C:/projects/main.py")
	if got := h.d.State(); got != dispatch.StateListening {
		t.Fatalf("state = %v, want listening", got)
	}
	if !h.speaker.Said("Done") {
		t.Errorf("confirmation missing, said %v", h.speaker.Utterances)
	}

	action, ok := h.registry.Get("open my project")
	if !ok || action != "C:/projects/main.py" {
		t.Errorf("registry entry = %q, %v; want the taught action", action, ok)
	}

	// The learned command is immediately usable.
	h.runner.Reset()
	h.d.Dispatch(context.Background(), "open my project")
	if !h.runner.Ran("C:/projects/main.py") {
		t.Errorf("taught command did not run; calls = %v", h.runner.RunCalls)
	}
}

func TestTeaching_InvalidTriggerRepromptsOnceThenGivesUp(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.wake(t)
	h.d.Dispatch(context.Background(), "learn new command")

	h.speaker.Reset()
	h.d.Dispatch(context.Background(), "89")
	if got := h.d.State(); got != dispatch.StateTeachingTrigger {
		t.Fatalf("state after first rejection = %v, want teaching-trigger", got)
	}
	if !h.speaker.Said("only numbers") {
		t.Errorf("rejection reason missing, said %v", h.speaker.Utterances)
	}

	h.speaker.Reset()
	h.d.Dispatch(context.Background(), "hi")
	if got := h.d.State(); got != dispatch.StateListening {
		t.Fatalf("state after second rejection = %v, want listening", got)
	}
}

func TestTeaching_NonRunnableActionNotSaved(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.wake(t)
	h.d.Dispatch(context.Background(), "learn new command")
	h.d.Dispatch(context.Background(), "open my project")

	h.speaker.Reset()
	h.d.Dispatch(context.Background(), "just some words")

	if got := h.d.State(); got != dispatch.StateListening {
		t.Fatalf("state = %v, want listening", got)
	}
	if !h.speaker.Said("didn't save") {
		t.Errorf("not-saved message missing, said %v", h.speaker.Utterances)
	}
	if _, ok := h.registry.Get("open my project"); ok {
		t.Error("non-runnable action was saved")
	}
}

func TestTeaching_ActionKeepsRawCasing(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.wake(t)
	h.d.Dispatch(context.Background(), "learn new command")
	h.d.Dispatch(context.Background(), "open my site")

	h.d.Dispatch(context.Background(), "https://Example.com/Path")

	action, ok := h.registry.Get("open my site")
	if !ok || action != "https://Example.com/Path" {
		t.Errorf("action = %q, %v; want raw casing preserved", action, ok)
	}
}

func TestTeaching_ExitPhraseIsTreatedAsTriggerCandidate(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.wake(t)
	h.d.Dispatch(context.Background(), "learn new command")

	// While a trigger is awaited, utterances are data: "goodbye" is a
	// (one-word, invalid) trigger candidate, not an exit command.
	h.speaker.Reset()
	h.d.Dispatch(context.Background(), "goodbye")
	if got := h.d.State(); got != dispatch.StateTeachingTrigger {
		t.Errorf("state = %v, want teaching-trigger", got)
	}
	if h.speaker.Said("Goodbye!") {
		t.Errorf("session ended during teaching: %v", h.speaker.Utterances)
	}
}

func TestTeaching_StopPhraseCanBeTaught(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.wake(t)
	h.d.Dispatch(context.Background(), "learn new command")

	h.d.Dispatch(context.Background(), "stop the music")
	if got := h.d.State(); got != dispatch.StateTeachingAction {
		t.Fatalf("state = %v, want teaching-action", got)
	}

	h.d.Dispatch(context.Background(), "/usr/bin/pause-player.sh")
	if got := h.d.State(); got != dispatch.StateListening {
		t.Fatalf("state = %v, want listening", got)
	}
	action, ok := h.registry.Get("stop the music")
	if !ok || action != "/usr/bin/pause-player.sh" {
		t.Errorf("registry entry = %q, %v; want the taught action", action, ok)
	}
}

func TestNormalization_ContractionsAndPunctuation(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.wake(t)

	// "What's the time?" normalizes to "what is the time" and must hit
	// the time builtin.
	h.d.Dispatch(context.Background(), "What's the time?")

	if !h.speaker.Said("The time is") {
		t.Errorf("time builtin missing, said %v", h.speaker.Utterances)
	}
}

func TestStateString(t *testing.T) {
	t.Parallel()

	cases := map[dispatch.State]string{
		dispatch.StateIdle:            "idle",
		dispatch.StateListening:       "listening",
		dispatch.StateTeachingTrigger: "teaching-trigger",
		dispatch.StateTeachingAction:  "teaching-action",
		dispatch.StateTerminated:      "terminated",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(state), got, want)
		}
	}
}
