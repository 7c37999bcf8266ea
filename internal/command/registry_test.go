package command_test

import (
	"errors"
	"testing"

	"github.com/spf13/afero"

	"github.com/novakit/nova/internal/command"
)

// failingStore loads fine but refuses every save.
type failingStore struct {
	saveErr error
}

func (f *failingStore) Load() (map[string]string, error) { return map[string]string{}, nil }
func (f *failingStore) Save(map[string]string) error     { return f.saveErr }

func TestRegistry_PutPersists(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	store := command.NewJSONStore(fs, "learned_commands.json")

	reg, err := command.NewRegistry(store)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if err := reg.Put("open notepad", `C:\Windows\System32\notepad.exe`); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// A fresh registry over the same store sees the persisted entry.
	reloaded, err := command.NewRegistry(command.NewJSONStore(fs, "learned_commands.json"))
	if err != nil {
		t.Fatalf("NewRegistry (reload): %v", err)
	}
	action, ok := reloaded.Get("open notepad")
	if !ok {
		t.Fatal("Get after reload: command not found, want persisted entry")
	}
	if action != `C:\Windows\System32\notepad.exe` {
		t.Errorf("Get after reload: action=%q, want the taught path", action)
	}
}

func TestRegistry_PutSurfacesStorageError(t *testing.T) {
	t.Parallel()

	saveErr := errors.New("disk full")
	reg, err := command.NewRegistry(&failingStore{saveErr: saveErr})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	err = reg.Put("open notepad", "/usr/bin/gedit")
	if !errors.Is(err, saveErr) {
		t.Fatalf("Put: err=%v, want the store's save error", err)
	}

	// The in-memory entry survives so the command still works this session.
	if _, ok := reg.Get("open notepad"); !ok {
		t.Error("Get: entry missing after failed persist, want it kept in memory")
	}
}

func TestRegistry_LastWriteWins(t *testing.T) {
	t.Parallel()

	reg, err := command.NewRegistry(command.NewJSONStore(afero.NewMemMapFs(), "c.json"))
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if err := reg.Put("open notes", "/usr/bin/gedit"); err != nil {
		t.Fatal(err)
	}
	if err := reg.Put("open notes", "/usr/bin/kate"); err != nil {
		t.Fatal(err)
	}

	action, _ := reg.Get("open notes")
	if action != "/usr/bin/kate" {
		t.Errorf("Get: action=%q, want the most recent write", action)
	}
	if reg.Len() != 1 {
		t.Errorf("Len: %d, want 1", reg.Len())
	}
}

func TestRegistry_AllSorted(t *testing.T) {
	t.Parallel()

	reg, err := command.NewRegistry(command.NewJSONStore(afero.NewMemMapFs(), "c.json"))
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	for _, trigger := range []string{"zoom call", "open notepad", "check mail"} {
		if err := reg.Put(trigger, "https://example.com"); err != nil {
			t.Fatal(err)
		}
	}

	got := reg.All()
	want := []string{"check mail", "open notepad", "zoom call"}
	if len(got) != len(want) {
		t.Fatalf("All: got %d triggers, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("All[%d]=%q, want %q", i, got[i], want[i])
		}
	}
}
