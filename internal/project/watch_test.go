package project

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watched.yaml")
	if err := os.WriteFile(path, []byte("meta: {name: one}\ncompositions: []\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Project, 4)
	w := NewWatcher(path, 20*time.Millisecond, zerolog.Nop())
	if err := w.Watch(ctx, func(p *Project) { reloaded <- p }); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	// an unparsable save is logged and skipped
	if err := os.WriteFile(path, []byte("{{{"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("meta: {name: two}\ncompositions: []\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case p := <-reloaded:
		if p.Meta.Name != "two" {
			t.Errorf("Expected reloaded project two, got %q", p.Meta.Name)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for reload")
	}
}
