package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ozanturksever/reaktiv-go/action"
	"github.com/ozanturksever/reaktiv-go/config"
)

func TestBuilderConfigWiresFileBackend(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		PersistenceBackend: "file",
		PersistencePath:    filepath.Join(dir, "state.json"),
	}

	b, err := NewBuilder().Module(newCounterModule("counter")).Config(cfg)
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	s := mustBuild(t, b)

	if err := s.Dispatch(action.New(incType, "counter", 5)); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	waitForCount(t, s, 5)

	if err := s.SaveState(); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	if _, err := os.Stat(cfg.PersistencePath); err != nil {
		t.Errorf("expected a state file at %s: %v", cfg.PersistencePath, err)
	}
}

func TestBuilderConfigRejectsUnknownBackend(t *testing.T) {
	cfg := &config.Config{PersistenceBackend: "carrier-pigeon"}
	if _, err := NewBuilder().Module(newCounterModule("counter")).Config(cfg); err == nil {
		t.Fatal("expected an error for an unknown persistence_backend")
	}
}

func TestBuilderConfigSetsQueueWarnSize(t *testing.T) {
	cfg := &config.Config{QueueWarnSize: 2}
	b, err := NewBuilder().Module(newCounterModule("counter")).Config(cfg)
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	if b.queueWarnSize != 2 {
		t.Errorf("queueWarnSize = %d, want 2", b.queueWarnSize)
	}
}
