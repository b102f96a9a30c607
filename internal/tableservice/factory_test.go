package tableservice

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestFactory_MemoryBackend(t *testing.T) {
	resolver, err := CreateFromConfig(bg(), &BackendConfig{Type: "memory"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, ok := resolver.(*MemoryResolver); !ok {
		t.Errorf("resolver type %T", resolver)
	}
}

func TestFactory_SQLiteBackend(t *testing.T) {
	resolver, err := CreateFromConfig(bg(), &BackendConfig{
		Type:         "sqlite",
		SQLitePath:   filepath.Join(t.TempDir(), "test.db"),
		RunMigration: true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	closer, ok := resolver.(Closer)
	if !ok {
		t.Fatalf("sqlite resolver should be closable, got %T", resolver)
	}
	defer closer.Close()

	table := resolver.Resolve("t")
	if _, err := table.Put(bg(), Record{"id": "1"}); err != nil {
		t.Errorf("Put against fresh sqlite backend: %v", err)
	}
}

func TestFactory_TypeIsCaseInsensitive(t *testing.T) {
	if _, err := CreateFromConfig(bg(), &BackendConfig{Type: "Memory"}); err != nil {
		t.Errorf("mixed-case type rejected: %v", err)
	}
}

func TestFactory_UnknownBackend(t *testing.T) {
	_, err := CreateFromConfig(bg(), &BackendConfig{Type: "redis"})
	if !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("unknown backend: %v", err)
	}
}

func TestFactory_NilConfig(t *testing.T) {
	if _, err := CreateFromConfig(bg(), nil); err == nil {
		t.Error("nil config accepted")
	}
}
