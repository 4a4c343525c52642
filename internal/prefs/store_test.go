package prefs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStoreRoundTripAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.yaml")

	first := NewFileStore(path)
	if _, ok, err := first.Get(KeyDarkMode); err != nil || ok {
		t.Fatalf("Expected missing key on fresh store, got ok=%v err=%v", ok, err)
	}

	if err := SaveDarkMode(first, true); err != nil {
		t.Fatalf("SaveDarkMode failed: %v", err)
	}

	// A second instance simulates a reload
	second := NewFileStore(path)
	dark, err := LoadDarkMode(second)
	if err != nil {
		t.Fatalf("LoadDarkMode failed: %v", err)
	}
	if !dark {
		t.Errorf("Expected dark mode to persist")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `darkMode: "true"`) {
		t.Errorf("Expected string value in file, got %q", string(data))
	}
}

func TestFileStoreKeepsOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	store := NewFileStore(path)

	if err := store.Set("language", "sw"); err != nil {
		t.Fatal(err)
	}
	if err := SaveDarkMode(store, false); err != nil {
		t.Fatal(err)
	}

	v, ok, err := store.Get("language")
	if err != nil || !ok || v != "sw" {
		t.Errorf("Expected other key preserved, got %q ok=%v err=%v", v, ok, err)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	if err := os.WriteFile(path, []byte("darkMode: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadDarkMode(NewFileStore(path)); err == nil {
		t.Error("Expected parse error for corrupt preferences")
	}
}

func TestLoadDarkModeGarbageValue(t *testing.T) {
	store := NewMemoryStore()
	_ = store.Set(KeyDarkMode, "maybe")

	dark, err := LoadDarkMode(store)
	if err != nil || dark {
		t.Errorf("Expected garbage value to read as false, got %v (%v)", dark, err)
	}
}
