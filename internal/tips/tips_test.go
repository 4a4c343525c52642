package tips

import (
	"math/rand"
	"testing"
)

func TestPickDeterministic(t *testing.T) {
	got := Pick(func(n int) int { return n - 1 })
	if got != All[len(All)-1] {
		t.Errorf("Expected last tip, got %q", got)
	}

	if Pick(nil) != All[0] {
		t.Errorf("Expected first tip for nil source")
	}
}

func TestPickOutOfRangeSource(t *testing.T) {
	if got := Pick(func(n int) int { return n + 5 }); got != All[0] {
		t.Errorf("Expected fallback to first tip, got %q", got)
	}
	if got := PickFrom(nil, func(n int) int { return 0 }); got != "" {
		t.Errorf("Expected empty tip for empty list, got %q", got)
	}
}

func TestPickSeededSourceStaysInList(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[Pick(rng.Intn)] = true
	}

	known := map[string]bool{}
	for _, tip := range All {
		known[tip] = true
	}
	for tip := range seen {
		if !known[tip] {
			t.Errorf("Pick returned unknown tip %q", tip)
		}
	}
	if len(seen) < 2 {
		t.Errorf("Expected several distinct tips over 200 draws, got %d", len(seen))
	}
}
