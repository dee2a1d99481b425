package vocab

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestExtractFiltersStopwordsAndExclusions(t *testing.T) {
	// "le" is a French stopword; "jean" is a user exclusion
	counter := Extract(
		[]string{"Jean aime le chat"},
		map[string]bool{"jean": true},
	)

	want := map[string]int{"aime": 1, "chat": 1}
	if got := counter.Counts(); !reflect.DeepEqual(got, want) {
		t.Errorf("Counts() = %v, want %v", got, want)
	}
}

func TestExtractLowercasesAndDropsNonAlphabetic(t *testing.T) {
	counter := Extract(
		[]string{"Chat CHAT chat", "42 l'eau dix-sept chat."},
		nil,
	)

	if got := counter.Count("chat"); got != 3 {
		t.Errorf("chat count = %d, want 3 (token \"chat.\" must be dropped)", got)
	}
	for _, w := range []string{"42", "l'eau", "dix-sept", "chat."} {
		if counter.Count(w) != 0 {
			t.Errorf("non-alphabetic token %q was counted", w)
		}
	}
}

func TestExtractKeepsAccentedWords(t *testing.T) {
	counter := Extract([]string{"écoute répète écoute"}, nil)
	if got := counter.Count("écoute"); got != 2 {
		t.Errorf("écoute count = %d, want 2", got)
	}
	if got := counter.Count("répète"); got != 1 {
		t.Errorf("répète count = %d, want 1", got)
	}
}

func TestExtractExcludesStopwordsCaseInsensitively(t *testing.T) {
	counter := Extract(
		[]string{"LE Chien ET LA Souris"},
		map[string]bool{"souris": true},
	)
	want := map[string]int{"chien": 1}
	if got := counter.Counts(); !reflect.DeepEqual(got, want) {
		t.Errorf("Counts() = %v, want %v", got, want)
	}
}

func TestRankedOrdersByFrequencyThenFirstSeen(t *testing.T) {
	counter := NewCounter()
	for _, w := range []string{"un", "deux", "deux", "trois", "quatre", "quatre"} {
		counter.Add(w)
	}

	got := counter.Ranked()
	want := []WordCount{
		{"deux", 2},
		{"quatre", 2},
		{"un", 1},
		{"trois", 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Ranked() = %v, want %v", got, want)
	}
}

func TestParseFilterWords(t *testing.T) {
	got := ParseFilterWords("jean, marie, pierre\nLuc,  julie ,\n\n")
	want := map[string]bool{
		"jean": true, "marie": true, "pierre": true, "luc": true, "julie": true,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseFilterWords = %v, want %v", got, want)
	}
}

func TestStoreLoadMissingCache(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), CacheFileName))
	counts, err := store.Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(counts) != 0 {
		t.Errorf("missing cache loaded %d entries", len(counts))
	}
}

func TestStoreUpdateAccumulatesAcrossFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), CacheFileName)
	store := NewStore(path)

	first := Extract([]string{"chat chien chat"}, nil)
	if _, err := store.Update(first); err != nil {
		t.Fatalf("first Update error: %v", err)
	}

	second := Extract([]string{"chat souris"}, nil)
	merged, err := store.Update(second)
	if err != nil {
		t.Fatalf("second Update error: %v", err)
	}

	want := map[string]int{"chat": 3, "chien": 1, "souris": 1}
	if !reflect.DeepEqual(merged, want) {
		t.Errorf("merged = %v, want %v", merged, want)
	}

	// a fresh store handle sees the persisted counts
	reloaded, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("reload error: %v", err)
	}
	if !reflect.DeepEqual(reloaded, want) {
		t.Errorf("reloaded = %v, want %v", reloaded, want)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("cache file missing: %v", err)
	}
}

func TestRankedFromMap(t *testing.T) {
	got := RankedFromMap(map[string]int{"b": 2, "a": 2, "c": 5})
	want := []WordCount{{"c", 5}, {"a", 2}, {"b", 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RankedFromMap = %v, want %v", got, want)
	}
}
