package vocab

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// default cache file name inside the output directory
const CacheFileName = "vocab_cache.gob"

// Store persists the cross-file frequency map. Counts are only ever added
// to, on explicit update; nothing is decayed or pruned. Access within one
// process is serialized; concurrent processes remain last-writer-wins.
type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted frequency map. A missing cache is an empty map.
func (s *Store) Load() (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (map[string]int, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]int), nil
		}
		return nil, fmt.Errorf("failed to open vocab cache: %w", err)
	}
	defer f.Close()

	counts := make(map[string]int)
	if err := gob.NewDecoder(f).Decode(&counts); err != nil {
		return nil, fmt.Errorf("failed to decode vocab cache: %w", err)
	}
	return counts, nil
}

// Update merges a per-file counter into the cache and persists it,
// returning the merged map.
func (s *Store) Update(c *Counter) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts, err := s.load()
	if err != nil {
		return nil, err
	}
	for word, n := range c.Counts() {
		counts[word] += n
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	f, err := os.Create(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to write vocab cache: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(counts); err != nil {
		return nil, fmt.Errorf("failed to encode vocab cache: %w", err)
	}

	return counts, nil
}

// RankedFromMap orders a raw frequency map by descending count. The map
// has no encounter order, so ties fall back to alphabetical.
func RankedFromMap(counts map[string]int) []WordCount {
	ranked := make([]WordCount, 0, len(counts))
	for w, n := range counts {
		ranked = append(ranked, WordCount{Word: w, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Word < ranked[j].Word
	})
	return ranked
}
