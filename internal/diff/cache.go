package diff

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/go-git/go-git/v5/plumbing"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of line pairs a Cache keeps by default.
const DefaultCacheSize = 4096

// Comparer computes word segments for a pair of lines.
type Comparer interface {
	Compare(old, new string) (oldSegs, newSegs []Segment)
}

// ComparerFunc adapts a function to Comparer.
type ComparerFunc func(old, new string) ([]Segment, []Segment)

func (f ComparerFunc) Compare(old, new string) ([]Segment, []Segment) { return f(old, new) }

// Default compares without a token cap or memoization.
var Default Comparer = ComparerFunc(Compare)

type cachedPair struct {
	old []Segment
	new []Segment
}

// Cache memoizes word comparisons keyed by a content hash of the line pair
// and evicts the least recently used pairs. It is safe for concurrent use.
type Cache struct {
	entries   *lru.Cache[plumbing.Hash, cachedPair]
	maxTokens int
}

// NewCache returns a Cache holding up to size pairs (DefaultCacheSize when
// size <= 0). maxTokens is passed to CompareLimited; 0 disables the cap.
func NewCache(size, maxTokens int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[plumbing.Hash, cachedPair](size)
	if err != nil {
		return nil, fmt.Errorf("word diff cache: %w", err)
	}
	return &Cache{entries: entries, maxTokens: maxTokens}, nil
}

func (c *Cache) Compare(old, new string) ([]Segment, []Segment) {
	key := pairKey(old, new)
	if hit, ok := c.entries.Get(key); ok {
		return slices.Clone(hit.old), slices.Clone(hit.new)
	}
	oldSegs, newSegs := CompareLimited(old, new, c.maxTokens)
	c.entries.Add(key, cachedPair{old: slices.Clone(oldSegs), new: slices.Clone(newSegs)})
	return oldSegs, newSegs
}

// Len reports the number of cached pairs.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// pairKey hashes the length-prefixed pair so ("ab", "c") and ("a", "bc")
// never share a key.
func pairKey(old, new string) plumbing.Hash {
	buf := make([]byte, 0, 16+len(old)+len(new))
	buf = binary.AppendUvarint(buf, uint64(len(old)))
	buf = append(buf, old...)
	buf = binary.AppendUvarint(buf, uint64(len(new)))
	buf = append(buf, new...)
	return plumbing.ComputeHash(plumbing.BlobObject, buf)
}
