package dedup

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// Index tracks accepted prompts by exact string and by canonical hash.
// It only grows.
type Index struct {
	exact  map[string]struct{}
	hashes map[string]struct{}
	order  []string
}

// NewIndex creates an empty fingerprint index.
func NewIndex() *Index {
	return &Index{
		exact:  make(map[string]struct{}),
		hashes: make(map[string]struct{}),
	}
}

// Hash returns the hex MD5 of the canonical form of s with spaces removed.
func Hash(s string) string {
	canonical := strings.ReplaceAll(Normalize(s), " ", "")
	sum := md5.Sum([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// ContainsExact reports whether s, exactly as given, was added before.
func (idx *Index) ContainsExact(s string) bool {
	_, ok := idx.exact[s]
	return ok
}

// ContainsHash reports whether a string with the same canonical hash was
// added before.
func (idx *Index) ContainsHash(s string) bool {
	return idx.ContainsHashValue(Hash(s))
}

// ContainsHashValue reports whether hash is already present.
func (idx *Index) ContainsHashValue(hash string) bool {
	_, ok := idx.hashes[hash]
	return ok
}

// Add inserts s and its canonical hash. Adding the same string twice is a no-op.
func (idx *Index) Add(s string) {
	if _, ok := idx.exact[s]; ok {
		return
	}
	idx.exact[s] = struct{}{}
	idx.hashes[Hash(s)] = struct{}{}
	idx.order = append(idx.order, s)
}

// Seed adds previously emitted prompts. Blank entries are skipped and
// surrounding whitespace is trimmed. Returns the number of new prompts added.
func (idx *Index) Seed(prompts []string) int {
	added := 0
	for _, p := range prompts {
		p = strings.TrimSpace(p)
		if p == "" || idx.ContainsExact(p) {
			continue
		}
		idx.Add(p)
		added++
	}
	return added
}

// Len returns the number of distinct strings in the index.
func (idx *Index) Len() int {
	return len(idx.order)
}

// Prompts returns the indexed strings in insertion order.
// The returned slice must not be modified.
func (idx *Index) Prompts() []string {
	return idx.order
}
