// Package schema maps STEP entity and defined-type names to numeric type
// codes.
//
// Codes are the CRC-32 (IEEE) checksum of the upper-cased name. This keeps
// codes stable across processes and schema versions without shipping a
// generated table, and matches the code space used by web-ifc. The code 0 is
// reserved: it is returned for names the registry does not know and marks a
// record as absent.
package schema

import (
	"hash/crc32"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Unknown is the type code returned for unregistered names.
const Unknown uint32 = 0

// maxSuggestions bounds the did-you-mean list.
const maxSuggestions = 3

// Resolver maps a label or entity name to its type code. Unknown names
// resolve to Unknown; resolution never fails.
type Resolver interface {
	TypeCode(name string) uint32
}

// NameResolver is the reverse mapping used by renderers.
type NameResolver interface {
	Name(code uint32) (string, bool)
}

// Code returns the type code for name whether or not it is registered.
func Code(name string) uint32 {
	return crc32.ChecksumIEEE([]byte(strings.ToUpper(name)))
}

// Registry holds the set of known names. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byCode map[uint32]string
}

// NewRegistry creates a registry preloaded with the built-in IFC names.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	r.Register(builtinNames...)
	return r
}

// NewEmptyRegistry creates a registry with no names.
func NewEmptyRegistry() *Registry {
	return &Registry{byCode: make(map[uint32]string)}
}

// Register adds names. Names are case-insensitive and stored upper-cased.
// Registering a name twice is a no-op.
func (r *Registry) Register(names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range names {
		upper := strings.ToUpper(strings.TrimSpace(name))
		if upper == "" {
			continue
		}
		r.byCode[Code(upper)] = upper
	}
}

// TypeCode returns the code for a registered name, or Unknown.
func (r *Registry) TypeCode(name string) uint32 {
	code := Code(name)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.byCode[code]; !ok {
		return Unknown
	}
	return code
}

// Name returns the registered name for code.
func (r *Registry) Name(code uint32) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.byCode[code]
	return name, ok
}

// Names returns all registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.byCode))
	for _, name := range r.byCode {
		names = append(names, name)
	}
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

// Len returns the number of registered names.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byCode)
}

// Suggest returns up to three registered names close to name, best first.
// Subsequence matches are preferred; otherwise names within edit distance 2
// are returned.
func (r *Registry) Suggest(name string) []string {
	target := strings.ToUpper(name)
	candidates := r.Names()

	ranks := fuzzy.RankFindFold(target, candidates)
	sort.Sort(ranks)
	var out []string
	for _, rank := range ranks {
		if rank.Target == target {
			continue
		}
		out = append(out, rank.Target)
		if len(out) == maxSuggestions {
			return out
		}
	}
	if len(out) > 0 {
		return out
	}

	type scored struct {
		name string
		dist int
	}
	var close []scored
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(target, c); d > 0 && d <= 2 {
			close = append(close, scored{c, d})
		}
	}
	sort.SliceStable(close, func(i, j int) bool { return close[i].dist < close[j].dist })
	for _, c := range close {
		out = append(out, c.name)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
