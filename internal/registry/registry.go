// Package registry maps vendor identities to their invoice rendering
// profiles. Profiles ship embedded in the binary and can be overridden by an
// external JSON file, so adding a vendor does not require a rebuild.
package registry

import (
	_ "embed"
	"encoding/json"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"poscan/internal/logger"
)

//go:embed vendors.json
var embeddedVendors []byte

// Vendor is one rendering profile: which PDF template to stamp and which
// coordinate layout to stamp it with.
type Vendor struct {
	Key             string `json:"key"`
	DisplayName     string `json:"display_name"`
	Template        string `json:"template"`
	Layout          string `json:"layout"`
	DefaultCurrency string `json:"default_currency"`
}

type vendorFile struct {
	Vendors []Vendor `json:"vendors"`
}

// Registry is an immutable lookup table of vendor profiles.
type Registry struct {
	vendors map[string]Vendor
	log     zerolog.Logger
}

// New loads the profiles embedded in the binary.
func New() (*Registry, error) {
	return parse(embeddedVendors)
}

// LoadFile loads profiles from an external JSON file, falling back to the
// embedded set when path is empty.
func LoadFile(path string) (*Registry, error) {
	const op = "LoadFile"

	if path == "" {
		return New()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapRegistryError(op, err, path)
	}
	return parse(data)
}

func parse(data []byte) (*Registry, error) {
	const op = "parse"

	var f vendorFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, WrapRegistryError(op, err, "")
	}
	if len(f.Vendors) == 0 {
		return nil, WrapRegistryError(op, ErrEmptyRegistry, "")
	}

	vendors := make(map[string]Vendor, len(f.Vendors))
	for _, v := range f.Vendors {
		key := NormalizeKey(v.Key)
		v.Key = key
		vendors[key] = v
	}
	return &Registry{
		vendors: vendors,
		log:     logger.WithComponent("registry"),
	}, nil
}

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeKey folds a vendor name or key to the canonical lookup form:
// lowercase with runs of non-alphanumerics collapsed to single underscores.
func NormalizeKey(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = nonAlnumRe.ReplaceAllString(key, "_")
	return strings.Trim(key, "_")
}

// Keys returns the known vendor keys, sorted.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.vendors))
	for k := range r.vendors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup resolves an exact key. The returned error carries the known keys
// so the operator can see what would have matched.
func (r *Registry) Lookup(key string) (Vendor, error) {
	const op = "Lookup"

	v, ok := r.vendors[NormalizeKey(key)]
	if !ok {
		return Vendor{}, WrapRegistryError(op, ErrVendorNotFound,
			"known: "+strings.Join(r.Keys(), ", "))
	}
	return v, nil
}

// FindByName resolves an extracted vendor name, which may carry OCR damage.
// An exact normalized match wins; otherwise the closest fuzzy match above
// the similarity threshold is taken.
func (r *Registry) FindByName(name string) (Vendor, bool) {
	key := NormalizeKey(name)
	if v, ok := r.vendors[key]; ok {
		return v, true
	}

	best := Vendor{}
	bestScore := 0.0
	for k, v := range r.vendors {
		score := charSimilarity(key, k)
		if score > bestScore {
			best, bestScore = v, score
		}
	}
	if bestScore >= 0.8 {
		r.log.Debug().
			Str("name", name).
			Str("matched", best.Key).
			Float64("score", bestScore).
			Msg("fuzzy vendor match")
		return best, true
	}
	return Vendor{}, false
}

// charSimilarity is the Jaccard index over the character sets of two keys.
// Crude, but robust to the single-glyph substitutions OCR produces.
func charSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	sa := make(map[rune]bool)
	for _, r := range a {
		sa[r] = true
	}
	sb := make(map[rune]bool)
	for _, r := range b {
		sb[r] = true
	}
	inter := 0
	for r := range sa {
		if sb[r] {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
