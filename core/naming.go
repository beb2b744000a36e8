package core

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/huangsam/docname/schema"
)

// maxStemLen caps the filename stem before the extension is appended.
const maxStemLen = 200

// fallbackStem names files whose metadata produced no usable component.
const fallbackStem = "Document"

var nonWordRunRegex = regexp.MustCompile(`[^A-Za-z0-9]+`)

// sanitizeComponent collapses every run of non-alphanumeric characters to a
// single underscore and trims underscores from both ends.
func sanitizeComponent(value string) string {
	return strings.Trim(nonWordRunRegex.ReplaceAllString(value, "_"), "_")
}

// BuildFilename derives the target filename for the extracted metadata.
//
// Formats:
//   - Normal mode: Description_ID.ext, date-prefixed when a date was found.
//   - Receipt mode: Date_Store_Description.ext.
//
// Missing pieces are dropped rather than leaving empty separators.
func BuildFilename(meta schema.DocumentMetadata, ext string, receipt bool) string {
	var parts []string
	descIdx := -1

	// The date is already normalized YYYY-MM-DD and keeps its dashes
	if meta.Date != "" {
		parts = append(parts, meta.Date)
	}

	if receipt {
		if store := sanitizeComponent(meta.Store); store != "" {
			parts = append(parts, store)
		}
		if desc := sanitizeComponent(meta.Description); desc != "" {
			descIdx = len(parts)
			parts = append(parts, desc)
		}
	} else {
		if desc := sanitizeComponent(meta.Description); desc != "" {
			descIdx = len(parts)
			parts = append(parts, desc)
		}
		if id := sanitizeComponent(meta.DocID); id != "" {
			parts = append(parts, id)
		}
	}

	stem := strings.Join(parts, "_")
	if excess := len([]rune(stem)) - maxStemLen; excess > 0 {
		stem = shrinkDescription(parts, descIdx, excess)
	}
	if stem == "" {
		stem = fallbackStem
	}
	return stem + strings.ToLower(ext)
}

// shrinkDescription trims the excess runes out of the description component
// only, so the date and identifier always survive the stem cap.
func shrinkDescription(parts []string, descIdx, excess int) string {
	if descIdx >= 0 {
		desc := []rune(parts[descIdx])
		keep := max(len(desc)-excess, 0)
		parts[descIdx] = strings.TrimRight(string(desc[:keep]), "_")
		if parts[descIdx] == "" {
			parts = append(parts[:descIdx], parts[descIdx+1:]...)
		}
	}
	stem := strings.Join(parts, "_")
	if runes := []rune(stem); len(runes) > maxStemLen {
		stem = strings.TrimRight(string(runes[:maxStemLen]), "_")
	}
	return stem
}

// NameRegistry tracks target names claimed by concurrent workers so two
// files never plan the same destination within one run. Dry runs claim
// names too, which keeps planned output collision-free.
type NameRegistry struct {
	mu      sync.Mutex
	claimed map[string]struct{}
}

// NewNameRegistry returns an empty registry.
func NewNameRegistry() *NameRegistry {
	return &NameRegistry{claimed: make(map[string]struct{})}
}

// Claim reserves the first free variant of name within dir, probing
// stem_v2, stem_v3, ... against both the filesystem and names already
// claimed this run. A candidate that is the claimant's own current path
// counts as free, so a name assigned in an earlier run stays stable on
// re-runs instead of escalating to the next suffix. The returned name is
// reserved until Release.
func (r *NameRegistry) Claim(dir, name, sourcePath string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	source := filepath.Clean(sourcePath)

	r.mu.Lock()
	defer r.mu.Unlock()

	candidate := name
	for version := 2; ; version++ {
		key := filepath.Join(dir, candidate)
		if _, taken := r.claimed[key]; !taken {
			if key == source {
				r.claimed[key] = struct{}{}
				return candidate
			}
			if _, err := os.Stat(key); err != nil {
				r.claimed[key] = struct{}{}
				return candidate
			}
		}
		candidate = fmt.Sprintf("%s_v%d%s", stem, version, ext)
	}
}

// Release frees a claimed name after the owning file failed to use it.
func (r *NameRegistry) Release(dir, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.claimed, filepath.Join(dir, name))
}
