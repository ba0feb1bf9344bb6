package chat

import (
	"sort"

	"github.com/equipo25/ragcli/internal/ragapi"
)

// FilterState holds the tag and document selections for the next query.
// Toggles are membership based: toggling a present member removes it, an
// absent one adds it.
type FilterState struct {
	selectedTags   map[string]struct{}
	selectedDocIDs map[string]struct{}
}

func NewFilterState() *FilterState {
	return &FilterState{
		selectedTags:   make(map[string]struct{}),
		selectedDocIDs: make(map[string]struct{}),
	}
}

func (f *FilterState) ToggleTag(tag string) {
	toggle(f.selectedTags, tag)
}

func (f *FilterState) ToggleDocID(id string) {
	toggle(f.selectedDocIDs, id)
}

func (f *FilterState) HasTag(tag string) bool {
	_, ok := f.selectedTags[tag]
	return ok
}

func (f *FilterState) HasDocID(id string) bool {
	_, ok := f.selectedDocIDs[id]
	return ok
}

// Tags returns the selected tags sorted, or nil when nothing is selected.
func (f *FilterState) Tags() []string {
	return sortedKeys(f.selectedTags)
}

// DocIDs returns the selected document IDs sorted, or nil when nothing is
// selected.
func (f *FilterState) DocIDs() []string {
	return sortedKeys(f.selectedDocIDs)
}

func toggle(set map[string]struct{}, member string) {
	if _, ok := set[member]; ok {
		delete(set, member)
		return
	}
	set[member] = struct{}{}
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// AvailableTags extracts the unique tags across a document catalog, sorted.
// Used to populate the filter choices once the catalog has been fetched.
func AvailableTags(docs []ragapi.Document) []string {
	seen := make(map[string]struct{})
	for _, doc := range docs {
		for _, tag := range doc.Tags {
			seen[tag] = struct{}{}
		}
	}
	return sortedKeys(seen)
}
