// Package speaker maps opaque diarization labels to durable, user-assigned
// identities: display name, gender, avatar, and a deterministic color.
//
// Segments hold only the label; every lookup goes through the [Roster], so
// renaming a speaker is a single map update visible to all segments at
// once. The roster is mutated only by explicit user actions, which the
// caller serializes; concurrent readers need no locking.
//
// Label assignment is per-diarization-run: reusing a saved mapping against
// a different run is a heuristic, not a guarantee, and the roster never
// merges identities across sessions on its own.
package speaker

import (
	"fmt"
	"os"
	"sort"

	"github.com/goccy/go-yaml"
)

// Identity is the persisted record for one diarization label.
type Identity struct {
	Name       string `yaml:"name"`
	Gender     string `yaml:"gender,omitempty"`
	Avatar     string `yaml:"avatar,omitempty"`
	ColorIndex int    `yaml:"color_index"`
}

// Roster is the label → identity table for one run.
type Roster struct {
	identities map[string]*Identity
}

// NewRoster returns an empty roster.
func NewRoster() *Roster {
	return &Roster{identities: make(map[string]*Identity)}
}

// Assign sets the identity for a label, creating the entry on first sight.
// The change is immediately visible to every segment carrying the label.
func (r *Roster) Assign(label, name, gender, avatar string) {
	id := r.ensure(label)
	if name != "" {
		id.Name = name
	}
	id.Gender = gender
	id.Avatar = avatar
}

// Observe registers a label without assigning a name, so the roster covers
// every speaker the merger found. Existing entries are left alone.
func (r *Roster) Observe(labels ...string) {
	for _, label := range labels {
		r.ensure(label)
	}
}

func (r *Roster) ensure(label string) *Identity {
	if id, ok := r.identities[label]; ok {
		return id
	}
	id := &Identity{ColorIndex: colorIndex(label)}
	r.identities[label] = id
	return id
}

// Identity returns the identity for a label, or nil if never seen.
func (r *Roster) Identity(label string) *Identity {
	return r.identities[label]
}

// DisplayName returns the assigned name for a label, defaulting to the
// label itself.
func (r *Roster) DisplayName(label string) string {
	if id, ok := r.identities[label]; ok && id.Name != "" {
		return id.Name
	}
	return label
}

// Labels returns all known labels in sorted order.
func (r *Roster) Labels() []string {
	labels := make([]string, 0, len(r.identities))
	for label := range r.identities {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Len returns the number of known labels.
func (r *Roster) Len() int {
	return len(r.identities)
}

// SaveFile serializes the label → identity table to a YAML file for reuse
// in a later session.
func (r *Roster) SaveFile(path string) error {
	data, err := yaml.Marshal(r.identities)
	if err != nil {
		return fmt.Errorf("speaker: marshal roster: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("speaker: write roster: %w", err)
	}
	return nil
}

// MergeFile loads a saved mapping and merges it into the roster. Labels
// already present are overwritten by the file; labels absent from the file
// are kept untouched. Because diarization labels are not stable across
// independently run sessions, callers should confirm the reuse with the
// user rather than merge silently.
func (r *Roster) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("speaker: read roster: %w", err)
	}
	loaded := make(map[string]*Identity)
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("speaker: parse roster: %w", err)
	}
	for label, id := range loaded {
		if id == nil {
			continue
		}
		id.ColorIndex = colorIndex(label)
		r.identities[label] = id
	}
	return nil
}
