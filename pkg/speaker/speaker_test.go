package speaker

import (
	"path/filepath"
	"testing"
)

func TestRoster_AssignAndLookup(t *testing.T) {
	r := NewRoster()
	r.Observe("SPEAKER_00", "SPEAKER_01")

	if got := r.DisplayName("SPEAKER_00"); got != "SPEAKER_00" {
		t.Errorf("DisplayName before assign = %q; want the label itself", got)
	}

	r.Assign("SPEAKER_00", "Thalindra", "Female", "avatars/thalindra.png")
	if got := r.DisplayName("SPEAKER_00"); got != "Thalindra" {
		t.Errorf("DisplayName = %q; want Thalindra", got)
	}
	id := r.Identity("SPEAKER_00")
	if id == nil || id.Gender != "Female" || id.Avatar != "avatars/thalindra.png" {
		t.Errorf("Identity = %+v", id)
	}
	if r.Identity("SPEAKER_99") != nil {
		t.Error("Identity for unseen label should be nil")
	}
}

func TestRoster_ColorDeterministic(t *testing.T) {
	r := NewRoster()
	c1 := r.Color("SPEAKER_00")
	c2 := r.Color("SPEAKER_00")
	if c1 != c2 {
		t.Errorf("color not deterministic: %v vs %v", c1, c2)
	}
	r.Observe("SPEAKER_00")
	if c3 := r.Color("SPEAKER_00"); c3 != c1 {
		t.Errorf("color changed after Observe: %v vs %v", c3, c1)
	}
}

func TestRoster_SaveMerge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "speakers.yaml")

	r := NewRoster()
	r.Assign("SPEAKER_00", "Thalindra", "Female", "")
	r.Assign("SPEAKER_01", "Grimjaw", "Male", "")
	if err := r.SaveFile(path); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	// A fresh roster for a new run knows a label the file does not.
	next := NewRoster()
	next.Assign("SPEAKER_02", "Zephyros", "", "")
	if err := next.MergeFile(path); err != nil {
		t.Fatalf("MergeFile: %v", err)
	}
	if got := next.DisplayName("SPEAKER_00"); got != "Thalindra" {
		t.Errorf("merged name = %q; want Thalindra", got)
	}
	// Merge must not discard labels absent from the file.
	if got := next.DisplayName("SPEAKER_02"); got != "Zephyros" {
		t.Errorf("existing label lost on merge: %q", got)
	}
	if next.Len() != 3 {
		t.Errorf("Len = %d; want 3", next.Len())
	}
}

func TestRoster_Labels(t *testing.T) {
	r := NewRoster()
	r.Observe("SPEAKER_01", "SPEAKER_00", "SPEAKER_02")
	labels := r.Labels()
	want := []string{"SPEAKER_00", "SPEAKER_01", "SPEAKER_02"}
	if len(labels) != len(want) {
		t.Fatalf("Labels = %v", labels)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("Labels[%d] = %q; want %q", i, labels[i], want[i])
		}
	}
}
