package transcript

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRules_Apply(t *testing.T) {
	rules := Rules{
		{Pattern: "half orc", Replace: "half-orc"},
		{Pattern: "dnd", Replace: "D&D"},
		{Pattern: "strahd", Replace: "Strahd"},
	}

	tests := []struct {
		in   string
		want string
	}{
		{"the half orc charges", "the half-orc charges"},
		{"we played dnd last night", "we played D&D last night"},
		{"DND is fun", "D&D is fun"},
		{"strahd was waiting", "Strahd was waiting"},
		{"strahd, as always", "Strahd, as always"},
		{"no matches here", "no matches here"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := rules.Apply(tc.in); got != tc.want {
			t.Errorf("Apply(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestRules_Idempotent(t *testing.T) {
	rules := append(BuiltinRules(),
		Rule{Pattern: "barovia", Replace: "Barovia"},
		Rule{Pattern: "van richten", Replace: "Van Richten"},
	)
	texts := []string{
		"we met van richten in barovia",
		"the half orc rolled a natural 20",
		"dnd dungeon master says make a death saving throw",
		"Van Richten already corrected",
	}
	for _, text := range texts {
		once := rules.Apply(text)
		twice := rules.Apply(once)
		if once != twice {
			t.Errorf("not idempotent: %q -> %q -> %q", text, once, twice)
		}
	}
}

func TestRules_LongestMatchFirst(t *testing.T) {
	rules := Rules{
		{Pattern: "natural", Replace: "NATURAL"},
		{Pattern: "natural 20", Replace: "nat 20"},
	}
	if got := rules.Apply("a natural 20 appears"); got != "a nat 20 appears" {
		t.Errorf("got %q; want longest pattern to win", got)
	}
	if got := rules.Apply("natural talent"); got != "NATURAL talent" {
		t.Errorf("got %q; want shorter pattern to apply alone", got)
	}
}

func TestRules_EarlierRuleWinsOnTie(t *testing.T) {
	// A custom rule prepended to the stock table shadows the builtin
	// entry with the same pattern.
	rules := append(Rules{{Pattern: "fireball", Replace: "Fire Bolt"}}, BuiltinRules()...)
	if got := rules.Apply("i cast fireball"); got != "i cast Fire Bolt" {
		t.Errorf("got %q; want the earlier rule to win the tie", got)
	}
}

func TestRules_SubstitutesOncePerPosition(t *testing.T) {
	rules := Rules{
		{Pattern: "aa", Replace: "aa bb"},
		{Pattern: "bb", Replace: "cc"},
	}
	// The inserted "bb" sits inside an already-substituted span and must
	// not be rewritten in the same pass.
	if got := rules.Apply("aa"); got != "aa bb" {
		t.Errorf("got %q; want %q", got, "aa bb")
	}
}

func TestRules_Correct_PreservesTiming(t *testing.T) {
	segs := []Segment{{
		Label: "A",
		Start: 0, End: 1.2,
		Words: []Word{
			word("the", 0, 0.2),
			word("half", 0.3, 0.5),
			word("orc", 0.6, 0.8),
			word("waits", 0.9, 1.2),
		},
	}}
	rules := Rules{{Pattern: "half orc", Replace: "half-orc"}}

	out := rules.Correct(segs)
	if got := out[0].Text(); got != "the half-orc waits" {
		t.Fatalf("text = %q", got)
	}
	if len(out[0].Words) != 4 {
		t.Fatalf("words = %d; want 4 (timing preserved)", len(out[0].Words))
	}
	if out[0].Words[2].Text != "" || out[0].Words[2].Start != 0.6 {
		t.Errorf("collapsed word lost timing: %+v", out[0].Words[2])
	}
	// Input untouched.
	if segs[0].Words[1].Text != "half" {
		t.Errorf("input mutated: %+v", segs[0].Words[1])
	}
}

func TestRules_SaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vocab.yaml")

	rules := Rules{
		{Pattern: "teefling", Replace: "tiefling"},
		{Pattern: "d and d", Replace: "D&D"},
	}
	if err := rules.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(loaded) != 2 || loaded[0].Pattern != "teefling" || loaded[1].Replace != "D&D" {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestLoadRules_Names(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vocab.yaml")
	content := "names:\n  - Thalindra\n  - Grimjaw\nrules:\n  - pattern: strahd\n    replace: Strahd\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if got := rules.Apply("thalindra met grimjaw and strahd"); got != "Thalindra met Grimjaw and Strahd" {
		t.Errorf("Apply = %q", got)
	}
}
