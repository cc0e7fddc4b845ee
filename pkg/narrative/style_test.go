package narrative

import (
	"strings"
	"testing"
)

func TestStyleByName(t *testing.T) {
	if got := StyleByName("Heroic Saga").Name; got != "Heroic Saga" {
		t.Errorf("StyleByName = %q", got)
	}
	if got := StyleByName("heroic saga").Name; got != "Heroic Saga" {
		t.Errorf("lookup is case sensitive, got %q", got)
	}
	if got := StyleByName("no such style").Name; got != DefaultStyle.Name {
		t.Errorf("unknown style = %q, want default %q", got, DefaultStyle.Name)
	}
}

func TestRenderChunkPrompt(t *testing.T) {
	prompt, err := renderPrompt("chunk.gotmpl", promptData{
		Narrator:    "Zhree",
		Style:       StyleByName("Mysterious Legend"),
		Speakers:    []speakerInfo{{Name: "Kara", Gender: "Female"}},
		ChunkNumber: 2,
		TotalChunks: 5,
		CarryOver:   "the party descended",
		Transcript:  "Kara: we open the door",
	})
	if err != nil {
		t.Fatalf("renderPrompt: %v", err)
	}
	for _, want := range []string{
		"You are Zhree, a mysterious storyteller of dark tales.",
		"chapter 2 of 5",
		"Continue the story naturally.",
		"- Kara (Female)",
		"The tale so far: the party descended",
		"Kara: we open the door",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(prompt, "beginning of the tale") {
		t.Error("continuation prompt must not carry the opening marker")
	}
}

func TestRenderPromptsParse(t *testing.T) {
	// Every embedded template must execute against a bare promptData.
	for _, name := range []string{"chunk.gotmpl", "title.gotmpl", "closing.gotmpl", "summary.gotmpl", "combine.gotmpl"} {
		if _, err := renderPrompt(name, promptData{Narrator: "Zhree", Style: DefaultStyle}); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}
