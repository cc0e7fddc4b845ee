package narrative

import (
	"embed"
	"strings"
	"text/template"
)

// DefaultNarrator is the bard persona used when none is configured.
const DefaultNarrator = "Zhree"

// Style is a storytelling voice applied to the generated prose.
type Style struct {
	Name         string
	Description  string
	Role         string
	Instructions string
}

// DefaultStyle is used when a requested style name is unknown.
var DefaultStyle = styles[0]

var styles = []Style{
	{
		Name:        "Epic Fantasy",
		Description: "Grand, sweeping narrative with dramatic prose",
		Role:        "a legendary bard of great renown",
		Instructions: strings.TrimSpace(`
Write in the style of classic high fantasy epics like Tolkien or Jordan.
Use vivid imagery, dramatic tension, and epic scope.
Include rich descriptions of settings and character emotions.`),
	},
	{
		Name:        "Humorous Tavern Tale",
		Description: "Light-hearted, funny retelling with witty observations",
		Role:        "a witty bard known for comedic tales",
		Instructions: strings.TrimSpace(`
Write in a humorous, self-aware style reminiscent of Terry Pratchett.
Find the funny moments, add comedic observations, and don't take things too seriously.
Break the fourth wall occasionally and poke fun at typical fantasy tropes.`),
	},
	{
		Name:        "Dramatic Chronicle",
		Description: "Serious, historical-feeling account of events",
		Role:        "a scholarly chronicler of great deeds",
		Instructions: strings.TrimSpace(`
Write as if recording official history, with gravitas and importance.
Use formal language and treat even small events as historically significant.
Include "historical" context and foreshadowing.`),
	},
	{
		Name:        "Bardic Ballad",
		Description: "Poetic, song-like narrative with rhythm and rhyme",
		Role:        "a master of verse and song",
		Instructions: strings.TrimSpace(`
Write in a style that could be sung: use rhythm, occasional rhyme, and lyrical language.
Structure the narrative like a ballad with refrains and memorable phrases.
Make it feel like an oral tradition being passed down.`),
	},
	{
		Name:        "Mysterious Legend",
		Description: "Dark, atmospheric tale with foreboding undertones",
		Role:        "a mysterious storyteller of dark tales",
		Instructions: strings.TrimSpace(`
Write in a gothic, atmospheric style with hints of cosmic horror.
Emphasize shadows, uncertainty, and the unknown lurking beyond perception.
Create an unsettling mood while still celebrating the heroes.`),
	},
	{
		Name:        "Heroic Saga",
		Description: "Action-focused narrative celebrating brave deeds",
		Role:        "a bard who celebrates warriors and heroes",
		Instructions: strings.TrimSpace(`
Write in the style of Norse sagas: direct, action-focused, and heroic.
Emphasize combat, bravery, and bold decisions.
Character dialogue should feel powerful and quotable.`),
	},
}

// Styles returns the available styles in presentation order.
func Styles() []Style {
	out := make([]Style, len(styles))
	copy(out, styles)
	return out
}

// StyleByName looks a style up by its display name, falling back to
// [DefaultStyle] for unknown names.
func StyleByName(name string) Style {
	for _, s := range styles {
		if strings.EqualFold(s.Name, name) {
			return s
		}
	}
	return DefaultStyle
}

//go:embed prompts/*.gotmpl
var promptFS embed.FS

var promptTpl = template.Must(template.ParseFS(promptFS, "prompts/*.gotmpl"))

// speakerInfo is one party member's line in a prompt.
type speakerInfo struct {
	Name   string
	Gender string
}

// promptData feeds every prompt template; each template reads the fields
// it needs.
type promptData struct {
	Narrator    string
	Style       Style
	Speakers    []speakerInfo
	ChunkNumber int
	TotalChunks int
	CarryOver   string
	Transcript  string
	Excerpt     string
}

func renderPrompt(name string, data promptData) (string, error) {
	var sb strings.Builder
	if err := promptTpl.ExecuteTemplate(&sb, name, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
