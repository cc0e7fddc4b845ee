package speaker

import (
	"encoding/binary"

	"github.com/charmbracelet/lipgloss"
	"lukechampine.com/blake3"
)

// Palette holds the speaker colors, readable on dark backgrounds and
// visually distinct from each other.
var Palette = []lipgloss.Color{
	"#ff7b7b", // coral red
	"#7bffb5", // emerald green
	"#7bb5ff", // sky blue
	"#ffdf7b", // gold
	"#d87bff", // violet
	"#7bfff5", // cyan
	"#ffb57b", // orange
	"#b5ff7b", // lime
	"#ff7bdf", // pink
	"#7bdfff", // light blue
	"#c4a5ff", // lavender
	"#a5ffc4", // mint
}

// colorIndex hashes a label into the palette. The assignment is
// deterministic for a given label within one run, but not stable across
// runs that produce different label sets.
func colorIndex(label string) int {
	sum := blake3.Sum256([]byte(label))
	return int(binary.BigEndian.Uint32(sum[:4]) % uint32(len(Palette)))
}

// Color returns the palette color for a label.
func (r *Roster) Color(label string) lipgloss.Color {
	if id, ok := r.identities[label]; ok {
		return Palette[id.ColorIndex%len(Palette)]
	}
	return Palette[colorIndex(label)]
}

// Style returns a lipgloss style rendering the label's color, for terminal
// transcript output.
func (r *Roster) Style(label string) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(r.Color(label))
}
