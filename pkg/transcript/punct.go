package transcript

import (
	"strings"
	"unicode"
)

// PunctuateOptions tunes the punctuation normalizer. The zero value applies
// the defaults.
type PunctuateOptions struct {
	// SilenceGap is the pause length, in seconds, beyond which a sentence
	// boundary is inserted between two words. Defaults to 1.2.
	SilenceGap float64

	// Questions enables rewriting a terminal period to a question mark on
	// sentences that open with an interrogative. Enabled by default;
	// DisableQuestions turns it off.
	DisableQuestions bool
}

const defaultSilenceGap = 1.2

// questionStarters mark sentences that should end with a question mark.
// Two-word starters are matched against the first two words.
var questionStarters = map[string]bool{
	"what": true, "why": true, "how": true, "where": true,
	"when": true, "who": true, "which": true,
	"do you": true, "can you": true, "will you": true,
	"would you": true, "could you": true, "did you": true,
	"have you": true, "are you": true, "are we": true,
	"is it": true, "is there": true, "should we": true,
	"shall we": true,
}

// Punctuate inserts terminal punctuation at word boundaries and returns new
// segments; the inputs are not modified. A boundary gains a period when the
// silence gap to the next word exceeds the threshold, or when the next word
// is capitalized while the current one ends in a lowercase letter.
// Boundaries that already carry punctuation are left alone, so the pass is
// idempotent. Applied after vocabulary correction.
func Punctuate(segs []Segment, opts PunctuateOptions) []Segment {
	gap := opts.SilenceGap
	if gap <= 0 {
		gap = defaultSilenceGap
	}

	out := make([]Segment, len(segs))
	for i, seg := range segs {
		words := make([]Word, len(seg.Words))
		copy(words, seg.Words)
		punctuateWords(words, gap)
		if !opts.DisableQuestions {
			rewriteQuestions(words)
		}
		capitalizeSentences(words)
		out[i] = seg
		out[i].Words = words
	}
	return out
}

func punctuateWords(words []Word, gap float64) {
	cur := -1 // previous non-empty word
	for i := range words {
		if words[i].Text == "" {
			continue
		}
		if cur >= 0 && !endsPunctuated(words[cur].Text) {
			pause := words[i].Start - words[cur].End
			if pause > gap || impliesBoundary(words[cur].Text, words[i].Text) {
				words[cur].Text += "."
			}
		}
		cur = i
	}
}

// impliesBoundary reports whether capitalization suggests a sentence break:
// the previous word ends in a lowercase letter and the next begins with an
// uppercase one.
func impliesBoundary(prev, next string) bool {
	pr := []rune(prev)
	nr := []rune(next)
	return unicode.IsLower(pr[len(pr)-1]) && unicode.IsUpper(nr[0])
}

// rewriteQuestions flips a terminal period to a question mark on sentences
// opening with an interrogative.
func rewriteQuestions(words []Word) {
	var opening []string // first two words of the current sentence, lowered
	for i := range words {
		t := words[i].Text
		if t == "" {
			continue
		}
		if len(opening) < 2 {
			_, core, _ := splitToken(t)
			opening = append(opening, strings.ToLower(core))
		}
		if !endsSentence(t) {
			continue
		}
		if strings.HasSuffix(t, ".") {
			isQuestion := questionStarters[opening[0]]
			if !isQuestion && len(opening) == 2 {
				isQuestion = questionStarters[opening[0]+" "+opening[1]]
			}
			if isQuestion {
				words[i].Text = strings.TrimSuffix(t, ".") + "?"
			}
		}
		opening = opening[:0]
	}
}

// capitalizeSentences uppercases the first letter of each word following a
// terminal punctuation mark.
func capitalizeSentences(words []Word) {
	atStart := false
	for i := range words {
		t := words[i].Text
		if t == "" {
			continue
		}
		if atStart {
			r := []rune(t)
			if unicode.IsLower(r[0]) {
				r[0] = unicode.ToUpper(r[0])
				words[i].Text = string(r)
			}
		}
		atStart = endsSentence(t)
	}
}

func endsPunctuated(t string) bool {
	return strings.ContainsAny(t[len(t)-1:], ".!?,;:")
}

func endsSentence(t string) bool {
	return strings.ContainsAny(t[len(t)-1:], ".!?")
}
