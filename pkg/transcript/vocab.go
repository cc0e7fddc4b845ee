package transcript

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/goccy/go-yaml"
)

// Rule is a single vocabulary correction: a pattern of one or more words
// and the text that replaces it. Matching is case-insensitive and respects
// word boundaries; surrounding punctuation on the matched span is kept.
type Rule struct {
	Pattern string `yaml:"pattern"`
	Replace string `yaml:"replace"`
}

// Rules is an ordered vocabulary correction set. When several patterns
// match at the same position, the longest pattern wins; each position is
// substituted at most once per pass.
type Rules []Rule

// RuleFile is the on-disk YAML shape of a vocabulary file. Names are
// capitalization entries: each becomes a rule mapping the lowercased name
// back to its canonical casing.
type RuleFile struct {
	Names []string `yaml:"names,omitempty"`
	Rules []Rule   `yaml:"rules,omitempty"`
}

// LoadRules reads a YAML vocabulary file and returns its rule set.
// Name entries precede explicit rules, matching their file order priority.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("transcript: read vocabulary: %w", err)
	}
	var rf RuleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("transcript: parse vocabulary: %w", err)
	}
	rules := make(Rules, 0, len(rf.Names)+len(rf.Rules))
	for _, name := range rf.Names {
		if name == "" {
			continue
		}
		rules = append(rules, Rule{Pattern: strings.ToLower(name), Replace: name})
	}
	rules = append(rules, rf.Rules...)
	return rules, nil
}

// Save writes the rule set to a YAML vocabulary file.
func (rs Rules) Save(path string) error {
	data, err := yaml.Marshal(RuleFile{Rules: rs})
	if err != nil {
		return fmt.Errorf("transcript: marshal vocabulary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("transcript: write vocabulary: %w", err)
	}
	return nil
}

// Apply runs the correction pass over free-form text and returns the
// corrected text. Re-running Apply on already-corrected text changes
// nothing as long as replacements are fixed points of the rule set, which
// holds for the built-in table and any sane user vocabulary.
func (rs Rules) Apply(text string) string {
	if len(rs) == 0 || text == "" {
		return text
	}
	tokens := strings.Fields(text)
	rs.applyTokens(tokens)
	return strings.Join(nonEmpty(tokens), " ")
}

// Correct applies the rule set to each segment's words and returns new
// segments. Word timings are preserved; when a multi-word pattern matches,
// the replacement lands on the first word of the span and the remaining
// words keep their timing with empty text. Correction never reads across
// segment boundaries.
func (rs Rules) Correct(segs []Segment) []Segment {
	if len(rs) == 0 {
		return segs
	}
	out := make([]Segment, len(segs))
	for i, seg := range segs {
		words := make([]Word, len(seg.Words))
		copy(words, seg.Words)
		tokens := make([]string, len(words))
		for j, w := range words {
			tokens[j] = w.Text
		}
		rs.applyTokens(tokens)
		for j := range words {
			words[j].Text = tokens[j]
		}
		out[i] = seg
		out[i].Words = words
	}
	return out
}

// applyTokens substitutes matches in place over the token slice.
func (rs Rules) applyTokens(tokens []string) {
	for i := 0; i < len(tokens); i++ {
		if tokens[i] == "" {
			continue
		}
		rule, span := rs.matchAt(tokens, i)
		if rule == nil {
			continue
		}
		prefix, _, _ := splitToken(tokens[i])
		_, _, suffix := splitToken(tokens[span-1])
		replaced := prefix + rule.Replace + suffix

		// Skip no-op substitutions so repeated passes stay stable.
		if spanText(tokens[i:span]) != replaced {
			tokens[i] = replaced
			for j := i + 1; j < span; j++ {
				tokens[j] = ""
			}
		}
		i = span - 1
	}
}

// matchAt returns the longest rule matching at token position i and the
// exclusive end index of the matched span.
func (rs Rules) matchAt(tokens []string, i int) (*Rule, int) {
	var best *Rule
	bestEnd := 0
	for r := range rs {
		rule := &rs[r]
		end, ok := rule.matches(tokens, i)
		if !ok {
			continue
		}
		if best == nil ||
			len(rule.patternTokens()) > len(best.patternTokens()) ||
			(len(rule.patternTokens()) == len(best.patternTokens()) &&
				len(rule.Pattern) > len(best.Pattern)) {
			best, bestEnd = rule, end
		}
	}
	return best, bestEnd
}

// matches reports whether the rule's pattern matches the tokens starting at
// position i, skipping empty tokens, and returns the exclusive end index.
func (r *Rule) matches(tokens []string, i int) (int, bool) {
	pat := r.patternTokens()
	if len(pat) == 0 {
		return 0, false
	}
	j := i
	for k := 0; k < len(pat); k++ {
		for j < len(tokens) && k > 0 && tokens[j] == "" {
			j++
		}
		if j >= len(tokens) {
			return 0, false
		}
		_, core, _ := splitToken(tokens[j])
		if strings.ToLower(core) != pat[k] {
			return 0, false
		}
		// Interior tokens must carry no trailing punctuation: the match
		// may not straddle a sentence boundary.
		if k < len(pat)-1 {
			if _, _, suffix := splitToken(tokens[j]); suffix != "" {
				return 0, false
			}
		}
		j++
	}
	return j, true
}

func (r *Rule) patternTokens() []string {
	return strings.Fields(strings.ToLower(r.Pattern))
}

// splitToken separates leading and trailing non-letter, non-digit runes
// from the token core.
func splitToken(tok string) (prefix, core, suffix string) {
	rs := []rune(tok)
	a := 0
	for a < len(rs) && !unicode.IsLetter(rs[a]) && !unicode.IsDigit(rs[a]) {
		a++
	}
	b := len(rs)
	for b > a && !unicode.IsLetter(rs[b-1]) && !unicode.IsDigit(rs[b-1]) {
		b--
	}
	return string(rs[:a]), string(rs[a:b]), string(rs[b:])
}

func spanText(tokens []string) string {
	return strings.Join(nonEmpty(tokens), " ")
}

func nonEmpty(tokens []string) []string {
	out := tokens[:0:0]
	for _, t := range tokens {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
