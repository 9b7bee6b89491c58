package textproc

import (
	"regexp"
	"strings"
)

// Stage groups correction rules. Stages run in declaration order.
type Stage string

const (
	StageSpacing        Stage = "spacing"
	StageSpelling       Stage = "spelling"
	StageCapitalization Stage = "capitalization"
)

// Rule is one rewrite applied to the whole text. When Transform is set it
// receives every match; otherwise matches are replaced by Replacement, which
// may reference capture groups.
//
// RE2 has no lookaround. A Context rule stands in for it: group 1 holds the
// text before the match and is written back through ${1}, and the last group
// holds the text that must follow. That trailing text is left in place, so it
// can lead the next match.
type Rule struct {
	Name        string
	Stage       Stage
	Pattern     *regexp.Regexp
	Replacement string
	Transform   func(match string) string
	Context     bool
}

// Apply rewrites all non-overlapping matches of the rule in text.
func (r Rule) Apply(text string) string {
	switch {
	case r.Context:
		return r.applyInContext(text)
	case r.Transform != nil:
		return r.Pattern.ReplaceAllStringFunc(text, r.Transform)
	default:
		return r.Pattern.ReplaceAllString(text, r.Replacement)
	}
}

func (r Rule) applyInContext(text string) string {
	var b strings.Builder
	pos := 0
	for pos < len(text) {
		rest := text[pos:]
		loc := r.Pattern.FindStringSubmatchIndex(rest)
		if loc == nil {
			break
		}
		b.WriteString(rest[:loc[0]])
		b.Write(r.Pattern.ExpandString(nil, r.Replacement, rest, loc))
		// Resume where the trailing group starts; the word before it is never
		// empty, so pos always advances.
		pos += loc[len(loc)-2]
	}
	b.WriteString(text[pos:])
	return b.String()
}

// Word boundaries follow Unicode: letters, digits and underscore are word
// runes, everything else separates words.
const (
	notWordRune  = `[^\p{L}\p{N}_]`
	wordRunes    = `[\p{L}\p{N}_]+`
	space        = `[\s\p{Z}]`
	beforeWord   = `(^|` + notWordRune + `)`
	afterWord    = `$|` + notWordRune
	contextAfter = `(` + afterWord + `)`
)

var spacingRules = []Rule{
	{
		Name:        "collapse-spaces",
		Stage:       StageSpacing,
		Pattern:     regexp.MustCompile(` {2,}`),
		Replacement: " ",
	},
	{
		Name:        "space-after-punctuation",
		Stage:       StageSpacing,
		Pattern:     regexp.MustCompile(`([.!?,;:])([A-Za-z])`),
		Replacement: "${1} ${2}",
	},
}

// spellingRules are matched case-insensitively and replaced with the literal
// lowercase text, so a matched capitalized word comes out lowercased.
//
// Known quirks kept on purpose: "neccessary" is listed twice, and the
// accommodate, which, you're and there rules rewrite a word to itself, which
// only changes its case.
var spellingRules = []Rule{
	spelling("teh", "the"),
	spelling("recieve", "receive"),
	spelling("occured", "occurred"),
	spelling("seperate", "separate"),
	spelling("definately", "definitely"),
	spelling("occasionaly", "occasionally"),
	spelling("neccessary", "necessary"),
	spelling("neccessary", "necessary"),
	spelling("accommodate", "accommodate"),
	spellingBefore("which", space+`+is`, "which"),
	spelling("thier", "their"),
	spellingBefore("you're", space+`+`+wordRunes+`ing`, "you're"),
	spellingBefore("its", space+`+very`, "it's"),
	spelling("lifes", "lives"),
	spelling("alot", "a lot"),
	spelling("could of", "could have"),
	spelling("should of", "should have"),
	spelling("would of", "would have"),
	spellingBefore("there", space+`+(?:is|are|was|were)(?:`+afterWord+`)`, "there"),
	spelling("infomation", "information"),
	spelling("enviroment", "environment"),
	spelling("goverment", "government"),
	spelling("developement", "development"),
	spelling("managment", "management"),
	spelling("achivment", "achievement"),
}

// spelling replaces word wherever it stands alone.
func spelling(word, replacement string) Rule {
	return spellingBefore(word, afterWord, replacement)
}

// spellingBefore replaces word only where follow comes right after it.
func spellingBefore(word, follow, replacement string) Rule {
	return Rule{
		Name:        word,
		Stage:       StageSpelling,
		Pattern:     regexp.MustCompile(`(?i)` + beforeWord + regexp.QuoteMeta(word) + `(` + follow + `)`),
		Replacement: "${1}" + replacement,
		Context:     true,
	}
}

var capitalizationRules = []Rule{
	{
		Name:      "capitalize-text-start",
		Stage:     StageCapitalization,
		Pattern:   regexp.MustCompile(`^` + space + `*[a-z]`),
		Transform: strings.ToUpper,
	},
	{
		// One whitespace character must directly follow the punctuation;
		// any further whitespace before the letter is allowed.
		Name:      "capitalize-sentence-start",
		Stage:     StageCapitalization,
		Pattern:   regexp.MustCompile(`[.!?]` + space + space + `*[a-z]`),
		Transform: strings.ToUpper,
	},
	{
		Name:        "capitalize-pronoun-i",
		Stage:       StageCapitalization,
		Pattern:     regexp.MustCompile(beforeWord + `i` + contextAfter),
		Replacement: "${1}I",
		Context:     true,
	},
}

// defaultRules is the full correction pipeline in application order.
var defaultRules = concatRules(spacingRules, spellingRules, capitalizationRules)

func concatRules(groups ...[]Rule) []Rule {
	var all []Rule
	for _, g := range groups {
		all = append(all, g...)
	}
	return all
}

// Rules returns a copy of the default correction pipeline.
func Rules() []Rule {
	out := make([]Rule, len(defaultRules))
	copy(out, defaultRules)
	return out
}
