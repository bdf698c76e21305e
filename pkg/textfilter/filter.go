package textfilter

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Replacements maps words softened for family ratings to their stand-ins.
var Replacements = map[string]string{
	"fuck":         "fudge",
	"motherfucker": "mother-trucker",
	"shit":         "shoot",
	"bullshit":     "baloney",
	"horseshit":    "nonsense",
	"damn":         "dang",
	"goddamn":      "gosh-dang",
	"hell":         "heck",
	"ass":          "butt",
	"asshole":      "jerk",
	"dumbass":      "dummy",
	"jackass":      "jerk",
	"bitch":        "jerk",
	"bastard":      "jerk",
	"crap":         "crud",
	"piss":         "ticked",
	"prick":        "jerk",
	"christ":       "crikey",
}

// Filter rewrites story text for a content rating. A nil *Filter passes
// text through unchanged.
type Filter struct {
	pattern *regexp.Regexp
}

// ForRating returns a filter when rating calls for softened text, or nil
// when text should be shown as written.
func ForRating(rating string) *Filter {
	if !ShouldFilterContent(rating) {
		return nil
	}
	return New()
}

// New compiles a filter over Replacements.
func New() *Filter {
	words := make([]string, 0, len(Replacements))
	for w := range Replacements {
		words = append(words, regexp.QuoteMeta(w))
	}
	// Longest first so "asshole" wins over "ass".
	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})

	return &Filter{
		pattern: regexp.MustCompile(`(?i)\b(?:` + strings.Join(words, "|") + `)(s?)\b`),
	}
}

// Apply returns text with every listed word replaced, keeping the case
// shape of the original and any plural "s".
func (f *Filter) Apply(text string) string {
	if f == nil || text == "" {
		return text
	}
	return f.pattern.ReplaceAllStringFunc(text, func(match string) string {
		word, plural := match, ""
		if sub := f.pattern.FindStringSubmatch(match); len(sub) > 1 && sub[1] != "" {
			word, plural = match[:len(match)-len(sub[1])], sub[1]
		}
		replacement, ok := Replacements[strings.ToLower(word)]
		if !ok {
			return match
		}
		return matchCase(word, replacement) + plural
	})
}

// Contains reports whether text holds any listed word.
func (f *Filter) Contains(text string) bool {
	return f != nil && f.pattern.MatchString(text)
}

func matchCase(original, replacement string) string {
	// Casers carry state; a fresh one keeps Filter safe for concurrent use.
	title := cases.Title(language.English)
	switch {
	case strings.ToUpper(original) == original:
		return strings.ToUpper(replacement)
	case strings.ToLower(original) == original:
		return replacement
	case title.String(strings.ToLower(original)) == original:
		return title.String(replacement)
	}

	orig := []rune(original)
	out := []rune(replacement)
	for i, r := range out {
		if i < len(orig) && unicode.IsUpper(orig[i]) {
			out[i] = unicode.ToUpper(r)
		} else {
			out[i] = unicode.ToLower(r)
		}
	}
	return string(out)
}

// ShouldFilterContent reports whether a rating calls for softened text.
func ShouldFilterContent(rating string) bool {
	switch strings.ToUpper(strings.TrimSpace(rating)) {
	case "G", "PG", "PG13", "PG-13":
		return true
	default:
		return false
	}
}
