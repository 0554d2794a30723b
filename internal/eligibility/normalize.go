package eligibility

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultOptions are the attribute values tested when none are configured.
var DefaultOptions = []string{"masculine", "feminine"}

// primaryAliases are common spellings of the two primary classes. They
// resolve to the first and second configured option respectively.
var primaryAliases = [2][]string{
	{"m", "masc", "masculine", "male", "masculin", "masculino", "maskulin", "der", "el", "le"},
	{"f", "fem", "feminine", "female", "feminin", "femenino", "feminino", "die", "la"},
}

// Normalizer maps raw attribute values onto configured options.
type Normalizer struct {
	options []string
	lookup  map[string]string
}

// NewNormalizer builds a normalizer for options. extra maps additional
// aliases to option names and takes precedence over the built-in ones.
func NewNormalizer(options []string, extra map[string]string) (*Normalizer, error) {
	if len(options) == 0 {
		options = DefaultOptions
	}

	n := &Normalizer{lookup: make(map[string]string)}
	seen := make(map[string]bool)
	for _, opt := range options {
		key := Fold(opt)
		if key == "" {
			return nil, errors.New("empty attribute option")
		}
		if seen[key] {
			return nil, fmt.Errorf("duplicate attribute option %q", opt)
		}
		seen[key] = true
		n.options = append(n.options, opt)
	}

	for i, aliases := range primaryAliases {
		if i >= len(n.options) {
			break
		}
		for _, a := range aliases {
			n.lookup[Fold(a)] = n.options[i]
		}
	}
	for _, opt := range n.options {
		n.lookup[Fold(opt)] = opt
	}
	for alias, target := range extra {
		canonical, ok := n.lookup[Fold(target)]
		if !ok {
			return nil, fmt.Errorf("alias %q targets unknown option %q", alias, target)
		}
		n.lookup[Fold(alias)] = canonical
	}
	return n, nil
}

// Options returns the configured options in order.
func (n *Normalizer) Options() []string {
	return append([]string(nil), n.options...)
}

// Normalize resolves value to a configured option.
func (n *Normalizer) Normalize(value string) (string, bool) {
	key := Fold(value)
	if key == "" {
		return "", false
	}
	opt, ok := n.lookup[key]
	return opt, ok
}

// Fold lowercases s, strips diacritics and trailing periods, and collapses
// whitespace so that spelling variants compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(strings.Join(strings.Fields(folded), " "))
	return strings.TrimRight(folded, ".")
}
