// Package alias computes the merge key used to decide whether two candidate
// labels denote the same thing. Two labels collide iff their keys are equal.
package alias

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// DefaultSeparators are stripped anywhere in a label before comparison, in
// addition to Unicode whitespace.
const DefaultSeparators = ",、。・~〜-_/"

// DefaultAliases collapses known synonyms and homophones to one spelling.
// Keys are matched against the already-folded label, so entries may be written
// in any width or kana form.
var DefaultAliases = map[string]string{
	"ﾊﾟｯｹｰｼﾞ":  "パッケージ",
	"パッケージング": "パッケージ",
	"パケ":       "パッケージ",
	"包装":       "パッケージ",
}

const (
	hiraganaLo = 0x3041
	hiraganaHi = 0x3096
	kataOffset = 0x60
)

// Normalizer maps display labels to canonical merge keys. The alias table and
// separator set are configuration, not structure; both can be swapped.
type Normalizer struct {
	aliases    map[string]string
	separators map[rune]struct{}
}

// NewNormalizer returns a Normalizer with the default alias table and
// separator set.
func NewNormalizer() *Normalizer {
	return NewNormalizerWith(DefaultAliases, DefaultSeparators)
}

// NewNormalizerWith builds a Normalizer from a custom alias table and
// separator set. Alias keys are folded through the same pipeline as labels so
// table entries match regardless of their own spelling.
func NewNormalizerWith(aliases map[string]string, separators string) *Normalizer {
	n := &Normalizer{
		aliases:    make(map[string]string, len(aliases)),
		separators: make(map[rune]struct{}, len(separators)),
	}
	for _, r := range separators {
		n.separators[r] = struct{}{}
	}
	for from, to := range aliases {
		n.aliases[n.fold(from)] = n.fold(to)
	}
	return n
}

// Key returns the merge key for a label. It is total: any input, including
// the empty string, yields a key without error.
func (n *Normalizer) Key(label string) string {
	key := n.fold(label)
	if canon, ok := n.aliases[key]; ok {
		return canon
	}
	return key
}

// fold trims, compatibility-normalizes, converts hiragana to katakana and
// strips separator runes. Alias substitution is applied on top of this.
func (n *Normalizer) fold(label string) string {
	s := norm.NFKC.String(strings.TrimSpace(label))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		if _, skip := n.separators[r]; skip {
			continue
		}
		if r >= hiraganaLo && r <= hiraganaHi {
			r += kataOffset
		}
		b.WriteRune(r)
	}
	return b.String()
}
