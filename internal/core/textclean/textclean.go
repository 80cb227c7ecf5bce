// Package textclean tidies display names landed from the catalogue API
// Pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 Unicode NFC composition
// 3 Remove format characters (ZWSP, ZWJ, BOM) and C0/C1 controls
// 4 Collapse whitespace runs to a single space and trim
// Case, accents and width are preserved; names are shown, not matched
package textclean

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFC,
			runes.Remove(runes.In(unicode.Cf)),
			runes.Remove(runes.Predicate(isControl)),
		)
	},
}

// whitespace controls survive step 3 so step 4 can turn them into spaces
func isControl(r rune) bool {
	return unicode.IsControl(r) && !unicode.IsSpace(r)
}

// Name returns the cleaned form of s
func Name(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		ns = s
	}
	return strings.Join(strings.Fields(ns), " ")
}

// NamePtr cleans *s and returns nil for nil or names that clean to ""
func NamePtr(s *string) *string {
	if s == nil {
		return nil
	}
	c := Name(*s)
	if c == "" {
		return nil
	}
	return &c
}
