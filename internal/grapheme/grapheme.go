package grapheme

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Split returns the extended grapheme clusters of text in order.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	out := make([]string, 0, len(text))
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Count returns the number of grapheme clusters in text.
func Count(text string) int {
	if text == "" {
		return 0
	}
	return uniseg.GraphemeClusterCount(text)
}

// Slice returns the clusters of text in [start, end) joined back together.
func Slice(text string, start, end int) string {
	if text == "" {
		return ""
	}
	if start < 0 {
		start = 0
	}
	if end <= start {
		return ""
	}

	g := uniseg.NewGraphemes(text)
	idx := 0
	var sb strings.Builder
	for g.Next() {
		if idx >= end {
			break
		}
		if idx >= start {
			sb.WriteString(g.Str())
		}
		idx++
	}
	return sb.String()
}

// Offset returns the byte offset in text where cluster at is located.
// An index at or past the last cluster yields len(text).
func Offset(text string, at int) int {
	if at <= 0 {
		return 0
	}
	g := uniseg.NewGraphemes(text)
	idx := 0
	for g.Next() {
		if idx == at {
			from, _ := g.Positions()
			return from
		}
		idx++
	}
	return len(text)
}

// Join concatenates clusters into a single string.
func Join(clusters []string) string {
	if len(clusters) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, c := range clusters {
		sb.WriteString(c)
	}
	return sb.String()
}

// Index returns the first cluster index i >= from such that needle occurs
// in hay starting at i, or -1. Matching is cluster by cluster, so a match
// never starts or ends inside a cluster. An empty needle never matches.
func Index(hay, needle []string, from int) int {
	if len(needle) == 0 || from < 0 {
		return -1
	}
	for i := from; i+len(needle) <= len(hay); i++ {
		if hasPrefixAt(hay, needle, i) {
			return i
		}
	}
	return -1
}

// LastIndex returns the greatest cluster index i such that needle occurs in
// hay within [0, end), or -1.
func LastIndex(hay, needle []string, end int) int {
	if len(needle) == 0 {
		return -1
	}
	if end > len(hay) {
		end = len(hay)
	}
	for i := end - len(needle); i >= 0; i-- {
		if hasPrefixAt(hay, needle, i) {
			return i
		}
	}
	return -1
}

func hasPrefixAt(hay, needle []string, at int) bool {
	for j, c := range needle {
		if hay[at+j] != c {
			return false
		}
	}
	return true
}

// IsASCIIDigit reports whether cluster is a single ASCII digit.
func IsASCIIDigit(cluster string) bool {
	return len(cluster) == 1 && cluster[0] >= '0' && cluster[0] <= '9'
}

// IsASCIISeparator reports whether cluster is a single ASCII punctuation or
// whitespace character.
func IsASCIISeparator(cluster string) bool {
	if len(cluster) != 1 {
		// "\r\n" is one cluster.
		return cluster == "\r\n"
	}
	c := cluster[0]
	switch {
	case c == ' ', c == '\t', c == '\n', c == '\r', c == '\f', c == '\v':
		return true
	case c >= '!' && c <= '/', c >= ':' && c <= '@', c >= '[' && c <= '`', c >= '{' && c <= '~':
		return true
	}
	return false
}

// IsControl reports whether cluster starts with a C0 or C1 control
// character, DEL included.
func IsControl(cluster string) bool {
	r, _ := utf8.DecodeRuneInString(cluster)
	return cluster != "" && unicode.IsControl(r)
}
