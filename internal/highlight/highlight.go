// Package highlight classifies the graphemes of a line for display.
//
// Classification is a pure function of the line's clusters and the
// active search word. The Palette maps tags to colors and encodes them as
// in-band markers that a renderer decodes with DecodeMarkup.
package highlight

import (
	"github.com/kobzarvs/qpad/internal/grapheme"
)

// Tag is the display class of a single grapheme.
type Tag uint8

const (
	None Tag = iota
	Number
	Match
)

func (t Tag) String() string {
	switch t {
	case None:
		return "none"
	case Number:
		return "number"
	case Match:
		return "match"
	}
	return "invalid"
}

// Valid reports whether t is one of None, Number or Match.
func (t Tag) Valid() bool {
	switch t {
	case None, Number, Match:
		return true
	}
	return false
}

// Classify returns one tag per cluster. An empty word disables match
// tagging.
func Classify(clusters []string, word string) []Tag {
	tags := make([]Tag, len(clusters))

	prevIsSep := true
	for i, c := range clusters {
		prev := None
		if i > 0 {
			prev = tags[i-1]
		}
		switch {
		case grapheme.IsASCIIDigit(c) && (prevIsSep || prev == Number):
			tags[i] = Number
		case c == "." && prev == Number:
			tags[i] = Number
		}
		prevIsSep = grapheme.IsASCIISeparator(c)
	}

	if word == "" {
		return tags
	}
	needle := grapheme.Split(word)
	for at := grapheme.Index(clusters, needle, 0); at >= 0; at = grapheme.Index(clusters, needle, at+len(needle)) {
		for j := at; j < at+len(needle); j++ {
			tags[j] = Match
		}
	}
	return tags
}
