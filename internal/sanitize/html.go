// Package sanitize strips hostile markup from user-supplied fields before
// they are stored.
package sanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

var (
	// strict removes all HTML tags and attributes. Used for plain-text
	// fields: titles, names, positions, tags, skills.
	strict = bluemonday.StrictPolicy()

	// ugc allows safe user-generated formatting (<p>, <b>, <i>, <em>,
	// <strong>, <a>, lists, <br>). Used for descriptions, bios and
	// contact messages.
	ugc = bluemonday.UGCPolicy()
)

// Text strips all HTML and returns plain text.
func Text(input string) string {
	return strict.Sanitize(input)
}

// HTML sanitizes markup, keeping safe formatting tags and dropping
// scripts, iframes, event handlers and style attributes.
func HTML(input string) string {
	return ugc.Sanitize(input)
}

// TextSlice sanitizes each element of a slice, removing all HTML.
func TextSlice(inputs []string) []string {
	if inputs == nil {
		return nil
	}
	out := make([]string, len(inputs))
	for i, input := range inputs {
		out[i] = Text(input)
	}
	return out
}
