// Package normalize turns raw query text into extracted entity mentions and
// canonical candidate lists, using live store vocabulary plus a static
// institute abbreviation table.
package normalize

import "strings"

// AbbreviationTable maps a lower-cased short form to its canonical institute
// name. The table is read-only after construction; it is injected into the
// extractor and normalizer rather than held as package state.
type AbbreviationTable map[string]string

// Lookup returns the canonical name for key, matching case-insensitively.
func (t AbbreviationTable) Lookup(key string) (string, bool) {
	v, ok := t[strings.ToLower(key)]
	return v, ok
}

// Keys returns every short form in the table.
func (t AbbreviationTable) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	return keys
}

// DefaultAbbreviations returns the built-in institute short forms.
func DefaultAbbreviations() AbbreviationTable {
	return AbbreviationTable{
		// IITs
		"iit b":         "Indian Institute of Technology, Bombay",
		"iit bombay":    "Indian Institute of Technology, Bombay",
		"iit d":         "Indian Institute of Technology, Delhi",
		"iit delhi":     "Indian Institute of Technology, Delhi",
		"iit k":         "Indian Institute of Technology, Kharagpur",
		"iit kharagpur": "Indian Institute of Technology, Kharagpur",
		"iit kgp":       "Indian Institute of Technology, Kharagpur",
		"iit m":         "Indian Institute of Technology, Madras",
		"iit madras":    "Indian Institute of Technology, Madras",
		"iit g":         "Indian Institute of Technology, Guwahati",
		"iit guwahati":  "Indian Institute of Technology, Guwahati",
		"iit r":         "Indian Institute of Technology, Roorkee",
		"iit roorkee":   "Indian Institute of Technology, Roorkee",
		"iit kanpur":    "Indian Institute of Technology, Kanpur",
		"iit bhu":       "Indian Institute of Technology, Varanasi",

		// IIMs
		"iim a":         "Indian Institute of Management, Ahmedabad",
		"iim ahmedabad": "Indian Institute of Management, Ahmedabad",
		"iim b":         "Indian Institute of Management, Bangalore",
		"iim bangalore": "Indian Institute of Management, Bangalore",
		"iim c":         "Indian Institute of Management, Calcutta",
		"iim calcutta":  "Indian Institute of Management, Calcutta",
		"iim l":         "Indian Institute of Management, Lucknow",
		"iim lucknow":   "Indian Institute of Management, Lucknow",

		// International universities
		"mit":       "Massachusetts Institute of Technology",
		"stanford":  "Stanford University",
		"harvard":   "Harvard University",
		"oxford":    "University of Oxford",
		"cambridge": "University of Cambridge",
		"berkeley":  "University of California, Berkeley",
		"caltech":   "California Institute of Technology",

		// Other popular institutes
		"bits":        "Birla Institute of Technology and Science",
		"bits pilani": "Birla Institute of Technology and Science, Pilani",
		"iiit":        "International Institute of Information Technology",
		"nit":         "National Institute of Technology",
	}
}
