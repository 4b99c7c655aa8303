package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var quotedRe = regexp.MustCompile(`'([^']*)'`)

// parseCoords splits on commas and whitespace. A single non-numeric token
// invalidates the whole list so coordinates never shift to another axis.
func parseCoords(s string) ([]float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}

	s = strings.ReplaceAll(s, ",", " ")
	parts := strings.Fields(s)

	coords := make([]float64, 0, len(parts))
	for _, part := range parts {
		val, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, false
		}
		coords = append(coords, val)
	}

	return coords, true
}

// markerAt returns the offset of the first marker word in line, or -1.
// A marker counts when it is an entity keyword outside quoted literals, like
// MATERIAL_DESIGNATION(, or when it is a whole literal, like 'NOTE'. Marker
// words inside other values ('Material Handling Bracket') are ignored.
func markerAt(line string, re *regexp.Regexp, markers []string) int {
	quoted := quotedRe.FindAllStringSubmatchIndex(line, -1)

	for _, loc := range re.FindAllStringIndex(line, -1) {
		if !wordBounded(line, loc[0], loc[1]) {
			continue
		}

		inside := false
		for _, q := range quoted {
			if loc[0] >= q[2] && loc[1] <= q[3] {
				inside = true
				if isMarker(strings.ToLower(strings.TrimSpace(line[q[2]:q[3]])), markers) {
					return loc[0]
				}
				break
			}
		}
		if !inside {
			return loc[0]
		}
	}
	return -1
}

// wordBounded reports whether line[start:end] is not glued to letters or
// digits. Underscores separate words in entity names.
func wordBounded(line string, start, end int) bool {
	if start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(line[:start]); isWordRune(r) {
			return false
		}
	}
	if end < len(line) {
		if r, _ := utf8.DecodeRuneInString(line[end:]); isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// valueAfter returns the first non-empty quoted literal that ends after
// offset and is not one of the marker tokens itself, so both
// MATERIAL('AISI 304') and ITEM('MATERIAL','AISI 304') yield AISI 304.
func valueAfter(line string, offset int, markers []string) (string, bool) {
	for _, loc := range quotedRe.FindAllStringSubmatchIndex(line, -1) {
		if loc[1] <= offset {
			continue
		}
		v := strings.TrimSpace(line[loc[2]:loc[3]])
		if v == "" || isMarker(strings.ToLower(v), markers) {
			continue
		}
		return v, true
	}
	return "", false
}

func isMarker(s string, markers []string) bool {
	for _, m := range markers {
		if s == m {
			return true
		}
	}
	return false
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
