package xmlreader

import (
	"strconv"
	"strings"
)

// normalize.go implements the normalization pipeline the Reader runs over
// text, CDATA, comment, PI, and attribute-value content. Expansion here is
// a well-formedness check: an entity reference outside the five predefined
// names is a fatal ErrEntityReferenceUndefined, never passed through
// unchanged.

// predefinedEntities maps the five names XML 1.0 recognizes without a DTD
// to their replacement character.
var predefinedEntities = map[string]rune{
	"amp":  '&',
	"lt":   '<',
	"gt":   '>',
	"apos": '\'',
	"quot": '"',
}

// lookupPredefinedEntity reports the replacement rune for name, if any of
// the five predefined entities.
func lookupPredefinedEntity(name string) (rune, bool) {
	r, ok := predefinedEntities[name]
	return r, ok
}

// decodeCharRef parses the digit text of a numeric character reference
// (everything between "&#" or "&#x" and the trailing ";", NOT including the
// "x" marker) into its rune value. hex selects base 16 vs base 10. It does
// not validate the result against the legal Char ranges; callers must do
// that with isChar.
func decodeCharRef(digits string, hex bool) (rune, error) {
	base := 10
	if hex {
		base = 16
	}
	v, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		return 0, err
	}
	return rune(v), nil
}

// EscapeText writes to b the escaped XML equivalent of s, matching the
// character set encoding/xml.EscapeText escapes.
func EscapeText(b *strings.Builder, s []byte) {
	last := 0
	for i := 0; i < len(s); i++ {
		var esc string
		switch s[i] {
		case '<':
			esc = "&lt;"
		case '>':
			esc = "&gt;"
		case '&':
			esc = "&amp;"
		case '"':
			esc = "&#34;"
		case '\'':
			esc = "&#39;"
		case '\t':
			esc = "&#x9;"
		case '\n':
			esc = "&#xA;"
		case '\r':
			esc = "&#xD;"
		default:
			continue
		}
		b.Write(s[last:i])
		b.WriteString(esc)
		last = i + 1
	}
	b.Write(s[last:])
}

// EscapeString returns the escaped XML equivalent of s. Exported so
// callers normalizing an attribute-value-shaped string outside a live
// Reader (tests, or a DOM builder layered on top) don't need to build a
// Reader just to escape text.
func EscapeString(s string) string {
	var b strings.Builder
	EscapeText(&b, []byte(s))
	return b.String()
}

// normalizeLineEndings rewrites "\r\n" and lone "\r" to "\n". Input with no
// '\r' is returned unchanged (same backing array); otherwise the result is
// a newly allocated, possibly shorter slice. Used for
// element text, CDATA, comment, and PI bodies, but not by any `_raw`
// accessor.
func normalizeLineEndings(s []byte) []byte {
	n := 0
	hasCR := false
	for _, c := range s {
		if c == '\r' {
			hasCR = true
			break
		}
	}
	if !hasCR {
		return s
	}
	out := make([]byte, len(s))
	i := 0
	for i < len(s) {
		c := s[i]
		if c == '\r' {
			out[n] = '\n'
			n++
			if i+1 < len(s) && s[i+1] == '\n' {
				i += 2
			} else {
				i++
			}
			continue
		}
		out[n] = c
		n++
		i++
	}
	return out[:n]
}

// expandEntitiesStrict expands predefined entity references and numeric
// character references in s, failing with ErrEntityReferenceUndefined for
// any other named entity and ErrCharacterReferenceIllegal for a numeric
// reference outside the legal Char ranges. It does not perform whitespace
// normalization; callers that need attribute-value whitespace collapsing
// call normalizeAttributeWhitespace separately (entity-produced characters
// are not subject to that collapsing, per the XML attribute-value
// normalization algorithm).
func expandEntitiesStrict(s []byte, refCache *CharRefCache) ([]byte, ErrorCode, bool) {
	if !containsAmp(s) {
		return s, 0, true
	}
	var b strings.Builder
	last := 0
	for i := 0; i < len(s); i++ {
		if s[i] != '&' {
			continue
		}
		b.Write(s[last:i])
		end := i + 1
		for end < len(s) && s[end] != ';' {
			end++
		}
		if end >= len(s) {
			return nil, ErrEntityReferenceUnclosed, false
		}
		body := string(s[i+1 : end])
		if len(body) > 0 && body[0] == '#' {
			hex := len(body) > 1 && (body[1] == 'x' || body[1] == 'X')
			digits := body[1:]
			if hex {
				digits = digits[1:]
			}
			var r rune
			var err error
			if refCache != nil {
				r, err = refCache.Decode(digits, hex)
			} else {
				r, err = decodeCharRef(digits, hex)
			}
			if err != nil || !isChar(r) {
				return nil, ErrCharacterReferenceIllegal, false
			}
			b.WriteRune(r)
		} else {
			r, ok := lookupPredefinedEntity(body)
			if !ok {
				return nil, ErrEntityReferenceUndefined, false
			}
			b.WriteRune(r)
		}
		last = end + 1
		i = end
	}
	b.Write(s[last:])
	return []byte(b.String()), 0, true
}

func containsAmp(s []byte) bool {
	for _, c := range s {
		if c == '&' {
			return true
		}
	}
	return false
}

// normalizeAttributeWhitespace applies the XML attribute-value-
// normalization algorithm's whitespace handling to literal whitespace
// characters in s: a literal "\r\n" becomes one space, and any other
// literal \t, \n, or \r becomes one space. It must run before entity
// expansion, since characters produced by expanding a reference are not
// themselves subject to this collapsing.
func normalizeAttributeWhitespace(s []byte) []byte {
	hasWS := false
	for _, c := range s {
		if c == '\t' || c == '\n' || c == '\r' {
			hasWS = true
			break
		}
	}
	if !hasWS {
		return s
	}
	out := make([]byte, 0, len(s))
	i := 0
	for i < len(s) {
		c := s[i]
		switch c {
		case '\t', '\n':
			out = append(out, ' ')
			i++
		case '\r':
			out = append(out, ' ')
			if i+1 < len(s) && s[i+1] == '\n' {
				i += 2
			} else {
				i++
			}
		default:
			out = append(out, c)
			i++
		}
	}
	return out
}

// normalizeAttributeValue runs the full attribute-value normalization
// pipeline: literal-whitespace collapsing, then strict entity/char-ref
// expansion.
func normalizeAttributeValue(s []byte, refCache *CharRefCache) ([]byte, ErrorCode, bool) {
	collapsed := normalizeAttributeWhitespace(s)
	return expandEntitiesStrict(collapsed, refCache)
}

// UnescapeString decodes the five predefined entities and numeric
// character references in s, returning an error for anything else. This
// mirrors normalizeAttributeValue's entity-expansion half as a standalone
// helper for callers operating outside a live Reader.
func UnescapeString(s string) (string, error) {
	out, code, ok := expandEntitiesStrict([]byte(s), nil)
	if !ok {
		return "", &ParseError{Code: code}
	}
	return string(out), nil
}
