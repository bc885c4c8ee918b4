package xmlreader

import (
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

// Source is the Reader's two-operation vtable over its byte origin: the
// same Reader implementation drives both an in-memory document and a
// streaming byte reader through this interface.
type Source interface {
	// Move advances the window's base by advance bytes, then returns a
	// window of up to wantLen bytes starting at the new base. A shorter
	// window signals end-of-stream only when no further bytes exist.
	Move(advance, wantLen int) ([]byte, error)

	// CheckEncoding reports whether name (an XML-declared encoding name)
	// matches what this source is actually delivering.
	CheckEncoding(name string) bool
}

// encodingFamily classifies a resolved IANA encoding name into the two
// families this module supports.
type encodingFamily int

const (
	familyUnknown encodingFamily = iota
	familyUTF8
	familyUTF16
)

// resolveEncodingFamily resolves name (an XML-declared encoding, e.g.
// "UTF-8", "utf8", "US-ASCII", "UTF-16") through ianaindex to a canonical
// registered name, then classifies it. Aliases are accepted: an
// unresolvable name classifies as familyUnknown.
func resolveEncodingFamily(name string) encodingFamily {
	// The two families this module actually supports are matched by name
	// first; ianaindex is consulted for everything else, so aliases like
	// "us-ascii" or "csUTF8" still resolve.
	switch strings.ToUpper(name) {
	case "UTF-8", "UTF8":
		return familyUTF8
	case "UTF-16", "UTF16", "UTF-16BE", "UTF-16LE":
		return familyUTF16
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return familyUnknown
	}
	canon, err := ianaindex.IANA.Name(enc)
	if err != nil {
		return familyUnknown
	}
	upper := strings.ToUpper(canon)
	switch {
	case upper == "UTF-8" || upper == "US-ASCII" || upper == "ASCII":
		return familyUTF8
	case strings.HasPrefix(upper, "UTF-16"):
		return familyUTF16
	default:
		return familyUnknown
	}
}

// StaticSource is a Source over a fixed in-memory byte slice, for parsing
// a document that is already fully resident in memory.
type StaticSource struct {
	data []byte
	base int
}

// NewStaticSource wraps data for parsing.
func NewStaticSource(data []byte) *StaticSource {
	return &StaticSource{data: data}
}

// Move implements Source.
func (s *StaticSource) Move(advance, wantLen int) ([]byte, error) {
	s.base += advance
	if s.base > len(s.data) {
		s.base = len(s.data)
	}
	end := s.base + wantLen
	if end > len(s.data) {
		end = len(s.data)
	}
	return s.data[s.base:end], nil
}

// CheckEncoding implements Source: a static source is always plain UTF-8.
func (s *StaticSource) CheckEncoding(name string) bool {
	return resolveEncodingFamily(name) == familyUTF8
}
