package xmlreader

import (
	"io"
	"strings"
	"unicode/utf8"
)

// walkers.go implements the convenience walkers layered on top of Read:
// helpers that repeatedly pull nodes and fold or discard them according to
// a simple rule, so callers that don't need comments, PIs, or nested
// elements spelled out node-by-node don't have to write the loop
// themselves.

// ReadElementText reads forward from the element_start the cursor is
// currently on, concatenating every text, cdata, entity_reference, and
// character_reference node up to (not including) the matching element_end,
// in document order. Comments, PIs, and nested element_start/element_end
// pairs are skipped over transparently — a nested element's own text is
// still concatenated, since only its start and end tags are discarded.
func (rd *Reader) ReadElementText() (string, error) {
	var b strings.Builder
	if err := rd.readElementTextInto(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// ReadElementTextWrite is ReadElementText streaming into an external sink
// instead of returning an accumulated string.
func (rd *Reader) ReadElementTextWrite(w io.Writer) error {
	return rd.readElementTextInto(w)
}

func (rd *Reader) readElementTextInto(w io.Writer) error {
	startDepth := rd.Depth()
	var runeBuf [utf8.UTFMax]byte
	writeRune := func(r rune) error {
		n := utf8.EncodeRune(runeBuf[:], r)
		_, err := w.Write(runeBuf[:n])
		return err
	}
	for {
		kind, err := rd.Read()
		if err != nil {
			return err
		}
		switch kind {
		case TextNode, CDATANode:
			if err := rd.TextWrite(w); err != nil {
				return err
			}
		case EntityReferenceNode:
			r, _ := lookupPredefinedEntity(rd.EntityReferenceName())
			if err := writeRune(r); err != nil {
				return err
			}
		case CharacterReferenceNode:
			if err := writeRune(rd.CharacterReferenceChar()); err != nil {
				return err
			}
		case ElementEndNode:
			if rd.Depth() == startDepth-1 {
				return nil
			}
		case EOFNode:
			return &ParseError{Code: ErrUnexpectedEndOfInput}
		}
	}
}

// SkipElement advances past every node belonging to the element_start the
// cursor is currently on, stopping just past its matching element_end.
func (rd *Reader) SkipElement() error {
	startDepth := rd.Depth()
	for {
		kind, err := rd.Read()
		if err != nil {
			return err
		}
		switch kind {
		case ElementEndNode:
			if rd.Depth() == startDepth-1 {
				return nil
			}
		case EOFNode:
			return &ParseError{Code: ErrUnexpectedEndOfInput}
		}
	}
}

// SkipProlog advances past the xml_declaration, comments, and PIs that may
// precede the document element, stopping on the first element_start.
func (rd *Reader) SkipProlog() error {
	for {
		kind, err := rd.Read()
		if err != nil {
			return err
		}
		switch kind {
		case ElementStartNode:
			return nil
		case EOFNode:
			return &ParseError{Code: ErrUnexpectedEndOfInput}
		}
	}
}

// SkipDocument advances to eof, discarding every remaining node.
func (rd *Reader) SkipDocument() error {
	for {
		kind, err := rd.Read()
		if err != nil {
			return err
		}
		if kind == EOFNode {
			return nil
		}
	}
}
