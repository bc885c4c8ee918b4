package xmlreader

// TokenKind identifies the payload carried by a Token returned from the
// Scanner. This is the Scanner's own vocabulary, distinct from the
// Reader's richer NodeKind.
type TokenKind uint8

const (
	// TokNone is returned when the Scanner consumed a codepoint but has no
	// complete token to report yet.
	TokNone TokenKind = iota
	TokXMLDeclaration
	TokElementStart
	TokElementContent
	TokElementEnd
	TokElementEndEmpty
	TokAttributeStart
	TokAttributeContent
	TokCommentContent
	TokPIStart
	TokPIContent
)

// Range is a half-open byte offset pair into whatever window the caller fed
// the Scanner against. The Reader always feeds bytes, so Range values it
// receives back are byte offsets into its current buffer.
type Range struct {
	Start, End int
}

// Len reports the number of bytes spanned by r.
func (r Range) Len() int { return r.End - r.Start }

// Empty reports whether r spans zero bytes.
func (r Range) Empty() bool { return r.Start == r.End }

// ContentKind distinguishes the three shapes a content fragment can take.
type ContentKind uint8

const (
	ContentText ContentKind = iota
	ContentCodepoint
	ContentEntity
)

// Content is a single fragment of element text or attribute value: a raw
// text run, a decoded character reference, or a named entity reference. A
// single logical value may be reported as several Content fragments in
// sequence: references interrupt raw text, CDATA may appear amid element
// text, and the buffer may be rebased mid-run.
type Content struct {
	Kind ContentKind
	// Text is the raw source span for ContentText (the text run itself)
	// and, for ContentEntity and ContentCodepoint, the *entire* reference
	// as written (from '&' through the closing ';'), not just the name or
	// digits — so callers needing the literal source bytes (the `_raw`
	// accessor family) never lose that span to decoding.
	Text      Range
	Codepoint rune // valid for ContentCodepoint
}

// Token is the Scanner's low-level output: at most one per call to Feed.
// Which fields are meaningful depends on Kind.
type Token struct {
	Kind TokenKind

	// Name is populated for TokElementStart, TokElementEnd, TokAttributeStart
	// (the attribute name), and TokPIStart (the PI target).
	Name Range

	// Content is populated for TokElementContent, TokAttributeContent,
	// TokCommentContent, and TokPIContent.
	Content Content

	// Final reports whether this fragment completes the content run. For
	// TokAttributeContent, TokCommentContent, and TokPIContent it is true
	// only on the fragment that ends the value or body. For TokElementContent
	// text it is true when the run ended at markup, a reference, or the end
	// of a CDATA section, and false on the partial token Scanner.ResetPos
	// emits mid-run. Entity and codepoint fragments always carry false.
	Final bool

	// FromCDATA marks a TokElementContent token whose bytes came from a
	// "<![CDATA[...]]>" section rather than ordinary character data. The
	// Scanner tokenizes both identically (a CDATA section is "one
	// element_content{text} token covering the CDATA body"); this bit is
	// the only thing that lets the Reader label the resulting Node `cdata`
	// instead of `text`.
	FromCDATA bool

	// Version, Encoding, HasEncoding, Standalone, HasStandalone are
	// populated only for TokXMLDeclaration.
	Version        Range
	Encoding       Range
	HasEncoding    bool
	Standalone     bool
	HasStandalone  bool
}

// ok reports whether t carries no token (TokNone).
func (t Token) ok() bool { return t.Kind == TokNone }
