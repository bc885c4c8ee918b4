package xmlreader

import "fmt"

// ScanError reports a lexical well-formedness violation detected by the
// Scanner itself (as opposed to the richer checks the Reader layers on
// top). Once Feed or EndInput returns one, the Scanner is latched: every
// subsequent Feed or EndInput reports the same error. The ErrCannotReset
// that ResetPos returns does not latch; the caller grows its window and
// keeps feeding.
type ScanError struct {
	Code ErrorCode
	Pos  int
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("xml scan error: %s at byte %d", e.Code, e.Pos)
}

// scanState is the Scanner's flat state enum; state-local data lives in
// the shared scanData record rather than per-state variants.
type scanState uint8

const (
	stStart scanState = iota
	stPIOrXMLDeclTarget

	stXMLDeclAttrName
	stXMLDeclAttrAfterName
	stXMLDeclAttrValueStart
	stXMLDeclAttrValue
	stXMLDeclBetween
	stXMLDeclEnd

	stDocumentContent
	stAfterRoot

	stUnknownStart
	stUnknownStartBang

	stComment
	stCommentMaybeBeforeEnd
	stCommentBeforeEnd

	stPITarget
	stPIAfterTarget
	stPIContent
	stPIMaybeEnd

	stCDATA
	stCDATAMaybeEnd

	stElementStartName
	stElementStartAfterName
	stElementStartEmpty

	stAttributeName
	stAttributeAfterName
	stAttributeAfterEquals
	stAttributeContent
	stRefStart
	stEntityRefName
	stCharRefStart
	stCharRef

	stContent

	stElementEndName
	stElementEndAfterName

	stError
)

// xmlDeclField identifies which XMLDecl pseudo-attribute is currently being
// matched/filled in the stXMLDeclAttr* states.
type xmlDeclField uint8

const (
	fieldNone xmlDeclField = iota
	fieldVersion
	fieldEncoding
	fieldStandalone
)

// scanData is the shared state-local record: fields are conventionally
// reused by related states rather than carried in a tagged variant, which
// would cost a copy on every transition.
type scanData struct {
	start int    // start offset of the span currently being accumulated
	left  []byte // literal/name bytes accumulated by matcher states

	quote rune

	matched int // consecutive ']' characters matched toward a CDATA "]]>"

	fieldSeen    int  // bitmask of which XMLDecl pseudo-attributes have been seen
	field        xmlDeclField
	inAttribute  bool // true if the active ref/content state is inside an attribute value
	refStart     int  // offset of the '&' that opened the reference currently being matched
	declOK       bool // the '<' that opened this markup may begin the XML declaration

	charRefHex   bool
	charRefValue uint32
	charRefDigits int

	xmlDeclVersion       Range
	xmlDeclEncoding      Range
	xmlDeclHasEncoding   bool
	xmlDeclStandalone    bool
	xmlDeclHasStandalone bool
}

// Scanner is Layer A: a codepoint-driven state machine producing positional
// tokens. It performs no buffering of its own; every Range it emits refers
// into whatever window the caller is feeding bytes from.
type Scanner struct {
	state scanState
	pos   int
	depth int
	seenRoot bool

	// maybeDecl is true while a "<?" beginning at the next markup boundary
	// could still open the XML declaration: nothing but an optional BOM has
	// been consumed. Any whitespace or markup clears it.
	maybeDecl bool

	err  *ScanError
	data scanData
}

// NewScanner returns a Scanner positioned at the very start of a document.
func NewScanner() *Scanner {
	return &Scanner{state: stStart, maybeDecl: true}
}

// Pos returns the Scanner's current position, in whatever unit the caller
// has been feeding (the Reader always uses bytes).
func (s *Scanner) Pos() int { return s.pos }

func (s *Scanner) fail(code ErrorCode) (Token, error) {
	s.state = stError
	s.err = &ScanError{Code: code, Pos: s.pos}
	return Token{}, s.err
}

// Feed advances the Scanner by one codepoint, whose encoded length in the
// caller's position unit is width. It returns at most one Token; a
// TokNone-kind Token means "no token yet, keep feeding".
func (s *Scanner) Feed(cp rune, width int) (Token, error) {
	if s.state == stError {
		return Token{}, s.err
	}
	tok, err := s.step(cp)
	s.pos += width
	if err != nil {
		return Token{}, err
	}
	return tok, nil
}

// EndInput signals end-of-stream to the Scanner. It is an error unless
// the Scanner is at top level having already seen the (one) root element.
func (s *Scanner) EndInput() error {
	if s.state == stError {
		return s.err
	}
	if s.state == stDocumentContent && s.seenRoot && s.depth == 0 {
		return nil
	}
	if s.state == stAfterRoot {
		return nil
	}
	_, err := s.fail(ErrUnexpectedEndOfInput)
	return err
}

// ResetPos attempts to rebase Pos to 0, so the caller (the Reader) can
// discard already-consumed bytes from the front of its window without
// losing the Scanner's place:
//   - states with no in-flight offset data succeed silently;
//   - content-accumulating states emit a partial content token covering the
//     bytes accumulated so far, then rebase;
//   - states with an in-progress name or pending terminator match fail with
//     ErrCannotReset, and the caller must grow its buffer instead.
func (s *Scanner) ResetPos() (Token, error) {
	switch s.state {
	case stStart, stDocumentContent, stAfterRoot, stUnknownStart,
		stAttributeAfterName, stElementStartAfterName,
		stElementStartEmpty, stPIAfterTarget, stError:
		s.pos = 0
		return Token{Kind: TokNone}, nil

	case stComment:
		tok := Token{Kind: TokCommentContent, Content: Content{Kind: ContentText, Text: Range{s.data.start, s.pos}}, Final: false}
		s.data.start = 0
		s.pos = 0
		return tok, nil

	case stPIContent:
		tok := Token{Kind: TokPIContent, Content: Content{Kind: ContentText, Text: Range{s.data.start, s.pos}}, Final: false}
		s.data.start = 0
		s.pos = 0
		return tok, nil

	case stCDATA:
		tok := Token{Kind: TokElementContent, FromCDATA: true, Content: Content{Kind: ContentText, Text: Range{s.data.start, s.pos}}, Final: false}
		s.data.start = 0
		s.pos = 0
		return tok, nil

	case stAttributeContent:
		tok := Token{Kind: TokAttributeContent, Content: Content{Kind: ContentText, Text: Range{s.data.start, s.pos}}, Final: false}
		s.data.start = 0
		s.pos = 0
		return tok, nil

	case stContent:
		tok := Token{Kind: TokElementContent, Content: Content{Kind: ContentText, Text: Range{s.data.start, s.pos}}}
		s.data.start = 0
		s.pos = 0
		return tok, nil

	default:
		return Token{}, &ScanError{Code: ErrCannotReset, Pos: s.pos}
	}
}

// ShiftPos offsets the Scanner's position and active span start by delta.
// The Reader calls this after a ResetPos that flushed a partial content
// token: it prepends the flushed bytes to the front of the freshly rebased
// window, so the Scanner's notion of offset 0 has to move forward by the
// same amount to stay congruent with the buffer it is being fed from.
func (s *Scanner) ShiftPos(delta int) {
	s.pos += delta
	s.data.start += delta
}

func none() (Token, error) { return Token{Kind: TokNone}, nil }

// step is the transition function: one switch over s.state.
func (s *Scanner) step(cp rune) (Token, error) {
	switch s.state {

	// ---- top level -----------------------------------------------------
	case stStart:
		return s.stepTopLevel(cp, true)
	case stDocumentContent:
		return s.stepTopLevel(cp, false)
	case stAfterRoot:
		return s.stepAfterRoot(cp)

	// ---- "<?" dispatch: XML declaration or processing instruction ------
	case stPIOrXMLDeclTarget:
		return s.stepPIOrXMLDeclTarget(cp)

	// ---- XML declaration pseudo-attributes ------------------------------
	case stXMLDeclAttrName:
		return s.stepXMLDeclAttrName(cp)
	case stXMLDeclAttrAfterName:
		return s.stepXMLDeclAttrAfterName(cp)
	case stXMLDeclAttrValueStart:
		return s.stepXMLDeclAttrValueStart(cp)
	case stXMLDeclAttrValue:
		return s.stepXMLDeclAttrValue(cp)
	case stXMLDeclBetween:
		return s.stepXMLDeclBetween(cp)
	case stXMLDeclEnd:
		return s.stepXMLDeclEnd(cp)

	// ---- "<" dispatch ----------------------------------------------------
	case stUnknownStart:
		return s.stepUnknownStart(cp)
	case stUnknownStartBang:
		return s.stepUnknownStartBang(cp)

	// ---- comments ---------------------------------------------------------
	case stComment:
		return s.stepComment(cp)
	case stCommentMaybeBeforeEnd:
		return s.stepCommentMaybeBeforeEnd(cp)
	case stCommentBeforeEnd:
		return s.stepCommentBeforeEnd(cp)

	// ---- processing instructions -------------------------------------------
	case stPITarget:
		return s.stepPITarget(cp)
	case stPIAfterTarget:
		return s.stepPIAfterTarget(cp)
	case stPIContent:
		return s.stepPIContent(cp)
	case stPIMaybeEnd:
		return s.stepPIMaybeEnd(cp)

	// ---- CDATA -------------------------------------------------------------
	case stCDATA:
		return s.stepCDATA(cp)
	case stCDATAMaybeEnd:
		return s.stepCDATAMaybeEnd(cp)

	// ---- element start ------------------------------------------------------
	case stElementStartName:
		return s.stepElementStartName(cp)
	case stElementStartAfterName:
		return s.stepElementStartAfterName(cp)
	case stElementStartEmpty:
		return s.stepElementStartEmpty(cp)

	// ---- attributes -----------------------------------------------------------
	case stAttributeName:
		return s.stepAttributeName(cp)
	case stAttributeAfterName:
		return s.stepAttributeAfterName(cp)
	case stAttributeAfterEquals:
		return s.stepAttributeAfterEquals(cp)
	case stAttributeContent:
		return s.stepAttributeContent(cp)

	// ---- shared text / attribute value reference handling --------------------
	case stRefStart:
		return s.stepRefStart(cp)
	case stEntityRefName:
		return s.stepEntityRefName(cp)
	case stCharRefStart:
		return s.stepCharRefStart(cp)
	case stCharRef:
		return s.stepCharRef(cp)

	// ---- element content -------------------------------------------------------
	case stContent:
		return s.stepContent(cp)

	// ---- element end ------------------------------------------------------------
	case stElementEndName:
		return s.stepElementEndName(cp)
	case stElementEndAfterName:
		return s.stepElementEndAfterName(cp)

	default:
		return s.fail(ErrUnexpectedCharacter)
	}
}

// ---- top-level content ------------------------------------------------------

func (s *Scanner) stepTopLevel(cp rune, allowDecl bool) (Token, error) {
	if allowDecl && cp == 0xFEFF && s.pos == 0 {
		// UTF-8 BOM before any content; does not forfeit the declaration.
		return none()
	}
	if isSpace(cp) {
		s.maybeDecl = false
		return none()
	}
	if cp == '<' {
		declHere := allowDecl && s.maybeDecl
		s.maybeDecl = false
		s.state = stUnknownStart
		s.data = scanData{declOK: declHere}
		return none()
	}
	return s.fail(ErrUnexpectedCharacter)
}

func (s *Scanner) stepAfterRoot(cp rune) (Token, error) {
	if isSpace(cp) {
		return none()
	}
	if cp == '<' {
		s.state = stUnknownStart
		s.data = scanData{}
		return none()
	}
	return s.fail(ErrUnexpectedCharacter)
}

// stepUnknownStart handles the character right after '<': '?', '!', '/', or
// a Name start for a new element.
func (s *Scanner) stepUnknownStart(cp rune) (Token, error) {
	switch {
	case cp == '?':
		if s.data.declOK {
			s.state = stPIOrXMLDeclTarget
			s.data = scanData{start: s.pos + 1}
			return none()
		}
		s.state = stPITarget
		s.data = scanData{start: s.pos + 1}
		return none()
	case cp == '!':
		s.state = stUnknownStartBang
		s.data = scanData{start: s.pos + 1, left: nil}
		return none()
	case cp == '/':
		s.state = stElementEndName
		s.data = scanData{start: s.pos + 1}
		return none()
	case isNameStartChar(cp):
		if s.seenRoot && s.depth == 0 {
			return s.fail(ErrMultipleRootElements)
		}
		s.state = stElementStartName
		s.data = scanData{start: s.pos}
		return none()
	default:
		if isNameChar(cp) {
			// "<123>": a character that can continue a name but not start
			// one is a malformed name, not a stray character.
			return s.fail(ErrNameMalformed)
		}
		return s.fail(ErrUnexpectedCharacter)
	}
}

// stepPIOrXMLDeclTarget matches the literal "xml" immediately after "<?";
// once disambiguated, dispatches into an XML declaration or a plain PI.
func (s *Scanner) stepPIOrXMLDeclTarget(cp rune) (Token, error) {
	const lit = "xml"
	n := s.pos - s.data.start
	if n < len(lit) {
		if cp < 0x80 && byte(cp) == lit[n] {
			return none()
		}
		// Mismatch: this "<?" is a regular PI after all. s.data.start still
		// marks the first target character, so hand the current codepoint
		// straight to the generic target scanner rather than dropping it.
		s.state = stPITarget
		return s.stepPITarget(cp)
	}
	// We've matched "xml"; this character decides declaration vs PI.
	if isSpace(cp) {
		s.state = stXMLDeclBetween
		s.data = scanData{}
		return none()
	}
	if isNameChar(cp) {
		// "xml2", "xmlfoo", ... : legal PI target continuing past "xml".
		s.state = stPITarget
		return none()
	}
	if cp == '?' {
		// "<?xml?>" with no version: malformed declaration.
		return s.fail(ErrXMLDeclVersionMissing)
	}
	return s.fail(ErrUnexpectedCharacter)
}

// ---- XML declaration --------------------------------------------------------

// stepXMLDeclBetween runs between pseudo-attributes: after optional
// whitespace it expects either the start of the next pseudo-attribute name
// (version/encoding/standalone, in that fixed order) or the declaration's
// closing "?>".
func (s *Scanner) stepXMLDeclBetween(cp rune) (Token, error) {
	if isSpace(cp) {
		return none()
	}
	if cp == '?' {
		s.state = stXMLDeclEnd
		return none()
	}
	if cp < 0x80 && isNameStartChar(cp) {
		s.state = stXMLDeclAttrName
		s.data.left = []byte{byte(cp)}
		return none()
	}
	return s.fail(ErrXMLDeclMalformed)
}

// stepXMLDeclAttrName accumulates one pseudo-attribute name
// ("version"/"encoding"/"standalone") and validates field ordering once
// the name is complete.
func (s *Scanner) stepXMLDeclAttrName(cp rune) (Token, error) {
	if cp < 0x80 && isNameChar(cp) {
		s.data.left = append(s.data.left, byte(cp))
		return none()
	}
	name := string(s.data.left)
	var field xmlDeclField
	switch name {
	case "version":
		if s.data.fieldSeen&1 != 0 {
			return s.fail(ErrXMLDeclMalformed)
		}
		field = fieldVersion
		s.data.fieldSeen |= 1
	case "encoding":
		if s.data.fieldSeen&1 == 0 || s.data.fieldSeen&(2|4) != 0 {
			return s.fail(ErrXMLDeclMalformed)
		}
		field = fieldEncoding
		s.data.fieldSeen |= 2
	case "standalone":
		if s.data.fieldSeen&1 == 0 || s.data.fieldSeen&4 != 0 {
			return s.fail(ErrXMLDeclMalformed)
		}
		field = fieldStandalone
		s.data.fieldSeen |= 4
	default:
		return s.fail(ErrXMLDeclMalformed)
	}
	s.data.field = field
	s.data.left = nil
	s.state = stXMLDeclAttrAfterName
	if isSpace(cp) {
		return none()
	}
	if cp == '=' {
		s.state = stXMLDeclAttrValueStart
		return none()
	}
	return s.fail(ErrExpectedEquals)
}

func (s *Scanner) stepXMLDeclAttrAfterName(cp rune) (Token, error) {
	if isSpace(cp) {
		return none()
	}
	if cp == '=' {
		s.state = stXMLDeclAttrValueStart
		return none()
	}
	return s.fail(ErrExpectedEquals)
}

func (s *Scanner) stepXMLDeclAttrValueStart(cp rune) (Token, error) {
	if isSpace(cp) {
		return none()
	}
	if cp == '"' || cp == '\'' {
		s.data.quote = cp
		s.data.start = s.pos + 1
		s.data.left = nil
		s.state = stXMLDeclAttrValue
		return none()
	}
	return s.fail(ErrExpectedQuote)
}

// stepXMLDeclAttrValue validates value characters against the current
// field's charset (VersionNum, EncName, or the "yes"/"no" literal) and, on
// the closing quote, records the field's Range (or decoded bool, for
// standalone) into the shared scanData.
func (s *Scanner) stepXMLDeclAttrValue(cp rune) (Token, error) {
	if cp == s.data.quote {
		r := Range{s.data.start, s.pos}
		switch s.data.field {
		case fieldVersion:
			if r.Empty() {
				return s.fail(ErrXMLDeclMalformed)
			}
			s.data.xmlDeclVersion = r
		case fieldEncoding:
			if r.Empty() {
				return s.fail(ErrEncodingUnsupported)
			}
			s.data.xmlDeclEncoding = r
			s.data.xmlDeclHasEncoding = true
		case fieldStandalone:
			lit := string(s.data.left)
			if lit != "yes" && lit != "no" {
				return s.fail(ErrXMLDeclMalformed)
			}
			s.data.xmlDeclStandalone = lit == "yes"
			s.data.xmlDeclHasStandalone = true
		}
		s.state = stXMLDeclBetween
		return none()
	}
	switch s.data.field {
	case fieldVersion:
		if !(cp == '-' || cp == '_' || cp == '.' || cp == ':' || isDigit(cp) ||
			(cp >= 'A' && cp <= 'Z') || (cp >= 'a' && cp <= 'z')) {
			return s.fail(ErrXMLDeclMalformed)
		}
	case fieldEncoding:
		if s.pos == s.data.start {
			if !isEncNameStart(cp) {
				return s.fail(ErrEncodingUnsupported)
			}
		} else if !isEncNameChar(cp) {
			return s.fail(ErrEncodingUnsupported)
		}
	case fieldStandalone:
		if !(cp == 'y' || cp == 'e' || cp == 's' || cp == 'n' || cp == 'o') {
			return s.fail(ErrXMLDeclMalformed)
		}
		s.data.left = append(s.data.left, byte(cp))
	}
	return none()
}

// stepXMLDeclEnd expects the '>' that completes "?>".
func (s *Scanner) stepXMLDeclEnd(cp rune) (Token, error) {
	if cp != '>' {
		return s.fail(ErrXMLDeclMalformed)
	}
	if s.data.fieldSeen&1 == 0 {
		return s.fail(ErrXMLDeclVersionMissing)
	}
	tok := Token{
		Kind:          TokXMLDeclaration,
		Version:       s.data.xmlDeclVersion,
		Encoding:      s.data.xmlDeclEncoding,
		HasEncoding:   s.data.xmlDeclHasEncoding,
		Standalone:    s.data.xmlDeclStandalone,
		HasStandalone: s.data.xmlDeclHasStandalone,
	}
	s.finishMarkup()
	return tok, nil
}

// ---- "<!" dispatch: comment, CDATA, or DOCTYPE ------------------------------

func (s *Scanner) stepUnknownStartBang(cp rune) (Token, error) {
	if cp >= 0x80 {
		return s.fail(ErrDirectiveUnknown)
	}
	s.data.left = append(s.data.left, byte(cp))
	buf := s.data.left

	if matchesPrefix(buf, "--") {
		if len(buf) == 2 {
			s.state = stComment
			s.data = scanData{start: s.pos + 1}
			return none()
		}
		return none()
	}
	if matchesPrefix(buf, "[CDATA[") {
		if len(buf) == 7 {
			s.state = stCDATA
			s.data = scanData{start: s.pos + 1}
			return none()
		}
		return none()
	}
	if matchesPrefix(buf, "DOCTYPE") {
		if len(buf) == 7 {
			return s.fail(ErrDoctypeUnsupported)
		}
		return none()
	}
	return s.fail(ErrDirectiveUnknown)
}

func matchesPrefix(have []byte, want string) bool {
	if len(have) > len(want) {
		return false
	}
	return string(have) == want[:len(have)]
}

// ---- comments ----------------------------------------------------------------

func (s *Scanner) stepComment(cp rune) (Token, error) {
	if !isChar(cp) {
		return s.fail(ErrIllegalCharacter)
	}
	if cp == '-' {
		s.state = stCommentMaybeBeforeEnd
		return none()
	}
	return none()
}

func (s *Scanner) stepCommentMaybeBeforeEnd(cp rune) (Token, error) {
	if cp == '-' {
		s.state = stCommentBeforeEnd
		return none()
	}
	if !isChar(cp) {
		return s.fail(ErrIllegalCharacter)
	}
	s.state = stComment
	return none()
}

func (s *Scanner) stepCommentBeforeEnd(cp rune) (Token, error) {
	if cp == '>' {
		tok := Token{Kind: TokCommentContent, Final: true,
			Content: Content{Kind: ContentText, Text: Range{s.data.start, s.pos - 2}}}
		s.finishMarkup()
		return tok, nil
	}
	return s.fail(ErrCommentMalformed)
}

// ---- processing instructions ---------------------------------------------------

func (s *Scanner) stepPITarget(cp rune) (Token, error) {
	if s.data.start == 0 {
		s.data.start = s.pos
	}
	n := s.pos - s.data.start
	if n == 0 {
		if !isNameStartChar(cp) {
			return s.fail(ErrNameMalformed)
		}
		return none()
	}
	if isNameChar(cp) {
		return none()
	}
	nameEnd := s.pos
	tok := Token{Kind: TokPIStart, Name: Range{s.data.start, nameEnd}}
	s.state = stPIAfterTarget
	s.data = scanData{start: s.pos}
	if isSpace(cp) {
		return tok, nil
	}
	if cp == '?' {
		s.state = stPIMaybeEnd
		s.data = scanData{start: s.pos + 1}
		return tok, nil
	}
	return s.fail(ErrPIMissingSpace)
}

func (s *Scanner) stepPIAfterTarget(cp rune) (Token, error) {
	if isSpace(cp) {
		return none()
	}
	if cp == '?' {
		s.state = stPIMaybeEnd
		s.data = scanData{start: s.pos + 1}
		return none()
	}
	s.state = stPIContent
	s.data = scanData{start: s.pos}
	return none()
}

func (s *Scanner) stepPIContent(cp rune) (Token, error) {
	if !isChar(cp) {
		return s.fail(ErrIllegalCharacter)
	}
	if cp == '?' {
		s.state = stPIMaybeEnd
		return none()
	}
	return none()
}

func (s *Scanner) stepPIMaybeEnd(cp rune) (Token, error) {
	if cp == '>' {
		end := s.pos - 1
		if end < s.data.start {
			// "<?pi?>": the target's '?' doubles as the terminator, so the
			// content span is empty.
			end = s.data.start
		}
		tok := Token{Kind: TokPIContent, Final: true,
			Content: Content{Kind: ContentText, Text: Range{s.data.start, end}}}
		s.finishMarkup()
		return tok, nil
	}
	if cp == '?' {
		// "??>": the later '?' is the one that pairs with '>'.
		return none()
	}
	if !isChar(cp) {
		return s.fail(ErrIllegalCharacter)
	}
	s.state = stPIContent
	return none()
}

// ---- CDATA ----------------------------------------------------------------------

func (s *Scanner) stepCDATA(cp rune) (Token, error) {
	if !isChar(cp) {
		return s.fail(ErrIllegalCharacter)
	}
	if cp == ']' {
		s.state = stCDATAMaybeEnd
		s.data.matched = 1
		return none()
	}
	return none()
}

func (s *Scanner) stepCDATAMaybeEnd(cp rune) (Token, error) {
	switch {
	case cp == ']':
		s.data.matched++
		return none()
	case cp == '>' && s.data.matched >= 2:
		// The last two of the matched ']' runs form the terminator; any
		// earlier ones belong to the content ("a]]]>" is "a]" + "]]>").
		tok := Token{Kind: TokElementContent, Final: true, FromCDATA: true,
			Content: Content{Kind: ContentText, Text: Range{s.data.start, s.pos - 2}}}
		s.data.matched = 0
		s.state = stContent
		s.data.start = s.pos + 1
		return tok, nil
	default:
		if !isChar(cp) {
			return s.fail(ErrIllegalCharacter)
		}
		s.data.matched = 0
		s.state = stCDATA
		return none()
	}
}

// ---- element start ----------------------------------------------------------------

func (s *Scanner) stepElementStartName(cp rune) (Token, error) {
	n := s.pos - s.data.start
	if n == 0 {
		if !isNameStartChar(cp) {
			return s.fail(ErrNameMalformed)
		}
		return none()
	}
	if isNameChar(cp) {
		return none()
	}
	tok := Token{Kind: TokElementStart, Name: Range{s.data.start, s.pos}}
	s.state = stElementStartAfterName
	s.data = scanData{start: s.pos}
	if isSpace(cp) {
		return tok, nil
	}
	if cp == '/' {
		s.state = stElementStartEmpty
		return tok, nil
	}
	if cp == '>' {
		s.depth++
		s.seenRoot = true
		s.state = stContent
		s.data = scanData{start: s.pos + 1}
		return tok, nil
	}
	return s.fail(ErrAttributeMissingSpace)
}

func (s *Scanner) stepElementStartAfterName(cp rune) (Token, error) {
	if isSpace(cp) {
		s.data.quote = 0
		return none()
	}
	if cp == '/' {
		s.state = stElementStartEmpty
		return none()
	}
	if cp == '>' {
		s.depth++
		s.seenRoot = true
		s.state = stContent
		s.data = scanData{start: s.pos + 1}
		return none()
	}
	if isNameStartChar(cp) {
		// A non-zero quote means the previous attribute's closing quote was
		// the immediately preceding character: `a="1"b="2"` with no space.
		if s.data.quote != 0 {
			return s.fail(ErrAttributeMissingSpace)
		}
		s.state = stAttributeName
		s.data = scanData{start: s.pos}
		return none()
	}
	return s.fail(ErrUnexpectedCharacter)
}

func (s *Scanner) stepElementStartEmpty(cp rune) (Token, error) {
	if cp == '>' {
		s.seenRoot = true
		tok := Token{Kind: TokElementEndEmpty}
		s.finishMarkup()
		return tok, nil
	}
	return s.fail(ErrUnexpectedCharacter)
}

// ---- attributes ----------------------------------------------------------------------

func (s *Scanner) stepAttributeName(cp rune) (Token, error) {
	n := s.pos - s.data.start
	if n == 0 {
		if !isNameStartChar(cp) {
			return s.fail(ErrNameMalformed)
		}
		return none()
	}
	if isNameChar(cp) {
		return none()
	}
	tok := Token{Kind: TokAttributeStart, Name: Range{s.data.start, s.pos}}
	s.state = stAttributeAfterName
	s.data = scanData{}
	if isSpace(cp) || cp == '=' {
		if cp == '=' {
			s.state = stAttributeAfterEquals
		}
		return tok, nil
	}
	return s.fail(ErrExpectedEquals)
}

func (s *Scanner) stepAttributeAfterName(cp rune) (Token, error) {
	if isSpace(cp) {
		return none()
	}
	if cp == '=' {
		s.state = stAttributeAfterEquals
		return none()
	}
	return s.fail(ErrExpectedEquals)
}

func (s *Scanner) stepAttributeAfterEquals(cp rune) (Token, error) {
	if isSpace(cp) {
		return none()
	}
	if cp == '"' || cp == '\'' {
		s.state = stAttributeContent
		s.data = scanData{start: s.pos + 1, inAttribute: true}
		s.data.quote = cp
		return none()
	}
	return s.fail(ErrExpectedQuote)
}

func (s *Scanner) stepAttributeContent(cp rune) (Token, error) {
	if cp == s.data.quote {
		tok := Token{Kind: TokAttributeContent, Final: true,
			Content: Content{Kind: ContentText, Text: Range{s.data.start, s.pos}}}
		q := s.data.quote
		s.state = stElementStartAfterName
		s.data = scanData{start: s.pos + 1, quote: q}
		return tok, nil
	}
	if cp == '&' {
		var tok Token
		has := s.pos > s.data.start
		if has {
			tok = Token{Kind: TokAttributeContent, Final: false,
				Content: Content{Kind: ContentText, Text: Range{s.data.start, s.pos}}}
		}
		s.state = stRefStart
		q := s.data.quote
		s.data = scanData{start: s.pos + 1, refStart: s.pos, inAttribute: true, quote: q}
		if has {
			return tok, nil
		}
		return none()
	}
	if cp == '<' {
		return s.fail(ErrIllegalCharacter)
	}
	if !isChar(cp) {
		return s.fail(ErrIllegalCharacter)
	}
	return none()
}

// ---- entity / character references (shared by attribute and element text) ------

func (s *Scanner) stepRefStart(cp rune) (Token, error) {
	if cp == '#' {
		s.state = stCharRefStart
		s.data.start = s.pos + 1
		return none()
	}
	if isNameStartChar(cp) {
		s.state = stEntityRefName
		s.data.start = s.pos
		return none()
	}
	return s.fail(ErrEntityReferenceUnclosed)
}

func (s *Scanner) stepEntityRefName(cp rune) (Token, error) {
	if cp == ';' {
		tok := Token{Kind: s.contentKind(), Content: Content{Kind: ContentEntity, Text: Range{s.data.refStart, s.pos + 1}}}
		s.returnToContent(tok.Kind)
		return tok, nil
	}
	if isNameChar(cp) {
		return none()
	}
	return s.fail(ErrEntityReferenceUnclosed)
}

func (s *Scanner) stepCharRefStart(cp rune) (Token, error) {
	if cp == 'x' && !s.data.charRefHex {
		s.data.charRefHex = true
		s.data.start = s.pos + 1
		return none()
	}
	if s.data.charRefHex {
		if !isHexDigit(cp) {
			return s.fail(ErrCharacterReferenceMalformed)
		}
		s.state = stCharRef
		s.data.charRefValue = hexDigitValue(cp)
		s.data.charRefDigits = 1
		return none()
	}
	if isDigit(cp) {
		s.state = stCharRef
		s.data.charRefValue = uint32(cp - '0')
		s.data.charRefDigits = 1
		return none()
	}
	return s.fail(ErrCharacterReferenceMalformed)
}

// charRefClamp is one past the highest legal codepoint; an accumulator at
// or above it can never become legal, so further digits just hold it there
// instead of wrapping the uint32.
const charRefClamp = 0x110000

func (s *Scanner) stepCharRef(cp rune) (Token, error) {
	if cp == ';' {
		if s.data.charRefDigits == 0 {
			return s.fail(ErrCharacterReferenceMalformed)
		}
		r := rune(s.data.charRefValue)
		if !isChar(r) {
			return s.fail(ErrCharacterReferenceIllegal)
		}
		tok := Token{Kind: s.contentKind(), Content: Content{
			Kind:      ContentCodepoint,
			Codepoint: r,
			Text:      Range{s.data.refStart, s.pos + 1},
		}}
		s.returnToContent(tok.Kind)
		return tok, nil
	}
	if s.data.charRefHex {
		if !isHexDigit(cp) {
			return s.fail(ErrCharacterReferenceMalformed)
		}
		s.data.charRefValue = s.data.charRefValue*16 + hexDigitValue(cp)
	} else {
		if !isDigit(cp) {
			return s.fail(ErrCharacterReferenceMalformed)
		}
		s.data.charRefValue = s.data.charRefValue*10 + uint32(cp-'0')
	}
	if s.data.charRefValue > charRefClamp {
		s.data.charRefValue = charRefClamp
	}
	s.data.charRefDigits++
	return none()
}

func hexDigitValue(cp rune) uint32 {
	switch {
	case cp >= '0' && cp <= '9':
		return uint32(cp - '0')
	case cp >= 'a' && cp <= 'f':
		return uint32(cp-'a') + 10
	default:
		return uint32(cp-'A') + 10
	}
}

func (s *Scanner) contentKind() TokenKind {
	if s.data.inAttribute {
		return TokAttributeContent
	}
	return TokElementContent
}

func (s *Scanner) returnToContent(kind TokenKind) {
	inAttr := s.data.inAttribute
	q := s.data.quote
	if inAttr {
		s.state = stAttributeContent
		s.data = scanData{start: s.pos + 1, inAttribute: true, quote: q}
	} else {
		s.state = stContent
		s.data = scanData{start: s.pos + 1}
	}
}

// ---- element content --------------------------------------------------------------

func (s *Scanner) stepContent(cp rune) (Token, error) {
	if cp == '<' {
		var tok Token
		has := s.pos > s.data.start
		if has {
			tok = Token{Kind: TokElementContent, Final: true,
				Content: Content{Kind: ContentText, Text: Range{s.data.start, s.pos}}}
		}
		s.state = stUnknownStart
		s.data = scanData{}
		if has {
			return tok, nil
		}
		return none()
	}
	if cp == '&' {
		var tok Token
		has := s.pos > s.data.start
		if has {
			tok = Token{Kind: TokElementContent, Final: true,
				Content: Content{Kind: ContentText, Text: Range{s.data.start, s.pos}}}
		}
		s.state = stRefStart
		s.data = scanData{start: s.pos + 1, refStart: s.pos}
		if has {
			return tok, nil
		}
		return none()
	}
	// ']]>' outside CDATA is checked by the Reader against the raw content
	// it reassembles; the Scanner emits plain text fragments and does not
	// itself look backward for the two preceding ']'.
	if !isChar(cp) {
		return s.fail(ErrIllegalCharacter)
	}
	return none()
}

// finishMarkup returns the Scanner to whichever top-level state applies
// after a comment, PI, CDATA, or empty element finishes, based on the
// internal depth/seenRoot bookkeeping.
func (s *Scanner) finishMarkup() {
	s.data = scanData{start: s.pos + 1}
	if s.depth > 0 {
		s.state = stContent
		return
	}
	if s.seenRoot {
		s.state = stAfterRoot
		return
	}
	s.state = stDocumentContent
}

// ---- element end --------------------------------------------------------------------

func (s *Scanner) stepElementEndName(cp rune) (Token, error) {
	n := s.pos - s.data.start
	if n == 0 {
		if !isNameStartChar(cp) {
			return s.fail(ErrNameMalformed)
		}
		return none()
	}
	if isNameChar(cp) {
		return none()
	}
	tok := Token{Kind: TokElementEnd, Name: Range{s.data.start, s.pos}}
	s.state = stElementEndAfterName
	s.data = scanData{}
	if isSpace(cp) || cp == '>' {
		if cp == '>' {
			s.depth--
			s.finishMarkup()
		}
		return tok, nil
	}
	return s.fail(ErrUnexpectedCharacter)
}

func (s *Scanner) stepElementEndAfterName(cp rune) (Token, error) {
	if isSpace(cp) {
		return none()
	}
	if cp == '>' {
		s.depth--
		s.finishMarkup()
		return none()
	}
	return s.fail(ErrUnexpectedCharacter)
}

