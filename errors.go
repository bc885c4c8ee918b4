package xmlreader

import "fmt"

// ErrorCode enumerates the specific well-formedness failures this package
// can report. Every ScanError and ParseError carries one of these; a source
// I/O failure (ReadFailedError) and ErrOutOfMemory carry none.
type ErrorCode uint8

const (
	ErrUnexpectedCharacter ErrorCode = iota
	ErrUnexpectedEndOfInput
	ErrIllegalCharacter
	ErrNameMalformed
	ErrAttributeMissingSpace
	ErrExpectedEquals
	ErrExpectedQuote
	ErrDuplicateAttribute
	ErrEntityReferenceUnclosed
	ErrEntityReferenceUndefined
	ErrCharacterReferenceMalformed
	ErrCharacterReferenceIllegal
	ErrCommentMalformed
	ErrPIMissingSpace
	ErrPITargetReservedXML
	ErrDoctypeUnsupported
	ErrDirectiveUnknown
	ErrXMLDeclVersionMissing
	ErrXMLDeclMalformed
	ErrXMLDeclNotFirst
	ErrEncodingUnsupported
	ErrEncodingDeclMismatch
	ErrCannotReset
	ErrElementEndMismatch
	ErrMultipleRootElements
	ErrUnboundNamespacePrefix
	ErrAttributePrefixUndeclared
	ErrNamespaceBindingIllegal
	ErrDuplicateExpandedName
	ErrInvalidUTF8
	ErrInvalidUTF16
	ErrMisplacedCDATAEnd
)

var errorCodeNames = map[ErrorCode]string{
	ErrUnexpectedCharacter:         "unexpected character",
	ErrUnexpectedEndOfInput:        "unexpected end of input",
	ErrIllegalCharacter:            "illegal character",
	ErrNameMalformed:               "malformed name",
	ErrAttributeMissingSpace:       "missing whitespace before attribute",
	ErrExpectedEquals:              "expected '='",
	ErrExpectedQuote:               "expected quote",
	ErrDuplicateAttribute:          "duplicate attribute",
	ErrEntityReferenceUnclosed:     "unclosed entity reference",
	ErrEntityReferenceUndefined:    "undefined entity reference",
	ErrCharacterReferenceMalformed: "malformed character reference",
	ErrCharacterReferenceIllegal:   "character reference denotes an illegal character",
	ErrCommentMalformed:            "malformed comment",
	ErrPIMissingSpace:              "missing whitespace after processing instruction target",
	ErrPITargetReservedXML:         "processing instruction target is reserved",
	ErrDoctypeUnsupported:          "document type declaration is not supported",
	ErrDirectiveUnknown:            "unknown markup declaration",
	ErrXMLDeclVersionMissing:       "XML declaration is missing a version",
	ErrXMLDeclMalformed:            "malformed XML declaration",
	ErrXMLDeclNotFirst:             "XML declaration must be the first thing in the document",
	ErrEncodingUnsupported:         "unsupported encoding",
	ErrEncodingDeclMismatch:        "declared encoding does not match detected encoding",
	ErrCannotReset:                 "cannot reset position in current state",
	ErrElementEndMismatch:          "end tag does not match start tag",
	ErrMultipleRootElements:        "document has more than one root element",
	ErrUnboundNamespacePrefix:      "namespace prefix is not bound",
	ErrAttributePrefixUndeclared:   "namespace prefix declared with an empty URI",
	ErrNamespaceBindingIllegal:     "namespace binding is not allowed",
	ErrDuplicateExpandedName:       "duplicate attribute expanded name",
	ErrInvalidUTF8:                 "invalid UTF-8",
	ErrInvalidUTF16:                "invalid UTF-16",
	ErrMisplacedCDATAEnd:           "']]>' not allowed in element content",
}

// String implements fmt.Stringer so ErrorCode values render sensibly in
// error messages and test failures.
func (c ErrorCode) String() string {
	if s, ok := errorCodeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("ErrorCode(%d)", uint8(c))
}

// ParseError reports a well-formedness violation at a specific position in
// the document, optionally with line/column information when the Reader
// was constructed with location tracking enabled.
type ParseError struct {
	Code   ErrorCode
	Offset int
	Line   int // 1-based; 0 if location tracking was disabled
	Column int // 1-based; 0 if location tracking was disabled
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("xml: %s at line %d, column %d (byte %d)", e.Code, e.Line, e.Column, e.Offset)
	}
	return fmt.Sprintf("xml: %s at byte %d", e.Code, e.Offset)
}

// ReadFailedError wraps an I/O error encountered while pulling bytes from
// the underlying stream during parsing, distinguishing it from a
// well-formedness failure.
type ReadFailedError struct {
	Err error
}

func (e *ReadFailedError) Error() string {
	return fmt.Sprintf("xml: read failed: %v", e.Err)
}

func (e *ReadFailedError) Unwrap() error { return e.Err }

// ErrOutOfMemory is returned when a buffer growth required to make forward
// progress (e.g. to resolve a cannot_reset) would exceed the fixed
// maximum window size (maxWindowSize).
var ErrOutOfMemory = fmt.Errorf("xml: out of memory")
