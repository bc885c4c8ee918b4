package xmlreader

// ReaderOptions configures a Reader at construction time. The zero value is
// not a usable configuration; use DefaultOptions or NewReader's implicit
// defaults.
type ReaderOptions struct {
	// NamespaceAware enables Namespaces-in-XML processing: element and
	// attribute names are split at ':', prefixes resolve against the
	// namespace scope stack, and the `_ns` accessor family becomes usable.
	NamespaceAware bool

	// LocationAware enables incremental (line, column) tracking, and
	// therefore Location, ErrorLocation, and AttributeLocation.
	LocationAware bool

	// AssumeValidUTF8 skips UTF-8 validation of text/attribute/comment/
	// CDATA/PI-data slices, for callers that have already validated their
	// input by other means.
	AssumeValidUTF8 bool
}

// DefaultOptions returns the Reader's default configuration: namespace and
// location awareness on, UTF-8 validation on.
func DefaultOptions() ReaderOptions {
	return ReaderOptions{
		NamespaceAware: true,
		LocationAware:  true,
	}
}
