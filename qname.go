package xmlreader

import (
	groupcachelru "github.com/golang/groupcache/lru"
	hashicorplru "github.com/hashicorp/golang-lru/v2"
)

// qname.go holds the per-element attribute index (ordered by source
// position, plus a namespace-qualified index) and the two bounded caches
// the Reader consults before doing the work they memoize: name-validity
// classification, and numeric character-reference decoding.

// nsKey is the (namespace URI, local name) pair attributes are indexed by
// in namespace-aware mode.
type nsKey struct {
	ns    string
	local string
}

// attrEntry is one attribute recorded on the current element_start. name
// and rawValue are owned copies, not window Ranges: an element's
// attributes are assembled across many nextToken calls, any of which may
// rebase or grow the Reader's window and invalidate an earlier Range
// (interner.go's usage-contract note applies here too).
type attrEntry struct {
	nameStr   string
	rawValue  []byte
	normValue []byte
	prefix    string
	local     string
	nsURI     string
	line, col int // of the attribute name, when location tracking is on
}

// AttributeTable is the per-element attribute index: an ordered list
// (source order) plus a name-keyed map, and, in namespace-aware mode, a
// second map keyed by (ns-uri, local). It is cleared, not reallocated, on
// every element_start so the backing storage is reused.
type AttributeTable struct {
	entries []attrEntry
	byName  map[string]int
	byNS    map[nsKey]int
}

// NewAttributeTable returns an empty attribute table.
func NewAttributeTable() *AttributeTable {
	return &AttributeTable{
		byName: make(map[string]int),
		byNS:   make(map[nsKey]int),
	}
}

// Reset clears the table for a new element_start, retaining backing
// storage.
func (t *AttributeTable) Reset() {
	t.entries = t.entries[:0]
	for k := range t.byName {
		delete(t.byName, k)
	}
	for k := range t.byNS {
		delete(t.byNS, k)
	}
}

// Len reports the attribute count on the current element.
func (t *AttributeTable) Len() int { return len(t.entries) }

// Add records a new attribute in source order. It reports ok=false, and
// records nothing, if name has already been seen on this element; the
// caller turns that into ErrDuplicateAttribute.
// nameRange is unused beyond call-site symmetry with the token that
// produced name; error reporting for a duplicate uses the caller's own
// offset instead.
func (t *AttributeTable) Add(name string, nameRange Range) (int, bool) {
	if _, dup := t.byName[name]; dup {
		return 0, false
	}
	idx := len(t.entries)
	t.entries = append(t.entries, attrEntry{nameStr: name})
	t.byName[name] = idx
	return idx, true
}

// nameString returns the name of attribute i.
func (t *AttributeTable) nameString(i int) string { return t.entries[i].nameStr }

// SetNamespace records the namespace decomposition of attribute idx and
// indexes it by (ns, local). It reports false if the pair was already
// indexed (two differently-prefixed attributes resolving to the same
// expanded name); the caller turns that into ErrDuplicateExpandedName.
func (t *AttributeTable) SetNamespace(idx int, prefix, local, nsURI string) bool {
	t.entries[idx].prefix = prefix
	t.entries[idx].local = local
	t.entries[idx].nsURI = nsURI
	key := nsKey{ns: nsURI, local: local}
	if _, dup := t.byNS[key]; dup {
		return false
	}
	t.byNS[key] = idx
	return true
}

// IndexByName returns the attribute index for an exact name match.
func (t *AttributeTable) IndexByName(name string) (int, bool) {
	i, ok := t.byName[name]
	return i, ok
}

// IndexByNS returns the attribute index for an (ns-uri, local) match.
func (t *AttributeTable) IndexByNS(ns, local string) (int, bool) {
	i, ok := t.byNS[nsKey{ns: ns, local: local}]
	return i, ok
}

// At returns the name and namespace decomposition for attribute i.
func (t *AttributeTable) At(i int) (name, prefix, local, nsURI string) {
	e := t.entries[i]
	return e.nameStr, e.prefix, e.local, e.nsURI
}

// NameValidityCache memoizes whether a byte sequence (an element, attribute,
// or PI-target name) satisfies the XML Name/NCName grammar, so repeated
// tags in a large document pay the classification cost once. Sized at 256
// entries: generous for the handful of distinct names a typical document
// repeats thousands of times, bounded against a pathological
// all-unique-name document.
type NameValidityCache struct {
	cache *groupcachelru.Cache
}

// NewNameValidityCache returns a cache sized for one Reader's lifetime.
func NewNameValidityCache() *NameValidityCache {
	return &NameValidityCache{cache: groupcachelru.New(256)}
}

// Valid reports whether name is a well-formed XML Name, consulting (and
// populating) the cache. ncNameOnly additionally requires no ':'.
func (c *NameValidityCache) Valid(name []byte, ncNameOnly bool) bool {
	key := string(name)
	if ncNameOnly {
		key = "1" + key
	} else {
		key = "0" + key
	}
	if v, ok := c.cache.Get(key); ok {
		return v.(bool)
	}
	ok := validateName(name, ncNameOnly)
	c.cache.Add(key, ok)
	return ok
}

func validateName(name []byte, ncNameOnly bool) bool {
	if len(name) == 0 {
		return false
	}
	runes := []rune(string(name))
	first := runes[0]
	if ncNameOnly {
		if !isNCNameStartChar(first) {
			return false
		}
	} else if !isNameStartChar(first) {
		return false
	}
	for _, r := range runes[1:] {
		if ncNameOnly {
			if !isNCNameChar(r) {
				return false
			}
		} else if !isNameChar(r) {
			return false
		}
	}
	return true
}

// CharRefCache memoizes the decoded rune for a numeric character
// reference's digit text, keyed by the digits plus a base marker ("x" for
// hex, "d" for decimal), so a document
// repeating the same reference (`&#160;` for a non-breaking space, say)
// pays the strconv.ParseUint cost once. Sized at 128 entries. Uses the
// generic `hashicorp/golang-lru/v2` rather than the `groupcache/lru`
// instance above: the typed API holds rune values without boxing.
type CharRefCache struct {
	cache *hashicorplru.Cache[string, rune]
}

// NewCharRefCache returns a cache sized for one Reader's lifetime.
func NewCharRefCache() *CharRefCache {
	c, _ := hashicorplru.New[string, rune](128)
	return &CharRefCache{cache: c}
}

// Decode returns the rune denoted by digits (hex selects base 16),
// consulting and populating the cache. The caller is responsible for
// validating the result against the legal Char ranges.
func (c *CharRefCache) Decode(digits string, hex bool) (rune, error) {
	key := digits
	if hex {
		key = "x" + digits
	} else {
		key = "d" + digits
	}
	if r, ok := c.cache.Get(key); ok {
		return r, nil
	}
	r, err := decodeCharRef(digits, hex)
	if err != nil {
		return 0, err
	}
	c.cache.Add(key, r)
	return r, nil
}
