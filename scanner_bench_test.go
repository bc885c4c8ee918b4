package xmlreader

import (
	"testing"
	"unicode/utf8"
)

var benchDoc = `<?xml version="1.0" encoding="UTF-8"?>` +
	`<catalog><book id="bk101" genre="computer" price="44.95">` +
	`<author>Gambardella, Matthew</author>` +
	`<title>XML Developer&apos;s Guide</title>` +
	`<description>An in-depth look at creating applications with XML,` +
	` covering &lt;elements&gt; &amp; attributes &#8212; at length.</description>` +
	`</book></catalog>`

func BenchmarkScannerFeed(b *testing.B) {
	b.SetBytes(int64(len(benchDoc)))
	for i := 0; i < b.N; i++ {
		s := NewScanner()
		for j := 0; j < len(benchDoc); {
			r, width := utf8.DecodeRuneInString(benchDoc[j:])
			if _, err := s.Feed(r, width); err != nil {
				b.Fatal(err)
			}
			j += width
		}
		if err := s.EndInput(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkExpandEntities(b *testing.B) {
	cache := NewCharRefCache()
	value := []byte("a &amp; b &#8212; c &#x2019;d&quot; e &lt;f&gt;")
	b.SetBytes(int64(len(value)))
	for i := 0; i < b.N; i++ {
		if _, code, ok := expandEntitiesStrict(value, cache); !ok {
			b.Fatal(code)
		}
	}
}

func BenchmarkNameValidityCache(b *testing.B) {
	c := NewNameValidityCache()
	names := [][]byte{[]byte("catalog"), []byte("book"), []byte("author"), []byte("xs:element")}
	for i := 0; i < b.N; i++ {
		for _, n := range names {
			c.Valid(n, false)
		}
	}
}
