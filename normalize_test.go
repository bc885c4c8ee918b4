package xmlreader

import "testing"

func TestNormalizeLineEndings(t *testing.T) {
	cases := []struct{ in, want string }{
		{"plain", "plain"},
		{"a\r\nb", "a\nb"},
		{"a\rb", "a\nb"},
		{"\r\n\r\n", "\n\n"},
		{"trailing\r", "trailing\n"},
		{"\ralready\nmixed\r\n", "\nalready\nmixed\n"},
	}
	for _, c := range cases {
		if got := string(normalizeLineEndings([]byte(c.in))); got != c.want {
			t.Errorf("normalizeLineEndings(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeLineEndingsNoCopyWithoutCR(t *testing.T) {
	in := []byte("no carriage returns here")
	out := normalizeLineEndings(in)
	if &out[0] != &in[0] {
		t.Error("CR-free input was copied, want same backing array")
	}
}

func TestNormalizeAttributeWhitespace(t *testing.T) {
	cases := []struct{ in, want string }{
		{"a b", "a b"},
		{"a\tb", "a b"},
		{"a\nb", "a b"},
		{"a\rb", "a b"},
		{"a\r\nb", "a b"}, // one space, not two
		{"\t\r\n\n", "   "},
	}
	for _, c := range cases {
		if got := string(normalizeAttributeWhitespace([]byte(c.in))); got != c.want {
			t.Errorf("normalizeAttributeWhitespace(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestExpandEntitiesStrict(t *testing.T) {
	got, code, ok := expandEntitiesStrict([]byte("&amp;&lt;&gt;&apos;&quot;"), nil)
	if !ok {
		t.Fatalf("expandEntitiesStrict failed: %v", code)
	}
	if string(got) != `&<>'"` {
		t.Errorf("expanded = %q, want %q", got, `&<>'"`)
	}

	got, _, ok = expandEntitiesStrict([]byte("x&#65;y&#x42;z"), nil)
	if !ok || string(got) != "xAyBz" {
		t.Errorf("numeric expansion = %q/%v, want xAyBz", got, ok)
	}
}

func TestExpandEntitiesStrictErrors(t *testing.T) {
	cases := []struct {
		in   string
		code ErrorCode
	}{
		{"&nbsp;", ErrEntityReferenceUndefined},
		{"&#0;", ErrCharacterReferenceIllegal},
		{"&#xFFFE;", ErrCharacterReferenceIllegal},
		{"&#xZZ;", ErrCharacterReferenceIllegal},
		{"&amp", ErrEntityReferenceUnclosed},
	}
	for _, c := range cases {
		_, code, ok := expandEntitiesStrict([]byte(c.in), nil)
		if ok || code != c.code {
			t.Errorf("expandEntitiesStrict(%q) = %v/%v, want %v", c.in, code, ok, c.code)
		}
	}
}

func TestExpandEntitiesStrictWithCache(t *testing.T) {
	cache := NewCharRefCache()
	for i := 0; i < 2; i++ {
		got, code, ok := expandEntitiesStrict([]byte("&#160;&#160;"), cache)
		if !ok {
			t.Fatalf("pass %d failed: %v", i, code)
		}
		if string(got) != "  " {
			t.Errorf("pass %d = %q, want two NBSPs", i, got)
		}
	}
}

func TestEscapeString(t *testing.T) {
	if got := EscapeString(`<a & "b">`); got != "&lt;a &amp; &#34;b&#34;&gt;" {
		t.Errorf("EscapeString = %q", got)
	}
}

func TestEscapeUnescapeRoundTrip(t *testing.T) {
	for _, s := range []string{"plain", `<tag attr="v">&amp;</tag>`, "tabs\tand\nnewlines\r"} {
		back, err := UnescapeString(EscapeString(s))
		if err != nil {
			t.Fatalf("UnescapeString(%q): %v", s, err)
		}
		if back != s {
			t.Errorf("round trip of %q = %q", s, back)
		}
	}
}

func TestUnescapeStringUndefined(t *testing.T) {
	_, err := UnescapeString("&bogus;")
	pe, ok := err.(*ParseError)
	if !ok || pe.Code != ErrEntityReferenceUndefined {
		t.Errorf("UnescapeString error = %v, want ErrEntityReferenceUndefined", err)
	}
}

func TestLookupPredefinedEntity(t *testing.T) {
	for name, want := range map[string]rune{"amp": '&', "lt": '<', "gt": '>', "apos": '\'', "quot": '"'} {
		if r, ok := lookupPredefinedEntity(name); !ok || r != want {
			t.Errorf("lookupPredefinedEntity(%q) = %q/%v, want %q", name, r, ok, want)
		}
	}
	if _, ok := lookupPredefinedEntity("nbsp"); ok {
		t.Error("lookupPredefinedEntity(nbsp) found, want missing")
	}
}
