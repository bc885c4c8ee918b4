package xmlreader

import "testing"

func TestAttributeTableAddAndIndex(t *testing.T) {
	tbl := NewAttributeTable()
	for i, name := range []string{"a", "b", "c"} {
		idx, ok := tbl.Add(name, Range{})
		if !ok || idx != i {
			t.Fatalf("Add(%q) = %d/%v, want %d", name, idx, ok, i)
		}
	}
	if tbl.Len() != 3 {
		t.Fatalf("Len = %d, want 3", tbl.Len())
	}
	if i, ok := tbl.IndexByName("b"); !ok || i != 1 {
		t.Errorf("IndexByName(b) = %d/%v, want 1", i, ok)
	}
	if _, ok := tbl.Add("a", Range{}); ok {
		t.Error("duplicate Add(a) accepted")
	}
}

func TestAttributeTableReset(t *testing.T) {
	tbl := NewAttributeTable()
	tbl.Add("a", Range{})
	tbl.SetNamespace(0, "p", "a", "u")
	tbl.Reset()
	if tbl.Len() != 0 {
		t.Fatalf("Len after Reset = %d, want 0", tbl.Len())
	}
	if _, ok := tbl.IndexByName("a"); ok {
		t.Error("IndexByName survives Reset")
	}
	if _, ok := tbl.IndexByNS("u", "a"); ok {
		t.Error("IndexByNS survives Reset")
	}
}

func TestAttributeTableNamespaceIndex(t *testing.T) {
	tbl := NewAttributeTable()
	tbl.Add("p:a", Range{})
	tbl.Add("q:a", Range{})
	if !tbl.SetNamespace(0, "p", "a", "u1") {
		t.Fatal("SetNamespace(0) rejected")
	}
	if !tbl.SetNamespace(1, "q", "a", "u2") {
		t.Fatal("SetNamespace(1) rejected for distinct URI")
	}
	if i, ok := tbl.IndexByNS("u2", "a"); !ok || i != 1 {
		t.Errorf("IndexByNS(u2, a) = %d/%v, want 1", i, ok)
	}
	name, prefix, local, ns := tbl.At(1)
	if name != "q:a" || prefix != "q" || local != "a" || ns != "u2" {
		t.Errorf("At(1) = (%q, %q, %q, %q)", name, prefix, local, ns)
	}
}

func TestAttributeTableDuplicateExpandedName(t *testing.T) {
	tbl := NewAttributeTable()
	tbl.Add("p:a", Range{})
	tbl.Add("q:a", Range{})
	tbl.SetNamespace(0, "p", "a", "u")
	if tbl.SetNamespace(1, "q", "a", "u") {
		t.Error("duplicate (ns, local) accepted")
	}
}

func TestNameValidityCache(t *testing.T) {
	c := NewNameValidityCache()
	// Twice each: the second call exercises the hit path.
	for i := 0; i < 2; i++ {
		if !c.Valid([]byte("foo"), false) {
			t.Error("Valid(foo) = false")
		}
		if c.Valid([]byte("1foo"), false) {
			t.Error("Valid(1foo) = true")
		}
		// Name vs NCName results are cached under distinct keys.
		if !c.Valid([]byte("a:b"), false) {
			t.Error("Valid(a:b, Name) = false")
		}
		if c.Valid([]byte("a:b"), true) {
			t.Error("Valid(a:b, NCName) = true")
		}
	}
}

func TestCharRefCacheDecode(t *testing.T) {
	c := NewCharRefCache()
	for i := 0; i < 2; i++ {
		r, err := c.Decode("65", false)
		if err != nil || r != 'A' {
			t.Errorf("Decode(65, dec) = %q/%v, want A", r, err)
		}
		r, err = c.Decode("41", true)
		if err != nil || r != 'A' {
			t.Errorf("Decode(41, hex) = %q/%v, want A", r, err)
		}
	}
	if _, err := c.Decode("zz", true); err == nil {
		t.Error("Decode(zz, hex) succeeded, want error")
	}
	// "41" decimal and "41" hex must not collide in the cache.
	r, err := c.Decode("41", false)
	if err != nil || r != ')' {
		t.Errorf("Decode(41, dec) = %q/%v, want ')'", r, err)
	}
}
