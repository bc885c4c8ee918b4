package xmlreader

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf16"
)

func BenchmarkReaderStatic(b *testing.B) {
	data := []byte(benchDoc)
	b.SetBytes(int64(len(data)))
	for i := 0; i < b.N; i++ {
		rd := NewReaderFromBytes(data)
		for {
			kind, err := rd.Read()
			if err != nil {
				b.Fatal(err)
			}
			if kind == EOFNode {
				break
			}
		}
	}
}

func BenchmarkReaderStreaming(b *testing.B) {
	b.SetBytes(int64(len(benchDoc)))
	for i := 0; i < b.N; i++ {
		rd := NewReader(NewStreamSource(strings.NewReader(benchDoc)))
		if err := rd.SkipDocument(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkStreamSourceUTF16(b *testing.B) {
	units := utf16.Encode([]rune("\ufeff" + benchDoc))
	raw := make([]byte, 0, 2*len(units))
	for _, u := range units {
		raw = append(raw, byte(u), byte(u>>8))
	}
	b.SetBytes(int64(len(raw)))
	for i := 0; i < b.N; i++ {
		src := NewStreamSource(bytes.NewReader(raw))
		advance := 0
		for {
			win, err := src.Move(advance, 4096)
			if err != nil {
				b.Fatal(err)
			}
			if len(win) == 0 {
				break
			}
			advance = len(win)
		}
	}
}
