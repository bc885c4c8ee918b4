// Command xmlcat streams the node sequence of an XML document to stdout,
// one line per node. It exists as a minimal example driver for the
// xmlreader package, the way a library ships a small runnable alongside
// its tests, not as a general-purpose XML tool.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/corexml/xmlreader"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: xmlcat <file>\n")
		os.Exit(2)
	}
	if err := run(os.Args[1]); err != nil {
		os.Exit(1)
	}
}

func run(path string) error {
	f, err := os.Open(path)
	if err != nil {
		slog.Error("open failed", "path", path, "err", err)
		return err
	}
	defer f.Close()

	rd := xmlreader.NewReader(xmlreader.NewStreamSource(f))
	for {
		kind, err := rd.Read()
		if err != nil {
			logParseFailure(path, err)
			return err
		}
		printNode(rd, kind)
		if kind == xmlreader.EOFNode {
			return nil
		}
	}
}

func printNode(rd *xmlreader.Reader, kind xmlreader.NodeKind) {
	switch kind {
	case xmlreader.ElementStartNode:
		fmt.Printf("element_start %s\n", rd.ElementName())
		for i := 0; i < rd.AttributeCount(); i++ {
			v, _ := rd.AttributeValue(i)
			fmt.Printf("  attr %s=%q\n", rd.AttributeName(i), v)
		}
	case xmlreader.ElementEndNode:
		fmt.Printf("element_end %s\n", rd.ElementName())
	case xmlreader.TextNode:
		fmt.Printf("text %q\n", rd.Text())
	case xmlreader.CDATANode:
		fmt.Printf("cdata %q\n", rd.Text())
	case xmlreader.CommentNode:
		fmt.Printf("comment %q\n", rd.Comment())
	case xmlreader.PINode:
		fmt.Printf("pi %s %q\n", rd.PITarget(), rd.PI())
	case xmlreader.EntityReferenceNode:
		fmt.Printf("entity_reference %s\n", rd.EntityReferenceName())
	case xmlreader.CharacterReferenceNode:
		fmt.Printf("character_reference %q\n", rd.CharacterReferenceChar())
	case xmlreader.XMLDeclarationNode:
		fmt.Printf("xml_declaration version=%s\n", rd.XMLDeclarationVersion())
	case xmlreader.EOFNode:
		fmt.Println("eof")
	}
}

func logParseFailure(path string, err error) {
	if pe, ok := err.(*xmlreader.ParseError); ok {
		line, col := pe.Line, pe.Column
		slog.Error("malformed xml", "path", path, "code", pe.Code, "line", line, "column", col)
		return
	}
	slog.Error("read failed", "path", path, "err", err)
}
