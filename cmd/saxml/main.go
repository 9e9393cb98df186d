// Command saxml reads an XML document from a file or stdin, parses it into
// a simple-form tree, and re-encodes it to stdout, a round trip that
// exercises both the tokenizer and the encoder end to end.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arcaeus/saxml"
)

type treeBuilder struct {
	stack  []*saxml.Element
	root   *saxml.Element
	prolog saxml.Prolog
}

func build(kind saxml.EventKind, evt saxml.Event, state interface{}) (interface{}, bool, error) {
	b := state.(*treeBuilder)
	switch kind {
	case saxml.StartDocument:
		b.prolog = evt.Prolog
	case saxml.StartElement:
		el := &saxml.Element{
			Name:       strings.Clone(evt.Name),
			Attributes: append([]saxml.Attribute(nil), evt.Attributes...),
		}
		if len(b.stack) > 0 {
			parent := b.stack[len(b.stack)-1]
			parent.Children = append(parent.Children, el)
		} else {
			b.root = el
		}
		b.stack = append(b.stack, el)
	case saxml.EndElement:
		b.stack = b.stack[:len(b.stack)-1]
	case saxml.Characters:
		parent := b.stack[len(b.stack)-1]
		parent.Children = append(parent.Children, saxml.CharData(evt.Text))
	}
	return b, false, nil
}

func run() error {
	path := flag.String("file", "", "path to an XML file (default: stdin)")
	flag.Parse()

	var (
		data []byte
		err  error
	)
	if *path == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(*path)
	}
	if err != nil {
		return fmt.Errorf("saxml: reading input: %w", err)
	}

	b := &treeBuilder{}
	if _, err := saxml.ParseString(data, saxml.HandlerFunc(build), b, saxml.KeepUnknownEntities()); err != nil {
		return fmt.Errorf("saxml: parsing input: %w", err)
	}
	if b.root == nil {
		return fmt.Errorf("saxml: input had no root element")
	}

	out, err := saxml.Encode(*b.root, &b.prolog)
	if err != nil {
		return fmt.Errorf("saxml: encoding output: %w", err)
	}
	_, err = os.Stdout.Write(out)
	return err
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
