package structured

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/tsawler/tabmerge/model"
)

// element is a minimal XML tree node. text holds the character data that
// appears before the first child element.
type element struct {
	name     string
	text     strings.Builder
	children []*element
}

// FromXML builds a table from an XML document.
//
// Each direct child of the root is a row and its own children supply the
// columns (tag name to trimmed text). When no row has any such cell, each
// direct child instead becomes a one-cell row keyed by its own tag.
func FromXML(r io.Reader) (*model.Table, error) {
	root, err := parseXML(r)
	if err != nil {
		return nil, fmt.Errorf("invalid XML: %w", err)
	}

	records := make([]Record, 0, len(root.children))
	cells := 0
	for _, child := range root.children {
		var rec Record
		for _, gc := range child.children {
			rec.Set(gc.name, strings.TrimSpace(gc.text.String()))
			cells++
		}
		records = append(records, rec)
	}

	if cells == 0 {
		records = records[:0]
		for _, child := range root.children {
			records = append(records, Record{{Key: child.name, Value: strings.TrimSpace(child.text.String())}})
		}
	}

	t := FromRecords(records)
	if t.Empty() {
		return nil, fmt.Errorf("no data found in XML document: %w", model.ErrUnsupportedStructure)
	}
	return t, nil
}

func parseXML(r io.Reader) (*element, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	dec.CharsetReader = charset.NewReaderLabel

	var root *element
	var stack []*element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{name: t.Name.Local}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("multiple root elements")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			if len(top.children) == 0 {
				top.text.Write(t)
			}
		}
	}

	if root == nil {
		return nil, errors.New("no root element")
	}
	return root, nil
}
