package structured

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/tsawler/tabmerge/model"
)

type nodeKind int

const (
	nodeNull nodeKind = iota
	nodeString
	nodeNumber
	nodeBool
	nodeObject
	nodeArray
)

// node is a decoded JSON value that remembers object key order.
type node struct {
	kind   nodeKind
	text   string
	keys   []string
	fields []*node
	items  []*node
}

func (n *node) nested() bool {
	return n.kind == nodeObject || n.kind == nodeArray
}

// FromJSON builds a table from a JSON document.
//
// An array yields one row per element. An object whose values include a
// nested object or array yields one row per key; any other object yields a
// single row. Top-level scalars and documents that produce no rows fail
// with model.ErrUnsupportedStructure.
func FromJSON(data []byte) (*model.Table, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	root, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("invalid JSON: unexpected data after top-level value")
	}

	var records []Record
	switch root.kind {
	case nodeArray:
		for _, item := range root.items {
			records = append(records, recordOf(item))
		}
	case nodeObject:
		nested := false
		for _, f := range root.fields {
			if f.nested() {
				nested = true
				break
			}
		}
		if nested {
			for _, f := range root.fields {
				records = append(records, recordOf(f))
			}
		} else {
			records = append(records, recordOf(root))
		}
	default:
		return nil, fmt.Errorf("top-level JSON %s: %w", kindName(root.kind), model.ErrUnsupportedStructure)
	}

	t := FromRecords(records)
	if t.Empty() || t.ColCount() == 0 {
		return nil, fmt.Errorf("JSON document has no rows: %w", model.ErrUnsupportedStructure)
	}
	return t, nil
}

// recordOf converts one element into a row. Object fields map to columns,
// array items map to positional columns 0..n-1 and a scalar goes to column 0.
func recordOf(n *node) Record {
	var rec Record
	switch n.kind {
	case nodeObject:
		for i, k := range n.keys {
			rec.Set(k, render(n.fields[i]))
		}
	case nodeArray:
		for i, item := range n.items {
			rec = append(rec, Field{Key: strconv.Itoa(i), Value: render(item)})
		}
	case nodeNull:
	default:
		rec = append(rec, Field{Key: "0", Value: render(n)})
	}
	return rec
}

// render formats a value as a cell. Strings are verbatim, numbers keep their
// source text, null is missing and nested values become compact JSON.
func render(n *node) string {
	switch n.kind {
	case nodeNull:
		return ""
	case nodeString, nodeNumber, nodeBool:
		return n.text
	}
	var buf bytes.Buffer
	writeCompact(&buf, n)
	return buf.String()
}

func writeCompact(buf *bytes.Buffer, n *node) {
	switch n.kind {
	case nodeNull:
		buf.WriteString("null")
	case nodeString:
		b, _ := json.Marshal(n.text)
		buf.Write(b)
	case nodeNumber, nodeBool:
		buf.WriteString(n.text)
	case nodeArray:
		buf.WriteByte('[')
		for i, item := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCompact(buf, item)
		}
		buf.WriteByte(']')
	case nodeObject:
		buf.WriteByte('{')
		for i, k := range n.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, _ := json.Marshal(k)
			buf.Write(b)
			buf.WriteByte(':')
			writeCompact(buf, n.fields[i])
		}
		buf.WriteByte('}')
	}
}

// decodeValue reads one complete value from the token stream.
func decodeValue(dec *json.Decoder) (*node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch v := tok.(type) {
	case nil:
		return &node{kind: nodeNull}, nil
	case string:
		return &node{kind: nodeString, text: v}, nil
	case json.Number:
		return &node{kind: nodeNumber, text: v.String()}, nil
	case bool:
		return &node{kind: nodeBool, text: strconv.FormatBool(v)}, nil
	case json.Delim:
		switch v {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func decodeObject(dec *json.Decoder) (*node, error) {
	n := &node{kind: nodeObject}
	pos := make(map[string]int)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key %v is not a string", tok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		// a repeated key keeps its first position and its last value
		if i, seen := pos[key]; seen {
			n.fields[i] = val
			continue
		}
		pos[key] = len(n.keys)
		n.keys = append(n.keys, key)
		n.fields = append(n.fields, val)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return n, nil
}

func decodeArray(dec *json.Decoder) (*node, error) {
	n := &node{kind: nodeArray}
	for dec.More() {
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		n.items = append(n.items, val)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return n, nil
}

func kindName(k nodeKind) string {
	switch k {
	case nodeNull:
		return "null"
	case nodeString:
		return "string"
	case nodeNumber:
		return "number"
	case nodeBool:
		return "boolean"
	case nodeObject:
		return "object"
	}
	return "array"
}
