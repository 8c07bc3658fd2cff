package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// DocType is the type tag of the root node.
const DocType = "doc"

// Document is the root of a resume. It mirrors the persisted JSON format
// exactly: {"type": "doc", "content": [...]}.
type Document struct {
	Type    string `json:"type"`
	Content []Node `json:"content"`
}

// Node is a typed element of a Document. Text is only set on text leaves,
// Marks only on text leaves.
type Node struct {
	Type    string         `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []Node         `json:"content,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
	Text    string         `json:"text,omitempty"`
}

// Mark is a character-level annotation on a text leaf.
type Mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// NewDocument returns an empty document.
func NewDocument(content ...Node) *Document {
	if content == nil {
		content = []Node{}
	}
	return &Document{Type: DocType, Content: content}
}

// MarshalJSON writes a nil Content as an empty array, the only form the
// document format accepts.
func (d Document) MarshalJSON() ([]byte, error) {
	type plain Document
	if d.Content == nil {
		d.Content = []Node{}
	}
	// The caller's encoder decides on HTML escaping.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(plain(d)); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// JSONNative rewrites every node and mark attribute in place with
// JSONValue.
func (d *Document) JSONNative() {
	if d == nil {
		return
	}
	jsonNativeNodes(d.Content)
}

func jsonNativeNodes(nodes []Node) {
	for i := range nodes {
		n := &nodes[i]
		n.Attrs = JSONAttrs(n.Attrs)
		for j := range n.Marks {
			n.Marks[j].Attrs = JSONAttrs(n.Marks[j].Attrs)
		}
		jsonNativeNodes(n.Content)
	}
}

// NewText returns a text leaf carrying the given marks.
func NewText(text string, marks ...Mark) Node {
	n := Node{Type: "text", Text: text}
	if len(marks) > 0 {
		n.Marks = marks
	}
	return n
}

// IsText reports whether n is a text leaf.
func (n Node) IsText() bool { return n.Type == "text" }

// Clone returns a deep copy of the document. Previews and print views get
// clones so they never share state with an editing session.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{Type: d.Type}
	if d.Content != nil {
		out.Content = cloneNodes(d.Content)
	}
	return out
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	out := Node{Type: n.Type, Text: n.Text}
	if n.Attrs != nil {
		out.Attrs = cloneAttrs(n.Attrs)
	}
	if n.Content != nil {
		out.Content = cloneNodes(n.Content)
	}
	if n.Marks != nil {
		out.Marks = make([]Mark, len(n.Marks))
		for i, m := range n.Marks {
			out.Marks[i] = m.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the mark.
func (m Mark) Clone() Mark {
	out := Mark{Type: m.Type}
	if m.Attrs != nil {
		out.Attrs = cloneAttrs(m.Attrs)
	}
	return out
}

func cloneNodes(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

func cloneAttrs(attrs map[string]any) map[string]any {
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case []string:
		return append([]string(nil), t...)
	case []any:
		out := make([]any, len(t))
		for i, it := range t {
			out[i] = cloneValue(it)
		}
		return out
	case map[string]any:
		return cloneAttrs(t)
	default:
		return v
	}
}

// At returns the node addressed by path, or nil when the path does not
// exist. The returned pointer aliases the document.
func (d *Document) At(path []int) *Node {
	if d == nil || len(path) == 0 {
		return nil
	}
	if path[0] < 0 || path[0] >= len(d.Content) {
		return nil
	}
	n := &d.Content[path[0]]
	for _, i := range path[1:] {
		if i < 0 || i >= len(n.Content) {
			return nil
		}
		n = &n.Content[i]
	}
	return n
}

// Value stores the document as JSONB.
func (d Document) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan reads a document from a JSONB column.
func (d *Document) Scan(value any) error {
	if value == nil {
		*d = *NewDocument()
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New(fmt.Sprint("failed to scan document value: ", value))
	}
	return json.Unmarshal(raw, d)
}
