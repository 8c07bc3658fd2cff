package model

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Group places a node type either at block level or inside inline content.
type Group string

const (
	GroupBlock  Group = "block"
	GroupInline Group = "inline"
)

// ContentRule constrains a node's children.
type ContentRule string

const (
	// ContentNone marks atomic nodes and leaves.
	ContentNone ContentRule = ""
	// ContentInline allows zero or more inline leaves.
	ContentInline ContentRule = "inline*"
	// ContentBlock requires one or more block children.
	ContentBlock ContentRule = "block+"
)

// AttrSpec declares one attribute. A Required attribute without a value
// fails validation; otherwise Default is implied when missing.
type AttrSpec struct {
	Default  any
	Required bool
}

// NodeSpec is the structural and attribute contract of a node type.
type NodeSpec struct {
	Group   Group
	Content ContentRule
	Attrs   map[string]AttrSpec
	// DefaultAttrs are the values filled into nodes created from the
	// slash palette.
	DefaultAttrs map[string]any
	// Placeholder is the text a freshly created inline container starts with.
	Placeholder string
}

// MarkSpec declares a mark type and its attributes.
type MarkSpec struct {
	Attrs map[string]AttrSpec
}

// Schema is a registry of node and mark types.
type Schema struct {
	nodes     map[string]NodeSpec
	nodeOrder []string
	marks     map[string]MarkSpec
	markOrder []string
}

// NewSchema returns an empty registry that only knows the text leaf.
func NewSchema() *Schema {
	s := &Schema{nodes: map[string]NodeSpec{}, marks: map[string]MarkSpec{}}
	s.RegisterNodeType("text", NodeSpec{Group: GroupInline})
	return s
}

// RegisterNodeType declares (or redeclares) a node type.
func (s *Schema) RegisterNodeType(name string, spec NodeSpec) {
	if _, ok := s.nodes[name]; !ok {
		s.nodeOrder = append(s.nodeOrder, name)
	}
	s.nodes[name] = spec
}

// RegisterMarkType declares (or redeclares) a mark type. Registration
// order is the canonical mark order.
func (s *Schema) RegisterMarkType(name string, spec MarkSpec) {
	if _, ok := s.marks[name]; !ok {
		s.markOrder = append(s.markOrder, name)
	}
	s.marks[name] = spec
}

// NodeSpec looks up a node type.
func (s *Schema) NodeSpec(name string) (NodeSpec, bool) {
	spec, ok := s.nodes[name]
	return spec, ok
}

// MarkSpec looks up a mark type.
func (s *Schema) MarkSpec(name string) (MarkSpec, bool) {
	spec, ok := s.marks[name]
	return spec, ok
}

// NodeTypes returns registered node types in registration order.
func (s *Schema) NodeTypes() []string { return append([]string(nil), s.nodeOrder...) }

// MarkRank returns the canonical position of a mark type; unknown types
// sort last.
func (s *Schema) MarkRank(name string) int {
	for i, m := range s.markOrder {
		if m == name {
			return i
		}
	}
	return len(s.markOrder)
}

// IsTextblock reports whether nodes of this type hold inline content.
func (s *Schema) IsTextblock(name string) bool {
	spec, ok := s.nodes[name]
	return ok && spec.Content == ContentInline
}

// IsBlock reports whether the type belongs to the block group.
func (s *Schema) IsBlock(name string) bool {
	spec, ok := s.nodes[name]
	return ok && spec.Group == GroupBlock
}

// NewNode builds a node of the given type filled with its DefaultAttrs and
// placeholder text, attributes in JSON form. Unknown types yield an error.
func (s *Schema) NewNode(name string) (Node, error) {
	spec, ok := s.nodes[name]
	if !ok {
		return Node{}, fmt.Errorf("unknown node type %q", name)
	}
	n := Node{Type: name}
	if len(spec.Attrs) > 0 || len(spec.DefaultAttrs) > 0 {
		n.Attrs = map[string]any{}
		for k, a := range spec.Attrs {
			if a.Default != nil {
				n.Attrs[k] = JSONValue(a.Default)
			}
		}
		for k, v := range spec.DefaultAttrs {
			n.Attrs[k] = JSONValue(v)
		}
	}
	if spec.Content == ContentInline && spec.Placeholder != "" {
		n.Content = []Node{NewText(spec.Placeholder)}
	}
	return n, nil
}

// Issue is a single validation failure.
type Issue struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Result is the outcome of Validate.
type Result struct {
	Valid  bool    `json:"valid"`
	Errors []Issue `json:"errors,omitempty"`
}

// ErrInvalidDocument is matched by every ValidationError.
var ErrInvalidDocument = errors.New("invalid document")

// ValidationError carries the issues of a failed validation.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		p := is.Path
		if p == "" {
			p = "(root)"
		}
		parts = append(parts, p+": "+is.Reason)
	}
	return "invalid document: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidDocument }

// Err returns nil for a valid result and a *ValidationError otherwise.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Issues: r.Errors}
}

// Validate checks every node type is registered and every node satisfies
// its content and attribute contract.
func (s *Schema) Validate(doc *Document) Result {
	v := validator{schema: s}
	if doc == nil {
		v.add("", "document is nil")
		return v.result()
	}
	if doc.Type != DocType {
		v.add("", fmt.Sprintf("root type must be %q, got %q", DocType, doc.Type))
	}
	for i, child := range doc.Content {
		p := joinPath("", "content", i)
		if spec, ok := s.nodes[child.Type]; ok && spec.Group != GroupBlock {
			v.add(p, fmt.Sprintf("inline node %q not allowed at document level", child.Type))
			continue
		}
		v.node(child, p)
	}
	return v.result()
}

type validator struct {
	schema *Schema
	issues []Issue
}

func (v *validator) add(path, reason string) {
	v.issues = append(v.issues, Issue{Path: path, Reason: reason})
}

func (v *validator) result() Result {
	return Result{Valid: len(v.issues) == 0, Errors: v.issues}
}

func (v *validator) node(n Node, path string) {
	spec, ok := v.schema.nodes[n.Type]
	if !ok {
		v.add(path, fmt.Sprintf("unknown node type %q", n.Type))
		return
	}

	v.attrs(n.Type, spec.Attrs, n.Attrs, path)

	if n.IsText() {
		if len(n.Content) > 0 {
			v.add(path, "text node must not have content")
		}
		v.marks(n.Marks, path)
		return
	}
	if len(n.Marks) > 0 {
		v.add(path, fmt.Sprintf("marks are only allowed on text, found on %q", n.Type))
	}
	if n.Text != "" {
		v.add(path, fmt.Sprintf("text is only allowed on text leaves, found on %q", n.Type))
	}

	switch spec.Content {
	case ContentNone:
		if len(n.Content) > 0 {
			v.add(path, fmt.Sprintf("atomic node %q must not have content", n.Type))
		}
	case ContentInline:
		for i, child := range n.Content {
			p := joinPath(path, "content", i)
			if cs, ok := v.schema.nodes[child.Type]; ok && cs.Group != GroupInline {
				v.add(p, fmt.Sprintf("block node %q not allowed in inline content of %q", child.Type, n.Type))
				continue
			}
			v.node(child, p)
		}
	case ContentBlock:
		if len(n.Content) == 0 {
			v.add(path, fmt.Sprintf("%q requires at least one block child", n.Type))
		}
		for i, child := range n.Content {
			p := joinPath(path, "content", i)
			if cs, ok := v.schema.nodes[child.Type]; ok && cs.Group != GroupBlock {
				v.add(p, fmt.Sprintf("inline node %q not allowed in block content of %q", child.Type, n.Type))
				continue
			}
			v.node(child, p)
		}
	}
}

func (v *validator) marks(marks []Mark, path string) {
	seen := map[string]bool{}
	for i, m := range marks {
		p := joinPath(path, "marks", i)
		spec, ok := v.schema.marks[m.Type]
		if !ok {
			v.add(p, fmt.Sprintf("unknown mark type %q", m.Type))
			continue
		}
		if seen[m.Type] {
			v.add(p, fmt.Sprintf("duplicate mark %q", m.Type))
		}
		seen[m.Type] = true
		v.attrs(m.Type, spec.Attrs, m.Attrs, p)
	}
}

func (v *validator) attrs(owner string, specs map[string]AttrSpec, attrs map[string]any, path string) {
	for _, name := range slices.Sorted(maps.Keys(specs)) {
		if !specs[name].Required {
			continue
		}
		if val, ok := attrs[name]; !ok || val == nil {
			v.add(path, fmt.Sprintf("%q is missing required attribute %q", owner, name))
		}
	}
}

func joinPath(base, field string, i int) string {
	seg := field + "." + strconv.Itoa(i)
	if base == "" {
		return seg
	}
	return base + "." + seg
}
