// Package editor is the only sanctioned way to mutate a document. Every
// command takes the current document and returns a new one; the input is
// never modified, and a failed command leaves the caller's document as it
// was.
package editor

import (
	"fmt"
	"maps"
	"slices"

	"resume-builder/internal/model"
)

// Editor applies commands under a schema.
type Editor struct {
	schema *model.Schema
}

func New(schema *model.Schema) *Editor {
	return &Editor{schema: schema}
}

// Schema returns the schema commands are validated against.
func (e *Editor) Schema() *model.Schema { return e.schema }

// commit validates the result of a command before handing it out.
func (e *Editor) commit(doc *model.Document) (*model.Document, error) {
	doc.JSONNative()
	if err := e.schema.Validate(doc).Err(); err != nil {
		return nil, err
	}
	return doc, nil
}

// InsertNode replaces rng with template. Inline templates are spliced into
// the text. A block template is only accepted when rng covers the whole
// inline content of one textblock (the typed "/query"): that textblock is
// replaced by the template. Anything else would nest a block inside inline
// content and fails with a structural conflict.
func (e *Editor) InsertNode(doc *model.Document, rng Range, template model.Node) (*model.Document, error) {
	spec, ok := e.schema.NodeSpec(template.Type)
	if !ok {
		return nil, fmt.Errorf("%w: node %q", ErrUnknownType, template.Type)
	}
	if spec.Group == model.GroupInline {
		return e.ReplaceRange(doc, rng, []model.Node{template})
	}

	r, err := e.resolveRange(doc, rng)
	if err != nil {
		return nil, err
	}
	host := doc.At(r.From.Path)
	if !slices.Equal(r.From.Path, r.To.Path) || r.From.Offset != 0 || r.To.Offset != inlineLen(host.Content) {
		return nil, &ConflictError{Node: template.Type, Container: host.Type}
	}

	out := doc.Clone()
	parent := parentOf(r.From.Path)
	list, container := children(out, parent)
	if !e.acceptsBlocks(container) {
		return nil, &ConflictError{Node: template.Type, Container: container}
	}
	(*list)[r.From.Path[len(r.From.Path)-1]] = template.Clone()
	return e.commit(out)
}

// InsertBlock inserts a block template at an explicit slot.
func (e *Editor) InsertBlock(doc *model.Document, slot Slot, template model.Node) (*model.Document, error) {
	if _, ok := e.schema.NodeSpec(template.Type); !ok {
		return nil, fmt.Errorf("%w: node %q", ErrUnknownType, template.Type)
	}
	out := doc.Clone()
	list, container := children(out, slot.Parent)
	if list == nil {
		return nil, fmt.Errorf("%w: no node at %v", ErrInvalidPath, []int(slot.Parent))
	}
	if !e.acceptsBlocks(container) || !e.schema.IsBlock(template.Type) {
		return nil, &ConflictError{Node: template.Type, Container: container}
	}
	if slot.Index < 0 || slot.Index > len(*list) {
		return nil, fmt.Errorf("%w: index %d outside 0..%d", ErrInvalidPath, slot.Index, len(*list))
	}
	*list = slices.Insert(*list, slot.Index, template.Clone())
	return e.commit(out)
}

// ToggleMark is all-or-nothing: when every text leaf in rng already
// carries the mark it is removed from all of them, otherwise it is added to
// those that lack it. Toggling a uniform range twice restores the original
// canonical document.
func (e *Editor) ToggleMark(doc *model.Document, rng Range, mark model.Mark) (*model.Document, error) {
	if _, ok := e.schema.MarkSpec(mark.Type); !ok {
		return nil, fmt.Errorf("%w: mark %q", ErrUnknownType, mark.Type)
	}
	r, err := e.resolveRange(doc, rng)
	if err != nil {
		return nil, err
	}
	if r.Collapsed() {
		return nil, ErrNoChange
	}

	out := doc.Clone()
	type segment struct {
		node               *model.Node
		before, mid, after []model.Node
	}
	var segs []segment
	for _, p := range e.textblocks(out) {
		if comparePaths(p, r.From.Path) < 0 || comparePaths(p, r.To.Path) > 0 {
			continue
		}
		n := out.At(p)
		l := inlineLen(n.Content)
		a, b := 0, l
		if slices.Equal(p, r.From.Path) {
			a = r.From.Offset
		}
		if slices.Equal(p, r.To.Path) {
			b = r.To.Offset
		}
		segs = append(segs, segment{
			node:   n,
			before: sliceInline(n.Content, 0, a),
			mid:    sliceInline(n.Content, a, b),
			after:  sliceInline(n.Content, b, l),
		})
	}

	all, found := true, false
	for _, s := range segs {
		for _, leaf := range s.mid {
			if !leaf.IsText() {
				continue
			}
			found = true
			if !hasMark(leaf, mark.Type) {
				all = false
			}
		}
	}
	if !found {
		return nil, ErrNoChange
	}

	for _, s := range segs {
		if len(s.mid) == 0 {
			continue
		}
		for i := range s.mid {
			leaf := &s.mid[i]
			if !leaf.IsText() {
				continue
			}
			switch {
			case all:
				leaf.Marks = removeMark(leaf.Marks, mark.Type)
			case !hasMark(*leaf, mark.Type):
				leaf.Marks = e.addMark(leaf.Marks, mark)
			}
		}
		s.node.Content = normalizeInline(slices.Concat(s.before, s.mid, s.after))
	}
	return e.commit(out)
}

// SetNodeAttrs merges attrs into the node at path. Attributes not named in
// attrs keep their values.
func (e *Editor) SetNodeAttrs(doc *model.Document, path Path, attrs map[string]any) (*model.Document, error) {
	if doc.At(path) == nil {
		return nil, fmt.Errorf("%w: no node at %v", ErrInvalidPath, []int(path))
	}
	if len(attrs) == 0 {
		return nil, ErrNoChange
	}
	out := doc.Clone()
	n := out.At(path)
	if n.Attrs == nil {
		n.Attrs = make(map[string]any, len(attrs))
	}
	maps.Copy(n.Attrs, model.Node{Attrs: attrs}.Clone().Attrs)
	return e.commit(out)
}

// DeleteRange removes the content of rng.
func (e *Editor) DeleteRange(doc *model.Document, rng Range) (*model.Document, error) {
	return e.ReplaceRange(doc, rng, nil)
}

// ReplaceRange replaces rng with inline content. A range may span sibling
// textblocks; they are joined into the first one and the blocks in between
// are removed.
func (e *Editor) ReplaceRange(doc *model.Document, rng Range, content []model.Node) (*model.Document, error) {
	for _, n := range content {
		if !n.IsText() && e.schema.IsBlock(n.Type) {
			return nil, &ConflictError{Node: n.Type, Container: "inline content"}
		}
	}
	r, err := e.resolveRange(doc, rng)
	if err != nil {
		return nil, err
	}
	if r.Collapsed() && len(content) == 0 {
		return nil, ErrNoChange
	}
	if !slices.Equal(parentOf(r.From.Path), parentOf(r.To.Path)) {
		return nil, fmt.Errorf("%w: range spans different containers", ErrInvalidRange)
	}

	out := doc.Clone()
	first, last := out.At(r.From.Path), out.At(r.To.Path)
	inserted := cloneNodes(content)
	joined := slices.Concat(
		sliceInline(first.Content, 0, r.From.Offset),
		inserted,
		sliceInline(last.Content, r.To.Offset, inlineLen(last.Content)),
	)
	first.Content = normalizeInline(joined)

	if !slices.Equal(r.From.Path, r.To.Path) {
		list, _ := children(out, parentOf(r.From.Path))
		lo := r.From.Path[len(r.From.Path)-1] + 1
		hi := r.To.Path[len(r.To.Path)-1] + 1
		*list = slices.Delete(*list, lo, hi)
	}
	return e.commit(out)
}

// ReplaceContent swaps the whole inline content of the textblock at path.
func (e *Editor) ReplaceContent(doc *model.Document, path Path, content []model.Node) (*model.Document, error) {
	n := doc.At(path)
	if n == nil {
		return nil, fmt.Errorf("%w: no node at %v", ErrInvalidPath, []int(path))
	}
	if !e.schema.IsTextblock(n.Type) {
		return nil, &ConflictError{Node: "inline content", Container: n.Type}
	}
	return e.ReplaceRange(doc, Span(path, 0, inlineLen(n.Content)), content)
}

func cloneNodes(nodes []model.Node) []model.Node {
	out := make([]model.Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}
