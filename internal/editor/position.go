package editor

import (
	"fmt"
	"slices"

	"resume-builder/internal/model"
)

// Path addresses a node by child indices from the document root.
type Path []int

// Point is a cursor position: Path addresses a textblock and Offset counts
// runes into its inline content.
type Point struct {
	Path   Path `json:"path"`
	Offset int  `json:"offset"`
}

// Range spans From..To in document order. A collapsed range is a cursor.
type Range struct {
	From Point `json:"from"`
	To   Point `json:"to"`
}

// Collapsed reports whether the range is empty.
func (r Range) Collapsed() bool {
	return slices.Equal(r.From.Path, r.To.Path) && r.From.Offset == r.To.Offset
}

// Slot is a block position: the index among Parent's children. An empty
// Parent is the document root.
type Slot struct {
	Parent Path `json:"parent"`
	Index  int  `json:"index"`
}

// Cursor returns a collapsed range at the point.
func Cursor(path Path, offset int) Range {
	return Range{From: Point{Path: path, Offset: offset}, To: Point{Path: path, Offset: offset}}
}

// Span returns a range inside a single textblock.
func Span(path Path, from, to int) Range {
	return Range{From: Point{Path: path, Offset: from}, To: Point{Path: path, Offset: to}}
}

func comparePaths(a, b Path) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}

func comparePoints(a, b Point) int {
	if c := comparePaths(a.Path, b.Path); c != 0 {
		return c
	}
	return a.Offset - b.Offset
}

func parentOf(p Path) Path { return p[:len(p)-1] }

// resolveRange checks both ends address textblocks with in-bounds offsets
// and returns the range ordered From <= To.
func (e *Editor) resolveRange(doc *model.Document, r Range) (Range, error) {
	for _, pt := range []Point{r.From, r.To} {
		n := doc.At(pt.Path)
		if n == nil {
			return Range{}, fmt.Errorf("%w: no node at %v", ErrInvalidRange, []int(pt.Path))
		}
		if !e.schema.IsTextblock(n.Type) {
			return Range{}, fmt.Errorf("%w: %q at %v does not hold inline content", ErrInvalidRange, n.Type, []int(pt.Path))
		}
		if l := inlineLen(n.Content); pt.Offset < 0 || pt.Offset > l {
			return Range{}, fmt.Errorf("%w: offset %d outside 0..%d", ErrInvalidRange, pt.Offset, l)
		}
	}
	if comparePoints(r.From, r.To) > 0 {
		r.From, r.To = r.To, r.From
	}
	return r, nil
}

// textblocks lists the paths of every textblock in document order.
func (e *Editor) textblocks(doc *model.Document) []Path {
	var out []Path
	var walk func(nodes []model.Node, base Path)
	walk = func(nodes []model.Node, base Path) {
		for i, n := range nodes {
			p := append(slices.Clone(base), i)
			if e.schema.IsTextblock(n.Type) {
				out = append(out, p)
				continue
			}
			walk(n.Content, p)
		}
	}
	walk(doc.Content, nil)
	return out
}

// children returns a pointer to the child list of the node at parent, or
// the document's top level for an empty path.
func children(doc *model.Document, parent Path) (*[]model.Node, string) {
	if len(parent) == 0 {
		return &doc.Content, model.DocType
	}
	n := doc.At(parent)
	if n == nil {
		return nil, ""
	}
	return &n.Content, n.Type
}

// acceptsBlocks reports whether the container type holds block children.
func (e *Editor) acceptsBlocks(container string) bool {
	if container == model.DocType {
		return true
	}
	spec, ok := e.schema.NodeSpec(container)
	return ok && spec.Content == model.ContentBlock
}
