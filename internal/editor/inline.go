package editor

import (
	"reflect"
	"slices"
	"unicode/utf8"

	"resume-builder/internal/model"
)

// leafLen is the rune length of an inline leaf. Non-text inline atoms
// occupy one position.
func leafLen(n model.Node) int {
	if n.IsText() {
		return utf8.RuneCountInString(n.Text)
	}
	return 1
}

func inlineLen(nodes []model.Node) int {
	total := 0
	for _, n := range nodes {
		total += leafLen(n)
	}
	return total
}

// sliceInline returns copies of the leaves covering runes [from, to),
// cutting text leaves at the bounds.
func sliceInline(nodes []model.Node, from, to int) []model.Node {
	var out []model.Node
	pos := 0
	for _, n := range nodes {
		l := leafLen(n)
		start, end := pos, pos+l
		pos = end
		lo, hi := max(start, from), min(end, to)
		if lo >= hi {
			continue
		}
		c := n.Clone()
		if n.IsText() {
			runes := []rune(n.Text)
			c.Text = string(runes[lo-start : hi-start])
		}
		out = append(out, c)
	}
	return out
}

// normalizeInline drops empty text leaves and merges neighbours that carry
// identical marks and attributes.
func normalizeInline(nodes []model.Node) []model.Node {
	var out []model.Node
	for _, n := range nodes {
		if n.IsText() && n.Text == "" {
			continue
		}
		if k := len(out) - 1; k >= 0 && n.IsText() && out[k].IsText() &&
			marksEqual(out[k].Marks, n.Marks) && attrsEqual(out[k].Attrs, n.Attrs) {
			out[k].Text += n.Text
			continue
		}
		out = append(out, n)
	}
	return out
}

func hasMark(n model.Node, markType string) bool {
	for _, m := range n.Marks {
		if m.Type == markType {
			return true
		}
	}
	return false
}

// addMark inserts m at its canonical position.
func (e *Editor) addMark(marks []model.Mark, m model.Mark) []model.Mark {
	rank := e.schema.MarkRank(m.Type)
	i := slices.IndexFunc(marks, func(x model.Mark) bool { return e.schema.MarkRank(x.Type) > rank })
	if i < 0 {
		i = len(marks)
	}
	return slices.Insert(slices.Clone(marks), i, m.Clone())
}

func removeMark(marks []model.Mark, markType string) []model.Mark {
	out := slices.DeleteFunc(slices.Clone(marks), func(m model.Mark) bool { return m.Type == markType })
	if len(out) == 0 {
		return nil
	}
	return out
}

// sortMarks orders marks canonically.
func (e *Editor) sortMarks(marks []model.Mark) []model.Mark {
	if len(marks) == 0 {
		return nil
	}
	out := slices.Clone(marks)
	slices.SortStableFunc(out, func(a, b model.Mark) int {
		return e.schema.MarkRank(a.Type) - e.schema.MarkRank(b.Type)
	})
	return out
}

func marksEqual(a, b []model.Mark) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Type != b[i].Type || !attrsEqual(a[i].Attrs, b[i].Attrs) {
			return false
		}
	}
	return true
}

func attrsEqual(a, b map[string]any) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}
