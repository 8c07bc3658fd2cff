package editor

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"resume-builder/internal/model"
)

// ParseInlineHTML turns a sanitized HTML fragment into text leaves. Only
// the formatting the schema can express survives: strong/b, em/i, u, mark
// and a[href]. Block boundaries become a single space, since the result
// replaces the content of one textblock.
func (e *Editor) ParseInlineHTML(src string) ([]model.Node, error) {
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	body := findElement(root, atom.Body)
	if body == nil {
		return nil, nil
	}

	var out []model.Node
	var walk func(n *html.Node, marks []model.Mark)
	walk = func(n *html.Node, marks []model.Mark) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				out = append(out, model.NewText(c.Data, marks...))
			case html.ElementNode:
				if c.DataAtom == atom.Script || c.DataAtom == atom.Style {
					continue
				}
				if isBlockElement(c.DataAtom) {
					separate(&out, marks)
				}
				if c.DataAtom == atom.Br {
					out = append(out, model.NewText(" ", marks...))
					continue
				}
				next := marks
				if m, ok := markFor(c); ok && !markListHas(marks, m.Type) {
					next = e.addMark(marks, m)
				}
				walk(c, next)
				if isBlockElement(c.DataAtom) {
					separate(&out, marks)
				}
			}
		}
	}
	walk(body, nil)

	out = collapseSpaces(out)
	for i := range out {
		out[i].Marks = e.sortMarks(out[i].Marks)
	}
	return normalizeInline(out), nil
}

func markFor(n *html.Node) (model.Mark, bool) {
	switch n.DataAtom {
	case atom.Strong, atom.B:
		return model.Mark{Type: model.MarkBold}, true
	case atom.Em, atom.I:
		return model.Mark{Type: model.MarkItalic}, true
	case atom.U:
		return model.Mark{Type: model.MarkUnderline}, true
	case atom.Mark:
		return model.Mark{Type: model.MarkHighlight}, true
	case atom.A:
		href := attrValue(n, "href")
		if href == "" {
			return model.Mark{}, false
		}
		return model.Mark{Type: model.MarkLink, Attrs: map[string]any{"href": href}}, true
	}
	return model.Mark{}, false
}

func markListHas(marks []model.Mark, t string) bool {
	for _, m := range marks {
		if m.Type == t {
			return true
		}
	}
	return false
}

func isBlockElement(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Section, atom.Li, atom.Ul, atom.Ol,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Blockquote, atom.Pre:
		return true
	}
	return false
}

// separate appends a space unless the output is empty or already ends in
// whitespace.
func separate(out *[]model.Node, marks []model.Mark) {
	if len(*out) == 0 {
		return
	}
	last := (*out)[len(*out)-1].Text
	if last == "" || strings.HasSuffix(last, " ") {
		return
	}
	*out = append(*out, model.NewText(" ", marks...))
}

// collapseSpaces folds runs of whitespace the way a browser would and trims
// the ends of the fragment.
func collapseSpaces(nodes []model.Node) []model.Node {
	prevSpace := true
	for i := range nodes {
		var b strings.Builder
		for _, r := range nodes[i].Text {
			if r == ' ' || r == '\n' || r == '\t' || r == '\r' {
				if prevSpace {
					continue
				}
				prevSpace = true
				b.WriteByte(' ')
				continue
			}
			prevSpace = false
			b.WriteRune(r)
		}
		nodes[i].Text = b.String()
	}
	for i := len(nodes) - 1; i >= 0; i-- {
		trimmed := strings.TrimRight(nodes[i].Text, " ")
		nodes[i].Text = trimmed
		if trimmed != "" {
			break
		}
	}
	return nodes
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
