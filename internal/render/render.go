// Package render turns a document into HTML. The same output feeds the
// live preview and the print/PDF path.
package render

import (
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/publicsuffix"

	"resume-builder/internal/model"
)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// Escape escapes the five HTML-significant characters.
func Escape(s string) string { return escaper.Replace(s) }

// Render renders the top-level content of doc in order. It never panics on
// malformed input: missing attrs are empty, unknown types render their
// children.
func Render(doc *model.Document) string {
	if doc == nil {
		return ""
	}
	return Blocks(doc.Content)
}

// Blocks renders a list of block nodes.
func Blocks(nodes []model.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		writeBlock(&b, n)
	}
	return b.String()
}

// Block renders a single block node.
func Block(n model.Node) string {
	var b strings.Builder
	writeBlock(&b, n)
	return b.String()
}

func writeBlock(b *strings.Builder, n model.Node) {
	attr := func(key string) string { return Escape(model.AttrString(n.Attrs, key)) }

	switch n.Type {
	case model.TypePersonalInfo:
		b.WriteString(`<header class="personal-info">`)
		b.WriteString(`<h1 class="name">` + attr("name") + `</h1>`)
		b.WriteString(`<p class="title">` + attr("title") + `</p>`)
		b.WriteString(`<p class="contact">`)
		b.WriteString(`<span class="location">` + attr("location") + `</span>`)
		b.WriteString(`<span class="email">` + attr("email") + `</span>`)
		b.WriteString(`<span class="phone">` + attr("phone") + `</span>`)
		b.WriteString(`</p></header>`)
	case model.TypeSummary:
		b.WriteString(`<section class="summary"><p>` + Inline(n.Content) + `</p></section>`)
	case model.TypeExperience:
		b.WriteString(`<section class="experience"><div class="entry-header">`)
		b.WriteString(`<h3 class="role">` + attr("role") + `</h3>`)
		b.WriteString(`<span class="company">` + attr("company") + `</span>`)
		b.WriteString(`<span class="dates">` + attr("dates") + `</span>`)
		b.WriteString(`</div><p>` + Inline(n.Content) + `</p></section>`)
	case model.TypeProject:
		b.WriteString(`<section class="project"><div class="entry-header">`)
		b.WriteString(`<h3 class="name">` + attr("name") + `</h3>`)
		if raw := model.AttrString(n.Attrs, "url"); raw != "" {
			b.WriteString(`<a class="url" href="` + Escape(raw) + `" target="_blank" rel="noopener noreferrer">`)
			b.WriteString(Escape(URLLabel(raw)) + `</a>`)
		}
		b.WriteString(`</div><p>` + Inline(n.Content) + `</p></section>`)
	case model.TypeEducation:
		b.WriteString(`<section class="education"><div class="entry-header">`)
		b.WriteString(`<h3 class="school">` + attr("school") + `</h3>`)
		b.WriteString(`<span class="degree">` + attr("degree") + `</span>`)
		b.WriteString(`<span class="dates">` + attr("dates") + `</span>`)
		b.WriteString(`</div><p>` + Inline(n.Content) + `</p></section>`)
	case model.TypeSkills:
		b.WriteString(`<section class="skills"><ul class="skill-list">`)
		for _, item := range model.AttrStrings(n.Attrs, "items") {
			b.WriteString(`<li>` + Escape(item) + `</li>`)
		}
		b.WriteString(`</ul></section>`)
	case model.TypeCustomSection:
		b.WriteString(`<section class="custom-section"><h2>` + attr("title") + `</h2>`)
		b.WriteString(`<p>` + Inline(n.Content) + `</p></section>`)
	case model.TypeHeading:
		tag := "h" + strconv.Itoa(HeadingLevel(n))
		b.WriteString(`<` + tag + `>` + Inline(n.Content) + `</` + tag + `>`)
	case model.TypeParagraph:
		b.WriteString(`<p>` + Inline(n.Content) + `</p>`)
	case model.TypeText:
		b.WriteString(Text(n))
	default:
		slog.Debug("Rendering children of unknown node type", "type", n.Type)
		for _, c := range n.Content {
			if c.IsText() {
				b.WriteString(Text(c))
				continue
			}
			writeBlock(b, c)
		}
	}
}

// HeadingLevel returns the node's level, or 2 when it is missing or
// outside 1..3.
func HeadingLevel(n model.Node) int {
	level, ok := model.AttrInt(n.Attrs, "level")
	if !ok || level < 1 || level > 3 {
		return 2
	}
	return level
}

// Inline renders inline content.
func Inline(nodes []model.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		if n.IsText() {
			b.WriteString(Text(n))
			continue
		}
		b.WriteString(Inline(n.Content))
	}
	return b.String()
}

// markTags lists the wrappers in application order; later entries end up
// outermost.
var markTags = []struct {
	mark string
	open func(m model.Mark) string
	tag  string
}{
	{model.MarkBold, func(model.Mark) string { return "<strong>" }, "strong"},
	{model.MarkItalic, func(model.Mark) string { return "<em>" }, "em"},
	{model.MarkUnderline, func(model.Mark) string { return "<u>" }, "u"},
	{model.MarkHighlight, func(m model.Mark) string {
		if c := model.AttrString(m.Attrs, "color"); c != "" {
			return `<mark data-color="` + Escape(c) + `">`
		}
		return "<mark>"
	}, "mark"},
	{model.MarkLink, func(m model.Mark) string {
		return `<a href="` + Escape(model.AttrString(m.Attrs, "href")) + `" target="_blank" rel="noopener noreferrer">`
	}, "a"},
}

// Text renders an escaped text leaf wrapped in its marks. The wrapping
// order is fixed, so the order of the marks array does not matter.
func Text(n model.Node) string {
	out := Escape(n.Text)
	for _, mt := range markTags {
		for _, m := range n.Marks {
			if m.Type == mt.mark {
				out = mt.open(m) + out + "</" + mt.tag + ">"
				break
			}
		}
	}
	return out
}

// URLLabel shortens a project URL to its registrable domain, falling back
// to the bare host.
func URLLabel(raw string) string {
	candidate := strings.TrimSpace(raw)
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}
	parsed, err := url.Parse(candidate)
	if err != nil {
		return raw
	}
	host := parsed.Hostname()
	if host == "" {
		return raw
	}
	if etld, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return strings.TrimPrefix(etld, "www.")
	}
	return strings.TrimPrefix(host, "www.")
}
