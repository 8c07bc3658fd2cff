// Package theme maps a theme id to a renderer and its style tokens.
package theme

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"resume-builder/internal/model"
	"resume-builder/internal/render"
)

// RendererFunc turns a document into the theme's body markup.
type RendererFunc func(doc *model.Document) string

// Fonts are the families a theme uses.
type Fonts struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// Colors are a theme's palette.
type Colors struct {
	Text      string `json:"text"`
	Muted     string `json:"muted"`
	Accent    string `json:"accent"`
	Highlight string `json:"highlight"`
	Sidebar   string `json:"sidebar,omitempty"`
}

// Theme is an immutable descriptor.
type Theme struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Fonts       Fonts        `json:"fonts"`
	Colors      Colors       `json:"colors"`
	Renderer    RendererFunc `json:"-"`
}

// Render runs the theme's renderer on a copy of doc wrapped in the theme's
// root element.
func (t Theme) Render(doc *model.Document) string {
	body := t.Renderer(doc.Clone())
	return `<main class="resume theme-` + render.Escape(t.ID) + `">` + body + `</main>`
}

// Registry keeps themes in registration order.
type Registry struct {
	themes []Theme
}

// NewRegistry returns a registry holding themes. It panics when themes is
// empty or an id repeats, since Resolve must always have something to
// return.
func NewRegistry(themes ...Theme) *Registry {
	if len(themes) == 0 {
		panic("theme: registry needs at least one theme")
	}
	seen := map[string]bool{}
	for _, t := range themes {
		if seen[t.ID] {
			panic(fmt.Sprintf("theme: duplicate id %q", t.ID))
		}
		seen[t.ID] = true
	}
	return &Registry{themes: slices.Clone(themes)}
}

// Default returns the registry of built-in themes.
func Default() *Registry {
	return NewRegistry(Classic(), Modern(), Minimal())
}

// Lookup reports whether id is registered.
func (r *Registry) Lookup(id string) (Theme, bool) {
	for _, t := range r.themes {
		if t.ID == id {
			return t, true
		}
	}
	return Theme{}, false
}

// Resolve returns the theme with id, or the first registered theme.
func (r *Registry) Resolve(id string) Theme {
	if t, ok := r.Lookup(id); ok {
		return t
	}
	return r.themes[0]
}

// List returns the themes in registration order.
func (r *Registry) List() []Theme { return slices.Clone(r.themes) }

// Stylesheet returns the CSS for a theme's tokens.
func Stylesheet(t Theme) string {
	var b strings.Builder
	fmt.Fprintf(&b, ":root{--font-heading:%s;--font-body:%s;--color-text:%s;--color-muted:%s;--color-accent:%s;--color-highlight:%s;--color-sidebar:%s}\n",
		t.Fonts.Heading, t.Fonts.Body, t.Colors.Text, t.Colors.Muted, t.Colors.Accent, t.Colors.Highlight, cmp.Or(t.Colors.Sidebar, "transparent"))
	b.WriteString(baseCSS)
	if css, ok := themeCSS[t.ID]; ok {
		b.WriteString(css)
	}
	return b.String()
}

const baseCSS = `.resume{font-family:var(--font-body);color:var(--color-text);line-height:1.5;max-width:800px;margin:0 auto}
.resume h1,.resume h2,.resume h3{font-family:var(--font-heading);margin:0}
.resume section{margin:0 0 16px}
.resume .entry-header{display:flex;gap:8px;align-items:baseline;flex-wrap:wrap}
.resume .dates,.resume .degree,.resume .company,.resume .title{color:var(--color-muted)}
.resume .contact span+span:before{content:" · "}
.resume .skill-list{list-style:none;padding:0;display:flex;flex-wrap:wrap;gap:6px}
.resume .skill-list li{border:1px solid var(--color-accent);border-radius:12px;padding:2px 10px}
.resume a{color:var(--color-accent)}
.resume mark{background:var(--color-highlight)}
`
