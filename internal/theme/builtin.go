package theme

import (
	"strings"

	"resume-builder/internal/model"
	"resume-builder/internal/render"
)

func Classic() Theme {
	return Theme{
		ID:          "classic",
		Name:        "Classic",
		Description: "Single column, serif headings, conservative spacing.",
		Fonts:       Fonts{Heading: "Georgia, serif", Body: "Georgia, serif"},
		Colors:      Colors{Text: "#1a1a1a", Muted: "#555555", Accent: "#1f4e79", Highlight: "#fff3a3"},
		Renderer:    render.Render,
	}
}

// Modern puts the personal info and skills blocks in a sidebar and the
// rest of the document in the main column.
func Modern() Theme {
	return Theme{
		ID:          "modern",
		Name:        "Modern",
		Description: "Two columns with a tinted sidebar for contact details and skills.",
		Fonts:       Fonts{Heading: "Inter, Helvetica, sans-serif", Body: "Inter, Helvetica, sans-serif"},
		Colors:      Colors{Text: "#222222", Muted: "#6b7280", Accent: "#2563eb", Highlight: "#dbeafe", Sidebar: "#f1f5f9"},
		Renderer:    renderSidebar,
	}
}

func Minimal() Theme {
	return Theme{
		ID:          "minimal",
		Name:        "Minimal",
		Description: "Plain typography, no decoration.",
		Fonts:       Fonts{Heading: "Helvetica, Arial, sans-serif", Body: "Helvetica, Arial, sans-serif"},
		Colors:      Colors{Text: "#000000", Muted: "#444444", Accent: "#000000", Highlight: "#eeeeee"},
		Renderer:    render.Render,
	}
}

func renderSidebar(doc *model.Document) string {
	if doc == nil {
		return ""
	}
	var side, main strings.Builder
	for _, n := range doc.Content {
		switch n.Type {
		case model.TypePersonalInfo, model.TypeSkills:
			side.WriteString(render.Block(n))
		default:
			main.WriteString(render.Block(n))
		}
	}
	return `<aside class="sidebar">` + side.String() + `</aside><section class="main-column">` + main.String() + `</section>`
}

var themeCSS = map[string]string{
	"classic": `.theme-classic .personal-info{text-align:center;border-bottom:2px solid var(--color-accent);padding-bottom:8px;margin-bottom:16px}
`,
	"modern": `.theme-modern{display:grid;grid-template-columns:240px 1fr;gap:24px;max-width:960px}
.theme-modern .sidebar{background:var(--color-sidebar);padding:16px;border-radius:8px}
.theme-modern h3{color:var(--color-accent)}
`,
	"minimal": `.theme-minimal .skill-list li{border:none;padding:0}
.theme-minimal .skill-list li+li:before{content:", "}
`,
}
