package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/editor"
	"resume-builder/internal/model"
)

func TestRender_EscapesText(t *testing.T) {
	doc := model.NewDocument(model.Node{Type: model.TypeParagraph, Content: []model.Node{model.NewText(`<b>&"'`)}})

	out := Render(doc)
	assert.Equal(t, `<p>&lt;b&gt;&amp;&quot;&#039;</p>`, out)

	inner := strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	assert.NotContains(t, inner, "<")
	assert.NotContains(t, inner, ">")
	assert.NotContains(t, inner, `"`)
	assert.NotContains(t, inner, "'")
}

func TestRender_EscapesAttrs(t *testing.T) {
	doc := model.NewDocument(model.Node{Type: model.TypeExperience, Attrs: map[string]any{
		"company": `Acme" onmouseover="x`,
		"role":    "<script>",
	}})

	out := Render(doc)
	assert.Contains(t, out, `<span class="company">Acme&quot; onmouseover=&quot;x</span>`)
	assert.Contains(t, out, `<h3 class="role">&lt;script&gt;</h3>`)
	assert.Contains(t, out, `<span class="dates"></span>`)
}

func TestRender_Idempotent(t *testing.T) {
	doc := model.Resume{
		Meta:    model.Meta{Name: "Ada Lovelace", Headline: "Engineer", Contact: map[string]string{"email": "ada@example.com"}},
		Summary: "Writes programs.",
		Skills:  []string{"Go", "Rust"},
	}.Document()

	assert.Equal(t, Render(doc), Render(doc))
}

func TestRender_MarkOrderIsFixed(t *testing.T) {
	link := model.Mark{Type: model.MarkLink, Attrs: map[string]any{"href": "https://ada.dev"}}
	bold := model.Mark{Type: model.MarkBold}
	italic := model.Mark{Type: model.MarkItalic}
	under := model.Mark{Type: model.MarkUnderline}

	a := Text(model.NewText("x", link, under, italic, bold))
	b := Text(model.NewText("x", bold, italic, under, link))
	assert.Equal(t, a, b)
	assert.Equal(t, `<a href="https://ada.dev" target="_blank" rel="noopener noreferrer"><u><em><strong>x</strong></em></u></a>`, a)
}

func TestRender_Highlight(t *testing.T) {
	assert.Equal(t, `<mark>x</mark>`, Text(model.NewText("x", model.Mark{Type: model.MarkHighlight})))
	assert.Equal(t, `<mark data-color="#ff0">x</mark>`,
		Text(model.NewText("x", model.Mark{Type: model.MarkHighlight, Attrs: map[string]any{"color": "#ff0"}})))
}

func TestRender_HeadingLevels(t *testing.T) {
	heading := func(level any) *model.Document {
		return model.NewDocument(model.Node{Type: model.TypeHeading, Attrs: map[string]any{"level": level}, Content: []model.Node{model.NewText("T")}})
	}

	assert.Equal(t, `<h2>T</h2>`, Render(heading(7)))
	assert.Equal(t, `<h2>T</h2>`, Render(heading(0)))
	assert.Equal(t, `<h2>T</h2>`, Render(heading("big")))
	assert.Equal(t, `<h1>T</h1>`, Render(heading(1)))
	assert.Equal(t, `<h3>T</h3>`, Render(heading(float64(3))))
	assert.Equal(t, `<h2>T</h2>`, Render(model.NewDocument(model.Node{Type: model.TypeHeading, Content: []model.Node{model.NewText("T")}})))
}

func TestRender_SkillsChipsScenario(t *testing.T) {
	e := editor.New(model.DefaultSchema())
	doc := model.NewDocument(model.Node{Type: model.TypeParagraph, Content: []model.Node{model.NewText("/skills")}})

	p := editor.NewPalette(editor.DefaultCommands())
	p.SetQuery("Skills chips")
	out, err := p.Commit(e, doc, editor.Span(editor.Path{0}, 0, 7), map[string]any{"items": []string{"Go", "Rust"}})
	require.NoError(t, err)

	html := Render(out)
	assert.Equal(t, `<section class="skills"><ul class="skill-list"><li>Go</li><li>Rust</li></ul></section>`, html)
	assert.Equal(t, 2, strings.Count(html, "<li>"))
}

func TestRender_SkillsEscapedAndDecoded(t *testing.T) {
	doc := model.NewDocument(model.Node{Type: model.TypeSkills, Attrs: map[string]any{"items": []any{"C&C++", "<Go>"}}})
	assert.Equal(t, `<section class="skills"><ul class="skill-list"><li>C&amp;C++</li><li>&lt;Go&gt;</li></ul></section>`, Render(doc))
}

func TestRender_UnknownTypeRendersChildren(t *testing.T) {
	doc := model.NewDocument(model.Node{Type: "timeline", Attrs: map[string]any{"onclick": "x"}, Content: []model.Node{
		{Type: model.TypeParagraph, Content: []model.Node{model.NewText("inside")}},
		model.NewText("loose"),
	}})

	assert.Equal(t, `<p>inside</p>loose`, Render(doc))
}

func TestRender_DegradesGracefully(t *testing.T) {
	assert.Equal(t, "", Render(nil))
	assert.Equal(t, "", Render(&model.Document{}))
	assert.Equal(t, `<section class="summary"><p></p></section>`, Render(model.NewDocument(model.Node{Type: model.TypeSummary})))
	assert.Contains(t, Render(model.NewDocument(model.Node{Type: model.TypePersonalInfo})), `<h1 class="name"></h1>`)
}

func TestRender_ProjectURL(t *testing.T) {
	doc := model.NewDocument(model.Node{Type: model.TypeProject, Attrs: map[string]any{
		"name": "Engine",
		"url":  "https://www.github.com/ada/engine",
	}})

	out := Render(doc)
	assert.Contains(t, out, `<a class="url" href="https://www.github.com/ada/engine" target="_blank" rel="noopener noreferrer">github.com</a>`)

	noURL := Render(model.NewDocument(model.Node{Type: model.TypeProject, Attrs: map[string]any{"name": "Engine"}}))
	assert.NotContains(t, noURL, "<a")
}

func TestURLLabel(t *testing.T) {
	tests := map[string]string{
		"https://www.github.com/ada": "github.com",
		"blog.ada.co.uk/posts":       "ada.co.uk",
		"http://localhost:8080/demo": "localhost",
		"":                           "",
	}
	for in, want := range tests {
		assert.Equal(t, want, URLLabel(in), in)
	}
}
