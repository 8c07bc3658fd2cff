package editor

import (
	"fmt"
	"maps"
	"strings"

	"resume-builder/internal/model"
)

// MaxPaletteResults caps the number of slash commands shown at once.
const MaxPaletteResults = 7

// SlashCommand is one entry of the "/" palette.
type SlashCommand struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Keywords    []string       `json:"keywords"`
	NodeType    string         `json:"nodeType"`
	Attrs       map[string]any `json:"attrs,omitempty"`
}

// Template builds the node this command inserts: the schema defaults, then
// the command's own attrs, then overrides.
func (c SlashCommand) Template(schema *model.Schema, overrides map[string]any) (model.Node, error) {
	n, err := schema.NewNode(c.NodeType)
	if err != nil {
		return model.Node{}, fmt.Errorf("%w: %v", ErrUnknownType, err)
	}
	if len(c.Attrs)+len(overrides) > 0 && n.Attrs == nil {
		n.Attrs = map[string]any{}
	}
	maps.Copy(n.Attrs, model.Node{Attrs: c.Attrs}.Clone().Attrs)
	maps.Copy(n.Attrs, model.Node{Attrs: overrides}.Clone().Attrs)
	return n, nil
}

func (c SlashCommand) haystack() string {
	return strings.ToLower(c.Title + " " + strings.Join(c.Keywords, " "))
}

// DefaultCommands returns the palette entries in declared order.
func DefaultCommands() []SlashCommand {
	return []SlashCommand{
		{ID: "personal-info", Title: "Personal info", Description: "Name, title and contact details",
			Keywords: []string{"header", "contact", "name", "email", "phone"}, NodeType: model.TypePersonalInfo},
		{ID: "summary", Title: "Summary", Description: "A short professional summary",
			Keywords: []string{"about", "profile", "intro"}, NodeType: model.TypeSummary},
		{ID: "experience", Title: "Experience block", Description: "A role at a company",
			Keywords: []string{"work", "job", "role", "company", "employment"}, NodeType: model.TypeExperience},
		{ID: "education", Title: "Education block", Description: "School, degree and dates",
			Keywords: []string{"edu", "school", "university", "degree", "study"}, NodeType: model.TypeEducation},
		{ID: "project", Title: "Project block", Description: "Something you built, with a link",
			Keywords: []string{"portfolio", "side project", "link", "work sample"}, NodeType: model.TypeProject},
		{ID: "skills", Title: "Skills chips", Description: "A list of skills",
			Keywords: []string{"skills", "tags", "chips", "tools", "stack"}, NodeType: model.TypeSkills},
		{ID: "custom-section", Title: "Custom section", Description: "Awards, languages, volunteering",
			Keywords: []string{"section", "awards", "languages", "volunteer", "other"}, NodeType: model.TypeCustomSection},
		{ID: "heading-1", Title: "Heading 1", Description: "Large section heading",
			Keywords: []string{"h1", "title"}, NodeType: model.TypeHeading, Attrs: map[string]any{"level": 1}},
		{ID: "heading-2", Title: "Heading 2", Description: "Medium section heading",
			Keywords: []string{"h2", "subtitle"}, NodeType: model.TypeHeading, Attrs: map[string]any{"level": 2}},
		{ID: "heading-3", Title: "Heading 3", Description: "Small section heading",
			Keywords: []string{"h3"}, NodeType: model.TypeHeading, Attrs: map[string]any{"level": 3}},
		{ID: "paragraph", Title: "Paragraph", Description: "Plain text",
			Keywords: []string{"text", "body", "p"}, NodeType: model.TypeParagraph},
	}
}

// FindCommand looks a command up by id.
func FindCommand(cmds []SlashCommand, id string) (SlashCommand, bool) {
	for _, c := range cmds {
		if c.ID == id {
			return c, true
		}
	}
	return SlashCommand{}, false
}

// FilterCommands keeps the commands whose lowercased title and keywords
// contain q, in declared order, capped at MaxPaletteResults. An empty query
// matches everything.
func FilterCommands(cmds []SlashCommand, q string) []SlashCommand {
	q = strings.ToLower(q)
	out := make([]SlashCommand, 0, MaxPaletteResults)
	for _, c := range cmds {
		if !strings.Contains(c.haystack(), q) {
			continue
		}
		out = append(out, c)
		if len(out) == MaxPaletteResults {
			break
		}
	}
	return out
}

// Palette is the keyboard state of an open slash menu.
type Palette struct {
	commands []SlashCommand
	query    string
	results  []SlashCommand
	index    int
}

// NewPalette opens a palette over cmds with an empty query.
func NewPalette(cmds []SlashCommand) *Palette {
	p := &Palette{commands: cmds}
	p.results = FilterCommands(cmds, "")
	return p
}

// SetQuery refilters the list. The highlight goes back to the top when the
// result set changes and is clamped to the last result otherwise.
func (p *Palette) SetQuery(q string) {
	p.query = q
	next := FilterCommands(p.commands, q)
	if !sameIDs(p.results, next) {
		p.index = 0
	}
	p.results = next
	p.index = max(0, min(p.index, len(p.results)-1))
}

func (p *Palette) Query() string { return p.query }
func (p *Palette) Results() []SlashCommand { return p.results }
func (p *Palette) Index() int { return p.index }

// Next moves the highlight down, wrapping to the top.
func (p *Palette) Next() {
	if n := len(p.results); n > 0 {
		p.index = (p.index + 1) % n
	}
}

// Prev moves the highlight up, wrapping to the bottom.
func (p *Palette) Prev() {
	if n := len(p.results); n > 0 {
		p.index = (p.index - 1 + n) % n
	}
}

// Selected returns the highlighted command.
func (p *Palette) Selected() (SlashCommand, bool) {
	if len(p.results) == 0 {
		return SlashCommand{}, false
	}
	return p.results[p.index], true
}

// HandleKey applies a navigation key and reports whether Enter was pressed
// on a selectable entry.
func (p *Palette) HandleKey(key string) (commit bool) {
	switch key {
	case "ArrowDown":
		p.Next()
	case "ArrowUp":
		p.Prev()
	case "Enter":
		_, ok := p.Selected()
		return ok
	}
	return false
}

// Commit inserts the highlighted command's template over rng, which is
// expected to cover the typed "/query".
func (p *Palette) Commit(e *Editor, doc *model.Document, rng Range, attrs map[string]any) (*model.Document, error) {
	c, ok := p.Selected()
	if !ok {
		return nil, ErrEmptyPalette
	}
	tmpl, err := c.Template(e.schema, attrs)
	if err != nil {
		return nil, err
	}
	return e.InsertNode(doc, rng, tmpl)
}

func sameIDs(a, b []SlashCommand) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
