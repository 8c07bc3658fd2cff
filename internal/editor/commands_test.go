package editor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/model"
)

func bold() model.Mark   { return model.Mark{Type: model.MarkBold} }
func italic() model.Mark { return model.Mark{Type: model.MarkItalic} }

func para(text string) model.Node {
	return model.Node{Type: model.TypeParagraph, Content: []model.Node{model.NewText(text)}}
}

func fixture() *model.Document {
	return model.NewDocument(
		para("Hello world"),
		para("Second line"),
		model.Node{Type: model.TypeSummary, Content: []model.Node{
			model.NewText("Builds "),
			model.NewText("compilers", bold()),
		}},
		model.Node{Type: model.TypeExperience, Attrs: map[string]any{"company": "Acme", "role": "Engineer", "dates": "2020"}},
		model.Node{Type: model.TypeSkills, Attrs: map[string]any{"items": []any{"Go"}}},
	)
}

func TestToggleMark_Involution(t *testing.T) {
	e := New(model.DefaultSchema())
	doc := fixture()
	before := doc.Clone()

	once, err := e.ToggleMark(doc, Span(Path{0}, 0, 5), bold())
	require.NoError(t, err)
	assert.Equal(t, []model.Node{
		model.NewText("Hello", bold()),
		model.NewText(" world"),
	}, once.Content[0].Content)

	twice, err := e.ToggleMark(once, Span(Path{0}, 0, 5), bold())
	require.NoError(t, err)
	assert.Equal(t, before, twice)
	assert.Equal(t, before, doc, "input must not be modified")
}

func TestToggleMark_MixedRangeAddsToAll(t *testing.T) {
	e := New(model.DefaultSchema())

	out, err := e.ToggleMark(fixture(), Span(Path{2}, 0, 16), bold())
	require.NoError(t, err)
	assert.Equal(t, []model.Node{model.NewText("Builds compilers", bold())}, out.Content[2].Content)

	back, err := e.ToggleMark(out, Span(Path{2}, 0, 16), bold())
	require.NoError(t, err)
	assert.Equal(t, []model.Node{model.NewText("Builds compilers")}, back.Content[2].Content)
}

func TestToggleMark_CanonicalOrder(t *testing.T) {
	e := New(model.DefaultSchema())

	out, err := e.ToggleMark(fixture(), Span(Path{0}, 0, 5), italic())
	require.NoError(t, err)
	out, err = e.ToggleMark(out, Span(Path{0}, 0, 5), bold())
	require.NoError(t, err)

	assert.Equal(t, []model.Mark{bold(), italic()}, out.Content[0].Content[0].Marks)
}

func TestToggleMark_AcrossBlocks(t *testing.T) {
	e := New(model.DefaultSchema())
	rng := Range{From: Point{Path: Path{0}, Offset: 6}, To: Point{Path: Path{1}, Offset: 6}}

	out, err := e.ToggleMark(fixture(), rng, bold())
	require.NoError(t, err)
	assert.Equal(t, []model.Node{model.NewText("Hello "), model.NewText("world", bold())}, out.Content[0].Content)
	assert.Equal(t, []model.Node{model.NewText("Second", bold()), model.NewText(" line")}, out.Content[1].Content)
}

func TestToggleMark_ReversedRange(t *testing.T) {
	e := New(model.DefaultSchema())

	out, err := e.ToggleMark(fixture(), Span(Path{0}, 5, 0), bold())
	require.NoError(t, err)
	assert.Equal(t, model.NewText("Hello", bold()), out.Content[0].Content[0])
}

func TestToggleMark_Errors(t *testing.T) {
	e := New(model.DefaultSchema())
	doc := fixture()

	_, err := e.ToggleMark(doc, Cursor(Path{0}, 3), bold())
	assert.ErrorIs(t, err, ErrNoChange)

	_, err = e.ToggleMark(doc, Span(Path{0}, 0, 5), model.Mark{Type: "blink"})
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = e.ToggleMark(doc, Span(Path{0}, 0, 50), bold())
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = e.ToggleMark(doc, Span(Path{4}, 0, 1), bold())
	assert.ErrorIs(t, err, ErrInvalidRange)

	// A link without href never reaches the caller.
	_, err = e.ToggleMark(doc, Span(Path{0}, 0, 5), model.Mark{Type: model.MarkLink})
	assert.ErrorIs(t, err, model.ErrInvalidDocument)
}

func TestInsertNode_InlineTemplate(t *testing.T) {
	e := New(model.DefaultSchema())

	out, err := e.InsertNode(fixture(), Cursor(Path{0}, 0), model.NewText("Well, "))
	require.NoError(t, err)
	assert.Equal(t, []model.Node{model.NewText("Well, Hello world")}, out.Content[0].Content)
}

func TestInsertNode_BlockReplacesQueryBlock(t *testing.T) {
	e := New(model.DefaultSchema())
	doc := model.NewDocument(para("Intro"), para("/edu"))

	tmpl, err := e.Schema().NewNode(model.TypeEducation)
	require.NoError(t, err)
	out, err := e.InsertNode(doc, Span(Path{1}, 0, 4), tmpl)
	require.NoError(t, err)

	require.Len(t, out.Content, 2)
	assert.Equal(t, model.TypeEducation, out.Content[1].Type)
	assert.Equal(t, "University", out.Content[1].Attrs["school"])
	assert.Equal(t, model.TypeParagraph, doc.Content[1].Type)
}

func TestInsertNode_StructuralConflict(t *testing.T) {
	e := New(model.DefaultSchema())
	doc := fixture()
	before := doc.Clone()

	tmpl, err := e.Schema().NewNode(model.TypeSkills)
	require.NoError(t, err)
	_, err = e.InsertNode(doc, Span(Path{0}, 2, 4), tmpl)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStructuralConflict)

	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, model.TypeSkills, conflict.Node)
	assert.Equal(t, model.TypeParagraph, conflict.Container)
	assert.Equal(t, before, doc)
}

func TestInsertNode_UnknownType(t *testing.T) {
	e := New(model.DefaultSchema())
	_, err := e.InsertNode(fixture(), Cursor(Path{0}, 0), model.Node{Type: "video"})
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestInsertBlock(t *testing.T) {
	e := New(model.DefaultSchema())

	out, err := e.InsertBlock(fixture(), Slot{Index: 1}, para("Inserted"))
	require.NoError(t, err)
	require.Len(t, out.Content, 6)
	assert.Equal(t, "Inserted", out.Content[1].Content[0].Text)
	assert.Equal(t, "Second line", out.Content[2].Content[0].Text)

	_, err = e.InsertBlock(fixture(), Slot{Parent: Path{2}, Index: 0}, para("x"))
	assert.ErrorIs(t, err, ErrStructuralConflict)

	_, err = e.InsertBlock(fixture(), Slot{Index: 9}, para("x"))
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = e.InsertBlock(fixture(), Slot{Index: 0}, model.NewText("x"))
	assert.ErrorIs(t, err, ErrStructuralConflict)
}

func TestSetNodeAttrs_Merges(t *testing.T) {
	e := New(model.DefaultSchema())

	out, err := e.SetNodeAttrs(fixture(), Path{3}, map[string]any{"role": "Staff Engineer"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"company": "Acme", "role": "Staff Engineer", "dates": "2020"}, out.Content[3].Attrs)

	_, err = e.SetNodeAttrs(fixture(), Path{42}, map[string]any{"role": "x"})
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = e.SetNodeAttrs(fixture(), Path{3}, nil)
	assert.ErrorIs(t, err, ErrNoChange)
}

func TestReplaceRange_JoinsSiblings(t *testing.T) {
	e := New(model.DefaultSchema())
	rng := Range{From: Point{Path: Path{0}, Offset: 5}, To: Point{Path: Path{1}, Offset: 6}}

	out, err := e.ReplaceRange(fixture(), rng, []model.Node{model.NewText("!")})
	require.NoError(t, err)
	require.Len(t, out.Content, 4)
	assert.Equal(t, []model.Node{model.NewText("Hello! line")}, out.Content[0].Content)
	assert.Equal(t, model.TypeSummary, out.Content[1].Type)
}

func TestReplaceRange_Errors(t *testing.T) {
	e := New(model.DefaultSchema())

	_, err := e.ReplaceRange(fixture(), Span(Path{0}, 0, 5), []model.Node{para("block")})
	assert.ErrorIs(t, err, ErrStructuralConflict)

	_, err = e.DeleteRange(fixture(), Cursor(Path{0}, 2))
	assert.ErrorIs(t, err, ErrNoChange)

	_, err = e.ReplaceRange(fixture(), Span(Path{0}, -1, 2), nil)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestDeleteRange(t *testing.T) {
	e := New(model.DefaultSchema())

	out, err := e.DeleteRange(fixture(), Span(Path{2}, 0, 7))
	require.NoError(t, err)
	assert.Equal(t, []model.Node{model.NewText("compilers", bold())}, out.Content[2].Content)
}

func TestReplaceContent(t *testing.T) {
	e := New(model.DefaultSchema())
	content := []model.Node{model.NewText("Led "), model.NewText("five", italic())}

	out, err := e.ReplaceContent(fixture(), Path{2}, content)
	require.NoError(t, err)
	assert.Equal(t, content, out.Content[2].Content)

	_, err = e.ReplaceContent(fixture(), Path{4}, content)
	assert.ErrorIs(t, err, ErrStructuralConflict)
}

func TestDecodeCommand(t *testing.T) {
	e := New(model.DefaultSchema())

	cmd, err := DecodeCommand([]byte(`{"op":"toggleMark","range":{"from":{"path":[0],"offset":0},"to":{"path":[0],"offset":5}},"mark":{"type":"bold"}}`))
	require.NoError(t, err)
	assert.Equal(t, "toggleMark", cmd.Name())
	out, err := cmd.Apply(e, fixture())
	require.NoError(t, err)
	assert.Equal(t, model.NewText("Hello", bold()), out.Content[0].Content[0])

	cmd, err = DecodeCommand([]byte(`{"op":"slash","command":"heading-1","range":{"from":{"path":[1],"offset":0},"to":{"path":[1],"offset":11}}}`))
	require.NoError(t, err)
	out, err = cmd.Apply(e, fixture())
	require.NoError(t, err)
	assert.Equal(t, model.TypeHeading, out.Content[1].Type)
	assert.Equal(t, float64(1), out.Content[1].Attrs["level"])

	_, err = DecodeCommand([]byte(`{"op":"explode"}`))
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = DecodeCommand([]byte(`{"op":"deleteRange"}`))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = DecodeCommand([]byte(`{not json`))
	assert.Error(t, err)
}

func TestParseInlineHTML(t *testing.T) {
	e := New(model.DefaultSchema())

	nodes, err := e.ParseInlineHTML(`<p>Led <strong>a team</strong> of <em>five</em> at <a href="https://acme.io">Acme</a></p>`)
	require.NoError(t, err)
	assert.Equal(t, []model.Node{
		model.NewText("Led "),
		model.NewText("a team", bold()),
		model.NewText(" of "),
		model.NewText("five", italic()),
		model.NewText(" at "),
		model.NewText("Acme", model.Mark{Type: model.MarkLink, Attrs: map[string]any{"href": "https://acme.io"}}),
	}, nodes)
}

func TestParseInlineHTML_NestedMarksAreCanonical(t *testing.T) {
	e := New(model.DefaultSchema())

	nodes, err := e.ParseInlineHTML(`<em><b>both</b></em>`)
	require.NoError(t, err)
	assert.Equal(t, []model.Node{model.NewText("both", bold(), italic())}, nodes)
}

func TestParseInlineHTML_BlocksAndScripts(t *testing.T) {
	e := New(model.DefaultSchema())

	nodes, err := e.ParseInlineHTML("<p>One</p>\n<p>Two</p><script>alert(1)</script>")
	require.NoError(t, err)
	assert.Equal(t, []model.Node{model.NewText("One Two")}, nodes)
}
