package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() *Document {
	return NewDocument(
		Node{Type: TypePersonalInfo, Attrs: map[string]any{"name": "Ada", "email": "ada@example.com"}},
		Node{Type: TypeSummary, Content: []Node{
			NewText("Builds "),
			NewText("compilers", Mark{Type: MarkBold}),
		}},
		Node{Type: TypeExperience, Attrs: map[string]any{"company": "Acme", "role": "Engineer"}, Content: []Node{NewText("Shipped things.")}},
		Node{Type: TypeSkills, Attrs: map[string]any{"items": []string{"Go", "Rust"}}},
		Node{Type: TypeHeading, Attrs: map[string]any{"level": 1}, Content: []Node{NewText("Projects")}},
	)
}

func TestValidate_ValidDocument(t *testing.T) {
	res := DefaultSchema().Validate(sampleDocument())
	assert.True(t, res.Valid, "%+v", res.Errors)
	assert.NoError(t, res.Err())
}

func TestValidate_EmptyDocumentIsValid(t *testing.T) {
	assert.True(t, DefaultSchema().Validate(NewDocument()).Valid)
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		doc    *Document
		path   string
		reason string
	}{
		{
			name:   "unregistered type",
			doc:    NewDocument(Node{Type: "video"}),
			path:   "content.0",
			reason: `unknown node type "video"`,
		},
		{
			name:   "atomic node with content",
			doc:    NewDocument(Node{Type: TypeSkills, Content: []Node{NewText("x")}}),
			path:   "content.0",
			reason: `atomic node "skills" must not have content`,
		},
		{
			name: "block inside inline content",
			doc: NewDocument(Node{Type: TypeSummary, Content: []Node{
				{Type: TypeParagraph},
			}}),
			path:   "content.0.content.0",
			reason: `block node "paragraph" not allowed in inline content of "summary"`,
		},
		{
			name:   "text at document level",
			doc:    NewDocument(NewText("loose")),
			path:   "content.0",
			reason: `inline node "text" not allowed at document level`,
		},
		{
			name: "link without href",
			doc: NewDocument(Node{Type: TypeParagraph, Content: []Node{
				NewText("site", Mark{Type: MarkLink}),
			}}),
			path:   "content.0.content.0.marks.0",
			reason: `"link" is missing required attribute "href"`,
		},
		{
			name: "unknown mark",
			doc: NewDocument(Node{Type: TypeParagraph, Content: []Node{
				NewText("x", Mark{Type: "blink"}),
			}}),
			path:   "content.0.content.0.marks.0",
			reason: `unknown mark type "blink"`,
		},
		{
			name:   "marks on a block",
			doc:    NewDocument(Node{Type: TypeParagraph, Marks: []Mark{{Type: MarkBold}}}),
			path:   "content.0",
			reason: `marks are only allowed on text, found on "paragraph"`,
		},
		{
			name:   "wrong root",
			doc:    &Document{Type: "page"},
			path:   "",
			reason: `root type must be "doc", got "page"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := DefaultSchema().Validate(tt.doc)
			require.False(t, res.Valid)
			require.NotEmpty(t, res.Errors)
			assert.Equal(t, tt.path, res.Errors[0].Path)
			assert.Equal(t, tt.reason, res.Errors[0].Reason)

			err := res.Err()
			assert.ErrorIs(t, err, ErrInvalidDocument)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Len(t, ve.Issues, len(res.Errors))
		})
	}
}

func TestValidate_BlockContainerRequiresChildren(t *testing.T) {
	s := DefaultSchema()
	s.RegisterNodeType("column", NodeSpec{Group: GroupBlock, Content: ContentBlock})

	res := s.Validate(NewDocument(Node{Type: "column"}))
	require.False(t, res.Valid)
	assert.Equal(t, `"column" requires at least one block child`, res.Errors[0].Reason)

	res = s.Validate(NewDocument(Node{Type: "column", Content: []Node{{Type: TypeParagraph}}}))
	assert.True(t, res.Valid)
}

func TestValidate_RequiredAttribute(t *testing.T) {
	s := DefaultSchema()
	s.RegisterNodeType("badge", NodeSpec{Group: GroupBlock, Attrs: map[string]AttrSpec{"label": {Required: true}}})

	res := s.Validate(NewDocument(Node{Type: "badge"}))
	require.False(t, res.Valid)
	assert.Equal(t, `"badge" is missing required attribute "label"`, res.Errors[0].Reason)

	res = s.Validate(NewDocument(Node{Type: "badge", Attrs: map[string]any{"label": "new"}}))
	assert.True(t, res.Valid)
}

func TestValidate_UnknownAttributesArePreserved(t *testing.T) {
	doc := NewDocument(Node{Type: TypeExperience, Attrs: map[string]any{"company": "Acme", "team": "Platform"}})
	assert.True(t, DefaultSchema().Validate(doc).Valid)
	assert.Equal(t, "Platform", doc.Content[0].Attrs["team"])
}

func TestNewNode_FillsDefaults(t *testing.T) {
	s := DefaultSchema()

	n, err := s.NewNode(TypePersonalInfo)
	require.NoError(t, err)
	assert.Equal(t, "Product Designer", n.Attrs["title"])

	n, err = s.NewNode(TypeHeading)
	require.NoError(t, err)
	assert.Equal(t, float64(2), n.Attrs["level"])

	n, err = s.NewNode(TypeSummary)
	require.NoError(t, err)
	require.Len(t, n.Content, 1)
	assert.Equal(t, "Write a short professional summary.", n.Content[0].Text)

	_, err = s.NewNode("video")
	assert.Error(t, err)
}

func TestNewNode_DoesNotShareDefaults(t *testing.T) {
	s := DefaultSchema()
	a, _ := s.NewNode(TypeSkills)
	b, _ := s.NewNode(TypeSkills)
	a.Attrs["items"].([]any)[0] = "changed"
	assert.Equal(t, "Communication", b.Attrs["items"].([]any)[0])
}

func TestClone_IsDeep(t *testing.T) {
	doc := sampleDocument()
	cp := doc.Clone()
	require.Equal(t, doc, cp)

	cp.Content[1].Content[1].Marks[0].Type = MarkItalic
	cp.Content[3].Attrs["items"].([]string)[0] = "Zig"
	cp.Content[0].Attrs["name"] = "Grace"

	assert.Equal(t, MarkBold, doc.Content[1].Content[1].Marks[0].Type)
	assert.Equal(t, "Go", doc.Content[3].Attrs["items"].([]string)[0])
	assert.Equal(t, "Ada", doc.Content[0].Attrs["name"])
}

func TestAt(t *testing.T) {
	doc := sampleDocument()
	assert.Equal(t, "compilers", doc.At([]int{1, 1}).Text)
	assert.Nil(t, doc.At([]int{9}))
	assert.Nil(t, doc.At([]int{1, 5}))
	assert.Nil(t, doc.At(nil))
}

func TestValidateJSON(t *testing.T) {
	raw, err := json.Marshal(sampleDocument())
	require.NoError(t, err)
	assert.NoError(t, ValidateJSON(raw))

	err = ValidateJSON([]byte(`{"type":"doc","content":[{"attrs":{}}]}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDocument)

	err = ValidateJSON([]byte(`{"type":"page","content":[]}`))
	assert.ErrorIs(t, err, ErrInvalidDocument)

	err = ValidateJSON([]byte(`{not json`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidDocument)
}

func TestDocumentScanValue(t *testing.T) {
	doc := sampleDocument()
	v, err := doc.Value()
	require.NoError(t, err)

	var back Document
	require.NoError(t, back.Scan(v))
	assert.Equal(t, "doc", back.Type)
	assert.Len(t, back.Content, len(doc.Content))

	var empty Document
	require.NoError(t, empty.Scan(nil))
	assert.Equal(t, DocType, empty.Type)
	assert.Error(t, empty.Scan(42))
}

func TestResumeDocument(t *testing.T) {
	r := Resume{
		Meta:       Meta{Name: "Ada", Headline: "Engineer", Contact: map[string]string{"email": "ada@example.com"}},
		Summary:    "Builds compilers.",
		Experience: []Role{{Company: "Acme", Title: "Engineer", Period: "2020 – 2024", Summary: "Led the runtime team."}},
		Projects:   []Project{{Title: "Lovelace", URL: "https://github.com/ada/lovelace", Description: "A toy language."}},
		Education:  []School{{Name: "Cambridge", Degree: "BSc"}},
		Skills:     []string{"Go", "Rust"},
	}
	doc := r.Document()
	require.True(t, DefaultSchema().Validate(doc).Valid)

	types := make([]string, 0, len(doc.Content))
	for _, n := range doc.Content {
		types = append(types, n.Type)
	}
	assert.Equal(t, []string{TypePersonalInfo, TypeSummary, TypeExperience, TypeProject, TypeEducation, TypeSkills}, types)
	assert.Equal(t, "ada@example.com", doc.Content[0].Attrs["email"])
	assert.Empty(t, doc.Content[4].Content)
	assert.Equal(t, []any{"Go", "Rust"}, doc.Content[5].Attrs["items"])
}

func TestJSONValue(t *testing.T) {
	assert.Equal(t, float64(3), JSONValue(3))
	assert.Equal(t, float64(7), JSONValue(int64(7)))
	assert.Equal(t, []any{"Go", "Rust"}, JSONValue([]string{"Go", "Rust"}))
	assert.Equal(t, []any{float64(1), "x"}, JSONValue([]any{1, "x"}))
	assert.Equal(t, map[string]any{"a": "b"}, JSONValue(map[string]string{"a": "b"}))
	assert.Nil(t, JSONValue(nil))
}

func TestJSONNative_MatchesDecodedCopy(t *testing.T) {
	doc := sampleDocument()
	doc.JSONNative()

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	var back Document
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, doc, &back)
}

func TestMarshalJSON_NilContentIsEmptyArray(t *testing.T) {
	raw, err := json.Marshal(&Document{Type: DocType})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"doc","content":[]}`, string(raw))
	assert.NoError(t, ValidateJSON(raw))

	raw, err = json.Marshal(Document{Type: DocType})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"doc","content":[]}`, string(raw))
}
