package model

// Node and mark type names of the resume vocabulary.
const (
	TypePersonalInfo  = "personalInfo"
	TypeSummary       = "summary"
	TypeExperience    = "experience"
	TypeProject       = "project"
	TypeEducation     = "education"
	TypeSkills        = "skills"
	TypeCustomSection = "customSection"
	TypeHeading       = "heading"
	TypeParagraph     = "paragraph"
	TypeText          = "text"

	MarkBold      = "bold"
	MarkItalic    = "italic"
	MarkUnderline = "underline"
	MarkHighlight = "highlight"
	MarkLink      = "link"
)

func optional(def any) AttrSpec { return AttrSpec{Default: def} }

// DefaultSchema returns the resume schema. Mark registration order is the
// canonical mark order: bold, italic, underline, highlight, link.
func DefaultSchema() *Schema {
	s := NewSchema()

	s.RegisterNodeType(TypePersonalInfo, NodeSpec{
		Group: GroupBlock,
		Attrs: map[string]AttrSpec{
			"name":     optional(""),
			"title":    optional(""),
			"location": optional(""),
			"email":    optional(""),
			"phone":    optional(""),
		},
		DefaultAttrs: map[string]any{
			"name":     "Your Name",
			"title":    "Product Designer",
			"location": "San Francisco, CA",
			"email":    "hello@example.com",
			"phone":    "+1 (555) 123-4567",
		},
	})
	s.RegisterNodeType(TypeSummary, NodeSpec{
		Group:       GroupBlock,
		Content:     ContentInline,
		Placeholder: "Write a short professional summary.",
	})
	s.RegisterNodeType(TypeExperience, NodeSpec{
		Group:   GroupBlock,
		Content: ContentInline,
		Attrs: map[string]AttrSpec{
			"company": optional(""),
			"role":    optional(""),
			"dates":   optional(""),
		},
		DefaultAttrs: map[string]any{
			"company": "Company",
			"role":    "Role",
			"dates":   "2022 – Present",
		},
		Placeholder: "Describe your impact.",
	})
	s.RegisterNodeType(TypeProject, NodeSpec{
		Group:   GroupBlock,
		Content: ContentInline,
		Attrs: map[string]AttrSpec{
			"name": optional(""),
			"url":  optional(""),
		},
		DefaultAttrs: map[string]any{
			"name": "Project name",
			"url":  "https://example.com",
		},
		Placeholder: "What did you build and why does it matter?",
	})
	s.RegisterNodeType(TypeEducation, NodeSpec{
		Group:   GroupBlock,
		Content: ContentInline,
		Attrs: map[string]AttrSpec{
			"school": optional(""),
			"degree": optional(""),
			"dates":  optional(""),
		},
		DefaultAttrs: map[string]any{
			"school": "University",
			"degree": "Degree",
			"dates":  "2018 – 2022",
		},
	})
	s.RegisterNodeType(TypeSkills, NodeSpec{
		Group: GroupBlock,
		Attrs: map[string]AttrSpec{
			"items": optional([]string{}),
		},
		DefaultAttrs: map[string]any{
			"items": []string{"Communication", "Leadership"},
		},
	})
	s.RegisterNodeType(TypeCustomSection, NodeSpec{
		Group:   GroupBlock,
		Content: ContentInline,
		Attrs: map[string]AttrSpec{
			"title": optional(""),
		},
		DefaultAttrs: map[string]any{
			"title": "Section title",
		},
	})
	s.RegisterNodeType(TypeHeading, NodeSpec{
		Group:   GroupBlock,
		Content: ContentInline,
		Attrs: map[string]AttrSpec{
			"level": optional(2),
		},
	})
	s.RegisterNodeType(TypeParagraph, NodeSpec{
		Group:   GroupBlock,
		Content: ContentInline,
	})

	s.RegisterMarkType(MarkBold, MarkSpec{})
	s.RegisterMarkType(MarkItalic, MarkSpec{})
	s.RegisterMarkType(MarkUnderline, MarkSpec{})
	s.RegisterMarkType(MarkHighlight, MarkSpec{Attrs: map[string]AttrSpec{"color": optional("")}})
	s.RegisterMarkType(MarkLink, MarkSpec{Attrs: map[string]AttrSpec{"href": {Required: true}}})

	return s
}
