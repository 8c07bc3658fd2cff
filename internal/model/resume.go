package model

type Meta struct {
	Name     string            `json:"name"`
	Headline string            `json:"headline"`
	Contact  map[string]string `json:"contact,omitempty"`
}

type Role struct {
	Company string `json:"company"`
	Title   string `json:"title"`
	Period  string `json:"period,omitempty"`
	Summary string `json:"summary,omitempty"`
}

type Project struct {
	Title       string `json:"title"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description"`
}

type School struct {
	Name   string `json:"name"`
	Degree string `json:"degree,omitempty"`
	Period string `json:"period,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

// Resume is a flat seed profile. New documents can be created from it
// instead of starting empty.
type Resume struct {
	Meta       Meta      `json:"meta"`
	Summary    string    `json:"summary"`
	Experience []Role    `json:"experience"`
	Projects   []Project `json:"projects"`
	Education  []School  `json:"education,omitempty"`
	Skills     []string  `json:"skills,omitempty"`
	Extras     string    `json:"extras,omitempty"`
}

// Document converts the profile into a document in reading order:
// personal info, summary, experience, projects, education, skills, extras.
func (r Resume) Document() *Document {
	doc := NewDocument()

	doc.Content = append(doc.Content, Node{
		Type: TypePersonalInfo,
		Attrs: map[string]any{
			"name":     r.Meta.Name,
			"title":    r.Meta.Headline,
			"location": r.Meta.Contact["location"],
			"email":    r.Meta.Contact["email"],
			"phone":    r.Meta.Contact["phone"],
		},
	})
	if r.Summary != "" {
		doc.Content = append(doc.Content, Node{Type: TypeSummary, Content: textContent(r.Summary)})
	}
	for _, role := range r.Experience {
		doc.Content = append(doc.Content, Node{
			Type:    TypeExperience,
			Attrs:   map[string]any{"company": role.Company, "role": role.Title, "dates": role.Period},
			Content: textContent(role.Summary),
		})
	}
	for _, p := range r.Projects {
		doc.Content = append(doc.Content, Node{
			Type:    TypeProject,
			Attrs:   map[string]any{"name": p.Title, "url": p.URL},
			Content: textContent(p.Description),
		})
	}
	for _, s := range r.Education {
		doc.Content = append(doc.Content, Node{
			Type:    TypeEducation,
			Attrs:   map[string]any{"school": s.Name, "degree": s.Degree, "dates": s.Period},
			Content: textContent(s.Notes),
		})
	}
	if len(r.Skills) > 0 {
		doc.Content = append(doc.Content, Node{
			Type:  TypeSkills,
			Attrs: map[string]any{"items": JSONValue(r.Skills)},
		})
	}
	if r.Extras != "" {
		doc.Content = append(doc.Content, Node{
			Type:    TypeCustomSection,
			Attrs:   map[string]any{"title": "Extras"},
			Content: textContent(r.Extras),
		})
	}
	return doc
}

func textContent(s string) []Node {
	if s == "" {
		return nil
	}
	return []Node{NewText(s)}
}
