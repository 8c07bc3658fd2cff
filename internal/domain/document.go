package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"resume-builder/internal/model"
)

// ErrNotFound is returned by stores for unknown ids.
var ErrNotFound = errors.New("document not found")

// StoredDocument is the persisted record of one resume. Its id is the
// storage key; every save overwrites the previous state.
type StoredDocument struct {
	ID        uuid.UUID       `json:"id"`
	OwnerID   uuid.UUID       `json:"owner_id"`
	Title     string          `json:"title"`
	ThemeID   string          `json:"theme_id"`
	Content   *model.Document `json:"content"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewStoredDocument returns a fresh record with a new id.
func NewStoredDocument(owner uuid.UUID, title, themeID string, content *model.Document) *StoredDocument {
	now := time.Now().UTC()
	if content == nil {
		content = model.NewDocument()
	}
	if title == "" {
		title = "Resume"
	}
	return &StoredDocument{
		ID:        uuid.New(),
		OwnerID:   owner,
		Title:     title,
		ThemeID:   themeID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TitleFrom picks a display title: the personal info name when present,
// otherwise fallback.
func TitleFrom(doc *model.Document, fallback string) string {
	if doc != nil {
		for _, n := range doc.Content {
			if n.Type == model.TypePersonalInfo {
				if name := model.AttrString(n.Attrs, "name"); name != "" {
					return name
				}
			}
		}
	}
	if fallback == "" {
		return "Resume"
	}
	return fallback
}
