package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// DocumentsRepo stores documents in Postgres. The document tree lives in a
// JSONB column.
type DocumentsRepo struct {
	pool *pgxpool.Pool
}

func NewDocumentsRepo(pool *pgxpool.Pool) *DocumentsRepo {
	return &DocumentsRepo{pool: pool}
}

func (r *DocumentsRepo) Save(ctx context.Context, d *domain.StoredDocument) error {
	content, err := json.Marshal(d.Content)
	if err != nil {
		return fmt.Errorf("encoding document %s: %w", d.ID, err)
	}

	_, err = r.pool.Exec(ctx, `INSERT INTO documents (id, owner_id, title, theme_id, content, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, theme_id = EXCLUDED.theme_id, content = EXCLUDED.content, updated_at = EXCLUDED.updated_at`,
		d.ID, d.OwnerID, d.Title, d.ThemeID, content, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving document %s: %w", d.ID, err)
	}
	return nil
}

func (r *DocumentsRepo) Get(ctx context.Context, id uuid.UUID) (*domain.StoredDocument, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, owner_id, title, theme_id, content, created_at, updated_at
		FROM documents WHERE id = $1`, id)
	d, err := scanDocument(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading document %s: %w", id, err)
	}
	return d, nil
}

func (r *DocumentsRepo) List(ctx context.Context, owner uuid.UUID) ([]*domain.StoredDocument, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, owner_id, title, theme_id, content, created_at, updated_at
		FROM documents WHERE owner_id = $1 ORDER BY updated_at DESC`, owner)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var out []*domain.StoredDocument
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("listing documents: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DocumentsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting document %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// scanDocument reads the JSONB column as raw bytes and decodes it, so a
// malformed row fails with a decode error instead of a driver error.
func scanDocument(row pgx.Row) (*domain.StoredDocument, error) {
	var d domain.StoredDocument
	var raw []byte
	if err := row.Scan(&d.ID, &d.OwnerID, &d.Title, &d.ThemeID, &raw, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.Content = model.NewDocument()
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, d.Content); err != nil {
			return nil, fmt.Errorf("decoding document %s: %w", d.ID, err)
		}
	}
	return &d, nil
}
