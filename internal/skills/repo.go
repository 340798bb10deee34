package skills

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saisrinu135/cleverhire/internal/model"
)

// Repo reads and extends the skills table.
type Repo struct {
	pool *pgxpool.Pool
}

// NewRepo returns a Repo backed by pool.
func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// LoadAll fetches every catalog entry.
func (r *Repo) LoadAll(ctx context.Context) ([]model.Skill, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, category, COALESCE(aliases, '{}'), created_at, updated_at
		 FROM skills`,
	)
	if err != nil {
		return nil, fmt.Errorf("query skills: %w", err)
	}
	defer rows.Close()

	var out []model.Skill
	for rows.Next() {
		var s model.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.Aliases, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Create inserts a verbatim catalog entry for an unmatched mention. Used only
// in catalog-extension mode; the unique constraint on name makes it safe to
// race — the existing row's id is returned on conflict.
func (r *Repo) Create(ctx context.Context, name, category string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("skill name is empty")
	}

	id := uuid.NewString()
	err := r.pool.QueryRow(ctx,
		`WITH ins AS (
		   INSERT INTO skills (id, name, category, aliases)
		   VALUES ($1, $2, $3, '{}')
		   ON CONFLICT (name) DO NOTHING
		   RETURNING id
		 )
		 SELECT id FROM ins
		 UNION ALL
		 SELECT id FROM skills WHERE name = $2
		 LIMIT 1`,
		id, name, category,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("create skill %q: %w", name, err)
	}
	return id, nil
}
