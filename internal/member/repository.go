package member

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles member data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new member repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new member into the database
func (r *Repository) Create(ctx context.Context, req *CreateMemberRequest) (*Member, error) {
	query := `
		INSERT INTO members (name, email, avatar_url)
		VALUES ($1, $2, $3)
		RETURNING id, name, email, avatar_url, created_at
	`

	m := &Member{}
	err := r.db.QueryRowContext(ctx, query, req.Name, req.Email, req.AvatarURL).Scan(
		&m.ID,
		&m.Name,
		&m.Email,
		&m.AvatarURL,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	return m, nil
}

// GetByID retrieves a live member by id
func (r *Repository) GetByID(ctx context.Context, id int64) (*Member, error) {
	query := `
		SELECT id, name, email, avatar_url, created_at
		FROM members
		WHERE id = $1 AND deleted_at IS NULL
	`

	m := &Member{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID,
		&m.Name,
		&m.Email,
		&m.AvatarURL,
		&m.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return m, nil
}

// GetByEmail retrieves a live member by email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Member, error) {
	query := `
		SELECT id, name, email, avatar_url, created_at
		FROM members
		WHERE email = $1 AND deleted_at IS NULL
	`

	m := &Member{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&m.ID,
		&m.Name,
		&m.Email,
		&m.AvatarURL,
		&m.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member by email: %w", err)
	}

	return m, nil
}

// List retrieves a page of live members
func (r *Repository) List(ctx context.Context, limit, offset int) ([]*Member, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM members WHERE deleted_at IS NULL`
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count members: %w", err)
	}

	query := `
		SELECT id, name, email, avatar_url, created_at
		FROM members
		WHERE deleted_at IS NULL
		ORDER BY id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m := &Member{}
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.AvatarURL, &m.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, total, nil
}

// Update modifies a member's mutable fields
func (r *Repository) Update(ctx context.Context, id int64, req *UpdateMemberRequest) (*Member, error) {
	query := `
		UPDATE members
		SET name = COALESCE($2, name),
		    avatar_url = COALESCE($3, avatar_url)
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING id, name, email, avatar_url, created_at
	`

	m := &Member{}
	err := r.db.QueryRowContext(ctx, query, id, req.Name, req.AvatarURL).Scan(
		&m.ID,
		&m.Name,
		&m.Email,
		&m.AvatarURL,
		&m.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update member: %w", err)
	}

	return m, nil
}

// SoftDelete marks a member as deleted without removing their expense history
func (r *Repository) SoftDelete(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE members
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete member: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check delete result: %w", err)
	}

	return affected > 0, nil
}
