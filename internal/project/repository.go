package project

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

// Repository handles project data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new project repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new project
func (r *Repository) Create(ctx context.Context, name string, description *string, currency string, precision int32) (*Project, error) {
	query := `
		INSERT INTO projects (name, description, settlement_currency, precision)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, description, settlement_currency, precision, created_at
	`

	p := &Project{}
	err := r.db.QueryRowContext(ctx, query, name, description, currency, precision).Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.SettlementCurrency,
		&p.Precision,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return p, nil
}

// GetByID retrieves a live project by id
func (r *Repository) GetByID(ctx context.Context, id int64) (*Project, error) {
	query := `
		SELECT id, name, description, settlement_currency, precision, created_at
		FROM projects
		WHERE id = $1 AND deleted_at IS NULL
	`

	p := &Project{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.SettlementCurrency,
		&p.Precision,
		&p.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return p, nil
}

// List retrieves a page of live projects
func (r *Repository) List(ctx context.Context, limit, offset int) ([]*Project, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM projects WHERE deleted_at IS NULL`
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	query := `
		SELECT id, name, description, settlement_currency, precision, created_at
		FROM projects
		WHERE deleted_at IS NULL
		ORDER BY id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		p := &Project{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.SettlementCurrency, &p.Precision, &p.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate projects: %w", err)
	}

	return projects, total, nil
}

// Update modifies a project's mutable fields
func (r *Repository) Update(ctx context.Context, id int64, req *UpdateProjectRequest) (*Project, error) {
	query := `
		UPDATE projects
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    precision = COALESCE($4, precision)
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING id, name, description, settlement_currency, precision, created_at
	`

	p := &Project{}
	err := r.db.QueryRowContext(ctx, query, id, req.Name, req.Description, req.Precision).Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.SettlementCurrency,
		&p.Precision,
		&p.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return p, nil
}

// SoftDelete marks a project as deleted
func (r *Repository) SoftDelete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE projects SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete project: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check delete result: %w", err)
	}

	return affected > 0, nil
}

// AddMember adds a member to the project roster
func (r *Repository) AddMember(ctx context.Context, projectID, memberID int64) (*Member, error) {
	query := `
		INSERT INTO project_members (project_id, member_id)
		VALUES ($1, $2)
		RETURNING project_id, member_id, joined_at
	`

	m := &Member{}
	err := r.db.QueryRowContext(ctx, query, projectID, memberID).Scan(
		&m.ProjectID,
		&m.MemberID,
		&m.JoinedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add project member: %w", err)
	}

	return m, nil
}

// RemoveMember removes a member from the project roster
func (r *Repository) RemoveMember(ctx context.Context, projectID, memberID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM project_members
		WHERE project_id = $1 AND member_id = $2
	`, projectID, memberID)
	if err != nil {
		return false, fmt.Errorf("failed to remove project member: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check remove result: %w", err)
	}

	return affected > 0, nil
}

// GetMembers retrieves the project roster joined with member names, in
// roster-join order. The order is stable on purpose: downstream balance and
// settlement output must be reproducible.
func (r *Repository) GetMembers(ctx context.Context, projectID int64) ([]*Member, error) {
	query := `
		SELECT pm.project_id, pm.member_id, m.name, pm.joined_at
		FROM project_members pm
		JOIN members m ON pm.member_id = m.id
		WHERE pm.project_id = $1
		ORDER BY pm.joined_at, pm.member_id
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project members: %w", err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m := &Member{}
		if err := rows.Scan(&m.ProjectID, &m.MemberID, &m.Name, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate project members: %w", err)
	}

	return members, nil
}

// IsMember reports whether a member is on the project roster
func (r *Repository) IsMember(ctx context.Context, projectID, memberID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM project_members
			WHERE project_id = $1 AND member_id = $2
		)
	`, projectID, memberID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check project membership: %w", err)
	}
	return exists, nil
}

// UpsertRate sets or replaces a custom rate override for a currency
func (r *Repository) UpsertRate(ctx context.Context, projectID int64, currency string, rate decimal.Decimal) (*RateOverride, error) {
	query := `
		INSERT INTO project_rates (project_id, currency, rate, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (project_id, currency)
		DO UPDATE SET rate = EXCLUDED.rate, updated_at = NOW()
		RETURNING project_id, currency, rate, updated_at
	`

	o := &RateOverride{}
	err := r.db.QueryRowContext(ctx, query, projectID, currency, rate).Scan(
		&o.ProjectID,
		&o.Currency,
		&o.Rate,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set rate override: %w", err)
	}

	return o, nil
}

// DeleteRate removes a custom rate override
func (r *Repository) DeleteRate(ctx context.Context, projectID int64, currency string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM project_rates
		WHERE project_id = $1 AND currency = $2
	`, projectID, currency)
	if err != nil {
		return false, fmt.Errorf("failed to delete rate override: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rate delete result: %w", err)
	}

	return affected > 0, nil
}

// GetUsedCurrencies lists the distinct currencies of a project's live
// expenses, for the rates view.
func (r *Repository) GetUsedCurrencies(ctx context.Context, projectID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT currency
		FROM expenses
		WHERE project_id = $1 AND deleted_at IS NULL
		ORDER BY currency
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get used currencies: %w", err)
	}
	defer rows.Close()

	var currencies []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan currency: %w", err)
		}
		currencies = append(currencies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate currencies: %w", err)
	}

	return currencies, nil
}

// GetRates retrieves all custom rate overrides for a project
func (r *Repository) GetRates(ctx context.Context, projectID int64) (map[string]decimal.Decimal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT currency, rate
		FROM project_rates
		WHERE project_id = $1
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate overrides: %w", err)
	}
	defer rows.Close()

	overrides := make(map[string]decimal.Decimal)
	for rows.Next() {
		var currency string
		var rate decimal.Decimal
		if err := rows.Scan(&currency, &rate); err != nil {
			return nil, fmt.Errorf("failed to scan rate override: %w", err)
		}
		overrides[currency] = rate
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rate overrides: %w", err)
	}

	return overrides, nil
}
