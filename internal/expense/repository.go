package expense

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/divvyup/divvy/internal/expense/split"
)

// Repository handles expense data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts an expense and its participant shares in one transaction
func (r *Repository) Create(ctx context.Context, e *Expense, shares []split.Share) (*Expense, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO expenses (project_id, payer_id, description, category, amount, currency, split_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err = tx.QueryRowContext(ctx, query,
		e.ProjectID, e.PayerID, e.Description, e.Category, e.Amount, e.Currency, e.SplitType,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	shareQuery := `
		INSERT INTO expense_shares (expense_id, member_id, amount, position)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	for i, s := range shares {
		share := &Share{ExpenseID: e.ID, MemberID: s.MemberID, Amount: s.Amount}
		if err := tx.QueryRowContext(ctx, shareQuery, e.ID, s.MemberID, s.Amount, i).Scan(&share.ID); err != nil {
			return nil, fmt.Errorf("failed to create expense share: %w", err)
		}
		e.Shares = append(e.Shares, share)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense: %w", err)
	}

	return e, nil
}

// GetByID retrieves a live expense with its shares
func (r *Repository) GetByID(ctx context.Context, id int64) (*Expense, error) {
	query := `
		SELECT e.id, e.project_id, e.payer_id, e.description, e.category,
		       e.amount, e.currency, e.split_type, e.created_at, m.name
		FROM expenses e
		JOIN members m ON e.payer_id = m.id
		WHERE e.id = $1 AND e.deleted_at IS NULL
	`

	e := &Expense{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID,
		&e.ProjectID,
		&e.PayerID,
		&e.Description,
		&e.Category,
		&e.Amount,
		&e.Currency,
		&e.SplitType,
		&e.CreatedAt,
		&e.PayerName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := r.loadShares(ctx, []*Expense{e}); err != nil {
		return nil, err
	}

	return e, nil
}

// ListByProject retrieves all live expenses of a project with their shares,
// oldest first. Soft-deleted expenses never reach the balance engine.
func (r *Repository) ListByProject(ctx context.Context, projectID int64) ([]*Expense, error) {
	query := `
		SELECT e.id, e.project_id, e.payer_id, e.description, e.category,
		       e.amount, e.currency, e.split_type, e.created_at, m.name
		FROM expenses e
		JOIN members m ON e.payer_id = m.id
		WHERE e.project_id = $1 AND e.deleted_at IS NULL
		ORDER BY e.created_at, e.id
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		e := &Expense{}
		if err := rows.Scan(
			&e.ID, &e.ProjectID, &e.PayerID, &e.Description, &e.Category,
			&e.Amount, &e.Currency, &e.SplitType, &e.CreatedAt, &e.PayerName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	if err := r.loadShares(ctx, expenses); err != nil {
		return nil, err
	}

	return expenses, nil
}

// loadShares attaches shares to the given expenses, in stored position order
func (r *Repository) loadShares(ctx context.Context, expenses []*Expense) error {
	if len(expenses) == 0 {
		return nil
	}

	byID := make(map[int64]*Expense, len(expenses))
	ids := make([]int64, len(expenses))
	for i, e := range expenses {
		byID[e.ID] = e
		ids[i] = e.ID
	}

	query := `
		SELECT s.id, s.expense_id, s.member_id, s.amount, m.name
		FROM expense_shares s
		JOIN members m ON s.member_id = m.id
		WHERE s.expense_id = ANY($1)
		ORDER BY s.expense_id, s.position
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load expense shares: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		s := &Share{}
		if err := rows.Scan(&s.ID, &s.ExpenseID, &s.MemberID, &s.Amount, &s.MemberName); err != nil {
			return fmt.Errorf("failed to scan expense share: %w", err)
		}
		if e, ok := byID[s.ExpenseID]; ok {
			e.Shares = append(e.Shares, s)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expense shares: %w", err)
	}

	return nil
}

// Update modifies an expense's descriptive fields
func (r *Repository) Update(ctx context.Context, id int64, req *UpdateExpenseRequest) (*Expense, error) {
	query := `
		UPDATE expenses
		SET description = COALESCE($2, description),
		    category = COALESCE($3, category)
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING id
	`

	var updated int64
	err := r.db.QueryRowContext(ctx, query, id, req.Description, req.Category).Scan(&updated)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	return r.GetByID(ctx, id)
}

// SoftDelete marks an expense as deleted; balances recompute without it
func (r *Repository) SoftDelete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE expenses SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete expense: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check delete result: %w", err)
	}

	return affected > 0, nil
}
