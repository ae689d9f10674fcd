package expense

import (
	"context"
	"errors"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/divvyup/divvy/internal/expense/split"
	"github.com/divvyup/divvy/internal/project"
)

// Common errors
var (
	ErrExpenseNotFound     = errors.New("expense not found")
	ErrNegativeAmount      = errors.New("amount must not be negative")
	ErrUnknownCurrency     = errors.New("unknown currency code")
	ErrPayerNotParticipant = errors.New("payer must be one of the participants")
)

// Service handles expense business logic. Share allocation happens here, at
// creation time: the chosen split strategy turns the request's participant
// list into persisted per-member shares.
type Service struct {
	repo     *Repository
	projects *project.Repository
	factory  *split.Factory
	log      zerolog.Logger
}

// NewService creates a new expense service with the split factory injected
func NewService(repo *Repository, projects *project.Repository, factory *split.Factory, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		projects: projects,
		factory:  factory,
		log:      log.With().Str("component", "expense").Logger(),
	}
}

// Create validates the request at the boundary, allocates participant shares
// with the requested strategy and persists the expense. Amounts are kept in
// the expense's own currency; shares are allocated at the project's precision.
func (s *Service) Create(ctx context.Context, req *CreateExpenseRequest) (*Expense, error) {
	if req.Amount < 0 {
		return nil, ErrNegativeAmount
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if gomoney.GetCurrency(currency) == nil {
		return nil, ErrUnknownCurrency
	}

	p, err := s.projects.GetByID(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, project.ErrProjectNotFound
	}

	payerIncluded := false
	inputs := make([]split.Input, len(req.Participants))
	for i, participant := range req.Participants {
		inputs[i] = participant.ToSplitInput()
		if participant.MemberID == req.PayerID {
			payerIncluded = true
		}
	}
	if !payerIncluded {
		return nil, ErrPayerNotParticipant
	}

	strategy, err := s.factory.CreateFromString(req.SplitType)
	if err != nil {
		return nil, err
	}

	amount := decimal.NewFromFloat(req.Amount)
	shares, err := strategy.Allocate(amount, inputs, p.Precision)
	if err != nil {
		return nil, err
	}

	e := &Expense{
		ProjectID:   req.ProjectID,
		PayerID:     req.PayerID,
		Description: req.Description,
		Category:    req.Category,
		Amount:      amount,
		Currency:    currency,
		SplitType:   strategy.Type(),
	}

	created, err := s.repo.Create(ctx, e, shares)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("expense_id", created.ID).
		Int64("project_id", created.ProjectID).
		Str("amount", created.Amount.String()).
		Str("currency", created.Currency).
		Msg("expense created")

	return created, nil
}

// GetByID retrieves an expense by id
func (s *Service) GetByID(ctx context.Context, id int64) (*Expense, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrExpenseNotFound
	}
	return e, nil
}

// ListByProject retrieves all live expenses of a project
func (s *Service) ListByProject(ctx context.Context, projectID int64) ([]*Expense, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, project.ErrProjectNotFound
	}

	return s.repo.ListByProject(ctx, projectID)
}

// Update modifies an expense's descriptive fields
func (s *Service) Update(ctx context.Context, id int64, req *UpdateExpenseRequest) (*Expense, error) {
	e, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrExpenseNotFound
	}
	return e, nil
}

// Delete soft-deletes an expense so balances recompute without it
func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrExpenseNotFound
	}

	s.log.Info().Int64("expense_id", id).Msg("expense deleted")
	return nil
}
