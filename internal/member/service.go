package member

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// Common errors
var (
	ErrMemberNotFound    = errors.New("member not found")
	ErrEmailAlreadyInUse = errors.New("email already in use")
)

// Service handles member business logic
type Service struct {
	repo *Repository
	log  zerolog.Logger
}

// NewService creates a new member service
func NewService(repo *Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log.With().Str("component", "member").Logger()}
}

// Create creates a new member after checking email uniqueness
func (s *Service) Create(ctx context.Context, req *CreateMemberRequest) (*Member, error) {
	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyInUse
	}

	m, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("member_id", m.ID).Msg("member created")
	return m, nil
}

// GetByID retrieves a member by id
func (s *Service) GetByID(ctx context.Context, id int64) (*Member, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMemberNotFound
	}
	return m, nil
}

// List retrieves a page of members
func (s *Service) List(ctx context.Context, page, perPage int) ([]*Member, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.List(ctx, perPage, offset)
}

// Update modifies a member
func (s *Service) Update(ctx context.Context, id int64, req *UpdateMemberRequest) (*Member, error) {
	m, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMemberNotFound
	}
	return m, nil
}

// Delete soft-deletes a member; their past expenses stay in the ledger
func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrMemberNotFound
	}

	s.log.Info().Int64("member_id", id).Msg("member deleted")
	return nil
}
