package project

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/divvyup/divvy/internal/exchange"
)

// Common errors
var (
	ErrProjectNotFound   = errors.New("project not found")
	ErrUnknownCurrency   = errors.New("unknown currency code")
	ErrInvalidPrecision  = errors.New("precision must be between 0 and 8")
	ErrInvalidRate       = errors.New("rate must be positive")
	ErrMemberNotOnRoster = errors.New("member is not on the project roster")
	ErrOverrideNotFound  = errors.New("no rate override for this currency")
	ErrSameAsSettlement  = errors.New("cannot override the settlement currency's own rate")
)

const maxPrecision = 8

// Service handles project business logic
type Service struct {
	repo  *Repository
	rates *exchange.Provider
	log   zerolog.Logger
}

// NewService creates a new project service
func NewService(repo *Repository, rates *exchange.Provider, log zerolog.Logger) *Service {
	return &Service{
		repo:  repo,
		rates: rates,
		log:   log.With().Str("component", "project").Logger(),
	}
}

// normalizeCurrency upper-cases and validates an ISO-4217 code.
func normalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if gomoney.GetCurrency(code) == nil {
		return "", ErrUnknownCurrency
	}
	return code, nil
}

// Create creates a project. When no precision is given it defaults to the
// settlement currency's fraction digits (0 for JPY, 2 for most).
func (s *Service) Create(ctx context.Context, req *CreateProjectRequest) (*Project, error) {
	currency, err := normalizeCurrency(req.SettlementCurrency)
	if err != nil {
		return nil, err
	}

	var precision int32
	if req.Precision != nil {
		precision = *req.Precision
		if precision < 0 || precision > maxPrecision {
			return nil, ErrInvalidPrecision
		}
	} else {
		precision = int32(gomoney.GetCurrency(currency).Fraction)
	}

	p, err := s.repo.Create(ctx, req.Name, req.Description, currency, precision)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("project_id", p.ID).Str("currency", currency).Int32("precision", precision).Msg("project created")
	return p, nil
}

// GetByID retrieves a project by id
func (s *Service) GetByID(ctx context.Context, id int64) (*Project, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProjectNotFound
	}
	return p, nil
}

// List retrieves a page of projects
func (s *Service) List(ctx context.Context, page, perPage int) ([]*Project, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.List(ctx, perPage, offset)
}

// Update modifies a project
func (s *Service) Update(ctx context.Context, id int64, req *UpdateProjectRequest) (*Project, error) {
	if req.Precision != nil && (*req.Precision < 0 || *req.Precision > maxPrecision) {
		return nil, ErrInvalidPrecision
	}

	p, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProjectNotFound
	}
	return p, nil
}

// Delete soft-deletes a project
func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrProjectNotFound
	}
	return nil
}

// AddMember adds a member to the roster
func (s *Service) AddMember(ctx context.Context, projectID int64, req *AddMemberRequest) (*Member, error) {
	if _, err := s.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.repo.AddMember(ctx, projectID, req.MemberID)
}

// RemoveMember removes a member from the roster
func (s *Service) RemoveMember(ctx context.Context, projectID, memberID int64) error {
	removed, err := s.repo.RemoveMember(ctx, projectID, memberID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrMemberNotOnRoster
	}
	return nil
}

// GetMembers retrieves the project roster
func (s *Service) GetMembers(ctx context.Context, projectID int64) ([]*Member, error) {
	if _, err := s.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.repo.GetMembers(ctx, projectID)
}

// SetRate sets a custom exchange rate from a foreign currency into the
// project's settlement currency, overriding the market table.
func (s *Service) SetRate(ctx context.Context, projectID int64, currency string, rate float64) (*RateOverride, error) {
	p, err := s.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	code, err := normalizeCurrency(currency)
	if err != nil {
		return nil, err
	}
	if code == p.SettlementCurrency {
		return nil, ErrSameAsSettlement
	}
	if rate <= 0 {
		return nil, ErrInvalidRate
	}

	o, err := s.repo.UpsertRate(ctx, projectID, code, decimal.NewFromFloat(rate))
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("project_id", projectID).Str("currency", code).Str("rate", o.Rate.String()).Msg("rate override set")
	return o, nil
}

// DeleteRate removes a custom rate override
func (s *Service) DeleteRate(ctx context.Context, projectID int64, currency string) error {
	code, err := normalizeCurrency(currency)
	if err != nil {
		return err
	}

	deleted, err := s.repo.DeleteRate(ctx, projectID, code)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrOverrideNotFound
	}
	return nil
}

// GetRates retrieves the project's custom rate overrides
func (s *Service) GetRates(ctx context.Context, projectID int64) (map[string]decimal.Decimal, error) {
	if _, err := s.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.repo.GetRates(ctx, projectID)
}

// RatesView assembles the rates a project cares about: every currency its
// expenses use plus every override, each with the effective market rate into
// the settlement currency and a ready-to-render display line.
func (s *Service) RatesView(ctx context.Context, projectID int64) (*RatesResponse, error) {
	p, err := s.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	overrides, err := s.repo.GetRates(ctx, projectID)
	if err != nil {
		return nil, err
	}
	used, err := s.repo.GetUsedCurrencies(ctx, projectID)
	if err != nil {
		return nil, err
	}

	codes := make(map[string]struct{})
	for _, c := range used {
		if c != p.SettlementCurrency {
			codes[c] = struct{}{}
		}
	}
	for c := range overrides {
		codes[c] = struct{}{}
	}

	ordered := make([]string, 0, len(codes))
	for c := range codes {
		ordered = append(ordered, c)
	}
	sort.Strings(ordered)

	table := s.rates.Snapshot(ctx)
	resp := &RatesResponse{
		SettlementCurrency: p.SettlementCurrency,
		UsingFallback:      table.UsingFallback,
		Rates:              make([]RateResponse, 0, len(ordered)),
	}
	if !table.Date.IsZero() {
		resp.RateDate = table.Date.Format("2006-01-02")
	}

	for _, code := range ordered {
		market := exchange.Rate(code, p.SettlementCurrency, table)
		effective := market
		row := RateResponse{
			Currency:   code,
			MarketRate: market.InexactFloat64(),
		}
		if o, ok := overrides[code]; ok {
			v := o.InexactFloat64()
			row.OverrideRate = &v
			effective = o
		}
		row.Display = fmt.Sprintf("1 %s = %s %s", code, effective.StringFixed(p.Precision), p.SettlementCurrency)
		resp.Rates = append(resp.Rates, row)
	}

	return resp, nil
}
