package settlement

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/divvyup/divvy/internal/balance"
	"github.com/divvyup/divvy/internal/exchange"
	"github.com/divvyup/divvy/internal/expense"
	"github.com/divvyup/divvy/internal/money"
	"github.com/divvyup/divvy/internal/project"
)

// Service computes the balance and settlement projections for a project.
// Nothing here is persisted: both views are recomputed from the live expense
// set on every request, so deleting or adding an expense is immediately
// reflected.
type Service struct {
	projects *project.Repository
	expenses *expense.Repository
	rates    *exchange.Provider
	log      zerolog.Logger
}

// NewService creates a new settlement service
func NewService(projects *project.Repository, expenses *expense.Repository, rates *exchange.Provider, log zerolog.Logger) *Service {
	return &Service{
		projects: projects,
		expenses: expenses,
		rates:    rates,
		log:      log.With().Str("component", "settlement").Logger(),
	}
}

// sheetContext is everything both projections need: the project, the
// computed balances and the display names involved.
type sheetContext struct {
	project  *project.Project
	table    exchange.Table
	balances map[int64]balance.MemberBalance
	order    []int64
	names    map[int64]string
}

func (s *Service) compute(ctx context.Context, projectID int64) (*sheetContext, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, project.ErrProjectNotFound
	}

	roster, err := s.projects.GetMembers(ctx, projectID)
	if err != nil {
		return nil, err
	}
	overrides, err := s.projects.GetRates(ctx, projectID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenses.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(roster))
	rosterIDs := make([]int64, len(roster))
	for i, m := range roster {
		rosterIDs[i] = m.MemberID
		names[m.MemberID] = m.Name
	}

	snapshot := make([]balance.Expense, len(expenses))
	for i, e := range expenses {
		shares := make([]balance.Share, len(e.Shares))
		for j, sh := range e.Shares {
			shares[j] = balance.Share{MemberID: sh.MemberID, Amount: sh.Amount}
			if _, ok := names[sh.MemberID]; !ok {
				names[sh.MemberID] = sh.MemberName
			}
		}
		if _, ok := names[e.PayerID]; !ok {
			names[e.PayerID] = e.PayerName
		}
		snapshot[i] = balance.Expense{
			ID:       e.ID,
			PayerID:  e.PayerID,
			Amount:   e.Amount,
			Currency: e.Currency,
			Shares:   shares,
		}
	}

	table := s.rates.Snapshot(ctx)
	balances := balance.Aggregate(snapshot, rosterIDs, p.SettlementCurrency, table, exchange.Overrides(overrides), p.Precision)

	// Roster order first, then any off-roster members by id, so the output
	// order is stable across requests.
	order := make([]int64, 0, len(balances))
	seen := make(map[int64]struct{}, len(balances))
	for _, id := range rosterIDs {
		if _, ok := balances[id]; ok {
			order = append(order, id)
			seen[id] = struct{}{}
		}
	}
	var extra []int64
	for id := range balances {
		if _, ok := seen[id]; !ok {
			extra = append(extra, id)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	order = append(order, extra...)

	return &sheetContext{
		project:  p,
		table:    table,
		balances: balances,
		order:    order,
		names:    names,
	}, nil
}

// Balances returns the per-member balance sheet for a project.
func (s *Service) Balances(ctx context.Context, projectID int64) (*BalanceSheet, error) {
	sc, err := s.compute(ctx, projectID)
	if err != nil {
		return nil, err
	}

	sheet := &BalanceSheet{
		ProjectID:     sc.project.ID,
		Currency:      sc.project.SettlementCurrency,
		Precision:     sc.project.Precision,
		RateDate:      sc.table.Date,
		UsingFallback: sc.table.UsingFallback,
		Rows:          make([]BalanceRow, 0, len(sc.order)),
	}
	for _, id := range sc.order {
		b := sc.balances[id]
		sheet.Rows = append(sheet.Rows, BalanceRow{
			MemberID: id,
			Name:     sc.names[id],
			Paid:     b.Paid,
			Share:    b.Share,
			Balance:  b.Net,
		})
	}

	return sheet, nil
}

// Plan returns the transfers that settle a project's balances.
func (s *Service) Plan(ctx context.Context, projectID int64) (*Plan, error) {
	sc, err := s.compute(ctx, projectID)
	if err != nil {
		return nil, err
	}

	nets := balance.NetVector(sc.balances)

	// The optimizer cannot tell a caller bug from rounding noise; check
	// conservation here so an unbalanced vector is at least visible.
	if gap := ConservationGap(nets); gap.Abs().GreaterThan(money.ShareTolerance) {
		s.log.Warn().
			Int64("project_id", projectID).
			Str("gap", gap.String()).
			Msg("balance vector does not sum to zero, settlement will leave a leftover")
	}

	transfers := Settle(nets, sc.project.Precision)

	plan := &Plan{
		ProjectID:     sc.project.ID,
		Currency:      sc.project.SettlementCurrency,
		Precision:     sc.project.Precision,
		RateDate:      sc.table.Date,
		UsingFallback: sc.table.UsingFallback,
		Outstanding:   Outstanding(nets),
		Transfers:     make([]TransferRow, len(transfers)),
	}
	for i, t := range transfers {
		plan.Transfers[i] = TransferRow{
			FromID:   t.From,
			FromName: sc.names[t.From],
			ToID:     t.To,
			ToName:   sc.names[t.To],
			Amount:   t.Amount,
		}
	}

	return plan, nil
}

// Outstanding returns the total amount still to change hands: the sum of all
// positive balances.
func Outstanding(balances map[int64]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, b := range balances {
		if b.IsPositive() {
			total = total.Add(b)
		}
	}
	return total
}
