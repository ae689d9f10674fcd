package settlement

// BalanceRowResponse represents one member's position on the balance sheet
type BalanceRowResponse struct {
	MemberID int64   `json:"member_id"`
	Name     string  `json:"name"`
	Paid     float64 `json:"paid"`
	Share    float64 `json:"share"`
	Balance  float64 `json:"balance"`
}

// BalanceSheetResponse represents the balance projection for a project
type BalanceSheetResponse struct {
	ProjectID     int64                `json:"project_id"`
	Currency      string               `json:"currency"`
	Precision     int32                `json:"precision"`
	RateDate      string               `json:"rate_date,omitempty"`
	UsingFallback bool                 `json:"using_fallback"`
	Balances      []BalanceRowResponse `json:"balances"`
}

// TransferResponse represents one payment instruction
type TransferResponse struct {
	FromID   int64   `json:"from_id"`
	FromName string  `json:"from_name"`
	ToID     int64   `json:"to_id"`
	ToName   string  `json:"to_name"`
	Amount   float64 `json:"amount"`
}

// PlanResponse represents the settlement projection for a project
type PlanResponse struct {
	ProjectID     int64              `json:"project_id"`
	Currency      string             `json:"currency"`
	Precision     int32              `json:"precision"`
	RateDate      string             `json:"rate_date,omitempty"`
	UsingFallback bool               `json:"using_fallback"`
	Outstanding   float64            `json:"outstanding"`
	Settlements   []TransferResponse `json:"settlements"`
}

// ToResponse converts a BalanceSheet to its API shape
func (s *BalanceSheet) ToResponse() *BalanceSheetResponse {
	resp := &BalanceSheetResponse{
		ProjectID:     s.ProjectID,
		Currency:      s.Currency,
		Precision:     s.Precision,
		UsingFallback: s.UsingFallback,
		Balances:      make([]BalanceRowResponse, len(s.Rows)),
	}
	if !s.RateDate.IsZero() {
		resp.RateDate = s.RateDate.Format("2006-01-02")
	}
	for i, row := range s.Rows {
		resp.Balances[i] = BalanceRowResponse{
			MemberID: row.MemberID,
			Name:     row.Name,
			Paid:     row.Paid.InexactFloat64(),
			Share:    row.Share.InexactFloat64(),
			Balance:  row.Balance.InexactFloat64(),
		}
	}
	return resp
}

// ToResponse converts a Plan to its API shape
func (p *Plan) ToResponse() *PlanResponse {
	resp := &PlanResponse{
		ProjectID:     p.ProjectID,
		Currency:      p.Currency,
		Precision:     p.Precision,
		UsingFallback: p.UsingFallback,
		Outstanding:   p.Outstanding.InexactFloat64(),
		Settlements:   make([]TransferResponse, len(p.Transfers)),
	}
	if !p.RateDate.IsZero() {
		resp.RateDate = p.RateDate.Format("2006-01-02")
	}
	for i, t := range p.Transfers {
		resp.Settlements[i] = TransferResponse{
			FromID:   t.FromID,
			FromName: t.FromName,
			ToID:     t.ToID,
			ToName:   t.ToName,
			Amount:   t.Amount.InexactFloat64(),
		}
	}
	return resp
}
