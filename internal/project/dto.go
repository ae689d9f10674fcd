package project

// CreateProjectRequest represents the request to create a project
type CreateProjectRequest struct {
	Name               string  `json:"name" validate:"required,min=1,max=100"`
	Description        *string `json:"description,omitempty"`
	SettlementCurrency string  `json:"settlement_currency" validate:"required,len=3"`
	// Precision defaults to the settlement currency's fraction digits when nil.
	Precision *int32 `json:"precision,omitempty" validate:"omitempty,min=0,max=8"`
}

// UpdateProjectRequest represents the request to update a project
type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty"`
	Precision   *int32  `json:"precision,omitempty" validate:"omitempty,min=0,max=8"`
}

// AddMemberRequest represents the request to add a member to the roster
type AddMemberRequest struct {
	MemberID int64 `json:"member_id" validate:"required"`
}

// SetRateRequest represents the request to set a custom exchange rate
type SetRateRequest struct {
	Rate float64 `json:"rate" validate:"required,gt=0"`
}

// ProjectResponse represents the response for a project
type ProjectResponse struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Description        *string `json:"description,omitempty"`
	SettlementCurrency string  `json:"settlement_currency"`
	Precision          int32   `json:"precision"`
	CreatedAt          string  `json:"created_at"`
}

// MemberResponse represents a roster entry
type MemberResponse struct {
	MemberID int64  `json:"member_id"`
	Name     string `json:"name"`
	JoinedAt string `json:"joined_at"`
}

// RateResponse represents one currency's rate as seen by a project: the
// custom override if set, and the current market rate for comparison.
type RateResponse struct {
	Currency     string   `json:"currency"`
	OverrideRate *float64 `json:"override_rate,omitempty"`
	MarketRate   float64  `json:"market_rate"`
	Display      string   `json:"display"` // e.g. "1 USD = 32.00 TWD"
}

// RatesResponse wraps the per-currency rates with the table's provenance.
type RatesResponse struct {
	SettlementCurrency string         `json:"settlement_currency"`
	RateDate           string         `json:"rate_date,omitempty"`
	UsingFallback      bool           `json:"using_fallback"`
	Rates              []RateResponse `json:"rates"`
}

// ToResponse converts a Project model to a ProjectResponse DTO
func (p *Project) ToResponse() *ProjectResponse {
	return &ProjectResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Description:        p.Description,
		SettlementCurrency: p.SettlementCurrency,
		Precision:          p.Precision,
		CreatedAt:          p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a roster Member to a MemberResponse DTO
func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		MemberID: m.MemberID,
		Name:     m.Name,
		JoinedAt: m.JoinedAt.Format("2006-01-02T15:04:05Z"),
	}
}
