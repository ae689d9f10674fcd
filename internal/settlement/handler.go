package settlement

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/divvyup/divvy/internal/project"
	"github.com/divvyup/divvy/internal/report"
	"github.com/divvyup/divvy/pkg/response"
)

// Handler serves the balance and settlement projections. Its routes are
// mounted under /projects/{id} by the project handler.
type Handler struct {
	service *Service
}

// NewHandler creates a new settlement handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Balances handles GET /projects/{id}/balances
// @Summary      Get project balances
// @Description  Per-member paid/share/balance in the settlement currency, recomputed from live expenses
// @Tags         settlements
// @Produce      json
// @Param        id path int true "Project ID"
// @Success      200 {object} response.APIResponse{data=BalanceSheetResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /projects/{id}/balances [get]
func (h *Handler) Balances(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid project ID")
		return
	}

	sheet, err := h.service.Balances(r.Context(), id)
	if err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to compute balances")
		return
	}

	response.JSON(w, http.StatusOK, sheet.ToResponse())
}

// Settlements handles GET /projects/{id}/settlements
// @Summary      Get settlement plan
// @Description  The transfers that zero out the project's balances
// @Tags         settlements
// @Produce      json
// @Param        id path int true "Project ID"
// @Success      200 {object} response.APIResponse{data=PlanResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /projects/{id}/settlements [get]
func (h *Handler) Settlements(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid project ID")
		return
	}

	plan, err := h.service.Plan(r.Context(), id)
	if err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to compute settlements")
		return
	}

	response.JSON(w, http.StatusOK, plan.ToResponse())
}

// ExportCSV handles GET /projects/{id}/settlements/export
// @Summary      Export balances and settlement plan as CSV
// @Tags         settlements
// @Produce      text/csv
// @Param        id path int true "Project ID"
// @Param        view query string false "balances or settlements" default(settlements)
// @Success      200 {string} string "CSV document"
// @Failure      404 {object} response.APIResponse
// @Router       /projects/{id}/settlements/export [get]
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid project ID")
		return
	}

	view := r.URL.Query().Get("view")
	if view == "" {
		view = "settlements"
	}

	switch view {
	case "balances":
		sheet, err := h.service.Balances(r.Context(), id)
		if err != nil {
			h.exportError(w, err)
			return
		}

		lines := make([]report.BalanceLine, len(sheet.Rows))
		for i, row := range sheet.Rows {
			lines[i] = report.BalanceLine{
				Member:  row.Name,
				Paid:    row.Paid.StringFixed(sheet.Precision),
				Share:   row.Share.StringFixed(sheet.Precision),
				Balance: row.Balance.StringFixed(sheet.Precision),
			}
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="project-%d-balances.csv"`, id))
		if err := report.WriteBalances(w, sheet.Currency, lines); err != nil {
			response.InternalError(w, "Failed to write CSV")
		}

	case "settlements":
		plan, err := h.service.Plan(r.Context(), id)
		if err != nil {
			h.exportError(w, err)
			return
		}

		lines := make([]report.TransferLine, len(plan.Transfers))
		for i, t := range plan.Transfers {
			lines[i] = report.TransferLine{
				From:   t.FromName,
				To:     t.ToName,
				Amount: t.Amount.StringFixed(plan.Precision),
			}
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="project-%d-settlements.csv"`, id))
		if err := report.WriteTransfers(w, plan.Currency, lines); err != nil {
			response.InternalError(w, "Failed to write CSV")
		}

	default:
		response.BadRequest(w, "view must be balances or settlements")
	}
}

func (h *Handler) exportError(w http.ResponseWriter, err error) {
	if errors.Is(err, project.ErrProjectNotFound) {
		response.NotFound(w, err.Error())
		return
	}
	response.InternalError(w, "Failed to compute export")
}
