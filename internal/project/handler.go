package project

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/divvyup/divvy/pkg/response"
)

// Handler handles HTTP requests for project operations. Balance and
// settlement projections live under the project tree, so their handlers are
// mounted here.
type Handler struct {
	service     *Service
	projections Projections
}

// Projections is the slice of the settlement feature mounted under
// /projects/{id}: the on-demand balance and transfer views.
type Projections interface {
	Balances(w http.ResponseWriter, r *http.Request)
	Settlements(w http.ResponseWriter, r *http.Request)
	ExportCSV(w http.ResponseWriter, r *http.Request)
}

// NewHandler creates a new project handler
func NewHandler(service *Service, projections Projections) *Handler {
	return &Handler{service: service, projections: projections}
}

// Routes returns the router for project endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	r.Get("/{id}/members", h.ListMembers)
	r.Post("/{id}/members", h.AddMember)
	r.Delete("/{id}/members/{memberId}", h.RemoveMember)

	r.Get("/{id}/rates", h.ListRates)
	r.Put("/{id}/rates/{currency}", h.SetRate)
	r.Delete("/{id}/rates/{currency}", h.DeleteRate)

	r.Get("/{id}/balances", h.projections.Balances)
	r.Get("/{id}/settlements", h.projections.Settlements)
	r.Get("/{id}/settlements/export", h.projections.ExportCSV)

	return r
}

func projectID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// Create handles POST /projects
// @Summary      Create a new project
// @Description  Create a project with a settlement currency and precision
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        request body CreateProjectRequest true "Project creation request"
// @Success      201 {object} response.APIResponse{data=ProjectResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /projects [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Name == "" {
		response.BadRequest(w, "Name is required")
		return
	}

	p, err := h.service.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrUnknownCurrency) || errors.Is(err, ErrInvalidPrecision) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to create project")
		return
	}

	response.JSON(w, http.StatusCreated, p.ToResponse())
}

// GetByID handles GET /projects/{id}
// @Summary      Get project by ID
// @Tags         projects
// @Produce      json
// @Param        id path int true "Project ID"
// @Success      200 {object} response.APIResponse{data=ProjectResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /projects/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		response.BadRequest(w, "Invalid project ID")
		return
	}

	p, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get project")
		return
	}

	response.JSON(w, http.StatusOK, p.ToResponse())
}

// List handles GET /projects
// @Summary      List all projects
// @Tags         projects
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]ProjectResponse}
// @Router       /projects [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	projects, total, err := h.service.List(r.Context(), page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list projects")
		return
	}

	projectResponses := make([]*ProjectResponse, len(projects))
	for i, p := range projects {
		projectResponses[i] = p.ToResponse()
	}

	totalPages := (total + perPage - 1) / perPage
	meta := &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}

	response.JSONWithMeta(w, http.StatusOK, projectResponses, meta)
}

// Update handles PUT /projects/{id}
// @Summary      Update a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id path int true "Project ID"
// @Param        request body UpdateProjectRequest true "Project update request"
// @Success      200 {object} response.APIResponse{data=ProjectResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /projects/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		response.BadRequest(w, "Invalid project ID")
		return
	}

	var req UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	p, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrProjectNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrInvalidPrecision):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to update project")
		}
		return
	}

	response.JSON(w, http.StatusOK, p.ToResponse())
}

// Delete handles DELETE /projects/{id}
// @Summary      Delete a project
// @Tags         projects
// @Param        id path int true "Project ID"
// @Success      204 "No Content"
// @Failure      404 {object} response.APIResponse
// @Router       /projects/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		response.BadRequest(w, "Invalid project ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to delete project")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListMembers handles GET /projects/{id}/members
// @Summary      List project roster
// @Tags         projects
// @Produce      json
// @Param        id path int true "Project ID"
// @Success      200 {object} response.APIResponse{data=[]MemberResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /projects/{id}/members [get]
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		response.BadRequest(w, "Invalid project ID")
		return
	}

	members, err := h.service.GetMembers(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to list project members")
		return
	}

	memberResponses := make([]*MemberResponse, len(members))
	for i, m := range members {
		memberResponses[i] = m.ToResponse()
	}

	response.JSON(w, http.StatusOK, memberResponses)
}

// AddMember handles POST /projects/{id}/members
// @Summary      Add a member to the project roster
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id path int true "Project ID"
// @Param        request body AddMemberRequest true "Member to add"
// @Success      201 {object} response.APIResponse{data=MemberResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /projects/{id}/members [post]
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		response.BadRequest(w, "Invalid project ID")
		return
	}

	var req AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	m, err := h.service.AddMember(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to add member to project")
		return
	}

	response.JSON(w, http.StatusCreated, m.ToResponse())
}

// RemoveMember handles DELETE /projects/{id}/members/{memberId}
// @Summary      Remove a member from the project roster
// @Tags         projects
// @Param        id path int true "Project ID"
// @Param        memberId path int true "Member ID"
// @Success      204 "No Content"
// @Failure      404 {object} response.APIResponse
// @Router       /projects/{id}/members/{memberId} [delete]
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		response.BadRequest(w, "Invalid project ID")
		return
	}
	memberID, err := strconv.ParseInt(chi.URLParam(r, "memberId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid member ID")
		return
	}

	if err := h.service.RemoveMember(r.Context(), id, memberID); err != nil {
		if errors.Is(err, ErrMemberNotOnRoster) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to remove member from project")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListRates handles GET /projects/{id}/rates
// @Summary      List project exchange rates
// @Description  Currencies used by the project with market rates and any custom overrides
// @Tags         projects
// @Produce      json
// @Param        id path int true "Project ID"
// @Success      200 {object} response.APIResponse{data=RatesResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /projects/{id}/rates [get]
func (h *Handler) ListRates(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		response.BadRequest(w, "Invalid project ID")
		return
	}

	view, err := h.service.RatesView(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to list rates")
		return
	}

	response.JSON(w, http.StatusOK, view)
}

// SetRate handles PUT /projects/{id}/rates/{currency}
// @Summary      Set a custom exchange rate
// @Description  Override the market rate for a currency into the settlement currency
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id path int true "Project ID"
// @Param        currency path string true "Currency code"
// @Param        request body SetRateRequest true "Rate override"
// @Success      200 {object} response.APIResponse{data=RateOverride}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /projects/{id}/rates/{currency} [put]
func (h *Handler) SetRate(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		response.BadRequest(w, "Invalid project ID")
		return
	}

	var req SetRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	o, err := h.service.SetRate(r.Context(), id, chi.URLParam(r, "currency"), req.Rate)
	if err != nil {
		switch {
		case errors.Is(err, ErrProjectNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrUnknownCurrency), errors.Is(err, ErrInvalidRate), errors.Is(err, ErrSameAsSettlement):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to set rate override")
		}
		return
	}

	response.JSON(w, http.StatusOK, o)
}

// DeleteRate handles DELETE /projects/{id}/rates/{currency}
// @Summary      Remove a custom exchange rate
// @Tags         projects
// @Param        id path int true "Project ID"
// @Param        currency path string true "Currency code"
// @Success      204 "No Content"
// @Failure      404 {object} response.APIResponse
// @Router       /projects/{id}/rates/{currency} [delete]
func (h *Handler) DeleteRate(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		response.BadRequest(w, "Invalid project ID")
		return
	}

	if err := h.service.DeleteRate(r.Context(), id, chi.URLParam(r, "currency")); err != nil {
		switch {
		case errors.Is(err, ErrOverrideNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrUnknownCurrency):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to delete rate override")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
