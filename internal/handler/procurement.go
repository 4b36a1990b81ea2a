// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"govportal/internal/middleware"
	"govportal/internal/model"
	"govportal/internal/service"
	"govportal/internal/store"
)

// ProcurementHandler handles contractors, goods categories and procurement
// items. All of these carry business keys backed by unique indexes; a
// losing write surfaces as 409 without naming the record holding the key.
type ProcurementHandler struct {
	queries      *store.Queries
	eventService *service.EventService
}

// NewProcurementHandler creates a new ProcurementHandler.
func NewProcurementHandler(db *sql.DB) *ProcurementHandler {
	return &ProcurementHandler{
		queries:      store.New(db),
		eventService: service.NewEventService(db),
	}
}

// ContractorRequest is the request body for contractors.
type ContractorRequest struct {
	Name               string `json:"name"`
	RegistrationNumber string `json:"registration_number"`
	Address            string `json:"address"`
	Phone              string `json:"phone"`
	Email              string `json:"email"`
}

func (req *ContractorRequest) validate() map[string]string {
	fieldErrors := make(map[string]string)
	if req.Name == "" {
		fieldErrors["name"] = "required"
	}
	if req.RegistrationNumber == "" {
		fieldErrors["registration_number"] = "required"
	}
	if len(fieldErrors) > 0 {
		return fieldErrors
	}
	return nil
}

// ListContractors handles GET /admin/contractors.
func (h *ProcurementHandler) ListContractors(w http.ResponseWriter, r *http.Request) {
	contractors, err := h.queries.ListContractors(r.Context())
	if err != nil {
		slog.Error("failed to list contractors", "error", err)
		WriteInternalError(w, "Failed to list contractors")
		return
	}
	WriteSuccess(w, contractors, nil)
}

// GetContractor handles GET /admin/contractors/{id}.
func (h *ProcurementHandler) GetContractor(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid contractor ID", nil)
		return
	}

	c, err := h.queries.GetContractorByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Contractor not found")
			return
		}
		slog.Error("failed to get contractor", "error", err, "id", id)
		WriteInternalError(w, "Failed to retrieve contractor")
		return
	}

	WriteSuccess(w, c, nil)
}

// CreateContractor handles POST /admin/contractors.
func (h *ProcurementHandler) CreateContractor(w http.ResponseWriter, r *http.Request) {
	var req ContractorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if fieldErrors := req.validate(); fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}

	c, err := h.queries.CreateContractor(r.Context(), store.CreateContractorParams{
		Name:               req.Name,
		RegistrationNumber: req.RegistrationNumber,
		Address:            req.Address,
		Phone:              req.Phone,
		Email:              req.Email,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			WriteConflict(w, "A contractor with this registration number already exists")
			return
		}
		slog.Error("failed to create contractor", "error", err)
		WriteInternalError(w, "Failed to create contractor")
		return
	}

	_ = h.eventService.LogContentEvent(r.Context(), model.EventLevelInfo,
		"Contractor created", middleware.GetUserIDPtr(r), middleware.GetClientIP(r),
		map[string]any{"contractor_id": c.ID})

	WriteCreated(w, c)
}

// UpdateContractor handles PUT /admin/contractors/{id}.
func (h *ProcurementHandler) UpdateContractor(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid contractor ID", nil)
		return
	}

	if _, err := h.queries.GetContractorByID(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Contractor not found")
			return
		}
		slog.Error("failed to get contractor", "error", err, "id", id)
		WriteInternalError(w, "Failed to retrieve contractor")
		return
	}

	var req ContractorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if fieldErrors := req.validate(); fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}

	c, err := h.queries.UpdateContractor(r.Context(), store.UpdateContractorParams{
		ID:                 id,
		Name:               req.Name,
		RegistrationNumber: req.RegistrationNumber,
		Address:            req.Address,
		Phone:              req.Phone,
		Email:              req.Email,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			WriteConflict(w, "A contractor with this registration number already exists")
			return
		}
		slog.Error("failed to update contractor", "error", err, "id", id)
		WriteInternalError(w, "Failed to update contractor")
		return
	}

	WriteSuccess(w, c, nil)
}

// DeleteContractor handles DELETE /admin/contractors/{id}.
func (h *ProcurementHandler) DeleteContractor(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid contractor ID", nil)
		return
	}

	if err := h.queries.DeleteContractor(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Contractor not found")
			return
		}
		slog.Error("failed to delete contractor", "error", err, "id", id)
		WriteInternalError(w, "Failed to delete contractor")
		return
	}

	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}

// CategoryRequest is the request body for goods categories.
type CategoryRequest struct {
	Name string `json:"name"`
}

// ListCategories handles GET /admin/categories.
func (h *ProcurementHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.queries.ListCategories(r.Context())
	if err != nil {
		slog.Error("failed to list categories", "error", err)
		WriteInternalError(w, "Failed to list categories")
		return
	}
	WriteSuccess(w, categories, nil)
}

// CreateCategory handles POST /admin/categories.
func (h *ProcurementHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if req.Name == "" {
		WriteValidationError(w, map[string]string{"name": "required"})
		return
	}

	c, err := h.queries.CreateCategory(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			WriteConflict(w, "A category with this name already exists")
			return
		}
		slog.Error("failed to create category", "error", err)
		WriteInternalError(w, "Failed to create category")
		return
	}

	WriteCreated(w, c)
}

// UpdateCategory handles PUT /admin/categories/{id}.
func (h *ProcurementHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid category ID", nil)
		return
	}

	if _, err := h.queries.GetCategoryByID(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Category not found")
			return
		}
		slog.Error("failed to get category", "error", err, "id", id)
		WriteInternalError(w, "Failed to retrieve category")
		return
	}

	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if req.Name == "" {
		WriteValidationError(w, map[string]string{"name": "required"})
		return
	}

	c, err := h.queries.UpdateCategory(r.Context(), id, req.Name)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			WriteConflict(w, "A category with this name already exists")
			return
		}
		slog.Error("failed to update category", "error", err, "id", id)
		WriteInternalError(w, "Failed to update category")
		return
	}

	WriteSuccess(w, c, nil)
}

// DeleteCategory handles DELETE /admin/categories/{id}.
func (h *ProcurementHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid category ID", nil)
		return
	}

	if err := h.queries.DeleteCategory(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Category not found")
			return
		}
		slog.Error("failed to delete category", "error", err, "id", id)
		WriteInternalError(w, "Failed to delete category")
		return
	}

	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}

// ProcurementRequest is the request body for procurement items.
type ProcurementRequest struct {
	Title           string `json:"title"`
	ReferenceNumber string `json:"reference_number"`
	Description     string `json:"description"`
	Budget          int64  `json:"budget"`
	ContractorID    int64  `json:"contractor_id"`
	CategoryID      int64  `json:"category_id"`
}

func (req *ProcurementRequest) validate() map[string]string {
	fieldErrors := make(map[string]string)
	if req.Title == "" {
		fieldErrors["title"] = "required"
	}
	if req.ReferenceNumber == "" {
		fieldErrors["reference_number"] = "required"
	}
	if req.Budget < 0 {
		fieldErrors["budget"] = "must not be negative"
	}
	if len(fieldErrors) > 0 {
		return fieldErrors
	}
	return nil
}

// ListProcurements handles GET /admin/procurements.
func (h *ProcurementHandler) ListProcurements(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)

	items, err := h.queries.ListProcurements(r.Context(), int64(perPage), int64((page-1)*perPage))
	if err != nil {
		slog.Error("failed to list procurements", "error", err)
		WriteInternalError(w, "Failed to list procurements")
		return
	}

	total, err := h.queries.CountProcurements(r.Context())
	if err != nil {
		slog.Error("failed to count procurements", "error", err)
		WriteInternalError(w, "Failed to list procurements")
		return
	}

	WriteSuccess(w, items, paginationMeta(total, page, perPage))
}

// GetProcurement handles GET /admin/procurements/{id}.
func (h *ProcurementHandler) GetProcurement(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid procurement ID", nil)
		return
	}

	item, err := h.queries.GetProcurementByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Procurement item not found")
			return
		}
		slog.Error("failed to get procurement item", "error", err, "id", id)
		WriteInternalError(w, "Failed to retrieve procurement item")
		return
	}

	WriteSuccess(w, item, nil)
}

// CreateProcurement handles POST /admin/procurements.
func (h *ProcurementHandler) CreateProcurement(w http.ResponseWriter, r *http.Request) {
	var req ProcurementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if fieldErrors := req.validate(); fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}

	item, err := h.queries.CreateProcurement(r.Context(), store.CreateProcurementParams{
		Title:           req.Title,
		ReferenceNumber: req.ReferenceNumber,
		Description:     req.Description,
		Budget:          req.Budget,
		ContractorID:    req.ContractorID,
		CategoryID:      req.CategoryID,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			WriteConflict(w, "A procurement item with this reference number already exists")
			return
		}
		slog.Error("failed to create procurement item", "error", err)
		WriteInternalError(w, "Failed to create procurement item")
		return
	}

	_ = h.eventService.LogContentEvent(r.Context(), model.EventLevelInfo,
		"Procurement item created", middleware.GetUserIDPtr(r), middleware.GetClientIP(r),
		map[string]any{"procurement_id": item.ID})

	WriteCreated(w, item)
}

// UpdateProcurement handles PUT /admin/procurements/{id}.
func (h *ProcurementHandler) UpdateProcurement(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid procurement ID", nil)
		return
	}

	if _, err := h.queries.GetProcurementByID(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Procurement item not found")
			return
		}
		slog.Error("failed to get procurement item", "error", err, "id", id)
		WriteInternalError(w, "Failed to retrieve procurement item")
		return
	}

	var req ProcurementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if fieldErrors := req.validate(); fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}

	item, err := h.queries.UpdateProcurement(r.Context(), store.UpdateProcurementParams{
		ID:              id,
		Title:           req.Title,
		ReferenceNumber: req.ReferenceNumber,
		Description:     req.Description,
		Budget:          req.Budget,
		ContractorID:    req.ContractorID,
		CategoryID:      req.CategoryID,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			WriteConflict(w, "A procurement item with this reference number already exists")
			return
		}
		slog.Error("failed to update procurement item", "error", err, "id", id)
		WriteInternalError(w, "Failed to update procurement item")
		return
	}

	WriteSuccess(w, item, nil)
}

// DeleteProcurement handles DELETE /admin/procurements/{id}.
func (h *ProcurementHandler) DeleteProcurement(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid procurement ID", nil)
		return
	}

	if err := h.queries.DeleteProcurement(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Procurement item not found")
			return
		}
		slog.Error("failed to delete procurement item", "error", err, "id", id)
		WriteInternalError(w, "Failed to delete procurement item")
		return
	}

	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}
