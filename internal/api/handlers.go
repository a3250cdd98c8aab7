package api

import (
	"net/http"

	"github.com/starford/resource-api/internal/pagination"
	"github.com/starford/resource-api/internal/resourceservice"
	"github.com/starford/resource-api/internal/store"
	"github.com/starford/resource-api/internal/validate"
)

// Handler holds API route handlers.
type Handler struct {
	svc *resourceservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *resourceservice.Service) *Handler {
	return &Handler{svc: svc}
}

// CreateResource handles POST /v1/resources.
//
//	@Summary		Create a resource
//	@Tags			resources
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateResourceRequest	true	"Resource to create"
//	@Success		201		{object}	ResourceDetailResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/v1/resources [post]
func (h *Handler) CreateResource(w http.ResponseWriter, r *http.Request) error {
	body := validate.BodyFrom[CreateResourceRequest](r.Context())
	res, err := h.svc.Create(r.Context(), resourceservice.CreateInput{
		Name: body.Name,
		Type: body.Type,
		Data: body.Data,
	})
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, DetailOf(res))
	return nil
}

// ListResources handles GET /v1/resources.
//
//	@Summary		List resources with filtering and pagination
//	@Tags			resources
//	@Produce		json
//	@Param			name	query		string	false	"Case-insensitive name substring"
//	@Param			type	query		string	false	"Resource type"	Enums(A, B)
//	@Param			page	query		int		false	"Page number"	minimum(1)
//	@Param			limit	query		int		false	"Page size"		minimum(1)
//	@Param			sort	query		string	false	"Sort field"	Enums(createdAt, updatedAt, name)
//	@Param			order	query		string	false	"Sort order"	Enums(ASC, DESC)
//	@Success		200		{object}	ResourceListResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/v1/resources [get]
func (h *Handler) ListResources(w http.ResponseWriter, r *http.Request) error {
	q := validate.QueryFrom[ResourceListQuery](r.Context())
	res, err := h.svc.GetAll(r.Context(), listFilter(q))
	if err != nil {
		return err
	}
	items := make([]ResourceResponse, len(res.Resources))
	for i, rr := range res.Resources {
		items[i] = ListItemOf(rr)
	}
	meta := pagination.NewMeta(res.Count, q.Page, q.Limit)
	writeJSON(w, http.StatusOK, pagination.NewPage(items, meta))
	return nil
}

// GetResource handles GET /v1/resources/{id}.
//
//	@Summary		Get a single resource
//	@Tags			resources
//	@Produce		json
//	@Param			id	path		string	true	"Resource id (UUID)"
//	@Success		200	{object}	ResourceDetailResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Router			/v1/resources/{id} [get]
func (h *Handler) GetResource(w http.ResponseWriter, r *http.Request) error {
	p := validate.ParamsFrom[ResourceIDParam](r.Context())
	res, err := h.svc.GetOne(r.Context(), p.ID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, DetailOf(res))
	return nil
}

// UpdateResource handles PUT /v1/resources/{id}.
//
//	@Summary		Partially update a resource
//	@Tags			resources
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Resource id (UUID)"
//	@Param			body	body		UpdateResourceRequest	true	"Fields to change"
//	@Success		200		{object}	ResourceDetailResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/v1/resources/{id} [put]
func (h *Handler) UpdateResource(w http.ResponseWriter, r *http.Request) error {
	p := validate.ParamsFrom[ResourceIDParam](r.Context())
	body := validate.BodyFrom[UpdateResourceRequest](r.Context())
	res, err := h.svc.Update(r.Context(), p.ID, resourceservice.UpdateInput{
		Name: body.Name,
		Type: body.Type,
		Data: body.Data,
	})
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, DetailOf(res))
	return nil
}

// DeleteResource handles DELETE /v1/resources/{id}.
//
//	@Summary		Soft-delete a resource
//	@Tags			resources
//	@Param			id	path	string	true	"Resource id (UUID)"
//	@Success		204
//	@Failure		404	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Router			/v1/resources/{id} [delete]
func (h *Handler) DeleteResource(w http.ResponseWriter, r *http.Request) error {
	p := validate.ParamsFrom[ResourceIDParam](r.Context())
	if err := h.svc.Delete(r.Context(), p.ID); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func listFilter(q ResourceListQuery) store.Filter {
	return store.Filter{
		Name:   q.Name,
		Type:   q.Type,
		Sort:   q.Sort,
		Order:  q.Order,
		Offset: q.Offset(),
		Limit:  q.Limit,
	}
}
