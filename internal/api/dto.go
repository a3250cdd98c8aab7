package api

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/resource-api/internal/models"
	"github.com/starford/resource-api/internal/pagination"
	"github.com/starford/resource-api/internal/validate"
)

// CreateResourceRequest is the request body for creating a resource.
type CreateResourceRequest struct {
	Name string              `json:"name" example:"Intro video"`
	Type models.ResourceType `json:"type" example:"A"`
	Data map[string]any      `json:"data"`
}

// UpdateResourceRequest is the request body for a partial update.
type UpdateResourceRequest struct {
	Name *string              `json:"name,omitempty"`
	Type *models.ResourceType `json:"type,omitempty"`
	Data map[string]any       `json:"data,omitempty"`
}

// ResourceIDParam is the {id} path parameter.
type ResourceIDParam struct {
	ID string `json:"id"`
}

// ResourceListQuery is the query of GET /resources.
type ResourceListQuery struct {
	pagination.Options
	Name string              `json:"name"`
	Type models.ResourceType `json:"type"`
}

// ResourceDetailResponse is the full projection of a resource.
type ResourceDetailResponse struct {
	ID        string              `json:"_id" example:"0190b9a4-1d5e-7c3a-8f00-5b5e8c1f2a10"`
	Name      string              `json:"name" example:"Intro video"`
	Type      models.ResourceType `json:"type" example:"A"`
	Data      map[string]any      `json:"data"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// ResourceResponse is the list projection of a resource.
type ResourceResponse struct {
	ID   string              `json:"_id" example:"0190b9a4-1d5e-7c3a-8f00-5b5e8c1f2a10"`
	Name string              `json:"name" example:"Intro video"`
	Type models.ResourceType `json:"type" example:"A"`
}

// ResourceListResponse wraps one page of resources.
type ResourceListResponse = pagination.Page[ResourceResponse]

// DetailOf projects r onto the detail response.
func DetailOf(r *models.Resource) ResourceDetailResponse {
	return ResourceDetailResponse{
		ID:        r.ID,
		Name:      r.Name,
		Type:      r.Type,
		Data:      r.Data,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// ListItemOf projects r onto the list response.
func ListItemOf(r models.Resource) ResourceResponse {
	return ResourceResponse{ID: r.ID, Name: r.Name, Type: r.Type}
}

func stringValues[T ~string](vs []T) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = string(v)
	}
	return out
}

// Validation shapes shared by the HTTP and MCP surfaces.
var (
	CreateResourceShape = validate.Shape[CreateResourceRequest]{
		Fields: []validate.Field{
			{Name: "name", Kind: validate.String, Required: true},
			{Name: "type", Kind: validate.String, Required: true, Rules: []validation.Rule{validation.In(stringValues(models.ResourceTypes())...)}},
			{Name: "data", Kind: validate.Object, Required: true},
		},
	}

	UpdateResourceShape = validate.Shape[UpdateResourceRequest]{
		Fields: []validate.Field{
			{Name: "name", Kind: validate.String, Rules: []validation.Rule{validation.Required}},
			{Name: "type", Kind: validate.String, Rules: []validation.Rule{validation.In(stringValues(models.ResourceTypes())...)}},
			{Name: "data", Kind: validate.Object},
		},
	}

	ResourceIDShape = validate.Shape[ResourceIDParam]{
		Fields: []validate.Field{
			{Name: "id", Kind: validate.String, Required: true, Rules: []validation.Rule{is.UUID}},
		},
	}

	ResourceListShape = validate.Shape[ResourceListQuery]{
		Fields: []validate.Field{
			{Name: "name", Kind: validate.String},
			{Name: "type", Kind: validate.String, Rules: []validation.Rule{validation.In(stringValues(models.ResourceTypes())...)}},
			{Name: "page", Kind: validate.Int, Rules: []validation.Rule{validate.MinInt(1)}},
			{Name: "limit", Kind: validate.Int, Rules: []validation.Rule{validate.MinInt(1)}},
			{Name: "sort", Kind: validate.String, Rules: []validation.Rule{validation.In(stringValues(pagination.SortFields())...)}},
			{Name: "order", Kind: validate.String, Rules: []validation.Rule{validation.In(stringValues(pagination.Orders())...)}},
		},
		Defaults: func() ResourceListQuery {
			return ResourceListQuery{Options: pagination.DefaultOptions()}
		},
	}
)
