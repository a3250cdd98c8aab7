// Package models defines the domain types for the resource service.
package models

import "time"

// ResourceType is the closed set of resource variants.
type ResourceType string

// Resource variants.
const (
	ResourceTypeA ResourceType = "A"
	ResourceTypeB ResourceType = "B"
)

// ResourceTypes lists every valid ResourceType.
func ResourceTypes() []ResourceType {
	return []ResourceType{ResourceTypeA, ResourceTypeB}
}

// Valid reports whether t is a known variant.
func (t ResourceType) Valid() bool {
	for _, v := range ResourceTypes() {
		if t == v {
			return true
		}
	}
	return false
}

// Resource is the persisted entity.
type Resource struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Type      ResourceType   `json:"type"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	IsDeleted bool           `json:"is_deleted"`
	DeletedAt *time.Time     `json:"deleted_at,omitempty"`
}
