// Package docs registers the OpenAPI document of the resource API with swag.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/v1/resources": {
            "get": {
                "produces": ["application/json"],
                "tags": ["resources"],
                "summary": "List resources with filtering and pagination",
                "parameters": [
                    {"type": "string", "description": "Case-insensitive name substring", "name": "name", "in": "query"},
                    {"enum": ["A", "B"], "type": "string", "description": "Resource type", "name": "type", "in": "query"},
                    {"minimum": 1, "type": "integer", "description": "Page number", "name": "page", "in": "query"},
                    {"minimum": 1, "type": "integer", "description": "Page size", "name": "limit", "in": "query"},
                    {"enum": ["createdAt", "updatedAt", "name"], "type": "string", "description": "Sort field", "name": "sort", "in": "query"},
                    {"enum": ["ASC", "DESC"], "type": "string", "description": "Sort order", "name": "order", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.ResourceListResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["resources"],
                "summary": "Create a resource",
                "parameters": [
                    {"description": "Resource to create", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.CreateResourceRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/api.ResourceDetailResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/v1/resources/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["resources"],
                "summary": "Get a single resource",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Resource id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.ResourceDetailResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["resources"],
                "summary": "Partially update a resource",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Resource id", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.UpdateResourceRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.ResourceDetailResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["resources"],
                "summary": "Soft-delete a resource",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Resource id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.CreateResourceRequest": {
            "type": "object",
            "required": ["name", "type", "data"],
            "properties": {
                "name": {"type": "string", "example": "Intro video"},
                "type": {"type": "string", "enum": ["A", "B"], "example": "A"},
                "data": {"type": "object", "additionalProperties": true}
            }
        },
        "api.UpdateResourceRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "type": {"type": "string", "enum": ["A", "B"]},
                "data": {"type": "object", "additionalProperties": true}
            }
        },
        "api.ResourceDetailResponse": {
            "type": "object",
            "properties": {
                "_id": {"type": "string", "example": "0190b9a4-1d5e-7c3a-8f00-5b5e8c1f2a10"},
                "name": {"type": "string"},
                "type": {"type": "string", "enum": ["A", "B"]},
                "data": {"type": "object", "additionalProperties": true},
                "createdAt": {"type": "string", "format": "date-time"},
                "updatedAt": {"type": "string", "format": "date-time"}
            }
        },
        "api.ResourceResponse": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "name": {"type": "string"},
                "type": {"type": "string", "enum": ["A", "B"]}
            }
        },
        "api.ResourceListResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/api.ResourceResponse"}},
                "pagination": {"$ref": "#/definitions/pagination.Meta"}
            }
        },
        "pagination.Meta": {
            "type": "object",
            "properties": {
                "limit": {"type": "integer"},
                "currentPage": {"type": "integer"},
                "nextPage": {"type": "integer"},
                "previousPage": {"type": "integer"},
                "totalRecords": {"type": "integer"},
                "totalPages": {"type": "integer"}
            }
        },
        "api.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "Resource.NotFound"},
                "message": {"type": "string", "example": "Resource not found"},
                "details": {},
                "stack": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Resource API",
	Description:      "CRUD service for typed resources with pagination and soft delete.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
