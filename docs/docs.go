// Package docs registers the OpenAPI description served under /swagger.
// Keep it in step with the handler annotations in pkg/api/handlers.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {"name": "MIT", "url": "https://opensource.org/licenses/MIT"},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/leads": {
            "get": {
                "tags": ["Leads"],
                "summary": "List leads",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "string", "name": "tag", "in": "query"},
                    {"type": "integer", "name": "min_score", "in": "query"},
                    {"type": "integer", "name": "max_score", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "post": {
                "tags": ["Leads"],
                "summary": "Create a lead",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CreateLeadRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/leads/{id}": {
            "get": {
                "tags": ["Leads"],
                "summary": "Get a lead",
                "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.LeadDetail"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "put": {
                "tags": ["Leads"],
                "summary": "Update a lead",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.UpdateLeadRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["Leads"],
                "summary": "Delete a lead",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/leads/{id}/tags": {
            "post": {
                "tags": ["Leads"],
                "summary": "Add a tag to a lead",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.TagRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/leads/{id}/tags/{tag}": {
            "delete": {
                "tags": ["Leads"],
                "summary": "Remove a tag from a lead",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "tag", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/leads/bulk/status": {
            "post": {
                "tags": ["Leads"],
                "summary": "Set the status of several leads",
                "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.BulkStatusRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/leads/bulk/tags": {
            "post": {
                "tags": ["Leads"],
                "summary": "Add a tag to several leads",
                "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.BulkTagRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/messages": {
            "post": {
                "tags": ["Messages"],
                "summary": "Append a message",
                "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.AppendMessageRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/messages/{leadId}": {
            "get": {
                "tags": ["Messages"],
                "summary": "List a lead's messages",
                "parameters": [{"type": "integer", "name": "leadId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/export": {
            "get": {
                "tags": ["Export"],
                "summary": "Export leads",
                "produces": ["text/csv", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [{"enum": ["csv", "xlsx"], "type": "string", "name": "format", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}
            }
        },
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object"}}
                }
            }
        }
    },
    "definitions": {
        "models.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}, "message": {"type": "string"}}
        },
        "models.Lead": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "status": {"type": "string"},
                "score": {"type": "integer"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "source": {"type": "string"},
                "assigned_to": {"type": "string"},
                "last_interaction": {"type": "string", "format": "date-time"},
                "deal_value": {"type": "number", "x-nullable": true}
            }
        },
        "models.ScoreEntry": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "lead_id": {"type": "integer"},
                "change": {"type": "integer"},
                "reason": {"type": "string"},
                "timestamp": {"type": "string", "format": "date-time"}
            }
        },
        "models.LeadDetail": {
            "allOf": [
                {"$ref": "#/definitions/models.Lead"},
                {"type": "object", "properties": {"scoreHistory": {"type": "array", "items": {"$ref": "#/definitions/models.ScoreEntry"}}}}
            ]
        },
        "models.CreateLeadRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "status": {"type": "string"},
                "score": {"type": "integer"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "source": {"type": "string"},
                "assigned_to": {"type": "string"},
                "deal_value": {"type": "number"}
            }
        },
        "models.UpdateLeadRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "status": {"type": "string"},
                "score": {"type": "integer"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "source": {"type": "string"},
                "assigned_to": {"type": "string"},
                "last_interaction": {"type": "string", "format": "date-time"},
                "deal_value": {"type": "number", "x-nullable": true}
            }
        },
        "models.TagRequest": {
            "type": "object",
            "required": ["tag"],
            "properties": {"tag": {"type": "string"}}
        },
        "models.BulkStatusRequest": {
            "type": "object",
            "required": ["ids", "status"],
            "properties": {"ids": {"type": "array", "items": {"type": "integer"}}, "status": {"type": "string"}}
        },
        "models.BulkTagRequest": {
            "type": "object",
            "required": ["ids", "tag"],
            "properties": {"ids": {"type": "array", "items": {"type": "integer"}}, "tag": {"type": "string"}}
        },
        "models.AppendMessageRequest": {
            "type": "object",
            "required": ["lead_id", "sender", "message"],
            "properties": {
                "lead_id": {"type": "integer"},
                "sender": {"type": "string", "enum": ["lead", "user"]},
                "message": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3001",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "LeadDesk API",
	Description:      "Leads, score history and conversation transcripts for a small sales team.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
