package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Course Advisor API",
        "description": "Course catalog lookups and plan mutations for the advising agent",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Catalog", "description": "Read-only course lookups"},
        {"name": "Majors", "description": "Program requirements"},
        {"name": "Plans", "description": "Course plan reads and mutations"}
    ],
    "paths": {
        "/courses": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Get course information",
                "parameters": [
                    {"name": "term", "in": "query", "type": "string", "required": true},
                    {"name": "code", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ToolResult"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ToolResult"}}
                }
            }
        },
        "/courses/search": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Search courses",
                "parameters": [
                    {"name": "term", "in": "query", "type": "string", "required": true},
                    {"name": "query", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ToolResult"}},
                    "404": {"description": "No results", "schema": {"$ref": "#/definitions/ToolResult"}}
                }
            }
        },
        "/majors/{major}": {
            "get": {
                "tags": ["Majors"],
                "summary": "Get major requirements",
                "parameters": [
                    {"name": "major", "in": "path", "type": "string", "required": true},
                    {"name": "refresh", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ToolResult"}},
                    "404": {"description": "Unknown major", "schema": {"$ref": "#/definitions/ToolResult"}}
                }
            }
        },
        "/users/{userID}/plans": {
            "get": {
                "tags": ["Plans"],
                "summary": "List a user's plans",
                "parameters": [
                    {"name": "userID", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Plans"],
                "summary": "Create an empty plan",
                "parameters": [
                    {"name": "userID", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/CreatePlanRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/users/{userID}/plans/{planID}": {
            "get": {
                "tags": ["Plans"],
                "summary": "Get a course plan",
                "parameters": [
                    {"name": "userID", "in": "path", "type": "string", "required": true},
                    {"name": "planID", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ToolResult"}},
                    "404": {"description": "User or plan does not exist", "schema": {"$ref": "#/definitions/ToolResult"}}
                }
            }
        },
        "/users/{userID}/plans/{planID}/sections": {
            "post": {
                "tags": ["Plans"],
                "summary": "Add a section to a plan",
                "parameters": [
                    {"name": "userID", "in": "path", "type": "string", "required": true},
                    {"name": "planID", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddSectionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ToolResult"}},
                    "404": {"description": "Section or plan not found", "schema": {"$ref": "#/definitions/ToolResult"}},
                    "502": {"description": "Plan update failed", "schema": {"$ref": "#/definitions/ToolResult"}}
                }
            }
        },
        "/users/{userID}/plans/{planID}/sections/{sectionID}": {
            "delete": {
                "tags": ["Plans"],
                "summary": "Remove a section from a plan",
                "parameters": [
                    {"name": "userID", "in": "path", "type": "string", "required": true},
                    {"name": "planID", "in": "path", "type": "string", "required": true},
                    {"name": "sectionID", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ToolResult"}},
                    "404": {"description": "User or plan does not exist", "schema": {"$ref": "#/definitions/ToolResult"}},
                    "502": {"description": "Failed to delete section", "schema": {"$ref": "#/definitions/ToolResult"}}
                }
            }
        },
        "/users/{userID}/plans/{planID}/session": {
            "put": {
                "tags": ["Plans"],
                "summary": "Bind an agent session to a plan",
                "parameters": [
                    {"name": "userID", "in": "path", "type": "string", "required": true},
                    {"name": "planID", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AttachSessionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Plans"],
                "summary": "Clear the session bound to a plan",
                "parameters": [
                    {"name": "userID", "in": "path", "type": "string", "required": true},
                    {"name": "planID", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/users/{userID}/plans/{planID}/conflicts": {
            "get": {
                "tags": ["Plans"],
                "summary": "Report meeting time conflicts in a plan",
                "parameters": [
                    {"name": "userID", "in": "path", "type": "string", "required": true},
                    {"name": "planID", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/users/{userID}/plans/{planID}/export": {
            "get": {
                "tags": ["Plans"],
                "summary": "Download a plan",
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "text/calendar"],
                "parameters": [
                    {"name": "userID", "in": "path", "type": "string", "required": true},
                    {"name": "planID", "in": "path", "type": "string", "required": true},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "xlsx", "ics"]},
                    {"name": "term", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File"},
                    "400": {"description": "Bad format or missing term", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ToolResult": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["success", "error"]},
                "course_info": {"type": "object"},
                "plan_info": {"type": "object"},
                "major_info": {"type": "string"},
                "section_id": {"type": "string"},
                "error_message": {"type": "string"}
            },
            "required": ["status"]
        },
        "AddSectionRequest": {
            "type": "object",
            "properties": {
                "courseCode": {"type": "string"},
                "sectionId": {"type": "string"},
                "term": {"type": "string"}
            },
            "required": ["courseCode", "sectionId", "term"]
        },
        "CreatePlanRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"}
            }
        },
        "AttachSessionRequest": {
            "type": "object",
            "properties": {
                "sessionId": {"type": "string"}
            },
            "required": ["sessionId"]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
