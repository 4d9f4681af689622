// Package docs registers the OpenAPI document for the operator API
// Keep it in step with the @Router annotations on the handlers.
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "components": {
        "schemas": {
            "domain.Receipt": {
                "type": "object",
                "properties": {
                    "attachments": {"type": "integer"},
                    "elapsed_ns": {"type": "integer"},
                    "error_code": {"type": "string", "example": "missing_field"},
                    "event_id": {"type": "string", "example": "9f1c2e0d5b6a4c3e8f7d6c5b4a392817"},
                    "exception_type": {"type": "string"},
                    "feedback": {"type": "boolean"},
                    "os_name": {"type": "string", "example": "Windows"},
                    "outcome": {"type": "string", "example": "sent"},
                    "received_at": {"type": "string", "format": "date-time"},
                    "release": {"type": "string", "example": "8.3.24.1342"},
                    "request_id": {"type": "string"}
                }
            },
            "http.RecentResponse": {
                "type": "object",
                "properties": {
                    "items": {"type": "array", "items": {"$ref": "#/components/schemas/domain.Receipt"}},
                    "limit": {"type": "integer", "example": 50}
                }
            },
            "http.HealthResponse": {
                "type": "object",
                "properties": {
                    "now": {"type": "string", "example": "2025-09-03T13:05:00Z"},
                    "ok": {"type": "boolean", "example": true},
                    "service": {"type": "string", "example": "crashrelay-api"},
                    "started": {"type": "string", "example": "2025-09-03T13:00:00Z"}
                }
            },
            "http.ReadyCheck": {
                "type": "object",
                "properties": {
                    "error": {"type": "string"},
                    "name": {"type": "string", "example": "pg"},
                    "status": {"type": "string", "example": "ok"}
                }
            },
            "http.ReadyResponse": {
                "type": "object",
                "properties": {
                    "checks": {"type": "array", "items": {"$ref": "#/components/schemas/http.ReadyCheck"}},
                    "now": {"type": "string", "example": "2025-09-03T13:05:00Z"},
                    "status": {"type": "string", "example": "ok"}
                }
            },
            "http.ServiceResponse": {
                "type": "object",
                "properties": {
                    "name": {"type": "string", "example": "crashrelay-api"},
                    "started": {"type": "string", "example": "2025-09-03T13:00:00Z"},
                    "uptime": {"type": "integer", "example": 300}
                }
            },
            "version.BuildInfo": {
                "type": "object",
                "properties": {
                    "commit": {"type": "string", "example": "4f2a9c1"},
                    "date": {"type": "string", "example": "2025-09-02"},
                    "service": {"type": "string", "example": "crashrelay-api"},
                    "version": {"type": "string", "example": "v0.3.0"}
                }
            },
            "httpkit.Envelope": {
                "type": "object",
                "properties": {
                    "code": {"type": "integer"},
                    "data": {},
                    "error": {"type": "string"},
                    "field": {"type": "string"},
                    "request_id": {"type": "string"},
                    "status": {"type": "string"},
                    "status_code": {"type": "integer"}
                }
            }
        }
    },
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "externalDocs": {"description": "", "url": ""},
    "paths": {
        "/intake/recent": {
            "get": {
                "description": "Receipt metadata for recent uploads, newest first. Report bodies are never stored.",
                "tags": ["Intake"],
                "summary": "Latest processed uploads",
                "parameters": [
                    {"description": "max rows (1..500)", "name": "limit", "in": "query", "schema": {"type": "integer", "default": 50}}
                ],
                "responses": {
                    "200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/http.RecentResponse"}}}},
                    "400": {"description": "Bad Request", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/httpkit.Envelope"}}}},
                    "422": {"description": "Unprocessable Entity", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/httpkit.Envelope"}}}},
                    "503": {"description": "Service Unavailable", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/httpkit.Envelope"}}}}
                }
            }
        },
        "/meta/health": {
            "get": {
                "tags": ["Meta"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/http.HealthResponse"}}}}
                }
            }
        },
        "/meta/ready": {
            "get": {
                "description": "Backends that are not configured report skipped and do not degrade readiness.",
                "tags": ["Meta"],
                "summary": "Readiness probe with dependency checks",
                "responses": {
                    "200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/http.ReadyResponse"}}}}
                }
            }
        },
        "/meta/service": {
            "get": {
                "tags": ["Meta"],
                "summary": "Service info and uptime",
                "responses": {
                    "200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/http.ServiceResponse"}}}}
                }
            }
        },
        "/meta/version": {
            "get": {
                "tags": ["Meta"],
                "summary": "Build and version info",
                "responses": {
                    "200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/version.BuildInfo"}}}}
                }
            }
        }
    },
    "openapi": "3.1.0"
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Title:            "Crashrelay API",
	Description:      "Operator surface of the crash report relay. Report clients use the fixed routes / , /api/getInfo and /api/pushReport outside this document.",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
