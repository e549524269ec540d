package docs

import "github.com/swaggo/swag"

const docTemplatearchive = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "description": "Returns the health status of the service and its dependencies",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object"}}
                }
            }
        },
        "/archive/devices": {
            "get": {
                "description": "Latest archived state of every device",
                "produces": ["application/json"],
                "tags": ["archive"],
                "summary": "Archived devices",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}}
                }
            }
        },
        "/archive/devices/{device_id}/readings": {
            "get": {
                "description": "Latest readings of a device, oldest first",
                "produces": ["application/json"],
                "tags": ["archive"],
                "summary": "Archived readings",
                "parameters": [
                    {"type": "string", "description": "Device ID", "name": "device_id", "in": "path", "required": true},
                    {"type": "integer", "description": "Max readings, 1 to 1000 (default 100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"type": "object"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"type": "object"}}
                }
            }
        }
    }
}`

// SwaggerInfoarchive holds exported Swagger Info so clients can modify it
var SwaggerInfoarchive = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3001",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Archive Service API",
	Description:      "Archive service keeps the reading history of every bin in PostgreSQL.",
	InfoInstanceName: "archive",
	SwaggerTemplate:  docTemplatearchive,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfoarchive.InstanceName(), SwaggerInfoarchive)
}
