package docs

import "github.com/swaggo/swag"

const docTemplatemap = `{
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
        "/api/markers": {
            "get": {
                "description": "One marker per device, ordered by device id",
                "produces": ["application/json"],
                "tags": ["markers"],
                "summary": "Current markers",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}}
                }
            }
        },
        "/api/markers/nearby": {
            "get": {
                "description": "Markers within radius meters of lat,lng, closest first. Used to plan a pickup route.",
                "produces": ["application/json"],
                "tags": ["markers"],
                "summary": "Markers near a point",
                "parameters": [
                    {"type": "number", "description": "Latitude", "name": "lat", "in": "query", "required": true},
                    {"type": "number", "description": "Longitude", "name": "lng", "in": "query", "required": true},
                    {"type": "number", "description": "Radius in meters, 0 for any distance", "name": "radius", "in": "query"},
                    {"type": "integer", "description": "Max markers (0..1000)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"type": "object"}}
                }
            }
        },
        "/api/stats": {
            "get": {
                "description": "Device count, mean, deviation and range of the fill percentage, bins at or below the alert threshold",
                "produces": ["application/json"],
                "tags": ["markers"],
                "summary": "Fleet statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}}
                }
            }
        },
        "/api/devices/{device_id}": {
            "get": {
                "description": "Current marker of a device with its address when reverse geocoding is enabled",
                "produces": ["application/json"],
                "tags": ["devices"],
                "summary": "Device details",
                "parameters": [
                    {"type": "string", "description": "Device ID", "name": "device_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"type": "object"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Removes the marker and the history of a device and notifies the map clients",
                "produces": ["application/json"],
                "tags": ["devices"],
                "summary": "Forget a device",
                "parameters": [
                    {"type": "string", "description": "Device ID", "name": "device_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object"}},
                    "403": {"description": "Forbidden", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"type": "object"}}
                }
            }
        },
        "/api/devices/{device_id}/history": {
            "get": {
                "description": "Readings of a device in arrival order",
                "produces": ["application/json"],
                "tags": ["devices"],
                "summary": "Device history",
                "parameters": [
                    {"type": "string", "description": "Device ID", "name": "device_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"type": "object"}}
                }
            }
        },
        "/api/devices/{device_id}/history.csv": {
            "get": {
                "description": "Readings of a device in arrival order as CSV",
                "produces": ["text/csv"],
                "tags": ["devices"],
                "summary": "Device history export",
                "parameters": [
                    {"type": "string", "description": "Device ID", "name": "device_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "string"}},
                    "404": {"description": "Not Found", "schema": {"type": "object"}}
                }
            }
        },
        "/api/readings": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Injects one reading through the same pipeline as the broker",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["readings"],
                "summary": "Inject a reading",
                "parameters": [
                    {"description": "Reading", "name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"type": "object"}}
                }
            }
        },
        "/ws/markers": {
            "get": {
                "description": "WebSocket. First frame is a snapshot of all markers, then one frame per change.",
                "tags": ["markers"],
                "summary": "Live marker stream",
                "responses": {
                    "101": {"description": "Switching Protocols"}
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfomap holds exported Swagger Info so clients can modify it
var SwaggerInfomap = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Map Service API",
	Description:      "Map service turns smart bin telemetry into color-coded map markers. Serves the live map, a WebSocket marker stream and a read API.",
	InfoInstanceName: "map",
	SwaggerTemplate:  docTemplatemap,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfomap.InstanceName(), SwaggerInfomap)
}
