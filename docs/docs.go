// Package docs Track Synthesizer API.
//
// Генерация детерминированных синтетических GPS-треков, сегментов и попыток
// для нагрузочного тестирования и демо-данных.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
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
        "/api/v1/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object"}}
                }
            }
        },
        "/api/v1/scenarios": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Scenarios"],
                "summary": "Generate scenario",
                "parameters": [
                    {"description": "Параметры сценария", "name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"type": "object"}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object"}}
                }
            }
        },
        "/api/v1/scenarios/{key}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Scenarios"],
                "summary": "Get scenario summary",
                "parameters": [
                    {"type": "string", "description": "Ключ сценария", "name": "key", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"type": "object"}}
                }
            },
            "delete": {
                "tags": ["Scenarios"],
                "summary": "Delete scenario",
                "parameters": [
                    {"type": "string", "description": "Ключ сценария", "name": "key", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"type": "object"}}
                }
            }
        },
        "/api/v1/scenarios/{key}/segments": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Scenarios"],
                "summary": "List scenario segments",
                "parameters": [
                    {"type": "string", "description": "Ключ сценария", "name": "key", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"type": "object"}}
                }
            }
        },
        "/api/v1/tracks/preview": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Tracks"],
                "summary": "Preview track",
                "parameters": [
                    {"description": "Параметры трека", "name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object"}}
                }
            }
        },
        "/api/v1/segments/climbs": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Segments"],
                "summary": "Detect climbs",
                "parameters": [
                    {"description": "Точки трека с высотой", "name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object"}}
                }
            }
        },
        "/api/v1/segments/{id}/leaderboard": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Segments"],
                "summary": "Segment leaderboard",
                "parameters": [
                    {"type": "string", "description": "ID сегмента", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "Количество строк (1-100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object"}}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Track Synthesizer API",
	Description:      "Детерминированная генерация синтетических треков, сегментов и попыток.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
