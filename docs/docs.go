// Package docs registers the strainwise OpenAPI document with swag so that
// http-swagger can serve it at /swagger/doc.json.
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
        "/health": {
            "get": {
                "description": "Reports liveness and build information.",
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/recommend": {
            "post": {
                "description": "Filters the catalog by type, effect and flavor, ranks by effect overlap and experience fit, and returns up to three strains with a description of the top match.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["recommend"],
                "summary": "Recommend strains",
                "parameters": [
                    {"type": "string", "description": "Session to record history under", "name": "X-Session-ID", "in": "header"},
                    {"description": "Preferences, optionally wrapped in a preferences object", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/recommend.Preferences"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/recommend.RecommendResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/server.Problem"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/recommend.NoMatchProblem"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/server.Problem"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/server.Problem"}}
                }
            }
        },
        "/strains": {
            "get": {
                "description": "Returns every catalog strain, optionally filtered by type.",
                "produces": ["application/json"],
                "tags": ["strains"],
                "summary": "List strains",
                "parameters": [
                    {"type": "string", "description": "Indica, Sativa or Hybrid (case-insensitive)", "name": "type", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/catalog.Strain"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/server.Problem"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/server.Problem"}}
                }
            }
        },
        "/strains/{name}": {
            "get": {
                "description": "Looks up a strain by name, case-insensitively.",
                "produces": ["application/json"],
                "tags": ["strains"],
                "summary": "Get strain",
                "parameters": [
                    {"type": "string", "description": "Strain name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/catalog.Strain"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/server.Problem"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/server.Problem"}}
                }
            }
        },
        "/sessions/{id}/preferences": {
            "get": {
                "description": "Returns the preferences most recently submitted under a session.",
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Session preferences",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.SessionPreferences"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/server.Problem"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/server.Problem"}}
                }
            }
        },
        "/sessions/{id}/recommendations": {
            "get": {
                "description": "Returns the recommendations shown to a session, newest first.",
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Session history",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "default": 50, "description": "Page size", "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "description": "Items to skip", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.RecommendationPage"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/server.Problem"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/server.Problem"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/server.Problem"}}
                }
            }
        },
        "/sessions/{id}/recommendations/{rec_id}/rating": {
            "post": {
                "description": "Sets the user's 1 to 5 rating of a recommendation in their session.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Rate recommendation",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Recommendation ID", "name": "rec_id", "in": "path", "required": true},
                    {"description": "Rating", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/recommend.RateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.Recommendation"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/server.Problem"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/server.Problem"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/server.Problem"}}
                }
            }
        }
    },
    "definitions": {
        "catalog.Terpene": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "catalog.Strain": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "type": {"type": "string", "enum": ["Indica", "Sativa", "Hybrid"]},
                "effects": {"type": "array", "items": {"type": "string"}},
                "flavors": {"type": "array", "items": {"type": "string"}},
                "thc_content": {"type": "string", "example": "17-24"},
                "cbd_content": {"type": "string", "example": "0.1-0.2"},
                "description": {"type": "string"},
                "medical_benefits": {"type": "array", "items": {"type": "string"}},
                "terpenes": {"type": "array", "items": {"$ref": "#/definitions/catalog.Terpene"}},
                "growing_time": {"type": "string"},
                "potency_level": {"type": "string"},
                "average_price": {"type": "string"},
                "grow_difficulty": {"type": "string"}
            }
        },
        "recommend.Match": {
            "allOf": [
                {"$ref": "#/definitions/catalog.Strain"},
                {"type": "object", "properties": {"match_score": {"type": "integer"}}}
            ]
        },
        "recommend.Preferences": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "example": "Indica"},
                "effect": {"type": "array", "items": {"type": "string"}, "description": "A string or a list of strings"},
                "flavor": {"type": "array", "items": {"type": "string"}, "description": "A string or a list of strings"},
                "experience": {"type": "string", "enum": ["New to cannabis", "Occasional user", "Experienced user"]}
            }
        },
        "recommend.RecommendResponse": {
            "type": "object",
            "properties": {
                "recommendations": {"type": "array", "items": {"$ref": "#/definitions/recommend.Match"}},
                "description": {"type": "string"},
                "preferences": {"$ref": "#/definitions/recommend.Preferences"},
                "session_id": {"type": "string"}
            }
        },
        "recommend.NoMatchProblem": {
            "allOf": [
                {"$ref": "#/definitions/server.Problem"},
                {
                    "type": "object",
                    "properties": {
                        "error": {"type": "string"},
                        "recommendations": {"type": "array", "items": {"$ref": "#/definitions/recommend.Match"}}
                    }
                }
            ]
        },
        "recommend.RateRequest": {
            "type": "object",
            "properties": {
                "rating": {"type": "integer", "minimum": 1, "maximum": 5}
            }
        },
        "server.Problem": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "title": {"type": "string"},
                "status": {"type": "integer"},
                "detail": {"type": "string"},
                "instance": {"type": "string"}
            }
        },
        "services.Recommendation": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "session_id": {"type": "string"},
                "strain_name": {"type": "string"},
                "rank": {"type": "integer"},
                "match_score": {"type": "integer"},
                "description": {"type": "string"},
                "rating": {"type": "integer"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "services.SessionPreferences": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "type": {"type": "string"},
                "effects": {"type": "array", "items": {"type": "string"}},
                "flavors": {"type": "array", "items": {"type": "string"}},
                "experience": {"type": "string"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "services.RecommendationPage": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/services.Recommendation"}},
                "total": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "strainwise API",
	Description:      "Cannabis strain recommendations from a curated catalog.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
