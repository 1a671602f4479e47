// Package docs holds the Swagger document served at /swagger. It is maintained by hand against the handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "description": "Returns API status",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Root endpoint",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Check API and database health",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/Auth/SignIn": {
            "post": {
                "description": "Verify email and password and open a session",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Sign in",
                "parameters": [
                    {"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.SignInInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Problem"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Problem"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/response.Problem"}}
                }
            }
        },
        "/Auth/Refresh": {
            "post": {
                "description": "Exchange a refresh token (body or cookie) for a new token pair. The old refresh token is revoked.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Refresh session",
                "parameters": [
                    {"description": "Refresh token", "name": "body", "in": "body", "schema": {"$ref": "#/definitions/services.RefreshInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Problem"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/response.Problem"}}
                }
            }
        },
        "/Auth/SignOut": {
            "post": {
                "description": "Revoke the given refresh token. Always succeeds.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Sign out",
                "parameters": [
                    {"description": "Refresh token", "name": "body", "in": "body", "schema": {"$ref": "#/definitions/services.RefreshInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/Auth/SignOutAll": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Revoke all refresh tokens of the caller",
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Sign out everywhere",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Problem"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.Problem"}}
                }
            }
        },
        "/Auth/Me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Identity carried by the access token. The account store is not consulted.",
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Get current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Problem"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.Problem"}}
                }
            }
        },
        "/OwnerCustomers": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Customers of the generator owner identified by the access token",
                "produces": ["application/json"],
                "tags": ["OwnerCustomers"],
                "summary": "List owner customers",
                "parameters": [
                    {"type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "default": 50, "description": "Items per page", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Business Rule Violation", "schema": {"$ref": "#/definitions/response.Problem"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Problem"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.Problem"}}
                }
            }
        },
        "/Users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Get a paginated list of all users (Admin only)",
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "List all users",
                "parameters": [
                    {"type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "default": 50, "description": "Items per page", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Problem"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.Problem"}}
                }
            }
        },
        "/Users/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Get a specific user by ID (Admin only)",
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Get user by ID",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Problem"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Problem"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.Problem"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Problem"}}
                }
            }
        }
    },
    "definitions": {
        "response.Problem": {
            "type": "object",
            "properties": {
                "correlationId": {"type": "string"},
                "detail": {"type": "string"},
                "status": {"type": "integer"},
                "title": {"type": "string"},
                "type": {"type": "string"}
            }
        },
        "response.Response": {
            "type": "object",
            "properties": {
                "correlationId": {"type": "string"},
                "data": {},
                "message": {"type": "string"}
            }
        },
        "services.RefreshInput": {
            "type": "object",
            "properties": {
                "refreshToken": {"type": "string"}
            }
        },
        "services.SignInInput": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "maxLength": 150},
                "password": {"type": "string", "maxLength": 200}
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

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Generator Back Office API",
	Description:      "Authentication gateway and tenant-scoped data for generator owners.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
