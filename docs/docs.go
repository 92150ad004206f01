// Package docs registers the Swagger document served at /api/swagger.
// The path table is maintained by hand alongside the routes in
// internal/server; TestSwaggerDocumentsEveryRoute fails when they diverge.
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
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Log in with email or username",
                "responses": {
                    "200": {"description": "token and user"},
                    "401": {"description": "invalid credentials"}
                }
            }
        },
        "/auth/signup": {
            "post": {
                "tags": ["auth"],
                "summary": "Create an account",
                "responses": {
                    "201": {"description": "token and user"},
                    "400": {"description": "invalid input"},
                    "409": {"description": "email or username taken"}
                }
            }
        },
        "/posts": {
            "get": {
                "tags": ["posts"],
                "summary": "List posts with keyset pagination",
                "parameters": [
                    {"type": "string", "enum": ["new", "top"], "name": "sort", "in": "query"},
                    {"type": "string", "description": "opaque next_cursor from the previous page", "name": "cursor", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "posts, each with its time-decayed rank, and next_cursor"},
                    "400": {"description": "bad sort, cursor or limit"}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["posts"],
                "summary": "Submit a link or text post",
                "responses": {
                    "201": {"description": "created post"},
                    "400": {"description": "invalid post"}
                }
            }
        },
        "/posts/{id}": {
            "get": {
                "tags": ["posts"],
                "summary": "Get a post",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "post"},
                    "404": {"description": "no such post"}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["posts"],
                "summary": "Edit your own post",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "updated post"},
                    "403": {"description": "not the author"}
                }
            }
        },
        "/posts/{id}/comments": {
            "get": {
                "tags": ["comments"],
                "summary": "Comment forest of a post",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "forest, [] when there are no comments"}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["comments"],
                "summary": "Comment on a post or reply to a comment",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "201": {"description": "created comment"},
                    "400": {"description": "invalid body or parent"},
                    "404": {"description": "no such post"}
                }
            }
        },
        "/posts/{id}/vote": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["votes"],
                "summary": "Cast, flip or retract a vote",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "post_id, score and hot"},
                    "400": {"description": "value is not 1 or -1"},
                    "404": {"description": "no such post"}
                }
            }
        },
        "/users/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "The authenticated user",
                "responses": {
                    "200": {"description": "user"},
                    "401": {"description": "missing or invalid token"}
                }
            }
        },
        "/ws/posts": {
            "get": {
                "tags": ["feed"],
                "summary": "WebSocket stream of newly created posts",
                "responses": {
                    "101": {"description": "switching protocols"},
                    "404": {"description": "live feed disabled"},
                    "426": {"description": "upgrade required"}
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

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Lotusnews API",
	Description:      "Link aggregator API with voting, ranked feeds, threaded comments and a live feed",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
