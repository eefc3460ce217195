// Package docs holds the OpenAPI description served at /swagger.
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
        "/show/now-playing": {
            "get": {
                "tags": ["movies"],
                "summary": "Movies currently in theaters",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/show/add": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["shows"],
                "summary": "Schedule shows for a movie",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/AddShowsRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}}
            }
        },
        "/show/all": {
            "get": {
                "tags": ["shows"],
                "summary": "Movies with at least one upcoming show",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/show/{movieId}": {
            "get": {
                "tags": ["shows"],
                "summary": "A movie and its upcoming showtimes grouped by date",
                "parameters": [{"in": "path", "name": "movieId", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/booking/seats/{showId}": {
            "get": {
                "tags": ["bookings"],
                "summary": "Seats held or sold for a show",
                "parameters": [{"in": "path", "name": "showId", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/booking/create": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["bookings"],
                "summary": "Hold seats and open a checkout session",
                "description": "Seat ids are trimmed and upper-cased before they are held, so \"a1\" and \"A1\" name the same seat. Duplicates are dropped.",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/CreateBookingRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/user/bookings": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["bookings"],
                "summary": "The caller's bookings, newest first",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/user/update-favorite": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Toggle a movie in the caller's favorites",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/UpdateFavoriteRequest"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/user/favorites": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "The caller's favorite movies",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/admin/is-admin": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Whether the caller is an admin", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/admin/dashboard": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Booking, revenue, show and user totals", "description": "Cached for up to 30 seconds; a confirmed payment clears the cache.", "responses": {"200": {"description": "OK"}}}
        },
        "/admin/all-shows": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Upcoming shows with movies", "responses": {"200": {"description": "OK"}}}
        },
        "/admin/all-bookings": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "All bookings, newest first", "responses": {"200": {"description": "OK"}}}
        },
        "/stripe/webhook": {
            "post": {"tags": ["webhooks"], "summary": "Payment provider events", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad signature"}}}
        },
        "/auth/webhook": {
            "post": {
                "tags": ["webhooks"],
                "summary": "Identity provider user events",
                "parameters": [
                    {"in": "header", "name": "svix-id", "type": "string", "required": true},
                    {"in": "header", "name": "svix-timestamp", "type": "string", "required": true},
                    {"in": "header", "name": "svix-signature", "type": "string", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad signature"}}
            }
        }
    },
    "definitions": {
        "AddShowsRequest": {
            "type": "object",
            "required": ["movieId", "showsInput", "showPrice"],
            "properties": {
                "movieId": {"type": "string"},
                "showPrice": {"type": "number"},
                "showsInput": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "date": {"type": "string", "example": "2026-11-02"},
                            "time": {"type": "string", "example": "18:30"}
                        }
                    }
                }
            }
        },
        "CreateBookingRequest": {
            "type": "object",
            "required": ["showId", "selectedSeats"],
            "properties": {
                "showId": {"type": "string"},
                "selectedSeats": {"type": "array", "description": "case-insensitive seat ids", "items": {"type": "string", "example": "A1"}}
            }
        },
        "UpdateFavoriteRequest": {
            "type": "object",
            "required": ["movieId"],
            "properties": {"movieId": {"type": "string"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "QuickShow API",
	Description:      "Movie ticket booking backend.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
