// Package docs registers the OpenAPI document served under /swagger.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "paths": {
        "/tournaments": {
            "get": {
                "summary": "List tournaments of the caller's team, newest first",
                "parameters": [{"name": "status", "in": "query", "type": "string", "enum": ["scheduled", "active", "completed"]}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "422": {"description": "Invalid status"}}
            },
            "post": {
                "summary": "Create a round-robin tournament",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/createTournamentRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Malformed body"}, "422": {"description": "Validation failed"}}
            }
        },
        "/tournaments/{tournamentID}": {
            "get": {
                "summary": "Get a tournament with matches and standings",
                "parameters": [{"name": "tournamentID", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/tournaments/{tournamentID}/matches": {
            "get": {
                "summary": "List matches in generated order",
                "parameters": [
                    {"name": "tournamentID", "in": "path", "required": true, "type": "string"},
                    {"name": "player_id", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/tournaments/{tournamentID}/leaderboard": {
            "get": {
                "summary": "Ranked standings",
                "parameters": [{"name": "tournamentID", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/tournaments/{tournamentID}/status": {
            "patch": {
                "summary": "Change tournament status",
                "parameters": [
                    {"name": "tournamentID", "in": "path", "required": true, "type": "string"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/updateStatusRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}, "409": {"description": "Invalid transition or concurrent change"}}
            }
        },
        "/matches/{matchID}/score": {
            "post": {
                "summary": "Submit a score for a pending match",
                "parameters": [
                    {"name": "matchID", "in": "path", "required": true, "type": "string"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/submitScoreRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Not a participant"}, "409": {"description": "Match not pending"}}
            }
        },
        "/matches/{matchID}/approve": {
            "post": {
                "summary": "Approve the opponent's submitted score",
                "parameters": [{"name": "matchID", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Submitter or non-participant"}, "409": {"description": "Match not submitted"}}
            }
        },
        "/matches/{matchID}/dispute": {
            "post": {
                "summary": "Reject the opponent's submitted score",
                "parameters": [
                    {"name": "matchID", "in": "path", "required": true, "type": "string"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/disputeScoreRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Submitter or non-participant"}, "409": {"description": "Match not submitted"}}
            }
        },
        "/teams/me": {
            "get": {
                "summary": "The caller's team and its members",
                "responses": {"200": {"description": "OK"}, "404": {"description": "No team"}}
            }
        },
        "/teams/{teamID}/members": {
            "post": {
                "summary": "Add a member to a team",
                "parameters": [
                    {"name": "teamID", "in": "path", "required": true, "type": "string"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/addMemberRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "403": {"description": "Not a member"}, "409": {"description": "User in another team"}}
            }
        }
    },
    "definitions": {
        "createTournamentRequest": {
            "type": "object",
            "required": ["name", "participant_ids", "start_date", "end_date"],
            "properties": {
                "name": {"type": "string"},
                "participant_ids": {"type": "array", "items": {"type": "string"}},
                "start_date": {"type": "string", "format": "date-time"},
                "end_date": {"type": "string", "format": "date-time"}
            }
        },
        "updateStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {"status": {"type": "string", "enum": ["scheduled", "active", "completed"]}}
        },
        "submitScoreRequest": {
            "type": "object",
            "required": ["score1", "score2"],
            "properties": {"score1": {"type": "integer", "minimum": 0, "maximum": 9999}, "score2": {"type": "integer", "minimum": 0, "maximum": 9999}}
        },
        "disputeScoreRequest": {
            "type": "object",
            "required": ["reason"],
            "properties": {"reason": {"type": "string", "maxLength": 500}}
        },
        "addMemberRequest": {
            "type": "object",
            "required": ["user_id"],
            "properties": {"user_id": {"type": "string"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Tournament League API",
	Description:      "Round-robin leagues with two-party score confirmation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
