// Package docs registers the OpenAPI document served under /swagger/.
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
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["platform"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["identity"],
                "summary": "Create user",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/identity.CreateUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/identity.UserResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/users/{username}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["identity"],
                "summary": "Get user",
                "parameters": [{"type": "string", "name": "username", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/identity.UserResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["identity"],
                "summary": "Delete user",
                "parameters": [{"type": "string", "name": "username", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/users/{username}/projects": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["identity"],
                "summary": "Replace user projects",
                "parameters": [
                    {"type": "string", "name": "username", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/identity.UpdateUserProjectsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/identity.UserResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "500": {"description": "Sync unavailable", "schema": {"$ref": "#/definitions/SyncFailureResponse"}}
                }
            }
        },
        "/teams": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["identity"],
                "summary": "Create team",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/identity.CreateTeamRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/identity.TeamResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/teams/{name}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["identity"],
                "summary": "Get team",
                "parameters": [{"type": "string", "name": "name", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/identity.TeamResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["identity"],
                "summary": "Rename team",
                "parameters": [
                    {"type": "string", "name": "name", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/identity.RenameTeamRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/identity.RenameTeamResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "500": {"description": "Sync unavailable", "schema": {"$ref": "#/definitions/SyncFailureResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["identity"],
                "summary": "Delete team",
                "parameters": [{"type": "string", "name": "name", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/identity.DeleteTeamResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/projects": {
            "get": {
                "produces": ["application/json"],
                "tags": ["issues"],
                "summary": "List team projects",
                "parameters": [{"type": "string", "name": "team_name", "in": "query", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/issues.ListProjectsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["issues"],
                "summary": "Create project",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/issues.CreateProjectRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/issues.ProjectResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "500": {"description": "Sync unavailable", "schema": {"$ref": "#/definitions/SyncFailureResponse"}}
                }
            }
        },
        "/projects/{owner}/{name}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["issues"],
                "summary": "Get project",
                "parameters": [
                    {"type": "string", "name": "owner", "in": "path", "required": true},
                    {"type": "string", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/issues.ProjectResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["issues"],
                "summary": "Update project",
                "parameters": [
                    {"type": "string", "name": "owner", "in": "path", "required": true},
                    {"type": "string", "name": "name", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/issues.UpdateProjectRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/issues.ProjectResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "500": {"description": "Sync unavailable", "schema": {"$ref": "#/definitions/SyncFailureResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["issues"],
                "summary": "Delete project",
                "parameters": [
                    {"type": "string", "name": "owner", "in": "path", "required": true},
                    {"type": "string", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/issues.ProjectResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "500": {"description": "Sync unavailable", "schema": {"$ref": "#/definitions/SyncFailureResponse"}}
                }
            }
        }
    },
    "definitions": {
        "ErrorResponse": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}}
        },
        "SyncFailureResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "user": {"$ref": "#/definitions/identity.UserDTO"},
                "team": {"$ref": "#/definitions/identity.TeamDTO"},
                "project": {"$ref": "#/definitions/issues.ProjectDTO"}
            }
        },
        "identity.CreateUserRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "team_name": {"type": "string"}
            }
        },
        "identity.UpdateUserProjectsRequest": {
            "type": "object",
            "properties": {"projects": {"type": "array", "items": {"type": "string"}}}
        },
        "identity.UserDTO": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "team_name": {"type": "string"},
                "projects": {"type": "array", "items": {"type": "string"}},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "identity.UserResponse": {
            "type": "object",
            "properties": {"user": {"$ref": "#/definitions/identity.UserDTO"}}
        },
        "identity.CreateTeamRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "leader": {"type": "string"},
                "website": {"type": "string"}
            }
        },
        "identity.RenameTeamRequest": {
            "type": "object",
            "properties": {"name": {"type": "string"}}
        },
        "identity.TeamDTO": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "leader": {"type": "string"},
                "website": {"type": "string"},
                "members": {"type": "array", "items": {"type": "string"}},
                "projects": {"type": "array", "items": {"type": "string"}},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "identity.TeamResponse": {
            "type": "object",
            "properties": {"team": {"$ref": "#/definitions/identity.TeamDTO"}}
        },
        "identity.RenameTeamResponse": {
            "type": "object",
            "properties": {
                "team": {"$ref": "#/definitions/identity.TeamDTO"},
                "members_updated": {"type": "integer"},
                "members_failed": {"type": "integer"}
            }
        },
        "identity.DeleteTeamResponse": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "members_cleared": {"type": "integer"}
            }
        },
        "issues.CreateProjectRequest": {
            "type": "object",
            "properties": {
                "owner": {"type": "string"},
                "name": {"type": "string"},
                "website": {"type": "string"},
                "description": {"type": "string"},
                "license": {"type": "string"},
                "team_name": {"type": "string"}
            }
        },
        "issues.UpdateProjectRequest": {
            "type": "object",
            "properties": {
                "website": {"type": "string"},
                "description": {"type": "string"},
                "license": {"type": "string"},
                "team_name": {"type": "string"},
                "contributors": {"type": "array", "items": {"type": "string"}}
            }
        },
        "issues.ProjectDTO": {
            "type": "object",
            "properties": {
                "ref": {"type": "string"},
                "owner": {"type": "string"},
                "name": {"type": "string"},
                "website": {"type": "string"},
                "description": {"type": "string"},
                "license": {"type": "string"},
                "contributors": {"type": "array", "items": {"type": "string"}},
                "team_name": {"type": "string"},
                "issue_ids": {"type": "array", "items": {"type": "string"}},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "issues.ProjectResponse": {
            "type": "object",
            "properties": {"project": {"$ref": "#/definitions/issues.ProjectDTO"}}
        },
        "issues.ListProjectsResponse": {
            "type": "object",
            "properties": {"items": {"type": "array", "items": {"$ref": "#/definitions/issues.ProjectDTO"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "entomophage API",
	Description:      "Identity and issue services kept in step over the sync broker.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
