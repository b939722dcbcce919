// Package docs registers the API description with swag; served at /swagger/doc.json.
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Create an account",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/model.RegisterRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.LoginResponse"}},
                    "400": {"description": "Invalid input"},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Log in",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/model.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.LoginResponse"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.User"}}}
            }
        },
        "/assessment": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["assessment"],
                "summary": "Assessment state with live stage scores",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Assessment not started"}}
            }
        },
        "/assessment/start": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["assessment"],
                "summary": "Start or resume the assessment",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/assessment/stages/{stage}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["assessment"],
                "summary": "Visible questions of a stage",
                "parameters": [{"type": "integer", "name": "stage", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.StageView"}}}
            }
        },
        "/assessment/stages/{stage}/answers": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["assessment"],
                "summary": "Replace all answers of a stage",
                "parameters": [
                    {"type": "integer", "name": "stage", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/model.SetStageAnswersRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.StageView"}}}
            }
        },
        "/assessment/stages/{stage}/answers/{questionId}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["assessment"],
                "summary": "Answer one question",
                "parameters": [
                    {"type": "integer", "name": "stage", "in": "path", "required": true},
                    {"type": "string", "name": "questionId", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/model.AnswerInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.StageView"}},
                    "403": {"description": "Stage is locked"},
                    "409": {"description": "Question is not visible"}
                }
            }
        },
        "/assessment/stages/{stage}/complete": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["assessment"],
                "summary": "Score a stage and unlock the next one when it passes",
                "parameters": [{"type": "integer", "name": "stage", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.StageResult"}},
                    "502": {"description": "Result computed but not stored"}
                }
            }
        },
        "/assessment/stages/{stage}/save": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["assessment"],
                "summary": "Store the stage record again",
                "parameters": [{"type": "integer", "name": "stage", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Stage not completed"}, "502": {"description": "Record not stored"}}
            }
        },
        "/assessment/result": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["assessment"],
                "summary": "Overall result",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/assessment/reset": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["assessment"],
                "summary": "Discard all answers and start over",
                "responses": {"200": {"description": "OK"}, "502": {"description": "Stored records not deleted"}}
            }
        },
        "/assessment/history": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["assessment"],
                "summary": "Stored stage records",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/catalog/stages/{stage}": {
            "get": {
                "tags": ["catalog"],
                "summary": "Catalog questions of a stage",
                "parameters": [
                    {"type": "integer", "name": "stage", "in": "path", "required": true},
                    {"type": "string", "name": "role", "in": "query", "enum": ["petani", "manajer"]}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/catalog/tiers": {
            "get": {
                "tags": ["catalog"],
                "summary": "Stage and overall tier tables",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "model.RegisterRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string", "enum": ["petani", "manajer"]}
            }
        },
        "model.LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "model.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "model.LoginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/model.User"}
            }
        },
        "model.AnswerInput": {
            "type": "object",
            "properties": {
                "value": {"type": "string"},
                "subAnswers": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {"questionId": {"type": "string"}, "value": {"type": "string"}}
                    }
                }
            }
        },
        "model.SetStageAnswersRequest": {
            "type": "object",
            "properties": {
                "answers": {
                    "type": "array",
                    "items": {
                        "allOf": [
                            {"$ref": "#/definitions/model.AnswerInput"},
                            {"type": "object", "properties": {"questionId": {"type": "string"}}}
                        ]
                    }
                }
            }
        },
        "model.Tier": {
            "type": "object",
            "properties": {
                "minPercentage": {"type": "number"},
                "label": {"type": "string"},
                "colorClass": {"type": "string"},
                "description": {"type": "string"},
                "recommendations": {"type": "array", "items": {"type": "string"}}
            }
        },
        "model.StageView": {
            "type": "object",
            "properties": {
                "stage": {"type": "integer"},
                "title": {"type": "string"},
                "locked": {"type": "boolean"},
                "empty": {"type": "boolean"},
                "questions": {"type": "array", "items": {"type": "object"}},
                "answered": {"type": "integer"},
                "total": {"type": "integer"},
                "score": {"type": "integer"},
                "maxScore": {"type": "integer"},
                "percentage": {"type": "integer"}
            }
        },
        "model.StageResult": {
            "type": "object",
            "properties": {
                "stage": {"type": "integer"},
                "score": {"type": "integer"},
                "maxScore": {"type": "integer"},
                "percentage": {"type": "integer"},
                "tier": {"$ref": "#/definitions/model.Tier"},
                "eligible": {"type": "boolean"},
                "empty": {"type": "boolean"},
                "answered": {"type": "integer"},
                "total": {"type": "integer"},
                "nextStage": {}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "RSPO Readiness API",
	Description:      "Self-assessment of smallholder readiness for RSPO certification",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
