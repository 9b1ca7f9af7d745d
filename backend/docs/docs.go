// Package docs registers the OpenAPI document served under /swagger. The operations mirror
// the godoc annotations on the controllers.
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
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "paths": {
        "/courses": {
            "get": {"tags": ["courses"], "summary": "List every course", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}}}},
            "post": {
                "tags": ["courses"],
                "summary": "Create a course",
                "description": "The caller becomes the course's TITULAR instructor.",
                "parameters": [{"name": "course", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/courses/{id}": {
            "get": {
                "tags": ["courses"],
                "summary": "Get a course",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            },
            "patch": {
                "tags": ["courses"],
                "summary": "Patch a course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "course", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/courses/{id}/enrollments": {
            "post": {
                "tags": ["enrollments"],
                "summary": "Enroll the caller in a course",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "CourseFull or AlreadyEnrolled", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/courses/{id}/instructors": {
            "post": {
                "tags": ["instructors"],
                "summary": "Add an AUXILIAR instructor (titular only)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.AddInstructorRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}}}
            }
        },
        "/courses/{id}/modules/order": {
            "patch": {
                "tags": ["modules"],
                "summary": "Reorder a course's modules",
                "description": "Listed modules get order = index. Ids of other courses are ignored.",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "order", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.ReorderRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}}}
            }
        },
        "/courses/{id}/tasks": {
            "post": {
                "tags": ["tasks"],
                "summary": "Add a task or exam to a course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "task", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}}}
            }
        },
        "/tasks/{taskId}/submissions": {
            "post": {
                "tags": ["submissions"],
                "summary": "Hand in a task",
                "description": "Exactly at due_date is on time. Timed tasks must be started first.",
                "parameters": [
                    {"name": "taskId", "in": "path", "required": true, "type": "string"},
                    {"name": "submission", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.SubmitRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "LateSubmissionNotAllowed, AlreadySubmitted, TimeLimitExceeded", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/tasks/{taskId}/submissions/{studentId}/feedback": {
            "patch": {
                "tags": ["submissions"],
                "summary": "Grade a submission",
                "parameters": [
                    {"name": "taskId", "in": "path", "required": true, "type": "string"},
                    {"name": "studentId", "in": "path", "required": true, "type": "string"},
                    {"name": "grade", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.GradeRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}}}
            }
        },
        "/courses/{id}/stats": {
            "get": {
                "tags": ["stats"],
                "summary": "Course statistics",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"},
                    {"name": "period", "in": "query", "type": "string", "enum": ["week", "month", "year"]}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}}}
            }
        },
        "/courses/{id}/feedback": {
            "post": {
                "tags": ["feedback"],
                "summary": "Rate a course (enrolled students, once)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "feedback", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.CourseFeedbackRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}}}
            }
        },
        "/assistant/chat": {
            "post": {
                "tags": ["assistant"],
                "summary": "Ask the course assistant",
                "parameters": [{"name": "chat", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.ChatRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}}}
            }
        }
    },
    "definitions": {
        "utils.SuccessResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}, "data": {}, "meta": {}}
        },
        "utils.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "error": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "controllers.ReorderRequest": {
            "type": "object",
            "required": ["order"],
            "properties": {"order": {"type": "array", "items": {"type": "string"}}}
        },
        "controllers.AddInstructorRequest": {
            "type": "object",
            "required": ["userId"],
            "properties": {
                "userId": {"type": "string"},
                "can_create_content": {"type": "boolean"},
                "can_grade": {"type": "boolean"},
                "can_update_course": {"type": "boolean"}
            }
        },
        "controllers.SubmitRequest": {
            "type": "object",
            "properties": {
                "answers": {"type": "array", "items": {"type": "object", "properties": {"question_id": {"type": "string"}, "answer": {"type": "string"}}}},
                "file_url": {"type": "string"},
                "time_spent": {"type": "integer"}
            }
        },
        "controllers.GradeRequest": {
            "type": "object",
            "required": ["grade"],
            "properties": {"grade": {"type": "number", "minimum": 0, "maximum": 10}, "feedback": {"type": "string"}}
        },
        "controllers.CourseFeedbackRequest": {
            "type": "object",
            "required": ["punctuation", "comment"],
            "properties": {"punctuation": {"type": "integer", "minimum": 1, "maximum": 5}, "comment": {"type": "string", "maxLength": 500}}
        },
        "controllers.ChatRequest": {
            "type": "object",
            "required": ["message"],
            "properties": {
                "message": {"type": "string"},
                "history": {"type": "array", "items": {"type": "object", "properties": {"role": {"type": "string"}, "content": {"type": "string"}}}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "aulavirtual API",
	Description:      "Courses, enrollments, tasks, grading and statistics for the virtual classroom.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
