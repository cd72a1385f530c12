package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Inscripciones TRA API",
        "description": "Instructor course-registration service",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Instructors", "description": "Instructor selection and eligibility"},
        {"name": "Courses", "description": "Scheduled course instances"},
        {"name": "Enrollments", "description": "Enrollment ledger"},
        {"name": "Reference Data", "description": "Reference table administration"}
    ],
    "paths": {
        "/instructors": {
            "get": {
                "tags": ["Instructors"],
                "summary": "List instructor names",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/instructors/{name}/courses": {
            "get": {
                "tags": ["Instructors"],
                "summary": "Courses the instructor is authorized to register for",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No eligible courses", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{code}/instances": {
            "get": {
                "tags": ["Courses"],
                "summary": "Scheduled instances for a year",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"},
                    {"name": "year", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No instances for year", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "List confirmed enrollments",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Enrollments"],
                "summary": "Confirm an enrollment",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Course not authorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Capacity exceeded or duplicate enrollment", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments/export": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "Download the enrollment roster",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Roster file"}
                }
            }
        },
        "/refdata/refresh": {
            "post": {
                "tags": ["Reference Data"],
                "summary": "Reload the reference tables",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Reference data format invalid", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/refdata/status": {
            "get": {
                "tags": ["Reference Data"],
                "summary": "Reference snapshot status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "EnrollRequest": {
            "type": "object",
            "properties": {
                "instructor": {"type": "string"},
                "course_code": {"type": "string"},
                "virtual_start": {"type": "string"},
                "onsite_start": {"type": "string"}
            },
            "required": ["instructor", "course_code"]
        },
        "EnrollmentRecord": {
            "type": "object",
            "properties": {
                "instructor": {"type": "string"},
                "course_code": {"type": "string"},
                "virtual_start": {"type": "string"},
                "onsite_start": {"type": "string"}
            }
        },
        "CourseInstance": {
            "type": "object",
            "properties": {
                "course_code": {"type": "string"},
                "year": {"type": "integer"},
                "virtual_start": {"type": "string"},
                "virtual_end": {"type": "string"},
                "onsite_start": {"type": "string"},
                "onsite_end": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
