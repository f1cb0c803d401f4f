package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Attendance Dashboard API",
        "description": "Student and attendance administration served from the in-memory mock backend",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Students", "description": "Student records"},
        {"name": "Attendances", "description": "Daily attendance records"},
        {"name": "Reports", "description": "Attendance aggregations"},
        {"name": "Classes", "description": "Class rosters"},
        {"name": "Data", "description": "Export and import"},
        {"name": "Mock", "description": "Mock backend administration"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {"200": {"description": "Ready"}}
            }
        },
        "/api/v1/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"},
                    {"name": "sort_by", "in": "query", "type": "string", "enum": ["student_id", "name", "class"]},
                    {"name": "order", "in": "query", "type": "string", "enum": ["asc", "desc"]},
                    {"name": "class", "in": "query", "type": "string"},
                    {"name": "keyword", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            },
            "post": {
                "tags": ["Students"],
                "summary": "Create student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentCreate"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}},
                    "409": {"description": "Student id already exists", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/api/v1/students/{student_id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student",
                "parameters": [{"name": "student_id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "put": {
                "tags": ["Students"],
                "summary": "Update student",
                "parameters": [
                    {"name": "student_id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentUpdate"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete student and their attendance records",
                "parameters": [{"name": "student_id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/api/v1/attendances": {
            "get": {
                "tags": ["Attendances"],
                "summary": "List attendances",
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"},
                    {"name": "student_id", "in": "query", "type": "string"},
                    {"name": "name", "in": "query", "type": "string"},
                    {"name": "class", "in": "query", "type": "string"},
                    {"name": "date", "in": "query", "type": "string", "description": "MM-DD"},
                    {"name": "start_date", "in": "query", "type": "string"},
                    {"name": "end_date", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["present", "absent", "late", "early_leave", "personal_leave", "sick_leave"]},
                    {"name": "sort_by", "in": "query", "type": "string", "enum": ["student_id", "name", "date"]},
                    {"name": "order", "in": "query", "type": "string", "enum": ["asc", "desc"]}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            },
            "post": {
                "tags": ["Attendances"],
                "summary": "Create attendance",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AttendanceCreate"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/api/v1/attendances/batch": {
            "post": {
                "tags": ["Attendances"],
                "summary": "Create one date's attendance for many students, skipping unknown students",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AttendanceBatchCreate"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/api/v1/attendances/{id}": {
            "get": {
                "tags": ["Attendances"],
                "summary": "Get attendance",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            },
            "put": {
                "tags": ["Attendances"],
                "summary": "Update attendance",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AttendanceUpdate"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            },
            "delete": {
                "tags": ["Attendances"],
                "summary": "Delete attendance",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/api/v1/reports/daily": {
            "get": {
                "tags": ["Reports"],
                "summary": "Daily report",
                "parameters": [
                    {"name": "date", "in": "query", "required": true, "type": "string"},
                    {"name": "class", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/api/v1/reports/details": {
            "get": {
                "tags": ["Reports"],
                "summary": "Per-student attendance details over a period",
                "parameters": [
                    {"name": "start_date", "in": "query", "required": true, "type": "string"},
                    {"name": "end_date", "in": "query", "required": true, "type": "string"},
                    {"name": "class", "in": "query", "type": "string"},
                    {"name": "student_id", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/api/v1/reports/summary": {
            "get": {
                "tags": ["Reports"],
                "summary": "Per-student totals over a period",
                "parameters": [
                    {"name": "start_date", "in": "query", "required": true, "type": "string"},
                    {"name": "end_date", "in": "query", "required": true, "type": "string"},
                    {"name": "class", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/api/v1/reports/abnormal": {
            "get": {
                "tags": ["Reports"],
                "summary": "Absent, late and early-leave records",
                "parameters": [
                    {"name": "start_date", "in": "query", "required": true, "type": "string"},
                    {"name": "end_date", "in": "query", "required": true, "type": "string"},
                    {"name": "class", "in": "query", "type": "string"},
                    {"name": "type", "in": "query", "type": "string", "enum": ["absent", "late", "early_leave"]}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/api/v1/reports/leave": {
            "get": {
                "tags": ["Reports"],
                "summary": "Personal and sick leave records",
                "parameters": [
                    {"name": "start_date", "in": "query", "required": true, "type": "string"},
                    {"name": "end_date", "in": "query", "required": true, "type": "string"},
                    {"name": "class", "in": "query", "type": "string"},
                    {"name": "type", "in": "query", "type": "string", "enum": ["personal_leave", "sick_leave"]}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/api/v1/classes": {
            "get": {
                "tags": ["Classes"],
                "summary": "List classes with headcount",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/api/v1/classes/{name}/students": {
            "get": {
                "tags": ["Classes"],
                "summary": "Class roster",
                "parameters": [{"name": "name", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/api/v1/data/export": {
            "get": {
                "tags": ["Data"],
                "summary": "Export data",
                "produces": ["application/json", "text/csv", "application/pdf"],
                "parameters": [
                    {"name": "type", "in": "query", "required": true, "type": "string", "enum": ["students", "attendances", "all"]},
                    {"name": "format", "in": "query", "type": "string", "enum": ["json", "csv", "pdf"]}
                ],
                "responses": {"200": {"description": "Raw export content"}}
            }
        },
        "/api/v1/data/import": {
            "post": {
                "tags": ["Data"],
                "summary": "Import a CSV or JSON file",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "type", "in": "formData", "required": true, "type": "string", "enum": ["students", "attendances"]},
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/admin/mock/stats": {
            "get": {
                "tags": ["Mock"],
                "summary": "Mock database statistics",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/admin/mock/reset": {
            "post": {
                "tags": ["Mock"],
                "summary": "Regenerate the mock database",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/admin/metrics": {
            "get": {
                "tags": ["Mock"],
                "summary": "Request counters snapshot",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        }
    },
    "definitions": {
        "StudentCreate": {
            "type": "object",
            "required": ["student_id", "name", "class"],
            "properties": {
                "student_id": {"type": "string"},
                "name": {"type": "string"},
                "class": {"type": "string"}
            }
        },
        "StudentUpdate": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "class": {"type": "string"}
            }
        },
        "AttendanceCreate": {
            "type": "object",
            "required": ["student_id", "date", "status"],
            "properties": {
                "student_id": {"type": "string"},
                "date": {"type": "string", "description": "MM-DD"},
                "status": {"type": "string"},
                "remark": {"type": "string"}
            }
        },
        "AttendanceBatchCreate": {
            "type": "object",
            "required": ["date", "records"],
            "properties": {
                "date": {"type": "string"},
                "records": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "student_id": {"type": "string"},
                            "status": {"type": "string"}
                        }
                    }
                }
            }
        },
        "AttendanceUpdate": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "remark": {"type": "string"}
            }
        },
        "Envelope": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"},
                "data": {"type": "object"}
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
