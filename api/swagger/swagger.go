package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Academia API",
        "description": "Academic records service: courses, students, professors, enrollments and reports",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Courses", "description": "Course catalog with derived difficulty and load"},
        {"name": "Students", "description": "Student registry with derived age and semester"},
        {"name": "Professors", "description": "Professor registry with derived experience"},
        {"name": "Enrollments", "description": "Student ↔ course enrollments and grades"},
        {"name": "Reports", "description": "Aggregate academic reports"}
    ],
    "paths": {
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses with derived classification",
                "parameters": [
                    {"name": "credits", "in": "query", "type": "integer"},
                    {"name": "level", "in": "query", "type": "string"},
                    {"name": "load", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Courses"],
                "summary": "Create course",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CourseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"},
                    "409": {"description": "Course code already used"}
                }
            }
        },
        "/courses/{id}": {
            "get": {
                "tags": ["Courses"],
                "summary": "Get course detail",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Courses"],
                "summary": "Replace course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CourseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"},
                    "409": {"description": "Course code already used"}
                }
            },
            "delete": {
                "tags": ["Courses"],
                "summary": "Delete course",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/courses/code/{code}": {
            "get": {
                "tags": ["Courses"],
                "summary": "Get course by code",
                "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/courses/sorted/credits": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses ordered by credits",
                "parameters": [{"name": "order", "in": "query", "type": "string", "enum": ["asc", "desc"]}],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students with derived fields",
                "parameters": [
                    {"name": "lastname", "in": "query", "type": "string"},
                    {"name": "term", "in": "query", "type": "string"},
                    {"name": "minAge", "in": "query", "type": "integer"},
                    {"name": "maxAge", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Register student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation error"},
                    "409": {"description": "ID number or email already used"}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student detail",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Students"],
                "summary": "Replace student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"},
                    "409": {"description": "ID number or email already used"}
                }
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete student",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/students/id-number/{idNumber}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student by institutional ID number",
                "parameters": [{"name": "idNumber", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/students/email/{email}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student by email",
                "parameters": [{"name": "email", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/students/sorted/enrolled-at": {
            "get": {
                "tags": ["Students"],
                "summary": "List students ordered by enrollment-start date",
                "parameters": [{"name": "order", "in": "query", "type": "string", "enum": ["asc", "desc"]}],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/professors": {
            "get": {
                "tags": ["Professors"],
                "summary": "List professors with derived experience",
                "parameters": [
                    {"name": "specialty", "in": "query", "type": "string"},
                    {"name": "minYears", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Professors"],
                "summary": "Register professor",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProfessorRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation error"},
                    "409": {"description": "Email already used"}
                }
            }
        },
        "/professors/{id}": {
            "get": {
                "tags": ["Professors"],
                "summary": "Get professor detail",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Professors"],
                "summary": "Replace professor",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProfessorRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"},
                    "409": {"description": "Email already used"}
                }
            },
            "delete": {
                "tags": ["Professors"],
                "summary": "Delete professor",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/professors/email/{email}": {
            "get": {
                "tags": ["Professors"],
                "summary": "Get professor by email",
                "parameters": [{"name": "email", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/enrollments": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "List enrollments",
                "parameters": [
                    {"name": "studentId", "in": "query", "type": "integer"},
                    {"name": "courseId", "in": "query", "type": "integer"},
                    {"name": "term", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Enrollments"],
                "summary": "Enroll a student in a course",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/enrollments/{id}": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "Get enrollment detail",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Enrollments"],
                "summary": "Replace enrollment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollmentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Enrollments"],
                "summary": "Delete enrollment",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/reports/courses-per-professor": {
            "get": {
                "tags": ["Reports"],
                "summary": "Courses taught per professor",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/average-grade-per-course": {
            "get": {
                "tags": ["Reports"],
                "summary": "Average final grade per course",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/students-per-term": {
            "get": {
                "tags": ["Reports"],
                "summary": "Distinct students per academic term",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/top-courses": {
            "get": {
                "tags": ["Reports"],
                "summary": "Best-averaging courses (top 3)",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/summary": {
            "get": {
                "tags": ["Reports"],
                "summary": "All four reports in one payload",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/summary/export": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download the report summary as CSV or PDF",
                "parameters": [{"name": "format", "in": "query", "required": true, "type": "string", "enum": ["csv", "pdf"]}],
                "produces": ["text/csv", "application/pdf"],
                "responses": {
                    "200": {"description": "File"},
                    "400": {"description": "Unsupported format"}
                }
            }
        }
    },
    "definitions": {
        "CourseRequest": {
            "type": "object",
            "required": ["code", "name", "credits", "professor_id"],
            "properties": {
                "code": {"type": "string", "maxLength": 20},
                "name": {"type": "string", "maxLength": 150},
                "description": {"type": "string", "maxLength": 500},
                "credits": {"type": "integer", "minimum": 1, "maximum": 10},
                "weekly_hours": {"type": "integer", "minimum": 1, "maximum": 20},
                "professor_id": {"type": "integer"}
            }
        },
        "StudentRequest": {
            "type": "object",
            "required": ["id_number", "first_name", "last_name", "email"],
            "properties": {
                "id_number": {"type": "string", "maxLength": 20},
                "first_name": {"type": "string", "maxLength": 100},
                "last_name": {"type": "string", "maxLength": 100},
                "email": {"type": "string", "format": "email"},
                "phone": {"type": "string"},
                "birth_date": {"type": "string", "format": "date-time"},
                "enrolled_at": {"type": "string", "format": "date-time"}
            }
        },
        "ProfessorRequest": {
            "type": "object",
            "required": ["first_name", "last_name", "email"],
            "properties": {
                "first_name": {"type": "string", "maxLength": 100},
                "last_name": {"type": "string", "maxLength": 100},
                "email": {"type": "string", "format": "email"},
                "phone": {"type": "string"},
                "specialty": {"type": "string"},
                "hired_at": {"type": "string", "format": "date-time"}
            }
        },
        "EnrollmentRequest": {
            "type": "object",
            "required": ["student_id", "course_id", "academic_term"],
            "properties": {
                "student_id": {"type": "integer"},
                "course_id": {"type": "integer"},
                "enrolled_on": {"type": "string", "format": "date-time"},
                "academic_term": {"type": "string", "maxLength": 50},
                "final_grade": {"type": "number", "minimum": 0, "maximum": 100}
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
