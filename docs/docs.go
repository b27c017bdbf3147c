package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "TodoLive API Documentation",
        "title": "TodoLive API",
        "version": "1.0"
    },
    "host": "localhost:8080",
    "basePath": "/api/v1",
    "schemes": ["http"],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Health Check",
                "description": "Check if server is running",
                "responses": {
                    "200": {
                        "description": "Server is healthy"
                    }
                }
            }
        },
        "/api/v1/todos": {
            "get": {
                "tags": ["Todos"],
                "summary": "List Todos",
                "description": "List all todos belonging to the authenticated user",
                "produces": ["application/json"],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Todo list"
                    },
                    "401": {
                        "description": "Unauthorized"
                    }
                }
            },
            "post": {
                "tags": ["Todos"],
                "summary": "Create Todo",
                "description": "Create a new todo for the authenticated user",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "todo",
                        "description": "Todo fields",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "title": {
                                    "type": "string",
                                    "example": "Buy milk"
                                },
                                "description": {
                                    "type": "string",
                                    "example": "2% only"
                                },
                                "priority": {
                                    "type": "string",
                                    "enum": ["low", "medium", "high"],
                                    "example": "high"
                                },
                                "due_date": {
                                    "type": "string",
                                    "example": "2026-09-15"
                                },
                                "tags": {
                                    "type": "string",
                                    "example": "errands, food"
                                }
                            }
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Todo created successfully"
                    },
                    "400": {
                        "description": "Invalid input"
                    },
                    "401": {
                        "description": "Unauthorized"
                    }
                }
            }
        },
        "/api/v1/todos/stats": {
            "get": {
                "tags": ["Todos"],
                "summary": "Todo Statistics",
                "description": "Report total, pending and completed counts for the authenticated user",
                "produces": ["application/json"],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Todo counts"
                    },
                    "401": {
                        "description": "Unauthorized"
                    }
                }
            }
        },
        "/api/v1/todos/{id}/toggle": {
            "post": {
                "tags": ["Todos"],
                "summary": "Toggle Todo",
                "description": "Flip the completion state of a todo",
                "produces": ["application/json"],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Todo ID"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Updated todo"
                    },
                    "404": {
                        "description": "Todo not found"
                    }
                }
            }
        },
        "/api/v1/todos/{id}": {
            "delete": {
                "tags": ["Todos"],
                "summary": "Delete Todo",
                "description": "Delete a todo belonging to the authenticated user",
                "produces": ["application/json"],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Todo ID"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Todo deleted"
                    },
                    "404": {
                        "description": "Todo not found"
                    }
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type 'Bearer' followed by a space and JWT token"
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "TodoLive API",
	Description:      "TodoLive API Documentation",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
