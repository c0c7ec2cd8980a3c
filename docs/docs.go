// Package docs 接口文档，由 swag init -g cmd/server/main.go 生成后按需维护
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
        "/books/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["小说"],
                "summary": "小说详情",
                "parameters": [
                    {"type": "string", "description": "小说ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "小说不存在", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/books/{id}/chapters": {
            "get": {
                "produces": ["application/json"],
                "tags": ["小说"],
                "summary": "章节目录",
                "parameters": [
                    {"type": "string", "description": "小说ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "页码", "name": "page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/books/{id}/chapters/{cid}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["小说"],
                "summary": "章节阅读",
                "parameters": [
                    {"type": "string", "description": "小说ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "章节ID", "name": "cid", "in": "path", "required": true},
                    {"type": "integer", "description": "页码", "name": "page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/sorts/{sort}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["列表"],
                "summary": "分类列表",
                "parameters": [
                    {"type": "string", "description": "分类ID或代码", "name": "sort", "in": "path", "required": true},
                    {"type": "integer", "description": "页码", "name": "page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/ranks/{code}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["列表"],
                "summary": "排行榜",
                "parameters": [
                    {"type": "string", "description": "排行榜代码", "name": "code", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/authors/{name}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["列表"],
                "summary": "作者作品",
                "parameters": [
                    {"type": "string", "description": "作者名", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/search": {
            "get": {
                "produces": ["application/json"],
                "tags": ["列表"],
                "summary": "搜索",
                "parameters": [
                    {"type": "string", "description": "关键词", "name": "q", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "关键词过短或搜索已关闭", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/langs/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["小说"],
                "summary": "长尾词页",
                "parameters": [
                    {"type": "string", "description": "长尾词ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        }
    },
    "definitions": {
        "response.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {},
                "message": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "NovelSite API",
	Description:      "多站点小说目录只读接口",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
