package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dafibh/coinspot/coinspot-backend/docs"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

// OpenAPI3Spec is the subset of an OpenAPI 3.0 document served at /openapi.json
type OpenAPI3Spec struct {
	OpenAPI    string                 `json:"openapi"`
	Info       map[string]interface{} `json:"info"`
	Servers    []Server               `json:"servers"`
	Paths      map[string]interface{} `json:"paths"`
	Components map[string]interface{} `json:"components,omitempty"`
}

// Server represents an OpenAPI 3.0 server
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// OpenAPIHandler converts the generated Swagger 2.0 document to OpenAPI 3.0
type OpenAPIHandler struct {
	servers []Server
}

// NewOpenAPIHandler creates a handler advertising the given servers
func NewOpenAPIHandler(servers ...Server) *OpenAPIHandler {
	return &OpenAPIHandler{servers: servers}
}

// ServeSpec handles GET /openapi.json
func (h *OpenAPIHandler) ServeSpec(c echo.Context) error {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		return NewInternalError(c, "Failed to read swagger doc")
	}

	spec, err := convertSwagger2([]byte(doc), h.servers)
	if err != nil {
		return NewInternalError(c, "Failed to parse swagger doc")
	}
	return c.JSON(http.StatusOK, spec)
}

func convertSwagger2(doc []byte, servers []Server) (*OpenAPI3Spec, error) {
	var swagger2 map[string]interface{}
	if err := json.Unmarshal(doc, &swagger2); err != nil {
		return nil, err
	}

	info, _ := swagger2["info"].(map[string]interface{})
	paths, _ := swagger2["paths"].(map[string]interface{})

	components := make(map[string]interface{})
	if definitions, ok := swagger2["definitions"].(map[string]interface{}); ok {
		components["schemas"] = transformRefs(definitions)
	}

	converted, _ := transformRefs(paths).(map[string]interface{})
	for _, item := range converted {
		operations, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		for _, op := range operations {
			if operation, ok := op.(map[string]interface{}); ok {
				moveBodyParameter(operation)
			}
		}
	}

	return &OpenAPI3Spec{
		OpenAPI:    "3.0.3",
		Info:       info,
		Servers:    servers,
		Paths:      converted,
		Components: components,
	}, nil
}

// transformRefs rewrites #/definitions/ refs to #/components/schemas/ and
// wraps the type fields of non-body parameters in a schema object
func transformRefs(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		if _, hasIn := v["in"]; hasIn {
			if _, hasName := v["name"]; hasName {
				return transformParameter(v)
			}
		}

		result := make(map[string]interface{}, len(v))
		for key, value := range v {
			if ref, ok := value.(string); ok && key == "$ref" {
				result[key] = strings.Replace(ref, "#/definitions/", "#/components/schemas/", 1)
				continue
			}
			result[key] = transformRefs(value)
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = transformRefs(item)
		}
		return result
	default:
		return data
	}
}

func transformParameter(param map[string]interface{}) map[string]interface{} {
	if param["in"] == "body" {
		body := make(map[string]interface{}, len(param))
		for k, v := range param {
			body[k] = transformRefs(v)
		}
		return body
	}

	result := make(map[string]interface{})
	for _, field := range []string{"name", "in", "description", "required"} {
		if val, ok := param[field]; ok {
			result[field] = val
		}
	}

	schema := make(map[string]interface{})
	for _, field := range []string{"type", "format", "enum", "default", "minimum", "maximum", "items"} {
		if val, ok := param[field]; ok {
			schema[field] = transformRefs(val)
		}
	}
	if len(schema) > 0 {
		result["schema"] = schema
	}
	return result
}

// moveBodyParameter turns a Swagger 2.0 body parameter into an OpenAPI 3.0 requestBody
func moveBodyParameter(operation map[string]interface{}) {
	params, ok := operation["parameters"].([]interface{})
	if !ok {
		return
	}

	kept := make([]interface{}, 0, len(params))
	for _, p := range params {
		param, ok := p.(map[string]interface{})
		if !ok || param["in"] != "body" {
			kept = append(kept, p)
			continue
		}
		requestBody := map[string]interface{}{
			"content": map[string]interface{}{
				"application/json": map[string]interface{}{"schema": param["schema"]},
			},
		}
		if required, ok := param["required"]; ok {
			requestBody["required"] = required
		}
		if desc, ok := param["description"]; ok {
			requestBody["description"] = desc
		}
		operation["requestBody"] = requestBody
	}

	if len(kept) == 0 {
		delete(operation, "parameters")
	} else {
		operation["parameters"] = kept
	}
}
