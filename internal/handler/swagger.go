package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dafibh/tesouraria/tesouraria-backend/docs"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

// OpenAPI3Spec represents an OpenAPI 3.0 spec structure
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

// transformRefs recursively transforms $ref from #/definitions/ to #/components/schemas/
// and converts Swagger 2.0 parameters to OpenAPI 3.0 format
func transformRefs(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{})

		// Check if this is a parameter object (has "in" and "name" fields)
		if _, hasIn := v["in"]; hasIn {
			if _, hasName := v["name"]; hasName {
				return transformParameter(v)
			}
		}

		for key, value := range v {
			if key == "$ref" {
				if ref, ok := value.(string); ok {
					result[key] = strings.Replace(ref, "#/definitions/", "#/components/schemas/", 1)
				} else {
					result[key] = value
				}
			} else {
				result[key] = transformRefs(value)
			}
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

// transformParameter converts a Swagger 2.0 parameter to OpenAPI 3.0 format
func transformParameter(param map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})

	// Copy standard fields
	for _, field := range []string{"name", "in", "description", "required"} {
		if val, ok := param[field]; ok {
			result[field] = val
		}
	}

	// Body and form parameters are moved into requestBody by convertRequestBodies
	if param["in"] == "body" || param["in"] == "formData" {
		for key, value := range param {
			result[key] = transformRefs(value)
		}
		return result
	}

	// Build schema object from type-related fields
	schema := make(map[string]interface{})
	for _, field := range []string{"type", "format", "enum", "default", "minimum", "maximum", "items"} {
		if val, ok := param[field]; ok {
			if field == "items" {
				// Transform $ref in items
				schema[field] = transformRefs(val)
			} else {
				schema[field] = val
			}
		}
	}

	if len(schema) > 0 {
		result["schema"] = schema
	}

	return result
}

// convertRequestBodies replaces body and formData parameters of every
// operation with an OpenAPI 3.0 requestBody
func convertRequestBodies(paths map[string]interface{}) {
	for _, item := range paths {
		operations, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		for _, raw := range operations {
			op, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			params, _ := op["parameters"].([]interface{})

			kept := make([]interface{}, 0, len(params))
			formProps := make(map[string]interface{})
			var formRequired []string
			for _, p := range params {
				param, _ := p.(map[string]interface{})
				switch param["in"] {
				case "body":
					op["requestBody"] = map[string]interface{}{
						"required": param["required"] == true,
						"content": map[string]interface{}{
							"application/json": map[string]interface{}{"schema": param["schema"]},
						},
					}
				case "formData":
					name, _ := param["name"].(string)
					if param["type"] == "file" {
						formProps[name] = map[string]interface{}{"type": "string", "format": "binary"}
					} else {
						formProps[name] = map[string]interface{}{"type": param["type"]}
					}
					if param["required"] == true {
						formRequired = append(formRequired, name)
					}
				default:
					kept = append(kept, param)
				}
			}

			if len(formProps) > 0 {
				schema := map[string]interface{}{"type": "object", "properties": formProps}
				if len(formRequired) > 0 {
					schema["required"] = formRequired
				}
				op["requestBody"] = map[string]interface{}{
					"required": len(formRequired) > 0,
					"content": map[string]interface{}{
						"multipart/form-data": map[string]interface{}{"schema": schema},
					},
				}
			}
			if len(params) > 0 {
				op["parameters"] = kept
			}
			delete(op, "consumes")
		}
	}
}

// ServeOpenAPI3Spec serves the swagger spec converted to OpenAPI 3.0 at
// GET /openapi.json
func ServeOpenAPI3Spec(c echo.Context) error {
	// Get the swagger 2.0 spec
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to read swagger doc"})
	}

	// Parse swagger 2.0
	var swagger2 map[string]interface{}
	if err := json.Unmarshal([]byte(doc), &swagger2); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to parse swagger doc"})
	}

	// Extract info
	info, _ := swagger2["info"].(map[string]interface{})

	// Extract and transform paths (convert $ref from definitions to components/schemas)
	paths, _ := swagger2["paths"].(map[string]interface{})
	transformedPaths := transformRefs(paths).(map[string]interface{})
	convertRequestBodies(transformedPaths)

	components := make(map[string]interface{})
	if definitions, ok := swagger2["definitions"].(map[string]interface{}); ok {
		// Also transform $refs within definitions themselves
		components["schemas"] = transformRefs(definitions)
	}

	// Build OpenAPI 3.0 spec
	openapi3 := OpenAPI3Spec{
		OpenAPI: "3.0.3",
		Info:    info,
		Servers: []Server{
			{
				URL:         "http://localhost:8080/api/v1",
				Description: "Local Development",
			},
			{
				URL:         "https://api.tesouraria.app/api/v1",
				Description: "Production",
			},
		},
		Paths:      transformedPaths,
		Components: components,
	}

	return c.JSON(http.StatusOK, openapi3)
}
