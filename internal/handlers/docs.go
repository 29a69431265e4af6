package handlers

import (
	"encoding/json"
	"net/http"

	"movie-ratings/internal/views"
)

type object = map[string]interface{}

func jsonResponse(description string, schema object) object {
	return object{
		"description": description,
		"content": object{
			"application/json": object{"schema": schema},
		},
	}
}

func errorResponse(description string) object {
	return jsonResponse(description, object{"$ref": "#/components/schemas/Error"})
}

// OpenAPIDocument serves the OpenAPI 3.0 description of the ratings API.
// The view enum is generated from the catalog so it cannot drift.
func OpenAPIDocument(w http.ResponseWriter, r *http.Request) {
	catalog := views.Catalog()
	ids := make([]string, len(catalog))
	for i, d := range catalog {
		ids[i] = string(d.ID)
	}

	doc := object{
		"openapi": "3.0.0",
		"info": object{
			"title":       "Movie Ratings Analytics API",
			"description": "Fixed catalogue of analytical views over a movie-ratings dataset",
			"version":     "1.0.0",
		},
		"servers": []map[string]string{
			{"url": "http://localhost:8080", "description": "Local development server"},
		},
		"paths": object{
			"/api/views": object{
				"get": object{
					"summary":   "List views",
					"responses": object{"200": jsonResponse("View catalog", object{"type": "object"})},
				},
			},
			"/api/views/{view}": object{
				"get": object{
					"summary":     "Render one view",
					"description": "Computes the view over the loaded dataset. The view may be named by id or by title.",
					"parameters": []object{
						{
							"name":     "view",
							"in":       "path",
							"required": true,
							"schema":   object{"type": "string", "enum": ids},
						},
					},
					"responses": object{
						"200": jsonResponse("Rendered view; empty is true when there is nothing to show", object{"$ref": "#/components/schemas/Result"}),
						"404": errorResponse("Unknown view"),
						"422": errorResponse("Dataset does not fit the view"),
						"503": errorResponse("Dataset not loaded"),
					},
				},
			},
			"/api/dashboard": object{
				"get": object{
					"summary":   "Render every view",
					"responses": object{"200": jsonResponse("All views in catalog order", object{"type": "object"})},
				},
			},
			"/api/dataset": object{
				"get": object{
					"summary": "Describe the loaded dataset",
					"responses": object{
						"200": jsonResponse("Dataset summary", object{"type": "object"}),
						"503": errorResponse("Dataset not loaded"),
					},
				},
			},
			"/api/dataset/reload": object{
				"post": object{
					"summary": "Reload the dataset from its source",
					"responses": object{
						"200": jsonResponse("Dataset summary after reload", object{"type": "object"}),
						"422": errorResponse("Records do not form a valid dataset"),
					},
				},
			},
			"/health": object{
				"get": object{
					"summary": "Health check",
					"responses": object{
						"200": jsonResponse("Service is healthy", object{"type": "object"}),
						"503": jsonResponse("Dataset or store unavailable", object{"type": "object"}),
					},
				},
			},
			"/metrics": object{
				"get": object{
					"summary": "Prometheus metrics",
					"responses": object{
						"200": object{
							"description": "Prometheus metrics in text format",
							"content":     object{"text/plain": object{"schema": object{"type": "string"}}},
						},
					},
				},
			},
		},
		"components": object{
			"schemas": object{
				"Error": object{
					"type": "object",
					"properties": object{
						"error":      object{"type": "string"},
						"message":    object{"type": "string"},
						"code":       object{"type": "integer"},
						"request_id": object{"type": "string"},
					},
				},
				"Result": object{
					"type": "object",
					"properties": object{
						"view":   object{"type": "string"},
						"title":  object{"type": "string"},
						"kind":   object{"type": "string", "enum": []string{"table", "scalar", "scalar_triple", "series"}},
						"empty":  object{"type": "boolean"},
						"table":  object{"type": "object"},
						"triple": object{"type": "object"},
						"series": object{"type": "object"},
					},
				},
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}
