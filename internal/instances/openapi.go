// internal/instances/openapi.go
package instances

import "aamadmin/pkg/openapi"

var nameSchema = map[string]any{
	"type":      "string",
	"pattern":   "^[a-z0-9][a-z0-9-]{1,61}[a-z0-9]$",
	"minLength": 3,
	"maxLength": 63,
}

var instanceSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"name":       nameSchema,
		"locale":     map[string]any{"type": "string", "default": DefaultLocale},
		"ownerEmail": map[string]any{"type": "string", "format": "email"},
	},
}

// RegisterOpenAPI describes the instance endpoints in the served document.
func RegisterOpenAPI(doc *openapi.Document) {
	jsonBody := func(schema map[string]any) map[string]any {
		return map[string]any{"content": map[string]any{"application/json": map[string]any{"schema": schema}}}
	}
	doc.Register(openapi.Operation{
		Method: "get", Path: "/api/v1/instances",
		Summary: "Get all instances", OperationID: "getAllInstances", Security: "bearer",
		Responses: map[string]any{
			"200": jsonBody(map[string]any{"type": "array", "items": instanceSchema}),
			"401": map[string]any{"description": "Authentication required or token invalid."},
		},
	})
	doc.Register(openapi.Operation{
		Method: "post", Path: "/api/v1/instances",
		Summary: "Create a new instance", OperationID: "createInstance", Security: "bearer",
		RequestBody: jsonBody(map[string]any{
			"type":     "object",
			"required": []string{"name", "ownerEmail"},
			"properties": map[string]any{
				"name":       nameSchema,
				"ownerEmail": map[string]any{"type": "string", "format": "email"},
				"locale":     map[string]any{"type": "string"},
			},
		}),
		Responses: map[string]any{
			"201": jsonBody(instanceSchema),
			"400": map[string]any{"description": "Invalid name, email or unknown field."},
			"401": map[string]any{"description": "Authentication required or token invalid."},
			"409": map[string]any{"description": "Instance name is reserved or already taken."},
		},
	})
	doc.Register(openapi.Operation{
		Method: "post", Path: "/api/v1/instances/webhook/brevo",
		Summary: "Brevo webhook to create a new instance", OperationID: "createInstanceFromBrevoWebhook", Security: "webhookToken",
		RequestBody: jsonBody(map[string]any{"type": "object", "required": []string{"email", "attributes"}}),
		Responses: map[string]any{
			"201": jsonBody(instanceSchema),
			"400": map[string]any{"description": "Missing required fields."},
			"403": map[string]any{"description": "Invalid passphrase or non-whitelisted IP."},
			"409": map[string]any{"description": "Instance name is reserved or already taken."},
		},
	})
	doc.Register(openapi.Operation{
		Method: "get", Path: "/api/v1/instances/check/{name}",
		Summary: "Check instance name availability", OperationID: "checkInstanceNameAvailable",
		Parameters: []map[string]any{{
			"name": "name", "in": "path", "required": true,
			"description": "The instance name (subdomain) to check.",
			"schema":      map[string]any{"type": "string"},
		}},
		Responses: map[string]any{
			"200": jsonBody(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":      map[string]any{"type": "string"},
					"available": map[string]any{"type": "boolean"},
					"reason":    map[string]any{"enum": []any{"invalid", "reserved", "taken", nil}},
				},
			}),
			"429": map[string]any{"description": "Rate limit exceeded."},
		},
	})
}
