// Package openapi hand-assembles the OpenAPI 3.1 document for the
// instance API. There is no generation framework; the document is built
// once and served as JSON or YAML.
package openapi

import (
	"encoding/json"
	"net/http"

	"gopkg.in/yaml.v3"
)

// Operation is a single HTTP operation surfaced in the document.
type Operation struct {
	Method      string
	Path        string
	Summary     string
	OperationID string
	Security    string // "bearer", "webhookToken" or "" for public
	Parameters  []map[string]any
	RequestBody any
	Responses   map[string]any
}

// Document accumulates operations and renders the final spec.
type Document struct {
	title   string
	version string
	ops     []Operation
}

func New(title, version string) *Document {
	return &Document{title: title, version: version}
}

func (d *Document) Register(op Operation) { d.ops = append(d.ops, op) }

// Build produces the OpenAPI 3.1 document for the registered operations.
// Schemas are kept inline; the surface is small enough that components
// would add indirection without payoff.
func (d *Document) Build() map[string]any {
	paths := map[string]any{}
	for _, op := range d.ops {
		entry, ok := paths[op.Path].(map[string]any)
		if !ok {
			entry = map[string]any{}
			paths[op.Path] = entry
		}
		m := map[string]any{
			"summary":     op.Summary,
			"operationId": op.OperationID,
			"responses":   op.Responses,
		}
		if len(op.Parameters) > 0 {
			m["parameters"] = op.Parameters
		}
		if op.RequestBody != nil {
			m["requestBody"] = op.RequestBody
		}
		if op.Security != "" {
			m["security"] = []map[string]any{{op.Security: []string{}}}
		}
		entry[op.Method] = m
	}
	return map[string]any{
		"openapi": "3.1.0",
		"info":    map[string]any{"title": d.title, "version": d.version},
		"paths":   paths,
		"components": map[string]any{
			"securitySchemes": map[string]any{
				"bearer": map[string]any{
					"type":         "http",
					"scheme":       "bearer",
					"bearerFormat": "JWT",
				},
				"webhookToken": map[string]any{
					"type": "apiKey",
					"in":   "query",
					"name": "token",
				},
			},
		},
	}
}

// ServeJSON serves the built document as application/json.
func (d *Document) ServeJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(d.Build())
}

// ServeYAML serves the built document as application/yaml.
func (d *Document) ServeYAML(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	out, err := yaml.Marshal(d.Build())
	if err != nil {
		http.Error(w, "document render failed", http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(out)
}
