// Package problems shapes error responses as RFC 7807 application/problem+json.
package problems

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
)

// Problem is an RFC 7807 body. Extras carries members beyond the standard
// ones (e.g. the availability reason on a conflict).
type Problem struct {
	Type   string         `json:"type"`
	Title  string         `json:"title"`
	Status int            `json:"status"`
	Detail string         `json:"detail,omitempty"`
	Extras map[string]any `json:"-"`
}

// Base returns the base URL for problem type identifiers.
// Order of precedence:
// 1. PROBLEM_BASE_URL (exact base, e.g. https://mydomain.com/problems)
// 2. BASE_PUBLIC_URL + "/problems" (if set)
// 3. https://example.com/problems (fallback)
func Base() string {
	if b := os.Getenv("PROBLEM_BASE_URL"); b != "" {
		return strings.TrimRight(b, "/")
	}
	if b := os.Getenv("BASE_PUBLIC_URL"); b != "" {
		return strings.TrimRight(b, "/") + "/problems"
	}
	return "https://example.com/problems"
}

// Type builds a full problem type URL for the given slug.
func Type(slug string) string { return Base() + "/" + slug }

// Write emits p with the proper content type. Extras are merged into the
// top-level object alongside the standard members.
func Write(w http.ResponseWriter, p Problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)

	body := map[string]any{
		"type":   p.Type,
		"title":  p.Title,
		"status": p.Status,
	}
	if p.Detail != "" {
		body["detail"] = p.Detail
	}
	for k, v := range p.Extras {
		body[k] = v
	}
	_ = json.NewEncoder(w).Encode(body)
}

// Convenience writers for the statuses the API uses.

func BadRequest(w http.ResponseWriter, detail string) {
	Write(w, Problem{Type: Type("validation"), Title: "Bad Request", Status: http.StatusBadRequest, Detail: detail})
}

func Unauthorized(w http.ResponseWriter, detail string) {
	Write(w, Problem{Type: Type("unauthorized"), Title: "Unauthorized", Status: http.StatusUnauthorized, Detail: detail})
}

func Forbidden(w http.ResponseWriter, detail string) {
	Write(w, Problem{Type: Type("forbidden"), Title: "Forbidden", Status: http.StatusForbidden, Detail: detail})
}

func Conflict(w http.ResponseWriter, detail string, extras map[string]any) {
	Write(w, Problem{Type: Type("conflict"), Title: "Conflict", Status: http.StatusConflict, Detail: detail, Extras: extras})
}

func TooManyRequests(w http.ResponseWriter) {
	Write(w, Problem{Type: Type("rate-limit"), Title: "Too Many Requests", Status: http.StatusTooManyRequests})
}

func Internal(w http.ResponseWriter) {
	Write(w, Problem{Type: Type("internal"), Title: "Internal Server Error", Status: http.StatusInternalServerError})
}
