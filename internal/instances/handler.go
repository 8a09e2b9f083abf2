// internal/instances/handler.go
package instances

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"

	"github.com/go-chi/chi/v5"
	"github.com/jmespath/go-jmespath"
	"go.uber.org/zap"

	"aamadmin/pkg/middleware"
	"aamadmin/pkg/problems"
)

// Handler exposes the instance API. Authorization is injected as plain
// middleware so the routes stay declarative.
type Handler struct {
	log      *zap.SugaredLogger
	svc      *Service
	nameExpr *jmespath.JMESPath
}

// NewHandler compiles the webhook name-attribute expression up front so a
// bad expression fails at startup, not per request.
func NewHandler(log *zap.SugaredLogger, svc *Service, nameExpr string) (*Handler, error) {
	expr, err := jmespath.Compile(nameExpr)
	if err != nil {
		return nil, err
	}
	return &Handler{log: log, svc: svc, nameExpr: expr}, nil
}

// Middleware is the shape of an injected authorizer or throttle.
type Middleware = func(http.Handler) http.Handler

// Routes builds the /instances subrouter. bearer guards the authenticated
// endpoints, webhook guards the Brevo callback, throttle limits the public
// availability check.
func (h *Handler) Routes(bearer, webhook, throttle Middleware) chi.Router {
	r := chi.NewRouter()
	r.Group(func(g chi.Router) {
		g.Use(bearer)
		g.Get("/", h.list)
		g.Post("/", h.create)
	})
	r.Group(func(g chi.Router) {
		g.Use(webhook)
		g.Post("/webhook/brevo", h.brevoWebhook)
	})
	r.Group(func(g chi.Router) {
		g.Use(throttle)
		g.Get("/check/{name}", h.check)
	})
	return r
}

type instanceResponse struct {
	Name       string `json:"name"`
	Locale     string `json:"locale"`
	OwnerEmail string `json:"ownerEmail"`
}

func toResponse(inst Instance) instanceResponse {
	return instanceResponse{Name: inst.Name, Locale: inst.Locale, OwnerEmail: inst.OwnerEmail}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	all, err := h.svc.List(r.Context())
	if err != nil {
		h.log.Errorw("list instances", "err", err)
		problems.Internal(w)
		return
	}
	out := make([]instanceResponse, 0, len(all))
	for _, inst := range all {
		out = append(out, toResponse(inst))
	}
	writeJSON(w, out, http.StatusOK)
}

type createRequest struct {
	Name       string `json:"name"`
	OwnerEmail string `json:"ownerEmail"`
	Locale     string `json:"locale"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	var body createRequest
	if err := dec.Decode(&body); err != nil {
		problems.BadRequest(w, "malformed request body: "+err.Error())
		return
	}
	if !validEmail(body.OwnerEmail) {
		problems.BadRequest(w, "ownerEmail must be a valid email address")
		return
	}

	if id, ok := middleware.IdentityFrom(r.Context()); ok {
		h.log.Infow("create requested", "name", body.Name, "actor", id.Actor, "workflow", id.Workflow)
	}

	inst, err := h.svc.Create(r.Context(), body.Name, body.OwnerEmail, body.Locale)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, toResponse(inst), http.StatusCreated)
}

// brevoWebhook maps a Brevo automation payload onto a create call. The
// payload layout is third-party controlled, so the instance name is pulled
// out with a configured JMESPath expression and the rest is ignored.
func (h *Handler) brevoWebhook(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		problems.BadRequest(w, "malformed webhook payload")
		return
	}
	email, _ := payload["email"].(string)
	if !validEmail(email) {
		problems.BadRequest(w, "email is required")
		return
	}
	found, err := h.nameExpr.Search(payload)
	if err != nil {
		problems.BadRequest(w, "missing instance name attribute")
		return
	}
	name, ok := found.(string)
	if !ok || name == "" {
		problems.BadRequest(w, "missing instance name attribute")
		return
	}

	inst, err := h.svc.Create(r.Context(), name, email, "")
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, toResponse(inst), http.StatusCreated)
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	avail, err := h.svc.CheckAvailability(r.Context(), name)
	if err != nil {
		h.log.Errorw("availability check", "name", name, "err", err)
		problems.Internal(w)
		return
	}
	writeJSON(w, avail, http.StatusOK)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var ve *ValidationError
	var ce *ConflictError
	switch {
	case errors.As(err, &ve):
		problems.BadRequest(w, ve.Error())
	case errors.As(err, &ce):
		problems.Conflict(w, ce.Error(), map[string]any{"reason": ce.Reason})
	default:
		h.log.Errorw("create instance", "err", err)
		problems.Internal(w)
	}
}

// validEmail requires a bare RFC 5322 address (no display name).
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
