package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jorgej/gimlet-skill-sub000/internal/identity"
)

const maxRequestBytes = 1 << 20

// SkillHandler serves the platform webhook.
type SkillHandler struct {
	proc          *Processor
	applicationID string
}

// NewSkillHandler creates the webhook handler. An empty applicationID
// accepts requests for any application.
func NewSkillHandler(proc *Processor, applicationID string) *SkillHandler {
	return &SkillHandler{proc: proc, applicationID: applicationID}
}

// RegisterRoutes registers the webhook route. Extra middlewares wrap only
// the webhook.
func (h *SkillHandler) RegisterRoutes(r chi.Router, mws ...func(http.Handler) http.Handler) {
	r.With(mws...).Post("/skill", h.Serve)
}

// Serve handles one platform request.
func (h *SkillHandler) Serve(w http.ResponseWriter, r *http.Request) {
	var env requestEnvelope
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes)).Decode(&env); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if env.Request.Type == "" {
		Error(w, http.StatusBadRequest, "missing request type")
		return
	}
	if h.applicationID != "" && env.applicationID() != h.applicationID {
		Error(w, http.StatusForbidden, "application id mismatch")
		return
	}

	req := env.toRequest()
	if req.UserID == "" {
		Error(w, http.StatusBadRequest, "missing user id")
		return
	}

	ctx := identity.WithUser(r.Context(), req.UserID, req.SessionID)
	logger := identity.LoggerFromContext(ctx)

	res, err := h.proc.Process(ctx, req)
	if err != nil {
		logger.Error("skill request failed", "type", env.Request.Type, "request_id", env.Request.RequestID, "error", err)
		Error(w, http.StatusInternalServerError, "skill request failed")
		return
	}

	JSON(w, http.StatusOK, toEnvelope(res.Response))
}
