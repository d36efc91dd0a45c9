package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/itchan-dev/msgboard/backend/internal/service"
	"github.com/itchan-dev/msgboard/shared/config"
	"github.com/itchan-dev/msgboard/shared/errors"
	"github.com/itchan-dev/msgboard/shared/logger"
	"github.com/itchan-dev/msgboard/shared/utils"
)

// HealthChecker is the part of the store the readiness check needs.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	thread     service.ThreadService
	reply      service.ReplyService
	moderation service.ModerationService
	health     HealthChecker
	pages      *pages
	cfg        *config.Config
}

func New(thread service.ThreadService, reply service.ReplyService, moderation service.ModerationService, health HealthChecker, cfg *config.Config) *Handler {
	return &Handler{
		thread:     thread,
		reply:      reply,
		moderation: moderation,
		health:     health,
		pages:      newPages(),
		cfg:        cfg,
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Log.Error("failed to encode response", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(append(data, '\n'))
}

func writeText(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(msg))
}

// writeError answers with the message of err. With legacy status codes the
// known failure kinds are sent as 200 like successful outcomes.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if h.cfg.Public.Security.LegacyStatusCodes && errors.KindOf(err) != errors.KindInternal {
		utils.WriteErrorWithStatus(w, err, http.StatusOK)
		return
	}
	utils.WriteErrorAndStatusCode(w, err)
}
