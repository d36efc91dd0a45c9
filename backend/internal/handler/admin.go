package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/itchan-dev/msgboard/shared/api"
	mw "github.com/itchan-dev/msgboard/shared/middleware"
	"github.com/itchan-dev/msgboard/shared/logger"
)

func (h *Handler) GetReported(w http.ResponseWriter, r *http.Request) {
	board := chi.URLParam(r, "board")

	threads, err := h.moderation.Reported(r.Context(), board)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, api.NewReportedListResponse(threads))
}

func (h *Handler) AdminDeleteThread(w http.ResponseWriter, r *http.Request) {
	board := chi.URLParam(r, "board")
	threadId := chi.URLParam(r, "thread_id")

	if err := h.moderation.DeleteThread(r.Context(), board, threadId); err != nil {
		h.writeError(w, err)
		return
	}

	if user := mw.GetUserFromContext(r); user != nil {
		logger.Log.Info("moderator action", "action", "delete_thread", "moderator", user.Name, "thread_id", threadId)
	}
	writeText(w, "thread deleted successfully")
}

func (h *Handler) ClearReports(w http.ResponseWriter, r *http.Request) {
	board := chi.URLParam(r, "board")
	threadId := chi.URLParam(r, "thread_id")

	if err := h.moderation.ClearReports(r.Context(), board, threadId); err != nil {
		h.writeError(w, err)
		return
	}

	writeText(w, "reports cleared successfully")
}
