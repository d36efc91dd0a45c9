package handler

import (
	"cmp"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/itchan-dev/msgboard/shared/api"
	"github.com/itchan-dev/msgboard/shared/domain"
	"github.com/itchan-dev/msgboard/shared/utils"
)

// GetThread answers /api/replies/{board}?thread_id= with the whole thread.
func (h *Handler) GetThread(w http.ResponseWriter, r *http.Request) {
	var body api.GetThreadRequest
	if err := utils.DecodeRequest(r, &body); err != nil {
		h.writeError(w, err)
		return
	}
	body.Board = chi.URLParam(r, "board")
	body.ThreadId = cmp.Or(r.URL.Query().Get("thread_id"), body.ThreadId)
	if err := utils.Validate(body); err != nil {
		h.writeError(w, err)
		return
	}

	thread, err := h.thread.Get(r.Context(), body.Board, body.ThreadId)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, api.NewThreadResponse(thread))
}

func (h *Handler) CreateReply(w http.ResponseWriter, r *http.Request) {
	var body api.CreateReplyRequest
	if err := utils.DecodeRequest(r, &body); err != nil {
		h.writeError(w, err)
		return
	}
	body.Board = cmp.Or(body.Board, chi.URLParam(r, "board"))
	if err := utils.Validate(body); err != nil {
		h.writeError(w, err)
		return
	}

	_, err := h.reply.Create(r.Context(), domain.ReplyCreationData{
		Board:          body.Board,
		ThreadId:       body.ThreadId,
		Text:           body.Text,
		DeletePassword: body.DeletePassword,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	http.Redirect(w, r, threadPath(body.Board, body.ThreadId), http.StatusFound)
}

func (h *Handler) ReportReply(w http.ResponseWriter, r *http.Request) {
	var body api.ReportReplyRequest
	if err := utils.DecodeRequest(r, &body); err != nil {
		h.writeError(w, err)
		return
	}
	body.Board = cmp.Or(body.Board, chi.URLParam(r, "board"))
	if err := utils.Validate(body); err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.reply.Report(r.Context(), body.Board, body.ThreadId, body.ReplyId); err != nil {
		h.writeError(w, err)
		return
	}

	writeText(w, "reply reported successfully")
}

func (h *Handler) DeleteReply(w http.ResponseWriter, r *http.Request) {
	var body api.DeleteReplyRequest
	if err := utils.DecodeRequest(r, &body); err != nil {
		h.writeError(w, err)
		return
	}
	body.Board = cmp.Or(body.Board, chi.URLParam(r, "board"))
	if err := utils.Validate(body); err != nil {
		h.writeError(w, err)
		return
	}

	err := h.reply.Delete(r.Context(), body.Board, body.ThreadId, body.ReplyId, body.DeletePassword)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeText(w, "reply deleted successfully")
}
