package handler

import (
	"cmp"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/itchan-dev/msgboard/shared/api"
	"github.com/itchan-dev/msgboard/shared/domain"
	"github.com/itchan-dev/msgboard/shared/utils"
)

func (h *Handler) GetThreads(w http.ResponseWriter, r *http.Request) {
	board := chi.URLParam(r, "board")

	previews, err := h.thread.List(r.Context(), board)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, api.NewThreadPreviewListResponse(previews))
}

func (h *Handler) CreateThread(w http.ResponseWriter, r *http.Request) {
	var body api.CreateThreadRequest
	if err := utils.DecodeRequest(r, &body); err != nil {
		h.writeError(w, err)
		return
	}
	body.Board = cmp.Or(body.Board, chi.URLParam(r, "board"))
	if err := utils.Validate(body); err != nil {
		h.writeError(w, err)
		return
	}

	_, err := h.thread.Create(r.Context(), domain.ThreadCreationData{
		Board:          body.Board,
		Text:           body.Text,
		DeletePassword: body.DeletePassword,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	http.Redirect(w, r, boardPath(body.Board), http.StatusFound)
}

func (h *Handler) ReportThread(w http.ResponseWriter, r *http.Request) {
	var body api.ReportThreadRequest
	if err := utils.DecodeRequest(r, &body); err != nil {
		h.writeError(w, err)
		return
	}
	body.Board = cmp.Or(body.Board, chi.URLParam(r, "board"))
	if err := utils.Validate(body); err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.thread.Report(r.Context(), body.Board, body.ThreadId); err != nil {
		h.writeError(w, err)
		return
	}

	writeText(w, "thread reported successfully")
}

func (h *Handler) DeleteThread(w http.ResponseWriter, r *http.Request) {
	var body api.DeleteThreadRequest
	if err := utils.DecodeRequest(r, &body); err != nil {
		h.writeError(w, err)
		return
	}
	body.Board = cmp.Or(body.Board, chi.URLParam(r, "board"))
	if err := utils.Validate(body); err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.thread.Delete(r.Context(), body.Board, body.ThreadId, body.DeletePassword); err != nil {
		h.writeError(w, err)
		return
	}

	writeText(w, "thread deleted successfully")
}

func boardPath(board domain.BoardShortName) string {
	return "/b/" + url.PathEscape(board)
}

func threadPath(board domain.BoardShortName, id domain.ThreadId) string {
	return "/b/" + url.PathEscape(board) + "/" + url.PathEscape(id)
}
