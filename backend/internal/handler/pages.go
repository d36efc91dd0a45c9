package handler

import (
	"bytes"
	"embed"
	stderrors "errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/itchan-dev/msgboard/shared/domain"
	"github.com/itchan-dev/msgboard/shared/errors"
	"github.com/itchan-dev/msgboard/shared/logger"
	"github.com/itchan-dev/msgboard/shared/markdown"
	"github.com/itchan-dev/msgboard/shared/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

type pages struct {
	tmpl *template.Template
}

type pageData struct {
	Title   string
	Board   domain.BoardShortName
	Threads []domain.ThreadPreview
	Thread  *domain.Thread
}

func newPages() *pages {
	text := markdown.New()
	tmpl := template.Must(template.New("pages").
		Funcs(template.FuncMap{"md": text.Render}).
		ParseFS(templateFS, "templates/*.html"))
	return &pages{tmpl: tmpl}
}

func (p *pages) render(w http.ResponseWriter, name string, data pageData) {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		logger.Log.Error("failed to render page", "page", name, "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// IndexPage shows the board picker and forwards ?board= to the board page.
func (h *Handler) IndexPage(w http.ResponseWriter, r *http.Request) {
	if board := r.URL.Query().Get("board"); board != "" {
		http.Redirect(w, r, boardPath(board), http.StatusFound)
		return
	}
	h.pages.render(w, "index", pageData{Title: "msgboard"})
}

func (h *Handler) BoardPage(w http.ResponseWriter, r *http.Request) {
	board := chi.URLParam(r, "board")

	previews, err := h.thread.List(r.Context(), board)
	if err != nil {
		writePageError(w, err)
		return
	}

	h.pages.render(w, "board", pageData{Title: "/" + board + "/", Board: board, Threads: previews})
}

func (h *Handler) ThreadPage(w http.ResponseWriter, r *http.Request) {
	board := chi.URLParam(r, "board")
	threadId := chi.URLParam(r, "thread_id")

	thread, err := h.thread.Get(r.Context(), board, threadId)
	if err != nil {
		writePageError(w, err)
		return
	}

	h.pages.render(w, "thread", pageData{Title: "/" + board + "/ thread", Board: board, Thread: &thread})
}

// writePageError keeps the real status codes: browsers are not legacy clients.
func writePageError(w http.ResponseWriter, err error) {
	var e *errors.ErrorWithStatusCode
	if stderrors.As(err, &e) && (e.Kind == errors.KindNotFound || e.Kind == errors.KindOwnershipMismatch) {
		http.Error(w, e.Message, http.StatusNotFound)
		return
	}
	utils.WriteErrorAndStatusCode(w, err)
}
