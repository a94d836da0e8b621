// Package web serves chat exports as HTML threads: uploaded exports are kept
// in a bounded in-memory cache, indexed ones are read through a ChatSource.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Zuo-Peng/chatview/internal/output"
	"github.com/Zuo-Peng/chatview/internal/parse"
	"github.com/Zuo-Peng/chatview/internal/thread"
)

//go:embed templates/*.html static/*
var assets embed.FS

const maxUploadSize = 64 << 20 // 64MB

const (
	msgUnavailable = "Please provide a chat export file to view."
	msgNoRecords   = "Could not parse any messages from this file. Is it a chat export?"
	msgNotFound    = "This chat is no longer available. Please upload it again."
)

// ChatSource loads an indexed chat by key. It returns nil, nil when the key
// is unknown.
type ChatSource interface {
	LoadChat(ctx context.Context, chatKey string) (*parse.ChatLog, error)
}

type Options struct {
	Parse       parse.Options
	Self        string // preferred "me" when that sender is present
	UploadCache int
	Source      ChatSource // optional
	Logger      *slog.Logger
}

type upload struct {
	name string
	log  *parse.ChatLog
}

type Server struct {
	opts    Options
	uploads *lru.Cache[uuid.UUID, *upload]
	tmpl    *template.Template
	static  fs.FS
	logger  *slog.Logger
}

func NewServer(opts Options) (*Server, error) {
	if opts.UploadCache <= 0 {
		opts.UploadCache = 64
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cache, err := lru.New[uuid.UUID, *upload](opts.UploadCache)
	if err != nil {
		return nil, fmt.Errorf("upload cache: %w", err)
	}
	tmpl, err := template.ParseFS(assets, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	static, err := fs.Sub(assets, "static")
	if err != nil {
		return nil, err
	}

	return &Server{
		opts:    opts,
		uploads: cache,
		tmpl:    tmpl,
		static:  static,
		logger:  logger,
	}, nil
}

// Handler returns the router with logging and panic recovery.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	s.RegisterRoutes(r)
	return r
}

// RegisterRoutes attaches all endpoints to the router.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(s.static))))

	r.Get("/", s.handleIndex)
	r.Post("/upload", s.handleUpload)
	r.Get("/chats/{id}", s.handleChat)
	r.Get("/indexed/*", s.handleIndexed)
	r.Get("/api/chats/{id}", s.handleChatJSON)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("chatview listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type pageData struct {
	Title      string
	Notice     string
	NoticeKind string // "info" or "error"
	Action     string
	Thread     *thread.Thread
}

func (s *Server) render(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.ExecuteTemplate(w, "page.html", data); err != nil {
		s.logger.Error("render page", "error", err)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, pageData{Title: "Upload"})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	name := "upload"
	var log *parse.ChatLog
	file, header, err := r.FormFile("export")
	switch {
	case err == nil:
		defer file.Close()
		name = path.Base(header.Filename)
		log, err = parse.ParseUpload(file, s.opts.Parse)
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		log, err = parse.ParseUpload(nil, s.opts.Parse)
	}

	if err != nil {
		s.logger.Warn("upload rejected", "error", err)
		s.render(w, http.StatusBadRequest, pageData{
			Title:      "Upload",
			Notice:     msgUnavailable,
			NoticeKind: "error",
		})
		return
	}

	id := uuid.New()
	s.uploads.Add(id, &upload{name: name, log: log})
	s.logger.Info("chat uploaded", "id", id, "name", name, "messages", log.Len())
	http.Redirect(w, r, "/chats/"+id.String(), http.StatusSeeOther)
}

func (s *Server) lookupUpload(r *http.Request) (*upload, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return nil, false
	}
	return s.uploads.Get(id)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	up, ok := s.lookupUpload(r)
	if !ok {
		s.render(w, http.StatusNotFound, pageData{Title: "Not found", Notice: msgNotFound, NoticeKind: "error"})
		return
	}
	s.renderThread(w, r, up.name, up.log)
}

func (s *Server) handleIndexed(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if s.opts.Source == nil || key == "" {
		s.render(w, http.StatusNotFound, pageData{Title: "Not found", Notice: msgUnavailable, NoticeKind: "error"})
		return
	}

	log, err := s.opts.Source.LoadChat(r.Context(), key)
	if err != nil {
		s.logger.Error("load indexed chat", "key", key, "error", err)
		s.render(w, http.StatusInternalServerError, pageData{Title: "Error", Notice: "Could not load this chat.", NoticeKind: "error"})
		return
	}
	if log == nil {
		s.render(w, http.StatusNotFound, pageData{Title: "Not found", Notice: msgUnavailable, NoticeKind: "error"})
		return
	}
	s.renderThread(w, r, key, log)
}

func (s *Server) renderThread(w http.ResponseWriter, r *http.Request, title string, log *parse.ChatLog) {
	if errors.Is(log.Err(), parse.ErrNoRecords) {
		s.render(w, http.StatusOK, pageData{Title: title, Notice: msgNoRecords, NoticeKind: "info"})
		return
	}

	q := r.URL.Query()
	senders := thread.Senders(log)
	t := thread.Build(log, thread.Options{
		Self:   resolveSelf(senders, q.Get("me"), s.opts.Self),
		Sender: q.Get("sender"),
	})
	s.render(w, http.StatusOK, pageData{
		Title:  title,
		Action: r.URL.Path,
		Thread: t,
	})
}

// resolveSelf prefers an explicit choice, then the configured name, then the
// default rule; names not among the senders are ignored.
func resolveSelf(senders []string, requested, configured string) string {
	for _, want := range []string{requested, configured} {
		if want == "" {
			continue
		}
		for _, s := range senders {
			if s == want {
				return s
			}
		}
	}
	return thread.DefaultSelf(senders)
}

func (s *Server) handleChatJSON(w http.ResponseWriter, r *http.Request) {
	up, ok := s.lookupUpload(r)
	if !ok {
		http.Error(w, `{"error":"chat not found"}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := (&output.JSONFormatter{}).Format(r.Context(), up.log, w); err != nil {
		s.logger.Error("encode chat", "error", err)
	}
}
