// ABOUTME: HTTP API for quiz sessions, topics, and Moodle export
// ABOUTME: chi router with request ids, panic recovery, and zap request logging
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/harper/quizsmith/internal/core"
	"github.com/harper/quizsmith/internal/export"
	"github.com/harper/quizsmith/internal/logger"
	"github.com/harper/quizsmith/internal/quiz"
	"github.com/harper/quizsmith/internal/storage"
)

// RequestTimeout bounds a request, including question generation
const RequestTimeout = 2 * time.Minute

// Deps are the services the API calls into
type Deps struct {
	Sessions *quiz.Registry
	Bank     storage.Provider
	Title    string
	Topics   []string
	Logger   *logger.Logger
}

type Server struct {
	sessions *quiz.Registry
	bank     storage.Provider
	title    string
	topics   []string
	log      *logger.Logger
}

func NewServer(deps Deps) *Server {
	return &Server{
		sessions: deps.Sessions,
		bank:     deps.Bank,
		title:    deps.Title,
		topics:   deps.Topics,
		log:      logger.OrNop(deps.Logger),
	}
}

// Routes builds the router
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, s.requestLogger, middleware.Recoverer)
	r.Use(middleware.Timeout(RequestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/topics", s.listTopics)
	r.Get("/export/moodle", s.exportMoodle)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.startSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Post("/answers", s.submitAnswer)
			r.Post("/advance", s.advance)
			r.Get("/score", s.score)
		})
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		}()
		next.ServeHTTP(ww, r)
	})
}

func (s *Server) listTopics(w http.ResponseWriter, r *http.Request) {
	topics := s.topics
	if topics == nil {
		topics = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"title": s.title, "topics": topics})
}

type startRequest struct {
	Mode  string `json:"mode"`
	Topic string `json:"topic"`
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	mode, err := quiz.ParseMode(req.Mode)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	sess := s.sessions.Create()
	if err := sess.Start(r.Context(), quiz.StartOptions{Mode: mode, Topic: req.Topic}); err != nil {
		s.sessions.Delete(sess.ID())
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

type answerRequest struct {
	Index  *int   `json:"index"`
	Choice string `json:"choice"`
}

func (s *Server) submitAnswer(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req answerRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	view := sess.Snapshot()
	index := view.Index
	if req.Index != nil {
		index = *req.Index
	}
	choice := req.Choice
	if view.Question != nil && index == view.Index {
		choice = view.Question.ResolveChoice(choice)
	}

	feedback, err := sess.Submit(index, choice)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"index":    index,
		"choice":   choice,
		"feedback": feedback,
		"score":    sess.Score(),
	})
}

func (s *Server) advance(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if err := sess.Advance(r.Context()); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) score(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	view := sess.Snapshot()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": view.ID,
		"state":      view.State,
		"max":        view.Max,
		"score":      view.Score,
	})
}

// exportMoodle streams the bank as Moodle XML. Query: category, shuffle, limit.
func (s *Server) exportMoodle(w http.ResponseWriter, r *http.Request) {
	if s.bank == nil {
		writeErr(w, http.StatusServiceUnavailable, "no question bank configured")
		return
	}
	questions, err := s.bank.All(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}

	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 && n < len(questions) {
			questions = questions[:n]
		}
	}
	opts := export.MoodleOptions{Category: q.Get("category"), ShuffleAnswers: true}
	if v := q.Get("shuffle"); v != "" {
		opts.ShuffleAnswers, _ = strconv.ParseBool(v)
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Content-Disposition", `attachment; filename="quiz_moodle.xml"`)
	res, err := export.WriteMoodle(w, questions, opts)
	if err != nil {
		s.log.Error("moodle export failed", "error", err)
		return
	}
	for _, sk := range res.Skipped {
		s.log.Warn("skipping invalid question", "index", sk.Index, "reason", sk.Reason)
	}
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*quiz.Session, bool) {
	id := chi.URLParam(r, "sessionID")
	sess, ok := s.sessions.Get(id)
	if !ok {
		writeErr(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return sess, true
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	writeErr(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, quiz.ErrNoSuchQuestion),
		errors.Is(err, quiz.ErrInvalidChoice),
		errors.Is(err, quiz.ErrNoTopic),
		errors.Is(err, quiz.ErrUnknownMode):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNoMatch):
		return http.StatusNotFound
	case errors.Is(err, quiz.ErrNotInProgress),
		errors.Is(err, quiz.ErrAlreadyAnswered),
		errors.Is(err, quiz.ErrEmptyBank):
		return http.StatusConflict
	case errors.Is(err, core.ErrNoContent), errors.Is(err, core.ErrNoUsableContext):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrGenerationExhausted):
		return http.StatusBadGateway
	case errors.Is(err, core.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid JSON body: " + err.Error())
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errResp struct {
	Error string `json:"error"`
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errResp{Error: msg})
}
