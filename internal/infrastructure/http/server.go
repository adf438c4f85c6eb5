// Package http provides the HTTP server infrastructure.
// Clean Architecture: Framework/driver layer - outermost circle.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/coderngaonger/rorishop.io/internal/domain/entities"
	"github.com/coderngaonger/rorishop.io/internal/domain/usecases"
)

// Chatbot is the session surface the server drives. Satisfied by
// *usecases.ChatSession and by test doubles.
type Chatbot interface {
	Send(ctx context.Context, message string) (*entities.ChatResult, error)
	Reset()
}

// Server is the HTTP surface of the shop assistant. It owns the single
// process-lifetime chat session and maps session errors onto statuses.
//
// When startup fails (missing API key, unreadable index) the server still
// comes up: the health endpoint reports not-ready and every other endpoint
// answers 503 until the process is restarted.
type Server struct {
	bot        Chatbot
	startupErr error
	addr       string
}

// NewServer creates a server around a ready chat session.
func NewServer(bot Chatbot, addr string) *Server {
	return &Server{bot: bot, addr: addr}
}

// NewDegradedServer creates a server whose session failed to initialize.
func NewDegradedServer(startupErr error, addr string) *Server {
	return &Server{startupErr: startupErr, addr: addr}
}

// Ready reports whether the chat session initialized successfully.
func (s *Server) Ready() bool { return s.startupErr == nil && s.bot != nil }

// Handler builds the route table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/chat", s.handleChat)
	mux.HandleFunc("/reset", s.handleReset)

	return corsMiddleware(loggingMiddleware(recoveryMiddleware(mux)))
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // Generation calls are slow
	}

	log.Printf("[INFO] Rorishop chatbot API starting on %s (ready=%v)", s.addr, s.Ready())

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// chatRequest is the POST /chat request body.
type chatRequest struct {
	Message string `json:"message"`
}

// chatResponse is the POST /chat success body.
type chatResponse struct {
	Answer  string   `json:"answer"`
	History []string `json:"history"`
}

// handleRoot is the health/readiness probe. Always 200; readiness rides in
// the body so load balancers and humans read the same thing.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "ok",
		"message":       "Rorishop Chatbot API is running",
		"chatbot_ready": s.Ready(),
	})
}

// handleChat validates the message, delegates to the session, and maps the
// error taxonomy onto statuses.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.Ready() {
		writeDetail(w, http.StatusServiceUnavailable, usecases.ErrServiceNotReady.Error())
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, usecases.ErrInvalidInput.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeDetail(w, http.StatusBadRequest, usecases.ErrInvalidInput.Error())
		return
	}

	result, err := s.bot.Send(r.Context(), req.Message)
	if err != nil {
		if errors.Is(err, usecases.ErrBackendUnavailable) {
			writeDetail(w, http.StatusInternalServerError, fmt.Sprintf("Error processing chat: %v", err))
			return
		}
		log.Printf("[ERROR] unexpected chat failure: %v", err)
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	history := result.History
	if history == nil {
		history = []string{}
	}
	writeJSON(w, http.StatusOK, chatResponse{Answer: result.Answer, History: history})
}

// handleReset discards the conversation history.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.Ready() {
		writeDetail(w, http.StatusServiceUnavailable, usecases.ErrServiceNotReady.Error())
		return
	}

	s.bot.Reset()
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Chat history reset successfully",
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeDetail writes an error body in the {"detail": ...} shape the
// frontend has always consumed.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()[:8]
		next.ServeHTTP(w, r)
		log.Printf("[INFO] %s %s %s %v", reqID, r.Method, r.URL.Path, time.Since(start))
	})
}

// recoveryMiddleware keeps a panicking handler from taking the process down;
// the client sees a generic internal error.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[ERROR] panic handling %s %s: %v", r.Method, r.URL.Path, rec)
				writeDetail(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			return
		}
		next.ServeHTTP(w, r)
	})
}
