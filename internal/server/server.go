package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	openai "github.com/sashabaranov/go-openai"

	"interview-voicebot/internal/config"
	"interview-voicebot/internal/gateway"
	"interview-voicebot/internal/language"
	"interview-voicebot/internal/persona"
	"interview-voicebot/internal/prompt"
	"interview-voicebot/internal/types"
)

// Server is the stateless relay in front of the remote model. It holds no
// per-session state; the client replays its transcript on every turn.
type Server struct {
	router *chi.Mux
	gw     gateway.Client
	cfg    config.Config
	fact   persona.FactRecord
	now    func() time.Time
}

func NewServer(cfg config.Config, gw gateway.Client, fact persona.FactRecord) *Server {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{cfg.AllowedOrigin},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	s := &Server{
		router: r,
		gw:     gw,
		cfg:    cfg,
		fact:   fact,
		now:    time.Now,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.MethodNotAllowed(s.handleMethodNotAllowed)
	s.router.Get("/api/health", s.handleHealth)
	s.router.Post("/api/chat", s.handleChat)
	s.router.Options("/api/chat", s.handlePreflight)
	s.router.Post("/api/voice", s.handleVoice)
	s.router.Post("/api/tts", s.handleTTS)
	s.router.Get("/api/tts/voices", s.handleTTSVoices)
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handlePreflight answers cross-origin negotiation with an empty 200. The
// CORS middleware has already attached the allow headers.
func (s *Server) handlePreflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, http.StatusMethodNotAllowed, types.ErrorResponse{Error: "Method not allowed"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, types.ErrorResponse{Error: "Question is required"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		s.writeError(w, http.StatusBadRequest, types.ErrorResponse{Error: "Question is required"})
		return
	}
	// A missing credential is an operator problem, not a request problem.
	// Refuse before touching the network.
	if strings.TrimSpace(s.cfg.NvidiaAPIKey) == "" {
		s.writeError(w, http.StatusInternalServerError, types.ErrorResponse{
			Error: "API key not configured. Please add NVIDIA_API_KEY to environment variables.",
		})
		return
	}

	system := prompt.Assemble(s.fact, req.Language)

	// Full history is replayed every turn; session length is bounded only by
	// the model's own context window.
	messages := make([]openai.ChatCompletionMessage, 0, len(req.ConversationHistory)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: system,
	})
	for _, t := range req.ConversationHistory {
		messages = append(messages, openai.ChatCompletionMessage{Role: t.Role, Content: t.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Question,
	})

	comp, err := s.gw.Complete(r.Context(), messages)
	if err != nil {
		log.Println("[chat] gateway error:", err)
		s.writeError(w, http.StatusInternalServerError, types.ErrorResponse{
			Error:      "Failed to generate response",
			Details:    err.Error(),
			Suggestion: "Please try again or check your NVIDIA API key configuration.",
		})
		return
	}

	answer := comp.Answer
	if strings.TrimSpace(answer) == "" {
		if persona.IsLatestProjectQuestion(req.Question) {
			answer = persona.FallbackAnswer
		} else {
			answer = "I apologize, but I could not generate a response."
		}
	}

	var reasoning *string
	if comp.Reasoning != "" {
		reasoning = &comp.Reasoning
	}
	s.writeJSON(w, http.StatusOK, types.TurnResponse{
		Answer:    answer,
		Reasoning: reasoning,
		Question:  req.Question,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	})
}

// handleVoice transcribes one uploaded utterance for the client's speech
// input adapter.
func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.writeError(w, http.StatusBadRequest, types.ErrorResponse{Error: "invalid multipart form"})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, types.ErrorResponse{Error: "audio file is required (field 'file')"})
		return
	}
	defer file.Close()

	if strings.TrimSpace(s.cfg.NvidiaAPIKey) == "" {
		s.writeError(w, http.StatusInternalServerError, types.ErrorResponse{
			Error: "API key not configured. Please add NVIDIA_API_KEY to environment variables.",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 180*time.Second)
	defer cancel()

	lang := language.Primary(r.FormValue("language"))
	transcript, err := s.gw.Transcribe(ctx, file, header.Filename, lang)
	if err != nil {
		log.Println("[voice] transcription error:", err)
		s.writeError(w, http.StatusBadGateway, types.ErrorResponse{Error: "transcription failed"})
		return
	}
	if strings.TrimSpace(transcript) == "" {
		s.writeError(w, http.StatusBadGateway, types.ErrorResponse{Error: "empty transcription"})
		return
	}
	s.writeJSON(w, http.StatusOK, types.VoiceResponse{Transcript: strings.TrimSpace(transcript)})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, code int, e types.ErrorResponse) {
	s.writeJSON(w, code, e)
}
