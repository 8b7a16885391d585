package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"interview-voicebot/internal/types"
)

// ElevenLabs synthesis proxy: JSON { text, voiceId?, format? } -> audio.
// The client's speech output adapter requests PCM so it can play the bytes
// directly; browsers hitting this endpoint get MP3 by default.
func (s *Server) handleTTS(w http.ResponseWriter, r *http.Request) {
	var body types.TTSRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Text) == "" {
		s.writeError(w, http.StatusBadRequest, types.ErrorResponse{Error: "invalid text body"})
		return
	}
	if s.cfg.ElevenAPIKey == "" {
		s.writeError(w, http.StatusBadRequest, types.ErrorResponse{Error: "speech synthesis not configured"})
		return
	}

	voiceID := s.cfg.ElevenVoiceID
	if strings.TrimSpace(body.VoiceID) != "" {
		voiceID = body.VoiceID
	}
	if strings.TrimSpace(voiceID) == "" {
		s.writeError(w, http.StatusBadRequest, types.ErrorResponse{Error: "no synthesis voice configured or provided"})
		return
	}
	format := body.Format
	if format == "" {
		format = "mp3_44100_128"
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s/stream", s.cfg.ElevenBaseURL, voiceID)
	payload := map[string]any{
		"text":     body.Text,
		"model_id": s.cfg.ElevenModel,
		"voice_settings": map[string]any{
			"stability":        0.5,
			"similarity_boost": 0.7,
		},
		"output_format": format,
	}
	b, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, types.ErrorResponse{Error: "tts request build failed"})
		return
	}
	req.Header.Set("xi-api-key", s.cfg.ElevenAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, types.ErrorResponse{Error: "tts request failed"})
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bb, _ := io.ReadAll(resp.Body)
		log.Println("[tts] synthesis error:", string(bb))
		s.writeError(w, http.StatusBadGateway, types.ErrorResponse{Error: "tts error"})
		return
	}

	contentType := "audio/mpeg"
	if strings.HasPrefix(format, "pcm_") {
		contentType = "audio/pcm"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, resp.Body)
}

// Voice list proxy: GET -> upstream JSON { voices: [...] }.
func (s *Server) handleTTSVoices(w http.ResponseWriter, r *http.Request) {
	if s.cfg.ElevenAPIKey == "" {
		s.writeError(w, http.StatusBadRequest, types.ErrorResponse{Error: "speech synthesis not configured"})
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, s.cfg.ElevenBaseURL+"/v1/voices", nil)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, types.ErrorResponse{Error: "voices request build failed"})
		return
	}
	req.Header.Set("xi-api-key", s.cfg.ElevenAPIKey)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, types.ErrorResponse{Error: "voices request failed"})
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bb, _ := io.ReadAll(resp.Body)
		log.Println("[tts] voices error:", string(bb))
		s.writeError(w, http.StatusBadGateway, types.ErrorResponse{Error: "voices error"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, resp.Body)
}
