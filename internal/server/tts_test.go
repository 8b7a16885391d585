package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"interview-voicebot/internal/config"
	"interview-voicebot/internal/types"
)

func ttsConfig(upstream string) config.Config {
	cfg := testConfig()
	cfg.ElevenAPIKey = "eleven-key"
	cfg.ElevenBaseURL = upstream
	cfg.ElevenVoiceID = "default-voice"
	cfg.ElevenModel = "eleven_multilingual_v2"
	return cfg
}

func postTTS(t *testing.T, s *Server, body types.TTSRequest) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/tts", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestTTSProxiesSynthesis(t *testing.T) {
	var gotPath, gotKey string
	var gotPayload map[string]any
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("xi-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write([]byte("mp3-bytes"))
	}))
	defer upstream.Close()

	s := newTestServer(t, ttsConfig(upstream.URL), &fakeGateway{})
	rec := postTTS(t, s, types.TTSRequest{Text: "hello there"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "audio/mpeg", rec.Header().Get("Content-Type"))
	require.Equal(t, "mp3-bytes", rec.Body.String())
	require.Equal(t, "/v1/text-to-speech/default-voice/stream", gotPath)
	require.Equal(t, "eleven-key", gotKey)
	require.Equal(t, "hello there", gotPayload["text"])
	require.Equal(t, "eleven_multilingual_v2", gotPayload["model_id"])
	require.Equal(t, "mp3_44100_128", gotPayload["output_format"])
}

func TestTTSPCMFormatAndVoiceOverride(t *testing.T) {
	var gotPath string
	var gotPayload map[string]any
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write([]byte("pcm-bytes"))
	}))
	defer upstream.Close()

	s := newTestServer(t, ttsConfig(upstream.URL), &fakeGateway{})
	rec := postTTS(t, s, types.TTSRequest{Text: "hi", VoiceID: "custom-voice", Format: "pcm_22050"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "audio/pcm", rec.Header().Get("Content-Type"))
	require.Equal(t, "/v1/text-to-speech/custom-voice/stream", gotPath)
	require.Equal(t, "pcm_22050", gotPayload["output_format"])
}

func TestTTSValidation(t *testing.T) {
	s := newTestServer(t, ttsConfig("http://unused"), &fakeGateway{})

	rec := postTTS(t, s, types.TTSRequest{Text: "   "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid text body", decodeError(t, rec).Error)

	req := httptest.NewRequest(http.MethodPost, "/api/tts", strings.NewReader("not json"))
	rec2 := httptest.NewRecorder()
	s.Router().ServeHTTP(rec2, req)
	require.Equal(t, http.StatusBadRequest, rec2.Code)
}

func TestTTSNotConfigured(t *testing.T) {
	cfg := ttsConfig("http://unused")
	cfg.ElevenAPIKey = ""
	s := newTestServer(t, cfg, &fakeGateway{})

	rec := postTTS(t, s, types.TTSRequest{Text: "hi"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "speech synthesis not configured", decodeError(t, rec).Error)
}

func TestTTSNoVoiceAnywhere(t *testing.T) {
	cfg := ttsConfig("http://unused")
	cfg.ElevenVoiceID = ""
	s := newTestServer(t, cfg, &fakeGateway{})

	rec := postTTS(t, s, types.TTSRequest{Text: "hi"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "no synthesis voice configured or provided", decodeError(t, rec).Error)
}

func TestTTSUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer upstream.Close()

	s := newTestServer(t, ttsConfig(upstream.URL), &fakeGateway{})
	rec := postTTS(t, s, types.TTSRequest{Text: "hi"})

	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Equal(t, "tts error", decodeError(t, rec).Error)
}

func TestTTSVoicesProxy(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/voices", r.URL.Path)
		require.Equal(t, "eleven-key", r.Header.Get("xi-api-key"))
		w.Write([]byte(`{"voices":[{"voice_id":"v1","name":"Ravi"}]}`))
	}))
	defer upstream.Close()

	s := newTestServer(t, ttsConfig(upstream.URL), &fakeGateway{})
	req := httptest.NewRequest(http.MethodGet, "/api/tts/voices", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"voices":[{"voice_id":"v1","name":"Ravi"}]}`, rec.Body.String())
}

func TestTTSVoicesNotConfigured(t *testing.T) {
	cfg := ttsConfig("http://unused")
	cfg.ElevenAPIKey = ""
	s := newTestServer(t, cfg, &fakeGateway{})

	req := httptest.NewRequest(http.MethodGet, "/api/tts/voices", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "speech synthesis not configured", decodeError(t, rec).Error)
}
