// Package client is the typed HTTP client for the relay endpoint, used by
// the terminal client's orchestrator and speech adapters.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"interview-voicebot/internal/language"
	"interview-voicebot/internal/speech"
	"interview-voicebot/internal/types"
)

type RelayClient struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *RelayClient {
	return &RelayClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		// No client-side timeout: the chat turn deliberately has none, so a
		// hung relay leaves the caller loading until it cancels the context.
		http: &http.Client{},
	}
}

// Ask posts one conversation turn to the relay.
func (c *RelayClient) Ask(ctx context.Context, req types.TurnRequest) (types.TurnResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return types.TurnResponse{}, fmt.Errorf("encode turn request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return types.TurnResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return types.TurnResponse{}, fmt.Errorf("relay request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.TurnResponse{}, relayError(resp)
	}
	var out types.TurnResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return types.TurnResponse{}, fmt.Errorf("decode relay response: %w", err)
	}
	return out, nil
}

// Transcribe uploads one captured utterance to the relay's voice endpoint.
// locale is the BCP-47 tag of the selected language.
func (c *RelayClient) Transcribe(ctx context.Context, wav []byte, locale string) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "capture.wav")
	if err != nil {
		return "", err
	}
	if _, err := fw.Write(wav); err != nil {
		return "", err
	}
	if err := mw.WriteField("language", language.Primary(locale)); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/voice", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("voice request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e types.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err == nil && e.Error != "" {
			// the relay reports a silent capture as a distinct failure; the
			// adapter treats it as the no-speech outcome
			if e.Error == "empty transcription" {
				return "", speech.ErrNoSpeech
			}
			return "", fmt.Errorf("relay: %s", e.Error)
		}
		return "", fmt.Errorf("relay returned status %d", resp.StatusCode)
	}
	var out types.VoiceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode voice response: %w", err)
	}
	return out.Transcript, nil
}

// Synthesize fetches rendered audio for one utterance from the relay's TTS
// proxy.
func (c *RelayClient) Synthesize(ctx context.Context, text, voiceID, format string) ([]byte, error) {
	body, err := json.Marshal(types.TTSRequest{Text: text, VoiceID: voiceID, Format: format})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/tts", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, relayError(resp)
	}
	return io.ReadAll(resp.Body)
}

// Voices fetches the synthesis voice list through the relay. The upstream
// shape is the ElevenLabs voices payload; language and gender ride in the
// labels map when present.
func (c *RelayClient) Voices(ctx context.Context) ([]speech.Voice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tts/voices", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("voices request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, relayError(resp)
	}

	var payload struct {
		Voices []struct {
			VoiceID string            `json:"voice_id"`
			Name    string            `json:"name"`
			Labels  map[string]string `json:"labels"`
		} `json:"voices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode voices response: %w", err)
	}

	voices := make([]speech.Voice, 0, len(payload.Voices))
	for _, v := range payload.Voices {
		voices = append(voices, speech.Voice{
			ID:       v.VoiceID,
			Name:     v.Name,
			Language: v.Labels["language"],
			Gender:   v.Labels["gender"],
		})
	}
	return voices, nil
}

// relayError maps a non-200 relay response to an error carrying the server's
// own message when one was sent.
func relayError(resp *http.Response) error {
	var e types.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&e); err == nil && e.Error != "" {
		return fmt.Errorf("relay: %s", e.Error)
	}
	return fmt.Errorf("relay returned status %d", resp.StatusCode)
}
