package types

// Turn is one message (user question or assistant answer) in the
// conversation transcript. Turn order is replayed verbatim as model context,
// so it is semantically meaningful.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// TurnRequest is the body of POST /api/chat.
type TurnRequest struct {
	Question            string `json:"question"`
	Language            string `json:"language,omitempty"`
	ConversationHistory []Turn `json:"conversationHistory,omitempty"`
}

// TurnResponse is the success body of POST /api/chat. Reasoning is null when
// the model returned no reasoning trace.
type TurnResponse struct {
	Answer    string  `json:"answer"`
	Reasoning *string `json:"reasoning"`
	Question  string  `json:"question"`
	Timestamp string  `json:"timestamp"`
}

type ErrorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// VoiceResponse is the body of POST /api/voice.
type VoiceResponse struct {
	Transcript string `json:"transcript"`
}

// TTSRequest is the body of POST /api/tts.
type TTSRequest struct {
	Text    string `json:"text"`
	VoiceID string `json:"voiceId,omitempty"`
	Format  string `json:"format,omitempty"`
}
