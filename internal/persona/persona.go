// Package persona owns the biographical fact record the bot answers from.
// The relay process is the single source of truth for these facts; clients
// never carry their own copy.
package persona

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed facts.yaml
var defaultFacts []byte

// FactRecord is the static biographical record serialized into the system
// prompt. Loaded once at process start; never mutated afterwards.
type FactRecord struct {
	Name              string   `yaml:"name"`
	Location          string   `yaml:"location"`
	Education         string   `yaml:"education"`
	LifeStory         string   `yaml:"lifeStory"`
	Superpower        string   `yaml:"superpower"`
	GrowthAreas       string   `yaml:"growthAreas"`
	Misconception     string   `yaml:"misconception"`
	PushingBoundaries string   `yaml:"pushingBoundaries"`
	Experience        string   `yaml:"experience"`
	Why100x           string   `yaml:"why100x"`
	Skills            []string `yaml:"skills"`
	Projects          []string `yaml:"projects"`
	LatestProject     string   `yaml:"latestProject"`
}

// LatestProjectFallback is the verbatim block embedded in every system prompt
// so the model can still answer the latest-project question if the fact field
// itself ever arrives empty.
const LatestProjectFallback = `MANDATORY FALLBACK FOR LATEST PROJECT:
If for any reason the "LATEST PROJECT (MOST RECENT)" section appears missing or undefined, you MUST still answer using the following exact facts:
- Project: Voice Interview Assistant for the 100x application
- Frontend: React
- Voice: Web Speech API (recognition + text-to-speech)
- LLM: NVIDIA NIM API with GPT-OSS 120B model
- Deployment: Vercel (serverless)
- Features: Multi-language support (English, Hindi, Bengali), conversation memory, shipped in under 48 hours
Keep the answer concise (4-6 sentences) and do NOT mention any forbidden technologies.`

// FallbackAnswer is the deterministic local answer the relay substitutes when
// the model returns an empty answer to a latest-project question.
const FallbackAnswer = "My most recent project is this Voice Interview Assistant I built for the 100x application. It uses React for the frontend, Web Speech API for voice recognition and text-to-speech, and NVIDIA NIM API with GPT-OSS 120B model for generating responses. It includes conversation memory and multi-language support. I deployed it on Vercel and shipped it in under 48 hours. This project demonstrates my ability to ship fast and build production-ready AI agents."

// Load reads the fact record. An empty path uses the embedded default;
// otherwise the YAML file at path replaces it entirely.
func Load(path string) (FactRecord, error) {
	raw := defaultFacts
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return FactRecord{}, fmt.Errorf("read facts file: %w", err)
		}
		raw = b
	}
	var fact FactRecord
	if err := yaml.Unmarshal(raw, &fact); err != nil {
		return FactRecord{}, fmt.Errorf("parse facts: %w", err)
	}
	if strings.TrimSpace(fact.Name) == "" {
		return FactRecord{}, errors.New("facts record is missing a name")
	}
	return fact, nil
}

// IsLatestProjectQuestion reports whether a question is asking about the
// latest project. Substring match only; this gates the best-effort local
// fallback, not correctness.
func IsLatestProjectQuestion(question string) bool {
	q := strings.ToLower(question)
	return strings.Contains(q, "latest project") ||
		strings.Contains(q, "recent project") ||
		strings.Contains(q, "newest project")
}
