// Command voicebot is the terminal client for the interview bot: a
// read-eval loop over the relay with optional push-to-talk voice input and
// spoken answers.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"interview-voicebot/internal/audio"
	"interview-voicebot/internal/client"
	"interview-voicebot/internal/language"
	"interview-voicebot/internal/orchestrator"
	"interview-voicebot/internal/speech"
)

var (
	serverURL    string
	languageTag  string
	voiceID      string
	speakAnswers bool
	maxUtterance time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "voicebot",
		Short: "Chat with the interview bot from the terminal",
		Long: `Interactive client for the interview bot relay.

Type a question and press Enter, or use /talk for push-to-talk voice input.
Commands:
  /talk    record a question from the microphone (Enter stops recording)
  /stop    interrupt the spoken answer
  /clear   forget the conversation so far
  /lang    switch language, e.g. /lang hi-IN
  /quit    exit`,
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().StringVarP(&serverURL, "server", "s", "http://localhost:8080", "Base URL of the relay server")
	rootCmd.Flags().StringVarP(&languageTag, "language", "l", language.DefaultTag, "Conversation language tag (en-US, hi-IN, bn-IN)")
	rootCmd.Flags().StringVar(&voiceID, "voice", "", "Pin a specific synthesis voice ID instead of auto-selecting")
	rootCmd.Flags().BoolVar(&speakAnswers, "speak", true, "Play answers aloud")
	rootCmd.Flags().DurationVar(&maxUtterance, "max-utterance", 30*time.Second, "Longest single voice recording")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	relay := client.New(serverURL)

	recorder := audio.NewRecorder(maxUtterance)
	rec := speech.NewRelayRecognizer(recorder.Record, relay)

	var synth speech.Synthesizer
	if speakAnswers {
		ps := speech.NewPlaybackSynthesizer(relay, audio.NewPlayer(), audio.PlaybackFormat)
		if voiceID != "" {
			ps.UseVoice(voiceID)
		}
		synth = ps
	}

	orch := orchestrator.New(relay, rec, synth)
	defer orch.Close()

	if err := orch.SetLanguage(languageTag); err != nil {
		return err
	}

	fmt.Printf("Connected to %s. Ask me about my background. /talk to speak, /quit to exit.\n", serverURL)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "/quit" || line == "/exit":
			return nil
		case line == "/clear":
			orch.ClearMemory()
			fmt.Println("Conversation cleared.")
		case line == "/stop":
			orch.StopSpeaking()
		case strings.HasPrefix(line, "/lang"):
			changeLanguage(orch, strings.TrimSpace(strings.TrimPrefix(line, "/lang")))
		case line == "/talk":
			talk(ctx, orch, scanner)
		default:
			ask(ctx, orch, line)
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

func ask(ctx context.Context, orch *orchestrator.Orchestrator, question string) {
	answer, err := orch.SubmitQuestion(ctx, question)
	if err != nil {
		if errors.Is(err, orchestrator.ErrTurnInFlight) {
			fmt.Println("Still working on the previous question.")
			return
		}
		fmt.Println(orch.LastError())
		return
	}
	if answer != "" {
		fmt.Println(answer)
	}
}

// talk runs one push-to-talk turn: recording starts immediately and Enter
// stops it. The turn then proceeds exactly like a typed question.
func talk(ctx context.Context, orch *orchestrator.Orchestrator, scanner *bufio.Scanner) {
	fmt.Println("Listening... press Enter to stop.")

	type result struct {
		answer string
		err    error
	}
	done := make(chan result, 1)
	go func() {
		answer, err := orch.StartListening(ctx)
		done <- result{answer, err}
	}()

	stopped := make(chan struct{})
	go func() {
		if scanner.Scan() {
			orch.StopListening()
		}
		close(stopped)
	}()

	res := <-done
	switch {
	case errors.Is(res.err, orchestrator.ErrTurnInFlight):
		fmt.Println("Still working on the previous question.")
	case res.err != nil:
		fmt.Println(orch.LastError())
	case res.answer == "":
		fmt.Println("No speech detected. Please try again.")
	default:
		fmt.Println(res.answer)
	}
	// the Enter that stopped the recording must not be read as a question
	<-stopped
}

func changeLanguage(orch *orchestrator.Orchestrator, tag string) {
	if tag == "" {
		var tags []string
		for _, loc := range language.Supported() {
			tags = append(tags, loc.Tag)
		}
		fmt.Printf("Current language: %s. Available: %s\n", orch.Language().Tag, strings.Join(tags, ", "))
		return
	}
	if err := orch.SetLanguage(tag); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("Language set to %s.\n", orch.Language().Name)
}
