// Package audio provides PulseAudio microphone capture and playback for the
// terminal client's speech adapters.
package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jfreymuth/pulse"
	pulseproto "github.com/jfreymuth/pulse/proto"
)

const (
	captureSampleRate  = 16000
	playbackSampleRate = 22050

	defaultMaxDuration = 30 * time.Second
)

// PlaybackFormat is the synthesis output format Player understands: raw
// 22.05kHz mono s16le PCM.
const PlaybackFormat = "pcm_22050"

// Recorder captures one utterance from the default Pulse source as
// 16kHz mono s16 WAV. Cancelling the capture context finishes the recording
// and returns what was captured so far (push-to-talk stop, not an abort).
type Recorder struct {
	maxDuration time.Duration
}

func NewRecorder(maxDuration time.Duration) *Recorder {
	if maxDuration <= 0 {
		maxDuration = defaultMaxDuration
	}
	return &Recorder{maxDuration: maxDuration}
}

// Record satisfies speech.CaptureFunc.
func (r *Recorder) Record(ctx context.Context) ([]byte, error) {
	client, err := pulse.NewClient(
		pulse.ClientApplicationName("voicebot"),
		pulse.ClientApplicationIconName("audio-input-microphone"),
	)
	if err != nil {
		return nil, fmt.Errorf("connect pulse server: %w", err)
	}
	defer client.Close()

	var (
		mu      sync.Mutex
		pcm     []byte
		stopped bool
	)
	done := make(chan struct{})

	writer := pulse.NewWriter(writerFunc(func(buf []byte) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return 0, io.EOF
		}
		pcm = append(pcm, buf...)
		return len(buf), nil
	}), pulseproto.FormatInt16LE)

	stream, err := client.NewRecord(
		writer,
		pulse.RecordMono,
		pulse.RecordSampleRate(captureSampleRate),
		pulse.RecordMediaName("voicebot capture"),
	)
	if err != nil {
		return nil, fmt.Errorf("create pulse record stream: %w", err)
	}
	stream.Start()

	go func() {
		select {
		case <-ctx.Done():
		case <-time.After(r.maxDuration):
		}
		mu.Lock()
		stopped = true
		mu.Unlock()
		stream.Stop()
		stream.Close()
		close(done)
	}()
	<-done

	mu.Lock()
	captured := append([]byte(nil), pcm...)
	mu.Unlock()

	if len(captured) == 0 {
		return nil, nil
	}
	return encodeWAV(captured, captureSampleRate), nil
}

// Player renders raw PCM (22.05kHz mono s16, the format the TTS proxy is
// asked for) on the default Pulse sink.
type Player struct{}

func NewPlayer() *Player { return &Player{} }

// Play blocks until the audio drains or the context is cancelled.
func (p *Player) Play(ctx context.Context, audio []byte) error {
	if len(audio) == 0 {
		return nil
	}
	client, err := pulse.NewClient(pulse.ClientApplicationName("voicebot"))
	if err != nil {
		return fmt.Errorf("connect pulse server: %w", err)
	}
	defer client.Close()

	reader := pulse.NewReader(bytes.NewReader(audio), pulseproto.FormatInt16LE)
	stream, err := client.NewPlayback(
		reader,
		pulse.PlaybackMono,
		pulse.PlaybackSampleRate(playbackSampleRate),
		pulse.PlaybackMediaName("voicebot answer"),
	)
	if err != nil {
		return fmt.Errorf("create pulse playback stream: %w", err)
	}
	defer stream.Close()

	done := make(chan struct{})
	go func() {
		stream.Start()
		stream.Drain()
		close(done)
	}()

	select {
	case <-ctx.Done():
		stream.Stop()
		return ctx.Err()
	case <-done:
		return nil
	}
}

// encodeWAV wraps raw mono s16le PCM in a RIFF/WAVE container so the
// transcription engine can identify the format.
func encodeWAV(pcm []byte, sampleRate int) []byte {
	const (
		channels      = 1
		bitsPerSample = 16
	)
	blockAlign := channels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}

// writerFunc adapts a function to io.Writer for pulse.NewWriter.
type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(b []byte) (int, error) { return f(b) }
