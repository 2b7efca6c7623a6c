package services

import (
	"bytes"
	"context"
	"encoding/binary"
	"log/slog"
	"strings"
	"unicode/utf8"

	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/srgchrksv/designnewshub/models"
)

// maxInputBytes is the Cloud Text-to-Speech limit for one request's input.
const maxInputBytes = 5000

const riffHeaderSize = 44

// TextToSpeechClient is the subset of *texttospeech.Client used here.
type TextToSpeechClient interface {
	SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest, opts ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error)
}

// CloudTextToSpeech synthesizes narration with Google Cloud Text-to-Speech
// instead of the Gemini TTS model.
type CloudTextToSpeech struct {
	client       TextToSpeechClient
	voice        string
	languageCode string
}

func NewCloudTextToSpeech(client TextToSpeechClient, voice, languageCode string) *CloudTextToSpeech {
	return &CloudTextToSpeech{client: client, voice: voice, languageCode: languageCode}
}

// SynthesizeSpeech sends the text in chunks that fit the request limit and
// joins the LINEAR16 results into a single WAV file. The sample rate comes from
// the first response's header.
func (s *CloudTextToSpeech) SynthesizeSpeech(ctx context.Context, text string) (*models.AudioResult, error) {
	chunks := splitText(strings.TrimSpace(text), maxInputBytes)
	if len(chunks) == 0 {
		return nil, &AudioExtractionError{Err: ErrNoAudio}
	}

	var pcm []byte
	rate := 0
	for i, chunk := range chunks {
		audio, err := s.synthesizeChunk(ctx, chunk)
		if err != nil {
			slog.Debug("cloud tts chunk failed", "chunk", i+1, "chunks", len(chunks), "bytes", len(chunk))
			return nil, &RemoteServiceError{Op: "synthesize speech", Err: err}
		}
		if len(audio) == 0 {
			return nil, &AudioExtractionError{Err: ErrNoAudio}
		}
		data, chunkRate := stripRIFFHeader(audio)
		if rate == 0 {
			rate = chunkRate
		}
		pcm = append(pcm, data...)
	}
	if len(pcm) == 0 {
		return nil, &AudioExtractionError{Err: ErrNoAudio}
	}

	return &models.AudioResult{Data: models.FrameWAV(pcm, rate), MIMEType: "audio/wav"}, nil
}

func (s *CloudTextToSpeech) synthesizeChunk(ctx context.Context, text string) ([]byte, error) {
	req := texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: s.languageCode,
			Name:         s.voice,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_LINEAR16,
			SpeakingRate:  0.95,
		},
	}

	resp, err := s.client.SynthesizeSpeech(ctx, &req)
	if err != nil {
		return nil, err
	}
	return resp.GetAudioContent(), nil
}

// stripRIFFHeader returns the PCM samples of a LINEAR16 response and the
// sample rate from its header. Payloads without a header come back as-is
// with rate 0.
func stripRIFFHeader(audio []byte) ([]byte, int) {
	if len(audio) < riffHeaderSize || !bytes.HasPrefix(audio, []byte("RIFF")) {
		return audio, 0
	}
	rate := int(binary.LittleEndian.Uint32(audio[24:28]))
	return audio[riffHeaderSize:], rate
}

// splitText breaks text into chunks of at most limit bytes, cutting after
// sentence punctuation or newlines. A sentence longer than limit is cut at the
// last space that fits, or at a rune boundary when there is none.
func splitText(text string, limit int) []string {
	var (
		chunks  []string
		current strings.Builder
	)
	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			chunks = append(chunks, s)
		}
		current.Reset()
	}

	for _, sentence := range sentences(text) {
		if current.Len()+len(sentence) <= limit {
			current.WriteString(sentence)
			continue
		}
		flush()
		for len(sentence) > limit {
			cut := cutPoint(sentence, limit)
			if part := strings.TrimSpace(sentence[:cut]); part != "" {
				chunks = append(chunks, part)
			}
			sentence = sentence[cut:]
		}
		current.WriteString(sentence)
	}
	flush()
	return chunks
}

// sentences splits text after '.', '!', '?' and '\n', keeping the delimiter
// and any following spaces with the sentence.
func sentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?', '\n':
			end := i + 1
			for end < len(text) && text[end] == ' ' {
				end++
			}
			out = append(out, text[start:end])
			start = end
			i = end - 1
		}
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}

func cutPoint(s string, limit int) int {
	if i := strings.LastIndexByte(s[:limit], ' '); i > 0 {
		return i + 1
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	if cut == 0 {
		return limit
	}
	return cut
}
