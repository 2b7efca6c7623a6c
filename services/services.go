package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/srgchrksv/designnewshub/models"
	"google.golang.org/genai"
)

// ContentGenerator is the part of the genai SDK the gateway needs. *genai.Models
// (client.Models) satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type NewsFetcher interface {
	FetchNews(ctx context.Context) (*models.NewsReport, error)
}

type SpeechSynthesizer interface {
	SynthesizeSpeech(ctx context.Context, text string) (*models.AudioResult, error)
}

// Gateway is the remote AI service as seen by the orchestrator.
type Gateway interface {
	NewsFetcher
	SpeechSynthesizer
}

// Services pairs a news fetcher with a speech synthesizer so the two can come
// from different providers.
type Services struct {
	News   NewsFetcher
	Speech SpeechSynthesizer
}

func NewServices(news NewsFetcher, speech SpeechSynthesizer) *Services {
	return &Services{News: news, Speech: speech}
}

func (s *Services) FetchNews(ctx context.Context) (*models.NewsReport, error) {
	return s.News.FetchNews(ctx)
}

func (s *Services) SynthesizeSpeech(ctx context.Context, text string) (*models.AudioResult, error) {
	return s.Speech.SynthesizeSpeech(ctx, text)
}

type GeminiOptions struct {
	NewsModel string
	TTSModel  string
	Voice     string
	Timeout   time.Duration
}

// Gemini talks to the Gemini API: grounded news search with a response schema,
// and TTS with a prebuilt voice.
type Gemini struct {
	generator ContentGenerator
	opts      GeminiOptions
	validate  *validator.Validate
}

func NewGemini(generator ContentGenerator, opts GeminiOptions) *Gemini {
	return &Gemini{
		generator: generator,
		opts:      opts,
		validate:  validator.New(),
	}
}

func (g *Gemini) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.opts.Timeout > 0 {
		return context.WithTimeout(ctx, g.opts.Timeout)
	}
	return context.WithCancel(ctx)
}

func (g *Gemini) FetchNews(ctx context.Context) (*models.NewsReport, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	resp, err := g.generator.GenerateContent(ctx, g.opts.NewsModel, genai.Text(newsPrompt), &genai.GenerateContentConfig{
		Tools:            []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		ResponseMIMEType: "application/json",
		ResponseSchema:   newsSchema,
	})
	if err != nil {
		return nil, &RemoteServiceError{Op: "fetch news", Err: err}
	}

	raw := models.JoinText(responseParts(resp))
	report, err := g.decodeReport(raw)
	if err != nil {
		return nil, err
	}
	slog.Debug("news report received", "date", report.Date, "items", len(report.Items))
	return report, nil
}

func (g *Gemini) decodeReport(raw string) (*models.NewsReport, error) {
	content := cleanJSONResponse(raw)
	if content == "" {
		return nil, &DeserializationError{Err: errors.New("empty response"), Raw: raw}
	}

	var report models.NewsReport
	if err := json.Unmarshal([]byte(content), &report); err != nil {
		return nil, &DeserializationError{Err: err, Raw: raw}
	}
	if err := g.validate.Struct(report); err != nil {
		return nil, &DeserializationError{Err: err, Raw: raw}
	}
	return &report, nil
}

func (g *Gemini) SynthesizeSpeech(ctx context.Context, text string) (*models.AudioResult, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	resp, err := g.generator.GenerateContent(ctx, g.opts.TTSModel, genai.Text(speechPrompt(text)), &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: g.opts.Voice},
			},
		},
	})
	if err != nil {
		return nil, &RemoteServiceError{Op: "synthesize speech", Err: err}
	}

	blob, ok := models.FirstInlineData(responseParts(resp))
	if !ok || len(blob.Data) == 0 {
		return nil, &AudioExtractionError{Err: ErrNoAudio}
	}
	slog.Debug("speech synthesized", "mime_type", blob.MIMEType, "bytes", len(blob.Data))
	return &models.AudioResult{Data: blob.Data, MIMEType: blob.MIMEType}, nil
}

// responseParts converts the first candidate's content into models.Part values,
// keeping the order in which the service returned them. Thought parts are dropped.
func responseParts(resp *genai.GenerateContentResponse) []models.Part {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return nil
	}

	parts := make([]models.Part, 0, len(candidate.Content.Parts))
	for _, part := range candidate.Content.Parts {
		switch {
		case part == nil, part.Thought:
			continue
		case part.InlineData != nil:
			parts = append(parts, models.InlineDataPart{
				MIMEType: part.InlineData.MIMEType,
				Data:     part.InlineData.Data,
			})
		case part.Text != "":
			parts = append(parts, models.TextPart(part.Text))
		}
	}
	return parts
}
