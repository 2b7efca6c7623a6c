package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/srgchrksv/designnewshub/models"
	"google.golang.org/genai"
)

type generateCall struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	deadline bool
}

type fakeGenerator struct {
	resp  *genai.GenerateContentResponse
	err   error
	calls []generateCall
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	_, hasDeadline := ctx.Deadline()
	f.calls = append(f.calls, generateCall{model: model, contents: contents, config: config, deadline: hasDeadline})
	return f.resp, f.err
}

func responseWithParts(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: "model", Parts: parts}},
		},
	}
}

func textResponse(text string) *genai.GenerateContentResponse {
	return responseWithParts(&genai.Part{Text: text})
}

func testOptions() GeminiOptions {
	return GeminiOptions{
		NewsModel: "news-model",
		TTSModel:  "tts-model",
		Voice:     "Kore",
	}
}

func promptText(call generateCall) string {
	var b strings.Builder
	for _, c := range call.contents {
		for _, p := range c.Parts {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

const scenarioJSON = `{"date":"2024-05-01","items":[{"title":"A","source":"S","url":"http://x","summary":"sum","category":"Diseño"}],"fullText":"texto"}`

func TestFetchNewsDecodesScenario(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse(scenarioJSON)}
	g := NewGemini(gen, testOptions())

	report, err := g.FetchNews(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &models.NewsReport{
		Date: "2024-05-01",
		Items: []models.NewsItem{
			{Title: "A", Source: "S", URL: "http://x", Summary: "sum", Category: "Diseño"},
		},
		FullText: "texto",
	}
	assert.Equal(t, want, report)

	if len(gen.calls) != 1 {
		t.Fatalf("expected one call, got %d", len(gen.calls))
	}
	call := gen.calls[0]
	assert.Equal(t, "news-model", call.model)
	assert.Equal(t, "application/json", call.config.ResponseMIMEType)
	if len(call.config.Tools) != 1 || call.config.Tools[0].GoogleSearch == nil {
		t.Fatalf("expected a single google search tool, got %+v", call.config.Tools)
	}
	assert.Equal(t, []string{"date", "items", "fullText"}, call.config.ResponseSchema.Required)
	assert.Equal(t, []string{"title", "source", "url", "summary", "category"}, call.config.ResponseSchema.Properties["items"].Items.Required)
	assert.Equal(t, true, strings.Contains(promptText(call), "Diseño Gráfico"))
	assert.Equal(t, false, call.deadline)
}

func TestFetchNewsPreservesItemOrder(t *testing.T) {
	body := `{"date":"d","items":[
		{"title":"1","source":"s","url":"u","summary":"x","category":"c"},
		{"title":"2","source":"s","url":"u","summary":"x","category":"c"},
		{"title":"3","source":"s","url":"u","summary":"x","category":"c"}],"fullText":"t"}`
	g := NewGemini(&fakeGenerator{resp: textResponse(body)}, testOptions())

	report, err := g.FetchNews(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, "1", report.Items[0].Title)
	assert.Equal(t, "2", report.Items[1].Title)
	assert.Equal(t, "3", report.Items[2].Title)
}

func TestFetchNewsJoinsTextPartsAndSkipsThoughts(t *testing.T) {
	resp := responseWithParts(
		&genai.Part{Text: "thinking about news", Thought: true},
		&genai.Part{Text: "```json\n" + scenarioJSON[:40]},
		&genai.Part{Text: scenarioJSON[40:] + "\n```"},
	)
	g := NewGemini(&fakeGenerator{resp: resp}, testOptions())

	report, err := g.FetchNews(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, "2024-05-01", report.Date)
	assert.Equal(t, "texto", report.FullText)
}

func TestFetchNewsDeserializationErrors(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{
			name: "item missing url",
			resp: textResponse(`{"date":"2024-05-01","items":[{"title":"A","source":"S","summary":"sum","category":"Diseño"}],"fullText":"texto"}`),
		},
		{
			name: "missing fullText",
			resp: textResponse(`{"date":"2024-05-01","items":[]}`),
		},
		{
			name: "missing items",
			resp: textResponse(`{"date":"2024-05-01","fullText":"texto"}`),
		},
		{
			name: "wrong type",
			resp: textResponse(`{"date":"2024-05-01","items":"none","fullText":"texto"}`),
		},
		{
			name: "not json",
			resp: textResponse("Lo siento, no encontré noticias."),
		},
		{
			name: "no candidates",
			resp: &genai.GenerateContentResponse{},
		},
		{
			name: "nil response",
			resp: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGemini(&fakeGenerator{resp: tt.resp}, testOptions())

			report, err := g.FetchNews(context.Background())

			var decodeErr *DeserializationError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("expected DeserializationError, got %v", err)
			}
			assert.Equal(t, (*models.NewsReport)(nil), report)
		})
	}
}

func TestFetchNewsEmptyItemsIsValid(t *testing.T) {
	g := NewGemini(&fakeGenerator{resp: textResponse(`{"date":"d","items":[],"fullText":"t"}`)}, testOptions())

	report, err := g.FetchNews(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, 0, len(report.Items))
}

func TestFetchNewsRemoteError(t *testing.T) {
	cause := errors.New("quota exceeded")
	g := NewGemini(&fakeGenerator{err: cause}, testOptions())

	_, err := g.FetchNews(context.Background())

	var remote *RemoteServiceError
	if !errors.As(err, &remote) {
		t.Fatalf("expected RemoteServiceError, got %v", err)
	}
	assert.Equal(t, "fetch news", remote.Op)
	assert.Equal(t, true, errors.Is(err, cause))
}

func TestTimeoutIsAppliedPerCall(t *testing.T) {
	opts := testOptions()
	opts.Timeout = time.Minute
	gen := &fakeGenerator{resp: textResponse(scenarioJSON)}

	_, err := NewGemini(gen, opts).FetchNews(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, true, gen.calls[0].deadline)
}

func TestSynthesizeSpeechExtractsFirstInlineData(t *testing.T) {
	gen := &fakeGenerator{resp: responseWithParts(
		&genai.Part{Text: "aquí está el audio"},
		&genai.Part{InlineData: &genai.Blob{MIMEType: "audio/L16;codec=pcm;rate=24000", Data: []byte("pcm-1")}},
		&genai.Part{InlineData: &genai.Blob{MIMEType: "audio/L16;codec=pcm;rate=24000", Data: []byte("pcm-2")}},
	)}
	g := NewGemini(gen, testOptions())

	audio, err := g.SynthesizeSpeech(context.Background(), "texto")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, "pcm-1", string(audio.Data))
	assert.Equal(t, "audio/L16;codec=pcm;rate=24000", audio.MIMEType)
	assert.Equal(t, "cGNtLTE=", audio.Base64())

	call := gen.calls[0]
	assert.Equal(t, "tts-model", call.model)
	assert.Equal(t, []string{"AUDIO"}, call.config.ResponseModalities)
	assert.Equal(t, "Kore", call.config.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName)
	assert.Equal(t, speechPromptPrefix+"texto", promptText(call))
}

func TestSynthesizeSpeechNoAudio(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{name: "text only", resp: textResponse("no puedo")},
		{name: "empty payload", resp: responseWithParts(&genai.Part{InlineData: &genai.Blob{MIMEType: "audio/L16"}})},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}},
		{name: "nil content", resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGemini(&fakeGenerator{resp: tt.resp}, testOptions())

			audio, err := g.SynthesizeSpeech(context.Background(), "texto")

			var extractErr *AudioExtractionError
			if !errors.As(err, &extractErr) {
				t.Fatalf("expected AudioExtractionError, got %v", err)
			}
			assert.Equal(t, true, errors.Is(err, ErrNoAudio))
			assert.Equal(t, (*models.AudioResult)(nil), audio)
		})
	}
}

func TestSynthesizeSpeechRemoteError(t *testing.T) {
	g := NewGemini(&fakeGenerator{err: errors.New("503")}, testOptions())

	_, err := g.SynthesizeSpeech(context.Background(), "texto")

	var remote *RemoteServiceError
	if !errors.As(err, &remote) {
		t.Fatalf("expected RemoteServiceError, got %v", err)
	}
	assert.Equal(t, "synthesize speech", remote.Op)
}

func TestServicesDelegates(t *testing.T) {
	news := NewGemini(&fakeGenerator{resp: textResponse(scenarioJSON)}, testOptions())
	speech := NewGemini(&fakeGenerator{resp: responseWithParts(&genai.Part{InlineData: &genai.Blob{Data: []byte("a")}})}, testOptions())
	s := NewServices(news, speech)

	report, err := s.FetchNews(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	audio, err := s.SynthesizeSpeech(context.Background(), report.FullText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, "a", string(audio.Data))
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain JSON unchanged", input: `{"date":"x"}`, want: `{"date":"x"}`},
		{name: "strips json fenced block", input: "```json\n{\"date\":\"x\"}\n```", want: `{"date":"x"}`},
		{name: "strips plain fenced block", input: "```\n{\"date\":\"x\"}\n```", want: `{"date":"x"}`},
		{name: "drops surrounding prose", input: "Aquí tienes: {\"date\":\"x\"} ¡Saludos!", want: `{"date":"x"}`},
		{name: "empty", input: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cleanJSONResponse(tt.input)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "remote_service", errorKind(&RemoteServiceError{Op: "x", Err: errors.New("y")}))
	assert.Equal(t, "deserialization", errorKind(&DeserializationError{Err: errors.New("y")}))
	assert.Equal(t, "audio_extraction", errorKind(&AudioExtractionError{Err: ErrNoAudio}))
	assert.Equal(t, "unknown", errorKind(errors.New("other")))
}

func TestDisplayMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "no audio", err: &AudioExtractionError{Err: ErrNoAudio}, want: "No se pudo generar el audio"},
		{name: "bad report", err: &DeserializationError{Err: errors.New("unexpected end of JSON input")}, want: "La respuesta de noticias no tiene el formato esperado"},
		{name: "remote", err: &RemoteServiceError{Op: "fetch news", Err: errors.New("quota exceeded")}, want: "quota exceeded"},
		{name: "other", err: errors.New("boom"), want: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, displayMessage(tt.err))
		})
	}
}
