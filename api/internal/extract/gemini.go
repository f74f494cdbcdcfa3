package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"dolfin-bot/api/internal/util"
)

// Engine wraps one Gemini generate-content call per invoice image.
type Engine struct {
	APIKey  string
	Model   string
	Timeout time.Duration

	// Token count of the fixed instruction, measured once. The API reports
	// prompt tokens as a single number, so the image share is derived as
	// prompt total minus the instruction share.
	promptOnce   sync.Once
	promptTokens int32
}

func New(apiKey, model string, timeout time.Duration) *Engine {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Engine{
		APIKey:  strings.TrimSpace(apiKey),
		Model:   strings.TrimSpace(model),
		Timeout: timeout,
	}
}

func (e *Engine) Name() string { return "gemini" }

// ExtractInvoice reads a locally stored image, sends it with the extraction
// prompt and decodes the response. One call, no retries; the caller decides
// what a failure means for the conversation.
func (e *Engine) ExtractInvoice(ctx context.Context, path string) (Result, error) {
	if e.APIKey == "" {
		return Result{}, errors.New("GEMINI_API_KEY is empty")
	}
	img, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read image: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return Result{}, err
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.Model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
	}

	format := util.ImageFormat(util.SniffMime(img))
	parts := []genai.Part{
		genai.ImageData(format, img),
		genai.Text(extractionPrompt),
	}

	e.promptOnce.Do(func() {
		if tr, err := m.CountTokens(ctx, genai.Text(extractionPrompt)); err == nil {
			e.promptTokens = tr.TotalTokens
		}
	})

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return Result{}, fmt.Errorf("gemini: %w", err)
	}
	txt := firstText(resp)
	if txt == "" {
		return Result{}, fmt.Errorf("gemini: empty response")
	}

	usage := usageFrom(resp, e.promptTokens)

	inv, err := Decode(txt)
	if err != nil {
		return Result{Raw: txt, Usage: usage}, err
	}
	return Result{Invoice: inv, Usage: usage, Raw: txt}, nil
}

func usageFrom(resp *genai.GenerateContentResponse, promptTextTokens int32) Usage {
	u := Usage{InputTokenText: promptTextTokens}
	if resp.UsageMetadata == nil {
		return u
	}
	if img := resp.UsageMetadata.PromptTokenCount - promptTextTokens; img > 0 {
		u.InputTokenImage = img
	}
	u.OutputTokenText = resp.UsageMetadata.CandidatesTokenCount
	return u
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return strings.TrimSpace(b.String())
}

func ptrFloat32(v float32) *float32 { return &v }
