package llm

import (
	"context"
	"fmt"
	"strings"

	"cantina-chat/internal/chat/app/core"
	"cantina-chat/internal/chat/domain/models"
	"cantina-chat/internal/xpkg/config"

	"google.golang.org/genai"
)

const temperature = 0.4

// Gemini writes free-form replies for messages no intent recognised.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini returns nil, core.ErrGeneratorDisabled when no API key is configured.
func NewGemini(ctx context.Context, cfg *config.GenAI) (*Gemini, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, core.ErrGeneratorDisabled
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = config.DefaultGenAIModel
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Generate(ctx context.Context, systemPrompt string, recent []models.Message, text string) (string, error) {
	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](temperature),
	}
	if systemPrompt != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, buildContents(recent, text), genCfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	reply := strings.TrimSpace(resp.Text())
	if reply == "" {
		return "", core.ErrEmptyGeneration
	}
	return reply, nil
}

// buildContents turns the transcript into alternating user/model turns followed by the new
// message. Empty turns are dropped.
func buildContents(recent []models.Message, text string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(recent)+1)
	for _, m := range recent {
		if strings.TrimSpace(m.Text) == "" {
			continue
		}
		role := genai.Role(genai.RoleUser)
		if m.Origin == models.OriginBot {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Text, role))
	}
	return append(contents, genai.NewContentFromText(text, genai.RoleUser))
}
