package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"ai-tutor-be/pkg/llm"
)

const defaultModel = "gemini-1.5-flash"

type GeminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

type GeminiChatPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *GeminiInlineData `json:"inline_data,omitempty"`
}

type GeminiChatContent struct {
	Parts []*GeminiChatPart `json:"parts"`
	Role  string            `json:"role,omitempty"`
}

type GeminiChatRequest struct {
	SystemInstruction *GeminiChatContent   `json:"system_instruction,omitempty"`
	Contents          []*GeminiChatContent `json:"contents"`
}

type GeminiChatCandidate struct {
	Content *GeminiChatContent `json:"content"`
}

type GeminiChatResponse struct {
	Candidates []*GeminiChatCandidate `json:"candidates"`
}

// Provider calls the Gemini generateContent REST API directly.
type Provider struct {
	apiKey string
	model  string
	client *http.Client
}

func NewProvider(apiKey, model string) *Provider {
	if model == "" {
		model = defaultModel
	}
	return &Provider{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{},
	}
}

// Chat sends the system instruction and chat history to Gemini and returns
// the first candidate's text.
func (p *Provider) Chat(ctx context.Context, system string, history []llm.Message, options ...llm.Option) (string, error) {
	opts := &llm.Options{Model: p.model}
	for _, opt := range options {
		opt(opts)
	}

	chatContents := make([]*GeminiChatContent, 0, len(history))
	for _, msg := range history {
		content := &GeminiChatContent{Role: msg.Role}
		// Image part precedes the text part when both are present.
		if msg.Image != nil && len(msg.Image.Data) > 0 && msg.Image.MimeType != "" {
			content.Parts = append(content.Parts, &GeminiChatPart{
				InlineData: &GeminiInlineData{
					MimeType: msg.Image.MimeType,
					Data:     base64.StdEncoding.EncodeToString(msg.Image.Data),
				},
			})
		}
		if msg.Text != "" {
			content.Parts = append(content.Parts, &GeminiChatPart{Text: msg.Text})
		}
		if len(content.Parts) == 0 {
			continue
		}
		chatContents = append(chatContents, content)
	}

	payload := GeminiChatRequest{
		Contents: chatContents,
	}
	if system != "" {
		payload.SystemInstruction = &GeminiChatContent{
			Parts: []*GeminiChatPart{{Text: system}},
		}
	}

	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent",
		opts.Model,
	)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadJson))
	if err != nil {
		return "", err
	}

	req.Header.Set("x-goog-api-key", p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf(
			"status error, got status %d. with response body %s",
			res.StatusCode,
			string(resBody),
		)
	}

	var geminiRes GeminiChatResponse
	err = json.Unmarshal(resBody, &geminiRes)
	if err != nil {
		return "", err
	}

	if len(geminiRes.Candidates) == 0 ||
		geminiRes.Candidates[0].Content == nil ||
		len(geminiRes.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	return geminiRes.Candidates[0].Content.Parts[0].Text, nil
}
