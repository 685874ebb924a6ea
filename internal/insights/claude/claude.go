package claude

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/Belkadi-hamza/Inventory-Management-System/internal/insights"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/report"
)

// maxTokens bounds the narrative; a few sentences fit comfortably.
const maxTokens = 512

type ClaudeSummarizer struct {
	client *anthropic.Client
	model  string
}

func NewClaudeSummarizer(apiKey, model string, opts ...anthropic.ClientOption) *ClaudeSummarizer {
	return &ClaudeSummarizer{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}
}

func (s *ClaudeSummarizer) Summarize(ctx context.Context, summary report.WeeklySummary, rows []report.ExportRow) (string, error) {
	prompt := insights.SummaryPrompt + "\n\n" + insights.BuildDigest(summary, rows)

	resp, err := s.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(s.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate insights: %w", err)
	}

	text := resp.GetFirstContentText()
	if text == "" {
		return "", fmt.Errorf("model returned no text content")
	}
	return text, nil
}
