package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/zen-task-api/internal/models"
	"github.com/yukikurage/zen-task-api/internal/utils"
)

type AIService struct {
	client *openai.Client
	model  string
}

// SuggestedTask is an unsaved task draft classified into a quadrant.
type SuggestedTask struct {
	Title       string
	Description string
	DueDate     *time.Time
	Urgent      bool
	Important   bool
	Quadrant    models.Quadrant
}

type aiTask struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date"`
	Urgent      bool    `json:"urgent"`
	Important   bool    `json:"important"`
}

func NewAIService(apiKey, model string) *AIService {
	if model == "" {
		model = openai.GPT4o
	}
	return &AIService{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// SuggestTasks extracts tasks from text and rates their urgency and importance
func (s *AIService) SuggestTasks(ctx context.Context, text string) ([]SuggestedTask, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	today := models.Today().Format(models.DateLayout)
	prompt := fmt.Sprintf(`You extract actionable tasks from text and place them on an Eisenhower matrix.

Today: %s

Text:
%s

Return a JSON array of tasks in exactly this shape:
[
  {
    "title": "short title, 3 to 300 characters",
    "description": "details, 3 to 1000 characters",
    "due_date": "YYYY-MM-DD, or null when the text gives no deadline",
    "urgent": true,
    "important": false
  }
]

Rules:
- Return [] when the text contains no tasks
- Resolve relative deadlines such as "tomorrow" or "next week" against today
- Never return a due_date before today
- Return only JSON, no commentary`, today, text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return parseSuggestions(resp.Choices[0].Message.Content)
}

// parseSuggestions decodes the model output. Unparseable due dates are dropped.
func parseSuggestions(content string) ([]SuggestedTask, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var raw []aiTask
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	tasks := make([]SuggestedTask, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r.Title) == "" {
			continue
		}

		task := SuggestedTask{
			Title:       strings.TrimSpace(r.Title),
			Description: strings.TrimSpace(r.Description),
			Urgent:      r.Urgent,
			Important:   r.Important,
		}
		if r.DueDate != nil {
			if due, err := utils.ParseDate(*r.DueDate); err == nil {
				task.DueDate = &due
			}
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}
