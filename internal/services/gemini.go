package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"notemind-backend/internal/models"
)

// QuizCorrectionData is the provider's grading output for one submission.
type QuizCorrectionData struct {
	Corrections     []models.QuestionCorrection `json:"corrections"`
	OverallFeedback string                      `json:"overall_feedback"`
}

type GeminiService struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	timeout  time.Duration
	rateChan chan struct{} // Token bucket
}

func NewGeminiService(apiKey string, concurrentReqs int, timeout time.Duration) (*GeminiService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-3-flash-preview")
	model.SetTemperature(0.3)
	model.SetTopP(0.95)

	// Token bucket for rate limiting
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiService{
		client:   client,
		model:    model,
		timeout:  timeout,
		rateChan: rateChan,
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

// acquireRate blocks until a rate slot is available
func (s *GeminiService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (s *GeminiService) releaseRate() {
	s.rateChan <- struct{}{}
}

// GenerateQuiz asks the model for a question set grounded on the given
// provider file references. The reply is capped at cfg.QuestionCount; a
// short reply is accepted and logged, never treated as an error.
func (s *GeminiService) GenerateQuiz(ctx context.Context, fileIDs []string, cfg models.QuizConfig) ([]models.QuizQuestion, error) {
	if err := s.acquireRate(ctx); err != nil {
		return nil, &ServiceUnavailableError{Message: err.Error()}
	}
	defer s.releaseRate()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	parts := promptParts(fileIDs, BuildQuizPrompt(cfg))
	resp, err := s.model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, &ServiceUnavailableError{Message: fmt.Sprintf("Gemini API error: %v", err)}
	}

	rawText := StripJSONFences(extractText(resp))

	var questions []models.QuizQuestion
	if err := json.Unmarshal([]byte(rawText), &questions); err != nil {
		// Try to extract JSON array
		start := strings.Index(rawText, "[")
		end := strings.LastIndex(rawText, "]")
		if start >= 0 && end > start {
			err = json.Unmarshal([]byte(rawText[start:end+1]), &questions)
		}
		if err != nil {
			return nil, &ServiceUnavailableError{Message: "Gemini returned malformed quiz JSON"}
		}
	}

	questions = ValidateQuizQuestions(questions)
	if len(questions) == 0 {
		return nil, &ServiceUnavailableError{Message: "Gemini returned no usable questions"}
	}

	if len(questions) > cfg.QuestionCount {
		questions = questions[:cfg.QuestionCount]
	}
	if len(questions) < cfg.QuestionCount {
		log.Printf("Quiz generation returned %d of %d requested questions", len(questions), cfg.QuestionCount)
	}

	return questions, nil
}

// CorrectQuiz delegates grading to the model: the full authoritative
// question set plus the submitted answers go in, per-question verdicts
// with partial-credit scores come out.
func (s *GeminiService) CorrectQuiz(ctx context.Context, fileIDs []string, questions []models.QuizQuestion, answers []models.UserAnswer) (*QuizCorrectionData, error) {
	if err := s.acquireRate(ctx); err != nil {
		return nil, &ServiceUnavailableError{Message: err.Error()}
	}
	defer s.releaseRate()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt, err := BuildCorrectionPrompt(questions, answers)
	if err != nil {
		return nil, &ServiceUnavailableError{Message: err.Error()}
	}

	parts := promptParts(fileIDs, prompt)
	resp, err := s.model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, &ServiceUnavailableError{Message: fmt.Sprintf("Gemini API error: %v", err)}
	}

	rawText := StripJSONFences(extractText(resp))

	var data QuizCorrectionData
	if err := json.Unmarshal([]byte(rawText), &data); err != nil {
		start := strings.Index(rawText, "{")
		end := strings.LastIndex(rawText, "}")
		if start >= 0 && end > start {
			err = json.Unmarshal([]byte(rawText[start:end+1]), &data)
		}
		if err != nil {
			return nil, &ServiceUnavailableError{Message: "Gemini returned malformed correction JSON"}
		}
	}

	if len(data.Corrections) == 0 {
		return nil, &ServiceUnavailableError{Message: "Gemini returned no corrections"}
	}

	return &data, nil
}

// promptParts prepends the grounding file references to the text prompt.
func promptParts(fileIDs []string, prompt string) []genai.Part {
	parts := make([]genai.Part, 0, len(fileIDs)+1)
	for _, uri := range fileIDs {
		parts = append(parts, genai.FileData{URI: uri})
	}
	return append(parts, genai.Text(prompt))
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

// StripJSONFences removes markdown code fencing the model sometimes
// wraps around JSON output.
func StripJSONFences(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	return strings.TrimSpace(raw)
}
