// Package export renders quiz and result data as Markdown or PDF.
// Both formats consume the same block outline, so section content and
// ordering cannot drift between them.
package export

import (
	"fmt"
	"time"

	"notemind-backend/internal/models"
)

type Kind int

const (
	KindTitle Kind = iota
	KindMeta
	KindHeading
	KindSubheading
	KindParagraph
	KindOption
	KindAnswerSpace
	KindQuote
	KindDivider
	KindFooter
)

// Block is one renderable element of an export document.
type Block struct {
	Kind    Kind
	Label   string
	Text    string
	Correct bool
}

const footerText = "Generated by NoteMind AI"

// QuizData is the materialized input for a questions-only export.
type QuizData struct {
	QuizID        string
	Questions     []models.QuizQuestion
	QuestionCount int
	QuestionType  string
	Difficulty    string
	CreatedAt     time.Time
}

// ResultData is the materialized input for a scored-result export.
type ResultData struct {
	QuizID          string
	QuestionType    string
	Difficulty      string
	ScorePercentage float64
	CorrectAnswers  int
	TotalQuestions  int
	OverallFeedback string
	Corrections     []models.QuestionCorrection
	CompletedAt     time.Time
}

// QuizOutline builds the document outline for a quiz question sheet.
// With includeAnswers=false no correct answer reaches the outline at
// all, so no renderer can leak it.
func QuizOutline(data QuizData, includeAnswers bool) []Block {
	blocks := []Block{
		{Kind: KindTitle, Text: "Quiz"},
		{Kind: KindDivider},
		{Kind: KindMeta, Label: "Created", Text: data.CreatedAt.Format("02/01/2006 15:04")},
		{Kind: KindMeta, Label: "Difficulty", Text: titleCase(data.Difficulty)},
		{Kind: KindMeta, Label: "Question type", Text: typeLabel(data.QuestionType)},
		{Kind: KindMeta, Label: "Questions", Text: fmt.Sprintf("%d", len(data.Questions))},
		{Kind: KindDivider},
	}

	for i, q := range data.Questions {
		blocks = append(blocks,
			Block{Kind: KindHeading, Text: fmt.Sprintf("Question %d", i+1)},
			Block{Kind: KindParagraph, Text: q.Question},
		)

		if q.Type == models.QuestionTypeMultipleChoice {
			blocks = append(blocks, Block{Kind: KindMeta, Label: "Type", Text: "Multiple choice"})
			for _, opt := range q.Options {
				blocks = append(blocks, Block{
					Kind:    KindOption,
					Label:   opt.ID,
					Text:    opt.Text,
					Correct: includeAnswers && opt.ID == q.CorrectAnswer,
				})
			}
			if includeAnswers {
				blocks = append(blocks, Block{Kind: KindMeta, Label: "Correct answer", Text: q.CorrectAnswer})
			}
		} else {
			blocks = append(blocks,
				Block{Kind: KindMeta, Label: "Type", Text: "Open ended"},
				Block{Kind: KindAnswerSpace},
			)
			if includeAnswers && q.CorrectAnswer != "" {
				blocks = append(blocks, Block{Kind: KindMeta, Label: "Expected answer", Text: q.CorrectAnswer})
			}
		}

		blocks = append(blocks, Block{Kind: KindDivider})
	}

	if !includeAnswers {
		blocks = append(blocks,
			Block{Kind: KindHeading, Text: "How to complete this quiz"},
			Block{Kind: KindParagraph, Text: "Read each question carefully. For multiple-choice questions pick one option; for open questions write your answer in the space provided. Upload the completed document to NoteMind AI for automatic correction."},
			Block{Kind: KindDivider},
		)
	}

	blocks = append(blocks, Block{Kind: KindFooter, Text: footerText})
	return blocks
}

// ResultOutline builds the document outline for a scored result with
// per-question corrections. includeAnswers=false drops the correct
// answers and explanations, leaving only verdicts and scores.
func ResultOutline(data ResultData, includeAnswers bool) []Block {
	blocks := []Block{
		{Kind: KindTitle, Text: "Quiz Results"},
		{Kind: KindDivider},
		{Kind: KindHeading, Text: fmt.Sprintf("Score: %.1f%%", data.ScorePercentage)},
		{Kind: KindMeta, Label: "Correct answers", Text: fmt.Sprintf("%d/%d", data.CorrectAnswers, data.TotalQuestions)},
		{Kind: KindMeta, Label: "Difficulty", Text: titleCase(data.Difficulty)},
		{Kind: KindMeta, Label: "Completed", Text: data.CompletedAt.Format("02/01/2006 15:04")},
	}

	if data.OverallFeedback != "" {
		blocks = append(blocks,
			Block{Kind: KindSubheading, Text: "Overall feedback"},
			Block{Kind: KindParagraph, Text: data.OverallFeedback},
		)
	}

	blocks = append(blocks,
		Block{Kind: KindDivider},
		Block{Kind: KindHeading, Text: "Detailed review"},
	)

	for i, c := range data.Corrections {
		status := "incorrect"
		if c.IsCorrect {
			status = "correct"
		}
		blocks = append(blocks,
			Block{Kind: KindSubheading, Text: fmt.Sprintf("Question %d (%s)", i+1, status)},
			Block{Kind: KindParagraph, Text: c.Question},
			Block{Kind: KindMeta, Label: "Your answer", Text: ""},
			Block{Kind: KindQuote, Text: orNoAnswer(c.UserAnswer)},
		)

		if includeAnswers && !c.IsCorrect {
			blocks = append(blocks,
				Block{Kind: KindMeta, Label: "Correct answer", Text: ""},
				Block{Kind: KindQuote, Text: c.CorrectAnswer},
			)
		}
		if includeAnswers && c.Explanation != "" {
			blocks = append(blocks,
				Block{Kind: KindMeta, Label: "Explanation", Text: ""},
				Block{Kind: KindParagraph, Text: c.Explanation},
			)
		}

		blocks = append(blocks,
			Block{Kind: KindMeta, Label: "Score", Text: fmt.Sprintf("%.0f%%", c.Score*100)},
			Block{Kind: KindDivider},
		)
	}

	blocks = append(blocks, Block{Kind: KindFooter, Text: footerText})
	return blocks
}

func orNoAnswer(s string) string {
	if s == "" {
		return "(no answer)"
	}
	return s
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}

func typeLabel(questionType string) string {
	switch questionType {
	case models.QuestionTypeMultipleChoice:
		return "Multiple choice"
	case models.QuestionTypeOpenEnded:
		return "Open ended"
	default:
		return "Mixed"
	}
}
