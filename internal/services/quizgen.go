package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"notemind-backend/internal/models"
)

// SplitMixed computes the multiple-choice/open-ended split for mixed
// quizzes: 70/30, clamped so both categories are non-empty whenever the
// count allows it. A single-question mixed quiz is always one
// multiple-choice question.
func SplitMixed(questionCount int) (multipleChoice, openEnded int) {
	if questionCount <= 1 {
		return questionCount, 0
	}

	multipleChoice = questionCount * 7 / 10
	if multipleChoice < 1 {
		multipleChoice = 1
	}
	if multipleChoice >= questionCount {
		multipleChoice = questionCount - 1
	}
	return multipleChoice, questionCount - multipleChoice
}

// BuildQuizPrompt assembles the generation prompt for the given config.
func BuildQuizPrompt(cfg models.QuizConfig) string {
	var b strings.Builder

	b.WriteString("You are an expert educational assessor. Generate quiz questions based strictly on the attached documents.\n\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON array. No preamble, no markdown, no backticks.\n\n")

	switch cfg.QuestionType {
	case models.QuestionTypeMixed:
		mc, open := SplitMixed(cfg.QuestionCount)
		b.WriteString(fmt.Sprintf("Generate exactly %d questions: %d multiple_choice and %d open_ended.\n", cfg.QuestionCount, mc, open))
	default:
		b.WriteString(fmt.Sprintf("Generate exactly %d questions, all of type %s.\n", cfg.QuestionCount, cfg.QuestionType))
	}

	b.WriteString(fmt.Sprintf("Difficulty: %s\n", cfg.Difficulty))
	switch cfg.Difficulty {
	case models.DifficultyEasy:
		b.WriteString("Easy = direct recall from the documents.\n")
	case models.DifficultyMedium:
		b.WriteString("Medium = application of concepts.\n")
	case models.DifficultyHard:
		b.WriteString("Hard = analysis, synthesis, or inference beyond what is explicitly stated.\n")
	}

	if cfg.Language != "" && cfg.Language != "en" {
		b.WriteString(fmt.Sprintf("Language: write all questions, options, and answers in %s.\n", cfg.Language))
	}

	b.WriteString(`
JSON schema per question:
{"id": "q1", "question": "string", "type": "multiple_choice"|"open_ended", "options": [{"id": "A", "text": "string"}], "correct_answer": "string"}

Number question ids sequentially: q1, q2, q3...
For multiple_choice: exactly 4 options with ids A-D; correct_answer is the id of the right option.
For open_ended: omit options; correct_answer is a model answer in 1-3 sentences.
`)

	return b.String()
}

// BuildCorrectionPrompt assembles the grading prompt from the
// authoritative question set and the submitted answers.
func BuildCorrectionPrompt(questions []models.QuizQuestion, answers []models.UserAnswer) (string, error) {
	questionsJSON, err := json.Marshal(questions)
	if err != nil {
		return "", fmt.Errorf("failed to encode questions: %w", err)
	}
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return "", fmt.Errorf("failed to encode answers: %w", err)
	}

	var b strings.Builder
	b.WriteString("You are an expert educational assessor. Grade the student's quiz answers against the provided question set, using the attached documents as context.\n\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON object. No preamble, no markdown, no backticks.\n\n")
	b.WriteString("Grading rules:\n")
	b.WriteString("- multiple_choice: exact match against correct_answer; score 1.0 or 0.0.\n")
	b.WriteString("- open_ended: grade generously with partial credit; reward conceptual correctness over exact wording; score between 0.0 and 1.0.\n")
	b.WriteString("- Every question gets a short explanation of why the answer is right or wrong.\n\n")

	b.WriteString(`JSON schema:
{"corrections": [{"question_id": "q1", "question": "string", "user_answer": "string", "correct_answer": "string", "is_correct": bool, "explanation": "string", "score": float}], "overall_feedback": "2-3 encouraging sentences"}

`)

	b.WriteString("---QUESTIONS---\n")
	b.Write(questionsJSON)
	b.WriteString("\n---STUDENT ANSWERS---\n")
	b.Write(answersJSON)
	b.WriteString("\n---END---\n")

	return b.String(), nil
}

// ValidateQuizQuestions drops questions the model got structurally
// wrong and fills in missing ids. A multiple-choice question whose
// correct_answer does not match one of its option ids is unusable.
func ValidateQuizQuestions(questions []models.QuizQuestion) []models.QuizQuestion {
	valid := make([]models.QuizQuestion, 0, len(questions))

	for i, q := range questions {
		if strings.TrimSpace(q.Question) == "" || strings.TrimSpace(q.CorrectAnswer) == "" {
			continue
		}
		if q.ID == "" {
			q.ID = fmt.Sprintf("q%d", i+1)
		}

		switch q.Type {
		case models.QuestionTypeMultipleChoice:
			if len(q.Options) < 2 {
				continue
			}
			found := false
			for _, opt := range q.Options {
				if opt.ID == q.CorrectAnswer {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		case models.QuestionTypeOpenEnded:
			q.Options = nil
		default:
			continue
		}

		valid = append(valid, q)
	}

	return valid
}
