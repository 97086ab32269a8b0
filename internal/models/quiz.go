package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Question types and quiz difficulties accepted by the API.
const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeOpenEnded      = "open_ended"
	QuestionTypeMixed          = "mixed"

	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

type QuizOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// QuizQuestion is the authoritative form of a question, including the
// correct answer. It never leaves the server: responses carry
// PublicQuestion projections instead.
type QuizQuestion struct {
	ID            string       `json:"id"`
	Question      string       `json:"question"`
	Type          string       `json:"type"`
	Options       []QuizOption `json:"options,omitempty"`
	CorrectAnswer string       `json:"correct_answer"`
}

// PublicQuestion is the answer-stripped projection sent to clients.
type PublicQuestion struct {
	ID       string       `json:"id"`
	Question string       `json:"question"`
	Type     string       `json:"type"`
	Options  []QuizOption `json:"options,omitempty"`
}

// Public strips the correct answer. Options are kept only for
// multiple-choice questions.
func (q QuizQuestion) Public() PublicQuestion {
	p := PublicQuestion{
		ID:       q.ID,
		Question: q.Question,
		Type:     q.Type,
	}
	if q.Type == QuestionTypeMultipleChoice {
		p.Options = q.Options
	}
	return p
}

// PublicQuestions projects a full question set for client responses.
func PublicQuestions(questions []QuizQuestion) []PublicQuestion {
	out := make([]PublicQuestion, len(questions))
	for i, q := range questions {
		out[i] = q.Public()
	}
	return out
}

type QuizConfig struct {
	QuestionCount int    `json:"question_count"`
	QuestionType  string `json:"question_type"`
	Difficulty    string `json:"difficulty"`
	Language      string `json:"language,omitempty"`
}

// QuizDefinition is the generation-time artifact held in the session
// registry between generation and submission. It carries the answers.
type QuizDefinition struct {
	QuizID      string         `json:"quiz_id"`
	OwnerID     uuid.UUID      `json:"owner_id"`
	DocumentIDs []uuid.UUID    `json:"document_ids"`
	FileIDs     []string       `json:"file_ids"`
	Questions   []QuizQuestion `json:"questions"`
	Config      QuizConfig     `json:"config"`
	CreatedAt   time.Time      `json:"created_at"`
}

// QuizResult is one durable, scored quiz attempt.
type QuizResult struct {
	ID              int64           `json:"id"`
	QuizID          string          `json:"quiz_id"`
	UserID          uuid.UUID       `json:"user_id"`
	QuestionCount   int             `json:"question_count"`
	QuestionType    string          `json:"question_type"`
	Difficulty      string          `json:"difficulty"`
	TotalQuestions  int             `json:"total_questions"`
	CorrectAnswers  int             `json:"correct_answers"`
	ScorePercentage float64         `json:"score_percentage"`
	QuestionsData   json.RawMessage `json:"-"`
	CorrectionsData json.RawMessage `json:"-"`
	OverallFeedback string          `json:"overall_feedback"`
	DocumentIDs     []uuid.UUID     `json:"document_ids"`
	CompletedAt     time.Time       `json:"completed_at"`
	CreatedAt       time.Time       `json:"created_at"`
}

// SharedQuiz is a publicly addressable, token-gated copy of a quiz.
// QuestionsData is the answer-stripped public snapshot; AnswersData is
// the authoritative snapshot and is never serialized to anonymous callers.
type SharedQuiz struct {
	ID              int64           `json:"id"`
	ShareToken      string          `json:"share_token"`
	QuizID          string          `json:"quiz_id"`
	UserID          uuid.UUID       `json:"-"`
	QuestionsData   json.RawMessage `json:"-"`
	AnswersData     json.RawMessage `json:"-"`
	QuestionCount   int             `json:"question_count"`
	QuestionType    string          `json:"question_type"`
	Difficulty      string          `json:"difficulty"`
	Title           *string         `json:"title"`
	Description     *string         `json:"description"`
	ViewCount       int             `json:"view_count"`
	CompletionCount int             `json:"completion_count"`
	IsActive        bool            `json:"is_active"`
	ExpiresAt       *time.Time      `json:"expires_at"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"-"`
}

// Expired reports whether the share's expiry timestamp has passed.
// Expiry is independent of the IsActive flag.
func (s *SharedQuiz) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && s.ExpiresAt.Before(now)
}

// Requests

type GenerateQuizRequest struct {
	DocumentIDs   []uuid.UUID `json:"document_ids"`
	QuestionCount int         `json:"question_count"`
	QuestionType  string      `json:"question_type"`
	Difficulty    string      `json:"difficulty"`
	Language      string      `json:"language"`
}

type UserAnswer struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

type QuizSubmission struct {
	QuizID  string       `json:"quiz_id"`
	Answers []UserAnswer `json:"answers"`
}

type ShareQuizRequest struct {
	QuizID        string  `json:"quiz_id"`
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	ExpiresInDays *int    `json:"expires_in_days"`
}

type SharedQuizSubmission struct {
	Answers []UserAnswer `json:"answers"`
}

// Responses

type QuizResponse struct {
	QuizID        string           `json:"quiz_id"`
	DocumentIDs   []uuid.UUID      `json:"document_ids"`
	Questions     []PublicQuestion `json:"questions"`
	QuestionCount int              `json:"question_count"`
	QuestionType  string           `json:"question_type"`
	Difficulty    string           `json:"difficulty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// QuestionCorrection is the per-question grading verdict.
type QuestionCorrection struct {
	QuestionID    string  `json:"question_id"`
	Question      string  `json:"question"`
	UserAnswer    string  `json:"user_answer"`
	CorrectAnswer string  `json:"correct_answer"`
	IsCorrect     bool    `json:"is_correct"`
	Explanation   string  `json:"explanation"`
	Score         float64 `json:"score"`
}

type QuizCorrectionResponse struct {
	QuizID          string               `json:"quiz_id"`
	TotalQuestions  int                  `json:"total_questions"`
	CorrectAnswers  int                  `json:"correct_answers"`
	ScorePercentage float64              `json:"score_percentage"`
	Corrections     []QuestionCorrection `json:"corrections"`
	OverallFeedback string               `json:"overall_feedback"`
	CreatedAt       time.Time            `json:"created_at"`
}

type SharedQuizResponse struct {
	ID              int64      `json:"id"`
	ShareToken      string     `json:"share_token"`
	QuizID          string     `json:"quiz_id"`
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	QuestionCount   int        `json:"question_count"`
	QuestionType    string     `json:"question_type"`
	Difficulty      string     `json:"difficulty"`
	ViewCount       int        `json:"view_count"`
	CompletionCount int        `json:"completion_count"`
	IsActive        bool       `json:"is_active"`
	ExpiresAt       *time.Time `json:"expires_at"`
	CreatedAt       time.Time  `json:"created_at"`
}
