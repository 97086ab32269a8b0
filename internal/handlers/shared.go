package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"notemind-backend/internal/middleware"
	"notemind-backend/internal/models"
	"notemind-backend/internal/registry"
	"notemind-backend/internal/scoring"
)

const maxShareExpiryDays = 365

type ShareStore interface {
	Create(ctx context.Context, s *models.SharedQuiz) error
	GetByToken(ctx context.Context, token string) (*models.SharedQuiz, error)
	IncrementViewCount(ctx context.Context, id int64) error
	IncrementCompletionCount(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64, userID uuid.UUID) (int64, error)
}

type SharedQuizHandler struct {
	shares   ShareStore
	results  ResultStore
	sessions *registry.Registry
}

func NewSharedQuizHandler(shares ShareStore, results ResultStore, sessions *registry.Registry) *SharedQuizHandler {
	return &SharedQuizHandler{
		shares:   shares,
		results:  results,
		sessions: sessions,
	}
}

// Share snapshots a quiz into a token-addressed public copy. The public
// questions snapshot is stripped of answers at share time, the
// authoritative snapshot stays server-side for grading.
func (h *SharedQuizHandler) Share(w http.ResponseWriter, r *http.Request) {
	var req models.ShareQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.QuizID == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"quiz_id": "quiz_id is required"}, r))
		return
	}

	// Without expires_in_days the share never expires.
	var expiresAt *time.Time
	if req.ExpiresInDays != nil {
		days := *req.ExpiresInDays
		if days < 1 || days > maxShareExpiryDays {
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
				map[string]string{"expires_in_days": "Must be between 1 and 365"}, r))
			return
		}
		t := timeNow().AddDate(0, 0, days)
		expiresAt = &t
	}

	userID := middleware.GetUserID(r.Context())

	questions, meta, err := h.resolveShareSource(r.Context(), req.QuizID, userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	answersJSON, err := json.Marshal(questions)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	publicJSON, err := json.Marshal(models.PublicQuestions(questions))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	share := &models.SharedQuiz{
		ShareToken:    uuid.NewString(),
		QuizID:        req.QuizID,
		UserID:        userID,
		QuestionsData: publicJSON,
		AnswersData:   answersJSON,
		QuestionCount: len(questions),
		QuestionType:  meta.QuestionType,
		Difficulty:    meta.Difficulty,
		Title:         req.Title,
		Description:   req.Description,
		ExpiresAt:     expiresAt,
	}
	if err := h.shares.Create(r.Context(), share); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sharedResponse(share))
}

// GetShared serves the public view of a shared quiz and counts the view.
func (h *SharedQuizHandler) GetShared(w http.ResponseWriter, r *http.Request) {
	share, ok := h.loadAccessible(w, r)
	if !ok {
		return
	}

	if err := h.shares.IncrementViewCount(r.Context(), share.ID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	var questions []models.PublicQuestion
	if err := json.Unmarshal(share.QuestionsData, &questions); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"quiz_id":        "shared_" + share.ShareToken,
		"title":          share.Title,
		"description":    share.Description,
		"questions":      questions,
		"question_count": share.QuestionCount,
		"question_type":  share.QuestionType,
		"difficulty":     share.Difficulty,
	})
}

// SubmitShared grades an anonymous attempt against the share's
// authoritative snapshot. Nothing is persisted beyond the completion
// counter: anonymous attempts have no history.
func (h *SharedQuizHandler) SubmitShared(w http.ResponseWriter, r *http.Request) {
	share, ok := h.loadAccessible(w, r)
	if !ok {
		return
	}

	var sub models.SharedQuizSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if len(sub.Answers) == 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"answers": "answers are required"}, r))
		return
	}

	var questions []models.QuizQuestion
	if err := json.Unmarshal(share.AnswersData, &questions); err != nil {
		handleServiceError(w, r, err)
		return
	}

	corrections := scoring.GradeStrict(questions, sub.Answers)
	summary := scoring.Aggregate(corrections)

	if err := h.shares.IncrementCompletionCount(r.Context(), share.ID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.QuizCorrectionResponse{
		QuizID:          "shared_" + share.ShareToken,
		TotalQuestions:  summary.TotalQuestions,
		CorrectAnswers:  summary.CorrectAnswers,
		ScorePercentage: summary.ScorePercentage,
		Corrections:     corrections,
		OverallFeedback: scoring.FeedbackFor(summary),
		CreatedAt:       timeNow(),
	})
}

func (h *SharedQuizHandler) DeleteShared(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	userID := middleware.GetUserID(r.Context())

	share, err := h.shares.GetByToken(r.Context(), token)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if share.UserID != userID {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Access denied", r))
		return
	}

	affected, err := h.shares.Delete(r.Context(), share.ID, userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if affected == 0 {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Shared quiz not found", r))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// loadAccessible fetches the share behind the URL token and enforces the
// public access gates. Expiry is checked before the active flag so a
// share that is both expired and deactivated reports 410.
func (h *SharedQuizHandler) loadAccessible(w http.ResponseWriter, r *http.Request) (*models.SharedQuiz, bool) {
	token := chi.URLParam(r, "token")
	share, err := h.shares.GetByToken(r.Context(), token)
	if err != nil {
		handleServiceError(w, r, err)
		return nil, false
	}
	if share.Expired(timeNow()) {
		writeJSON(w, http.StatusGone, errorResp("GONE", "This shared quiz has expired", r))
		return nil, false
	}
	if !share.IsActive {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Shared quiz not found", r))
		return nil, false
	}
	return share, true
}

type shareMeta struct {
	QuestionType string
	Difficulty   string
}

// resolveShareSource finds the authoritative questions for a quiz being
// shared: live session first, then the latest persisted result.
func (h *SharedQuizHandler) resolveShareSource(ctx context.Context, quizID string, userID uuid.UUID) ([]models.QuizQuestion, shareMeta, error) {
	def, err := h.sessions.Get(ctx, quizID, userID)
	if err == nil {
		return def.Questions, shareMeta{
			QuestionType: def.Config.QuestionType,
			Difficulty:   def.Config.Difficulty,
		}, nil
	}
	// Only a confirmed miss falls back to the result store. Ownership
	// violations and registry infrastructure failures propagate as-is.
	if !errors.Is(err, registry.ErrNotFound) {
		return nil, shareMeta{}, err
	}

	res, err := h.results.GetByQuizID(ctx, quizID, userID)
	if err != nil {
		return nil, shareMeta{}, err
	}
	var questions []models.QuizQuestion
	if err := json.Unmarshal(res.QuestionsData, &questions); err != nil {
		return nil, shareMeta{}, err
	}
	return questions, shareMeta{
		QuestionType: res.QuestionType,
		Difficulty:   res.Difficulty,
	}, nil
}

func sharedResponse(s *models.SharedQuiz) models.SharedQuizResponse {
	return models.SharedQuizResponse{
		ID:              s.ID,
		ShareToken:      s.ShareToken,
		QuizID:          s.QuizID,
		Title:           s.Title,
		Description:     s.Description,
		QuestionCount:   s.QuestionCount,
		QuestionType:    s.QuestionType,
		Difficulty:      s.Difficulty,
		ViewCount:       s.ViewCount,
		CompletionCount: s.CompletionCount,
		IsActive:        s.IsActive,
		ExpiresAt:       s.ExpiresAt,
		CreatedAt:       s.CreatedAt,
	}
}
