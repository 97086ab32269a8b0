package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"notemind-backend/internal/export"
	"notemind-backend/internal/middleware"
	"notemind-backend/internal/models"
	"notemind-backend/internal/registry"
	"notemind-backend/internal/scoring"
	"notemind-backend/internal/services"
)

const defaultResultsLimit = 50

var timeNow = time.Now

// QuizAI is the slice of the AI provider the quiz lifecycle needs.
type QuizAI interface {
	GenerateQuiz(ctx context.Context, fileIDs []string, cfg models.QuizConfig) ([]models.QuizQuestion, error)
	CorrectQuiz(ctx context.Context, fileIDs []string, questions []models.QuizQuestion, answers []models.UserAnswer) (*services.QuizCorrectionData, error)
}

type DocumentFinder interface {
	GetOwnedByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*models.Document, error)
}

type ResultStore interface {
	Create(ctx context.Context, res *models.QuizResult) error
	GetByID(ctx context.Context, id int64, userID uuid.UUID) (*models.QuizResult, error)
	GetByQuizID(ctx context.Context, quizID string, userID uuid.UUID) (*models.QuizResult, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.QuizResult, error)
}

type QuizHandler struct {
	documents DocumentFinder
	results   ResultStore
	sessions  *registry.Registry
	ai        QuizAI
}

func NewQuizHandler(documents DocumentFinder, results ResultStore, sessions *registry.Registry, ai QuizAI) *QuizHandler {
	return &QuizHandler{
		documents: documents,
		results:   results,
		sessions:  sessions,
		ai:        ai,
	}
}

func (h *QuizHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	applyGenerateDefaults(&req)

	if fields := validateGenerateRequest(&req); len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	userID := middleware.GetUserID(r.Context())

	// Verify documents belong to the user and are ready before anything
	// with side effects happens.
	docIDs := dedupeIDs(req.DocumentIDs)
	docs, err := h.documents.GetOwnedByIDs(r.Context(), userID, docIDs)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if len(docs) != len(docIDs) {
		missing := missingIDs(docIDs, docs)
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND",
			fmt.Sprintf("One or more documents not found: %s", strings.Join(missing, ", ")), r))
		return
	}

	var notReady []string
	fileIDs := make([]string, 0, len(docs))
	for _, d := range docs {
		if d.Status != models.DocumentStatusReady {
			notReady = append(notReady, d.Filename)
		}
		fileIDs = append(fileIDs, d.GeminiFileID)
	}
	if len(notReady) > 0 {
		writeJSON(w, http.StatusBadRequest, errorResp("PRECONDITION_FAILED",
			fmt.Sprintf("Some documents are not ready: %s", strings.Join(notReady, ", ")), r))
		return
	}

	cfg := models.QuizConfig{
		QuestionCount: req.QuestionCount,
		QuestionType:  req.QuestionType,
		Difficulty:    req.Difficulty,
		Language:      req.Language,
	}

	questions, err := h.ai.GenerateQuiz(r.Context(), fileIDs, cfg)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	def := &models.QuizDefinition{
		QuizID:      uuid.NewString(),
		OwnerID:     userID,
		DocumentIDs: docIDs,
		FileIDs:     fileIDs,
		Questions:   questions,
		Config:      cfg,
		CreatedAt:   timeNow(),
	}
	if err := h.sessions.Put(r.Context(), def); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.QuizResponse{
		QuizID:        def.QuizID,
		DocumentIDs:   def.DocumentIDs,
		Questions:     models.PublicQuestions(def.Questions),
		QuestionCount: len(def.Questions),
		QuestionType:  cfg.QuestionType,
		Difficulty:    cfg.Difficulty,
		CreatedAt:     def.CreatedAt,
	})
}

func (h *QuizHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var sub models.QuizSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if sub.QuizID == "" || len(sub.Answers) == 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"quiz_id": "quiz_id and answers are required"}, r))
		return
	}

	userID := middleware.GetUserID(r.Context())

	def, err := h.sessions.Get(r.Context(), sub.QuizID, userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	correction, err := h.ai.CorrectQuiz(r.Context(), def.FileIDs, def.Questions, sub.Answers)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	summary := scoring.Aggregate(correction.Corrections)

	questionsJSON, err := json.Marshal(def.Questions)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	correctionsJSON, err := json.Marshal(correction.Corrections)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	res := &models.QuizResult{
		QuizID:          def.QuizID,
		UserID:          userID,
		QuestionCount:   def.Config.QuestionCount,
		QuestionType:    def.Config.QuestionType,
		Difficulty:      def.Config.Difficulty,
		TotalQuestions:  summary.TotalQuestions,
		CorrectAnswers:  summary.CorrectAnswers,
		ScorePercentage: summary.ScorePercentage,
		QuestionsData:   questionsJSON,
		CorrectionsData: correctionsJSON,
		OverallFeedback: correction.OverallFeedback,
		DocumentIDs:     def.DocumentIDs,
		CompletedAt:     timeNow(),
	}
	if err := h.results.Create(r.Context(), res); err != nil {
		handleServiceError(w, r, err)
		return
	}

	// The session entry stays: re-submission creates a fresh result row.
	writeJSON(w, http.StatusOK, models.QuizCorrectionResponse{
		QuizID:          def.QuizID,
		TotalQuestions:  summary.TotalQuestions,
		CorrectAnswers:  summary.CorrectAnswers,
		ScorePercentage: summary.ScorePercentage,
		Corrections:     correction.Corrections,
		OverallFeedback: correction.OverallFeedback,
		CreatedAt:       res.CompletedAt,
	})
}

func (h *QuizHandler) Delete(w http.ResponseWriter, r *http.Request) {
	quizID := chi.URLParam(r, "quizID")
	userID := middleware.GetUserID(r.Context())

	if err := h.sessions.Delete(r.Context(), quizID, userID); err != nil {
		handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *QuizHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	limit := queryInt(r, "limit", defaultResultsLimit)
	offset := queryInt(r, "offset", 0)
	if limit <= 0 {
		limit = defaultResultsLimit
	}
	if offset < 0 {
		offset = 0
	}

	results, err := h.results.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if results == nil {
		results = []*models.QuizResult{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *QuizHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	resultID, err := strconv.ParseInt(chi.URLParam(r, "resultID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid result ID", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	res, err := h.results.GetByID(r.Context(), resultID, userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	var corrections []models.QuestionCorrection
	if err := json.Unmarshal(res.CorrectionsData, &corrections); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.QuizCorrectionResponse{
		QuizID:          res.QuizID,
		TotalQuestions:  res.TotalQuestions,
		CorrectAnswers:  res.CorrectAnswers,
		ScorePercentage: res.ScorePercentage,
		Corrections:     corrections,
		OverallFeedback: res.OverallFeedback,
		CreatedAt:       res.CompletedAt,
	})
}

// DownloadQuiz exports the question sheet, without answers, in the
// requested format. The quiz is resolved against the session registry
// first, then the durable result store.
func (h *QuizHandler) DownloadQuiz(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	if !validFormat(format) {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR",
			"Invalid format. Supported formats: json, markdown, pdf", r))
		return
	}

	quizID := chi.URLParam(r, "quizID")
	userID := middleware.GetUserID(r.Context())

	data, err := h.resolveQuizData(r.Context(), quizID, userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	switch format {
	case "json":
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"quiz_id":        data.QuizID,
			"questions":      models.PublicQuestions(data.Questions),
			"question_type":  data.QuestionType,
			"difficulty":     data.Difficulty,
			"question_count": data.QuestionCount,
			"created_at":     data.CreatedAt,
		})
	case "markdown", "md":
		writeAttachment(w, "text/markdown",
			fmt.Sprintf("quiz_%s.md", quizID),
			[]byte(export.RenderMarkdown(export.QuizOutline(*data, false))))
	case "pdf":
		pdfBytes, err := export.RenderPDF(export.QuizOutline(*data, false))
		if err != nil {
			handleServiceError(w, r, err)
			return
		}
		writeAttachment(w, "application/pdf", fmt.Sprintf("quiz_%s.pdf", quizID), pdfBytes)
	}
}

// DownloadResult exports a scored result with its corrections.
func (h *QuizHandler) DownloadResult(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	if !validFormat(format) {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR",
			"Invalid format. Supported formats: json, markdown, pdf", r))
		return
	}

	resultID, err := strconv.ParseInt(chi.URLParam(r, "resultID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid result ID", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	res, err := h.results.GetByID(r.Context(), resultID, userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	var corrections []models.QuestionCorrection
	if err := json.Unmarshal(res.CorrectionsData, &corrections); err != nil {
		handleServiceError(w, r, err)
		return
	}

	data := export.ResultData{
		QuizID:          res.QuizID,
		QuestionType:    res.QuestionType,
		Difficulty:      res.Difficulty,
		ScorePercentage: res.ScorePercentage,
		CorrectAnswers:  res.CorrectAnswers,
		TotalQuestions:  res.TotalQuestions,
		OverallFeedback: res.OverallFeedback,
		Corrections:     corrections,
		CompletedAt:     res.CompletedAt,
	}

	switch format {
	case "json":
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"quiz_id":          res.QuizID,
			"score_percentage": res.ScorePercentage,
			"correct_answers":  res.CorrectAnswers,
			"total_questions":  res.TotalQuestions,
			"corrections":      corrections,
			"overall_feedback": res.OverallFeedback,
			"completed_at":     res.CompletedAt,
		})
	case "markdown", "md":
		writeAttachment(w, "text/markdown",
			fmt.Sprintf("quiz_results_%d.md", resultID),
			[]byte(export.RenderMarkdown(export.ResultOutline(data, true))))
	case "pdf":
		pdfBytes, err := export.RenderPDF(export.ResultOutline(data, true))
		if err != nil {
			handleServiceError(w, r, err)
			return
		}
		writeAttachment(w, "application/pdf", fmt.Sprintf("quiz_results_%d.pdf", resultID), pdfBytes)
	}
}

// resolveQuizData finds quiz questions for export: live session first,
// then the most recent persisted result for that quiz ID.
func (h *QuizHandler) resolveQuizData(ctx context.Context, quizID string, userID uuid.UUID) (*export.QuizData, error) {
	def, err := h.sessions.Get(ctx, quizID, userID)
	if err == nil {
		return &export.QuizData{
			QuizID:        def.QuizID,
			Questions:     def.Questions,
			QuestionCount: len(def.Questions),
			QuestionType:  def.Config.QuestionType,
			Difficulty:    def.Config.Difficulty,
			CreatedAt:     def.CreatedAt,
		}, nil
	}
	// Only a confirmed miss falls back to the result store. Ownership
	// violations and registry infrastructure failures propagate as-is.
	if !errors.Is(err, registry.ErrNotFound) {
		return nil, err
	}

	res, err := h.results.GetByQuizID(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}

	var questions []models.QuizQuestion
	if err := json.Unmarshal(res.QuestionsData, &questions); err != nil {
		return nil, err
	}

	return &export.QuizData{
		QuizID:        res.QuizID,
		Questions:     questions,
		QuestionCount: res.QuestionCount,
		QuestionType:  res.QuestionType,
		Difficulty:    res.Difficulty,
		CreatedAt:     res.CreatedAt,
	}, nil
}

// Helpers

func applyGenerateDefaults(req *models.GenerateQuizRequest) {
	if req.QuestionCount == 0 {
		req.QuestionCount = 5
	}
	if req.QuestionType == "" {
		req.QuestionType = models.QuestionTypeMixed
	}
	if req.Difficulty == "" {
		req.Difficulty = models.DifficultyMedium
	}
}

func validateGenerateRequest(req *models.GenerateQuizRequest) map[string]string {
	fields := map[string]string{}
	if len(req.DocumentIDs) == 0 {
		fields["document_ids"] = "At least one document is required"
	}
	if req.QuestionCount < 1 || req.QuestionCount > 20 {
		fields["question_count"] = "Must be between 1 and 20"
	}
	switch req.QuestionType {
	case models.QuestionTypeMultipleChoice, models.QuestionTypeOpenEnded, models.QuestionTypeMixed:
	default:
		fields["question_type"] = "Must be multiple_choice, open_ended, or mixed"
	}
	switch req.Difficulty {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
	default:
		fields["difficulty"] = "Must be easy, medium, or hard"
	}
	return fields
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func missingIDs(requested []uuid.UUID, found []*models.Document) []string {
	present := make(map[uuid.UUID]struct{}, len(found))
	for _, d := range found {
		present[d.ID] = struct{}{}
	}
	var missing []string
	for _, id := range requested {
		if _, ok := present[id]; !ok {
			missing = append(missing, id.String())
		}
	}
	return missing
}

func validFormat(format string) bool {
	switch format {
	case "json", "markdown", "md", "pdf":
		return true
	}
	return false
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func queryInt(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
