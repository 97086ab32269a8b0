package services

import (
	"strings"
	"testing"

	"notemind-backend/internal/models"
)

func TestSplitMixed(t *testing.T) {
	tests := []struct {
		count    int
		wantMC   int
		wantOpen int
	}{
		{1, 1, 0},
		{2, 1, 1},
		{3, 2, 1},
		{5, 3, 2},
		{10, 7, 3},
		{20, 14, 6},
	}

	for _, tc := range tests {
		mc, open := SplitMixed(tc.count)
		if mc != tc.wantMC || open != tc.wantOpen {
			t.Errorf("SplitMixed(%d) = (%d, %d), want (%d, %d)", tc.count, mc, open, tc.wantMC, tc.wantOpen)
		}
		if mc+open != tc.count {
			t.Errorf("SplitMixed(%d) does not sum to count", tc.count)
		}
		if tc.count >= 2 && (mc < 1 || open < 1) {
			t.Errorf("SplitMixed(%d) left a category empty: (%d, %d)", tc.count, mc, open)
		}
	}
}

func TestSplitMixedDeterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		mc, open := SplitMixed(5)
		if mc != 3 || open != 2 {
			t.Fatalf("SplitMixed(5) changed between calls: (%d, %d)", mc, open)
		}
	}
}

func TestBuildQuizPromptMixed(t *testing.T) {
	prompt := BuildQuizPrompt(models.QuizConfig{
		QuestionCount: 5,
		QuestionType:  models.QuestionTypeMixed,
		Difficulty:    models.DifficultyHard,
	})

	if !strings.Contains(prompt, "exactly 5 questions: 3 multiple_choice and 2 open_ended") {
		t.Errorf("Expected mixed split in prompt, got:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Difficulty: hard") {
		t.Errorf("Expected difficulty in prompt")
	}
}

func TestBuildQuizPromptLanguage(t *testing.T) {
	prompt := BuildQuizPrompt(models.QuizConfig{
		QuestionCount: 3,
		QuestionType:  models.QuestionTypeOpenEnded,
		Difficulty:    models.DifficultyEasy,
		Language:      "it",
	})

	if !strings.Contains(prompt, "in it") {
		t.Errorf("Expected language instruction in prompt")
	}
}

func TestValidateQuizQuestions(t *testing.T) {
	questions := []models.QuizQuestion{
		{
			ID:       "q1",
			Question: "Valid MC",
			Type:     models.QuestionTypeMultipleChoice,
			Options: []models.QuizOption{
				{ID: "A", Text: "yes"}, {ID: "B", Text: "no"},
			},
			CorrectAnswer: "A",
		},
		{
			ID:       "q2",
			Question: "Answer not among options",
			Type:     models.QuestionTypeMultipleChoice,
			Options: []models.QuizOption{
				{ID: "A", Text: "yes"}, {ID: "B", Text: "no"},
			},
			CorrectAnswer: "Z",
		},
		{
			ID:            "q3",
			Question:      "Valid open",
			Type:          models.QuestionTypeOpenEnded,
			CorrectAnswer: "Some model answer",
		},
		{
			ID:            "q4",
			Question:      "",
			Type:          models.QuestionTypeOpenEnded,
			CorrectAnswer: "orphan answer",
		},
		{
			ID:            "q5",
			Question:      "Unknown type",
			Type:          "true_false",
			CorrectAnswer: "True",
		},
	}

	valid := ValidateQuizQuestions(questions)
	if len(valid) != 2 {
		t.Fatalf("Expected 2 valid questions, got %d", len(valid))
	}
	if valid[0].ID != "q1" || valid[1].ID != "q3" {
		t.Errorf("Wrong questions survived validation: %+v", valid)
	}
}

func TestValidateQuizQuestionsFillsMissingIDs(t *testing.T) {
	questions := []models.QuizQuestion{
		{Question: "No id", Type: models.QuestionTypeOpenEnded, CorrectAnswer: "x"},
	}
	valid := ValidateQuizQuestions(questions)
	if len(valid) != 1 || valid[0].ID != "q1" {
		t.Errorf("Expected generated id q1, got %+v", valid)
	}
}

func TestStripJSONFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"```json\n[1,2]\n```", "[1,2]"},
		{"```\n{\"a\":1}\n```", "{\"a\":1}"},
		{"[1,2]", "[1,2]"},
		{"  {\"a\":1}  ", "{\"a\":1}"},
	}
	for _, tc := range tests {
		if got := StripJSONFences(tc.in); got != tc.want {
			t.Errorf("StripJSONFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildCorrectionPromptEmbedsData(t *testing.T) {
	questions := []models.QuizQuestion{
		{ID: "q1", Question: "Pick A", Type: models.QuestionTypeMultipleChoice,
			Options:       []models.QuizOption{{ID: "A", Text: "a"}, {ID: "B", Text: "b"}},
			CorrectAnswer: "A"},
	}
	answers := []models.UserAnswer{{QuestionID: "q1", Answer: "B"}}

	prompt, err := BuildCorrectionPrompt(questions, answers)
	if err != nil {
		t.Fatalf("BuildCorrectionPrompt failed: %v", err)
	}

	if !strings.Contains(prompt, `"correct_answer":"A"`) {
		t.Errorf("Expected authoritative answer in grading prompt")
	}
	if !strings.Contains(prompt, `"answer":"B"`) {
		t.Errorf("Expected submitted answer in grading prompt")
	}
	if !strings.Contains(prompt, "partial credit") {
		t.Errorf("Expected generous grading instruction for open questions")
	}
}
