package quizController

import (
	quizModels "lms/models/quiz"
	"math"
)

// AnswerSubmission is one client-submitted answer. Choice questions carry
// option IDs, short answers carry free text; correctness is never taken
// from the client.
type AnswerSubmission struct {
	QuestionID        uint   `json:"question_id"`
	SelectedOptionIDs []uint `json:"selected_option_ids"`
	AnswerText        string `json:"answer_text"`
}

// QuizSubmission is the request body of a submit call. StartTime is the
// client's wall clock and is advisory only; elapsed time is always derived
// from server-recorded timestamps.
type QuizSubmission struct {
	AttemptID uint               `json:"attempt_id"`
	StartTime string             `json:"start_time"`
	Answers   []AnswerSubmission `json:"answers"`
}

// AnswerRecord is the engine's verdict on a single question
type AnswerRecord struct {
	QuestionID        uint   `json:"question_id"`
	SelectedOptionIDs []uint `json:"selected_option_ids"`
	AnswerText        string `json:"answer_text"`
	IsCorrect         bool   `json:"is_correct"`
	PointsEarned      int    `json:"points_earned"`
	NeedsGrading      bool   `json:"needs_grading"`
}

// ScoreResult is the full outcome of scoring one submission against a quiz
type ScoreResult struct {
	Score          int            `json:"score"`       // points earned
	TotalScore     int            `json:"total_score"` // points possible
	Percentage     float64        `json:"percentage"`
	Passed         bool           `json:"passed"`
	CorrectAnswers int            `json:"correct_answers"`
	TotalQuestions int            `json:"total_questions"`
	NeedsGrading   bool           `json:"needs_grading"`
	Warnings       []string       `json:"warnings,omitempty"`
	Answers        []AnswerRecord `json:"answers"`
}

// ScoreQuiz scores a submission against a quiz definition. Pure: no
// persistence, deterministic for the same inputs.
//
// Choice questions score all-or-nothing: the selected option set must equal
// the correct option set exactly. Short-answer questions count toward the
// totals but earn zero until an instructor grades them. Unanswered questions
// score as incorrect.
func ScoreQuiz(questions []quizModels.Question, passingScore float64, answers []AnswerSubmission) ScoreResult {
	// Last submission per question wins
	byQuestion := make(map[uint]AnswerSubmission, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	result := ScoreResult{
		TotalQuestions: len(questions),
		Answers:        make([]AnswerRecord, 0, len(questions)),
	}

	for _, q := range questions {
		result.TotalScore += q.Points

		record := AnswerRecord{QuestionID: q.ID}
		sub, answered := byQuestion[q.ID]
		if answered {
			record.SelectedOptionIDs = sub.SelectedOptionIDs
			record.AnswerText = sub.AnswerText
		}

		if !q.Selectable() {
			// Short answers need manual grading; they hold zero points
			// until an instructor overrides them.
			record.NeedsGrading = answered && record.AnswerText != ""
			result.NeedsGrading = result.NeedsGrading || record.NeedsGrading
			result.Answers = append(result.Answers, record)
			continue
		}

		correctIDs := make([]uint, 0, len(q.Options))
		for _, opt := range q.Options {
			if opt.IsCorrect {
				correctIDs = append(correctIDs, opt.ID)
			}
		}

		if answered && optionSetMatches(sub.SelectedOptionIDs, correctIDs) {
			record.IsCorrect = true
			record.PointsEarned = q.Points
			result.Score += q.Points
			result.CorrectAnswers++
		}

		result.Answers = append(result.Answers, record)
	}

	if result.TotalScore == 0 {
		// Malformed quiz: no points possible. Degrade instead of dividing.
		result.Warnings = append(result.Warnings, "quiz has no scorable points; check the quiz definition")
		return result
	}

	result.Percentage = roundPercent(float64(result.Score) / float64(result.TotalScore) * 100)
	result.Passed = result.Percentage >= passingScore

	return result
}

// UnknownQuestionIDs returns the submitted question ids that are not part
// of the quiz. Submissions referencing foreign questions are rejected rather
// than silently dropped.
func UnknownQuestionIDs(questions []quizModels.Question, answers []AnswerSubmission) []uint {
	known := make(map[uint]struct{}, len(questions))
	for _, q := range questions {
		known[q.ID] = struct{}{}
	}

	var unknown []uint
	for _, a := range answers {
		if _, ok := known[a.QuestionID]; !ok {
			unknown = append(unknown, a.QuestionID)
		}
	}
	return unknown
}

// optionSetMatches reports whether selected equals correct as sets.
// Duplicates in selected never help: the set is deduplicated first.
func optionSetMatches(selected, correct []uint) bool {
	if len(correct) == 0 {
		return false
	}

	selSet := make(map[uint]struct{}, len(selected))
	for _, id := range selected {
		selSet[id] = struct{}{}
	}

	if len(selSet) != len(correct) {
		return false
	}
	for _, id := range correct {
		if _, ok := selSet[id]; !ok {
			return false
		}
	}
	return true
}

// roundPercent rounds to one decimal place
func roundPercent(v float64) float64 {
	return math.Round(v*10) / 10
}
