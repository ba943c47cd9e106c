package game

import (
	"math"
	"strings"

	"wordplay-service/internal/domain"
)

// CheckOne checks a single answer. The correct answer is only disclosed when the given answer is
// wrong; the explanation is always returned.
func CheckOne(doc domain.Document, questionID, answer string) (domain.CheckResult, error) {
	q, err := FindQuestion(doc, questionID)
	if err != nil {
		return domain.CheckResult{}, err
	}

	res := domain.CheckResult{
		QuestionID:  questionID,
		IsCorrect:   matches(q.CorrectAnswer, answer),
		Explanation: q.Explanation,
	}
	if !res.IsCorrect {
		res.CorrectAnswer = q.CorrectAnswer
	}
	return res, nil
}

// SubmitAll scores a full submission against the whole document.
//
// Answers referencing an unknown question id are skipped: they produce no result row and do not
// change the denominator, which is always the number of questions in the document. Only the first
// answer for a given question counts. Unanswered questions count as wrong.
func SubmitAll(doc domain.Document, answers []domain.Answer, timeTaken *int) (domain.SubmissionResult, error) {
	total := len(doc.Questions)
	if total == 0 {
		return domain.SubmissionResult{}, domain.ErrNoQuestions
	}

	answered := make(map[string]struct{}, len(answers))
	results := make([]domain.AnswerResult, 0, len(answers))
	correct := 0
	for _, a := range answers {
		q, err := FindQuestion(doc, a.QuestionID)
		if err != nil {
			// unknown question ids are ignored, not rejected
			continue
		}
		if _, dup := answered[q.ID]; dup {
			continue
		}
		answered[q.ID] = struct{}{}

		ok := matches(q.CorrectAnswer, a.Answer)
		if ok {
			correct++
		}
		results = append(results, domain.AnswerResult{
			QuestionID:    q.ID,
			IsCorrect:     ok,
			CorrectAnswer: q.CorrectAnswer,
			UserAnswer:    a.Answer,
			Explanation:   q.Explanation,
		})
	}

	return domain.SubmissionResult{
		TotalQuestions: total,
		CorrectAnswers: correct,
		WrongAnswers:   total - correct,
		Score:          Score(correct, total),
		TimeTaken:      timeTaken,
		Results:        results,
	}, nil
}

// Score returns round(correct / total * 100). total must be positive.
func Score(correct, total int) int {
	return int(math.Round(float64(correct) / float64(total) * 100))
}

func matches(correct, given string) bool {
	return strings.EqualFold(correct, given)
}
