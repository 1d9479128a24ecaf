package quiz

import (
	"golang.org/x/text/cases"

	"edusaarthi/internal/domain"
)

// Score grades answers against q. answers is aligned by question index;
// missing or null entries score as incorrect and entries past the last
// question are ignored. Score has no side effects.
func Score(q domain.Quiz, answers []domain.Answer) domain.SubmissionResult {
	res := domain.SubmissionResult{
		PassingScore: q.PassMark(),
		Questions:    make([]domain.QuestionResult, 0, len(q.Questions)),
	}
	for i, question := range q.Questions {
		points := max(question.Points, 1)
		var ans domain.Answer
		if i < len(answers) {
			ans = answers[i]
		}
		correct := IsCorrect(question, ans)
		res.MaxScore += points
		if correct {
			res.Score += points
		}
		res.Questions = append(res.Questions, domain.QuestionResult{
			QuestionText:  question.Text,
			UserAnswer:    ans,
			CorrectAnswer: question.CorrectAnswer(),
			IsCorrect:     correct,
			Points:        points,
			Explanation:   question.Explanation,
		})
	}
	if res.MaxScore > 0 {
		res.Percentage = float64(res.Score*100) / float64(res.MaxScore)
		res.Passed = res.Percentage >= res.PassingScore
	}
	return res
}

// IsCorrect applies the per-type correctness rule to one answer.
func IsCorrect(q domain.Question, ans domain.Answer) bool {
	if ans.IsNone() {
		return false
	}
	switch q.Type {
	case domain.QuestionSingleChoice:
		idx, ok := ans.Index()
		return ok && idx == q.CorrectIndex()
	case domain.QuestionTrueFalse:
		v, ok := ans.Bool()
		return ok && v == q.CorrectBool
	case domain.QuestionFillBlank:
		s, ok := ans.Text()
		if !ok || q.CorrectText == "" {
			return false
		}
		return foldEqual(s, q.CorrectText)
	default:
		return false
	}
}

// foldEqual compares under Unicode case folding. Casers keep state, so each
// call gets its own.
func foldEqual(a, b string) bool {
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}
