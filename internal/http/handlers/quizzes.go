package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"edusaarthi/internal/domain"
	"edusaarthi/internal/i18n"
	"edusaarthi/internal/quiz"
)

type quizQuery struct {
	Subject    string `query:"subject" validate:"omitempty,max=64"`
	ClassLevel int    `query:"class_level" validate:"omitempty,min=1,max=12"`
	Difficulty string `query:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
}

type nextQuestionQuery struct {
	Subject    string `query:"subject" validate:"required,notblank,max=64"`
	ClassLevel int    `query:"class_level" validate:"required,min=1,max=12"`
	Difficulty string `query:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
}

// readQuizQuery fills subject, class_level and difficulty from the URL.
// A non-numeric class_level is reported as a validation failure on that field.
func readQuizQuery(r *http.Request) (subject string, classLevel int, difficulty string, ok bool) {
	q := r.URL.Query()
	subject = strings.TrimSpace(q.Get("subject"))
	difficulty = strings.ToLower(strings.TrimSpace(q.Get("difficulty")))
	if v := q.Get("class_level"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return "", 0, "", false
		}
		classLevel = n
	}
	return subject, classLevel, difficulty, true
}

func (a *App) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	subject, classLevel, difficulty, ok := readQuizQuery(r)
	if !ok {
		a.error(w, r, http.StatusBadRequest, i18n.KeyInvalidRequest)
		return
	}
	req := quizQuery{Subject: subject, ClassLevel: classLevel, Difficulty: difficulty}
	if !a.check(w, r, req) {
		return
	}
	premium, err := a.entitlements.IsPremium(r.Context(), a.currentUserID(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	quizzes := a.quizzes.List(quiz.Filter{
		Subject:        req.Subject,
		ClassLevel:     req.ClassLevel,
		Difficulty:     domain.Difficulty(req.Difficulty),
		IncludePremium: premium,
	})
	a.json(w, http.StatusOK, map[string]any{"quizzes": quizzes})
}

func (a *App) GetQuiz(w http.ResponseWriter, r *http.Request) {
	premium, err := a.entitlements.IsPremium(r.Context(), a.currentUserID(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	q, err := a.quizzes.PublicQuiz(chi.URLParam(r, "id"), premium)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, q)
}

type submitRequest struct {
	Answers json.RawMessage `json:"answers"`
}

// parseAnswers accepts only a JSON array; anything else is an invalid submission.
func parseAnswers(raw json.RawMessage) ([]domain.Answer, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}
	var answers []domain.Answer
	if err := json.Unmarshal(trimmed, &answers); err != nil {
		return nil, false
	}
	return answers, true
}

// SubmitQuiz grades a submission. The quiz budget is consumed before scoring;
// a failure to record progress is logged and never changes the result.
func (a *App) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)

	var req submitRequest
	if err := a.decode(w, r, &req); err != nil {
		a.error(w, r, http.StatusBadRequest, i18n.KeyInvalidSubmission)
		return
	}
	answers, ok := parseAnswers(req.Answers)
	if !ok {
		a.error(w, r, http.StatusBadRequest, i18n.KeyInvalidSubmission)
		return
	}

	q, err := a.quizzes.Quiz(chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if !q.IsActive {
		a.fail(w, r, domain.ErrNotFound)
		return
	}
	if q.IsPremium {
		if err := a.gate.RequirePremium(r.Context(), userID); err != nil {
			a.fail(w, r, err)
			return
		}
	}

	d, err := a.gate.Authorize(r.Context(), userID, domain.ResourceQuiz)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	setRemaining(w, d)
	if !d.Allowed {
		a.denied(w, r, domain.ResourceQuiz, d)
		return
	}

	result := a.quizzes.Score(q, answers)

	var progressID string
	if ev, err := a.progress.RecordSubmission(r.Context(), userID, q, result); err != nil {
		a.log(r).Error().Err(err).Str("quiz_id", q.ID).Msg("record progress")
	} else {
		progressID = ev.ID
	}

	a.json(w, http.StatusOK, map[string]any{
		"results":     result,
		"progress_id": progressID,
		"remaining":   d.Remaining,
	})
}

// NextQuestion draws an adaptive question. Free callers must still have quiz
// budget left today; the check does not consume it.
func (a *App) NextQuestion(w http.ResponseWriter, r *http.Request) {
	subject, classLevel, difficulty, ok := readQuizQuery(r)
	if !ok {
		a.error(w, r, http.StatusBadRequest, i18n.KeyInvalidRequest)
		return
	}
	req := nextQuestionQuery{Subject: subject, ClassLevel: classLevel, Difficulty: difficulty}
	if !a.check(w, r, req) {
		return
	}

	d, err := a.gate.Status(r.Context(), a.currentUserID(r), domain.ResourceQuiz)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	setRemaining(w, d)
	if !d.Allowed {
		a.denied(w, r, domain.ResourceQuiz, d)
		return
	}

	question, err := a.quizzes.SelectAdaptiveQuestion(quiz.Criteria{
		Subject:    req.Subject,
		ClassLevel: req.ClassLevel,
		Difficulty: domain.Difficulty(req.Difficulty),
		Premium:    d.Reason == domain.ReasonUnlimited,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, question)
}

type dailyFreeQuery struct {
	ClassLevel int `query:"class_level" validate:"required,min=1,max=12"`
}

type dailyFreeQuiz struct {
	Quiz              domain.PublicQuiz `json:"quiz"`
	AttemptsRemaining *int              `json:"attempts_remaining"`
}

// DailyFree lists one free quiz per subject for the caller's class together
// with the quiz attempts left today. Nothing is offered once the budget is
// spent, and looking does not consume it.
func (a *App) DailyFree(w http.ResponseWriter, r *http.Request) {
	_, classLevel, _, ok := readQuizQuery(r)
	if !ok {
		a.error(w, r, http.StatusBadRequest, i18n.KeyInvalidRequest)
		return
	}
	req := dailyFreeQuery{ClassLevel: classLevel}
	if !a.check(w, r, req) {
		return
	}

	d, err := a.gate.Status(r.Context(), a.currentUserID(r), domain.ResourceQuiz)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	setRemaining(w, d)

	daily := make([]dailyFreeQuiz, 0)
	if d.Allowed {
		seen := make(map[string]bool)
		for _, q := range a.quizzes.List(quiz.Filter{ClassLevel: req.ClassLevel}) {
			subject := strings.ToLower(q.Subject)
			if seen[subject] {
				continue
			}
			seen[subject] = true
			daily = append(daily, dailyFreeQuiz{Quiz: q, AttemptsRemaining: d.Remaining})
		}
		sort.Slice(daily, func(i, j int) bool { return daily[i].Quiz.Subject < daily[j].Quiz.Subject })
	}

	a.json(w, http.StatusOK, map[string]any{
		"class_level":   req.ClassLevel,
		"daily_quizzes": daily,
		"resets_at":     d.ResetsAt,
	})
}
