package quiz

import (
	"edusaarthi/internal/domain"
)

// Engine serves quizzes from a catalog: public listings, scoring and
// adaptive draws.
type Engine struct {
	catalog *Catalog
	pick    Picker
}

// NewEngine builds an Engine over catalog. A nil catalog behaves as empty.
func NewEngine(catalog *Catalog) *Engine {
	if catalog == nil {
		catalog = &Catalog{byID: map[string]int{}}
	}
	return &Engine{catalog: catalog}
}

// WithPicker replaces the random source, for deterministic draws in tests.
func (e *Engine) WithPicker(p Picker) *Engine {
	e.pick = p
	return e
}

// Quiz returns the full quiz definition including answer keys.
func (e *Engine) Quiz(id string) (domain.Quiz, error) {
	return e.catalog.Get(id)
}

// PublicQuiz returns quiz id without answer keys. Premium quizzes are only
// returned to premium callers.
func (e *Engine) PublicQuiz(id string, premium bool) (domain.PublicQuiz, error) {
	q, err := e.catalog.Get(id)
	if err != nil {
		return domain.PublicQuiz{}, err
	}
	if !q.IsActive {
		return domain.PublicQuiz{}, domain.ErrNotFound
	}
	if q.IsPremium && !premium {
		return domain.PublicQuiz{}, domain.ErrPremiumRequired
	}
	return q.Public(), nil
}

// List returns the public form of every quiz that passes f.
func (e *Engine) List(f Filter) []domain.PublicQuiz {
	quizzes := e.catalog.List(f)
	out := make([]domain.PublicQuiz, 0, len(quizzes))
	for _, q := range quizzes {
		out = append(out, q.Public())
	}
	return out
}

// Score grades a submission for quiz q.
func (e *Engine) Score(q domain.Quiz, answers []domain.Answer) domain.SubmissionResult {
	return Score(q, answers)
}

// SelectAdaptiveQuestion draws a question from the catalog under c.
func (e *Engine) SelectAdaptiveQuestion(c Criteria) (domain.PublicQuestion, error) {
	return SelectAdaptiveQuestion(e.catalog.quizzes, c, e.pick)
}
