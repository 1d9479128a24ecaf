package quiz

import (
	"fmt"
	"math/rand/v2"

	"edusaarthi/internal/domain"
)

// Criteria selects the pool adaptive questions are drawn from.
type Criteria struct {
	Subject    string
	ClassLevel int
	// Difficulty filters only when set.
	Difficulty domain.Difficulty
	Premium    bool
}

func (c Criteria) filter() Filter {
	return Filter{
		Subject:        c.Subject,
		ClassLevel:     c.ClassLevel,
		Difficulty:     c.Difficulty,
		IncludePremium: c.Premium,
	}
}

// Picker returns a uniform integer in [0, n).
type Picker func(n int) int

// SelectAdaptiveQuestion filters quizzes by c, picks one matching quiz and then
// one of its questions uniformly at random, and returns it stripped of its
// answer key. The filter always runs before the draw; an empty pool yields
// ErrNoSuitableContent rather than a draw from a wider set.
func SelectAdaptiveQuestion(quizzes []domain.Quiz, c Criteria, pick Picker) (domain.PublicQuestion, error) {
	if pick == nil {
		pick = rand.IntN
	}
	f := c.filter()
	pool := make([]domain.Quiz, 0, len(quizzes))
	for _, q := range quizzes {
		if f.Match(q) {
			pool = append(pool, q)
		}
	}
	if len(pool) == 0 {
		return domain.PublicQuestion{}, fmt.Errorf("%w: subject=%q class=%d difficulty=%q",
			domain.ErrNoSuitableContent, c.Subject, c.ClassLevel, c.Difficulty)
	}
	q := pool[pick(len(pool))]
	idx := pick(len(q.Questions))
	return q.Questions[idx].Public(q.ID, idx), nil
}
