package quiz

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"edusaarthi/internal/domain"
)

// Catalog is the read-only set of quiz definitions.
type Catalog struct {
	quizzes []domain.Quiz
	byID    map[string]int
}

// Filter narrows catalog listings. Zero fields do not filter.
type Filter struct {
	Subject        string
	ClassLevel     int
	Difficulty     domain.Difficulty
	IncludePremium bool
	IncludeEmpty   bool
}

// Match reports whether q passes the filter. Inactive quizzes never match.
func (f Filter) Match(q domain.Quiz) bool {
	if !q.IsActive {
		return false
	}
	if q.IsPremium && !f.IncludePremium {
		return false
	}
	if f.Subject != "" && !strings.EqualFold(strings.TrimSpace(f.Subject), q.Subject) {
		return false
	}
	if f.ClassLevel != 0 && f.ClassLevel != q.ClassLevel {
		return false
	}
	if f.Difficulty != "" && f.Difficulty != q.Difficulty {
		return false
	}
	if len(q.Questions) == 0 && !f.IncludeEmpty {
		return false
	}
	return true
}

// NewCatalog validates quizzes and indexes them by ID.
func NewCatalog(quizzes []domain.Quiz) (*Catalog, error) {
	c := &Catalog{
		quizzes: make([]domain.Quiz, 0, len(quizzes)),
		byID:    make(map[string]int, len(quizzes)),
	}
	for i, q := range quizzes {
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		if _, dup := c.byID[q.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate quiz id %q", domain.ErrInvalidCatalog, q.ID)
		}
		if err := validateQuiz(q); err != nil {
			return nil, fmt.Errorf("%w: quiz %d (%s): %v", domain.ErrInvalidCatalog, i, q.ID, err)
		}
		q.Questions = normalizeQuestions(q.Questions)
		c.byID[q.ID] = len(c.quizzes)
		c.quizzes = append(c.quizzes, q)
	}
	return c, nil
}

// Get returns the quiz with id.
func (c *Catalog) Get(id string) (domain.Quiz, error) {
	idx, ok := c.byID[id]
	if !ok {
		return domain.Quiz{}, domain.ErrNotFound
	}
	return c.quizzes[idx], nil
}

// List returns the quizzes that pass f, in catalog order.
func (c *Catalog) List(f Filter) []domain.Quiz {
	out := make([]domain.Quiz, 0)
	for _, q := range c.quizzes {
		if f.Match(q) {
			out = append(out, q)
		}
	}
	return out
}

// Len is the number of quizzes in the catalog.
func (c *Catalog) Len() int { return len(c.quizzes) }

func validateQuiz(q domain.Quiz) error {
	if strings.TrimSpace(q.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if q.PassingScore < 0 || q.PassingScore > 100 {
		return fmt.Errorf("passing_score %v out of range", q.PassingScore)
	}
	for i, question := range q.Questions {
		if question.Points < 0 {
			return fmt.Errorf("question %d: negative points", i)
		}
		switch question.Type {
		case domain.QuestionSingleChoice:
			if question.CorrectIndex() < 0 {
				return fmt.Errorf("question %d: no option flagged correct", i)
			}
		case domain.QuestionTrueFalse:
		case domain.QuestionFillBlank:
			if strings.TrimSpace(question.CorrectText) == "" {
				return fmt.Errorf("question %d: empty correct_answer", i)
			}
		default:
			return fmt.Errorf("question %d: unsupported type %q", i, question.Type)
		}
	}
	return nil
}

// normalizeQuestions copies qs so the catalog never aliases caller memory, and
// gives unweighted questions one point.
func normalizeQuestions(qs []domain.Question) []domain.Question {
	out := make([]domain.Question, len(qs))
	for i, q := range qs {
		q.Options = append([]domain.Option(nil), q.Options...)
		q.Points = max(q.Points, 1)
		out[i] = q
	}
	return out
}

type catalogFile struct {
	Quizzes []catalogQuiz `json:"quizzes"`
}

type catalogQuiz struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	Subject          string            `json:"subject"`
	ClassLevel       int               `json:"class_level"`
	Difficulty       domain.Difficulty `json:"difficulty_level"`
	TimeLimitMinutes int               `json:"time_limit_minutes"`
	IsPremium        bool              `json:"is_premium"`
	IsActive         *bool             `json:"is_active"`
	PassingScore     float64           `json:"passing_score"`
	Tags             []string          `json:"tags"`
	Questions        []catalogQuestion `json:"questions"`
}

type catalogQuestion struct {
	Text    string `json:"question_text"`
	Type    string `json:"question_type"`
	Options []struct {
		Text      string `json:"option_text"`
		IsCorrect bool   `json:"is_correct"`
	} `json:"options"`
	CorrectAnswer json.RawMessage   `json:"correct_answer"`
	Explanation   string            `json:"explanation"`
	Difficulty    domain.Difficulty `json:"difficulty_level"`
	Points        int               `json:"points"`
}

// LoadCatalog reads a JSON catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open quiz catalog: %w", err)
	}
	defer f.Close()
	return ParseCatalog(f)
}

// ParseCatalog decodes a JSON catalog of the form {"quizzes":[...]}.
func ParseCatalog(r io.Reader) (*Catalog, error) {
	var file catalogFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}
	quizzes := make([]domain.Quiz, 0, len(file.Quizzes))
	for i, cq := range file.Quizzes {
		q, err := cq.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: quiz %d: %v", domain.ErrInvalidCatalog, i, err)
		}
		quizzes = append(quizzes, q)
	}
	return NewCatalog(quizzes)
}

func (cq catalogQuiz) toDomain() (domain.Quiz, error) {
	q := domain.Quiz{
		ID:               strings.TrimSpace(cq.ID),
		Title:            strings.TrimSpace(cq.Title),
		Description:      cq.Description,
		Subject:          strings.TrimSpace(cq.Subject),
		ClassLevel:       cq.ClassLevel,
		Difficulty:       cq.Difficulty,
		TimeLimitMinutes: cq.TimeLimitMinutes,
		IsPremium:        cq.IsPremium,
		IsActive:         cq.IsActive == nil || *cq.IsActive,
		PassingScore:     cq.PassingScore,
		Tags:             cq.Tags,
		Questions:        make([]domain.Question, 0, len(cq.Questions)),
	}
	if q.Difficulty == "" {
		q.Difficulty = domain.DifficultyBeginner
	}
	if q.TimeLimitMinutes == 0 {
		q.TimeLimitMinutes = 10
	}
	for i, cqq := range cq.Questions {
		question, err := cqq.toDomain(q.Difficulty)
		if err != nil {
			return domain.Quiz{}, fmt.Errorf("question %d: %w", i, err)
		}
		q.Questions = append(q.Questions, question)
	}
	return q, nil
}

func (cq catalogQuestion) toDomain(fallback domain.Difficulty) (domain.Question, error) {
	qt := domain.QuestionType(strings.ToLower(strings.TrimSpace(cq.Type)))
	if qt == "multiple_choice" || qt == "" {
		qt = domain.QuestionSingleChoice
	}
	if cq.Points < 0 {
		return domain.Question{}, fmt.Errorf("negative points %d", cq.Points)
	}
	q := domain.Question{
		Text:        cq.Text,
		Type:        qt,
		Explanation: cq.Explanation,
		Difficulty:  cq.Difficulty,
		Points:      max(cq.Points, 1),
	}
	if q.Difficulty == "" {
		q.Difficulty = fallback
	}
	for _, o := range cq.Options {
		q.Options = append(q.Options, domain.Option{Text: o.Text, IsCorrect: o.IsCorrect})
	}

	switch qt {
	case domain.QuestionTrueFalse:
		var key domain.Answer
		if err := json.Unmarshal(cq.CorrectAnswer, &key); err != nil {
			return domain.Question{}, fmt.Errorf("correct_answer: %w", err)
		}
		v, ok := key.Bool()
		if !ok {
			return domain.Question{}, fmt.Errorf("true_false correct_answer must be a boolean")
		}
		q.CorrectBool = v
	case domain.QuestionFillBlank:
		if err := json.Unmarshal(cq.CorrectAnswer, &q.CorrectText); err != nil {
			return domain.Question{}, fmt.Errorf("fill_blank correct_answer must be a string: %w", err)
		}
	}
	return q, nil
}
