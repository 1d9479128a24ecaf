package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"time"
)

// QuestionType enumerates scoreable question kinds.
type QuestionType string

const (
	QuestionSingleChoice QuestionType = "single_choice"
	QuestionTrueFalse    QuestionType = "true_false"
	QuestionFillBlank    QuestionType = "fill_blank"
)

// Difficulty is classification metadata on quizzes and questions.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// DefaultPassingScore is the pass mark (percent) for quizzes that do not set one.
const DefaultPassingScore = 70.0

// Option is one choice of a single_choice question.
type Option struct {
	Text      string
	IsCorrect bool
}

// Question holds a prompt together with its answer key. It never leaves the
// server as is; see PublicQuestion.
type Question struct {
	Text        string
	Type        QuestionType
	Options     []Option
	CorrectBool bool   // true_false
	CorrectText string // fill_blank
	Explanation string
	Difficulty  Difficulty
	Points      int
}

// CorrectIndex is the index of the first option flagged correct, or -1.
func (q Question) CorrectIndex() int {
	for i, opt := range q.Options {
		if opt.IsCorrect {
			return i
		}
	}
	return -1
}

// CorrectAnswer returns the answer key in the shape answers are submitted in.
func (q Question) CorrectAnswer() any {
	switch q.Type {
	case QuestionSingleChoice:
		return q.CorrectIndex()
	case QuestionTrueFalse:
		return q.CorrectBool
	default:
		return q.CorrectText
	}
}

// Quiz is an immutable quiz definition from the catalog.
type Quiz struct {
	ID               string
	Title            string
	Description      string
	Subject          string
	ClassLevel       int
	Difficulty       Difficulty
	TimeLimitMinutes int
	IsPremium        bool
	IsActive         bool
	PassingScore     float64
	Tags             []string
	Questions        []Question
}

// PassMark returns the quiz pass mark, falling back to DefaultPassingScore.
func (q Quiz) PassMark() float64 {
	if q.PassingScore > 0 {
		return q.PassingScore
	}
	return DefaultPassingScore
}

// PublicOption is an option without its correctness flag.
type PublicOption struct {
	Text string `json:"option_text"`
}

// PublicQuestion is a question stripped of every correctness field.
type PublicQuestion struct {
	QuizID        string         `json:"quiz_id,omitempty"`
	QuestionIndex int            `json:"question_index"`
	Text          string         `json:"question_text"`
	Type          QuestionType   `json:"question_type"`
	Options       []PublicOption `json:"options"`
	Difficulty    Difficulty     `json:"difficulty_level,omitempty"`
	Points        int            `json:"points"`
}

// PublicQuiz is the pre-submission representation of a quiz.
type PublicQuiz struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Subject          string           `json:"subject"`
	ClassLevel       int              `json:"class_level"`
	Difficulty       Difficulty       `json:"difficulty_level"`
	TimeLimitMinutes int              `json:"time_limit_minutes"`
	IsPremium        bool             `json:"is_premium"`
	Tags             []string         `json:"tags,omitempty"`
	Questions        []PublicQuestion `json:"questions"`
}

// Public strips a question of its answer key.
func (q Question) Public(quizID string, index int) PublicQuestion {
	opts := make([]PublicOption, 0, len(q.Options))
	for _, o := range q.Options {
		opts = append(opts, PublicOption{Text: o.Text})
	}
	return PublicQuestion{
		QuizID:        quizID,
		QuestionIndex: index,
		Text:          q.Text,
		Type:          q.Type,
		Options:       opts,
		Difficulty:    q.Difficulty,
		Points:        q.Points,
	}
}

// Public strips a quiz of every answer key.
func (q Quiz) Public() PublicQuiz {
	questions := make([]PublicQuestion, 0, len(q.Questions))
	for i, question := range q.Questions {
		pq := question.Public("", i)
		questions = append(questions, pq)
	}
	return PublicQuiz{
		ID:               q.ID,
		Title:            q.Title,
		Description:      q.Description,
		Subject:          q.Subject,
		ClassLevel:       q.ClassLevel,
		Difficulty:       q.Difficulty,
		TimeLimitMinutes: q.TimeLimitMinutes,
		IsPremium:        q.IsPremium,
		Tags:             q.Tags,
		Questions:        questions,
	}
}

type answerKind uint8

const (
	answerNone answerKind = iota
	answerNumber
	answerBool
	answerText
	answerOther
)

// Answer is one submitted answer as decoded from JSON. The zero value is
// "no answer". Answers of the wrong shape for their question are kept and
// simply score as incorrect.
type Answer struct {
	kind answerKind
	num  float64
	b    bool
	text string
	raw  json.RawMessage
}

// NoAnswer is an unanswered question.
func NoAnswer() Answer { return Answer{} }

// IndexAnswer answers a single_choice question.
func IndexAnswer(i int) Answer { return Answer{kind: answerNumber, num: float64(i)} }

// BoolAnswer answers a true_false question.
func BoolAnswer(v bool) Answer { return Answer{kind: answerBool, b: v} }

// TextAnswer answers a fill_blank question.
func TextAnswer(s string) Answer { return Answer{kind: answerText, text: s} }

// IsNone reports whether nothing was submitted.
func (a Answer) IsNone() bool { return a.kind == answerNone }

// Index returns the answer as an option index.
func (a Answer) Index() (int, bool) {
	if a.kind != answerNumber || a.num < 0 || a.num != math.Trunc(a.num) || a.num > math.MaxInt32 {
		return 0, false
	}
	return int(a.num), true
}

// Bool returns the answer as a boolean. The strings "true" and "false" are
// accepted since form-encoded clients cannot send JSON booleans.
func (a Answer) Bool() (bool, bool) {
	switch a.kind {
	case answerBool:
		return a.b, true
	case answerText:
		switch a.text {
		case "true", "True", "TRUE":
			return true, true
		case "false", "False", "FALSE":
			return false, true
		}
	}
	return false, false
}

// Text returns the answer as a string.
func (a Answer) Text() (string, bool) {
	if a.kind != answerText {
		return "", false
	}
	return a.text, true
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*a = Answer{raw: append(json.RawMessage(nil), data...)}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		a.raw = nil
		return nil
	}
	switch data[0] {
	case 't', 'f':
		if err := json.Unmarshal(data, &a.b); err != nil {
			return err
		}
		a.kind = answerBool
	case '"':
		if err := json.Unmarshal(data, &a.text); err != nil {
			return err
		}
		a.kind = answerText
	case '{', '[':
		a.kind = answerOther
	default:
		if err := json.Unmarshal(data, &a.num); err != nil {
			return err
		}
		a.kind = answerNumber
	}
	return nil
}

// MarshalJSON implements json.Marshaler. Submitted answers are echoed verbatim.
func (a Answer) MarshalJSON() ([]byte, error) {
	if a.raw != nil {
		return a.raw, nil
	}
	switch a.kind {
	case answerNumber:
		return json.Marshal(a.num)
	case answerBool:
		return json.Marshal(a.b)
	case answerText:
		return json.Marshal(a.text)
	default:
		return []byte("null"), nil
	}
}

// QuestionResult is the post-submission breakdown of one question.
type QuestionResult struct {
	QuestionText  string `json:"question_text"`
	UserAnswer    Answer `json:"user_answer"`
	CorrectAnswer any    `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Points        int    `json:"points"`
	Explanation   string `json:"explanation,omitempty"`
}

// SubmissionResult is computed fresh for every submission.
type SubmissionResult struct {
	Score        int              `json:"score"`
	MaxScore     int              `json:"max_score"`
	Percentage   float64          `json:"percentage"`
	PassingScore float64          `json:"passing_score"`
	Passed       bool             `json:"passed"`
	Questions    []QuestionResult `json:"questions"`
}

// ProgressEvent is the history record handed to the progress recorder.
type ProgressEvent struct {
	ID         string           `json:"id"`
	UserID     string           `json:"user_id"`
	QuizID     string           `json:"quiz_id"`
	Subject    string           `json:"subject"`
	ClassLevel int              `json:"class_level"`
	Result     SubmissionResult `json:"result"`
	CreatedAt  time.Time        `json:"created_at"`
}
