package quiz

import (
	"errors"
	"strings"
	"testing"

	"edusaarthi/internal/domain"
)

const sampleCatalog = `{
  "quizzes": [
    {
      "id": "sci-8-light",
      "title": "Light and Reflection",
      "subject": "Science",
      "class_level": 8,
      "passing_score": 60,
      "questions": [
        {
          "question_text": "Which mirror forms a virtual image?",
          "question_type": "multiple_choice",
          "options": [
            {"option_text": "Plane", "is_correct": true},
            {"option_text": "None"}
          ],
          "points": 2
        },
        {"question_text": "Light travels in straight lines", "question_type": "true_false", "correct_answer": "true"},
        {"question_text": "Splitting of light is called ____", "question_type": "fill_blank", "correct_answer": "dispersion"}
      ]
    },
    {
      "title": "Premium Optics",
      "subject": "Science",
      "class_level": 8,
      "is_premium": true,
      "difficulty_level": "advanced",
      "questions": [
        {"question_text": "Lens?", "question_type": "true_false", "correct_answer": false}
      ]
    },
    {
      "id": "retired",
      "title": "Retired",
      "subject": "Science",
      "class_level": 8,
      "is_active": false,
      "questions": [{"question_text": "x", "question_type": "true_false", "correct_answer": true}]
    }
  ]
}`

func TestParseCatalog(t *testing.T) {
	c, err := ParseCatalog(strings.NewReader(sampleCatalog))
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("len = %d", c.Len())
	}
	q, err := c.Get("sci-8-light")
	if err != nil {
		t.Fatal(err)
	}
	if q.Questions[0].Type != domain.QuestionSingleChoice || q.Questions[0].Points != 2 {
		t.Fatalf("question 0 = %+v", q.Questions[0])
	}
	if !q.Questions[1].CorrectBool || q.Questions[1].Points != 1 {
		t.Fatalf("question 1 = %+v", q.Questions[1])
	}
	if q.Questions[2].CorrectText != "dispersion" {
		t.Fatalf("question 2 = %+v", q.Questions[2])
	}
	if q.Difficulty != domain.DifficultyBeginner || q.TimeLimitMinutes != 10 {
		t.Fatalf("defaults not applied: %+v", q)
	}

	free := c.List(Filter{Subject: "science"})
	if len(free) != 1 || free[0].ID != "sci-8-light" {
		t.Fatalf("free listing = %v", free)
	}
	all := c.List(Filter{IncludePremium: true})
	if len(all) != 2 {
		t.Fatalf("premium listing has %d quizzes", len(all))
	}
	if all[1].ID == "" {
		t.Fatal("generated id missing")
	}
}

func TestCatalogGetMissing(t *testing.T) {
	c, _ := NewCatalog(nil)
	if _, err := c.Get("nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestParseCatalogRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"quizzes": [`},
		{"unknown type", `{"quizzes":[{"title":"a","questions":[{"question_type":"essay"}]}]}`},
		{"no correct option", `{"quizzes":[{"title":"a","questions":[{"question_type":"single_choice","options":[{"option_text":"x"}]}]}]}`},
		{"tf without key", `{"quizzes":[{"title":"a","questions":[{"question_type":"true_false","correct_answer":"maybe"}]}]}`},
		{"blank without key", `{"quizzes":[{"title":"a","questions":[{"question_type":"fill_blank","correct_answer":""}]}]}`},
		{"negative points", `{"quizzes":[{"title":"a","questions":[{"question_type":"true_false","correct_answer":true,"points":-2}]}]}`},
		{"missing title", `{"quizzes":[{"questions":[]}]}`},
		{"duplicate id", `{"quizzes":[{"id":"x","title":"a"},{"id":"x","title":"b"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog(strings.NewReader(tt.body))
			if !errors.Is(err, domain.ErrInvalidCatalog) {
				t.Fatalf("err = %v", err)
			}
		})
	}
}

func TestEnginePublicQuiz(t *testing.T) {
	c, err := ParseCatalog(strings.NewReader(sampleCatalog))
	if err != nil {
		t.Fatal(err)
	}
	e := NewEngine(c)
	premiumID := c.List(Filter{IncludePremium: true})[1].ID

	if _, err := e.PublicQuiz(premiumID, false); !errors.Is(err, domain.ErrPremiumRequired) {
		t.Fatalf("free caller err = %v", err)
	}
	if _, err := e.PublicQuiz(premiumID, true); err != nil {
		t.Fatalf("premium caller err = %v", err)
	}
	if _, err := e.PublicQuiz("retired", true); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("inactive err = %v", err)
	}

	pq, err := e.PublicQuiz("sci-8-light", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(pq.Questions) != 3 || len(pq.Questions[0].Options) != 2 {
		t.Fatalf("public quiz = %+v", pq)
	}
}

func TestEngineAdaptiveUsesPicker(t *testing.T) {
	c, _ := ParseCatalog(strings.NewReader(sampleCatalog))
	e := NewEngine(c).WithPicker(func(n int) int { return n - 1 })
	q, err := e.SelectAdaptiveQuestion(Criteria{Subject: "Science", ClassLevel: 8})
	if err != nil {
		t.Fatal(err)
	}
	if q.QuizID != "sci-8-light" || q.QuestionIndex != 2 {
		t.Fatalf("question = %+v", q)
	}
}

func TestBundledCatalogLoads(t *testing.T) {
	c, err := LoadCatalog("../../data/quizzes.json")
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if c.Len() == 0 {
		t.Fatal("bundled catalog is empty")
	}
	if len(c.List(Filter{})) == len(c.List(Filter{IncludePremium: true})) {
		t.Fatal("bundled catalog has no premium quizzes")
	}
}
