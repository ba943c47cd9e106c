package game

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"wordplay-service/internal/domain"
)

func wordItInput(sentence string, options []string, answer string) domain.QuestionInput {
	return domain.QuestionInput{
		Sentence:      sentence,
		Options:       options,
		CorrectAnswer: answer,
		Explanation:   "because",
	}
}

func sequentialIDs(t *testing.T, ids ...string) {
	t.Helper()
	prev := newQuestionID
	i := 0
	newQuestionID = func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
	t.Cleanup(func() { newQuestionID = prev })
}

func TestAddQuestionAssignsFreshID(t *testing.T) {
	doc, err := BuildDocument(domain.KindWordIt, []domain.QuestionInput{
		wordItInput("The capital of France is ___", []string{"Paris", "Lyon"}, "Paris"),
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	out, q, err := AddQuestion(doc, domain.KindWordIt, wordItInput("2 + 2 = ___", []string{"3", "4"}, "4"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(out.Questions) != len(doc.Questions)+1 {
		t.Fatalf("expected %d questions, got %d", len(doc.Questions)+1, len(out.Questions))
	}
	if _, err := FindQuestion(doc, q.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("new id %s already present in the original document", q.ID)
	}
	if len(doc.Questions) != 1 {
		t.Fatalf("input document was mutated: %+v", doc)
	}
	if out.Questions[1].ID != q.ID {
		t.Fatalf("expected appended question last, got %+v", out.Questions)
	}
}

func TestAddQuestionRetriesOnIDCollision(t *testing.T) {
	sequentialIDs(t, "q1", "q1", "q2")
	doc, _, err := AddQuestion(domain.Document{}, domain.KindWordIt, wordItInput("a ___", []string{"x", "y"}, "x"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	doc, q, err := AddQuestion(doc, domain.KindWordIt, wordItInput("b ___", []string{"x", "y"}, "y"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if q.ID != "q2" {
		t.Fatalf("expected colliding id to be regenerated, got %s", q.ID)
	}
	if err := ValidateDocument(domain.KindWordIt, doc); err != nil {
		t.Fatalf("document invalid after add: %v", err)
	}
}

func TestAddQuestionRejectsAnswerOutsideOptions(t *testing.T) {
	_, _, err := AddQuestion(domain.Document{}, domain.KindWordIt, wordItInput("pick ___", []string{"a", "b"}, "c"))
	if !errors.Is(err, domain.ErrInvalidQuestion) {
		t.Fatalf("expected invalid question, got %v", err)
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected invalid question to be a validation error, got %v", err)
	}
}

func TestAddQuestionValidatesFields(t *testing.T) {
	long := make([]byte, 501)
	for i := range long {
		long[i] = 'x'
	}
	cases := map[string]domain.QuestionInput{
		"empty sentence":   wordItInput("   ", []string{"a", "b"}, "a"),
		"long sentence":    wordItInput(string(long), []string{"a", "b"}, "a"),
		"single option":    wordItInput("s", []string{"a"}, "a"),
		"too many options": wordItInput("s", []string{"a", "b", "c", "d", "e", "f", "g"}, "a"),
		"empty option":     wordItInput("s", []string{"a", " "}, "a"),
		"empty answer":     wordItInput("s", []string{"a", "b"}, ""),
		"repeated options": wordItInput("s", []string{"a", "a"}, "a"),
		"repeat once trim": wordItInput("s", []string{"a", " a "}, "a"),
		"clauses on wordit": {
			Sentence: "s", LeftClause: "l", Options: []string{"a", "b"}, CorrectAnswer: "a",
		},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, _, err := AddQuestion(domain.Document{}, domain.KindWordIt, in); !errors.Is(err, domain.ErrInvalidQuestion) {
				t.Fatalf("expected invalid question, got %v", err)
			}
		})
	}
}

func TestOptionsMustNotRepeat(t *testing.T) {
	for _, kind := range []domain.Kind{domain.KindWordIt, domain.KindCompleteTheSentence} {
		in := domain.QuestionInput{Sentence: "pick ___", Options: []string{"so", "but", "so"}, CorrectAnswer: "so"}
		if kind != domain.KindWordIt {
			in = domain.QuestionInput{LeftClause: "It rained", RightClause: "we stayed in", Options: []string{"so", "but", "so"}, CorrectAnswer: "so"}
		}
		_, _, err := AddQuestion(domain.Document{}, kind, in)
		if !errors.Is(err, domain.ErrInvalidQuestion) {
			t.Fatalf("%s: expected invalid question, got %v", kind, err)
		}
		if got := err.Error(); !strings.Contains(got, "options must not repeat") {
			t.Fatalf("%s: unexpected message %q", kind, got)
		}
	}
}

func TestAddQuestionTrimsInput(t *testing.T) {
	_, q, err := AddQuestion(domain.Document{}, domain.KindWordIt, wordItInput("  hello ___ ", []string{" a ", "b"}, "a "))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	want := domain.Question{ID: q.ID, Sentence: "hello ___", Options: []string{"a", "b"}, CorrectAnswer: "a", Explanation: "because"}
	if diff := cmp.Diff(want, q); diff != "" {
		t.Fatalf("question mismatch (-want +got):\n%s", diff)
	}
}

func TestSentenceKindsRequireClauses(t *testing.T) {
	in := domain.QuestionInput{
		LeftClause:    "I wanted to go for a walk",
		RightClause:   "it was raining",
		Options:       []string{"and", "but", "so", "or"},
		CorrectAnswer: "but",
		Explanation:   "Use 'but' to show contrast.",
	}
	for _, kind := range []domain.Kind{domain.KindCompleteTheSentence, domain.KindCompoundSentences} {
		if _, _, err := AddQuestion(domain.Document{}, kind, in); err != nil {
			t.Fatalf("%s: add: %v", kind, err)
		}
		noClause := in
		noClause.RightClause = ""
		if _, _, err := AddQuestion(domain.Document{}, kind, noClause); !errors.Is(err, domain.ErrInvalidQuestion) {
			t.Fatalf("%s: expected invalid question, got %v", kind, err)
		}
	}
}

func TestAddQuestionCapsDocumentSize(t *testing.T) {
	inputs := make([]domain.QuestionInput, MaxQuestions)
	for i := range inputs {
		inputs[i] = wordItInput(fmt.Sprintf("q%d ___", i), []string{"a", "b"}, "a")
	}
	doc, err := BuildDocument(domain.KindWordIt, inputs)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, _, err := AddQuestion(doc, domain.KindWordIt, inputs[0]); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error past %d questions, got %v", MaxQuestions, err)
	}
}

func TestUpdateQuestionAppliesPartialPatch(t *testing.T) {
	sequentialIDs(t, "q1")
	doc, _ := BuildDocument(domain.KindWordIt, []domain.QuestionInput{
		wordItInput("pick ___", []string{"a", "b"}, "a"),
	})

	answer := "b"
	out, q, err := UpdateQuestion(doc, domain.KindWordIt, "q1", domain.QuestionPatch{CorrectAnswer: &answer})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	want := domain.Question{ID: "q1", Sentence: "pick ___", Options: []string{"a", "b"}, CorrectAnswer: "b", Explanation: "because"}
	if diff := cmp.Diff(want, q); diff != "" {
		t.Fatalf("question mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, out.Questions[0]); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
	if doc.Questions[0].CorrectAnswer != "a" {
		t.Fatalf("input document was mutated")
	}
}

func TestUpdateQuestionRejectsBrokenInvariant(t *testing.T) {
	sequentialIDs(t, "q1")
	doc, _ := BuildDocument(domain.KindWordIt, []domain.QuestionInput{
		wordItInput("pick ___", []string{"a", "b"}, "a"),
	})

	options := []string{"x", "y"}
	out, _, err := UpdateQuestion(doc, domain.KindWordIt, "q1", domain.QuestionPatch{Options: &options})
	if !errors.Is(err, domain.ErrInvalidQuestion) {
		t.Fatalf("expected invalid question, got %v", err)
	}
	if diff := cmp.Diff(doc, out); diff != "" {
		t.Fatalf("document changed on failed update (-want +got):\n%s", diff)
	}
}

func TestDeleteQuestion(t *testing.T) {
	sequentialIDs(t, "q1", "q2", "q3")
	doc, _ := BuildDocument(domain.KindWordIt, []domain.QuestionInput{
		wordItInput("one ___", []string{"a", "b"}, "a"),
		wordItInput("two ___", []string{"a", "b"}, "a"),
		wordItInput("three ___", []string{"a", "b"}, "a"),
	})

	out, err := DeleteQuestion(doc, "q2")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	var ids []string
	for _, q := range out.Questions {
		ids = append(ids, q.ID)
	}
	if diff := cmp.Diff([]string{"q1", "q3"}, ids); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if len(doc.Questions) != 3 {
		t.Fatalf("input document was mutated")
	}

	sentence := "again ___"
	if _, _, err := UpdateQuestion(out, domain.KindWordIt, "q2", domain.QuestionPatch{Sentence: &sentence}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if _, err := DeleteQuestion(out, "q2"); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected question not found, got %v", err)
	}
}

func TestValidateDocumentRejectsDuplicateIDs(t *testing.T) {
	q := domain.Question{ID: "q1", Sentence: "s", Options: []string{"a", "b"}, CorrectAnswer: "a"}
	err := ValidateDocument(domain.KindWordIt, domain.Document{Questions: []domain.Question{q, q}})
	if !errors.Is(err, domain.ErrInvalidQuestion) {
		t.Fatalf("expected invalid question, got %v", err)
	}
}
