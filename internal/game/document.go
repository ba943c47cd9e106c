package game

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"wordplay-service/internal/domain"
)

// newQuestionID is swapped in tests for deterministic ids.
var newQuestionID = uuid.NewString

// NewQuestion builds a validated question from input, without assigning an id.
func NewQuestion(kind domain.Kind, in domain.QuestionInput) (domain.Question, error) {
	q := domain.Question{
		Sentence:      strings.TrimSpace(in.Sentence),
		LeftClause:    strings.TrimSpace(in.LeftClause),
		RightClause:   strings.TrimSpace(in.RightClause),
		Options:       trimAll(in.Options),
		CorrectAnswer: strings.TrimSpace(in.CorrectAnswer),
		Explanation:   strings.TrimSpace(in.Explanation),
	}
	if err := ValidateQuestion(kind, q); err != nil {
		return domain.Question{}, err
	}
	return q, nil
}

// BuildDocument creates a document from a list of inputs, assigning fresh ids in order.
func BuildDocument(kind domain.Kind, inputs []domain.QuestionInput) (domain.Document, error) {
	doc := domain.Document{Questions: make([]domain.Question, 0, len(inputs))}
	for _, in := range inputs {
		var err error
		doc, _, err = AddQuestion(doc, kind, in)
		if err != nil {
			return domain.Document{}, err
		}
	}
	return doc, nil
}

// AddQuestion appends a new question with a fresh id. The input document is not modified.
func AddQuestion(doc domain.Document, kind domain.Kind, in domain.QuestionInput) (domain.Document, domain.Question, error) {
	q, err := NewQuestion(kind, in)
	if err != nil {
		return doc, domain.Question{}, err
	}
	if len(doc.Questions) >= MaxQuestions {
		return doc, domain.Question{}, fmt.Errorf("%w: a game holds at most %d questions", domain.ErrValidation, MaxQuestions)
	}

	q.ID = freshID(doc)
	out := doc.Clone()
	out.Questions = append(out.Questions, q)
	return out, q.Clone(), nil
}

// UpdateQuestion applies the non-nil fields of patch to the question with the given id and
// re-validates the merged question. On any error the input document is returned unchanged.
func UpdateQuestion(doc domain.Document, kind domain.Kind, id string, patch domain.QuestionPatch) (domain.Document, domain.Question, error) {
	idx := indexOf(doc, id)
	if idx < 0 {
		return doc, domain.Question{}, domain.ErrQuestionNotFound
	}

	q := doc.Questions[idx].Clone()
	if patch.Sentence != nil {
		q.Sentence = strings.TrimSpace(*patch.Sentence)
	}
	if patch.LeftClause != nil {
		q.LeftClause = strings.TrimSpace(*patch.LeftClause)
	}
	if patch.RightClause != nil {
		q.RightClause = strings.TrimSpace(*patch.RightClause)
	}
	if patch.Options != nil {
		q.Options = trimAll(*patch.Options)
	}
	if patch.CorrectAnswer != nil {
		q.CorrectAnswer = strings.TrimSpace(*patch.CorrectAnswer)
	}
	if patch.Explanation != nil {
		q.Explanation = strings.TrimSpace(*patch.Explanation)
	}
	if err := ValidateQuestion(kind, q); err != nil {
		return doc, domain.Question{}, err
	}

	out := doc.Clone()
	out.Questions[idx] = q
	return out, q.Clone(), nil
}

// DeleteQuestion removes the question with the given id, preserving the order of the rest.
func DeleteQuestion(doc domain.Document, id string) (domain.Document, error) {
	idx := indexOf(doc, id)
	if idx < 0 {
		return doc, domain.ErrQuestionNotFound
	}
	out := doc.Clone()
	out.Questions = append(out.Questions[:idx], out.Questions[idx+1:]...)
	return out, nil
}

// FindQuestion returns a copy of the question with the given id.
func FindQuestion(doc domain.Document, id string) (domain.Question, error) {
	idx := indexOf(doc, id)
	if idx < 0 {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return doc.Questions[idx].Clone(), nil
}

func indexOf(doc domain.Document, id string) int {
	for i := range doc.Questions {
		if doc.Questions[i].ID == id {
			return i
		}
	}
	return -1
}

func freshID(doc domain.Document) string {
	for {
		id := newQuestionID()
		if indexOf(doc, id) < 0 {
			return id
		}
	}
}
