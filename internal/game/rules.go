// Package game holds the pure game-content logic shared by every game kind: question validation,
// document editing, the play-safe projection, answer scoring, leaderboard ranking and the
// ownership/publication predicates. Nothing here performs I/O; callers load a record, apply one of
// these functions and persist the result.
package game

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"wordplay-service/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// MaxQuestions caps the number of questions in one document.
const MaxQuestions = 50

// Game metadata limits.
const (
	MaxNameLength        = 128
	MaxDescriptionLength = 256
)

type rules struct {
	promptMax      int
	optionsMin     int
	optionsMax     int
	optionMax      int
	answerMax      int
	explanationMax int
	clauses        bool
}

var kindRules = map[domain.Kind]rules{
	domain.KindWordIt: {
		promptMax:      500,
		optionsMin:     2,
		optionsMax:     6,
		optionMax:      100,
		answerMax:      100,
		explanationMax: 500,
	},
	domain.KindCompleteTheSentence: {
		promptMax:      2000,
		optionsMin:     2,
		optionsMax:     6,
		optionMax:      16,
		answerMax:      16,
		explanationMax: 2000,
		clauses:        true,
	},
	domain.KindCompoundSentences: {
		promptMax:      2000,
		optionsMin:     2,
		optionsMax:     6,
		optionMax:      16,
		answerMax:      16,
		explanationMax: 2000,
		clauses:        true,
	},
}

func rulesFor(kind domain.Kind) (rules, error) {
	r, ok := kindRules[kind]
	if !ok {
		return rules{}, fmt.Errorf("%w: unknown game kind %q", domain.ErrValidation, kind)
	}
	return r, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrInvalidQuestion}, args...)...)
}

// ValidateQuestion checks a single question against the rules of its game kind.
func ValidateQuestion(kind domain.Kind, q domain.Question) error {
	r, err := rulesFor(kind)
	if err != nil {
		return err
	}

	if r.clauses {
		if err := checkField("left_clause", q.LeftClause, textTag(1, r.promptMax)); err != nil {
			return err
		}
		if err := checkField("right_clause", q.RightClause, textTag(1, r.promptMax)); err != nil {
			return err
		}
		if q.Sentence != "" {
			return invalid("sentence is not used by %s questions", kind)
		}
	} else {
		if err := checkField("sentence", q.Sentence, textTag(1, r.promptMax)); err != nil {
			return err
		}
		if q.LeftClause != "" || q.RightClause != "" {
			return invalid("clauses are not used by %s questions", kind)
		}
	}

	optionsTag := fmt.Sprintf("min=%d,max=%d,unique,dive,%s", r.optionsMin, r.optionsMax, textTag(1, r.optionMax))
	if err := checkField("options", q.Options, optionsTag); err != nil {
		return err
	}
	if err := checkField("correct_answer", q.CorrectAnswer, textTag(1, r.answerMax)); err != nil {
		return err
	}
	if !contains(q.Options, q.CorrectAnswer) {
		return invalid("correct answer must be one of the options")
	}
	if err := checkField("explanation", q.Explanation, textTag(0, r.explanationMax)); err != nil {
		return err
	}
	return nil
}

// ValidateDocument checks every question plus the document-wide invariants: bounded size and
// unique, non-empty question ids.
func ValidateDocument(kind domain.Kind, doc domain.Document) error {
	if len(doc.Questions) > MaxQuestions {
		return fmt.Errorf("%w: a game holds at most %d questions", domain.ErrValidation, MaxQuestions)
	}
	seen := make(map[string]struct{}, len(doc.Questions))
	for _, q := range doc.Questions {
		if q.ID == "" {
			return invalid("question id is required")
		}
		if _, dup := seen[q.ID]; dup {
			return invalid("duplicate question id %s", q.ID)
		}
		seen[q.ID] = struct{}{}
		if err := ValidateQuestion(kind, q); err != nil {
			return err
		}
	}
	return nil
}

// ValidateName checks a game name.
func ValidateName(name string) error {
	if err := validate.Var(name, textTag(1, MaxNameLength)); err != nil {
		return fmt.Errorf("%w: title must be between 1 and %d characters", domain.ErrValidation, MaxNameLength)
	}
	return nil
}

// ValidateDescription checks a game description.
func ValidateDescription(desc string) error {
	if err := validate.Var(desc, textTag(0, MaxDescriptionLength)); err != nil {
		return fmt.Errorf("%w: description must be at most %d characters", domain.ErrValidation, MaxDescriptionLength)
	}
	return nil
}

// textTag builds a validator tag for a string of min..max runes.
func textTag(min, max int) string {
	if min > 0 {
		return fmt.Sprintf("min=%d,max=%d", min, max)
	}
	return fmt.Sprintf("max=%d", max)
}

func checkField(field string, value any, tag string) error {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return invalid("%s: %v", field, err)
	}
	fe := fieldErrs[0]
	name := field + fe.Field()
	switch fe.Tag() {
	case "unique":
		return invalid("%s must not repeat", name)
	case "min":
		if fe.Kind() == reflect.Slice {
			return invalid("%s must contain at least %s entries", name, fe.Param())
		}
		return invalid("%s is required", name)
	case "max":
		if fe.Kind() == reflect.Slice {
			return invalid("%s must contain at most %s entries", name, fe.Param())
		}
		return invalid("%s must be at most %s characters", name, fe.Param())
	default:
		return invalid("%s failed %s", name, fe.Tag())
	}
}

func contains(options []string, v string) bool {
	for _, opt := range options {
		if opt == v {
			return true
		}
	}
	return false
}

func trimAll(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}
