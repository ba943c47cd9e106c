package http

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordplay-service/internal/domain"
)

func TestCheckRequestValidation(t *testing.T) {
	cases := []struct {
		name    string
		req     checkRequest
		wantErr string
	}{
		{name: "ok trims", req: checkRequest{QuestionID: " q1 ", Answer: "  so "}},
		{name: "missing question", req: checkRequest{Answer: "so"}, wantErr: "question_id is required"},
		{name: "blank answer", req: checkRequest{QuestionID: "q1", Answer: "   "}, wantErr: "answer is required"},
		{name: "long answer", req: checkRequest{QuestionID: "q1", Answer: strings.Repeat("é", 101)}, wantErr: "answer must be at most 100"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.req.validate()
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrValidation))
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.Answer{QuestionID: "q1", Answer: "so"}, got)
		})
	}
}

func TestSubmitRequestValidation(t *testing.T) {
	negative := -1
	_, err := submitRequest{}.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "answers must not be empty")

	_, err = submitRequest{Answers: []checkRequest{{QuestionID: "q1", Answer: "so"}}, TimeTaken: &negative}.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "time_taken must not be negative")

	_, err = submitRequest{Answers: []checkRequest{{QuestionID: "q1", Answer: "so"}, {QuestionID: "q2"}}}.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "answers[1].answer is required")

	got, err := submitRequest{Answers: []checkRequest{{QuestionID: " q1", Answer: "and "}}}.validate()
	require.NoError(t, err)
	assert.Equal(t, []domain.Answer{{QuestionID: "q1", Answer: "and"}}, got)
}
