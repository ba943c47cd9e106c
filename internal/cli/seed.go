package cli

import (
	"context"

	"wordplay-service/internal/app"
	"wordplay-service/internal/domain"
)

var sampleOwner = domain.Identity{UserID: "demo-teacher", Role: domain.RoleUser}

// seedSampleGames loads one published game per kind into a fresh in-memory store for demo runs.
func seedSampleGames(ctx context.Context, service *app.GameService) error {
	games := []struct {
		kind domain.Kind
		in   domain.CreateGameInput
	}{
		{
			kind: domain.KindWordIt,
			in: domain.CreateGameInput{
				Name:        "Everyday Words",
				Description: "Pick the word that fits the sentence.",
				IsPublished: true,
				Questions: []domain.QuestionInput{
					{Sentence: "I drink a glass of ___ every morning.", Options: []string{"water", "stone", "chair"}, CorrectAnswer: "water", Explanation: "Water is something you drink."},
					{Sentence: "The sun rises in the ___.", Options: []string{"east", "west", "north"}, CorrectAnswer: "east"},
				},
			},
		},
		{
			kind: domain.KindCompleteTheSentence,
			in: domain.CreateGameInput{
				Name:        "Finish the Thought",
				Description: "Choose the conjunction that completes each sentence.",
				IsPublished: true,
				Questions: []domain.QuestionInput{
					{LeftClause: "I wanted to go outside", RightClause: "it was raining", Options: []string{"but", "so", "and"}, CorrectAnswer: "but", Explanation: "'But' shows contrast."},
					{LeftClause: "She studied hard", RightClause: "she passed the exam", Options: []string{"so", "or", "yet"}, CorrectAnswer: "so", Explanation: "'So' shows a result."},
				},
			},
		},
		{
			kind: domain.KindCompoundSentences,
			in: domain.CreateGameInput{
				Name:        "Compound Sentence Builder",
				Description: "Join two independent clauses with a coordinating conjunction.",
				IsPublished: true,
				Questions: []domain.QuestionInput{
					{LeftClause: "The bus was late", RightClause: "we walked to school", Options: []string{"so", "nor", "for"}, CorrectAnswer: "so", Explanation: "The second clause is a result of the first."},
					{LeftClause: "You can have tea", RightClause: "you can have coffee", Options: []string{"or", "but", "so"}, CorrectAnswer: "or", Explanation: "'Or' offers a choice."},
					{LeftClause: "He is tired", RightClause: "he keeps running", Options: []string{"yet", "so", "or"}, CorrectAnswer: "yet", Explanation: "'Yet' introduces an unexpected contrast."},
				},
			},
		},
	}

	for _, g := range games {
		if _, err := service.CreateGame(ctx, g.kind, sampleOwner, g.in); err != nil {
			return err
		}
	}
	return nil
}
