package game

import "wordplay-service/internal/domain"

// Project builds the player-safe view of a game. Answer keys and explanations are never copied.
// Publication is checked by the caller before projecting.
func Project(rec domain.GameRecord) domain.PlayView {
	return domain.PlayView{
		ID:             rec.ID,
		Kind:           rec.Kind.Slug(),
		Name:           rec.Name,
		Description:    rec.Description,
		Thumbnail:      rec.Thumbnail,
		TotalQuestions: len(rec.Content.Questions),
		Questions:      ProjectQuestions(rec.Content),
	}
}

// ProjectQuestions strips answer keys from every question, keeping document order.
func ProjectQuestions(doc domain.Document) []domain.PlayQuestion {
	out := make([]domain.PlayQuestion, 0, len(doc.Questions))
	for _, q := range doc.Questions {
		out = append(out, domain.PlayQuestion{
			ID:          q.ID,
			Sentence:    q.Sentence,
			LeftClause:  q.LeftClause,
			RightClause: q.RightClause,
			Options:     append([]string(nil), q.Options...),
		})
	}
	return out
}
