package game

import "wordplay-service/internal/domain"

// CheckKind treats a record of another game kind exactly like a missing one, so callers cannot
// probe for ids belonging to other game types.
func CheckKind(rec domain.GameRecord, kind domain.Kind) error {
	if rec.Kind != kind {
		return domain.ErrGameNotFound
	}
	return nil
}

// CanManage reports whether who may read or modify the record as its owner.
func CanManage(rec domain.GameRecord, kind domain.Kind, who domain.Identity) error {
	if err := CheckKind(rec, kind); err != nil {
		return err
	}
	if who.Anonymous() {
		return domain.ErrAnonymous
	}
	if !who.Role.Privileged() && rec.CreatorID != who.UserID {
		return domain.ErrNotOwner
	}
	return nil
}

// CanPlay reports whether the record is open for play.
func CanPlay(rec domain.GameRecord, kind domain.Kind) error {
	if err := CheckKind(rec, kind); err != nil {
		return err
	}
	if !rec.IsPublished {
		return domain.ErrNotPublished
	}
	return nil
}

// CanPublish enforces that only games with at least one question are published. It is checked on
// the transition only; deleting questions later does not unpublish the game.
func CanPublish(doc domain.Document) error {
	if len(doc.Questions) == 0 {
		return domain.ErrNoQuestions
	}
	return nil
}
