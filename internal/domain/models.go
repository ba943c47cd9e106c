package domain

import (
	"fmt"
	"time"
)

// Kind identifies a game type. Its slug is the template slug stored with each record.
type Kind int

const (
	KindUnknown Kind = iota
	KindWordIt
	KindCompleteTheSentence
	KindCompoundSentences
)

var kindSlugs = map[Kind]string{
	KindWordIt:              "wordit",
	KindCompleteTheSentence: "complete-the-sentence",
	KindCompoundSentences:   "compound-sentences",
}

// Kinds lists every known game kind.
func Kinds() []Kind {
	return []Kind{KindWordIt, KindCompleteTheSentence, KindCompoundSentences}
}

// Slug returns the template slug for the kind.
func (k Kind) Slug() string {
	return kindSlugs[k]
}

func (k Kind) String() string {
	if s, ok := kindSlugs[k]; ok {
		return s
	}
	return "unknown"
}

// MarshalText renders the kind as its slug.
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindSlugs[k]; !ok {
		return nil, fmt.Errorf("unknown game kind %d", int(k))
	}
	return []byte(k.Slug()), nil
}

// UnmarshalText parses a slug.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, ok := ParseKind(string(text))
	if !ok {
		return fmt.Errorf("unknown game kind %q", text)
	}
	*k = parsed
	return nil
}

// ParseKind resolves a template slug. Unknown slugs yield KindUnknown and false.
func ParseKind(slug string) (Kind, bool) {
	for k, s := range kindSlugs {
		if s == slug {
			return k, true
		}
	}
	return KindUnknown, false
}

// Role is the requester's role as handed over by the identity layer.
type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// Privileged reports whether the role may act on games it does not own.
func (r Role) Privileged() bool {
	return r == RoleSuperAdmin
}

// Identity is the authenticated caller. The zero value is anonymous.
type Identity struct {
	UserID string
	Role   Role
}

// Anonymous reports whether no identity was presented.
func (i Identity) Anonymous() bool {
	return i.UserID == ""
}

// Question is one entry of a game document. Which prompt fields are used depends on the game kind:
// WordIt uses Sentence, the sentence-building kinds use LeftClause and RightClause.
type Question struct {
	ID            string   `json:"id"`
	Sentence      string   `json:"sentence,omitempty"`
	LeftClause    string   `json:"left_clause,omitempty"`
	RightClause   string   `json:"right_clause,omitempty"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
}

// Clone returns a deep copy.
func (q Question) Clone() Question {
	q.Options = append([]string(nil), q.Options...)
	return q
}

// Document is the JSON payload stored in a game's content column.
type Document struct {
	Questions []Question `json:"questions"`
}

// Clone returns a deep copy so callers may mutate the result freely.
func (d Document) Clone() Document {
	out := Document{Questions: make([]Question, len(d.Questions))}
	for i, q := range d.Questions {
		out.Questions[i] = q.Clone()
	}
	return out
}

// QuestionInput is the payload for a new question.
type QuestionInput struct {
	Sentence      string   `json:"sentence"`
	LeftClause    string   `json:"left_clause"`
	RightClause   string   `json:"right_clause"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// QuestionPatch carries a partial update; nil fields are left unchanged.
type QuestionPatch struct {
	Sentence      *string   `json:"sentence"`
	LeftClause    *string   `json:"left_clause"`
	RightClause   *string   `json:"right_clause"`
	Options       *[]string `json:"options"`
	CorrectAnswer *string   `json:"correct_answer"`
	Explanation   *string   `json:"explanation"`
}

// GameRecord is a persisted game of any kind.
type GameRecord struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"template_slug"`
	CreatorID   string    `json:"creator_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Thumbnail   string    `json:"thumbnail_image"`
	IsPublished bool      `json:"is_published"`
	TotalPlayed int       `json:"total_played"`
	Revision    int64     `json:"revision"`
	Content     Document  `json:"game_json"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Clone returns a deep copy of the record.
func (g GameRecord) Clone() GameRecord {
	g.Content = g.Content.Clone()
	return g
}

// GameSummary is the owner listing row.
type GameSummary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Thumbnail     string    `json:"thumbnail_image"`
	IsPublished   bool      `json:"is_published"`
	TotalPlayed   int       `json:"total_played"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateGameInput is the payload for a new game.
type CreateGameInput struct {
	Name        string          `json:"title"`
	Description string          `json:"description"`
	IsPublished bool            `json:"is_published"`
	Questions   []QuestionInput `json:"questions"`
}

// UpdateGameInput is a partial metadata update. A non-nil Questions replaces the whole list.
type UpdateGameInput struct {
	Name        *string          `json:"title"`
	Description *string          `json:"description"`
	IsPublished *bool            `json:"is_published"`
	Questions   *[]QuestionInput `json:"questions"`
}

// PlayQuestion is a question with answer keys removed.
type PlayQuestion struct {
	ID          string   `json:"id"`
	Sentence    string   `json:"sentence,omitempty"`
	LeftClause  string   `json:"left_clause,omitempty"`
	RightClause string   `json:"right_clause,omitempty"`
	Options     []string `json:"options"`
}

// PlayView is the player-safe projection of a game.
type PlayView struct {
	ID             string         `json:"id"`
	Kind           string         `json:"template_slug"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	Thumbnail      string         `json:"thumbnail_image"`
	TotalQuestions int            `json:"total_questions"`
	Questions      []PlayQuestion `json:"questions"`
}

// Answer is a player's answer to one question.
type Answer struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

// CheckResult is the outcome of checking a single answer.
type CheckResult struct {
	QuestionID    string `json:"question_id"`
	IsCorrect     bool   `json:"is_correct"`
	CorrectAnswer string `json:"correct_answer,omitempty"`
	Explanation   string `json:"explanation,omitempty"`
}

// AnswerResult is the per-question part of a submission.
type AnswerResult struct {
	QuestionID    string `json:"question_id"`
	IsCorrect     bool   `json:"is_correct"`
	CorrectAnswer string `json:"correct_answer"`
	UserAnswer    string `json:"user_answer"`
	Explanation   string `json:"explanation,omitempty"`
}

// SubmissionResult summarizes a full submission.
type SubmissionResult struct {
	TotalQuestions int            `json:"total_questions"`
	CorrectAnswers int            `json:"correct_answers"`
	WrongAnswers   int            `json:"wrong_answers"`
	Score          int            `json:"score"`
	TimeTaken      *int           `json:"time_taken,omitempty"`
	Results        []AnswerResult `json:"results"`
}

// LeaderboardEntry is one persisted submission.
type LeaderboardEntry struct {
	ID        string    `json:"id"`
	GameID    string    `json:"game_id"`
	UserID    *string   `json:"user_id"`
	Score     int       `json:"score"`
	TimeTaken *int      `json:"time_taken"`
	CreatedAt time.Time `json:"created_at"`
}

// Leaderboard is the ranked view of a game's submissions.
type Leaderboard struct {
	GameID      string             `json:"game_id"`
	Entries     []LeaderboardEntry `json:"leaderboard"`
	UserResults []LeaderboardEntry `json:"user_results"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
