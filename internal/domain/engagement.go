package domain

import (
	"time"

	"github.com/google/uuid"
)

// VoteKind is the direction of a vote on an article.
type VoteKind string

const (
	VoteUp   VoteKind = "up"
	VoteDown VoteKind = "down"
)

func ParseVoteKind(s string) (VoteKind, bool) {
	switch VoteKind(s) {
	case VoteUp:
		return VoteUp, true
	case VoteDown:
		return VoteDown, true
	}
	return "", false
}

// Vote is a single session's vote on an article. At most one vote
// exists per (article, session) pair.
type Vote struct {
	ID        uuid.UUID `json:"id"`
	ArticleID uuid.UUID `json:"article_id"`
	SessionID string    `json:"session_id"`
	Kind      VoteKind  `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// AnonymousAuthor labels comments posted without a name.
const AnonymousAuthor = "Anonymous"

// Comment is append-only.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	ArticleID uuid.UUID `json:"article_id"`
	SessionID string    `json:"-"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
