package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is a single piece of user content. CreatedAt may lie in the past for
// synthetic posts, which are backdated to simulate posting history.
type Post struct {
	ID        uuid.UUID `db:"id" json:"id"`
	AuthorID  uuid.UUID `db:"author_id" json:"authorId"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Poll is an optional attachment to a post.
type Poll struct {
	ID       uuid.UUID    `db:"id" json:"id"`
	PostID   uuid.UUID    `db:"post_id" json:"postId"`
	Question string       `db:"question" json:"question"`
	Options  []PollOption `json:"options"`
}

// PollOption is one selectable answer of a poll.
type PollOption struct {
	ID     uuid.UUID `db:"id" json:"id"`
	PollID uuid.UUID `db:"poll_id" json:"pollId"`
	Text   string    `db:"text" json:"text"`
}

// Hashtag is a normalized (lowercase) tag. Names are unique.
type Hashtag struct {
	ID   uuid.UUID `db:"id" json:"id"`
	Name string    `db:"name" json:"name"`
}
