package model

import "github.com/google/uuid"

// Persona is a structured description of a fictitious individual. It seeds every
// later generation step: the avatar prompt and the post batch.
type Persona struct {
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Username     string   `json:"username"`
	Age          int      `json:"age"`
	Gender       string   `json:"gender"`
	Location     string   `json:"location"`
	Bio          string   `json:"bio"`
	Interests    []string `json:"interests"`
	Personality  string   `json:"personality"`
	PostingStyle string   `json:"postingStyle"`
	Appearance   string   `json:"appearance"`
	Birthday     string   `json:"birthday"` // YYYY-MM-DD
}

// Post type tags produced by the post generator.
const (
	PostTypeRegular = "regular"
	PostTypePoll    = "poll"
)

// GeneratedPost is one post description produced by the post generator. DaysAgo
// backdates the persisted post relative to "now".
type GeneratedPost struct {
	Content      string   `json:"content"`
	Type         string   `json:"type"`
	DaysAgo      int      `json:"daysAgo"`
	PollQuestion string   `json:"pollQuestion,omitempty"`
	PollOptions  []string `json:"pollOptions,omitempty"`
}

// CreatedUser is one successful batch item.
type CreatedUser struct {
	UserID       uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PostsCreated int       `json:"postsCreated"`
}

// BatchError records a whole-item failure by its zero-based request index.
type BatchError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// BatchResult is the outcome of one synthetic-population run. For a completed run
// len(Created)+len(Errors) equals the requested count, and entries appear in
// request order.
type BatchResult struct {
	Created []CreatedUser `json:"created"`
	Errors  []BatchError  `json:"errors"`
}
