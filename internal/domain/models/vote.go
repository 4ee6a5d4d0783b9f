package models

import "time"

// Vote ties one user to one option. PollID is denormalized and always equals the option's poll.
type Vote struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"userId"`
	PollID       int64     `db:"poll_id" json:"pollId"`
	PollOptionID int64     `db:"poll_option_id" json:"pollOptionId"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

type Tally struct {
	PollID     int64         `json:"pollId"`
	Question   string        `json:"question"`
	TotalVotes int64         `json:"totalVotes"`
	Options    []OptionTally `json:"options"`
}

type OptionTally struct {
	ID         int64  `db:"id" json:"id"`
	Text       string `db:"text" json:"text"`
	VoteCount  int64  `db:"vote_count" json:"voteCount"`
	Percentage int    `db:"-" json:"percentage"`
}
