package models

import "time"

type Poll struct {
	ID          int64        `db:"id" json:"id"`
	AuthorID    int64        `db:"author_id" json:"authorId"`
	Question    string       `db:"question" json:"question"`
	IsPublished bool         `db:"is_published" json:"isPublished"`
	CreatedAt   time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updatedAt"`
	Options     []PollOption `db:"-" json:"options"`
}

type PollOption struct {
	ID        int64     `db:"id" json:"id"`
	PollID    int64     `db:"poll_id" json:"pollId"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
