package models

import "time"

type User struct {
	ID        int64     `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	PassHash  []byte    `db:"pass_hash" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Principal is the authenticated identity attached to a request or a live connection.
type Principal struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
}
