package entity

import "time"

type Note struct {
	Id         int64
	Title      string
	Body       string
	IsFavorite bool
	CreatedAt  time.Time
}
