package models

import "time"

// Book is a catalog entry. Books are immutable once created.
type Book struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	NiceCover bool      `json:"niceCover"`
	CreatedAt time.Time `json:"createdAt"`
}
