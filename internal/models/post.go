package models

import "time"

// PostDB represents a post record in the database
type PostDB struct {
	ID          int64     `json:"id" db:"id"`                     // Primary key
	TextContent *string   `json:"text_content" db:"text_content"` // Optional text body
	ImageURL    *string   `json:"image_url" db:"image_url"`       // Optional image reference
	CreatedAt   time.Time `json:"created_at" db:"created_at"`     // Creation timestamp
	AuthorID    int64     `json:"author_id" db:"author_id"`       // Owning user
}

// Post is a post row joined with its author's username, the shape
// returned by the API and pushed on the broadcast channel.
type Post struct {
	ID          int64     `json:"id" db:"id"`
	TextContent *string   `json:"text_content" db:"text_content"`
	ImageURL    *string   `json:"image_url" db:"image_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	Author      string    `json:"author" db:"author"`
}
