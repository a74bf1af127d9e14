package domain

import "time"

// BusinessPost is a feed entry published by a business host.
type BusinessPost struct {
	ID           string    `json:"id"`
	BusinessID   string    `json:"business_id"`
	BusinessName string    `json:"business_name,omitempty"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	ImageURL     string    `json:"image_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
