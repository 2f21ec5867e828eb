package models

import "time"

// Bulletin is one outbound report message addressed to a single destination
// channel. BodyEncoding is the legacy text-encoding marker for readers that
// render the body outside UTF-8.
type Bulletin struct {
	ID           int64     `json:"id"`
	Channel      string    `json:"channel"`
	FromName     string    `json:"from_name"`
	ToName       string    `json:"to_name"`
	Subject      string    `json:"subject"`
	Body         string    `json:"body"`
	BodyEncoding string    `json:"body_encoding"`
	CreatedAt    time.Time `json:"created_at"`
}
