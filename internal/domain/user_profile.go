package domain

import "time"

// UserProfile es la ficha pública de una cuenta de Reddit, inmutable una vez
// construida; se rearma en cada request, no se persiste como entidad propia.
type UserProfile struct {
	Username         string    `json:"username"`
	ID               string    `json:"id"`
	CreatedUTC       time.Time `json:"created_utc"`
	CommentKarma     int       `json:"comment_karma"`
	LinkKarma        int       `json:"link_karma"`
	TotalKarma       int       `json:"total_karma"`
	IsVerified       bool      `json:"is_verified"`
	IsEmployee       bool      `json:"is_employee"`
	IsMod            bool      `json:"is_mod"`
	HasVerifiedEmail bool      `json:"has_verified_email"`
	Description      string    `json:"description"`
	ProfileURL       string    `json:"profile_url"`
	FetchedAt        time.Time `json:"fetched_at"`
}
