package domain

import "time"

// Post es una submission pública de Reddit normalizada. El orden lo define el
// upstream (más recientes primero) y no es estable entre llamadas.
type Post struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Selftext     string    `json:"selftext"`
	URL          string    `json:"url"`
	Subreddit    string    `json:"subreddit"`
	Score        int       `json:"score"`
	UpvoteRatio  float64   `json:"upvote_ratio"`
	NumComments  int       `json:"num_comments"`
	CreatedUTC   time.Time `json:"created_utc"`
	IsSelf       bool      `json:"is_self"`
	IsNSFW       bool      `json:"is_nsfw"`
	Permalink    string    `json:"permalink"`
	ShortLink    string    `json:"short_link"`
	SubredditURL string    `json:"subreddit_url"`
	Author       string    `json:"author"`
	AuthorURL    string    `json:"author_url"`
	FetchedAt    time.Time `json:"fetched_at"`
}
