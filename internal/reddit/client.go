package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"persona-llm/internal/domain"
)

const (
	defaultAuthURL    = "https://www.reddit.com/api/v1/access_token"
	defaultAPIBaseURL = "https://oauth.reddit.com"
	siteBaseURL       = "https://reddit.com"

	// DefaultPostLimit aplica cuando el caller no pide un límite explícito.
	DefaultPostLimit = 5
)

var (
	ErrNotAuthenticated = errors.New("reddit client not authenticated")
	ErrUpstreamAuth     = errors.New("reddit auth failed")
	ErrUserNotFound     = errors.New("reddit user not found")
	ErrUpstream         = errors.New("reddit upstream error")
)

// Gateway define las operaciones contra la API pública de Reddit.
type Gateway interface {
	Authenticate(ctx context.Context) error
	GetUserInfo(ctx context.Context, username string) (domain.UserProfile, error)
	GetUserPosts(ctx context.Context, username string, limit int) ([]domain.Post, error)
}

// Client habla con la API de Reddit autenticándose por client-credentials.
// Cada operación devuelve un error explícito y el orquestador decide
// cómo degradar.
type Client struct {
	clientID     string
	clientSecret string
	userAgent    string
	http         *resty.Client
	logger       *zap.Logger

	authURL    string
	apiBaseURL string

	accessToken string
}

// NewClient construye un cliente de Reddit con el User-Agent que exige la
// política del upstream.
func NewClient(clientID, clientSecret, userAgent string, logger *zap.Logger) *Client {
	if userAgent == "" {
		userAgent = "persona-llm/1.0"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	rc := resty.New()
	rc.SetTimeout(30 * time.Second)
	rc.SetHeader("User-Agent", userAgent)

	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		userAgent:    userAgent,
		http:         rc,
		logger:       logger,
		authURL:      defaultAuthURL,
		apiBaseURL:   defaultAPIBaseURL,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error,omitempty"`
}

// Authenticate intercambia client id/secret por un bearer token
// (grant client_credentials, basic auth, body form-encoded).
func (c *Client) Authenticate(ctx context.Context) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(c.clientID, c.clientSecret).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetBody("grant_type=client_credentials").
		Post(c.authURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamAuth, err)
	}
	if resp.StatusCode() != http.StatusOK {
		c.logger.Warn("reddit auth failed",
			zap.Int("status", resp.StatusCode()),
			zap.ByteString("body", resp.Body()),
		)
		return fmt.Errorf("%w: status=%d", ErrUpstreamAuth, resp.StatusCode())
	}

	var token tokenResponse
	if err := json.Unmarshal(resp.Body(), &token); err != nil {
		return fmt.Errorf("%w: parse token: %v", ErrUpstreamAuth, err)
	}
	if token.AccessToken == "" {
		return fmt.Errorf("%w: empty access token (%s)", ErrUpstreamAuth, token.Error)
	}

	c.accessToken = token.AccessToken
	return nil
}

// aboutResponse es la envoltura de /user/{name}/about.
type aboutResponse struct {
	Kind string `json:"kind"`
	Data struct {
		Name             string  `json:"name"`
		ID               string  `json:"id"`
		CreatedUTC       float64 `json:"created_utc"`
		CommentKarma     int     `json:"comment_karma"`
		LinkKarma        int     `json:"link_karma"`
		Verified         bool    `json:"verified"`
		IsEmployee       bool    `json:"is_employee"`
		IsMod            bool    `json:"is_mod"`
		HasVerifiedEmail bool    `json:"has_verified_email"`
		Subreddit        *struct {
			PublicDescription string `json:"public_description"`
		} `json:"subreddit"`
	} `json:"data"`
}

// GetUserInfo trae /user/{username}/about y lo normaliza a UserProfile,
// convirtiendo epoch seconds a tiempo UTC y sumando total_karma.
func (c *Client) GetUserInfo(ctx context.Context, username string) (domain.UserProfile, error) {
	if c.accessToken == "" {
		return domain.UserProfile{}, ErrNotAuthenticated
	}

	resp, err := c.get(ctx, fmt.Sprintf("%s/user/%s/about", c.apiBaseURL, username))
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return domain.UserProfile{}, ErrUserNotFound
	}
	if resp.StatusCode() != http.StatusOK {
		return domain.UserProfile{}, fmt.Errorf("%w: status=%d", ErrUpstream, resp.StatusCode())
	}

	var about aboutResponse
	if err := json.Unmarshal(resp.Body(), &about); err != nil {
		return domain.UserProfile{}, fmt.Errorf("%w: parse about: %v", ErrUpstream, err)
	}
	u := about.Data
	if u.Name == "" {
		return domain.UserProfile{}, ErrUserNotFound
	}

	description := ""
	if u.Subreddit != nil {
		description = u.Subreddit.PublicDescription
	}

	return domain.UserProfile{
		Username:         u.Name,
		ID:               u.ID,
		CreatedUTC:       time.Unix(int64(u.CreatedUTC), 0).UTC(),
		CommentKarma:     u.CommentKarma,
		LinkKarma:        u.LinkKarma,
		TotalKarma:       u.CommentKarma + u.LinkKarma,
		IsVerified:       u.Verified,
		IsEmployee:       u.IsEmployee,
		IsMod:            u.IsMod,
		HasVerifiedEmail: u.HasVerifiedEmail,
		Description:      description,
		ProfileURL:       fmt.Sprintf("%s/u/%s", siteBaseURL, u.Name),
		FetchedAt:        time.Now().UTC(),
	}, nil
}

// listingResponse es la envoltura estándar de listados de Reddit.
type listingResponse struct {
	Kind string `json:"kind"`
	Data struct {
		After    string         `json:"after"`
		Children []listingChild `json:"children"`
	} `json:"data"`
}

type listingChild struct {
	Kind string          `json:"kind"`
	Data listingPostData `json:"data"`
}

type listingPostData struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	URL         string  `json:"url"`
	Permalink   string  `json:"permalink"`
	Subreddit   string  `json:"subreddit"`
	Author      string  `json:"author"`
	Score       int     `json:"score"`
	UpvoteRatio float64 `json:"upvote_ratio"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	IsSelf      bool    `json:"is_self"`
	Over18      bool    `json:"over_18"`
}

// GetUserPosts trae hasta limit submissions recientes de /user/{u}/submitted.
// Devuelve siempre un slice utilizable; nunca nil en caso de éxito.
func (c *Client) GetUserPosts(ctx context.Context, username string, limit int) ([]domain.Post, error) {
	if c.accessToken == "" {
		return nil, ErrNotAuthenticated
	}
	if limit <= 0 {
		limit = DefaultPostLimit
	}

	url := fmt.Sprintf("%s/user/%s/submitted?limit=%d", c.apiBaseURL, username, limit)
	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, ErrUserNotFound
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: status=%d", ErrUpstream, resp.StatusCode())
	}

	var listing listingResponse
	if err := json.Unmarshal(resp.Body(), &listing); err != nil {
		return nil, fmt.Errorf("%w: parse listing: %v", ErrUpstream, err)
	}

	fetchedAt := time.Now().UTC()
	posts := make([]domain.Post, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		// t3 es el kind de submissions; el listado puede traer otros.
		if child.Kind != "t3" {
			continue
		}
		if len(posts) >= limit {
			break
		}
		p := child.Data
		posts = append(posts, domain.Post{
			ID:           p.ID,
			Title:        p.Title,
			Selftext:     p.Selftext,
			URL:          p.URL,
			Subreddit:    p.Subreddit,
			Score:        p.Score,
			UpvoteRatio:  p.UpvoteRatio,
			NumComments:  p.NumComments,
			CreatedUTC:   time.Unix(int64(p.CreatedUTC), 0).UTC(),
			IsSelf:       p.IsSelf,
			IsNSFW:       p.Over18,
			Permalink:    siteBaseURL + p.Permalink,
			ShortLink:    "https://redd.it/" + p.ID,
			SubredditURL: fmt.Sprintf("%s/r/%s", siteBaseURL, p.Subreddit),
			Author:       p.Author,
			AuthorURL:    fmt.Sprintf("%s/u/%s", siteBaseURL, p.Author),
			FetchedAt:    fetchedAt,
		})
	}
	return posts, nil
}

func (c *Client) get(ctx context.Context, url string) (*resty.Response, error) {
	return c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.accessToken).
		Get(url)
}
