package service

import (
	"strings"
	"testing"
	"time"

	"persona-llm/internal/domain"
)

func sampleProfile() domain.UserProfile {
	return domain.UserProfile{
		Username:     "kojied",
		ID:           "t2_abc123",
		CreatedUTC:   time.Date(2020, 1, 15, 10, 0, 0, 0, time.UTC),
		CommentKarma: 300,
		LinkKarma:    200,
		TotalKarma:   500,
		IsVerified:   true,
		ProfileURL:   "https://www.reddit.com/user/kojied",
	}
}

func samplePosts() []domain.Post {
	return []domain.Post{
		{
			ID:          "abc1",
			Title:       "My thoughts on city planning",
			Selftext:    "Long form content here.",
			Subreddit:   "urbanism",
			Score:       42,
			UpvoteRatio: 0.91,
			NumComments: 7,
			CreatedUTC:  time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
			URL:         "https://www.reddit.com/r/urbanism/comments/abc1/",
		},
		{
			ID:         "abc2",
			Title:      "Link post without body",
			Subreddit:  "golang",
			Score:      10,
			CreatedUTC: time.Date(2025, 5, 2, 12, 0, 0, 0, time.UTC),
			URL:        "https://example.org/article",
		},
	}
}

func TestBuildInstructionDeterministic(t *testing.T) {
	var b PersonaPromptBuilder
	first := b.BuildInstruction(sampleProfile(), samplePosts())
	second := b.BuildInstruction(sampleProfile(), samplePosts())
	if first != second {
		t.Fatalf("expected identical instructions for identical inputs")
	}
}

func TestBuildInstructionContainsMetadataAndPosts(t *testing.T) {
	var b PersonaPromptBuilder
	got := b.BuildInstruction(sampleProfile(), samplePosts())

	for _, want := range []string{
		"- Username: kojied",
		"- Total Karma: 500",
		"- Account Created: 2020-01-15T10:00:00Z",
		"Title: My thoughts on city planning",
		"Subreddit: golang",
		"Upvote Ratio: 0.91",
		"personalityTraits",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("instruction missing %q", want)
		}
	}
	if n := strings.Count(got, "---\n"); n != 2 {
		t.Fatalf("expected 2 post sections, got %d", n)
	}
}

func TestBuildInstructionEmptySelftextPlaceholder(t *testing.T) {
	var b PersonaPromptBuilder
	got := b.BuildInstruction(sampleProfile(), samplePosts())
	if !strings.Contains(got, "Content: [No Text Content]") {
		t.Fatalf("expected placeholder for empty selftext")
	}
}

func TestBuildInstructionNoPosts(t *testing.T) {
	var b PersonaPromptBuilder
	got := b.BuildInstruction(sampleProfile(), nil)
	if strings.Contains(got, "---\n") {
		t.Fatalf("expected no post sections for empty history")
	}
	if !strings.Contains(got, "Their posts:") {
		t.Fatalf("expected posts header even when history is empty")
	}
}
