package service

import (
	"fmt"
	"strings"
	"time"

	"persona-llm/internal/domain"
)

// PersonaPromptBuilder arma la instrucción que se envía al LLM analista.
type PersonaPromptBuilder struct{}

// BuildInstruction es una función pura de sus entradas: dos llamadas con el
// mismo perfil y los mismos posts producen exactamente el mismo texto.
func (PersonaPromptBuilder) BuildInstruction(user domain.UserProfile, posts []domain.Post) string {
	var sb strings.Builder

	sb.WriteString("You are a personality analyst AI.\n\n")
	sb.WriteString("Using the Reddit user metadata and their post history, generate the following in JSON format:\n")
	sb.WriteString(`{
  "personality": {
    "introvert": number,
    "extrovert": number,
    "intuition": number,
    "sensing": number,
    "feeling": number,
    "thinking": number,
    "perceiving": number,
    "judging": number
  },
  "personalityTraits": string[],
  "behaviors": Array<{ "text": string, "citations": Array<{ "url": string, "title": string }> }>,
  "frustrations": Array<{ "text": string, "citations": Array<{ "url": string, "title": string }> }>,
  "goals": Array<{ "text": string, "citations": Array<{ "url": string, "title": string }> }>
}
`)
	sb.WriteString("\nBase your inference on language used, posting topics, tone, and Reddit behavior (karma, subreddit choice, etc.).\n")
	sb.WriteString("Use the Myers-Briggs cognitive function model (I/E, N/S, F/T, P/J) to assign values from 0 to 1 in the personality field.\n")
	sb.WriteString("Be thoughtful, cite relevant posts, and focus on clarity and psychological insight.\n")
	sb.WriteString("Return the JSON inside a fenced code block labeled json.\n\n")

	sb.WriteString("Here is the user's data:\n")
	sb.WriteString("User Metadata:\n")
	sb.WriteString(fmt.Sprintf("- Username: %s\n", user.Username))
	sb.WriteString(fmt.Sprintf("- ID: %s\n", user.ID))
	sb.WriteString(fmt.Sprintf("- Account Created: %s\n", user.CreatedUTC.UTC().Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("- Verified: %t\n", user.IsVerified))
	sb.WriteString(fmt.Sprintf("- Verified Email: %t\n", user.HasVerifiedEmail))
	sb.WriteString(fmt.Sprintf("- Moderator: %t\n", user.IsMod))
	sb.WriteString(fmt.Sprintf("- Employee: %t\n", user.IsEmployee))
	sb.WriteString(fmt.Sprintf("- Comment Karma: %d\n", user.CommentKarma))
	sb.WriteString(fmt.Sprintf("- Link Karma: %d\n", user.LinkKarma))
	sb.WriteString(fmt.Sprintf("- Total Karma: %d\n", user.TotalKarma))
	sb.WriteString(fmt.Sprintf("- Profile URL: %s\n", user.ProfileURL))

	sb.WriteString("\nTheir posts:\n")
	for _, post := range posts {
		content := post.Selftext
		if content == "" {
			content = "[No Text Content]"
		}
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("Title: %s\n", post.Title))
		sb.WriteString(fmt.Sprintf("Subreddit: %s\n", post.Subreddit))
		sb.WriteString(fmt.Sprintf("Posted At: %s\n", post.CreatedUTC.UTC().Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("Score: %d\n", post.Score))
		sb.WriteString(fmt.Sprintf("Upvote Ratio: %.2f\n", post.UpvoteRatio))
		sb.WriteString(fmt.Sprintf("Comments: %d\n", post.NumComments))
		sb.WriteString(fmt.Sprintf("Content: %s\n", content))
		sb.WriteString(fmt.Sprintf("URL: %s\n", post.URL))
	}

	return sb.String()
}
