package service

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"persona-llm/internal/domain"
)

// PersonaEnricher convierte la inferencia cruda del modelo en el persona
// card listo para mostrar, aplicando heurísticas deterministas sobre el
// historial de posts.
type PersonaEnricher struct {
	// now permite fijar el reloj en tests; nil usa time.Now.
	now func() time.Time
}

func NewPersonaEnricher() *PersonaEnricher {
	return &PersonaEnricher{now: func() time.Time { return time.Now().UTC() }}
}

// Enrich arma el Persona a partir del perfil, los posts y la inferencia.
// Las escalas 0-1 del modelo se reescalan a 0-100 para el card.
func (e *PersonaEnricher) Enrich(user domain.UserProfile, posts []domain.Post, inf domain.PersonalityInference) domain.Persona {
	topSubs := topSubreddits(posts)

	return domain.Persona{
		Name:        capitalize(user.Username),
		Age:         e.estimateAge(user),
		Occupation:  estimateOccupation(topSubs),
		Status:      "Unknown",
		Location:    extractLocation(posts),
		Tier:        determineTier(user.TotalKarma, averageScore(posts)),
		Archetype:   determineArchetype(topSubs),
		Quote:       generateQuote(inf.PersonalityTraits),
		Motivations: generateMotivations(inf.PersonalityTraits),
		Personality: map[string]int{
			"introvert":  toPercent(inf.Personality.Introvert),
			"extrovert":  toPercent(inf.Personality.Extrovert),
			"intuition":  toPercent(inf.Personality.Intuition),
			"sensing":    toPercent(inf.Personality.Sensing),
			"feeling":    toPercent(inf.Personality.Feeling),
			"thinking":   toPercent(inf.Personality.Thinking),
			"perceiving": toPercent(inf.Personality.Perceiving),
			"judging":    toPercent(inf.Personality.Judging),
		},
		PersonalityTraits: inf.PersonalityTraits,
		Behaviors:         defaultCitationTypes(inf.Behaviors),
		Frustrations:      defaultCitationTypes(inf.Frustrations),
		Goals:             defaultCitationTypes(inf.Goals),
	}
}

// defaultCitationTypes marca las citas sin tipo como "post". El modelo no
// distingue post de comentario, así que el payload lo deja explícito en vez
// de dejar que el consumidor lo asuma.
func defaultCitationTypes(list []domain.CitedStatement) []domain.CitedStatement {
	out := make([]domain.CitedStatement, len(list))
	for i, st := range list {
		cits := make([]domain.Citation, len(st.Citations))
		for j, c := range st.Citations {
			if c.Type == "" {
				c.Type = domain.CitationTypePost
			}
			cits[j] = c
		}
		out[i] = domain.CitedStatement{Text: st.Text, Citations: cits}
	}
	return out
}

func toPercent(v float64) int {
	return int(math.Round(v * 100))
}

func capitalize(s string) string {
	if s == "" {
		return "RedditUser"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// topSubreddits devuelve hasta cinco subreddits por frecuencia descendente,
// con desempate alfabético para mantener la salida determinista.
func topSubreddits(posts []domain.Post) []string {
	counts := make(map[string]int)
	for _, p := range posts {
		counts[p.Subreddit]++
	}
	subs := make([]string, 0, len(counts))
	for sub := range counts {
		subs = append(subs, sub)
	}
	sort.Slice(subs, func(i, j int) bool {
		if counts[subs[i]] != counts[subs[j]] {
			return counts[subs[i]] > counts[subs[j]]
		}
		return subs[i] < subs[j]
	})
	if len(subs) > 5 {
		subs = subs[:5]
	}
	return subs
}

func averageScore(posts []domain.Post) float64 {
	if len(posts) == 0 {
		return 0
	}
	sum := 0
	for _, p := range posts {
		sum += p.Score
	}
	return float64(sum) / float64(len(posts))
}

// estimateAge estima edad asumiendo que las cuentas se crean entre los 20 y 30.
func (e *PersonaEnricher) estimateAge(user domain.UserProfile) int {
	now := time.Now().UTC()
	if e != nil && e.now != nil {
		now = e.now()
	}
	accountYears := now.Sub(user.CreatedUTC).Hours() / (24 * 365)
	if accountYears < 0 {
		accountYears = 0
	}
	return 25 + int(accountYears)
}

var (
	businessSubs = []string{"entrepreneur", "business", "investing", "finance", "startup"}
	techSubs     = []string{"programming", "webdev", "javascript", "python", "technology"}
	creativeSubs = []string{"design", "art", "photography", "writing"}
	localSubs    = []string{"lucknow", "delhi", "india"}
)

func estimateOccupation(topSubs []string) string {
	switch {
	case matchesAny(topSubs, businessSubs):
		return "Business Professional"
	case matchesAny(topSubs, techSubs):
		return "Software Developer"
	case matchesAny(topSubs, creativeSubs):
		return "Creative Professional"
	case matchesAny(topSubs, localSubs):
		return "Local Business Owner"
	default:
		return "Professional"
	}
}

func matchesAny(subs, wanted []string) bool {
	for _, s := range subs {
		lower := strings.ToLower(s)
		for _, w := range wanted {
			if lower == w {
				return true
			}
		}
	}
	return false
}

var knownLocations = map[string]string{
	"lucknow": "Lucknow, India",
	"delhi":   "Delhi, India",
	"mumbai":  "Mumbai, India",
}

func extractLocation(posts []domain.Post) string {
	for _, p := range posts {
		if loc, ok := knownLocations[strings.ToLower(p.Subreddit)]; ok {
			return loc
		}
	}
	return "Unknown"
}

func determineTier(karma int, avgScore float64) string {
	switch {
	case karma > 10000 && avgScore > 50:
		return "Power User"
	case karma > 1000 && avgScore > 20:
		return "Active Contributor"
	case karma > 100:
		return "Regular User"
	default:
		return "New User"
	}
}

func determineArchetype(topSubs []string) string {
	top := ""
	if len(topSubs) > 0 {
		top = strings.ToLower(topSubs[0])
	}
	switch {
	case strings.Contains(top, "business") || strings.Contains(top, "entrepreneur"):
		return "The Entrepreneur"
	case strings.Contains(top, "lucknow") || strings.Contains(top, "delhi"):
		return "The Local Explorer"
	case strings.Contains(top, "programming") || strings.Contains(top, "tech"):
		return "The Innovator"
	case strings.Contains(top, "art") || strings.Contains(top, "design"):
		return "The Creator"
	default:
		return "The Observer"
	}
}

func generateQuote(traits []string) string {
	has := func(t string) bool {
		for _, tr := range traits {
			if strings.EqualFold(tr, t) {
				return true
			}
		}
		return false
	}
	switch {
	case has("Analytical") && has("Observant"):
		return "I believe in understanding the 'why' behind everything I encounter."
	case has("Goal-oriented") && has("Practical"):
		return "Every action should have a purpose, every moment should be productive."
	case has("Inquisitive") && has("Adaptable"):
		return "New environments are opportunities to learn and grow."
	default:
		return "I approach life with curiosity and purpose."
	}
}

func generateMotivations(traits []string) domain.Motivations {
	m := domain.Motivations{
		Convenience:  70,
		Wellness:     60,
		Speed:        65,
		Preferences:  75,
		Comfort:      55,
		DietaryNeeds: 45,
	}
	for _, t := range traits {
		switch {
		case strings.EqualFold(t, "Goal-oriented"):
			m.Speed += 15
			m.Convenience += 10
		case strings.EqualFold(t, "Practical"):
			m.Preferences += 10
			m.Convenience += 15
		case strings.EqualFold(t, "Structured"):
			m.Preferences += 15
		}
	}
	m.Convenience = capPercent(m.Convenience)
	m.Speed = capPercent(m.Speed)
	m.Preferences = capPercent(m.Preferences)
	return m
}

func capPercent(v int) int {
	if v > 100 {
		return 100
	}
	return v
}

// ExportText renderiza el persona card como texto plano exportable.
func ExportText(p domain.Persona) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s — %s\n", p.Name, p.Archetype))
	sb.WriteString(fmt.Sprintf("Age: %d | Occupation: %s | Location: %s | Tier: %s\n", p.Age, p.Occupation, p.Location, p.Tier))
	sb.WriteString(fmt.Sprintf("\"%s\"\n\n", p.Quote))

	sb.WriteString("Personality\n")
	for _, axis := range []string{"introvert", "extrovert", "intuition", "sensing", "feeling", "thinking", "perceiving", "judging"} {
		sb.WriteString(fmt.Sprintf("  %-10s %3d/100\n", axis, p.Personality[axis]))
	}

	if len(p.PersonalityTraits) > 0 {
		sb.WriteString("\nTraits: " + strings.Join(p.PersonalityTraits, ", ") + "\n")
	}

	writeSection := func(title string, list []domain.CitedStatement) {
		if len(list) == 0 {
			return
		}
		sb.WriteString("\n" + title + "\n")
		for _, st := range list {
			sb.WriteString("  - " + st.Text + "\n")
			for _, c := range st.Citations {
				sb.WriteString(fmt.Sprintf("      [%s] %s\n", c.Title, c.URL))
			}
		}
	}
	writeSection("Behaviors", p.Behaviors)
	writeSection("Frustrations", p.Frustrations)
	writeSection("Goals", p.Goals)

	return sb.String()
}
