package domain

// Motivations son los puntajes 0-100 que alimentan las barras del persona card.
type Motivations struct {
	Convenience  int `json:"convenience"`
	Wellness     int `json:"wellness"`
	Speed        int `json:"speed"`
	Preferences  int `json:"preferences"`
	Comfort      int `json:"comfort"`
	DietaryNeeds int `json:"dietaryNeeds"`
}

// Persona es el perfil enriquecido listo para mostrar: heurísticas de
// edad/ocupación/ubicación más la inferencia del modelo reescalada a 0-100.
type Persona struct {
	Name              string           `json:"name"`
	Age               int              `json:"age"`
	Occupation        string           `json:"occupation"`
	Status            string           `json:"status"`
	Location          string           `json:"location"`
	Tier              string           `json:"tier"`
	Archetype         string           `json:"archetype"`
	Quote             string           `json:"quote"`
	Motivations       Motivations      `json:"motivations"`
	Personality       map[string]int   `json:"personality"`
	PersonalityTraits []string         `json:"personalityTraits"`
	Behaviors         []CitedStatement `json:"behaviors"`
	Frustrations      []CitedStatement `json:"frustrations"`
	Goals             []CitedStatement `json:"goals"`
}
