package domain

// CitationTypePost es el valor por defecto cuando el modelo no distingue
// entre post y comentario.
const CitationTypePost = "post"

// PersonalityAxes son los ocho ejes Myers-Briggs en [0,1]. Cada par (I/E,
// N/S, F/T, P/J) no necesita sumar 1.
type PersonalityAxes struct {
	Introvert  float64 `json:"introvert"`
	Extrovert  float64 `json:"extrovert"`
	Intuition  float64 `json:"intuition"`
	Sensing    float64 `json:"sensing"`
	Feeling    float64 `json:"feeling"`
	Thinking   float64 `json:"thinking"`
	Perceiving float64 `json:"perceiving"`
	Judging    float64 `json:"judging"`
}

// Citation referencia el post que evidencia una afirmación del modelo.
type Citation struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Type  string `json:"type,omitempty"`
}

// CitedStatement es una afirmación con cero o más citas.
type CitedStatement struct {
	Text      string     `json:"text"`
	Citations []Citation `json:"citations"`
}

// PersonalityInference es el bloque JSON que devuelve el modelo. Vive solo
// dentro del payload de respuesta; no tiene ciclo de vida propio.
type PersonalityInference struct {
	Personality       PersonalityAxes  `json:"personality"`
	PersonalityTraits []string         `json:"personalityTraits"`
	Behaviors         []CitedStatement `json:"behaviors"`
	Frustrations      []CitedStatement `json:"frustrations"`
	Goals             []CitedStatement `json:"goals"`
}
