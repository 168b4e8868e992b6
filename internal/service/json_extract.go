package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"persona-llm/internal/domain"
)

var (
	ErrNoJSONBlock       = errors.New("no json block found in model response")
	ErrInvalidJSON       = errors.New("extracted block is not valid json")
	ErrContractViolation = errors.New("model response violates inference schema")
)

// fencedJSONRe captura el primer bloque ```json ... ``` de la respuesta.
var fencedJSONRe = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// ExtractFencedJSON devuelve el contenido del primer bloque cercado con
// etiqueta json. El cerco es el contrato de salida de facto con el modelo.
func ExtractFencedJSON(responseText string) (string, error) {
	m := fencedJSONRe.FindStringSubmatch(responseText)
	if len(m) < 2 {
		return "", ErrNoJSONBlock
	}
	block := strings.TrimSpace(strings.TrimPrefix(m[1], "\ufeff"))
	if block == "" {
		return "", ErrNoJSONBlock
	}
	return block, nil
}

// ExtractInference extrae y valida la inferencia de personalidad de la
// respuesta libre del modelo. Ambas fallas son terminales para el request:
// no hay retry ni reparación de salida malformada.
func ExtractInference(responseText string) (domain.PersonalityInference, error) {
	block, err := ExtractFencedJSON(responseText)
	if err != nil {
		return domain.PersonalityInference{}, err
	}

	var inference domain.PersonalityInference
	if err := json.Unmarshal([]byte(block), &inference); err != nil {
		return domain.PersonalityInference{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	if err := validateInference(inference); err != nil {
		return domain.PersonalityInference{}, err
	}
	return inference, nil
}

// validateInference aplica la validación de esquema sobre la inferencia:
// ejes en [0,1], listas presentes y afirmaciones con texto.
func validateInference(inf domain.PersonalityInference) error {
	axes := map[string]float64{
		"introvert":  inf.Personality.Introvert,
		"extrovert":  inf.Personality.Extrovert,
		"intuition":  inf.Personality.Intuition,
		"sensing":    inf.Personality.Sensing,
		"feeling":    inf.Personality.Feeling,
		"thinking":   inf.Personality.Thinking,
		"perceiving": inf.Personality.Perceiving,
		"judging":    inf.Personality.Judging,
	}
	for name, v := range axes {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: axis %s=%v out of range [0,1]", ErrContractViolation, name, v)
		}
	}

	if inf.PersonalityTraits == nil {
		return fmt.Errorf("%w: personalityTraits missing", ErrContractViolation)
	}

	lists := map[string][]domain.CitedStatement{
		"behaviors":    inf.Behaviors,
		"frustrations": inf.Frustrations,
		"goals":        inf.Goals,
	}
	for name, list := range lists {
		if list == nil {
			return fmt.Errorf("%w: %s missing", ErrContractViolation, name)
		}
		for i, st := range list {
			if strings.TrimSpace(st.Text) == "" {
				return fmt.Errorf("%w: %s[%d] has empty text", ErrContractViolation, name, i)
			}
		}
	}

	return nil
}
