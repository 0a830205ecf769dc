// Package request defines the prediction request schema and its
// sanitization rules, enforced before a request reaches the core.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Input constraints.
const (
	// MaxInputChars caps the input length after trimming.
	MaxInputChars = 1000

	// MaxBlobBytes caps the serialized size of the context and
	// metadata blobs. The core never interprets their contents.
	MaxBlobBytes = 500

	// disallowedChars are rejected outright rather than escaped.
	disallowedChars = `<>&"'`
)

// validate is the shared validator instance, extended with the
// sanitization rules struct tags cannot express.
var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("safe_text", validateSafeText)
}

// validateSafeText rejects strings containing any disallowed character.
func validateSafeText(fl validator.FieldLevel) bool {
	return !strings.ContainsAny(fl.Field().String(), disallowedChars)
}

// Prediction is the request body for a classification. Strategy is
// optional; an empty value selects the configured default. Context and
// Metadata are opaque, size-capped blobs.
type Prediction struct {
	Input    string         `json:"input" validate:"required,min=1,max=1000,safe_text"`
	Strategy string         `json:"strategy,omitempty"`
	Context  map[string]any `json:"context,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Sanitize trims the input and checks every constraint: 1-1000
// characters after trimming, no disallowed characters, blobs within
// the size cap. On success the trimmed input is written back; on
// failure the request is untouched and the error wraps ErrValidation.
func (p *Prediction) Sanitize() error {
	trimmed := strings.TrimSpace(p.Input)
	if trimmed == "" {
		return fmt.Errorf("%w: input must not be empty or whitespace", ErrValidation)
	}

	candidate := *p
	candidate.Input = trimmed
	if err := validate.Struct(candidate); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, describe(err))
	}
	if err := checkBlobSize("context", candidate.Context); err != nil {
		return err
	}
	if err := checkBlobSize("metadata", candidate.Metadata); err != nil {
		return err
	}

	p.Input = trimmed
	return nil
}

// checkBlobSize enforces the serialized-size cap on an opaque blob.
func checkBlobSize(field string, blob map[string]any) error {
	if blob == nil {
		return nil
	}
	raw, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("%w: %s is not serializable", ErrValidation, field)
	}
	if len(raw) > MaxBlobBytes {
		return fmt.Errorf("%w: %s exceeds %d bytes", ErrValidation, field, MaxBlobBytes)
	}
	return nil
}

// describe flattens validator errors into a single human-readable
// message so the boundary layer can surface it directly.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required", "min":
			parts = append(parts, "input must not be empty")
		case "max":
			parts = append(parts, fmt.Sprintf("input exceeds %d characters", MaxInputChars))
		case "safe_text":
			parts = append(parts, "input contains disallowed characters")
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
