package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"rewards-workers/internal/common/errors"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidateInput validates input against a JSON schema given as a Go map.
// An unusable schema is reported as a single SCHEMA_INVALID error.
func ValidateInput(input map[string]interface{}, schema map[string]interface{}) *ValidationResult {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(input),
	)
	if err != nil {
		return &ValidationResult{Errors: []ValidationError{{
			Field:   "(root)",
			Message: err.Error(),
			Code:    "SCHEMA_INVALID",
		}}}
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, e := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   e.Field(),
			Message: e.Description(),
			Code:    strings.ToUpper(e.Type()),
		})
	}
	sort.SliceStable(out.Errors, func(i, j int) bool { return out.Errors[i].Field < out.Errors[j].Field })
	return out
}

// DecodeVariables validates raw job variables against schema and decodes
// them into dst. Failures are INVALID_INPUT errors.
func DecodeVariables(raw string, schema map[string]interface{}, dst interface{}) error {
	if strings.TrimSpace(raw) == "" {
		raw = "{}"
	}

	var vars map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &vars); err != nil {
		return errors.NewInvalidInputError(fmt.Sprintf("variables are not a JSON object: %v", err))
	}

	if schema != nil {
		if res := ValidateInput(vars, schema); !res.Valid {
			return errors.NewInvalidInputError(strings.Join(res.GetErrorMessages(), "; ")).
				WithMetadata("validationErrors", res.Errors)
		}
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return errors.NewInvalidInputError(fmt.Sprintf("decode variables: %v", err))
	}
	return nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)
)

// ValidateEmail validates email format
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePhone accepts E.164 numbers, the format SNS requires for SMS.
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(phone)
}
