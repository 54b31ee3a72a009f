package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError carries the per-field issues back to the error handler,
// which renders them as a 400.
type ValidationError struct {
	Issues []FieldIssue
}

type FieldIssue struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	issues := make([]FieldIssue, len(verrs))
	for i, fe := range verrs {
		issues[i] = FieldIssue{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: fmt.Sprintf("field '%s' failed on rule '%s'", fe.Field(), fe.Tag()),
		}
	}
	return &ValidationError{Issues: issues}
}
