package serverutils

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation on a request DTO. The returned
// error is a ValidationError carrying one message per failed field.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var messages []string
		if errs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range errs {
				messages = append(messages, fmt.Sprintf("field '%s' failed on '%s' rule", fe.Field(), fe.Tag()))
			}
		} else {
			messages = append(messages, err.Error())
		}
		return &ValidationError{Messages: messages}
	}
	return nil
}

type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	if len(e.Messages) > 0 {
		return e.Messages[0]
	}
	return "validation failed"
}
