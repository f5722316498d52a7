// Package response defines the JSON error envelope returned by the API.
// Every failure carries an error message the client surfaces verbatim;
// validation failures additionally carry per-field details and the
// password gate carries a discriminating flag.
package response

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var EmptyRequestBodyResponse = Response{
	Error: "Request body is empty. Please provide necessary data.",
}

var BadRequestResponse = Response{
	Error: "Invalid request body.",
}

var UnauthenticatedResponse = Response{
	Error: "Authentication required.",
}

var ForbiddenResponse = Response{
	Error: "You don't have permission to perform this action.",
}

var ResourceNotFoundResponse = Response{
	Error: "The requested resource was not found.",
}

var ServerErrorResponse = Response{
	Error: "An internal server error occurred. Please try again later.",
}

type Response struct {
	Error               string            `json:"error"`
	IsPasswordProtected bool              `json:"isPasswordProtected,omitempty"`
	Details             []validationError `json:"details,omitempty"`
}

// ErrorResponse wraps a message into the error envelope.
func ErrorResponse(msg string) Response {
	return Response{
		Error: msg,
	}
}

// PasswordGateResponse marks a password-related failure so the client can
// prompt for a password instead of treating the link as dead.
func PasswordGateResponse(msg string) Response {
	return Response{
		Error:               msg,
		IsPasswordProtected: true,
	}
}

// ValidationErrorResponse converts validator errors into the error
// envelope with per-field details.
func ValidationErrorResponse(err error) Response {
	return Response{
		Error:   "Validation failed for the request.",
		Details: getValidationErrors(err),
	}
}

type validationError struct {
	Field string `json:"field"`
	Value any    `json:"value"`
	Issue string `json:"issue"`
}

func getValidationErrors(err error) []validationError {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}

	errs := make([]validationError, 0, len(validationErrs))

	for _, err := range validationErrs {
		e := validationError{
			Field: err.Field(),
			Value: err.Value(),
		}

		switch err.Tag() {
		case "required":
			e.Issue = "This field is required."
		case "url":
			e.Issue = "Invalid url."
		case "alphanum":
			e.Issue = "Only letters and digits are allowed."
		case "min":
			e.Issue = fmt.Sprintf("Must be at least %s characters long.", err.Param())
		case "max":
			e.Issue = fmt.Sprintf("Must be at most %s characters long.", err.Param())
		case "gt":
			e.Issue = fmt.Sprintf("Must be greater than %s.", err.Param())
		case "lte":
			e.Issue = fmt.Sprintf("Must be less than or equal to %s.", err.Param())
		default:
			e.Issue = "Invalid value."
		}

		errs = append(errs, e)
	}

	return errs
}
