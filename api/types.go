package api

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Registration is the payload for the register endpoint. Password2
// must repeat Password; the service validates the match.
type Registration struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

// Profile is the authenticated user's account record.
type Profile struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// ProfileUpdate is a partial profile edit. Nil fields are left
// untouched by the service.
type ProfileUpdate struct {
	Username  *string `json:"username,omitempty"`
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

// FieldErrors is the service's field-keyed validation error body,
// e.g. {"username": ["A user with that username already exists."]}.
type FieldErrors map[string][]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(fe[field], "; ")))
	}
	return "validation failed - " + strings.Join(parts, ", ")
}

// parseFieldErrors decodes a field-keyed error body, returning nil
// when the body has some other shape.
func parseFieldErrors(body []byte) FieldErrors {
	var fieldErrs FieldErrors
	if err := json.Unmarshal(body, &fieldErrs); err != nil || len(fieldErrs) == 0 {
		return nil
	}
	return fieldErrs
}
