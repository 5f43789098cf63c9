// Package transport defines the wire-level types for the leads bounded context.
package transport

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"realty_site_backend/platform/validator"

	playground "github.com/go-playground/validator/v10"
)

// SubmitLeadRequest is the request body for the public enquiry endpoint.
// Tag order matters: validation stops at the first failing rule per field,
// which keeps the reported message specific.
type SubmitLeadRequest struct {
	Name                 string  `json:"name" validate:"required,lead_name_length,lead_no_html,lead_no_sql,lead_name_charset"`
	Email                string  `json:"email" validate:"required,lead_no_html,lead_email"`
	Phone                string  `json:"phone" validate:"required,lead_no_html,lead_phone_digits,lead_phone_charset"`
	PreferredContactTime string  `json:"preferred_contact_time" validate:"lead_contact_time"`
	Interest             string  `json:"interest" validate:"lead_interest"`
	HeardFrom            *string `json:"heard_from" validate:"omitempty,lead_heard_from"`
	Message              *string `json:"message" validate:"omitempty,lead_message_length,lead_no_scripts"`
	TurnstileToken       string  `json:"turnstileToken" validate:"required,lead_token_notblank"`
}

// ValidationError is a single field-level validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Allowed enum values for the select-style fields.
var (
	ValidInterests    = []string{"ongoing_project", "completed_project", "investment", "general"}
	ValidContactTimes = []string{"morning", "afternoon", "evening", "anytime"}
	ValidHeardFrom    = []string{
		"google_search", "social_media", "friend_family", "newspaper_magazine",
		"hoarding_banner", "site_visit", "existing_customer", "other",
	}
)

var (
	emailRegex        = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
	htmlTagRegex      = regexp.MustCompile(`<[^>]*>`)
	sqlKeywordRegex   = regexp.MustCompile(`(?i)(drop|delete|insert|update|select|union|exec|script)\s+(table|database|from)`)
	nameCharsetRegex  = regexp.MustCompile(`^[a-zA-Z\s.',-]+$`)
	phoneCleanRegex   = regexp.MustCompile(`[\s\-().+]`)
	phoneDigitsRegex  = regexp.MustCompile(`^[0-9]{7,15}$`)
	phoneCharsetRegex = regexp.MustCompile(`^[0-9+\s\-().]+$`)
	scriptRegex       = regexp.MustCompile(`(?i)<script|javascript:|onerror=|onload=`)
)

const maxMessageLength = 1000

// RegisterLeadValidations registers the custom validation rules used by
// SubmitLeadRequest. Must be called once before validating requests.
func RegisterLeadValidations(val *validator.Validator) error {
	rules := map[string]playground.Func{
		"lead_name_length": func(fl playground.FieldLevel) bool {
			trimmed := strings.TrimSpace(fl.Field().String())
			n := utf8.RuneCountInString(trimmed)
			return n >= 2 && n <= 100
		},
		"lead_no_html": func(fl playground.FieldLevel) bool {
			return !htmlTagRegex.MatchString(strings.TrimSpace(fl.Field().String()))
		},
		"lead_no_sql": func(fl playground.FieldLevel) bool {
			return !sqlKeywordRegex.MatchString(strings.TrimSpace(fl.Field().String()))
		},
		"lead_name_charset": func(fl playground.FieldLevel) bool {
			return nameCharsetRegex.MatchString(strings.TrimSpace(fl.Field().String()))
		},
		"lead_email": func(fl playground.FieldLevel) bool {
			return emailRegex.MatchString(strings.TrimSpace(fl.Field().String()))
		},
		"lead_phone_digits": func(fl playground.FieldLevel) bool {
			cleaned := phoneCleanRegex.ReplaceAllString(strings.TrimSpace(fl.Field().String()), "")
			return phoneDigitsRegex.MatchString(cleaned)
		},
		"lead_phone_charset": func(fl playground.FieldLevel) bool {
			return phoneCharsetRegex.MatchString(strings.TrimSpace(fl.Field().String()))
		},
		"lead_contact_time": func(fl playground.FieldLevel) bool {
			return contains(ValidContactTimes, fl.Field().String())
		},
		"lead_interest": func(fl playground.FieldLevel) bool {
			return contains(ValidInterests, fl.Field().String())
		},
		"lead_heard_from": func(fl playground.FieldLevel) bool {
			// Empty string means the field was left unselected; only a
			// present value must match the enum.
			v := fl.Field().String()
			return v == "" || contains(ValidHeardFrom, v)
		},
		"lead_message_length": func(fl playground.FieldLevel) bool {
			return utf8.RuneCountInString(fl.Field().String()) <= maxMessageLength
		},
		"lead_no_scripts": func(fl playground.FieldLevel) bool {
			return !scriptRegex.MatchString(fl.Field().String())
		},
		"lead_token_notblank": func(fl playground.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		},
	}

	for tag, fn := range rules {
		if err := val.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// fieldJSONNames maps struct field names to the JSON names reported to clients.
var fieldJSONNames = map[string]string{
	"Name":                 "name",
	"Email":                "email",
	"Phone":                "phone",
	"PreferredContactTime": "preferred_contact_time",
	"Interest":             "interest",
	"HeardFrom":            "heard_from",
	"Message":              "message",
	"TurnstileToken":       "turnstileToken",
}

// fieldMessages maps (struct field, failed rule) to the client-facing message.
var fieldMessages = map[string]map[string]string{
	"Name": {
		"required":          "Name is required.",
		"lead_name_length":  "Name must be between 2 and 100 characters.",
		"lead_no_html":      "Name cannot contain HTML tags.",
		"lead_no_sql":       "Name contains invalid characters.",
		"lead_name_charset": "Name can only contain letters, spaces, and basic punctuation.",
	},
	"Email": {
		"required":     "Email is required.",
		"lead_no_html": "Email cannot contain HTML tags.",
		"lead_email":   "Please provide a valid email address.",
	},
	"Phone": {
		"required":           "Phone number is required.",
		"lead_no_html":       "Phone number cannot contain HTML tags.",
		"lead_phone_digits":  "Please provide a valid phone number (7-15 digits).",
		"lead_phone_charset": "Phone number contains invalid characters.",
	},
	"PreferredContactTime": {
		"lead_contact_time": "Please select a valid contact time.",
	},
	"Interest": {
		"lead_interest": "Please select a valid area of interest.",
	},
	"HeardFrom": {
		"lead_heard_from": "Invalid source value.",
	},
	"Message": {
		"lead_message_length": "Message must not exceed 1000 characters.",
		"lead_no_scripts":     "Message contains prohibited content.",
	},
	"TurnstileToken": {
		"required":            "Security verification is required.",
		"lead_token_notblank": "Security verification token is invalid.",
	},
}

// MapFieldErrors converts validator failures into the client-facing details
// list. Field order follows struct declaration order.
func MapFieldErrors(err error) []ValidationError {
	var verrs playground.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ValidationError{{Field: "payload", Message: "Validation failed."}}
	}

	details := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		field := fieldJSONNames[fe.StructField()]
		if field == "" {
			field = fe.StructField()
		}
		message := fieldMessages[fe.StructField()][fe.Tag()]
		if message == "" {
			message = "Invalid value."
		}
		details = append(details, ValidationError{Field: field, Message: message})
	}
	return details
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
