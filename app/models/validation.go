package models

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// DefaultDenyWords is the denylist used when none is configured.
var DefaultDenyWords = []string{"바보"}

// errorMessages maps validation tags to field-level messages.
var errorMessages = map[string]string{
	"notblank": "Please enter a %s.",
	"max":      "The %s must be no longer than %s characters.",
	"denylist": "The %s contains a forbidden word.",
}

// ValidationError reports rejected request fields, keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ValidatorOptions configures a Validator.
type ValidatorOptions struct {
	DenyWords       []string
	ContentRequired bool
}

// Validator applies the write-side rules to post requests.
type Validator struct {
	validate        *validator.Validate
	denyWords       []string
	contentRequired bool
}

// NewValidator creates a Validator. A nil DenyWords falls back to DefaultDenyWords.
func NewValidator(opts ValidatorOptions) (*Validator, error) {
	words := opts.DenyWords
	if words == nil {
		words = DefaultDenyWords
	}

	v := &Validator{
		validate:        validator.New(validator.WithRequiredStructEnabled()),
		contentRequired: opts.ContentRequired,
	}
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			v.denyWords = append(v.denyWords, strings.ToLower(w))
		}
	}

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	if err := v.validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return nil, fmt.Errorf("register notblank: %w", err)
	}
	if err := v.validate.RegisterValidation("denylist", v.allowed); err != nil {
		return nil, fmt.Errorf("register denylist: %w", err)
	}
	return v, nil
}

// ContainsDenyWord reports whether s contains any denylisted word, ignoring case.
func (v *Validator) ContainsDenyWord(s string) bool {
	lower := strings.ToLower(s)
	for _, w := range v.denyWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func (v *Validator) allowed(fl validator.FieldLevel) bool {
	return !v.ContainsDenyWord(fl.Field().String())
}

// ValidateCreate checks a write request.
func (v *Validator) ValidateCreate(req PostCreate) error {
	return v.check(&req, req.Content)
}

// ValidateEdit checks an edit request.
func (v *Validator) ValidateEdit(req PostEdit) error {
	return v.check(&req, req.Content)
}

func (v *Validator) check(req any, content string) error {
	fields := make(map[string]string)

	if err := v.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, e := range verrs {
			fields[e.Field()] = message(e.Field(), e.Tag(), e.Param())
		}
	}
	if v.contentRequired && strings.TrimSpace(content) == "" {
		fields["content"] = message("content", "notblank", "")
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func message(field, tag, param string) string {
	msg, ok := errorMessages[tag]
	if !ok {
		return fmt.Sprintf("The %s is invalid: %s.", field, tag)
	}
	if strings.Count(msg, "%s") == 2 {
		return fmt.Sprintf(msg, field, param)
	}
	return fmt.Sprintf(msg, field)
}
