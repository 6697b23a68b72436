// Package inputval collects field-level validation failures for portal
// form submissions before anything is sent upstream.
package inputval

import (
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"unicode/utf8"
)

// ValidationError lists the offending fields and a message for each.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n + ": " + e.Fields[n]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidation unwraps a *ValidationError from err.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Checker accumulates failures. The first failure per field wins.
type Checker struct {
	fields map[string]string
}

func (c *Checker) fail(field, msg string) {
	if c.fields == nil {
		c.fields = make(map[string]string)
	}
	if _, ok := c.fields[field]; !ok {
		c.fields[field] = msg
	}
}

// Check records msg for field when ok is false.
func (c *Checker) Check(ok bool, field, msg string) {
	if !ok {
		c.fail(field, msg)
	}
}

// Required fails blank values.
func (c *Checker) Required(field, value, label string) {
	if strings.TrimSpace(value) == "" {
		c.fail(field, label+" is required")
	}
}

// Length requires value to be between min and max characters, counted in
// runes after trimming surrounding whitespace.
func (c *Checker) Length(field, value, label string, min, max int) {
	n := utf8.RuneCountInString(strings.TrimSpace(value))
	switch {
	case n == 0:
		c.fail(field, label+" is required")
	case n < min:
		c.fail(field, fmt.Sprintf("%s must be at least %d characters", label, min))
	case n > max:
		c.fail(field, fmt.Sprintf("%s must be at most %d characters", label, max))
	}
}

// OneOf requires value to be in allowed.
func (c *Checker) OneOf(field, value, label string, allowed []string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	c.fail(field, "Please select a valid "+strings.ToLower(label))
}

// Email requires a single bare address such as "a@b.co".
func (c *Checker) Email(field, value, label string) {
	value = strings.TrimSpace(value)
	if value == "" {
		c.fail(field, label+" is required")
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value || !strings.Contains(value[strings.LastIndex(value, "@")+1:], ".") {
		c.fail(field, "Enter a valid "+strings.ToLower(label))
	}
}

// Err returns nil when nothing failed.
func (c *Checker) Err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: c.fields}
}
