package planner

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrIncompleteBrief matches every ValidationError.
var ErrIncompleteBrief = errors.New("please fill in all fields before generating a plan")

// EventBrief is the structured input the user fills in before a plan is generated.
type EventBrief struct {
	EventType             string
	GuestCount            int
	Budget                float64
	Theme                 string
	Duration              string
	SpecialConsiderations string
}

// Field identifies one input of the brief form.
type Field int

const (
	FieldEventType Field = iota
	FieldGuestCount
	FieldBudget
	FieldTheme
	FieldDuration
	FieldSpecialConsiderations
)

// Fields lists the form inputs in display order.
var Fields = []Field{
	FieldEventType,
	FieldGuestCount,
	FieldBudget,
	FieldTheme,
	FieldDuration,
	FieldSpecialConsiderations,
}

// Label is the human-facing field name.
func (f Field) Label() string {
	switch f {
	case FieldEventType:
		return "Event Type"
	case FieldGuestCount:
		return "Guest Count"
	case FieldBudget:
		return "Budget (USD)"
	case FieldTheme:
		return "Theme/Style"
	case FieldDuration:
		return "Duration"
	case FieldSpecialConsiderations:
		return "Special Considerations"
	default:
		return "Unknown"
	}
}

// Placeholder is an example value shown in empty inputs.
func (f Field) Placeholder() string {
	switch f {
	case FieldEventType:
		return "e.g., Pool Party, Picnic, Conference"
	case FieldGuestCount:
		return "e.g., 20"
	case FieldBudget:
		return "e.g., 500"
	case FieldTheme:
		return "e.g., Cottagecore, Formal, Festival"
	case FieldDuration:
		return "e.g., 4 hours"
	case FieldSpecialConsiderations:
		return "e.g., Outdoors, Dietary needs, Accessibility"
	default:
		return ""
	}
}

// Numeric reports whether the field holds a number.
func (f Field) Numeric() bool {
	return f == FieldGuestCount || f == FieldBudget
}

// Set parses raw user input into field f. Text is trimmed; numbers accept a leading "$"
// and thousands separators.
func (b *EventBrief) Set(f Field, raw string) error {
	raw = strings.TrimSpace(raw)
	switch f {
	case FieldEventType:
		b.EventType = raw
	case FieldTheme:
		b.Theme = raw
	case FieldDuration:
		b.Duration = raw
	case FieldSpecialConsiderations:
		b.SpecialConsiderations = raw
	case FieldGuestCount:
		if raw == "" {
			b.GuestCount = 0
			return nil
		}
		n, err := strconv.Atoi(strings.ReplaceAll(raw, ",", ""))
		if err != nil {
			return fmt.Errorf("%s must be a whole number, got %q", f.Label(), raw)
		}
		b.GuestCount = n
	case FieldBudget:
		if raw == "" {
			b.Budget = 0
			return nil
		}
		clean := strings.ReplaceAll(strings.TrimPrefix(raw, "$"), ",", "")
		v, err := strconv.ParseFloat(strings.TrimSpace(clean), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be a number, got %q", f.Label(), raw)
		}
		b.Budget = v
	default:
		return fmt.Errorf("unknown field %d", f)
	}
	return nil
}

// Value renders field f the way it appears in the prompt.
func (b EventBrief) Value(f Field) string {
	switch f {
	case FieldEventType:
		return b.EventType
	case FieldGuestCount:
		return strconv.Itoa(b.GuestCount)
	case FieldBudget:
		return FormatAmount(b.Budget)
	case FieldTheme:
		return b.Theme
	case FieldDuration:
		return b.Duration
	case FieldSpecialConsiderations:
		return b.SpecialConsiderations
	default:
		return ""
	}
}

// Normalized returns a copy with surrounding whitespace removed from text fields.
func (b EventBrief) Normalized() EventBrief {
	b.EventType = strings.TrimSpace(b.EventType)
	b.Theme = strings.TrimSpace(b.Theme)
	b.Duration = strings.TrimSpace(b.Duration)
	b.SpecialConsiderations = strings.TrimSpace(b.SpecialConsiderations)
	return b
}

// Validate requires every field to be filled: text non-blank, at least one guest and a
// budget above zero.
func (b EventBrief) Validate() error {
	b = b.Normalized()

	var missing []Field
	if b.EventType == "" {
		missing = append(missing, FieldEventType)
	}
	if b.GuestCount < 1 {
		missing = append(missing, FieldGuestCount)
	}
	if !(b.Budget > 0) || math.IsInf(b.Budget, 0) {
		missing = append(missing, FieldBudget)
	}
	if b.Theme == "" {
		missing = append(missing, FieldTheme)
	}
	if b.Duration == "" {
		missing = append(missing, FieldDuration)
	}
	if b.SpecialConsiderations == "" {
		missing = append(missing, FieldSpecialConsiderations)
	}

	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// ValidationError lists the fields that stop a brief from being submitted.
type ValidationError struct {
	Fields []Field
}

func (e *ValidationError) Error() string {
	labels := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		labels[i] = f.Label()
	}
	return fmt.Sprintf("%s (missing or invalid: %s)", ErrIncompleteBrief.Error(), strings.Join(labels, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrIncompleteBrief
}

// FormatAmount prints a budget in its shortest decimal form: 200, 199.5.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
