package core

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// EntryInput is the submitted form of a journal entry, before validation.
type EntryInput struct {
	EntryDate string `json:"entry_date" validate:"required,entrydate"`
	ClassName string `json:"class_name" validate:"required,max=255"`
	Subject   string `json:"subject" validate:"required,max=255"`
	StartTime string `json:"start_time" validate:"required,clock"`
	EndTime   string `json:"end_time" validate:"required,clock"`
}

// entryMessages maps field.tag to the message shown next to the input.
var entryMessages = map[string]string{
	"entry_date.required": "Please select a date for your teaching session.",
	"entry_date.entrydate": "Please enter a valid date.",
	"class_name.required": "Class name is required.",
	"class_name.max":      "Class name cannot exceed 255 characters.",
	"subject.required":    "Subject is required.",
	"subject.max":         "Subject cannot exceed 255 characters.",
	"start_time.required": "Start time is required.",
	"start_time.clock":    "Start time must be in HH:MM format.",
	"end_time.required":   "End time is required.",
	"end_time.clock":      "End time must be in HH:MM format.",
	"end_time.after":      "End time must be after start time.",
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func entryValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
			_, ok := ParseClock(fl.Field().String())
			return ok
		})
		_ = v.RegisterValidation("entrydate", func(fl validator.FieldLevel) bool {
			_, err := ParseDate(fl.Field().String())
			return err == nil
		})
		v.RegisterStructValidation(validateEntryOrdering, EntryInput{})
		validate = v
	})
	return validate
}

// validateEntryOrdering enforces end_time strictly after start_time. It only
// reports when both values are well-formed; malformed values already carry
// their own error.
func validateEntryOrdering(sl validator.StructLevel) {
	in := sl.Current().Interface().(EntryInput)
	start, okStart := ParseClock(in.StartTime)
	end, okEnd := ParseClock(in.EndTime)
	if okStart && okEnd && end <= start {
		sl.ReportError(in.EndTime, "end_time", "EndTime", "after", "start_time")
	}
}

// Normalize trims every field and strips control characters.
func (in EntryInput) Normalize() EntryInput {
	return EntryInput{
		EntryDate: SanitizeInput(in.EntryDate),
		ClassName: SanitizeInput(in.ClassName),
		Subject:   SanitizeInput(in.Subject),
		StartTime: SanitizeInput(in.StartTime),
		EndTime:   SanitizeInput(in.EndTime),
	}
}

// ValidateEntryInput checks the submission rules. The returned error is a
// *ValidationError listing the first failure of every invalid field.
func ValidateEntryInput(in EntryInput) error {
	err := entryValidator().Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if _, seen := fields[name]; seen {
			continue
		}
		msg, ok := entryMessages[name+"."+fe.Tag()]
		if !ok {
			msg = "The " + strings.ReplaceAll(name, "_", " ") + " field is invalid."
		}
		fields[name] = msg
	}
	return &ValidationError{Fields: fields}
}

// SanitizeInput removes control characters except tab, newline and carriage
// return, then trims whitespace.
func SanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
