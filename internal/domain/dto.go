package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Page defaults applied when a request omits them.
const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 50
	MaxPage        = 10000
)

// SearchRequestDTO is the input of a search.
// Query is required; page runs from 1 to 10000 and per_page is capped at 50.
type SearchRequestDTO struct {
	Query     string `json:"q" validate:"required,max=300"`
	Page      int    `json:"page" validate:"gte=1,lte=10000"`
	PerPage   int    `json:"per_page" validate:"gte=1,lte=50"`
	UserAgent string `json:"-"`
}

// ValidateStruct runs the struct tags of v and converts a failure into a ValidationError.
func ValidateStruct(v interface{}) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return ErrValidation(err.Error())
	}
	msgs := make([]string, 0, len(fields))
	for _, fe := range fields {
		msgs = append(msgs, fieldMessage(fe))
	}
	return ErrValidation(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// SearchLogDTO is used for search log output
type SearchLogDTO struct {
	Query       string `json:"query"`
	DateFilter  string `json:"date_filter,omitempty"`
	ResultCount int    `json:"result_count"`
	AIUsed      bool   `json:"ai_used"`
	Widened     bool   `json:"widened"`
	CreatedAt   string `json:"created_at"`
}

func SearchLogToDTO(e *SearchLogEntry) SearchLogDTO {
	return SearchLogDTO{
		Query:       e.Query,
		DateFilter:  e.DateFilter,
		ResultCount: e.ResultCount,
		AIUsed:      e.AIUsed,
		Widened:     e.Widened,
		CreatedAt:   e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
