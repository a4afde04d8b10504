// Package validation checks product payloads before they reach the store.
package validation

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/abgdnv/productapi/internal/platform/pipeline"
	"github.com/go-playground/validator/v10"
)

// Violation messages, one per field.
const (
	MsgName        = "Name is required and must be a string."
	MsgDescription = "Description is required and must be a string."
	MsgPrice       = "Price is required and must be a number."
	MsgCategory    = "Category is required and must be a string."
	MsgInStock     = "inStock is required and must be a boolean."
)

var messages = map[string]string{
	"name":        MsgName,
	"description": MsgDescription,
	"price":       MsgPrice,
	"category":    MsgCategory,
	"inStock":     MsgInStock,
}

// productPayload holds the raw decoded JSON values. Field order defines message order.
type productPayload struct {
	Name        any `json:"name" validate:"jsonstring"`
	Description any `json:"description" validate:"jsonstring"`
	Price       any `json:"price" validate:"jsonnumber"`
	Category    any `json:"category" validate:"jsonstring"`
	InStock     any `json:"inStock" validate:"jsonbool"`
}

// Payload is a product body that passed validation.
type Payload struct {
	Name        string
	Description string
	Price       float64
	Category    string
	InStock     bool
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	// Absent fields arrive as nil interfaces and must still fail.
	mustRegister(v, "jsonstring", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		return f.Kind() == reflect.String && f.Len() > 0
	})
	mustRegister(v, "jsonnumber", func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() == reflect.Float64
	})
	mustRegister(v, "jsonbool", func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() == reflect.Bool
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn, true); err != nil {
		panic(err)
	}
}

// Validate returns the violation messages of payload in field order.
// A nil or empty slice means the payload is valid. Values are never coerced.
func Validate(payload map[string]any) []string {
	raw := productPayload{
		Name:        payload["name"],
		Description: payload["description"],
		Price:       payload["price"],
		Category:    payload["category"],
		InStock:     payload["inStock"],
	}

	err := validate.Struct(raw)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}
	violations := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		violations = append(violations, messages[fieldErr.Field()])
	}
	return violations
}

// Decode converts a validated payload into typed fields.
func Decode(payload map[string]any) Payload {
	var p Payload
	p.Name, _ = payload["name"].(string)
	p.Description, _ = payload["description"].(string)
	p.Price, _ = payload["price"].(float64)
	p.Category, _ = payload["category"].(string)
	p.InStock, _ = payload["inStock"].(bool)
	return p
}

// Stage responds 400 with {"errors": [...]} when the decoded body is invalid.
func Stage() pipeline.Stage {
	return func(c *pipeline.Context) pipeline.Outcome {
		violations := Validate(c.Body)
		if len(violations) > 0 {
			c.Logger.WarnContext(c.Ctx(), "Validation errors occurred", "errors", violations)
			return pipeline.Respond(http.StatusBadRequest, map[string][]string{"errors": violations})
		}
		return pipeline.Continue()
	}
}
