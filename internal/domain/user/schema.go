package user

import (
	"github.com/go-playground/validator/v10"

	"user-crud-service/pkg/apperror"
	"user-crud-service/pkg/validate"
)

// schemaValidator enforces the entity's own redundant validation layer.
// Custom tags delegate to pkg/validate so the request layer and the schema
// layer share one set of rules.
var schemaValidator = newSchemaValidator()

func newSchemaValidator() *validator.Validate {
	v := validator.New()

	// Registration cannot fail for functions that are never nil.
	_ = v.RegisterValidation("nodigits", func(fl validator.FieldLevel) bool {
		return validate.StrictName(fl.Field().String())
	})
	_ = v.RegisterValidation("emailstrict", func(fl validator.FieldLevel) bool {
		return validate.Email(fl.Field().String())
	})
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return validate.Password(fl.Field().String())
	})

	return v
}

// Validate checks the entity against its schema rules and aggregates every
// failure into a SchemaError. Run before hashing: the password rule judges
// the plaintext, not the stored hash.
func (u *User) Validate() error {
	err := schemaValidator.Struct(u)
	if err == nil {
		return nil
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages = append(messages, schemaMessage(fe))
	}
	return apperror.NewSchemaError(messages)
}

// schemaMessage maps a field error to its fixed wire message.
func schemaMessage(fe validator.FieldError) string {
	switch fe.StructField() {
	case "Name":
		if fe.Tag() == "required" {
			return "Name is required"
		}
		return "Name must not containg numbers!"
	case "Age":
		switch fe.Tag() {
		case "required":
			return "Age is required!"
		case "min":
			return "Age must be at least 1"
		default:
			return "Age must be a number!"
		}
	case "Email":
		if fe.Tag() == "required" {
			return "Email is required"
		}
		return "Please, insert a valid email!"
	case "Password":
		if fe.Tag() == "required" {
			return "Password is required"
		}
		return "Password requires at least 8 characters, with at least one upcase, a lowercase and a special character! Oss"
	default:
		return fe.StructField() + " is invalid"
	}
}
