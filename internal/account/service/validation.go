package service

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

type registerFields struct {
	Username string `field:"username" validate:"required,max=64"`
	Email    string `field:"email" validate:"required,max=254,email"`
	Password string `field:"password" validate:"required,min=8,maxbytes=72"`
	Language string `field:"language" validate:"required,max=16,bcp47_language_tag"`
}

type loginFields struct {
	Email    string `field:"email" validate:"required,max=254"`
	Password string `field:"password" validate:"required,maxbytes=72"`
}

type InputValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func NewInputValidator() *InputValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("field")
	})

	english := en.New()
	trans, _ := ut.New(english, english).GetTranslator("en")
	_ = entranslations.RegisterDefaultTranslations(v, trans)
	registerMaxBytes(v, trans)

	return &InputValidator{validate: v, trans: trans}
}

func (iv *InputValidator) ValidateRegister(input RegisterInput) error {
	return iv.check(registerFields{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		Language: input.Language,
	})
}

func (iv *InputValidator) ValidateLogin(input LoginInput) error {
	return iv.check(loginFields{
		Email:    input.Email,
		Password: input.Password,
	})
}

func (iv *InputValidator) check(fields any) error {
	err := iv.validate.Struct(fields)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ErrValidation.WithCause(err)
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fe.Translate(iv.trans))
	}
	return ErrValidation.WithCause(errors.New(strings.Join(messages, "; ")))
}

// maxbytes limits the encoded length of a string. bcrypt rejects passwords
// longer than 72 bytes, which max counts in runes.
func registerMaxBytes(v *validator.Validate, trans ut.Translator) {
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	})
	_ = v.RegisterTranslation("maxbytes", trans,
		func(t ut.Translator) error {
			return t.Add("maxbytes", "{0} must be at most {1} bytes long", false)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T("maxbytes", fe.Field(), fe.Param())
			return msg
		},
	)
}
