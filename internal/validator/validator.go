package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/stemsi/lexis/internal/model"
)

var (
	studentIDPattern = regexp.MustCompile(`^\d{4}-\d{4}$`)
	codePattern      = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
)

// Validator checks request structs against their `binding` tags and renders
// failures as field name → English message.
type Validator struct {
	validate *govalidator.Validate
	trans    ut.Translator
}

// std backs Bind and TranslateErrors once Setup has run.
var std = New()

// New builds a Validator with the record rules and English translations registered.
func New() *Validator {
	v := govalidator.New(govalidator.WithRequiredStructEnabled())
	v.SetTagName("binding")

	// Use JSON tag name for field names in error messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	register(v, trans, "student_id", "{0} must match the format NNNN-NNNN", func(s string) bool {
		return studentIDPattern.MatchString(s)
	})
	register(v, trans, "code", "{0} must be letters, digits, '.', '_' or '-'", isCode)
	register(v, trans, "ref", "{0} must be a code or "+model.None, func(s string) bool {
		return model.IsNone(s) || isCode(s)
	})
	register(v, trans, "gender", "{0} must be Male, Female or Other", func(s string) bool {
		_, ok := model.ParseGender(s)
		return ok
	})

	return &Validator{validate: v, trans: trans}
}

func isCode(s string) bool {
	return codePattern.MatchString(s) && !model.IsNone(s)
}

func register(v *govalidator.Validate, trans ut.Translator, tag, text string, ok func(string) bool) {
	_ = v.RegisterValidation(tag, func(fl govalidator.FieldLevel) bool {
		return ok(fl.Field().String())
	})
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe govalidator.FieldError) string {
			msg, _ := t.T(tag, fe.Field())
			return msg
		},
	)
}

// Setup installs the shared Validator as Gin's binding engine and returns it.
// Call once during application startup.
func Setup() *Validator {
	binding.Validator = std
	return std
}

// Check validates dst and returns nil or a field → message map.
func (v *Validator) Check(dst interface{}) map[string]string {
	if err := v.ValidateStruct(dst); err != nil {
		return v.TranslateErrors(err)
	}
	return nil
}

// ValidateStruct implements binding.StructValidator.
func (v *Validator) ValidateStruct(obj interface{}) error {
	if obj == nil {
		return nil
	}
	value := reflect.ValueOf(obj)
	switch value.Kind() {
	case reflect.Ptr:
		if value.IsNil() {
			return nil
		}
		return v.ValidateStruct(value.Elem().Interface())
	case reflect.Struct:
		return v.validate.Struct(obj)
	case reflect.Slice, reflect.Array:
		for i := 0; i < value.Len(); i++ {
			if err := v.ValidateStruct(value.Index(i).Interface()); err != nil {
				return err
			}
		}
	}
	return nil
}

// Engine implements binding.StructValidator.
func (v *Validator) Engine() interface{} {
	return v.validate
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name → human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func (v *Validator) TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fieldKey(fe)] = fe.Translate(v.trans)
		}
		return fields
	}

	// Not a validation error (e.g., JSON syntax error).
	fields["detail"] = err.Error()
	return fields
}

// fieldKey drops the top-level struct name from the namespace so nested
// fields read "patch.year_level" and slice items "ids[2]".
func fieldKey(fe govalidator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// TranslateErrors renders err with the shared Validator.
func TranslateErrors(err error) map[string]string {
	return std.TranslateErrors(err)
}

// Bind binds and validates the request body into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}
