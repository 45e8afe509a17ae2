package render

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Algerian mobile numbers: local 05/06/07 or international +213 prefix
var dzPhoneRe = regexp.MustCompile(`^(0[567]\d{8}|\+213[567]\d{8})$`)

func newValidator() *validator.Validate {
	validate := validator.New()

	_ = validate.RegisterValidation("dzphone", validateDZPhone)
	validate.RegisterTagNameFunc(useJSONTagNames)

	return validate
}

func useJSONTagNames(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	// skip if tag key says it should be ignored
	if name == "-" {
		return ""
	}
	return name
}

func validateDZPhone(fl validator.FieldLevel) bool {
	return dzPhoneRe.MatchString(fl.Field().String())
}
