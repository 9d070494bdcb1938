package serverutils

import (
	"fmt"
	"strings"

	"ai-chatrelay-be/internal/pkg/apperr"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest checks a request DTO against its validate tags and
// converts failures into the validation error kind before any store
// access happens.
func ValidateRequest(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s is %s", strings.ToLower(fe.Field()), fe.Tag()))
			}
			return apperr.Validation(strings.Join(fields, "; "))
		}
		return apperr.Validation(err.Error())
	}
	return nil
}
