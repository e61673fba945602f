package validator

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/xyz-asif/medcamp/internal/pkg/access"
)

var once sync.Once

// standalone validates values outside request binding.
var standalone = validator.New()

// Register installs the custom tags on gin's binding engine. Call it before serving.
func Register() {
	once.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			registerTags(v)
		}
		registerTags(standalone)
	})
}

func registerTags(v *validator.Validate) {
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return access.ValidRole(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// IsValidEmail checks a bare value, e.g. a path parameter.
func IsValidEmail(email string) bool {
	if strings.TrimSpace(email) == "" {
		return false
	}
	return standalone.Var(email, "email") == nil
}

// FirstError renders the first field failure as a client message.
func FirstError(err error) string {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required", "notblank":
			return fe.Field() + " is required"
		case "role":
			return fe.Field() + " must be one of participant, organizer, admin"
		case "email":
			return fe.Field() + " must be a valid email"
		case "min", "gt", "gte":
			return fe.Field() + " must be at least " + fe.Param()
		case "max", "lte":
			return fe.Field() + " must be at most " + fe.Param()
		default:
			return fe.Field() + " is invalid"
		}
	}
	return "Invalid request format"
}
