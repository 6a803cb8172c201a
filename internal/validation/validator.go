package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"yacht_charter_backend/internal/models"
)

// enumTags maps a binding tag to the predicate it checks.
var enumTags = map[string]func(string) bool{
	"role":            models.IsValidRole,
	"user_status":     models.IsValidUserStatus,
	"membership_tier": models.IsValidMembershipTier,
	"boat_status":     models.IsValidBoatStatus,
	"booking_status":  models.IsValidBookingStatus,
	"payment_status":  models.IsValidPaymentStatus,
}

// Register adds the domain enum tags to gin's binding validator.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	return RegisterOn(v)
}

// RegisterOn adds the domain enum tags to v.
func RegisterOn(v *validator.Validate) error {
	for tag, valid := range enumTags {
		valid := valid
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return valid(fl.Field().String())
		})
		if err != nil {
			return fmt.Errorf("registering %q validator: %w", tag, err)
		}
	}
	return nil
}

// Describe turns binding errors into a short, client-facing message.
func Describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", field))
		case "min", "gte":
			parts = append(parts, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "max", "lte":
			parts = append(parts, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		case "gt":
			parts = append(parts, fmt.Sprintf("%s must be greater than %s", field, fe.Param()))
		case "email":
			parts = append(parts, fmt.Sprintf("%s must be a valid email", field))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
		default:
			if _, ok := enumTags[fe.Tag()]; ok {
				parts = append(parts, fmt.Sprintf("%s has an invalid value '%v'", field, fe.Value()))
			} else {
				parts = append(parts, fmt.Sprintf("%s failed on '%s'", field, fe.Tag()))
			}
		}
	}
	return strings.Join(parts, "; ")
}
