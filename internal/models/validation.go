package models

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/leaddesk/leaddesk-dashboard/pkg/phone"
)

// Custom validation tags
const (
	TagStage    = "lead_stage"
	TagDecimal  = "nonneg_decimal"
	TagPhone    = "phone_number"
	TagTimezone = "timezone_offset"
)

// NewValidator returns a validator with the lead and settings rules
// registered. Phone numbers without a country code use phoneRegion.
func NewValidator(phoneRegion string) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation(TagStage, func(fl validator.FieldLevel) bool {
		return Stage(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation(TagDecimal, func(fl validator.FieldLevel) bool {
		raw := strings.TrimSpace(fl.Field().String())
		if raw == "" {
			return true
		}
		if !isDecimalText(raw) {
			return false
		}
		f, err := strconv.ParseFloat(raw, 64)
		return err == nil && f >= 0 && !math.IsInf(f, 0)
	})
	_ = v.RegisterValidation(TagPhone, func(fl validator.FieldLevel) bool {
		return phone.IsPlausible(fl.Field().String(), phoneRegion)
	})
	_ = v.RegisterValidation(TagTimezone, func(fl validator.FieldLevel) bool {
		return IsKnownTimezone(fl.Field().String())
	})

	return v
}

// isDecimalText accepts digits with at most one '.', e.g. "1500" or "1500.50".
// ParseFloat alone would also take "Inf", "NaN" and hex floats.
func isDecimalText(raw string) bool {
	digits, dots := 0, 0
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}
