package models

import "github.com/go-playground/validator/v10"

// RegisterValidations installs the custom tags used by the payload structs ("mmdd" and "attendance_status").
func RegisterValidations(v *validator.Validate) {
	_ = v.RegisterValidation("mmdd", func(fl validator.FieldLevel) bool {
		return IsMMDD(fl.Field().String())
	})
	_ = v.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		return AttendanceStatus(fl.Field().String()).Valid()
	})
}

// NewValidator returns a validator with the custom tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	RegisterValidations(v)
	return v
}
