package web

import (
	"github.com/go-playground/validator/v10"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// ValidMoney validates whether the field is a positive money amount.
var ValidMoney validator.Func = func(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	m, err := domain.ParseMoney(s)

	return err == nil && m.IsPositive()
}

// ValidAccountType validates whether the account type is supported.
var ValidAccountType validator.Func = func(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	_, err := domain.ParseAccountType(s)

	return err == nil
}

// RegisterValidators registers the ledger binding tags on v.
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("money", ValidMoney); err != nil {
		return err
	}

	return v.RegisterValidation("accounttype", ValidAccountType)
}
