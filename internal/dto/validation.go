package dto

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the ledger-specific binding tags to v.
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("voucherkind", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseVoucherKind(fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("entryside", func(fl validator.FieldLevel) bool {
		return domain.EntrySide(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("paymentmode", func(fl validator.FieldLevel) bool {
		mode := domain.AccountRole(fl.Field().String())
		return mode == domain.RoleCash || mode == domain.RoleBank
	})
}
