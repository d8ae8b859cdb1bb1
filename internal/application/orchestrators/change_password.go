package orchestrators

import (
	"context"
	"errors"
	"log/slog"
)

// ChangePasswordInput carries input for the change-password orchestrator.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

var (
	ErrCurrentPasswordWrong = errors.New("current password is incorrect")
	ErrNewPasswordSame      = errors.New("new password must be different from current password")
)

// ExecuteChangePassword validates the current admin password and stores
// the new one hashed.
// PRE: both passwords are non-empty
// POST: the stored admin password is a bcrypt hash of NewPassword
func ExecuteChangePassword(ctx context.Context, input ChangePasswordInput, deps LoginDeps) error {
	if input.CurrentPassword == "" || input.NewPassword == "" {
		return errors.New("all fields are required")
	}
	st, err := deps.Settings.Load(ctx)
	if err != nil {
		return err
	}
	if err := st.CheckAdminPassword(input.CurrentPassword); err != nil {
		return ErrCurrentPasswordWrong
	}
	if input.CurrentPassword == input.NewPassword {
		return ErrNewPasswordSame
	}
	if err := st.SetAdminPassword(input.NewPassword); err != nil {
		return err
	}
	if _, err := deps.Settings.Save(ctx, st); err != nil {
		return err
	}
	slog.Info("auth_event", "event", "password_changed")
	return nil
}
