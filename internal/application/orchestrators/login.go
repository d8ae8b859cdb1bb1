package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	settingsstore "autokudos/internal/adapters/storage/settings"
)

// ErrInvalidCredentials is returned for a wrong admin password.
var ErrInvalidCredentials = errors.New("invalid password")

// LoginDeps holds dependencies for ExecuteAdminLogin.
type LoginDeps struct {
	Settings settingsstore.Store
}

// ExecuteAdminLogin checks the admin password. A correct password stored
// in plaintext is re-saved as a bcrypt hash.
// POST: returns nil on success, ErrInvalidCredentials otherwise
func ExecuteAdminLogin(ctx context.Context, password string, deps LoginDeps) error {
	if password == "" {
		return ErrInvalidCredentials
	}
	st, err := deps.Settings.Load(ctx)
	if err != nil {
		return err
	}
	if err := st.CheckAdminPassword(password); err != nil {
		slog.Info("auth_event", "event", "login_failed")
		return ErrInvalidCredentials
	}

	if !st.IsHashed() {
		if err := st.SetAdminPassword(password); err != nil {
			slog.Warn("auth_event", "event", "password_upgrade_skipped", "reason", err.Error())
		} else if _, err := deps.Settings.Save(ctx, st); err != nil {
			slog.Warn("auth_event", "event", "password_upgrade_failed", "error", err)
		} else {
			slog.Info("auth_event", "event", "password_upgraded")
		}
	}

	slog.Info("auth_event", "event", "login_success")
	return nil
}
