package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	settingsstore "autokudos/internal/adapters/storage/settings"
	"autokudos/internal/domain/category"
	"autokudos/internal/domain/result"
	"autokudos/internal/domain/settings"
)

// UpdateSettingsInput is the admin settings form. Version must be the
// version the admin loaded.
type UpdateSettingsInput struct {
	Version             int64
	LogoURL             string
	AgeMode             string
	VisibleDistances    []string
	ShowChampionshipTab bool
	ClubNotes           string
}

// ExecuteUpdateSettings saves the editable settings.
// POST: returns settings.ErrStaleVersion when someone saved in between
func ExecuteUpdateSettings(ctx context.Context, input UpdateSettingsInput, deps LoginDeps) (settings.Settings, error) {
	st, err := deps.Settings.Load(ctx)
	if err != nil {
		return settings.Settings{}, err
	}
	if st.Version != input.Version {
		return settings.Settings{}, settings.ErrStaleVersion
	}

	mode := category.Mode(strings.TrimSpace(input.AgeMode))
	if !mode.Valid() {
		return settings.Settings{}, settings.ErrInvalidAgeMode
	}
	distances := make([]string, 0, len(input.VisibleDistances))
	for _, d := range input.VisibleDistances {
		canonical, ok := result.NormalizeDistance(d)
		if !ok {
			return settings.Settings{}, result.ErrUnknownDistance
		}
		distances = append(distances, canonical)
	}

	st.LogoURL = strings.TrimSpace(input.LogoURL)
	st.AgeMode = mode
	st.VisibleDistances = distances
	st.ShowChampionshipTab = input.ShowChampionshipTab
	st.ClubNotes = input.ClubNotes
	if err := st.Validate(); err != nil {
		return settings.Settings{}, err
	}

	saved, err := deps.Settings.Save(ctx, st)
	if err != nil {
		return settings.Settings{}, err
	}
	slog.Info("settings_updated", "version", saved.Version, "age_mode", saved.AgeMode)
	return saved, nil
}

// compile-time check that the KV store satisfies the dependency.
var _ settingsstore.Store = (*settingsstore.KVStore)(nil)
