package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"autokudos/internal/adapters/storage"
	"autokudos/internal/domain/category"
	domain "autokudos/internal/domain/settings"
)

// Store loads and saves the settings record.
type Store interface {
	Load(ctx context.Context) (domain.Settings, error)
	Save(ctx context.Context, s domain.Settings) (domain.Settings, error)
}

// KVStore implements Store over scalar keys.
type KVStore struct {
	kv storage.KV
}

// NewKVStore creates a settings store.
func NewKVStore(kv storage.KV) *KVStore {
	return &KVStore{kv: kv}
}

// Load reads every settings key, writing the default for any key that has
// never been set.
// POST: returned Settings carries the stored version
func (s *KVStore) Load(ctx context.Context) (domain.Settings, error) {
	def := encode(domain.Defaults())
	def[domain.KeyVersion] = "0"

	values := make(map[string]string, len(def))
	for key, fallback := range def {
		v, ok, err := s.kv.Get(ctx, key)
		if err != nil {
			return domain.Settings{}, fmt.Errorf("load settings: %w", err)
		}
		if !ok {
			if err := s.kv.Set(ctx, key, fallback); err != nil {
				return domain.Settings{}, fmt.Errorf("materialise %s: %w", key, err)
			}
			v = fallback
		}
		values[key] = v
	}
	return decode(values), nil
}

// Save writes s when its Version matches the stored version.
// POST: returns the saved settings with Version incremented, or
// domain.ErrStaleVersion
func (s *KVStore) Save(ctx context.Context, in domain.Settings) (domain.Settings, error) {
	if err := in.Validate(); err != nil {
		return domain.Settings{}, err
	}
	guard := strconv.FormatInt(in.Version, 10)
	in.Version++
	values := encode(in)
	values[domain.KeyVersion] = strconv.FormatInt(in.Version, 10)

	err := s.kv.SetIfUnchanged(ctx, domain.KeyVersion, guard, values)
	if errors.Is(err, storage.ErrConflict) {
		return domain.Settings{}, domain.ErrStaleVersion
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	return in, nil
}

func encode(st domain.Settings) map[string]string {
	distances, _ := json.Marshal(st.VisibleDistances)
	tab := "False"
	if st.ShowChampionshipTab {
		tab = "True"
	}
	return map[string]string{
		domain.KeyAdminPassword:    st.AdminPassword,
		domain.KeyLogoURL:          st.LogoURL,
		domain.KeyAgeMode:          string(st.AgeMode),
		domain.KeyVisibleDistances: string(distances),
		domain.KeyShowChampTab:     tab,
		domain.KeyClubNotes:        st.ClubNotes,
	}
}

func decode(values map[string]string) domain.Settings {
	st := domain.Settings{
		AdminPassword:       values[domain.KeyAdminPassword],
		LogoURL:             values[domain.KeyLogoURL],
		AgeMode:             category.ParseMode(values[domain.KeyAgeMode]),
		ShowChampionshipTab: strings.EqualFold(values[domain.KeyShowChampTab], "true"),
		ClubNotes:           values[domain.KeyClubNotes],
	}
	st.Version, _ = strconv.ParseInt(values[domain.KeyVersion], 10, 64)
	if err := json.Unmarshal([]byte(values[domain.KeyVisibleDistances]), &st.VisibleDistances); err != nil || len(st.VisibleDistances) == 0 {
		st.VisibleDistances = domain.Defaults().VisibleDistances
	}
	return st
}
