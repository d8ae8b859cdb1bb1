// Package backend assembles every store the application needs from one
// storage engine.
package backend

import (
	"autokudos/internal/adapters/storage"
	champstore "autokudos/internal/adapters/storage/championship"
	redisstore "autokudos/internal/adapters/storage/redis"
	settingsstore "autokudos/internal/adapters/storage/settings"
	"autokudos/internal/domain/championship"
	"autokudos/internal/domain/member"
	"autokudos/internal/domain/result"
)

// Stores groups the collections and singletons.
type Stores struct {
	Members        storage.Collection[member.Member]
	Results        storage.Collection[result.RaceResult]
	Pending        storage.Collection[result.Pending]
	ChampPending   storage.Collection[championship.Pending]
	ChampStandings storage.Collection[championship.Standing]
	Settings       settingsstore.Store
	Championship   champstore.Store
}

// SQLite builds Stores over the record and setting tables.
// PRE: storage.InitDB has run
func SQLite(db storage.SQLDB) *Stores {
	kv := storage.NewSQLiteKV(db)
	return &Stores{
		Members:        storage.NewSQLiteCollection[member.Member](db, storage.CollectionMembers),
		Results:        storage.NewSQLiteCollection[result.RaceResult](db, storage.CollectionResults),
		Pending:        storage.NewSQLiteCollection[result.Pending](db, storage.CollectionPending),
		ChampPending:   storage.NewSQLiteCollection[championship.Pending](db, storage.CollectionChampPending),
		ChampStandings: storage.NewSQLiteCollection[championship.Standing](db, storage.CollectionChampStandings),
		Settings:       settingsstore.NewKVStore(kv),
		Championship:   champstore.NewKVStore(kv),
	}
}

// Redis builds Stores over Redis lists and string keys.
func Redis(client *redisstore.Client) *Stores {
	kv := redisstore.NewKV(client)
	return &Stores{
		Members:        redisstore.NewCollection[member.Member](client, storage.CollectionMembers),
		Results:        redisstore.NewCollection[result.RaceResult](client, storage.CollectionResults),
		Pending:        redisstore.NewCollection[result.Pending](client, storage.CollectionPending),
		ChampPending:   redisstore.NewCollection[championship.Pending](client, storage.CollectionChampPending),
		ChampStandings: redisstore.NewCollection[championship.Standing](client, storage.CollectionChampStandings),
		Settings:       settingsstore.NewKVStore(kv),
		Championship:   champstore.NewKVStore(kv),
	}
}
