package web

import (
	"autokudos/internal/application/orchestrators"
	"autokudos/internal/application/projections"
	"autokudos/internal/domain/category"
)

func (s *server) leaderboardDeps() projections.GetLeaderboardDeps {
	return projections.GetLeaderboardDeps{
		Results:  s.stores.Results,
		Members:  s.stores.Members,
		Settings: s.stores.Settings,
	}
}

func (s *server) standingsDeps() projections.GetStandingsDeps {
	return projections.GetStandingsDeps{
		Standings: s.stores.ChampStandings,
		Season:    s.stores.Championship,
		Settings:  s.stores.Settings,
	}
}

func (s *server) memberDeps() orchestrators.MemberDeps {
	return orchestrators.MemberDeps{Members: s.stores.Members, GenerateID: s.generateID}
}

func (s *server) raceLogDeps() orchestrators.RaceLogDeps {
	return orchestrators.RaceLogDeps{Results: s.stores.Results}
}

func (s *server) approveDeps() orchestrators.ApproveSubmissionDeps {
	return orchestrators.ApproveSubmissionDeps{
		Pending:    s.stores.Pending,
		Results:    s.stores.Results,
		Members:    s.stores.Members,
		GenerateID: s.generateID,
	}
}

func (s *server) championshipDeps() orchestrators.ChampionshipDeps {
	return orchestrators.ChampionshipDeps{
		Season:     s.stores.Championship,
		Pending:    s.stores.ChampPending,
		Standings:  s.stores.ChampStandings,
		Members:    s.stores.Members,
		GenerateID: s.generateID,
		Now:        s.now,
		Publisher:  s.publisher,
	}
}

func (s *server) loginDeps() orchestrators.LoginDeps {
	return orchestrators.LoginDeps{Settings: s.stores.Settings}
}

func (s *server) today() string {
	return s.now().Format(category.DateLayout)
}
