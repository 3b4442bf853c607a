package service

import (
	"github.com/fencetrack/fencetrack/internal/config"
	"github.com/fencetrack/fencetrack/internal/fetch"
	"github.com/fencetrack/fencetrack/internal/repository"
	"github.com/fencetrack/fencetrack/internal/websocket"
)

type Services struct {
	Auth        *AuthService
	Ingest      *IngestService
	Run         *RunService
	Competition *CompetitionService
	Player      *PlayerService
	Scheduler   *Scheduler
}

func NewServices(repos *repository.Repositories, uow repository.UnitOfWork, fetcher fetch.Fetcher, hub *websocket.Hub, cfg *config.Config) *Services {
	ingest := NewIngestService(uow, repos)
	run := NewRunService(repos, ingest, fetcher, hub, cfg.RunConcurrency)
	return &Services{
		Auth:        NewAuthService(cfg),
		Ingest:      ingest,
		Run:         run,
		Competition: NewCompetitionService(repos),
		Player:      NewPlayerService(repos),
		Scheduler:   NewScheduler(run, cfg.RecollectInterval),
	}
}
