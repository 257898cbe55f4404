package fx

import (
	"go.uber.org/fx"

	"uniliga-tracker/internal/bracket"
	"uniliga-tracker/internal/config"
	"uniliga-tracker/internal/database"
	"uniliga-tracker/internal/ingest"
	"uniliga-tracker/internal/logger"
	"uniliga-tracker/internal/qualification"
	"uniliga-tracker/internal/rating"
	"uniliga-tracker/internal/repository"
	"uniliga-tracker/internal/server"
	"uniliga-tracker/internal/service"
	"uniliga-tracker/internal/source"
	"uniliga-tracker/internal/store"
)

func ProvideCalibration(cfg *config.Config) qualification.Calibration {
	return qualification.Calibration{
		DirectRelegationCount: cfg.DirectRelegationCount,
		MaintenanceOffset:     cfg.MaintenanceOffset,
	}
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewMatchRepository),
	fx.Provide(repository.NewStandingsRepository),
	fx.Provide(repository.NewRatingRepository),
	// ingestion
	fx.Provide(source.NewClient),
	fx.Provide(store.New),
	fx.Provide(ingest.NewLoader),
	// core pipeline
	fx.Provide(ProvideCalibration),
	fx.Provide(qualification.NewResolver),
	fx.Provide(bracket.NewAssembler),
	fx.Provide(rating.NewBuilder),
	// svc
	fx.Provide(service.NewDatasetService),
	// server
	fx.Provide(server.NewServer),
)
