package main

import (
	"context"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-recurrence/internal/audit"
	"github.com/BruksfildServices01/barber-recurrence/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-recurrence/internal/db"
	recdomain "github.com/BruksfildServices01/barber-recurrence/internal/domain/recurrence"
	infraAssigner "github.com/BruksfildServices01/barber-recurrence/internal/infra/assigner"
	infraRepo "github.com/BruksfildServices01/barber-recurrence/internal/infra/repository"
	"github.com/BruksfildServices01/barber-recurrence/internal/lock"
	ucRecurrence "github.com/BruksfildServices01/barber-recurrence/internal/usecase/recurrence"
)

// Gatilho diário do batch de recorrência (cron externo). Saída 0 mesmo
// com erros individuais de template; saída 1 apenas quando a rodada nem
// conseguiu começar.

const (
	runLockKey = "barber-recurrence:run-lock"
	runLockTTL = 10 * time.Minute
	runTimeout = 5 * time.Minute
)

func main() {

	_ = godotenv.Load()

	cfg := config.Load()

	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "barber-recurrence-job").
		Str("run_id", uuid.NewString()).
		Logger()

	db := dbpkg.NewDB(cfg)

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid REDIS_URL")
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	// Rodadas sobrepostas (cron atrasado, disparo manual junto do cron)
	// dobrariam a geração; o lock garante execução única.
	runLock := lock.NewRunLock(rdb)
	release, ok, err := runLock.Acquire(ctx, runLockKey, runLockTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to acquire run lock")
	}
	if !ok {
		logger.Info().Msg("another batch run in progress, skipping")
		return
	}
	defer release()

	recurrenceRepo := infraRepo.NewRecurrenceGormRepository(db)
	guard := recdomain.NewGuard(recurrenceRepo)

	auditDispatcher := audit.NewDispatcher(audit.New(db))

	materializer := ucRecurrence.NewMaterializeOccurrence(
		recurrenceRepo,
		infraAssigner.NewLeastLoaded(db),
		auditDispatcher,
	)

	runner := ucRecurrence.NewRunBatch(
		recurrenceRepo,
		guard,
		materializer,
		logger,
	)

	summary, err := runner.Execute(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("recurrence batch failed")
	}

	logger.Info().
		Int("generated", summary.Generated).
		Int("skipped", summary.Skipped).
		Int("errors", summary.Errors).
		Msg("recurrence job done")
}
