package cron

import (
	"context"
	"log"
	"time"

	"localpro/config"
	matchRepo "localpro/database/repository/match"
	"localpro/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeMatchReconcile = "match:reconcile"

// InitReconcileWorker starts the background pass that repairs partially
// written match requests: a CREATED request with zero candidate rows is
// the footprint of a crash between the request write and the candidate
// write. After a grace period such requests are reconciled to NO_COVERAGE
// so idempotent replays observe a final state.
func InitReconcileWorker(repo matchRepo.MatchRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisWorkerDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeMatchReconcile, handleReconcileTask(repo))

	scheduler := asynq.NewScheduler(redisOpts, nil)
	if _, err := scheduler.Register("@every 5m", asynq.NewTask(TypeMatchReconcile, nil)); err != nil {
		log.Fatalf("[ReconcileWorker] failed to register schedule: %v", err)
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			log.Printf("[ReconcileWorker] scheduler stopped: %v", err)
		}
	}()
	go func() {
		log.Println("[ReconcileWorker] starting async worker...")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("[ReconcileWorker] failed to start worker: %v", err)
		}
	}()
}

func handleReconcileTask(repo matchRepo.MatchRepository) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		logger := zap.L()
		grace := time.Duration(config.AppConfig.ReconcileGraceMins) * time.Minute
		cutoff := time.Now().UTC().Add(-grace)

		inconsistent, err := repo.FindInconsistent(ctx, cutoff)
		if err != nil {
			logger.Error("reconcile scan failed", zap.Error(err))
			return err
		}
		for _, req := range inconsistent {
			if err := repo.MarkNoCoverage(ctx, req.ID); err != nil {
				logger.Error("failed to reconcile match request",
					zap.String("requestId", req.ID), zap.Error(err))
				continue
			}
			logger.Warn("reconciled partially written match request",
				zap.String("requestId", req.ID),
				zap.String("from", models.MatchStatusCreated),
				zap.String("to", models.MatchStatusNoCoverage))
		}
		if len(inconsistent) > 0 {
			logger.Info("reconcile pass complete", zap.Int("repaired", len(inconsistent)))
		}
		return nil
	}
}
