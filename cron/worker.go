package cron

import (
	"context"
	"log"
	"time"

	"datex/config"

	"github.com/hibiken/asynq"
)

const TypeExpirySweep = "expiry:sweep"

// InitSweepWorker runs the sweep worker and its cron scheduler in the
// background. The sweep executes outside the request path on the
// schedule from config (daily by default).
func InitSweepWorker(sweeper *Sweeper) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPass,
		DB:       config.AppConfig.RedisSweepDB,
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
	mux.HandleFunc(TypeExpirySweep, func(ctx context.Context, t *asynq.Task) error {
		return sweeper.Run(ctx)
	})

	// Start the worker with retry logic.
	go func() {
		log.Println("[SweepWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[SweepWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[SweepWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	// Enqueue the sweep on its cron schedule.
	scheduler := asynq.NewScheduler(redisOpts, nil)
	if _, err := scheduler.Register(config.AppConfig.SweepSchedule, asynq.NewTask(TypeExpirySweep, nil)); err != nil {
		log.Fatalf("[SweepWorker] failed to register sweep schedule: %v", err)
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			log.Fatalf("[SweepWorker] scheduler exited: %v", err)
		}
	}()
}
