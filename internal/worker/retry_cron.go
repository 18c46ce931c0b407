package worker

// retry_cron.go
// Background goroutine that periodically drains the receipt-render DLQ and
// re-enqueues the jobs. Render failures are almost always transient (disk
// full, storage mount flapping), so a later attempt usually succeeds; the
// snapshot is immutable and a re-render is always safe. Entries that keep
// failing are parked for manual inspection instead of cycling forever.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
	maxDLQAttempts    = 9 // three pool retries per requeue, three requeues
	parkedSuffix      = ":parked"
)

// StartRetryCron launches the DLQ reprocessor. It ticks every 30s, pops up to
// a batch of dead receipt-render jobs and pushes them back onto the live
// queue. It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, rdb *redis.Client, dispatcher *Dispatcher) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()
		log.Info().Msg("receipt render retry cron started")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("receipt render retry cron shutting down")
				return
			case <-ticker.C:
				reprocessDLQ(ctx, rdb, dispatcher)
			}
		}
	}()
}

func reprocessDLQ(ctx context.Context, rdb *redis.Client, dispatcher *Dispatcher) {
	dlqKey := DLQPrefix + QueueReceiptRender
	for i := 0; i < retryBatchSize; i++ {
		raw, err := rdb.RPop(ctx, dlqKey).Result()
		if err == redis.Nil {
			return // drained
		}
		if err != nil {
			log.Error().Err(err).Str("dlq_key", dlqKey).Msg("retry cron: pop failed")
			return
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Msg("retry cron: unreadable DLQ entry, parking")
			rdb.LPush(ctx, dlqKey+parkedSuffix, raw)
			continue
		}
		if entry.Attempts >= maxDLQAttempts {
			log.Warn().
				Str("job_type", entry.JobType).
				Int("attempts", entry.Attempts).
				Msg("retry cron: job exceeded retry budget, parking")
			rdb.LPush(ctx, dlqKey+parkedSuffix, raw)
			continue
		}

		var payload ReceiptJobPayload
		if err := json.Unmarshal(entry.Payload, &payload); err != nil {
			log.Error().Err(err).Msg("retry cron: unreadable payload, parking")
			rdb.LPush(ctx, dlqKey+parkedSuffix, raw)
			continue
		}
		if err := dispatcher.EnqueueReceiptRender(ctx, payload); err != nil {
			// put it back; next tick will try again
			rdb.LPush(ctx, dlqKey, raw)
			log.Error().Err(err).Msg("retry cron: re-enqueue failed")
			return
		}
		log.Info().
			Str("payment_id", payload.PaymentID).
			Int("attempts", entry.Attempts).
			Msg("retry cron: dead job re-enqueued")
	}
}
