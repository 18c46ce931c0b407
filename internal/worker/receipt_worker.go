package worker

// receipt_worker.go
// Processes receipt render jobs from QueueReceiptRender. Rendering is the
// second phase of payment confirmation: the financial record is already
// committed, so a render failure only delays the PDF and retries freely.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ReceiptJobPayload is the job envelope sent to QueueReceiptRender.
type ReceiptJobPayload struct {
	PaymentID     string  `json:"payment_id"`
	CustomerEmail *string `json:"customer_email,omitempty"`
	Attempts      int     `json:"attempts,omitempty"` // cumulative, survives DLQ requeues
}

// ReceiptRenderer renders the receipt PDF for a confirmed payment and
// returns the output path. Implemented by the payment service.
type ReceiptRenderer interface {
	RenderReceipt(ctx context.Context, id uuid.UUID) (string, error)
}

// ReceiptWorker renders receipt PDFs from frozen snapshots with exponential
// backoff, then optionally enqueues the email delivery job.
type ReceiptWorker struct {
	renderer   ReceiptRenderer
	dispatcher *Dispatcher
	rdb        *redis.Client
}

func NewReceiptWorker(renderer ReceiptRenderer, dispatcher *Dispatcher, rdb *redis.Client) *ReceiptWorker {
	return &ReceiptWorker{renderer: renderer, dispatcher: dispatcher, rdb: rdb}
}

// Process handles a single render job:
//  1. Parse ReceiptJobPayload from the job envelope
//  2. Render the PDF from the stored snapshot (max 3 attempts)
//  3. On exhausted retries, park the job in the DLQ
//  4. On success, enqueue the email job when the customer has an address
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}

	paymentID, err := uuid.Parse(payload.PaymentID)
	if err != nil {
		log.Error().Str("payment_id", payload.PaymentID).Msg("receipt_worker: invalid payment_id")
		return
	}

	var pdfPath string
	renderErr := withRetry(ctx, 3, func(attempt int) error {
		path, err := w.renderer.RenderReceipt(ctx, paymentID)
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("payment_id", payload.PaymentID).
				Msg("receipt_worker: render attempt failed, retrying")
			return err
		}
		pdfPath = path
		return nil
	})
	if renderErr != nil {
		log.Error().Err(renderErr).Str("payment_id", payload.PaymentID).Msg("receipt_worker: render failed after all retries")
		payload.Attempts += 3
		dead, err := json.Marshal(payload)
		if err != nil {
			dead = raw
		}
		SendToDLQ(ctx, w.rdb, QueueReceiptRender, "receipt_render", dead, renderErr.Error(), payload.Attempts)
		return
	}
	log.Info().Str("pdf", pdfPath).Str("payment_id", payload.PaymentID).Msg("receipt_worker: receipt rendered")

	if payload.CustomerEmail != nil && *payload.CustomerEmail != "" {
		emailJob := EmailJobPayload{
			ToEmail: *payload.CustomerEmail,
			Subject: "Your payment receipt",
			Body:    "Attached is the receipt for your payment. Thank you.",
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("email", *payload.CustomerEmail).Msg("receipt_worker: failed to enqueue email")
		}
	}
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
