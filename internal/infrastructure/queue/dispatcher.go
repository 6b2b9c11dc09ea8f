// Package queue delivers verification emails off the request path. Signup
// returns as soon as the request is queued; delivery happens out of band.
package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/fetchsocial/fetch-api/internal/api/metrics"
	"github.com/fetchsocial/fetch-api/internal/core/ports"
)

const (
	defaultWorkers = 2
	channelBuffer  = 64
)

// Sender delivers a single verification email.
type Sender interface {
	SendVerification(ctx context.Context, email string) error
}

// Dispatcher routes verification requests to a fixed set of workers, sharded
// by email so repeated requests for one address stay ordered.
type Dispatcher struct {
	workers []chan ports.VerificationRequest
	sender  Sender
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers workers. If
// numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sender Sender, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.VerificationRequest, numWorkers),
		sender:  sender,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.VerificationRequest, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a request to the worker responsible for its email. The call
// is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(req ports.VerificationRequest) {
	d.workers[d.shardIndex(req.Email)] <- req
}

func (d *Dispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.VerificationRequest) {
	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-ch:
			if !ok {
				return
			}
			if err := d.sender.SendVerification(ctx, req.Email); err != nil {
				metrics.VerificationEmailsTotal.WithLabelValues("error").Inc()
				d.log.Error().Err(err).
					Str("email", req.Email).
					Int("worker_id", id).
					Msg("verification email delivery failed")
				continue
			}
			metrics.VerificationEmailsTotal.WithLabelValues("sent").Inc()
		}
	}
}
