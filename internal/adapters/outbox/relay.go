package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/config"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/ports"
)

const (
	listenerMinReconnectInterval = 10 * time.Second
	listenerMaxReconnectInterval = time.Minute
	outboxChannelName            = "outbox_channel"

	eventProcessTimeout     = 30 * time.Second
	batchProcessTimeout     = 60 * time.Second
	periodicProcessInterval = 90 * time.Second

	healthCheckStaleThreshold = 5 * time.Minute

	maxEventsPerBatch = 100

	appointmentEventPrefix = "appointment."
)

// errBadPayload marks events that can never be published; they are marked
// processed so they do not block the outbox.
var errBadPayload = errors.New("invalid outbox payload")

// Relay listens for PostgreSQL NOTIFY signals on outbox_channel and publishes
// appointment events to the broker.
type Relay struct {
	db            *sql.DB
	publisher     ports.AppointmentEventPublisher
	dbURL         string
	dbCB          *gobreaker.CircuitBreaker
	logger        zerolog.Logger
	published     *prometheus.CounterVec
	lastProcessed atomic.Int64
	healthy       atomic.Bool
}

func NewRelay(db *sql.DB, dbURL string, publisher ports.AppointmentEventPublisher, reg prometheus.Registerer, logger zerolog.Logger) *Relay {
	r := &Relay{
		db:        db,
		dbURL:     dbURL,
		publisher: publisher,
		dbCB:      config.NewCircuitBreaker(config.BreakerRelayPostgres),
		logger:    logger.With().Str("component", "outbox_relay").Logger(),
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clinic_outbox_events_total",
			Help: "Outbox events handled by the relay, by event type and result.",
		}, []string{"event_type", "result"}),
	}
	if reg != nil {
		reg.MustRegister(r.published)
	}
	r.touch()
	r.healthy.Store(true)
	return r
}

func (r *Relay) touch() {
	r.lastProcessed.Store(time.Now().UnixNano())
}

// IsHealthy is the liveness signal: the listener loop is running.
func (r *Relay) IsHealthy() bool {
	return r.healthy.Load()
}

// IsReady additionally requires a closed database breaker and recent progress.
func (r *Relay) IsReady() bool {
	if r.dbCB.State() == gobreaker.StateOpen {
		return false
	}
	if time.Since(time.Unix(0, r.lastProcessed.Load())) > healthCheckStaleThreshold {
		return false
	}
	return r.IsHealthy()
}

// Start blocks until ctx is cancelled.
func (r *Relay) Start(ctx context.Context) error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			r.logger.Error().Err(err).Msg("listener error")
		}
	}

	listener := pq.NewListener(r.dbURL, listenerMinReconnectInterval, listenerMaxReconnectInterval, reportProblem)
	defer listener.Close()

	if err := listener.Listen(outboxChannelName); err != nil {
		return err
	}
	r.logger.Info().Str("channel", outboxChannelName).Msg("listening for outbox notifications")

	if err := r.processUnprocessedEvents(ctx); err != nil {
		r.logger.Error().Err(err).Msg("failed to process startup backlog")
	}

	ticker := time.NewTicker(periodicProcessInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("shutting down")
			return ctx.Err()

		case notification := <-listener.Notify:
			if notification == nil {
				r.logger.Warn().Msg("listener reconnecting")
				r.healthy.Store(false)
				continue
			}
			if err := r.processEventByID(ctx, notification.Extra); err != nil {
				r.logger.Error().Err(err).Str("event_id", notification.Extra).Msg("failed to process event")
				continue
			}
			r.touch()
			r.healthy.Store(true)

		case <-ticker.C:
			go listener.Ping()
			if err := r.processUnprocessedEvents(ctx); err != nil {
				r.logger.Error().Err(err).Msg("periodic processing failed")
				continue
			}
			r.touch()
		}
	}
}

// dispatch decodes and publishes one outbox record. Unknown event types are
// skipped without error.
func (r *Relay) dispatch(ctx context.Context, eventType string, payload []byte) error {
	if !strings.HasPrefix(eventType, appointmentEventPrefix) {
		r.published.WithLabelValues(eventType, "skipped").Inc()
		return nil
	}
	var evt domain.AppointmentEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		r.published.WithLabelValues(eventType, "invalid").Inc()
		return errors.Join(errBadPayload, err)
	}
	if err := r.publisher.PublishAppointmentEvent(ctx, evt); err != nil {
		r.published.WithLabelValues(eventType, "failed").Inc()
		return err
	}
	r.published.WithLabelValues(eventType, "published").Inc()
	return nil
}

func markProcessed(ctx context.Context, tx *sql.Tx, id string) error {
	_, err := tx.ExecContext(ctx, `UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`, id)
	return err
}

func (r *Relay) processEventByID(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, eventProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		var id, eventType string
		var payload []byte
		err = tx.QueryRowContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE id = $1 AND processed_at IS NULL
			FOR UPDATE SKIP LOCKED`, eventID).Scan(&id, &eventType, &payload)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		if err := r.dispatch(ctx, eventType, payload); err != nil {
			if !errors.Is(err, errBadPayload) {
				return nil, err
			}
			r.logger.Warn().Err(err).Str("event_id", id).Msg("dropping invalid event")
		}

		if err := markProcessed(ctx, tx, id); err != nil {
			return nil, err
		}
		return nil, tx.Commit()
	})
	return err
}

// processUnprocessedEvents is the catch-up path for missed notifications.
func (r *Relay) processUnprocessedEvents(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, batchProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		rows, err := tx.QueryContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE processed_at IS NULL
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED`, maxEventsPerBatch)
		if err != nil {
			return nil, err
		}

		type record struct {
			ID        string
			EventType string
			Payload   []byte
		}

		var records []record
		for rows.Next() {
			var rec record
			if err := rows.Scan(&rec.ID, &rec.EventType, &rec.Payload); err != nil {
				rows.Close()
				return nil, err
			}
			records = append(records, rec)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}

		for _, rec := range records {
			if err := r.dispatch(ctx, rec.EventType, rec.Payload); err != nil {
				if !errors.Is(err, errBadPayload) {
					r.logger.Error().Err(err).Str("event_id", rec.ID).Msg("failed to publish event")
					// keep order: later events wait for the next pass
					break
				}
				r.logger.Warn().Err(err).Str("event_id", rec.ID).Msg("dropping invalid event")
			}
			if err := markProcessed(ctx, tx, rec.ID); err != nil {
				return nil, err
			}
			r.logger.Debug().Str("event_id", rec.ID).Msg("processed event")
		}

		return nil, tx.Commit()
	})
	return err
}
