package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonathan/talent-matcher/internal/types"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// conn is the subset of *nats.Conn the publisher uses
type conn interface {
	Publish(subject string, data []byte) error
	Close()
}

// NATSPublisher publishes MatchEvents as JSON on a NATS subject per urgency
type NATSPublisher struct {
	nc        conn
	subject   string
	threshold float64
	logger    *zap.Logger
	now       func() time.Time
}

// NewNATSPublisher connects to natsURL. Events below threshold are not published.
func NewNATSPublisher(natsURL, subject string, threshold float64, logger *zap.Logger) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.Name("talent-matcher"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	}

	nc, err := nats.Connect(natsURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	return newPublisher(nc, subject, threshold, logger), nil
}

func newPublisher(nc conn, subject string, threshold float64, logger *zap.Logger) *NATSPublisher {
	if subject == "" {
		subject = DefaultSubject
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NATSPublisher{
		nc:        nc,
		subject:   subject,
		threshold: threshold,
		logger:    logger,
		now:       time.Now,
	}
}

// PublishMatches publishes an event for every qualifying result and returns how many were sent.
// It stops at the first publish failure.
func (p *NATSPublisher) PublishMatches(ctx context.Context, project *types.ProjectRequirement, runID string, results []types.MatchResult) (int, error) {
	events := BuildEvents(project, runID, results, p.threshold, p.now())
	subject := Subject(p.subject, project.Urgency)

	sent := 0
	for _, event := range events {
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		data, err := json.Marshal(event)
		if err != nil {
			return sent, fmt.Errorf("marshaling match event: %w", err)
		}

		if err := p.nc.Publish(subject, data); err != nil {
			p.logger.Error("failed to publish match event",
				zap.String("project_id", event.ProjectID),
				zap.String("talent_id", event.TalentID),
				zap.Error(err))
			return sent, fmt.Errorf("publishing match event: %w", err)
		}
		sent++
	}

	p.logger.Debug("published match events",
		zap.String("project_id", project.ID),
		zap.String("subject", subject),
		zap.Int("events", sent),
		zap.Int("results", len(results)))
	return sent, nil
}

func (p *NATSPublisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
