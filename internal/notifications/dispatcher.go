package notifications

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/gonggu-lab/gonggu-backend/pkg/logger"
	"github.com/gonggu-lab/gonggu-backend/pkg/metrics"
)

const defaultConcurrency = 16

type DispatcherParams struct {
	Logger      *logger.Logger
	Sinks       []Sink
	Metrics     *metrics.CampaignMetrics
	Concurrency int
}

// Dispatcher fans messages out to every sink in parallel. A failed delivery
// is logged and dropped; it never affects other recipients or the caller.
type Dispatcher struct {
	logg        *logger.Logger
	sinks       []Sink
	metrics     *metrics.CampaignMetrics
	concurrency int
}

func NewDispatcher(params DispatcherParams) (*Dispatcher, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if len(params.Sinks) == 0 {
		return nil, fmt.Errorf("at least one notification sink required")
	}
	concurrency := params.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Dispatcher{
		logg:        params.Logger,
		sinks:       params.Sinks,
		metrics:     params.Metrics,
		concurrency: concurrency,
	}, nil
}

// Dispatch returns once every delivery attempt has finished. Delivery runs on
// a context detached from the caller's cancellation so an aborted request does
// not cut notifications short.
func (d *Dispatcher) Dispatch(ctx context.Context, msgs ...Message) {
	if len(msgs) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(d.concurrency)
	for _, msg := range msgs {
		for _, sink := range d.sinks {
			g.Go(func() error {
				d.deliver(ctx, sink, msg)
				return nil
			})
		}
	}
	_ = g.Wait()
}

func (d *Dispatcher) deliver(ctx context.Context, sink Sink, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			d.fail(ctx, sink, msg, fmt.Errorf("sink panicked: %v", r))
		}
	}()
	if err := sink.Deliver(ctx, msg); err != nil {
		d.fail(ctx, sink, msg, err)
	}
}

func (d *Dispatcher) fail(ctx context.Context, sink Sink, msg Message, err error) {
	d.metrics.IncSinkFailure(sink.Name())
	logCtx := d.logg.WithFields(ctx, map[string]any{
		"sink":         sink.Name(),
		"recipient_id": msg.RecipientID.String(),
		"campaign_id":  msg.CampaignID.String(),
		"type":         string(msg.Type),
	})
	d.logg.Error(logCtx, "notification delivery failed", err)
}
