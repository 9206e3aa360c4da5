package guardrail

import (
	"context"
	"sync"
	"time"

	"github.com/estatewise/sentinel/pkg/domain/security"
	"github.com/estatewise/sentinel/pkg/infra/prometheus"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Event is the escalation notification delivered to alert sinks.
type Event struct {
	ID         uuid.UUID           `json:"id"`
	UserID     string              `json:"user_id"`
	Assessment security.Assessment `json:"assessment"`
	Timestamp  time.Time           `json:"timestamp"`
}

// Sink delivers one escalation event to an external channel. Sinks are
// external collaborators; delivery failure never changes a Decision.
type Sink interface {
	Name() string
	Send(ctx context.Context, evt *Event) error
}

// Notifier is what the pipeline depends on for escalations.
type Notifier interface {
	Notify(evt *Event)
}

// AsyncNotifier decouples alert delivery from the decision path: Notify is
// a non-blocking enqueue into a bounded channel drained by one worker.
// Overflow is counted, never silent, and never stalls the caller.
type AsyncNotifier struct {
	sinks   []Sink
	events  chan *Event
	timeout time.Duration
	done    chan struct{}
	wg      sync.WaitGroup
	logger  *logrus.Logger
}

func NewAsyncNotifier(sinks []Sink, queueSize int, deliveryTimeout time.Duration, logger *logrus.Logger) *AsyncNotifier {
	if queueSize <= 0 {
		queueSize = 64
	}
	if deliveryTimeout <= 0 {
		deliveryTimeout = 5 * time.Second
	}
	n := &AsyncNotifier{
		sinks:   sinks,
		events:  make(chan *Event, queueSize),
		timeout: deliveryTimeout,
		done:    make(chan struct{}),
		logger:  logger,
	}
	n.wg.Add(1)
	go n.run()
	return n
}

func (n *AsyncNotifier) Notify(evt *Event) {
	select {
	case n.events <- evt:
	default:
		prometheus.AlertsDroppedTotal.Inc()
		n.logger.WithFields(logrus.Fields{
			"user_id":  evt.UserID,
			"category": evt.Assessment.Category,
		}).Error("alert queue full, escalation notification dropped")
	}
}

func (n *AsyncNotifier) run() {
	defer n.wg.Done()
	for {
		select {
		case evt := <-n.events:
			n.deliver(evt)
		case <-n.done:
			for {
				select {
				case evt := <-n.events:
					n.deliver(evt)
				default:
					return
				}
			}
		}
	}
}

func (n *AsyncNotifier) deliver(evt *Event) {
	for _, sink := range n.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		err := sink.Send(ctx, evt)
		cancel()
		if err != nil {
			prometheus.AlertDeliveryFailuresTotal.WithLabelValues(sink.Name()).Inc()
			n.logger.WithError(err).WithFields(logrus.Fields{
				"sink":    sink.Name(),
				"user_id": evt.UserID,
			}).Error("failed to deliver escalation alert")
		}
	}
}

// Close drains queued events and stops the worker.
func (n *AsyncNotifier) Close() {
	close(n.done)
	n.wg.Wait()
}
