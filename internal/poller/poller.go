// Package poller drives the cursor-based update loop: fetch a batch at the
// cursor, dispatch it in order, advance past the highest id, repeat.
package poller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ibs-source/champions-bot/internal/config"
	"github.com/ibs-source/champions-bot/internal/dispatch"
	"github.com/ibs-source/champions-bot/internal/log"
	"github.com/ibs-source/champions-bot/internal/message"
)

var (
	// ErrConfigurationMissing is returned by Enable when the token or the termination phrase is unset
	ErrConfigurationMissing = errors.New("bot configuration missing")
	// ErrAlreadyRunning is returned by Run when another loop owns the cursor
	ErrAlreadyRunning = errors.New("update loop already running")
	// ErrCyclePanic wraps a panic recovered at the cycle boundary
	ErrCyclePanic = errors.New("poll cycle panicked")
)

// Fetcher retrieves a batch of at most limit updates starting at offset
type Fetcher interface {
	GetUpdates(ctx context.Context, offset int64, limit int) (message.Batch, error)
}

// Handler dispatches one message and delivers its reply
type Handler interface {
	Handle(ctx context.Context, msg message.Inbound) dispatch.Outcome
}

// Status is a point-in-time view of the loop
type Status struct {
	State  State `json:"state"`
	Cursor int64 `json:"cursor"`
}

// Poller owns the loop state and the cursor
type Poller struct {
	fetcher      Fetcher
	handler      Handler
	pageSize     int
	errorBackoff time.Duration
	maxFailures  int
	missing      []string
	wake         chan struct{}
	log          *log.Logger

	mu       sync.Mutex
	state    State
	cursor   int64
	loopDone chan struct{} // Closed when the active Run returns; nil when idle
}

// New creates a stopped Poller with the cursor at 0
func New(fetcher Fetcher, handler Handler, cfg *config.Config, logger *log.Logger) *Poller {
	var missing []string
	if cfg.Telegram.Token == "" {
		missing = append(missing, "telegram token")
	}
	if cfg.Bot.Secret == "" {
		missing = append(missing, "termination secret")
	}

	return &Poller{
		fetcher:      fetcher,
		handler:      handler,
		pageSize:     cfg.Telegram.PageSize,
		errorBackoff: cfg.Pipeline.ErrorBackoff,
		maxFailures:  cfg.Pipeline.MaxConsecutiveFailures,
		missing:      missing,
		wake:         make(chan struct{}, 1),
		log:          logger,
		state:        StateStopped,
	}
}

// Enable moves the loop to Running. A stopped loop is woken up and resumes
// at the current cursor; a draining loop is re-armed and keeps going.
func (p *Poller) Enable() error {
	if len(p.missing) > 0 {
		p.log.Error("Cannot enable the bot: %s not configured", strings.Join(p.missing, " and "))
		return fmt.Errorf("%w: %s", ErrConfigurationMissing, strings.Join(p.missing, ", "))
	}

	p.mu.Lock()
	prev := p.state
	p.state = StateRunning
	cursor := p.cursor
	p.mu.Unlock()

	switch prev {
	case StateStopped:
		p.log.Info("Bot enabled at cursor %d", cursor)
		select {
		case p.wake <- struct{}{}:
		default:
		}
	case StateDraining:
		p.log.Info("Bot re-enabled while draining")
	}
	return nil
}

// RequestStop asks a running loop to stop. The current batch is finished and
// the loop exits at the top of the next cycle without fetching.
func (p *Poller) RequestStop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateRunning {
		p.state = StateDraining
		p.log.Info("Stop requested, draining current batch")
	}
}

// State returns the current loop state
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Cursor returns the offset of the next unprocessed update
func (p *Poller) Cursor() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

// Status returns state and cursor read together
func (p *Poller) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Status{State: p.state, Cursor: p.cursor}
}

// Wait blocks until no loop is active or ctx is done
func (p *Poller) Wait(ctx context.Context) error {
	p.mu.Lock()
	done := p.loopDone
	p.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Serve runs the loop every time Enable wakes it, until ctx is done
func (p *Poller) Serve(ctx context.Context) error {
	p.log.Info("Update loop waiting for enable")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.wake:
			err := p.Run(ctx, p.Cursor(), p.pageSize)
			switch {
			case err == nil:
				p.log.Info("Update loop stopped at cursor %d", p.Cursor())
			case errors.Is(err, context.Canceled):
				return err
			default:
				p.log.Error("Update loop stopped: %v", err)
			}
		}
	}
}

// Run drives fetch, dispatch and advance cycles starting at cursor until the
// state leaves Running, ctx is done or too many cycles fail in a row. The
// state is Stopped when Run returns.
func (p *Poller) Run(ctx context.Context, cursor int64, pageSize int) error {
	done := make(chan struct{})

	p.mu.Lock()
	if p.loopDone != nil {
		p.mu.Unlock()
		return ErrAlreadyRunning
	}
	p.cursor = cursor
	p.loopDone = done
	p.mu.Unlock()

	failures := 0
	for {
		// The stop flag is read once, here, before the fetch
		offset, ok := p.beginCycle(done)
		if !ok {
			return nil
		}
		if err := ctx.Err(); err != nil {
			p.finish(done)
			return err
		}

		cycleID := uuid.NewString()
		fields := logrus.Fields{"cycle": cycleID, "cursor": offset}

		next, handled, err := p.cycle(ctx, offset, pageSize)
		if err != nil {
			failures++
			fields["failures"] = failures
			p.log.ErrorWithFields(fields, "Poll cycle failed: %v", err)
			if failures >= p.maxFailures {
				p.finish(done)
				return fmt.Errorf("%d consecutive poll failures: %w", failures, err)
			}
			if !p.backoff(ctx) {
				p.finish(done)
				return ctx.Err()
			}
			continue
		}
		failures = 0

		if handled > 0 {
			fields["next"] = next
			p.log.InfoWithFields(fields, "Processed %d messages", handled)
		} else {
			p.log.DebugWithFields(fields, "Empty poll cycle")
		}
		p.advance(next)
	}
}

// beginCycle returns the cursor when the loop should keep going. Otherwise it
// records Stopped and releases the loop, atomically with the state check.
func (p *Poller) beginCycle(done chan struct{}) (int64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateRunning {
		p.state = StateStopped
		p.loopDone = nil
		close(done)
		return 0, false
	}
	return p.cursor, true
}

func (p *Poller) finish(done chan struct{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = StateStopped
	p.loopDone = nil
	close(done)
}

// advance moves the cursor forward; it never decreases
func (p *Poller) advance(next int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if next > p.cursor {
		p.cursor = next
	}
}

func (p *Poller) backoff(ctx context.Context) bool {
	if p.errorBackoff <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(p.errorBackoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// cycle fetches one batch and dispatches it in arrival order. It returns the
// next cursor, max id + 1 or the unchanged cursor for an empty batch. A panic
// is reported as an error so the cursor stays where it was.
func (p *Poller) cycle(ctx context.Context, cursor int64, pageSize int) (next int64, handled int, err error) {
	defer func() {
		if r := recover(); r != nil {
			next, handled, err = cursor, 0, fmt.Errorf("%w: %v", ErrCyclePanic, r)
		}
	}()

	batch, err := p.fetcher.GetUpdates(ctx, cursor, pageSize)
	if err != nil {
		return cursor, 0, err
	}

	for _, msg := range batch.Items {
		out := p.handler.Handle(ctx, msg)
		if out.Stop {
			p.RequestStop()
		}
		handled++
	}

	next = cursor
	if maxID, ok := batch.MaxID(); ok && maxID+1 > next {
		next = maxID + 1
	}
	return next, handled, nil
}
