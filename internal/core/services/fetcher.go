package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driven"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driving"
	"github.com/custodia-labs/proemail-cli/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driving.Fetcher = (*Fetcher)(nil)

// FetchOptions configures a Fetcher.
type FetchOptions struct {
	// MaxAttempts bounds how often the unread listing is tried per cycle.
	MaxAttempts int

	// RetryDelay is the pause between listing attempts.
	RetryDelay time.Duration

	// MessageCap bounds how many distinct messages are processed per cycle.
	MessageCap int
}

// DefaultFetchOptions returns the defaults used when settings are absent.
func DefaultFetchOptions() FetchOptions {
	return FetchOptions{
		MaxAttempts: 3,
		RetryDelay:  time.Second,
		MessageCap:  10,
	}
}

// listWarning is shown once when the unread listing gives up.
const listWarning = "Could not reach the mail backend. Showing saved events only."

// Fetcher lists unread mail, extracts events and forwards them to a calendar.
type Fetcher struct {
	backend   driven.Backend
	calendar  driven.CalendarSink
	presenter driven.Presenter
	opts      FetchOptions
}

// NewFetcher creates a fetcher. calendar and presenter may be nil.
func NewFetcher(
	backend driven.Backend,
	calendar driven.CalendarSink,
	presenter driven.Presenter,
	opts FetchOptions,
) *Fetcher {
	defaults := DefaultFetchOptions()
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaults.MaxAttempts
	}
	if opts.RetryDelay < 0 {
		opts.RetryDelay = 0
	}
	if opts.MessageCap <= 0 {
		opts.MessageCap = defaults.MessageCap
	}
	return &Fetcher{
		backend:   backend,
		calendar:  calendar,
		presenter: presenter,
		opts:      opts,
	}
}

// ListUnread lists unread messages with bounded retry.
// After the final failed attempt it shows one warning and returns an empty
// slice without error. An expired token is returned immediately.
func (f *Fetcher) ListUnread(ctx context.Context) ([]domain.MessageRef, error) {
	refs, warning, err := f.listUnread(ctx)
	if warning != "" {
		f.warn(warning)
	}
	return refs, err
}

func (f *Fetcher) listUnread(ctx context.Context) ([]domain.MessageRef, string, error) {
	var lastErr error
	for attempt := 1; attempt <= f.opts.MaxAttempts; attempt++ {
		refs, err := f.backend.ListUnread(ctx)
		if err == nil {
			logger.Debug("Listed %d unread messages", len(refs))
			return refs, "", nil
		}
		if errors.Is(err, domain.ErrAuthExpired) {
			return nil, "", err
		}
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}

		lastErr = err
		logger.Warn("List unread attempt %d/%d failed: %v", attempt, f.opts.MaxAttempts, err)

		if attempt < f.opts.MaxAttempts {
			select {
			case <-ctx.Done():
				return nil, "", ctx.Err()
			case <-time.After(f.opts.RetryDelay):
			}
		}
	}

	logger.Warn("Giving up on unread listing: %v", lastErr)
	return []domain.MessageRef{}, listWarning, nil
}

// ExtractEvents extracts events from one message and stamps them as fetched.
func (f *Fetcher) ExtractEvents(ctx context.Context, messageID string) ([]domain.Event, error) {
	events, err := f.backend.ExtractEvents(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("extract events from %s: %w", messageID, err)
	}

	for i := range events {
		ev := &events[i]
		ev.Origin = domain.OriginFetched
		ev.ExternalID = messageID
		ev.ID = FetchedEventID(messageID, ev)
	}
	return events, nil
}

// RunCycle runs one fetch cycle.
//
// Duplicate message IDs are skipped and at most MessageCap distinct
// messages are processed, in listing order. A failed extraction is logged
// and skipped without counting against the cap. An expired token aborts the cycle with domain.ErrAuthExpired;
// the partial report is still returned.
func (f *Fetcher) RunCycle(ctx context.Context) (*domain.CycleReport, error) {
	logger.Section("Fetch Cycle")

	report := &domain.CycleReport{}
	refs, warning, err := f.listUnread(ctx)
	if err != nil {
		return report, err
	}
	if warning != "" {
		report.Warning = warning
		f.warn(warning)
	}
	report.Listed = len(refs)

	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		if seen[ref.ID] || report.Processed >= f.opts.MessageCap {
			report.Skipped++
			continue
		}
		seen[ref.ID] = true

		if err := ctx.Err(); err != nil {
			return report, err
		}

		events, err := f.ExtractEvents(ctx, ref.ID)
		if err != nil {
			if errors.Is(err, domain.ErrAuthExpired) {
				return report, err
			}
			logger.Warn("Skipping message %s: %v", ref.ID, err)
			report.Failed++
			continue
		}
		report.Processed++
		logger.Debug("Message %s yielded %d events", ref.ID, len(events))

		for i := range events {
			report.Events = append(report.Events, events[i])
			if err := f.forward(ctx, &events[i], report); err != nil {
				return report, err
			}
		}
	}

	logger.Info("Cycle done: listed=%d processed=%d failed=%d skipped=%d events=%d",
		report.Listed, report.Processed, report.Failed, report.Skipped, len(report.Events))
	return report, nil
}

// forward sends one event to the calendar sink. Only an expired token is
// returned; other failures are counted.
func (f *Fetcher) forward(ctx context.Context, ev *domain.Event, report *domain.CycleReport) error {
	if f.calendar == nil {
		return nil
	}
	err := f.calendar.AddEvent(ctx, ev)
	switch {
	case err == nil:
		report.CalendarAdded++
	case errors.Is(err, domain.ErrAuthExpired):
		return err
	default:
		logger.Warn("Calendar insert for %q failed: %v", ev.Name, err)
		report.CalendarFailed++
	}
	return nil
}

func (f *Fetcher) warn(message string) {
	if f.presenter != nil {
		f.presenter.Warn(message)
	}
}
