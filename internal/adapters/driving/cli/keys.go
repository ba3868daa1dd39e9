package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
)

// resolveKey expands a unique key prefix into the full event key.
// Visible events are searched first; deleted ones only when deleted is true.
// An unmatched argument is returned unchanged so the service reports it.
func resolveKey(ctx context.Context, arg string, deleted bool) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("%w: key is required", domain.ErrInvalidInput)
	}

	var candidates []string
	if deleted {
		if eventService == nil {
			return arg, nil
		}
		tombstones, err := eventService.Tombstones(ctx)
		if err != nil {
			return "", err
		}
		for _, t := range tombstones {
			candidates = append(candidates, t.Key)
		}
	} else {
		view, err := dashboard.View(ctx, time.Now())
		if err != nil {
			return "", err
		}
		for _, ev := range view.Events {
			candidates = append(candidates, ev.Key)
		}
	}

	var matches []string
	for _, key := range candidates {
		if key == arg {
			return key, nil
		}
		if strings.HasPrefix(key, arg) {
			matches = append(matches, key)
		}
	}

	switch len(matches) {
	case 0:
		return arg, nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: key %q matches %d events", domain.ErrInvalidInput, arg, len(matches))
	}
}
