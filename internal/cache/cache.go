// Package cache memoizes generated reports by their deterministic report ID.
package cache

import (
	"context"

	"github.com/dotcommander/innerscope/internal/scoring"
)

// Cache stores reports keyed by Metadata.ReportID.
type Cache interface {
	Get(ctx context.Context, id string) (*scoring.Report, bool, error)
	Set(ctx context.Context, report *scoring.Report) error
}

// Tiered consults a fast in-process tier before a shared one. Hits in the
// shared tier are copied back into the fast tier.
type Tiered struct {
	fast   Cache
	shared Cache
}

// NewTiered combines two caches. Either may be nil.
func NewTiered(fast, shared Cache) *Tiered {
	return &Tiered{fast: fast, shared: shared}
}

// Get implements Cache.
func (t *Tiered) Get(ctx context.Context, id string) (*scoring.Report, bool, error) {
	if t.fast != nil {
		if r, ok, err := t.fast.Get(ctx, id); err == nil && ok {
			return r, true, nil
		}
	}
	if t.shared == nil {
		return nil, false, nil
	}
	r, ok, err := t.shared.Get(ctx, id)
	if err != nil || !ok {
		return nil, false, err
	}
	if t.fast != nil {
		_ = t.fast.Set(ctx, r)
	}
	return r, true, nil
}

// Set writes through to both tiers.
func (t *Tiered) Set(ctx context.Context, report *scoring.Report) error {
	if t.fast != nil {
		if err := t.fast.Set(ctx, report); err != nil {
			return err
		}
	}
	if t.shared != nil {
		return t.shared.Set(ctx, report)
	}
	return nil
}

var _ Cache = (*Tiered)(nil)
