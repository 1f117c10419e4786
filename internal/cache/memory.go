package cache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dotcommander/innerscope/internal/scoring"
)

// DefaultMemorySize is used when NewMemory is given a non-positive size.
const DefaultMemorySize = 256

// Memory is a bounded in-process LRU of reports.
type Memory struct {
	lru *lru.Cache[string, *scoring.Report]
}

// NewMemory creates an LRU holding at most size reports.
func NewMemory(size int) (*Memory, error) {
	if size <= 0 {
		size = DefaultMemorySize
	}
	c, err := lru.New[string, *scoring.Report](size)
	if err != nil {
		return nil, fmt.Errorf("create report lru: %w", err)
	}
	return &Memory{lru: c}, nil
}

// Get returns a deep copy of the stored report.
func (m *Memory) Get(_ context.Context, id string) (*scoring.Report, bool, error) {
	r, ok := m.lru.Get(id)
	if !ok {
		return nil, false, nil
	}
	return r.Clone(), true, nil
}

// Set stores a deep copy of report, so later changes by the caller do not
// reach the cache.
func (m *Memory) Set(_ context.Context, report *scoring.Report) error {
	if report == nil || report.Metadata.ReportID == "" {
		return fmt.Errorf("report has no id")
	}
	m.lru.Add(report.Metadata.ReportID, report.Clone())
	return nil
}

// Len reports the number of cached reports.
func (m *Memory) Len() int {
	return m.lru.Len()
}

var _ Cache = (*Memory)(nil)
