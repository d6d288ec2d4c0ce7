package fares

import (
	"context"
	"sync"
	"time"

	"farefeed-api/core/domain"
	"farefeed-api/core/interfaces"
)

// Dispatcher runs one search per candidate instant concurrently and joins
// all outcomes before returning. Task results flow through a collector
// channel; no shared structure is mutated concurrently.
type Dispatcher struct {
	client   *Client
	selector Selector
	logger   interfaces.Logger

	// ContinueOnError converts fatal task errors into absent outcomes
	// instead of failing the whole query. Off by default: a partially
	// successful multi-date query is never silently returned as complete.
	ContinueOnError bool
}

// NewDispatcher creates a new dispatcher
func NewDispatcher(client *Client, selector Selector, logger interfaces.Logger) *Dispatcher {
	return &Dispatcher{
		client:   client,
		selector: selector,
		logger:   logger,
	}
}

// taskResult carries one task's outcome back to the collector.
type taskResult struct {
	index      int
	resolution domain.Resolution
	err        error
}

// Resolve fans out one resolution task per candidate instant and returns
// exactly one outcome per candidate, in the candidates' original order.
// In-flight searches are never force-terminated: on a fatal error every
// started task still runs to completion and only then is the error surfaced.
func (d *Dispatcher) Resolve(ctx context.Context, query domain.Query, instants []time.Time) ([]domain.Resolution, error) {
	if err := query.CheckDispatchable(); err != nil {
		return nil, err
	}

	results := make(chan taskResult, len(instants))
	var wg sync.WaitGroup

	for i, instant := range instants {
		wg.Add(1)
		go func(index int, instant time.Time) {
			defer wg.Done()
			results <- d.runTask(ctx, query, index, instant)
		}(i, instant)
	}

	wg.Wait()
	close(results)

	ordered := make([]domain.Resolution, len(instants))
	var fatal error

	for result := range results {
		if result.err != nil {
			if fatal == nil {
				fatal = result.err
			}
			ordered[result.index] = domain.Resolution{Instant: instants[result.index]}
			continue
		}
		ordered[result.index] = result.resolution
	}

	if fatal != nil && !d.ContinueOnError {
		return nil, fatal
	}

	return ordered, nil
}

// runTask resolves a single candidate instant.
func (d *Dispatcher) runTask(ctx context.Context, query domain.Query, index int, instant time.Time) taskResult {
	outcome, err := d.client.Search(ctx, query, instant)
	if err != nil {
		return taskResult{index: index, err: err}
	}

	var text string
	if outcome.NotFound {
		text = d.selector.NotFoundText
	} else {
		text = d.selector.Resolve(outcome.Journeys, instant)
	}

	d.logger.Debug("Candidate resolved", map[string]interface{}{
		"journey": query.Journey(),
		"instant": instant.Format("2006-01-02T15:04"),
		"fare":    text,
	})

	return taskResult{
		index:      index,
		resolution: domain.Resolution{Instant: instant, Text: text, OK: true},
	}
}
