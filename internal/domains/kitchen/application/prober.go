package application

import (
	"context"
	"errors"

	"golang.org/x/sync/semaphore"

	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/domain"
	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/ports"
)

// ProbeStatus classifies the outcome of one probe run.
type ProbeStatus int

const (
	// StatusFound means a probe returned a valid image.
	StatusFound ProbeStatus = iota
	// StatusCleanMiss means every probed date answered a definitive 404 in
	// both URL orderings. Only this outcome may feed a notfound marker.
	StatusCleanMiss
	// StatusDirtyMiss means no image was found but at least one probe did
	// not produce a definitive answer; absence is not established.
	StatusDirtyMiss
	// StatusUnreachable means every probe failed outright without a single
	// definitive 404 or success.
	StatusUnreachable
)

// ProbeReport is the result of probing one pair across a set of dates.
type ProbeReport struct {
	Status     ProbeStatus
	Image      []byte
	SourceDate domain.CandidateDate
	// Probed lists the dates the run attempted; for a clean miss every one
	// of them is known to have no image.
	Probed []domain.CandidateDate
}

// Prober drives concurrent CDN probes for one pair under a process-wide
// concurrency budget. The semaphore is shared across every resolution in
// flight, so the total number of simultaneous CDN requests stays bounded no
// matter how many pairs resolve at once.
type Prober struct {
	fetcher ports.ImageFetcher
	urls    ports.URLBuilder
	limiter *semaphore.Weighted
}

// NewProber wires a prober with a global in-flight request ceiling.
func NewProber(fetcher ports.ImageFetcher, urls ports.URLBuilder, maxInFlight int64) *Prober {
	if maxInFlight <= 0 {
		maxInFlight = 4
	}
	return &Prober{fetcher: fetcher, urls: urls, limiter: semaphore.NewWeighted(maxInFlight)}
}

type probeResult struct {
	date  domain.CandidateDate
	image []byte
	err   error
}

// Probe fans out one request per (date, URL ordering), newest date first in
// launch order, and returns on the first success. Remaining in-flight probes
// are cancelled best-effort; a late success is discarded. No date is ever
// retried: a failed probe simply removes that date from contention for this
// run.
func (p *Prober) Probe(ctx context.Context, pair domain.EmojiPair, dates []domain.CandidateDate) ProbeReport {
	if len(dates) == 0 {
		return ProbeReport{Status: StatusDirtyMiss}
	}
	probeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type task struct {
		date domain.CandidateDate
		url  string
	}
	var tasks []task
	for _, date := range dates {
		for _, url := range p.urls.BuildURLs(pair, date) {
			tasks = append(tasks, task{date: date, url: url})
		}
	}
	perDate := len(tasks) / len(dates)

	// Buffered so probes finishing after an early return never block.
	results := make(chan probeResult, len(tasks))
	for _, t := range tasks {
		go func(t task) {
			if err := p.limiter.Acquire(probeCtx, 1); err != nil {
				results <- probeResult{date: t.date, err: err}
				return
			}
			defer p.limiter.Release(1)
			image, err := p.fetcher.Fetch(probeCtx, t.url)
			results <- probeResult{date: t.date, image: image, err: err}
		}(t)
	}

	misses := make(map[domain.CandidateDate]int, len(dates))
	failures := 0
	cancelled := 0
	rateLimited := false
	for range tasks {
		res := <-results
		switch {
		case res.err == nil:
			cancel()
			return ProbeReport{Status: StatusFound, Image: res.image, SourceDate: res.date, Probed: dates}
		case errors.Is(res.err, ports.ErrNoImage):
			misses[res.date]++
		case errors.Is(res.err, context.Canceled):
			cancelled++
		default:
			failures++
			if errors.Is(res.err, ports.ErrRateLimited) {
				rateLimited = true
				cancel()
			}
		}
	}

	clean := true
	for _, date := range dates {
		if misses[date] != perDate {
			clean = false
			break
		}
	}
	switch {
	case clean:
		return ProbeReport{Status: StatusCleanMiss, Probed: dates}
	case failures > 0 && len(misses) == 0 && cancelled == 0 && !rateLimited:
		return ProbeReport{Status: StatusUnreachable, Probed: dates}
	default:
		return ProbeReport{Status: StatusDirtyMiss, Probed: dates}
	}
}
