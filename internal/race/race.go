// Package race implements the model race arbiter: a fixed set of
// provider adapters is raced concurrently for one prompt, and the race
// resolves as soon as a quorum of successful, non-empty responses has
// arrived, or at a hard deadline with the best partial result.
package race

import (
	"context"
	"log"
	"time"

	"github.com/ShayCichocki/deepthink/internal/provider"
)

// TimeoutSentinel is returned as content when no provider produced any
// usable response before the global deadline.
const TimeoutSentinel = "Models timed out before producing a response. Please try again."

// SentinelProvider is the provider name reported with TimeoutSentinel.
const SentinelProvider = "none"

// Result is one settled provider response, or the timeout sentinel.
type Result struct {
	// Provider is the name of the adapter that produced the content.
	Provider string
	// Content is the response text.
	Content string
	// Latency is measured from race start to this response's arrival.
	Latency time.Duration
}

// Options configures an Arbiter.
type Options struct {
	// ProviderTimeout bounds each individual adapter call.
	ProviderTimeout time.Duration
	// GlobalDeadline bounds the whole race.
	GlobalDeadline time.Duration
	// Quorum is the number of successful responses that short-circuits
	// the race. Majority-of-N arbitration trades pure correctness for
	// latency: the race never waits for the straggler tail, and content
	// length stands in as a cheap completeness heuristic.
	Quorum int
}

// DefaultOptions returns the standard race configuration.
func DefaultOptions() Options {
	return Options{
		ProviderTimeout: 15 * time.Second,
		GlobalDeadline:  20 * time.Second,
		Quorum:          4,
	}
}

// Arbiter races a fixed adapter set. It is stateless between races and
// safe for concurrent use.
type Arbiter struct {
	adapters []provider.Adapter
	opts     Options
}

// NewArbiter creates an Arbiter over the given adapters.
func NewArbiter(adapters []provider.Adapter, opts Options) *Arbiter {
	if opts.ProviderTimeout <= 0 {
		opts.ProviderTimeout = DefaultOptions().ProviderTimeout
	}
	if opts.GlobalDeadline <= 0 {
		opts.GlobalDeadline = DefaultOptions().GlobalDeadline
	}
	if opts.Quorum <= 0 {
		opts.Quorum = DefaultOptions().Quorum
	}
	return &Arbiter{adapters: adapters, opts: opts}
}

// settled carries one adapter outcome back to the race loop.
type settled struct {
	result Result
	ok     bool
}

// Race runs all adapters concurrently for the prompt and returns the
// winning result. It resolves, in order of precedence:
//   - as soon as Quorum successful non-empty responses have arrived,
//     returning the longest of them;
//   - when every adapter has settled, returning the longest success;
//   - at the global deadline, returning the longest success so far.
//
// If nothing succeeded, the timeout sentinel is returned. Race never
// returns an error; provider failures are absorbed here. Once the race
// resolves, the shared call context is cancelled so outstanding
// requests are torn down rather than left running.
func (a *Arbiter) Race(ctx context.Context, prompt, system string) Result {
	start := time.Now()

	if len(a.adapters) == 0 {
		return Result{Provider: SentinelProvider, Content: TimeoutSentinel}
	}

	raceCtx, cancel := context.WithTimeout(ctx, a.opts.GlobalDeadline)
	defer cancel()

	settledCh := make(chan settled, len(a.adapters))
	req := provider.Request{Prompt: prompt, System: system}

	for _, adapter := range a.adapters {
		go func(adapter provider.Adapter) {
			callCtx, callCancel := context.WithTimeout(raceCtx, a.opts.ProviderTimeout)
			defer callCancel()

			content, err := adapter.Generate(callCtx, req)
			if err != nil || content == "" {
				// A failed or timed-out call contributes nothing to quorum.
				settledCh <- settled{ok: false}
				return
			}
			settledCh <- settled{
				result: Result{
					Provider: adapter.Name(),
					Content:  content,
					Latency:  time.Since(start),
				},
				ok: true,
			}
		}(adapter)
	}

	var successes []Result
	settledCount := 0

	for {
		select {
		case s := <-settledCh:
			settledCount++
			if s.ok {
				successes = append(successes, s.result)
			}
			if len(successes) >= a.opts.Quorum {
				winner := longest(successes)
				debugLog("[race] quorum of %d reached in %s, winner %s", a.opts.Quorum, time.Since(start), winner.Provider)
				return winner
			}
			if settledCount == len(a.adapters) {
				return a.resolvePartial(successes, start)
			}

		case <-raceCtx.Done():
			return a.resolvePartial(successes, start)
		}
	}
}

// resolvePartial returns the best available result, or the sentinel when
// nothing arrived at all.
func (a *Arbiter) resolvePartial(successes []Result, start time.Time) Result {
	if len(successes) == 0 {
		log.Printf("[race] no provider responded within %s", a.opts.GlobalDeadline)
		return Result{Provider: SentinelProvider, Content: TimeoutSentinel, Latency: time.Since(start)}
	}
	winner := longest(successes)
	debugLog("[race] resolved with %d/%d responses after %s, winner %s", len(successes), len(a.adapters), time.Since(start), winner.Provider)
	return winner
}

// longest selects the result with the longest content. Length is a proxy
// for completeness, not a content-quality score. Ties keep the earlier
// arrival.
func longest(results []Result) Result {
	best := results[0]
	for _, r := range results[1:] {
		if len(r.Content) > len(best.Content) {
			best = r
		}
	}
	return best
}
