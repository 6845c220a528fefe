// Package doctor runs diagnostic checks on a tenrec installation.
package doctor

import (
	"context"
	"fmt"
	"sync"
)

// Status is the outcome of a single check item, ordered by severity.
type Status int

const (
	StatusPass Status = iota
	StatusWarn
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Item is one line of a check result.
type Item struct {
	Label  string `json:"label"`
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func pass(label, detail string) Item { return Item{Label: label, Status: StatusPass, Detail: detail} }
func warn(label, detail string) Item { return Item{Label: label, Status: StatusWarn, Detail: detail} }
func fail(label, detail string) Item { return Item{Label: label, Status: StatusFail, Detail: detail} }

// Result groups the items reported by one check.
type Result struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

func (r *Result) add(items ...Item) {
	r.Items = append(r.Items, items...)
}

// Worst returns the most severe status in the result. An empty result
// passes.
func (r Result) Worst() Status {
	worst := StatusPass
	for _, item := range r.Items {
		worst = max(worst, item.Status)
	}
	return worst
}

// Check is a single diagnostic.
type Check interface {
	Name() string
	Run(ctx context.Context) Result
}

// RunAll runs the checks concurrently and returns their results in check
// order. A panicking check is reported as a failure.
func RunAll(ctx context.Context, checks []Check) []Result {
	results := make([]Result, len(checks))

	var wg sync.WaitGroup
	for i, check := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[i] = Result{Name: check.Name(), Items: []Item{fail("check", fmt.Sprint(r))}}
				}
			}()
			results[i] = check.Run(ctx)
		}()
	}
	wg.Wait()

	return results
}

// Counts tallies items by status across results.
type Counts struct {
	Passed int `json:"passed"`
	Warned int `json:"warned"`
	Failed int `json:"failed"`
}

// Healthy reports whether no item failed.
func (c Counts) Healthy() bool {
	return c.Failed == 0
}

// Summary counts the items of every result.
func Summary(results []Result) Counts {
	var c Counts
	for _, r := range results {
		for _, item := range r.Items {
			switch item.Status {
			case StatusPass:
				c.Passed++
			case StatusWarn:
				c.Warned++
			case StatusFail:
				c.Failed++
			}
		}
	}
	return c
}
