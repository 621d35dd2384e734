// Package importer turns a notes file into free-text expense entries and
// submits them one by one.
package importer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds in-flight submissions so the upstream model is
// not flooded.
const DefaultConcurrency = 3

const maxLineLength = 1 << 16

var bullets = []string{"- ", "* ", "• ", "+ "}

// ReadEntries reads one expense per line. Blank lines, lines starting with
// '#' and leading list bullets are dropped.
func ReadEntries(r io.Reader) ([]string, error) {
	ur, err := utf8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	sc := bufio.NewScanner(ur)
	sc.Buffer(make([]byte, 0, 4096), maxLineLength)

	var entries []string

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		for _, b := range bullets {
			line = strings.TrimSpace(strings.TrimPrefix(line, b))
		}

		if line != "" {
			entries = append(entries, line)
		}
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read entries: %w", err)
	}

	return entries, nil
}

// Result is the outcome of submitting a single entry.
type Result struct {
	Line  int
	Input string
	Err   error
}

// Summary collects per-entry results in input order.
type Summary struct {
	Results []Result
}

func (s Summary) Failed() int {
	n := 0

	for _, r := range s.Results {
		if r.Err != nil {
			n++
		}
	}

	return n
}

func (s Summary) Succeeded() int {
	return len(s.Results) - s.Failed()
}

// SubmitFunc stores one free-text entry.
type SubmitFunc func(ctx context.Context, input string) error

// Run submits every entry with at most concurrency calls in flight. A
// failed entry does not stop the others; only ctx cancellation does, and
// entries never attempted carry the context error.
func Run(ctx context.Context, entries []string, concurrency int, submit SubmitFunc) (Summary, error) {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}

	results := make([]Result, len(entries))
	for i, input := range entries {
		results[i] = Result{Line: i + 1, Input: input, Err: context.Canceled}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := range results {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			results[i].Err = submit(gctx, results[i].Input)
			return nil
		})
	}

	_ = g.Wait()

	return Summary{Results: results}, ctx.Err()
}
