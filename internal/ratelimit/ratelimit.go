// Package ratelimit drives cmd/jp's --stream --rate batch mode: a Limiter
// wrapping golang.org/x/time/rate, plus RunStream, which reads
// newline-delimited JSON records from a reader, rate-limits how fast they
// are evaluated, and writes one JSON-encoded result per line.
package ratelimit

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"golang.org/x/time/rate"

	"github.com/jacoelho/jmespath/internal/ast"
	"github.com/jacoelho/jmespath/internal/interp"
	"github.com/jacoelho/jmespath/internal/value"
)

type Limiter struct {
	limiter *rate.Limiter
}

// New uses 0 or negative limit for no rate limiting.
func New(requestsPerSecond float64) *Limiter {
	if requestsPerSecond <= 0 {
		// No rate limiting - use a very high limit
		return &Limiter{
			limiter: rate.NewLimiter(rate.Inf, 1),
		}
	}

	// Allow burst of 1 request, meaning we can make one request immediately
	// but subsequent requests must wait according to the rate limit
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow is non-blocking and useful for checking throttling.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Reserve is for advanced rate limiting scenarios.
func (l *Limiter) Reserve() *rate.Reservation {
	return l.limiter.Reserve()
}

// SetLimit can be called at runtime.
func (l *Limiter) SetLimit(requestsPerSecond float64) {
	if requestsPerSecond <= 0 {
		l.limiter.SetLimit(rate.Inf)
	} else {
		l.limiter.SetLimit(rate.Limit(requestsPerSecond))
	}
}

func (l *Limiter) Limit() float64 {
	limit := l.limiter.Limit()
	if limit == rate.Inf {
		return 0 // Indicate no rate limiting
	}
	return float64(limit)
}

// EvalError marks a RunStream failure that happened while evaluating node
// against a record, as opposed to reading or decoding it, so callers can
// report it with a different exit code than a plain I/O failure.
type EvalError struct {
	Line int
	Err  error
}

func (e *EvalError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }
func (e *EvalError) Unwrap() error { return e.Err }

// RunStream evaluates node against each newline-delimited JSON document read
// from input, waiting on l between records, and writes one JSON-encoded
// result per line to out. It stops at the first decode, evaluation, or
// encode error, reporting the 1-based line number it failed on; an
// evaluation failure is returned as an *EvalError.
func RunStream(ctx context.Context, l *Limiter, node ast.Node, input io.Reader, out io.Writer) error {
	it := interp.New(nil)

	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		if err := l.Wait(ctx); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}

		data, err := value.DecodeJSONString(string(line))
		if err != nil {
			return fmt.Errorf("line %d: decode JSON: %w", lineNo, err)
		}

		result, err := it.Eval(node, data)
		if err != nil {
			return &EvalError{Line: lineNo, Err: err}
		}

		encoded, err := value.MarshalOrdered(result)
		if err != nil {
			return fmt.Errorf("line %d: encode result: %w", lineNo, err)
		}
		fmt.Fprintln(out, string(encoded))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
