package ringsig

import (
	"context"
	"fmt"
	"runtime"

	"github.com/taurusgroup/linkable-ring-sig/pkg/keys"
	"golang.org/x/sync/errgroup"
)

// BatchItem is one signature to check with VerifyBatch.
type BatchItem struct {
	Signature *Signature
	Ring      []keys.PublicKey
	Message   []byte
}

// VerifyBatch verifies many signatures concurrently.
//
// results[i] is the outcome of Verify on items[i]. The first malformed item, or the
// cancellation of ctx, stops the batch and its error is returned.
func (e *Engine) VerifyBatch(ctx context.Context, items []BatchItem) ([]bool, error) {
	results := make([]bool, len(items))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := range items {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ok, err := e.Verify(items[i].Signature, items[i].Ring, items[i].Message)
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			results[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ringsig.VerifyBatch: %w", err)
	}
	return results, nil
}

// VerifyBatch calls VerifyBatch on an Engine with default options.
func VerifyBatch(ctx context.Context, items []BatchItem) ([]bool, error) {
	return defaultEngine.VerifyBatch(ctx, items)
}
