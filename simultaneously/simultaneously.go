// Package simultaneously provides parallel transformation functions for the
// sorted containers. Each function applies a transform to every element of
// an input container concurrently and collects the results into a new
// container; the input is only read, never mutated, so the containers'
// single-threaded mutation contract is preserved.
//
// The maxConcurrent parameter limits the number of concurrent transform
// invocations. If any transform returns an error, the operation stops and
// returns that error; panics inside transforms are recovered by the worker
// pool and surfaced as errors.
package simultaneously

import (
	"context"

	"github.com/alitto/pond/v2"

	"github.com/lovelysets/containers/compare"
	"github.com/lovelysets/containers/sortedmap"
	"github.com/lovelysets/containers/sortedset"
)

// MapSet transforms a sorted set by applying transform to each value in
// parallel, producing a new sorted set ordered by the given comparator.
// This is the non-context version that uses context.Background(); see
// MapSetCtx for cancellation support.
func MapSet[In, Out any](
	maxConcurrent int,
	input *sortedset.Set[In],
	cmp compare.Func[Out],
	transform func(ctx context.Context, value In) (Out, error),
) (*sortedset.Set[Out], error) {
	return MapSetCtx(context.Background(), maxConcurrent, input, cmp, transform)
}

// MapSetCtx transforms a sorted set by applying transform to each value in
// parallel, producing a new sorted set ordered by the given comparator.
//
// Outputs that compare equal under the comparator collapse into one set
// entry, keeping the one whose input ordered first. Returns nil if the
// input set is nil.
func MapSetCtx[In, Out any](
	ctx context.Context,
	maxConcurrent int,
	input *sortedset.Set[In],
	cmp compare.Func[Out],
	transform func(ctx context.Context, value In) (Out, error),
) (*sortedset.Set[Out], error) {
	if input == nil {
		return nil, nil //nolint:nilnil // nil in, nil out
	}

	outputs, err := mapEntries(ctx, maxConcurrent, input.Entries(),
		func(ctx context.Context, value In) (Out, error) {
			return transform(ctx, value)
		})
	if err != nil {
		return nil, err
	}

	out := sortedset.New(cmp)
	out.AddAll(outputs...)

	return out, nil
}

// MapValues transforms a sorted map by applying transform to each entry in
// parallel, producing a new map with the same keys, the transformed values,
// and value ordering defined by the given comparator. This is the
// non-context version that uses context.Background().
func MapValues[K sortedmap.Key[K], In, Out any](
	maxConcurrent int,
	input *sortedmap.Map[K, In],
	cmp compare.Func[Out],
	transform func(ctx context.Context, key K, value In) (Out, error),
) (*sortedmap.Map[K, Out], error) {
	return MapValuesCtx(context.Background(), maxConcurrent, input, cmp, transform)
}

// MapValuesCtx transforms a sorted map by applying transform to each entry
// in parallel, producing a new map keyed and hashed like the input. Entries
// land in the output in the input's traversal order, so ties between equal
// output values preserve the input ordering. Returns nil if the input map
// is nil.
func MapValuesCtx[K sortedmap.Key[K], In, Out any](
	ctx context.Context,
	maxConcurrent int,
	input *sortedmap.Map[K, In],
	cmp compare.Func[Out],
	transform func(ctx context.Context, key K, value In) (Out, error),
) (*sortedmap.Map[K, Out], error) {
	if input == nil {
		return nil, nil //nolint:nilnil // nil in, nil out
	}

	entries := input.Entries()

	outputs, err := mapEntries(ctx, maxConcurrent, entries,
		func(ctx context.Context, entry sortedmap.Entry[K, In]) (Out, error) {
			return transform(ctx, entry.Key, entry.Value)
		})
	if err != nil {
		return nil, err
	}

	out := sortedmap.New[K, Out](input.HashFunction(), cmp)

	for i, entry := range entries {
		if err := out.Set(entry.Key, outputs[i]); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// mapEntries runs transform over the inputs on a bounded worker pool and
// returns the outputs in input order.
func mapEntries[In, Out any](
	ctx context.Context,
	maxConcurrent int,
	inputs []In,
	transform func(ctx context.Context, value In) (Out, error),
) ([]Out, error) {
	outputs := make([]Out, len(inputs))

	pool := pond.NewPool(maxConcurrent, pond.WithContext(ctx))
	defer pool.StopAndWait()

	group := pool.NewGroup()

	for i, value := range inputs {
		group.SubmitErr(func() error {
			out, err := transform(ctx, value)
			if err != nil {
				return err
			}

			outputs[i] = out

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return outputs, nil
}
