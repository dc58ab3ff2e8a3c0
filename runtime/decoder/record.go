package decoder

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/opal-lang/rawline/core/invariant"
	"github.com/opal-lang/rawline/core/schema"
	"github.com/opal-lang/rawline/core/value"
)

// RecordSource is a Source that can locate records by express id.
type RecordSource interface {
	Source
	IsValidExpressID(id uint32) bool
	LineType(id uint32) uint32
	MoveToArgumentOffset(id uint32, n int)
}

// Cloner is a RecordSource that hands out independent cursors over the
// same tokens.
type Cloner[S any] interface {
	RecordSource
	Clone() S
}

// GetRecord decodes record id. A closed model, an unknown id or an
// unresolved type yields value.EmptyRecord() and no error. Decode failures
// return the empty record with a *RecordError.
func GetRecord(src RecordSource, resolver schema.Resolver, modelOpen bool, id uint32, opts ...Option) (value.Record, error) {
	if !modelOpen || !src.IsValidExpressID(id) {
		return value.EmptyRecord(), nil
	}
	code := src.LineType(id)
	if code == schema.Unknown {
		return value.EmptyRecord(), nil
	}

	src.MoveToArgumentOffset(id, 0)
	args, term, err := DecodeArguments(src, resolver, opts...)
	if err != nil {
		return value.EmptyRecord(), &RecordError{ID: id, Err: err}
	}
	if term != TermListEnd {
		err := &Error{Pos: src.Position(), Err: fmt.Errorf("%w: argument list closed by %s", ErrUnbalanced, term)}
		return value.EmptyRecord(), &RecordError{ID: id, Err: err}
	}
	return value.NewRecord(id, code, args), nil
}

// GetRecords decodes ids in order. Every id gets a slot; ids that are
// absent or fail to decode hold the empty record. Failures are joined into
// the returned error, one *RecordError each.
func GetRecords(src RecordSource, resolver schema.Resolver, modelOpen bool, ids []uint32, opts ...Option) ([]value.Record, error) {
	records := make([]value.Record, len(ids))
	var errs []error
	for i, id := range ids {
		rec, err := GetRecord(src, resolver, modelOpen, id, opts...)
		records[i] = rec
		if err != nil {
			errs = append(errs, err)
		}
	}
	return records, errors.Join(errs...)
}

// GetRecordsConcurrent is GetRecords spread over up to workers goroutines,
// each decoding a contiguous chunk of ids on its own clone of src. The
// result has the same order and error shape as GetRecords; the only other
// error is ctx's. opts are shared by all workers, so a skip hook must be
// safe for concurrent use and WithTelemetry must not be passed.
func GetRecordsConcurrent[S Cloner[S]](ctx context.Context, src S, resolver schema.Resolver, modelOpen bool, ids []uint32, workers int, opts ...Option) ([]value.Record, error) {
	invariant.Precondition(workers > 0, "GetRecordsConcurrent: workers must be positive, got %d", workers)

	records := make([]value.Record, len(ids))
	errs := make([]error, len(ids))
	chunk := (len(ids) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < len(ids); start += chunk {
		end := min(start+chunk, len(ids))
		cursor := src.Clone()
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				records[i], errs[i] = GetRecord(cursor, resolver, modelOpen, ids[i], opts...)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, errors.Join(errs...)
}
