// Package rawline is the entry point for reading records out of models
// held by a model.Manager.
package rawline

import (
	"context"
	"strconv"
	"strings"

	"github.com/opal-lang/rawline/core/format"
	"github.com/opal-lang/rawline/core/value"
	"github.com/opal-lang/rawline/internal/ctxlog"
	"github.com/opal-lang/rawline/runtime/decoder"
	"github.com/opal-lang/rawline/runtime/model"
)

// API decodes records from the models of one Manager.
type API struct {
	manager *model.Manager
	opts    []decoder.Option
}

// New returns an API over manager. opts apply to every decode.
func New(manager *model.Manager, opts ...decoder.Option) *API {
	return &API{manager: manager, opts: opts}
}

// Manager returns the manager the API reads from.
func (a *API) Manager() *model.Manager { return a.manager }

// GetRawLineData decodes record id of model modelID. A closed model or an
// absent record yields the empty record.
func (a *API) GetRawLineData(modelID model.ID, id uint32) (value.Record, error) {
	l, open := a.manager.Loader(modelID)
	if !open {
		return value.EmptyRecord(), nil
	}
	return decoder.GetRecord(l, a.manager.Schema(), open, id, a.opts...)
}

// GetRawLinesData decodes ids in order; see decoder.GetRecords.
func (a *API) GetRawLinesData(modelID model.ID, ids []uint32) ([]value.Record, error) {
	l, open := a.manager.Loader(modelID)
	if !open {
		return emptyRecords(len(ids)), nil
	}
	return decoder.GetRecords(l, a.manager.Schema(), open, ids, a.opts...)
}

// GetRawLinesDataConcurrent is GetRawLinesData decoded by up to workers
// goroutines.
func (a *API) GetRawLinesDataConcurrent(ctx context.Context, modelID model.ID, ids []uint32, workers int) ([]value.Record, error) {
	l, open := a.manager.Loader(modelID)
	if !open {
		return emptyRecords(len(ids)), nil
	}
	ctxlog.FromContext(ctx).Debug("decoding records", "model", modelID, "records", len(ids), "workers", workers)
	return decoder.GetRecordsConcurrent(ctx, l, a.manager.Schema(), open, ids, workers, a.opts...)
}

// GetLineText renders record id as #id=NAME(...); straight from the token
// stream, without building a tree. An absent record renders as "".
func (a *API) GetLineText(modelID model.ID, id uint32) (string, error) {
	l, open := a.manager.Loader(modelID)
	if !open || !l.IsValidExpressID(id) {
		return "", nil
	}
	code := l.LineType(id)
	if code == 0 {
		return "", nil
	}

	names := a.manager.Schema()
	sink := decoder.NewTextSink(names)
	l.MoveToArgumentOffset(id, 0)
	term, err := decoder.Decode(l, names, sink, a.opts...)
	if err != nil {
		return "", &decoder.RecordError{ID: id, Err: err}
	}
	if term != decoder.TermListEnd {
		return "", &decoder.RecordError{ID: id, Err: &decoder.Error{Pos: l.Position(), Err: decoder.ErrUnbalanced}}
	}

	var b strings.Builder
	b.WriteByte('#')
	b.WriteString(strconv.FormatUint(uint64(id), 10))
	b.WriteByte('=')
	b.WriteString(format.LabelName(code, names))
	b.WriteString(sink.String())
	b.WriteByte(';')
	return b.String(), nil
}

// ExpressIDs returns the record ids of model modelID, optionally limited
// to one type code (0 means all).
func (a *API) ExpressIDs(modelID model.ID, typeCode uint32) []uint32 {
	l, open := a.manager.Loader(modelID)
	if !open {
		return nil
	}
	if typeCode == 0 {
		return l.ExpressIDs()
	}
	return l.ExpressIDsWithType(typeCode)
}

func emptyRecords(n int) []value.Record {
	out := make([]value.Record, n)
	for i := range out {
		out[i] = value.EmptyRecord()
	}
	return out
}
