package main

import (
	"cmp"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/spf13/cobra"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/opal-lang/rawline/core/format"
	"github.com/opal-lang/rawline/core/schema"
	"github.com/opal-lang/rawline/core/value"
	"github.com/opal-lang/rawline/internal/ctxlog"
	"github.com/opal-lang/rawline/runtime/model"
)

func (a *app) dumpCmd() *cobra.Command {
	var (
		outFormat string
		typeName  string
		validate  bool
	)
	cmd := &cobra.Command{
		Use:   "dump FILE [ID...]",
		Short: "Print decoded records",
		Long: `Print decoded records as STEP text, JSON or canonical CBOR (hex).
Without IDs every record is printed, or every record of --type.
FILE may be - to read standard input.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			modelID, err := a.openModel(args[0])
			if err != nil {
				return err
			}
			ids, err := a.selectIDs(modelID, args[1:], typeName)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if outFormat == "text" {
				return a.dumpText(out, cmd.ErrOrStderr(), modelID, ids)
			}

			recs, decodeErr := a.api.GetRawLinesDataConcurrent(cmd.Context(), modelID, ids, a.cfg.Workers)
			if recs == nil {
				return decodeErr
			}
			for i, rec := range recs {
				if rec.IsEmpty() {
					continue
				}
				if err := a.writeRecord(out, rec, outFormat, validate); err != nil {
					return fmt.Errorf("record #%d: %w", ids[i], err)
				}
			}
			return decodeErr
		},
	}
	cmd.Flags().StringVarP(&outFormat, "format", "o", "text", "Output format: text, json or cbor")
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "Only records of this entity type")
	cmd.Flags().BoolVar(&validate, "validate", false, "Check JSON output against the record schema")
	return cmd
}

// dumpText streams each record through the text sink; no trees are built.
func (a *app) dumpText(out, errOut io.Writer, modelID model.ID, ids []uint32) error {
	var failed []error
	for _, id := range ids {
		line, err := a.api.GetLineText(modelID, id)
		if err != nil {
			failed = append(failed, err)
			continue
		}
		if line == "" {
			_, _ = fmt.Fprintf(errOut, "#%d: no such record\n", id)
			continue
		}
		_, _ = fmt.Fprintln(out, line)
	}
	return errors.Join(failed...)
}

func (a *app) writeRecord(out io.Writer, rec value.Record, outFormat string, validate bool) error {
	switch outFormat {
	case "json":
		data, err := format.JSONIndent(rec, a.manager.Schema())
		if err != nil {
			return err
		}
		if validate {
			if err := format.ValidateJSON(data); err != nil {
				return err
			}
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case "cbor":
		data, err := format.CanonicalCBOR(rec)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, hex.EncodeToString(data))
		return err
	default:
		return &CLIError{
			Message: fmt.Sprintf("unknown output format %q", outFormat),
			Hint:    "use --format text, json or cbor",
		}
	}
}

// selectIDs returns explicit ids, the ids of one type, or all ids.
func (a *app) selectIDs(modelID model.ID, args []string, typeName string) ([]uint32, error) {
	if len(args) > 0 {
		return parseIDs(args)
	}
	if typeName == "" {
		return a.api.ExpressIDs(modelID, 0), nil
	}
	code, err := a.typeCode(typeName)
	if err != nil {
		return nil, err
	}
	return a.api.ExpressIDs(modelID, code), nil
}

func (a *app) refsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refs FILE ID",
		Short: "List the records a record references, in argument order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := a.record(args[0], args[1])
			if err != nil {
				return err
			}
			for _, ref := range value.References(rec.Arguments()) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "#%d\n", ref)
			}
			return nil
		},
	}
}

func (a *app) digestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "digest FILE ID...",
		Short: "Print a BLAKE2b digest of each decoded record",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			modelID, err := a.openModel(args[0])
			if err != nil {
				return err
			}
			ids, err := parseIDs(args[1:])
			if err != nil {
				return err
			}
			recs, decodeErr := a.api.GetRawLinesData(modelID, ids)
			for i, rec := range recs {
				if rec.IsEmpty() {
					continue
				}
				digest, err := format.Digest(rec)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "#%d %s\n", ids[i], digest)
			}
			return decodeErr
		},
	}
}

// queryFunctions are available in query expressions.
var queryFunctions = map[string]function.Function{
	"length":     stdlib.LengthFunc,
	"upper":      stdlib.UpperFunc,
	"lower":      stdlib.LowerFunc,
	"contains":   stdlib.ContainsFunc,
	"flatten":    stdlib.FlattenFunc,
	"jsonencode": stdlib.JSONEncodeFunc,
}

func (a *app) queryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query FILE ID EXPR",
		Short: "Evaluate an HCL expression against a decoded record",
		Long: `Evaluate an HCL expression with the decoded record bound to "record".
The record has id, type, name and arguments attributes; arguments is a
tuple and typed labels are objects with type, typecode and value.

  rawline query model.ifc 5 'record.arguments[2]'
  rawline query model.ifc 5 'length(record.arguments)'`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := a.record(args[0], args[1])
			if err != nil {
				return err
			}
			result, err := evalQuery(args[2], format.RecordToCty(rec, a.manager.Schema()))
			if err != nil {
				return err
			}
			data, err := ctyjson.Marshal(result, result.Type())
			if err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func evalQuery(src string, record cty.Value) (cty.Value, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(src), "query", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return cty.NilVal, &CLIError{Message: "invalid query expression", Details: diags.Error()}
	}
	ctx := &hcl.EvalContext{
		Variables: map[string]cty.Value{"record": record},
		Functions: queryFunctions,
	}
	result, diags := expr.Value(ctx)
	if diags.HasErrors() {
		return cty.NilVal, &CLIError{Message: "query failed", Details: diags.Error()}
	}
	return result, nil
}

// record decodes one record or explains why there is none.
func (a *app) record(path, idArg string) (value.Record, error) {
	modelID, err := a.openModel(path)
	if err != nil {
		return value.Record{}, err
	}
	ids, err := parseIDs([]string{idArg})
	if err != nil {
		return value.Record{}, err
	}
	rec, err := a.api.GetRawLineData(modelID, ids[0])
	if err != nil {
		return value.Record{}, err
	}
	if rec.IsEmpty() {
		return value.Record{}, &CLIError{
			Message: fmt.Sprintf("no record #%d in %s", ids[0], path),
			Hint:    "complex instances and entities unknown to the schema have no record; see rawline stats",
		}
	}
	return rec, nil
}

type typeCount struct {
	name    string
	count   int
	unknown bool
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats FILE",
		Short: "Count records per entity type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			modelID, err := a.openModel(args[0])
			if err != nil {
				return err
			}
			l, _ := a.manager.Loader(modelID)
			registry := a.manager.Schema()

			counts := make(map[string]*typeCount)
			for _, id := range l.ExpressIDs() {
				name, ok := l.LineName(id)
				if !ok {
					name = "(complex)"
				}
				tc, seen := counts[name]
				if !seen {
					tc = &typeCount{name: name, unknown: ok && l.LineType(id) == schema.Unknown}
					counts[name] = tc
				}
				tc.count++
			}

			sorted := make([]*typeCount, 0, len(counts))
			for _, tc := range counts {
				sorted = append(sorted, tc)
			}
			slices.SortFunc(sorted, func(x, y *typeCount) int {
				return cmp.Or(cmp.Compare(y.count, x.count), cmp.Compare(x.name, y.name))
			})

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "records: %d\nmax id:  %d\ntokens:  %d\n\n", l.NumRecords(), l.MaxExpressID(), l.NumTokens())
			for _, tc := range sorted {
				_, _ = fmt.Fprintf(out, "%8d  %s", tc.count, tc.name)
				if tc.unknown {
					_, _ = fmt.Fprint(out, "  (unknown type")
					if s := registry.Suggest(tc.name); len(s) > 0 {
						_, _ = fmt.Fprintf(out, "; did you mean %s?", s[0])
					}
					_, _ = fmt.Fprint(out, ")")
				}
				_, _ = fmt.Fprintln(out)
			}
			ctxlog.FromContext(cmd.Context()).Debug("stats computed", "types", len(sorted))
			return nil
		},
	}
}
