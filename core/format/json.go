package format

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/opal-lang/rawline/core/schema"
	"github.com/opal-lang/rawline/core/value"
)

//go:embed record.schema.json
var recordSchemaJSON string

const recordSchemaURL = "schema://rawline/record.schema.json"

// JSON encodes rec as a JSON document matching RecordSchema. References
// encode as {"ref": id} and reals as {"real": x}; typed labels keep the
// type, typecode and value keys.
func JSON(rec value.Record, names schema.NameResolver) ([]byte, error) {
	data, err := json.Marshal(toPlainRecord(rec, names))
	if err != nil {
		return nil, fmt.Errorf("encode record #%d: %w", rec.ID(), err)
	}
	return data, nil
}

// JSONIndent is JSON with two-space indentation.
func JSONIndent(rec value.Record, names schema.NameResolver) ([]byte, error) {
	data, err := JSON(rec, names)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RecordSchema returns the JSON Schema (draft 2020-12) that JSON output
// conforms to.
func RecordSchema() string { return recordSchemaJSON }

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(recordSchemaURL, strings.NewReader(recordSchemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile(recordSchemaURL)
})

// ValidateJSON checks data against RecordSchema.
func ValidateJSON(data []byte) error {
	sch, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile record schema: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("record does not match schema: %w", err)
	}
	return nil
}
