package format

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/opal-lang/rawline/core/value"
)

var canonicalMode = func() cbor.EncMode {
	mode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("canonical CBOR options: %v", err))
	}
	return mode
}()

// CanonicalCBOR encodes rec deterministically (RFC 7049 canonical CBOR).
// The entity name is omitted so the bytes depend only on the record.
func CanonicalCBOR(rec value.Record) ([]byte, error) {
	data, err := canonicalMode.Marshal(toPlainRecord(rec, nil))
	if err != nil {
		return nil, fmt.Errorf("CBOR encoding of record #%d failed: %w", rec.ID(), err)
	}
	return data, nil
}

// Digest returns the BLAKE2b-256 hash of rec's canonical CBOR encoding,
// formatted as "blake2b:<hex>". Structurally equal records have equal
// digests.
func Digest(rec value.Record) (string, error) {
	data, err := CanonicalCBOR(rec)
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(data)
	return fmt.Sprintf("blake2b:%x", sum), nil
}
