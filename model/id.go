package model

import (
	"bytes"

	"github.com/google/uuid"
)

// ID is a 128-bit entity identifier used across all stored records.
type ID [16]byte

// NilID is the zero identifier.
var NilID ID

// String returns the canonical hyphenated UUID form.
func (i ID) String() string { return uuid.UUID(i).String() }

// IsNil reports whether the identifier is unset.
func (i ID) IsNil() bool { return i == NilID }

// ParseID parses the canonical UUID text form.
func ParseID(text string) (ID, error) {
	parsed, err := uuid.Parse(text)
	if err != nil {
		return NilID, err
	}
	return ID(parsed), nil
}

// CompareID imposes a total order on identifiers, used by range-queryable
// indexes.
func CompareID(a, b ID) int { return bytes.Compare(a[:], b[:]) }

// MarshalText implements encoding.TextMarshaler so identifiers serialise as
// UUID text in JSON and YAML documents.
func (i ID) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *ID) UnmarshalText(data []byte) error {
	parsed, err := uuid.ParseBytes(data)
	if err != nil {
		return err
	}
	*i = ID(parsed)
	return nil
}

func cloneIDs(ids []ID) []ID {
	if ids == nil {
		return nil
	}
	return append([]ID(nil), ids...)
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	return append([]string(nil), values...)
}

func cloneMetadata(metadata map[string]string) map[string]string {
	if metadata == nil {
		return nil
	}
	out := make(map[string]string, len(metadata))
	for k, v := range metadata {
		out[k] = v
	}
	return out
}
