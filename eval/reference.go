// Package eval compares a parse run against a previously saved student
// mapping and reports per-field accuracy: exact matches for identity
// fields, a small tolerance for SGPA, and per-subject total agreement.
package eval

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/muresults/gazette"
)

// Reference is a previously saved student mapping, keyed the way the
// engine keys records (enrollment reference, else seat number).
type Reference map[string]*gazette.Student

// LoadReference reads a saved JSON mapping from path.
func LoadReference(path string) (Reference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading reference: %w", err)
	}

	var ref Reference
	if err := json.Unmarshal(data, &ref); err != nil {
		return nil, fmt.Errorf("decoding reference: %w", err)
	}
	if ref == nil {
		ref = Reference{}
	}
	// null entries would make every per-field comparison nil-check; drop them
	for key, s := range ref {
		if s == nil {
			delete(ref, key)
		}
	}
	return ref, nil
}

// KeySample identifies a record present on only one side of a comparison.
type KeySample struct {
	Key        string `json:"key"`
	Name       string `json:"name"`
	SeatNumber string `json:"seat_number"`
}
