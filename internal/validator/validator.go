// Package validator gates single-record edits before they are
// submitted to the web API. A user edits one record as free-form JSON
// text; the only values allowed to change are meta.meta_description
// and turns[i].text. Everything else, including the key sets at every
// level and the length of turns, must survive the edit untouched.
package validator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// MalformedJSONError reports edit text that does not parse as JSON.
type MalformedJSONError struct {
	Err error
}

func (e *MalformedJSONError) Error() string {
	return fmt.Sprintf("malformed JSON: %v", e.Err)
}

func (e *MalformedJSONError) Unwrap() error { return e.Err }

// StructureChangedError reports an edit that added, removed or renamed
// a key, or changed the shape/length of turns. Detail names the
// offending path.
type StructureChangedError struct {
	Detail string
}

func (e *StructureChangedError) Error() string {
	return fmt.Sprintf("structure changed: %s", e.Detail)
}

// ForbiddenFieldError reports a changed value outside the whitelist.
type ForbiddenFieldError struct {
	Field string
}

func (e *ForbiddenFieldError) Error() string {
	return fmt.Sprintf("forbidden field changed: %s", e.Field)
}

// Validate checks that the edited JSON text only changes whitelisted
// leaf values of original. On success it returns the parsed edited
// record; on failure it returns one of MalformedJSONError,
// StructureChangedError or ForbiddenFieldError. Checks run in a fixed
// order and short-circuit on the first failure so error messages stay
// deterministic. Pure function: neither input is modified.
func Validate(original map[string]interface{}, edited string) (map[string]interface{}, error) {
	var parsed interface{}
	if err := json.Unmarshal([]byte(edited), &parsed); err != nil {
		return nil, &MalformedJSONError{Err: err}
	}

	editedItem, ok := parsed.(map[string]interface{})
	if !ok {
		// Valid JSON but not an object: no key set to speak of.
		return nil, &StructureChangedError{Detail: "top-level keys differ"}
	}

	if !sameKeys(original, editedItem) {
		return nil, &StructureChangedError{Detail: "top-level keys differ"}
	}

	if err := checkMeta(original, editedItem); err != nil {
		return nil, err
	}

	if err := checkTurns(original, editedItem); err != nil {
		return nil, err
	}

	// Every remaining top-level value must be untouched.
	for _, key := range sortedKeys(original) {
		if key == "meta" || key == "turns" {
			continue
		}
		if !deepEqual(original[key], editedItem[key]) {
			return nil, &ForbiddenFieldError{Field: key}
		}
	}

	return editedItem, nil
}

// checkMeta enforces the meta invariants: identical key set, and
// identical values for every key except meta_description. When
// original.meta is not an object (absent, null, or a non-object
// value), the edited side must match it exactly.
func checkMeta(original, edited map[string]interface{}) error {
	origMeta, origIsMap := original["meta"].(map[string]interface{})
	editMeta, editIsMap := edited["meta"].(map[string]interface{})

	if !origIsMap || !editIsMap {
		if !deepEqual(original["meta"], edited["meta"]) {
			return &StructureChangedError{Detail: "meta keys differ"}
		}
		return nil
	}

	if !sameKeys(origMeta, editMeta) {
		return &StructureChangedError{Detail: "meta keys differ"}
	}

	for _, key := range sortedKeys(origMeta) {
		if key == "meta_description" {
			continue
		}
		if !deepEqual(origMeta[key], editMeta[key]) {
			return &ForbiddenFieldError{Field: "meta." + key}
		}
	}

	return nil
}

// checkTurns enforces the turns invariants: same length, identical key
// set per turn, identical role per turn. Turn text is the only value
// allowed to differ; other turn fields are covered by the key-set
// check only, matching the record convention where turns carry just
// role and text plus fixed passthrough keys.
func checkTurns(original, edited map[string]interface{}) error {
	origTurns, origIsArr := original["turns"].([]interface{})
	editTurns, editIsArr := edited["turns"].([]interface{})

	if !origIsArr || !editIsArr {
		if !deepEqual(original["turns"], edited["turns"]) {
			return &StructureChangedError{Detail: "turns length/shape differs"}
		}
		return nil
	}

	if len(origTurns) != len(editTurns) {
		return &StructureChangedError{Detail: "turns length/shape differs"}
	}

	for i := range origTurns {
		origTurn, ok1 := origTurns[i].(map[string]interface{})
		editTurn, ok2 := editTurns[i].(map[string]interface{})
		if !ok1 || !ok2 {
			if !deepEqual(origTurns[i], editTurns[i]) {
				return &StructureChangedError{Detail: fmt.Sprintf("turn %d keys differ", i+1)}
			}
			continue
		}

		if !sameKeys(origTurn, editTurn) {
			return &StructureChangedError{Detail: fmt.Sprintf("turn %d keys differ", i+1)}
		}

		if !deepEqual(origTurn["role"], editTurn["role"]) {
			return &ForbiddenFieldError{Field: fmt.Sprintf("turn %d role", i+1)}
		}
	}

	return nil
}

// sameKeys reports whether two objects have identical key sets.
func sameKeys(a, b map[string]interface{}) bool {
	if len(a) != len(b) {
		return false
	}
	for key := range a {
		if _, ok := b[key]; !ok {
			return false
		}
	}
	return true
}

// sortedKeys returns the keys of m in sorted order, for deterministic
// error reporting.
func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// deepEqual compares two JSON-ish values through their canonical JSON
// encoding. Marshaling sorts object keys and collapses numeric type
// differences (int vs float64), so values that print the same JSON
// compare equal regardless of how they were decoded.
func deepEqual(a, b interface{}) bool {
	aj, errA := json.Marshal(a)
	bj, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(aj, bj)
}
