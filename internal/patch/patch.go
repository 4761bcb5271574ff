// Package patch applies RFC 6902 JSON Patch documents to plain DTO values.
// A patch is never applied to a persisted entity: callers map the entity to a
// DTO, patch the DTO, validate it, and only then map it back.
package patch

import (
	"bytes"
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/pkordes/cityinfo/internal/domain"
)

// Document is a decoded sequence of patch operations
// (add, remove, replace, move, copy, test).
type Document struct {
	ops jsonpatch.Patch
}

// Decode parses raw as a JSON Patch document. A malformed document is reported
// as a *domain.ValidationError so the caller answers 400.
func Decode(raw []byte) (Document, error) {
	ops, err := jsonpatch.DecodePatch(raw)
	if err != nil {
		return Document{}, domain.NewValidationError("patch", "malformed JSON Patch document: "+err.Error())
	}
	return Document{ops: ops}, nil
}

// Len returns the number of operations in the document.
func (d Document) Len() int {
	return len(d.ops)
}

// ApplyTo applies every operation in order to target. Operations run against
// the JSON form of *target; the result is decoded strictly into a fresh T, so a
// removed field becomes its zero value and an unknown path is rejected.
// target is only overwritten when every operation succeeds.
func ApplyTo[T any](d Document, target *T) error {
	doc, err := json.Marshal(target)
	if err != nil {
		return fmt.Errorf("patch.ApplyTo: marshal: %w", err)
	}

	for _, op := range d.ops {
		path, _ := op.Path()
		doc, err = jsonpatch.Patch{op}.Apply(doc)
		if err != nil {
			return domain.NewValidationError(fieldName(path), fmt.Sprintf("cannot apply %q operation: %v", op.Kind(), err))
		}
	}

	var out T
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return domain.NewValidationError("patch", "patched document does not match the target shape: "+err.Error())
	}

	*target = out
	return nil
}

// fieldName turns a JSON pointer like "/name" into "name".
func fieldName(path string) string {
	if len(path) > 0 && path[0] == '/' {
		path = path[1:]
	}
	if path == "" {
		return "patch"
	}
	return path
}
