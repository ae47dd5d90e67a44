// Package persistence provides the conversation-state and record stores:
// an in-memory implementation for tests and single-process use, plus
// SQLite, Postgres and Redis backed implementations.
package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/petrijr/convo/pkg/api"
)

// EncodeDraft serializes a draft to its stored JSON form.
func EncodeDraft(d api.Draft) ([]byte, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode draft: %w", err)
	}
	return b, nil
}

// DecodeDraft deserializes a stored draft. Unknown fields are ignored
// and missing fields stay unset, so drafts written by older builds are
// still readable after a restart.
func DecodeDraft(data []byte) (api.Draft, error) {
	var d api.Draft
	if len(data) == 0 {
		return d, nil
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return api.Draft{}, fmt.Errorf("decode draft: %w", err)
	}
	return d, nil
}
