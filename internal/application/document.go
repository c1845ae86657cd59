// Package application contains the use-case services: the agenda record
// store and the administrator session manager.
package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ericfisherdev/agendahub/internal/domain/port/driven"
)

// errCorruptDocument marks a stored value that exists but cannot be decoded.
var errCorruptDocument = errors.New("corrupt stored document")

// loadDocument decodes the JSON document under key into dst. found is false
// when the key is absent. Decode failures wrap errCorruptDocument so callers
// can tell them apart from storage failures.
func loadDocument(ctx context.Context, kv driven.KVStore, key string, dst any) (bool, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("decode %s: %w: %w", key, errCorruptDocument, err)
	}
	return true, nil
}

// saveDocument encodes v as JSON and replaces the value under key.
func saveDocument(ctx context.Context, kv driven.KVStore, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
