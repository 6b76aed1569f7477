// README: Whole-document JSON persistence (load, mutate in memory, replace atomically).
package infra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var (
	// ErrStoreIO marks a document that could not be read or written. It is
	// surfaced to the caller once and never retried.
	ErrStoreIO = errors.New("document store i/o error")

	ErrDocumentNotFound = errors.New("document not found")
)

// SchemaError reports a document that decoded but does not have the shape
// the application expects, or that is not valid JSON at all.
type SchemaError struct {
	Document string
	Reason   string
	Err      error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("schema error in %s: %s: %v", e.Document, e.Reason, e.Err)
	}
	return fmt.Sprintf("schema error in %s: %s", e.Document, e.Reason)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// Backend stores raw JSON documents by name. Write must replace the previous
// document atomically: readers observe either the old or the new bytes.
type Backend interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
}

// Validator is implemented by document types that check their own invariants
// after decoding.
type Validator interface {
	Validate() error
}

// Documents is the shared entry point for JSON documents. Read-modify-write
// cycles are serialised within this process only; separate processes writing
// the same backend still race and the last write wins.
type Documents struct {
	backend Backend
	log     *zap.Logger
	mu      sync.Mutex
}

func NewDocuments(backend Backend, log *zap.Logger) *Documents {
	if log == nil {
		log = zap.NewNop()
	}
	return &Documents{backend: backend, log: log}
}

// Do runs fn while holding the write lock. Use it when one operation has to
// load and save several documents.
func (d *Documents) Do(fn func() error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fn()
}

// Load reads and decodes a document. A missing document is created from def
// and def is returned.
func Load[T any](ctx context.Context, d *Documents, name string, def T) (T, error) {
	data, err := d.backend.Read(ctx, name)
	if errors.Is(err, ErrDocumentNotFound) {
		d.log.Info("document not found, creating it", zap.String("document", name))
		if err := Save(ctx, d, name, def); err != nil {
			return def, err
		}
		return def, nil
	}
	if err != nil {
		return def, err
	}

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return def, &SchemaError{Document: name, Reason: "invalid JSON", Err: err}
	}
	if v, ok := any(&out).(Validator); ok {
		if err := v.Validate(); err != nil {
			return def, &SchemaError{Document: name, Reason: "validation failed", Err: err}
		}
	}
	return out, nil
}

// Save serialises v completely before handing it to the backend, so a
// marshal failure never touches the stored document.
func Save[T any](ctx context.Context, d *Documents, name string, v T) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrStoreIO, name, err)
	}
	if err := d.backend.Write(ctx, name, data); err != nil {
		d.log.Error("document write failed", zap.String("document", name), zap.Error(err))
		return err
	}
	return nil
}

// Update loads name, applies fn and saves the result under the write lock.
// Nothing is written when fn returns an error.
func Update[T any](ctx context.Context, d *Documents, name string, def T, fn func(doc *T) error) error {
	return d.Do(func() error {
		doc, err := Load(ctx, d, name, def)
		if err != nil {
			return err
		}
		if err := fn(&doc); err != nil {
			return err
		}
		return Save(ctx, d, name, doc)
	})
}
