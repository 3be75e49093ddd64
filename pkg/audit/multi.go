package audit

import (
	"context"
	"errors"
)

// MultiWriter fans a batch out to several writers. Every writer is attempted;
// the returned error joins the individual failures.
type MultiWriter struct {
	writers []Writer
}

func NewMultiWriter(writers ...Writer) *MultiWriter {
	ws := make([]Writer, 0, len(writers))
	for _, w := range writers {
		if w != nil {
			ws = append(ws, w)
		}
	}
	return &MultiWriter{writers: ws}
}

func (m *MultiWriter) StoreBatch(ctx context.Context, records []Record) error {
	var errs []error
	for _, w := range m.writers {
		if err := w.StoreBatch(ctx, records); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
