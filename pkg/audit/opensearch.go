package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

// DefaultOpenSearchIndex is the index used when none is configured.
const DefaultOpenSearchIndex = "access-audit-log"

// OpenSearchWriter ships records through the bulk API. Every document uses
// the create action so a replayed batch cannot overwrite stored records.
type OpenSearchWriter struct {
	transport opensearchapi.Transport
	index     string
}

// NewOpenSearchWriter accepts any opensearchapi.Transport, *opensearch.Client
// included.
func NewOpenSearchWriter(transport opensearchapi.Transport, index string) *OpenSearchWriter {
	if index == "" {
		index = DefaultOpenSearchIndex
	}
	return &OpenSearchWriter{transport: transport, index: index}
}

type bulkAction struct {
	Create bulkMeta `json:"create"`
}

type bulkMeta struct {
	Index string `json:"_index"`
	ID    string `json:"_id"`
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		Status int `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error,omitempty"`
	} `json:"items"`
}

func (w *OpenSearchWriter) StoreBatch(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	for _, rec := range records {
		if err := enc.Encode(bulkAction{Create: bulkMeta{Index: w.index, ID: rec.ID}}); err != nil {
			return fmt.Errorf("audit: encode bulk action: %w", err)
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("audit: encode record: %w", err)
		}
	}

	res, err := opensearchapi.BulkRequest{
		Index: w.index,
		Body:  &body,
	}.Do(ctx, w.transport)
	if err != nil {
		return fmt.Errorf("audit: opensearch bulk: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return errors.Join(ErrUnexpectedBody, fmt.Errorf("opensearch bulk status %d: %s", res.StatusCode, msg))
	}

	var br bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&br); err != nil {
		return errors.Join(ErrUnexpectedBody, err)
	}
	if !br.Errors {
		return nil
	}

	failed := 0
	var first string
	for _, item := range br.Items {
		for _, result := range item {
			// 409 means the record was already stored by an earlier attempt.
			if result.Error == nil || result.Status == 409 {
				continue
			}
			failed++
			if first == "" {
				first = result.Error.Type + ": " + result.Error.Reason
			}
		}
	}
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("audit: opensearch rejected %d of %d records: %s", failed, len(records), first)
}
