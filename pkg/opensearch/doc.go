// Package opensearch builds an opensearch-go/v2 client for shipping audit
// records when AUDIT_BACKEND lists opensearch.
//
//	client, err := opensearch.New(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	writer := audit.NewOpenSearchWriter(client, cfg.AuditIndex)
//
// Healthcheck accepts any opensearchapi.Transport so health checks can be tested
// without a cluster.
package opensearch
