// Package audit records authorization denials, authentication failures and,
// when enabled, granted access.
//
// Logger methods never return errors and never wait on storage. Records are
// handed to an Enqueuer, normally an AsyncWriter, which batches them on a
// background goroutine into a Writer: PostgresWriter, MongoWriter,
// OpenSearchWriter, MemoryWriter or a MultiWriter combining several. A full
// buffer or a failed batch is written to the fallback slog logger instead.
//
//	store := audit.NewPostgresWriter(pool)
//	async, closeAudit := audit.NewAsyncWriter(store, audit.AsyncOptions{Fallback: log})
//	defer closeAudit(context.Background())
//
//	auditLog := audit.NewLogger(async, audit.WithFallback(log))
//	auditLog.LogAccessDenied(ctx, audit.Actor{UserID: "u1", Role: rbac.Viewer}, rbac.Manager, "payrolls", "approve")
//
// Middleware captures the client IP, user agent and request id so records
// written later in the request carry them. PostgresWriter and MemoryWriter
// also implement Reader for compliance review.
package audit
