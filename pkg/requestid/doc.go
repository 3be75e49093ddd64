// Package requestid attaches a correlation id to every HTTP request.
//
// Middleware keeps a well-formed X-Request-ID sent by the client (letters,
// digits, '-' and '_', at most 128 bytes) and otherwise generates a UUIDv7.
// The id is echoed on the response, copied onto audit records, and added to
// log lines through LoggerExtractor.
package requestid
