package audit

import "errors"

var (
	ErrBufferFull     = errors.New("audit: buffer full")
	ErrWriterClosed   = errors.New("audit: writer closed")
	ErrStorageFailed  = errors.New("audit: storage failed")
	ErrInvalidFilter  = errors.New("audit: invalid filter")
	ErrNilWriter      = errors.New("audit: writer is nil")
	ErrUnexpectedBody = errors.New("audit: unexpected backend response")
)
