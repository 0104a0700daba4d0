package domain

import "github.com/goliatone/go-tms-sync/pkg/interfaces"

// EntityRef aliases the public reference type so internal packages share one
// identity for content items.
type EntityRef = interfaces.EntityRef

// Operation names a sync engine operation for outcome reporting.
type Operation string

const (
	OperationUpload       Operation = "upload"
	OperationRequest      Operation = "request"
	OperationCheckSource  Operation = "check_source"
	OperationCheckTarget  Operation = "check_target"
	OperationDownload     Operation = "download"
	OperationCancel       Operation = "cancel"
	OperationCancelTarget Operation = "cancel_target"
	OperationDisassociate Operation = "disassociate"
)

// Outcome captures the per-item result of an operation so presentation layers
// can render a human-readable message without re-deriving state.
type Outcome struct {
	Ref       EntityRef
	Operation Operation
	Locale    string
	Err       error
	FellBack  bool
}

// OK reports whether the operation succeeded for this item.
func (o Outcome) OK() bool {
	return o.Err == nil
}
