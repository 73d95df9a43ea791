package services

import "cadenza/types"

// ProgressSink receives progress snapshots. Notify is fire-and-forget:
// implementations must not block the caller, and a failing sink must
// not stall the download.
type ProgressSink interface {
	Notify(msg types.ProgressMessage)
}
