package model

// TimestampLayout is the local-time layout used for history timestamps.
const TimestampLayout = "15:04:05"

// HistoryEntry is one line of the action history.
type HistoryEntry struct {
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
}
