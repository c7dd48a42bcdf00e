package models

// DeliverySummary reports the outcome of broadcasting one alert.
// Delivered counts successful sends only; Reachable-Delivered sends failed.
type DeliverySummary struct {
	AlertID     string `json:"alert_id"`
	Reachable   int    `json:"reachable"`
	Unreachable int    `json:"unreachable"`
	Delivered   int    `json:"delivered"`
}

// ClosureSummary reports the outcome of resolving one alert. Positive and
// Cancelled size the two notification classes; NotificationsSent counts the
// sends that actually went through.
type ClosureSummary struct {
	NotificationsSent int   `json:"notifications_sent"`
	Positive          int   `json:"positive_count"`
	Cancelled         int   `json:"cancelled_count"`
	DeletedResponses  int64 `json:"deleted_responses"`
	DeletedAlerts     int64 `json:"deleted_alerts"`
}

// SweepSummary aggregates one expiry sweep over stale alerts.
type SweepSummary struct {
	Closed int `json:"closed"`
	Failed int `json:"failed"`
}
