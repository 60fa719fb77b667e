package dto

type DashboardResponse struct {
	QueueTotal       int    `json:"queueTotal"`
	QueuePending     int    `json:"queuePending"`
	QueueLabelIssued int    `json:"queueLabelIssued"`
	QueueCompleted   int    `json:"queueCompleted"`
	LabelsToday      int64  `json:"labelsToday"`
	TermsToday       int64  `json:"termsToday"`
	DayStart         string `json:"dayStart"`
}
