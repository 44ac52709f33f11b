package metrics

import "time"

// RecordFeedPage records one served feed page
func RecordFeedPage(filter string, duration time.Duration, err error) {
	m := Get()
	status := "success"
	if err != nil {
		status = "error"
	}
	m.FeedPageDuration.WithLabelValues(filter).Observe(duration.Seconds())
	m.FeedPagesTotal.WithLabelValues(filter, status).Inc()
}

// RecordPostMutation records a create, update, or delete
func RecordPostMutation(operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	Get().PostMutationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordLikeToggle records a like or unlike
func RecordLikeToggle(wasLiked bool, err error) {
	direction := "like"
	if wasLiked {
		direction = "unlike"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	Get().LikeTogglesTotal.WithLabelValues(direction, status).Inc()
}

// RecordError records an error by type and endpoint
func RecordError(errorType, endpoint string) {
	Get().ErrorsTotal.WithLabelValues(errorType, endpoint).Inc()
}
