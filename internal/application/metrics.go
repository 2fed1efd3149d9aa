package application

import "expvar"

// Counters published on /debug/vars.
var (
	requestsCreated        = expvar.NewInt("blood_requests_created")
	notificationsCreated   = expvar.NewInt("notifications_created")
	donationResponses      = expvar.NewInt("donation_responses")
	notificationEmailsSent = expvar.NewInt("notification_emails_enqueued")
)
