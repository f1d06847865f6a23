package cache

import (
	"strconv"
	"time"
)

const paymentIntentWindowLayout = "200601021504"

func TrackingVersionKey(trackingID string) string {
	return "trackings:" + trackingID + ":version"
}

// TrackingHistoryKey names the cached event list of trackingID at one
// generation.
func TrackingHistoryKey(trackingID string, version int64) string {
	return "trackings:" + trackingID + ":history:v" + strconv.FormatInt(version, 10)
}

// PaymentIntentKey counts payment intent requests from clientIP during the
// calendar minute (UTC) that contains at.
func PaymentIntentKey(clientIP string, at time.Time) string {
	return "rl:payment-intent:" + clientIP + ":" + at.UTC().Format(paymentIntentWindowLayout)
}
