package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	require.Equal(t, "trackings:TRK-1:version", TrackingVersionKey("TRK-1"))
	require.Equal(t, "trackings:TRK-1:history:v0", TrackingHistoryKey("TRK-1", 0))
	require.Equal(t, "trackings:TRK-1:history:v12", TrackingHistoryKey("TRK-1", 12))

	dhaka := time.FixedZone("BST", 6*3600)
	at := time.Date(2025, 5, 1, 18, 7, 59, 0, dhaka)
	require.Equal(t, "rl:payment-intent:10.0.0.1:202505011207", PaymentIntentKey("10.0.0.1", at))
}
