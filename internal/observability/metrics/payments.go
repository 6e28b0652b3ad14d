package metrics

import "time"

// ConfigResolve records a service-config resolution outcome.
func ConfigResolve(status string) {
	if !enabled {
		return
	}
	configResolveTotal.WithLabelValues(status).Inc()
}

// PaymentVerify records a payment verification outcome.
func PaymentVerify(result string) {
	if !enabled {
		return
	}
	paymentVerifyTotal.WithLabelValues(result).Inc()
}

// LedgerFetch records the latency of one finalized transaction fetch.
func LedgerFetch(d time.Duration, err error) {
	if !enabled {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	ledgerFetchDuration.WithLabelValues(status).Observe(d.Seconds())
}
