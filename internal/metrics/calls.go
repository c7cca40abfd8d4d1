package metrics

// Simulated call names used as the "call" label.
const (
	CallAuth    = "auth"
	CallPayment = "payment"
)

// CallStarted should be called when a simulated call begins its delay.
func CallStarted(call string) {
	SimulatedCallsInFlight.WithLabelValues(call).Inc()
}

// CallAbandoned records a call cancelled before it resolved.
func CallAbandoned(call string) {
	SimulatedCallsInFlight.WithLabelValues(call).Dec()
}

// CallResolved records the outcome of a simulated call.
func CallResolved(call, outcome string) {
	SimulatedCallsInFlight.WithLabelValues(call).Dec()
	SimulatedCallsTotal.WithLabelValues(call, outcome).Inc()
}

// DonationCompleted records a successful donation.
func DonationCompleted(method string, amount int64) {
	DonationsCompleted.WithLabelValues(method).Inc()
	DonatedAmountTotal.Add(float64(amount))
}
