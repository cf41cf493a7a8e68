package server

import "testing"

func TestSessionStatsSummary(t *testing.T) {
	st := newSessionStats()
	st.requests.Inc(3)
	st.badRequests.Inc(1)
	st.results.Inc(2)
	st.readSizes.Update(24)
	st.readSizes.Update(48)

	want := "bad_requests=1 delivery_failures=0 pricer_reads=2(avg 36B) requests=3 results=2 send_failures=0"
	if got := st.Summary(); got != want {
		t.Fatalf("Expected %q, got %q", want, got)
	}
}

func TestSessionStateString(t *testing.T) {
	tests := map[SessionState]string{
		StateConnecting:  "connecting",
		StateActive:      "active",
		StateClosing:     "closing",
		StateClosed:      "closed",
		SessionState(42): "unknown",
	}
	for state, want := range tests {
		if got := state.String(); got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	}
}
