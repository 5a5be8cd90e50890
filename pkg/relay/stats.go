package relay

import "sync/atomic"

// Stats is a snapshot of relay activity since creation.
type Stats struct {
	Sent         int64 `json:"sent" yaml:"sent"`
	SendFailures int64 `json:"send_failures" yaml:"send_failures"`
	Received     int64 `json:"received" yaml:"received"`
	Dropped      int64 `json:"dropped" yaml:"dropped"`
	Dispatched   int64 `json:"dispatched" yaml:"dispatched"`
	Reconnects   int64 `json:"reconnects" yaml:"reconnects"`
}

type counters struct {
	sent         atomic.Int64
	sendFailures atomic.Int64
	received     atomic.Int64
	dropped      atomic.Int64
	dispatched   atomic.Int64
	reconnects   atomic.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Sent:         c.sent.Load(),
		SendFailures: c.sendFailures.Load(),
		Received:     c.received.Load(),
		Dropped:      c.dropped.Load(),
		Dispatched:   c.dispatched.Load(),
		Reconnects:   c.reconnects.Load(),
	}
}
