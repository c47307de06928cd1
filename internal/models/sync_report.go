package models

import (
	"fmt"
	"strings"
)

// ChannelResult is the outcome of refreshing one channel.
type ChannelResult struct {
	ChannelID string `json:"channel_id"`
	Name      string `json:"name"`
	Added     int    `json:"added"`
	Err       error  `json:"-"`
}

// RefreshReport summarizes a fleet refresh.
type RefreshReport struct {
	Results []ChannelResult `json:"results"`
}

func (r *RefreshReport) Added() int {
	total := 0
	for _, res := range r.Results {
		total += res.Added
	}
	return total
}

// Failed returns the results that ended in an error.
func (r *RefreshReport) Failed() []ChannelResult {
	var failed []ChannelResult
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

func (r *RefreshReport) GetSummary() string {
	return fmt.Sprintf("refreshed %d channels, %d new videos, %d failed",
		len(r.Results), r.Added(), len(r.Failed()))
}

// SubscriptionReport is the telemetry of a subscription sync. The API total and
// the retrieved count are reported separately because the API undercounts.
type SubscriptionReport struct {
	APITotal  int64          `json:"api_total"`
	Retrieved int            `json:"retrieved"`
	Tracked   int            `json:"tracked"`
	Pages     int            `json:"pages"`
	Added     int            `json:"added"`
	Empty     bool           `json:"empty"`
	Refresh   *RefreshReport `json:"refresh,omitempty"`
}

func (r *SubscriptionReport) GetSummary() string {
	if r.Empty {
		return "No subscriptions found. (The account may be a brand account.)"
	}
	var b strings.Builder
	b.WriteString("Subscription sync complete:\n")
	fmt.Fprintf(&b, "- subscriptions reported by API: %d\n", r.APITotal)
	fmt.Fprintf(&b, "- subscriptions retrieved: %d\n", r.Retrieved)
	fmt.Fprintf(&b, "- channels tracked: %d\n", r.Tracked)
	fmt.Fprintf(&b, "(API pages: %d, new channels: %d)", r.Pages, r.Added)
	return b.String()
}
