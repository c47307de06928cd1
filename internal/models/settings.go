package models

const (
	DefaultMaxResults = 10
	// MaxResultsLimit is the largest page the Data API serves.
	MaxResultsLimit = 50
)

// Settings is the persisted configuration consumed by the API gateway.
type Settings struct {
	ClientID   string `json:"clientId"`
	APIKey     string `json:"apiKey"`
	MaxResults int64  `json:"maxResults"`
}

func DefaultSettings() Settings {
	return Settings{MaxResults: DefaultMaxResults}
}

// EffectiveMaxResults returns the number of uploads to fetch per channel.
func (s Settings) EffectiveMaxResults() int64 {
	switch {
	case s.MaxResults <= 0:
		return DefaultMaxResults
	case s.MaxResults > MaxResultsLimit:
		return MaxResultsLimit
	default:
		return s.MaxResults
	}
}
