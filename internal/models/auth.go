package models

import "time"

// UserInfo is the profile of the signed-in account.
type UserInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// AuthSession holds the OAuth access token. The three fields are set and
// cleared together.
type AuthSession struct {
	AccessToken string    `json:"accessToken,omitempty"`
	ExpiresAt   int64     `json:"expiresAt,omitempty"` // epoch millis
	UserInfo    *UserInfo `json:"userInfo,omitempty"`
}

// IsZero reports whether no session is held.
func (a AuthSession) IsZero() bool {
	return a.AccessToken == "" && a.ExpiresAt == 0 && a.UserInfo == nil
}

// Expired reports whether now is past the expiry.
func (a AuthSession) Expired(now time.Time) bool {
	return now.UnixMilli() > a.ExpiresAt
}

// Active reports whether the session carries a token that has not expired.
func (a AuthSession) Active(now time.Time) bool {
	return a.AccessToken != "" && !a.Expired(now)
}

// ExpiresTime returns ExpiresAt as a time.Time.
func (a AuthSession) ExpiresTime() time.Time {
	return time.UnixMilli(a.ExpiresAt)
}
