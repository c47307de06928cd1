package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Scopes requested at login.
var Scopes = []string{
	"https://www.googleapis.com/auth/youtube.readonly",
	"https://www.googleapis.com/auth/userinfo.profile",
	"https://www.googleapis.com/auth/userinfo.email",
}

// DeviceFlowRequester obtains tokens with the OAuth device authorization flow.
// The OAuth client must be of type "TVs and Limited Input devices".
type DeviceFlowRequester struct {
	Config *oauth2.Config
	// Prompt shows the verification URL and user code.
	Prompt func(*oauth2.DeviceAuthResponse)
}

func NewDeviceFlowRequester(clientID, clientSecret string, prompt func(*oauth2.DeviceAuthResponse)) *DeviceFlowRequester {
	return &DeviceFlowRequester{
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Scopes:       Scopes,
			Endpoint:     google.Endpoint,
		},
		Prompt: prompt,
	}
}

func (d *DeviceFlowRequester) RequestToken(ctx context.Context) (*oauth2.Token, error) {
	if d.Config.ClientID == "" {
		return nil, errors.New("no OAuth client ID configured")
	}

	resp, err := d.Config.DeviceAuth(ctx)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			log.Printf("Device authorization response failed (%s): %s",
				retrieveErr.Response.Status, strings.TrimSpace(string(retrieveErr.Body)))
		}
		return nil, fmt.Errorf("unable to start device authorization: %w", err)
	}
	if d.Prompt != nil {
		d.Prompt(resp)
	}

	tok, err := d.Config.DeviceAccessToken(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("device authorization did not complete: %w", err)
	}
	return tok, nil
}

// WritePrompt returns a Prompt that prints sign-in instructions to w.
func WritePrompt(w io.Writer) func(*oauth2.DeviceAuthResponse) {
	return func(resp *oauth2.DeviceAuthResponse) {
		fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 80))
		fmt.Fprintf(w, "YOUTUBE SIGN-IN\n")
		fmt.Fprintf(w, "%s\n", strings.Repeat("=", 80))
		fmt.Fprintf(w, "1. Visit %s in your browser (any device works).\n", resp.VerificationURI)
		fmt.Fprintf(w, "2. Enter this code when prompted: %s\n\n", resp.UserCode)
		if complete := strings.TrimSpace(resp.VerificationURIComplete); complete != "" {
			fmt.Fprintf(w, "   Or open directly: %s\n\n", complete)
		}
		fmt.Fprintf(w, "Waiting for authorization to complete... (Ctrl+C to cancel)\n")
		fmt.Fprintf(w, "%s\n", strings.Repeat("-", 80))
	}
}
