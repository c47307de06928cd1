package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"

	"google.golang.org/api/googleapi"
)

const testChannelID = "UCabcdefghijklmnopqrstuv"

// fakeAPI serves canned JSON per path and records the requests it saw.
type fakeAPI struct {
	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	requests []*http.Request
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	f := &fakeAPI{handlers: make(map[string]http.HandlerFunc)}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Clone(context.Background()))
		h, ok := f.handlers[r.URL.Path]
		f.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeAPI) handle(path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[path] = h
}

func (f *fakeAPI) calls(path string) []*http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*http.Request
	for _, r := range f.requests {
		if r.URL.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func jsonReply(body any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}
}

func errorReply(code int, reason string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"code":    code,
				"message": "request failed",
				"errors":  []map[string]any{{"reason": reason, "message": "request failed"}},
			},
		})
	}
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(context.Background(), "test-key",
		WithEndpoint(srv.URL+"/"),
		WithUserInfoEndpoint(srv.URL+"/"))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func channelsReply(id string) http.HandlerFunc {
	return jsonReply(map[string]any{
		"items": []map[string]any{{
			"id": id,
			"snippet": map[string]any{
				"title":      "Test Channel",
				"thumbnails": map[string]any{"default": map[string]any{"url": "https://img/default.jpg"}},
			},
			"contentDetails": map[string]any{
				"relatedPlaylists": map[string]any{"uploads": "UU" + id[2:]},
			},
		}},
	})
}

func TestResolveChannelByID(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.handle("/youtube/v3/channels", channelsReply(testChannelID))
	client := newTestClient(t, srv)

	info, err := client.ResolveChannel(context.Background(), testChannelID)
	if err != nil {
		t.Fatalf("ResolveChannel() error = %v", err)
	}

	want := ChannelInfo{
		ID:                testChannelID,
		Title:             "Test Channel",
		Thumbnail:         "https://img/default.jpg",
		UploadsPlaylistID: "UU" + testChannelID[2:],
	}
	if *info != want {
		t.Errorf("ResolveChannel() = %+v, want %+v", *info, want)
	}

	if n := len(api.calls("/youtube/v3/search")); n != 0 {
		t.Errorf("canonical id should not trigger a search, got %d search calls", n)
	}
	req := api.calls("/youtube/v3/channels")[0]
	if got := req.URL.Query().Get("id"); got != testChannelID {
		t.Errorf("channels id param = %q", got)
	}
	if got := req.URL.Query().Get("key"); got != "test-key" {
		t.Errorf("key param = %q, want test-key", got)
	}
	if parts := req.URL.Query()["part"]; !slices.Contains(parts, "contentDetails") {
		t.Errorf("part = %q, want contentDetails included", parts)
	}
}

func TestResolveChannelByHandle(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.handle("/youtube/v3/search", jsonReply(map[string]any{
		"items": []map[string]any{{
			"id":      map[string]any{"kind": "youtube#channel", "channelId": testChannelID},
			"snippet": map[string]any{"channelId": testChannelID},
		}},
	}))
	api.handle("/youtube/v3/channels", channelsReply(testChannelID))
	client := newTestClient(t, srv)

	info, err := client.ResolveChannel(context.Background(), "somecreator")
	if err != nil {
		t.Fatalf("ResolveChannel() error = %v", err)
	}
	if info.ID != testChannelID {
		t.Errorf("ID = %q, want %q", info.ID, testChannelID)
	}

	search := api.calls("/youtube/v3/search")
	if len(search) != 1 {
		t.Fatalf("search calls = %d, want 1", len(search))
	}
	q := search[0].URL.Query()
	if q.Get("q") != "somecreator" || q.Get("type") != "channel" {
		t.Errorf("search query = %v", q)
	}
}

func TestResolveChannelNotFound(t *testing.T) {
	tests := []struct {
		name  string
		input string
		setup func(*fakeAPI)
	}{
		{
			name:  "Search returns nothing",
			input: "nobody",
			setup: func(api *fakeAPI) {
				api.handle("/youtube/v3/search", jsonReply(map[string]any{"items": []any{}}))
			},
		},
		{
			name:  "Channels returns nothing",
			input: testChannelID,
			setup: func(api *fakeAPI) {
				api.handle("/youtube/v3/channels", jsonReply(map[string]any{"items": []any{}}))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, srv := newFakeAPI(t)
			tt.setup(api)
			client := newTestClient(t, srv)

			_, err := client.ResolveChannel(context.Background(), tt.input)
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("ResolveChannel() error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestFetchRecentVideos(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.handle("/youtube/v3/playlistItems", jsonReply(map[string]any{
		"items": []map[string]any{
			{"snippet": map[string]any{"resourceId": map[string]any{"videoId": "vid1"}}},
			{"snippet": map[string]any{"resourceId": map[string]any{"videoId": "vid2"}}},
		},
	}))
	api.handle("/youtube/v3/videos", jsonReply(map[string]any{
		"items": []map[string]any{
			{
				"id": "vid1",
				"snippet": map[string]any{
					"title": "One", "channelId": testChannelID, "channelTitle": "Test Channel",
					"publishedAt": "2024-05-01T10:00:00Z",
					"thumbnails":  map[string]any{"medium": map[string]any{"url": "https://img/1m.jpg"}},
				},
				"contentDetails": map[string]any{"duration": "PT4M13S"},
			},
			{
				"id": "vid2",
				"snippet": map[string]any{
					"title": "Two", "channelId": testChannelID, "channelTitle": "Test Channel",
					"publishedAt": "2024-05-02T10:00:00Z",
					"thumbnails":  map[string]any{"default": map[string]any{"url": "https://img/2d.jpg"}},
				},
				"contentDetails": map[string]any{"duration": "PT1H2M"},
			},
		},
	}))
	client := newTestClient(t, srv)

	videos, err := client.FetchRecentVideos(context.Background(), "UUplaylist", 10)
	if err != nil {
		t.Fatalf("FetchRecentVideos() error = %v", err)
	}
	if len(videos) != 2 {
		t.Fatalf("len(videos) = %d, want 2", len(videos))
	}
	if videos[0].Thumbnail != "https://img/1m.jpg" || videos[0].Duration != "PT4M13S" {
		t.Errorf("videos[0] = %+v", videos[0])
	}
	if videos[1].Thumbnail != "https://img/2d.jpg" {
		t.Errorf("thumbnail should fall back to default, got %q", videos[1].Thumbnail)
	}

	items := api.calls("/youtube/v3/playlistItems")[0].URL.Query()
	if items.Get("playlistId") != "UUplaylist" || items.Get("maxResults") != "10" {
		t.Errorf("playlistItems query = %v", items)
	}
	details := api.calls("/youtube/v3/videos")
	if len(details) != 1 {
		t.Fatalf("videos calls = %d, want exactly one batched call", len(details))
	}
	if got := details[0].URL.Query().Get("id"); got != "vid1,vid2" {
		t.Errorf("videos id param = %q, want vid1,vid2", got)
	}
}

func TestFetchRecentVideosEmptyPlaylist(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.handle("/youtube/v3/playlistItems", jsonReply(map[string]any{"items": []any{}}))
	client := newTestClient(t, srv)

	videos, err := client.FetchRecentVideos(context.Background(), "UUempty", 5)
	if err != nil {
		t.Fatalf("empty playlist should not fail: %v", err)
	}
	if len(videos) != 0 {
		t.Errorf("len(videos) = %d, want 0", len(videos))
	}
	if n := len(api.calls("/youtube/v3/videos")); n != 0 {
		t.Errorf("no details call expected for empty playlist, got %d", n)
	}
}

func TestFetchRecentVideosClampsMax(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.handle("/youtube/v3/playlistItems", jsonReply(map[string]any{"items": []any{}}))
	client := newTestClient(t, srv)

	if _, err := client.FetchRecentVideos(context.Background(), "UUx", 500); err != nil {
		t.Fatal(err)
	}
	if got := api.calls("/youtube/v3/playlistItems")[0].URL.Query().Get("maxResults"); got != "50" {
		t.Errorf("maxResults = %s, want 50", got)
	}
}

func TestFetchSubscriptionsPage(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.handle("/youtube/v3/subscriptions", jsonReply(map[string]any{
		"nextPageToken": "CDIQAA",
		"pageInfo":      map[string]any{"totalResults": 120, "resultsPerPage": 50},
		"items": []map[string]any{{
			"snippet": map[string]any{
				"title":      "Alpha",
				"resourceId": map[string]any{"kind": "youtube#channel", "channelId": testChannelID},
				"thumbnails": map[string]any{"default": map[string]any{"url": "https://img/a.jpg"}},
			},
		}},
	}))
	client := newTestClient(t, srv)

	page, err := client.FetchSubscriptionsPage(context.Background(), "user-token", "prev")
	if err != nil {
		t.Fatalf("FetchSubscriptionsPage() error = %v", err)
	}
	if page.NextPageToken != "CDIQAA" || page.TotalResults != 120 {
		t.Errorf("page = %+v", page)
	}
	if len(page.Items) != 1 || page.Items[0] != (Subscription{ChannelID: testChannelID, Title: "Alpha", Thumbnail: "https://img/a.jpg"}) {
		t.Errorf("items = %+v", page.Items)
	}

	req := api.calls("/youtube/v3/subscriptions")[0]
	q := req.URL.Query()
	if q.Get("order") != "alphabetical" || q.Get("mine") != "true" || q.Get("maxResults") != "50" || q.Get("pageToken") != "prev" {
		t.Errorf("subscriptions query = %v", q)
	}
	if got := req.Header.Get("Authorization"); got != "Bearer user-token" {
		t.Errorf("Authorization = %q", got)
	}
}

func TestFetchSubscriptionsPageAuthError(t *testing.T) {
	tests := []struct {
		name   string
		code   int
		reason string
	}{
		{"Expired token", http.StatusUnauthorized, "authError"},
		{"Bad request", http.StatusBadRequest, "badRequest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, srv := newFakeAPI(t)
			api.handle("/youtube/v3/subscriptions", errorReply(tt.code, tt.reason))
			client := newTestClient(t, srv)

			_, err := client.FetchSubscriptionsPage(context.Background(), "stale", "")
			if !errors.Is(err, ErrAuth) {
				t.Errorf("error = %v, want ErrAuth", err)
			}
			var apiErr *googleapi.Error
			if !errors.As(err, &apiErr) || apiErr.Code != tt.code {
				t.Errorf("underlying googleapi.Error not preserved: %v", err)
			}
		})
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		code   int
		reason string
		want   error
	}{
		{"Unauthorized", http.StatusUnauthorized, "authError", ErrAuth},
		{"Forbidden key", http.StatusForbidden, "forbidden", ErrAuth},
		{"Quota", http.StatusForbidden, "quotaExceeded", ErrTransient},
		{"Playlist gone", http.StatusNotFound, "playlistNotFound", ErrNotFound},
		{"Bad request", http.StatusBadRequest, "badRequest", ErrTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, srv := newFakeAPI(t)
			api.handle("/youtube/v3/playlistItems", errorReply(tt.code, tt.reason))
			client := newTestClient(t, srv)

			_, err := client.FetchRecentVideos(context.Background(), "UUx", 5)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFetchUserInfo(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.handle("/oauth2/v2/userinfo", jsonReply(map[string]any{
		"name": "Ada Lovelace", "email": "ada@example.com", "picture": "https://img/ada.png",
	}))
	client := newTestClient(t, srv)

	info, err := client.FetchUserInfo(context.Background(), "user-token")
	if err != nil {
		t.Fatalf("FetchUserInfo() error = %v", err)
	}
	if info.Name != "Ada Lovelace" || info.Email != "ada@example.com" || info.Picture != "https://img/ada.png" {
		t.Errorf("info = %+v", info)
	}
	if got := api.calls("/oauth2/v2/userinfo")[0].Header.Get("Authorization"); got != "Bearer user-token" {
		t.Errorf("Authorization = %q", got)
	}
}
