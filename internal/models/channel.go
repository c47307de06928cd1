package models

// Channel is a tracked YouTube channel.
type Channel struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Thumbnail string `json:"thumbnail"`
	// FolderID is empty for unassigned channels.
	FolderID string `json:"folderId"`
	// UploadsPlaylistID is resolved lazily; legacy records may lack it.
	UploadsPlaylistID string `json:"uploadsPlaylistId,omitempty"`
}
