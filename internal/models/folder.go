package models

const (
	// FolderAll is the default folder listing every video.
	FolderAll = "all"
	// FolderFavorites is the default folder listing favorite videos.
	FolderFavorites = "favorites"

	DefaultFolderColor = "#6366f1"
)

// Folder groups channels for browsing.
type Folder struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	IsDefault bool   `json:"isDefault"`
}

// DefaultFolders returns the two folders every state carries.
func DefaultFolders() []Folder {
	return []Folder{
		{ID: FolderAll, Name: "All", Color: DefaultFolderColor, IsDefault: true},
		{ID: FolderFavorites, Name: "Favorites", Color: "#f59e0b", IsDefault: true},
	}
}

// IsDefaultFolderID reports whether id names one of the built-in folders.
func IsDefaultFolderID(id string) bool {
	return id == FolderAll || id == FolderFavorites
}
