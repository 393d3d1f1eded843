package schema

// LibraryMangaListTable represents the 'library.mangalist' table
type LibraryMangaListTable struct {
	Table     string
	ID        string
	UserID    string
	MangaID   string
	Status    string
	CreatedAt string
	UpdatedAt string

	UserMangaConstraint string
}

// LibraryMangaList is the schema definition for library.mangalist
var LibraryMangaList = LibraryMangaListTable{
	Table:     "library.mangalist",
	ID:        "id",
	UserID:    "userid",
	MangaID:   "mangaid",
	Status:    "status",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",

	UserMangaConstraint: "mangalist_user_manga_key",
}

func (t LibraryMangaListTable) Columns() []string {
	return []string{t.ID, t.UserID, t.MangaID, t.Status, t.CreatedAt, t.UpdatedAt}
}

// LibraryNotificationTable represents the 'library.notification' table
type LibraryNotificationTable struct {
	Table     string
	ID        string
	UserID    string
	ChapterID string
	IsRead    string
	CreatedAt string

	UserChapterConstraint string
}

// LibraryNotification is the schema definition for library.notification
var LibraryNotification = LibraryNotificationTable{
	Table:     "library.notification",
	ID:        "id",
	UserID:    "userid",
	ChapterID: "chapterid",
	IsRead:    "isread",
	CreatedAt: "createdat",

	UserChapterConstraint: "notification_user_chapter_key",
}

func (t LibraryNotificationTable) Columns() []string {
	return []string{t.ID, t.UserID, t.ChapterID, t.IsRead, t.CreatedAt}
}
