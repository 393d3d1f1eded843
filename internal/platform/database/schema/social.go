package schema

// SocialRatingTable represents the 'social.rating' table
type SocialRatingTable struct {
	Table     string
	ID        string
	UserID    string
	MangaID   string
	Score     string
	CreatedAt string
	UpdatedAt string

	UserMangaConstraint string
}

// SocialRating is the schema definition for social.rating
var SocialRating = SocialRatingTable{
	Table:     "social.rating",
	ID:        "id",
	UserID:    "userid",
	MangaID:   "mangaid",
	Score:     "score",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",

	UserMangaConstraint: "rating_user_manga_key",
}

func (t SocialRatingTable) Columns() []string {
	return []string{t.ID, t.UserID, t.MangaID, t.Score, t.CreatedAt, t.UpdatedAt}
}

// SocialCommentTable represents the 'social.comment' table
type SocialCommentTable struct {
	Table     string
	ID        string
	UserID    string
	MangaID   string
	ChapterID string
	Content   string
	CreatedAt string
	UpdatedAt string

	SingleParentConstraint string
}

// SocialComment is the schema definition for social.comment
var SocialComment = SocialCommentTable{
	Table:     "social.comment",
	ID:        "id",
	UserID:    "userid",
	MangaID:   "mangaid",
	ChapterID: "chapterid",
	Content:   "content",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",

	SingleParentConstraint: "comment_single_parent_check",
}

func (t SocialCommentTable) Columns() []string {
	return []string{t.ID, t.UserID, t.MangaID, t.ChapterID, t.Content, t.CreatedAt, t.UpdatedAt}
}
