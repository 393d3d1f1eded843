package schema

// CatalogChapterTable represents the 'catalog.chapter' table
type CatalogChapterTable struct {
	Table     string
	ID        string
	MangaID   string
	Title     string
	Volume    string
	Number    string
	Slug      string
	CreatedAt string
	UpdatedAt string

	NumberConstraint string
	SlugConstraint   string
}

// CatalogChapter is the schema definition for catalog.chapter
var CatalogChapter = CatalogChapterTable{
	Table:     "catalog.chapter",
	ID:        "id",
	MangaID:   "mangaid",
	Title:     "title",
	Volume:    "volume",
	Number:    "number",
	Slug:      "slug",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",

	NumberConstraint: "chapter_manga_volume_number_key",
	SlugConstraint:   "chapter_slug_key",
}

func (t CatalogChapterTable) Columns() []string {
	return []string{t.ID, t.MangaID, t.Title, t.Volume, t.Number, t.Slug, t.CreatedAt, t.UpdatedAt}
}
