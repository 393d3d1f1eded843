package schema

// CatalogPageTable represents the 'catalog.page' table
type CatalogPageTable struct {
	Table      string
	ID         string
	ChapterID  string
	Image      string
	PageNumber string
	CreatedAt  string

	PageNumberConstraint string
}

// CatalogPage is the schema definition for catalog.page
var CatalogPage = CatalogPageTable{
	Table:      "catalog.page",
	ID:         "id",
	ChapterID:  "chapterid",
	Image:      "image",
	PageNumber: "pagenumber",
	CreatedAt:  "createdat",

	PageNumberConstraint: "page_chapter_pagenumber_key",
}

func (t CatalogPageTable) Columns() []string {
	return []string{t.ID, t.ChapterID, t.Image, t.PageNumber, t.CreatedAt}
}
