package schema

// CatalogMangaTable represents the 'catalog.manga' table
type CatalogMangaTable struct {
	Table        string
	ID           string
	CategoryID   string
	Name         string
	OriginalName string
	CanonicalKey string
	Decency      string
	Review       string
	Avatar       string
	Thumbnail    string
	Slug         string
	CreatedAt    string
	UpdatedAt    string

	CanonicalKeyConstraint string
	SlugConstraint         string
}

// CatalogManga is the schema definition for catalog.manga
var CatalogManga = CatalogMangaTable{
	Table:        "catalog.manga",
	ID:           "id",
	CategoryID:   "categoryid",
	Name:         "name",
	OriginalName: "originalname",
	CanonicalKey: "canonicalkey",
	Decency:      "decency",
	Review:       "review",
	Avatar:       "avatar",
	Thumbnail:    "thumbnail",
	Slug:         "slug",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",

	CanonicalKeyConstraint: "manga_canonicalkey_key",
	SlugConstraint:         "manga_slug_key",
}

func (t CatalogMangaTable) Columns() []string {
	return []string{
		t.ID, t.CategoryID, t.Name, t.OriginalName, t.CanonicalKey, t.Decency,
		t.Review, t.Avatar, t.Thumbnail, t.Slug, t.CreatedAt, t.UpdatedAt,
	}
}

// JunctionTable represents a many-to-many link between catalog.manga and one
// reference table.
type JunctionTable struct {
	Table   string
	MangaID string
	RefID   string
}

var (
	MangaAuthor  = JunctionTable{Table: "catalog.mangaauthor", MangaID: "mangaid", RefID: "authorid"}
	MangaCountry = JunctionTable{Table: "catalog.mangacountry", MangaID: "mangaid", RefID: "countryid"}
	MangaGenre   = JunctionTable{Table: "catalog.mangagenre", MangaID: "mangaid", RefID: "genreid"}
	MangaTag     = JunctionTable{Table: "catalog.mangatag", MangaID: "mangaid", RefID: "tagid"}
)
