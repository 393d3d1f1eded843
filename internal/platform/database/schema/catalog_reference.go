package schema

// CatalogAuthorTable represents the 'catalog.author' table
type CatalogAuthorTable struct {
	Table     string
	ID        string
	FirstName string
	LastName  string
	CreatedAt string
}

// CatalogAuthor is the schema definition for catalog.author
var CatalogAuthor = CatalogAuthorTable{
	Table:     "catalog.author",
	ID:        "id",
	FirstName: "firstname",
	LastName:  "lastname",
	CreatedAt: "createdat",
}

func (t CatalogAuthorTable) Columns() []string {
	return []string{t.ID, t.FirstName, t.LastName, t.CreatedAt}
}

// NamedTable represents the flat lookup tables that only carry a unique name:
// 'catalog.country', 'catalog.genre', 'catalog.tag' and 'catalog.category'.
type NamedTable struct {
	Table string
	ID    string
	Name  string

	// NameKey is the unique constraint on Name.
	NameKey string
}

var (
	CatalogCountry  = NamedTable{Table: "catalog.country", ID: "id", Name: "name", NameKey: "country_name_key"}
	CatalogGenre    = NamedTable{Table: "catalog.genre", ID: "id", Name: "name", NameKey: "genre_name_key"}
	CatalogTag      = NamedTable{Table: "catalog.tag", ID: "id", Name: "name", NameKey: "tag_name_key"}
	CatalogCategory = NamedTable{Table: "catalog.category", ID: "id", Name: "name", NameKey: "category_name_key"}
)

func (t NamedTable) Columns() []string {
	return []string{t.ID, t.Name}
}
