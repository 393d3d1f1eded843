package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table      string
	ID         string
	Username   string
	Email      string
	Password   string
	Gender     string
	IsAdult    string
	Avatar     string
	Slug       string
	Role       string
	IsVerified string
	CreatedAt  string
	UpdatedAt  string

	UsernameConstraint string
	EmailConstraint    string
	SlugConstraint     string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:      "users.account",
	ID:         "id",
	Username:   "username",
	Email:      "email",
	Password:   "passwordhash",
	Gender:     "gender",
	IsAdult:    "isadult",
	Avatar:     "avatar",
	Slug:       "slug",
	Role:       "role",
	IsVerified: "isverified",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",

	UsernameConstraint: "account_username_key",
	EmailConstraint:    "account_email_key",
	SlugConstraint:     "account_slug_key",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.Password, t.Gender, t.IsAdult,
		t.Avatar, t.Slug, t.Role, t.IsVerified, t.CreatedAt, t.UpdatedAt,
	}
}
