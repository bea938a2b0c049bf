// Package schema declares the relational schemas of the Stack Overflow dump
// tables as data: one ordered (column, type) list per table, plus the file
// names each table lives in at every pipeline stage.
//
// Everything downstream is driven by these declarations: the filter stage
// uses DumpFile/FilteredFile/RootTag, the SQL generator renders literals by
// column type, and the storage DDL bootstrap builds CREATE TABLE statements
// from the same lists. There are no per-table code paths.
//
// Column names are the attribute names used by the dump (CamelCase, e.g.
// "OwnerUserId"); SQL identifiers are their lowercase forms.
package schema

import "strings"

// Type is the declared SQL-level type of a column. It decides quoting and
// escaping during SQL generation and the rendered type in generated DDL.
type Type int

const (
	Int Type = iota
	SmallInt
	Bool
	Varchar
	Text
	Timestamp
	Date
	UUID
)

// Quoted reports whether values of this type are rendered inside single
// quotes in SQL literals.
func (t Type) Quoted() bool {
	switch t {
	case Varchar, Text, Timestamp, Date, UUID:
		return true
	}
	return false
}

// SQLType returns a generic SQL type name for CREATE TABLE rendering.
// Dialect-specific backends may map these further; the generic names are
// accepted by Postgres, SQLite, and MySQL for the tables declared here.
func (t Type) SQLType() string {
	switch t {
	case Int:
		return "INTEGER"
	case SmallInt:
		return "SMALLINT"
	case Bool:
		return "BOOLEAN"
	case Varchar:
		return "VARCHAR(1024)"
	case Text:
		return "TEXT"
	case Timestamp:
		return "TIMESTAMP"
	case Date:
		return "DATE"
	case UUID:
		return "VARCHAR(36)"
	}
	return "TEXT"
}

// Column binds a dump attribute name to a declared type.
type Column struct {
	Name string // source attribute name, e.g. "CreationDate"
	Type Type
}

// SQLName is the column identifier used in generated SQL.
func (c Column) SQLName() string { return strings.ToLower(c.Name) }

// Table describes one logical table across all pipeline stages.
type Table struct {
	Name         string // target relation name, e.g. "posts"
	DumpFile     string // source dump file name; empty for derived tables
	FilteredFile string // stage-1 output / stage-2 input file name
	RootTag      string // root element of the filtered XML envelope
	Columns      []Column
}

// ColumnList renders the comma-separated lowercase column list used verbatim
// in INSERT statements.
func (t Table) ColumnList() string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.SQLName()
	}
	return strings.Join(names, ", ")
}

// tables is declared in load order: tables that other tables reference
// logically (users, tags) come first so generated scripts can be applied
// in declaration order.
var tables = []Table{
	{
		Name:         "users",
		DumpFile:     "Users.xml",
		FilteredFile: "filtered_Users.xml",
		RootTag:      "users",
		Columns: []Column{
			{"Id", Int}, {"Reputation", Int}, {"CreationDate", Timestamp},
			{"DisplayName", Varchar}, {"LastAccessDate", Timestamp}, {"WebsiteUrl", Varchar},
			{"Location", Varchar}, {"AboutMe", Text}, {"Views", Int},
			{"UpVotes", Int}, {"DownVotes", Int}, {"ProfileImageUrl", Varchar},
			{"EmailHash", Varchar}, {"AccountId", Int},
		},
	},
	{
		Name:         "tags",
		DumpFile:     "Tags.xml",
		FilteredFile: "filtered_Tags.xml",
		RootTag:      "tags",
		Columns: []Column{
			{"Id", Int}, {"TagName", Varchar}, {"Count", Int},
			{"ExcerptPostId", Int}, {"WikiPostId", Int},
		},
	},
	{
		Name:         "posts",
		DumpFile:     "Posts.xml",
		FilteredFile: "filtered_Posts.xml",
		RootTag:      "posts",
		Columns: []Column{
			{"Id", Int}, {"PostTypeId", Int}, {"AcceptedAnswerId", Int},
			{"ParentId", Int}, {"CreationDate", Timestamp}, {"Score", Int},
			{"ViewCount", Int}, {"Body", Text}, {"OwnerUserId", Int},
			{"LastEditorUserId", Int}, {"LastEditDate", Timestamp},
			{"LastActivityDate", Timestamp}, {"Title", Text}, {"Tags", Text},
			{"AnswerCount", Int}, {"CommentCount", Int}, {"FavoriteCount", Int},
			{"ClosedDate", Timestamp}, {"ContentLicense", Text},
		},
	},
	{
		Name:         "comments",
		DumpFile:     "Comments.xml",
		FilteredFile: "filtered_Comments.xml",
		RootTag:      "comments",
		Columns: []Column{
			{"Id", Int}, {"PostId", Int}, {"Score", Int},
			{"Text", Text}, {"CreationDate", Timestamp}, {"UserId", Int},
			{"ContentLicense", Text},
		},
	},
	{
		Name:         "votes",
		DumpFile:     "Votes.xml",
		FilteredFile: "filtered_Votes.xml",
		RootTag:      "votes",
		Columns: []Column{
			{"Id", Int}, {"PostId", Int}, {"VoteTypeId", Int},
			{"UserId", Int}, {"CreationDate", Date}, {"BountyAmount", Int},
		},
	},
	{
		Name:         "posthistory",
		DumpFile:     "PostHistory.xml",
		FilteredFile: "filtered_PostHistory.xml",
		RootTag:      "posthistory",
		Columns: []Column{
			{"Id", Int}, {"PostHistoryTypeId", Int}, {"PostId", Int},
			{"RevisionGUID", UUID}, {"CreationDate", Timestamp}, {"UserId", Int},
			{"Comment", Text}, {"Text", Text}, {"ContentLicense", Text},
		},
	},
	{
		Name:         "postlinks",
		DumpFile:     "PostLinks.xml",
		FilteredFile: "filtered_PostLinks.xml",
		RootTag:      "postlinks",
		Columns: []Column{
			{"Id", Int}, {"CreationDate", Timestamp}, {"PostId", Int},
			{"RelatedPostId", Int}, {"LinkTypeId", Int},
		},
	},
	{
		Name:         "badges",
		DumpFile:     "Badges.xml",
		FilteredFile: "filtered_Badges.xml",
		RootTag:      "badges",
		Columns: []Column{
			{"Id", Int}, {"UserId", Int}, {"Name", Varchar},
			{"Date", Timestamp}, {"Class", SmallInt}, {"TagBased", Bool},
		},
	},
	{
		// Derived many-to-many relation; synthesized by the filter stage,
		// never present in the source dump.
		Name:         "posttags",
		FilteredFile: "filtered_PostTags.xml",
		RootTag:      "posttags",
		Columns: []Column{
			{"PostId", Int}, {"TagId", Int},
		},
	},
}

// Tables returns all table declarations in load order. The returned slice is
// shared; callers must not mutate it.
func Tables() []Table { return tables }

// Lookup finds a table declaration by target relation name.
func Lookup(name string) (Table, bool) {
	for _, t := range tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}
