package nodes

// TableRefKind names the shape of a TableRef.
type TableRefKind int

const (
	TableName TableRefKind = iota
	SchemaTableName
	DatabaseSchemaTableName
	TableAliasName
	SchemaTableAliasName
	DatabaseSchemaTableAliasName
	SubQueryTableName
)

// TableRef is a table source: a possibly qualified table name with an
// optional alias, or an aliased subquery.
type TableRef struct {
	Database string
	Schema   string
	Name     string
	Alias    string
	SubQuery *SelectStatement
}

// NewTable creates an unqualified table reference.
func NewTable(name string) *TableRef {
	return &TableRef{Name: name}
}

// SchemaTable creates a schema-qualified table reference.
func SchemaTable(schema, name string) *TableRef {
	return &TableRef{Schema: schema, Name: name}
}

// DatabaseSchemaTable creates a database- and schema-qualified table reference.
func DatabaseSchemaTable(database, schema, name string) *TableRef {
	return &TableRef{Database: database, Schema: schema, Name: name}
}

// SubQueryTable creates a derived table: (subquery) AS alias.
func SubQueryTable(q *SelectStatement, alias string) *TableRef {
	return &TableRef{SubQuery: q, Alias: alias}
}

// Kind reports which variant t is.
func (t *TableRef) Kind() TableRefKind {
	switch {
	case t.SubQuery != nil:
		return SubQueryTableName
	case t.Alias == "" && t.Database != "":
		return DatabaseSchemaTableName
	case t.Alias == "" && t.Schema != "":
		return SchemaTableName
	case t.Alias == "":
		return TableName
	case t.Database != "":
		return DatabaseSchemaTableAliasName
	case t.Schema != "":
		return SchemaTableAliasName
	default:
		return TableAliasName
	}
}

// As returns an aliased copy of t.
func (t *TableRef) As(alias string) *TableRef {
	c := *t
	c.Alias = alias
	return &c
}

// RefName is the name columns use to qualify themselves against t: the
// alias when set, otherwise the table name.
func (t *TableRef) RefName() string {
	if t.Alias != "" {
		return t.Alias
	}
	return t.Name
}

// Col creates a column reference owned by t. Aliased tables qualify the
// column by alias; schema-qualified tables keep their schema.
func (t *TableRef) Col(name string) *ColumnExpr {
	if t.Alias == "" && t.Schema != "" {
		return SchemaTableCol(t.Schema, t.Name, name)
	}
	return TableCol(t.RefName(), name)
}

// Star creates a qualified star (table.*) for t.
func (t *TableRef) Star() *ColumnExpr {
	return TableStar(t.RefName())
}
