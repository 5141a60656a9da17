package nodes

import "github.com/bawdo/sqlweave/sqlwriter"

// DCLStatement is a privilege or role statement. DCL statements never
// bind values: servers do not accept parameters in utility commands.
type DCLStatement interface {
	Statement
	dcl()
}

// Privilege is a grantable privilege keyword.
type Privilege int

const (
	PrivSelect Privilege = iota
	PrivInsert
	PrivUpdate
	PrivDelete
	PrivTruncate
	PrivReferences
	PrivTrigger
	PrivUsage
	PrivCreate
	PrivConnect
	PrivTemporary
	PrivExecute
	PrivAll
)

var privilegeSQL = [...]string{
	PrivSelect:     "SELECT",
	PrivInsert:     "INSERT",
	PrivUpdate:     "UPDATE",
	PrivDelete:     "DELETE",
	PrivTruncate:   "TRUNCATE",
	PrivReferences: "REFERENCES",
	PrivTrigger:    "TRIGGER",
	PrivUsage:      "USAGE",
	PrivCreate:     "CREATE",
	PrivConnect:    "CONNECT",
	PrivTemporary:  "TEMPORARY",
	PrivExecute:    "EXECUTE",
	PrivAll:        "ALL PRIVILEGES",
}

func (p Privilege) String() string {
	if p >= 0 && int(p) < len(privilegeSQL) {
		return privilegeSQL[p]
	}
	return "?privilege?"
}

// ObjectType is the kind of object privileges are granted on.
type ObjectType int

const (
	OnTable ObjectType = iota
	OnSequence
	OnDatabase
	OnSchema
	OnFunction
)

var objectTypeSQL = [...]string{
	OnTable:    "TABLE",
	OnSequence: "SEQUENCE",
	OnDatabase: "DATABASE",
	OnSchema:   "SCHEMA",
	OnFunction: "FUNCTION",
}

func (o ObjectType) String() string {
	if o >= 0 && int(o) < len(objectTypeSQL) {
		return objectTypeSQL[o]
	}
	return "?object?"
}

// GranteeKind names the shape of a Grantee.
type GranteeKind int

const (
	GranteeRole GranteeKind = iota
	// GranteeUser is a MySQL account, written name@host.
	GranteeUser
	GranteePublic
	GranteeCurrentUser
	GranteeCurrentRole
	GranteeSessionUser
)

// Grantee receives or loses privileges.
type Grantee struct {
	Kind GranteeKind
	Name string
	Host string
}

func Role(name string) Grantee       { return Grantee{Kind: GranteeRole, Name: name} }
func User(name, host string) Grantee { return Grantee{Kind: GranteeUser, Name: name, Host: host} }
func Public() Grantee                { return Grantee{Kind: GranteePublic} }
func CurrentUser() Grantee           { return Grantee{Kind: GranteeCurrentUser} }
func CurrentRole() Grantee           { return Grantee{Kind: GranteeCurrentRole} }
func SessionUser() Grantee           { return Grantee{Kind: GranteeSessionUser} }

// Roles creates one role grantee per name.
func Roles(names ...string) []Grantee {
	out := make([]Grantee, len(names))
	for i, n := range names {
		out[i] = Role(n)
	}
	return out
}

// GrantStatement is GRANT privileges ON objects TO grantees.
type GrantStatement struct {
	Privileges      []Privilege
	On              ObjectType
	Objects         []*TableRef
	Grantees        []Grantee
	WithGrantOption bool
	GrantedBy       *Grantee
}

// Grant creates a GRANT on tables.
func Grant(privs ...Privilege) *GrantStatement {
	return &GrantStatement{Privileges: privs}
}

// OnObjects sets the object type and objects.
func (s *GrantStatement) OnObjects(typ ObjectType, objects ...*TableRef) *GrantStatement {
	s.On = typ
	s.Objects = objects
	return s
}

// To appends grantees.
func (s *GrantStatement) To(g ...Grantee) *GrantStatement {
	s.Grantees = append(s.Grantees, g...)
	return s
}

func (s *GrantStatement) Accept(v Visitor, w *sqlwriter.Writer) { v.VisitGrant(w, s) }
func (*GrantStatement) statement()                              {}
func (*GrantStatement) dcl()                                    {}

// RevokeStatement is REVOKE privileges ON objects FROM grantees.
type RevokeStatement struct {
	GrantOptionFor bool
	Privileges     []Privilege
	On             ObjectType
	Objects        []*TableRef
	Grantees       []Grantee
	GrantedBy      *Grantee
	Cascade        bool
}

// Revoke creates a REVOKE on tables.
func Revoke(privs ...Privilege) *RevokeStatement {
	return &RevokeStatement{Privileges: privs}
}

// OnObjects sets the object type and objects.
func (s *RevokeStatement) OnObjects(typ ObjectType, objects ...*TableRef) *RevokeStatement {
	s.On = typ
	s.Objects = objects
	return s
}

// From appends grantees.
func (s *RevokeStatement) From(g ...Grantee) *RevokeStatement {
	s.Grantees = append(s.Grantees, g...)
	return s
}

func (s *RevokeStatement) Accept(v Visitor, w *sqlwriter.Writer) { v.VisitRevoke(w, s) }
func (*RevokeStatement) statement()                              {}
func (*RevokeStatement) dcl()                                    {}

// GrantRoleStatement is GRANT roles TO grantees.
type GrantRoleStatement struct {
	Roles           []string
	Grantees        []Grantee
	WithAdminOption bool
	GrantedBy       *Grantee
}

func (s *GrantRoleStatement) Accept(v Visitor, w *sqlwriter.Writer) { v.VisitGrantRole(w, s) }
func (*GrantRoleStatement) statement()                              {}
func (*GrantRoleStatement) dcl()                                    {}

// RevokeRoleStatement is REVOKE roles FROM grantees.
type RevokeRoleStatement struct {
	AdminOptionFor bool
	Roles          []string
	Grantees       []Grantee
	GrantedBy      *Grantee
	Cascade        bool
}

func (s *RevokeRoleStatement) Accept(v Visitor, w *sqlwriter.Writer) { v.VisitRevokeRole(w, s) }
func (*RevokeRoleStatement) statement()                              {}
func (*RevokeRoleStatement) dcl()                                    {}

// RoleAttribute is a CREATE ROLE option keyword.
type RoleAttribute int

const (
	RoleSuperUser RoleAttribute = iota
	RoleNoSuperUser
	RoleCreateDB
	RoleNoCreateDB
	RoleCreateRole
	RoleNoCreateRole
	RoleInherit
	RoleNoInherit
	RoleLogin
	RoleNoLogin
	RoleReplication
	RoleNoReplication
	RoleBypassRLS
	RoleNoBypassRLS
)

var roleAttributeSQL = [...]string{
	RoleSuperUser:     "SUPERUSER",
	RoleNoSuperUser:   "NOSUPERUSER",
	RoleCreateDB:      "CREATEDB",
	RoleNoCreateDB:    "NOCREATEDB",
	RoleCreateRole:    "CREATEROLE",
	RoleNoCreateRole:  "NOCREATEROLE",
	RoleInherit:       "INHERIT",
	RoleNoInherit:     "NOINHERIT",
	RoleLogin:         "LOGIN",
	RoleNoLogin:       "NOLOGIN",
	RoleReplication:   "REPLICATION",
	RoleNoReplication: "NOREPLICATION",
	RoleBypassRLS:     "BYPASSRLS",
	RoleNoBypassRLS:   "NOBYPASSRLS",
}

func (a RoleAttribute) String() string {
	if a >= 0 && int(a) < len(roleAttributeSQL) {
		return roleAttributeSQL[a]
	}
	return "?attribute?"
}

// CreateRoleStatement is CREATE ROLE. ConnectionLimit is written when
// non-nil.
type CreateRoleStatement struct {
	Name            string
	IfNotExists     bool
	Attributes      []RoleAttribute
	ConnectionLimit *int
	InRoles         []string
}

func (s *CreateRoleStatement) Accept(v Visitor, w *sqlwriter.Writer) { v.VisitCreateRole(w, s) }
func (*CreateRoleStatement) statement()                              {}
func (*CreateRoleStatement) dcl()                                    {}

// DropRoleStatement is DROP ROLE.
type DropRoleStatement struct {
	Names    []string
	IfExists bool
}

func (s *DropRoleStatement) Accept(v Visitor, w *sqlwriter.Writer) { v.VisitDropRole(w, s) }
func (*DropRoleStatement) statement()                              {}
func (*DropRoleStatement) dcl()                                    {}

// RoleTarget selects what SET ROLE switches to.
type RoleTarget int

const (
	RoleNamed RoleTarget = iota
	RoleNone
	RoleAll
	RoleAllExcept
	RoleDefault
	// RoleReset writes RESET ROLE.
	RoleReset
)

// SetRoleStatement is SET ROLE, or RESET ROLE for RoleReset.
type SetRoleStatement struct {
	Target RoleTarget
	Names  []string
}

func (s *SetRoleStatement) Accept(v Visitor, w *sqlwriter.Writer) { v.VisitSetRole(w, s) }
func (*SetRoleStatement) statement()                              {}
func (*SetRoleStatement) dcl()                                    {}
