package visitors

import (
	"strconv"

	"github.com/bawdo/sqlweave/nodes"
	"github.com/bawdo/sqlweave/sqlwriter"
)

// dclAllowed fails w when the dialect has no privilege system.
func (b *baseBuilder) dclAllowed(w *sqlwriter.Writer, stmt string) bool {
	if !b.caps.dcl {
		b.unsupported(w, stmt)
		return false
	}
	return true
}

func (b *baseBuilder) VisitGrant(w *sqlwriter.Writer, n *nodes.GrantStatement) {
	if !b.dclAllowed(w, "GRANT") {
		return
	}
	w.PushKeyword("GRANT")
	if !b.writePrivileges(w, n.Privileges) || !b.writeObjects(w, n.On, n.Objects) {
		return
	}
	w.PushKeyword("TO")
	if !b.writeGrantees(w, n.Grantees) {
		return
	}
	if n.WithGrantOption {
		pushTrailing(w, "WITH GRANT OPTION")
	}
	b.writeGrantedBy(w, n.GrantedBy)
}

func (b *baseBuilder) VisitRevoke(w *sqlwriter.Writer, n *nodes.RevokeStatement) {
	if !b.dclAllowed(w, "REVOKE") {
		return
	}
	w.PushKeyword("REVOKE")
	if n.GrantOptionFor {
		if b.caps.accountGrants {
			b.unsupported(w, "REVOKE GRANT OPTION FOR")
			return
		}
		w.PushKeyword("GRANT OPTION FOR")
	}
	if !b.writePrivileges(w, n.Privileges) || !b.writeObjects(w, n.On, n.Objects) {
		return
	}
	w.PushKeyword("FROM")
	if !b.writeGrantees(w, n.Grantees) {
		return
	}
	if !b.writeGrantedBy(w, n.GrantedBy) {
		return
	}
	b.writeCascade(w, n.Cascade)
}

func (b *baseBuilder) VisitGrantRole(w *sqlwriter.Writer, n *nodes.GrantRoleStatement) {
	if !b.dclAllowed(w, "GRANT") {
		return
	}
	w.PushKeyword("GRANT")
	if !b.writeRoleNames(w, n.Roles) {
		return
	}
	w.PushKeyword("TO")
	if !b.writeGrantees(w, n.Grantees) {
		return
	}
	if n.WithAdminOption {
		pushTrailing(w, "WITH ADMIN OPTION")
	}
	b.writeGrantedBy(w, n.GrantedBy)
}

func (b *baseBuilder) VisitRevokeRole(w *sqlwriter.Writer, n *nodes.RevokeRoleStatement) {
	if !b.dclAllowed(w, "REVOKE") {
		return
	}
	w.PushKeyword("REVOKE")
	if n.AdminOptionFor {
		if b.caps.accountGrants {
			b.unsupported(w, "REVOKE ADMIN OPTION FOR")
			return
		}
		w.PushKeyword("ADMIN OPTION FOR")
	}
	if !b.writeRoleNames(w, n.Roles) {
		return
	}
	w.PushKeyword("FROM")
	if !b.writeGrantees(w, n.Grantees) {
		return
	}
	if !b.writeGrantedBy(w, n.GrantedBy) {
		return
	}
	b.writeCascade(w, n.Cascade)
}

func (b *baseBuilder) VisitCreateRole(w *sqlwriter.Writer, n *nodes.CreateRoleStatement) {
	if !b.dclAllowed(w, "CREATE ROLE") {
		return
	}
	if n.Name == "" {
		w.Fail(malformed("CREATE ROLE without a name"))
		return
	}
	w.PushKeyword("CREATE ROLE")
	if n.IfNotExists {
		if !b.caps.accountGrants {
			b.unsupported(w, "CREATE ROLE IF NOT EXISTS")
			return
		}
		w.PushKeyword("IF NOT EXISTS")
	}
	w.PushIdentifier(n.Name)
	if len(n.Attributes) == 0 && n.ConnectionLimit == nil && len(n.InRoles) == 0 {
		return
	}
	if b.caps.accountGrants {
		b.unsupported(w, "role attributes")
		return
	}
	w.PushKeyword("WITH")
	sqlwriter.PushList(w, n.Attributes, " ", func(w *sqlwriter.Writer, a nodes.RoleAttribute) {
		w.Push(a.String())
	})
	if n.ConnectionLimit != nil {
		w.PushKeyword("CONNECTION LIMIT")
		w.Push(strconv.Itoa(*n.ConnectionLimit))
	}
	if len(n.InRoles) > 0 {
		w.PushKeyword("IN ROLE")
		b.writeRoleNames(w, n.InRoles)
	}
}

func (b *baseBuilder) VisitDropRole(w *sqlwriter.Writer, n *nodes.DropRoleStatement) {
	if !b.dclAllowed(w, "DROP ROLE") {
		return
	}
	w.PushKeyword("DROP ROLE")
	if n.IfExists {
		w.PushKeyword("IF EXISTS")
	}
	b.writeRoleNames(w, n.Names)
}

func (b *baseBuilder) VisitSetRole(w *sqlwriter.Writer, n *nodes.SetRoleStatement) {
	if !b.dclAllowed(w, "SET ROLE") {
		return
	}
	if n.Target == nodes.RoleReset {
		if b.caps.accountGrants {
			b.unsupported(w, "RESET ROLE")
			return
		}
		w.Push("RESET ROLE")
		return
	}
	w.PushKeyword("SET ROLE")
	switch n.Target {
	case nodes.RoleNamed:
		if len(n.Names) > 1 && !b.caps.accountGrants {
			b.unsupported(w, "SET ROLE with several roles")
			return
		}
		b.writeRoleNames(w, n.Names)
	case nodes.RoleNone:
		w.Push("NONE")
	case nodes.RoleAll, nodes.RoleDefault:
		if !b.caps.accountGrants {
			b.unsupported(w, "SET ROLE ALL and DEFAULT")
			return
		}
		if n.Target == nodes.RoleDefault {
			w.Push("DEFAULT")
		} else {
			w.Push("ALL")
		}
	case nodes.RoleAllExcept:
		if !b.caps.accountGrants {
			b.unsupported(w, "SET ROLE ALL EXCEPT")
			return
		}
		w.PushKeyword("ALL EXCEPT")
		b.writeRoleNames(w, n.Names)
	default:
		w.Fail(malformed("unknown SET ROLE target %d", n.Target))
	}
}

// --- DCL clause writers ---

// pushTrailing writes a keyword that may end the statement.
func pushTrailing(w *sqlwriter.Writer, kw string) {
	w.PushSpace()
	w.Push(kw)
}

func (b *baseBuilder) writePrivileges(w *sqlwriter.Writer, privs []nodes.Privilege) bool {
	if len(privs) == 0 {
		w.Fail(malformed("privilege statement without privileges"))
		return false
	}
	for i, p := range privs {
		if i > 0 {
			w.Push(", ")
		}
		switch {
		case p < nodes.PrivSelect || p > nodes.PrivAll:
			w.Fail(malformed("unknown privilege %d", p))
			return false
		case b.caps.accountGrants && (p == nodes.PrivTruncate || p == nodes.PrivConnect):
			b.unsupported(w, p.String()+" privilege")
			return false
		case b.caps.accountGrants && p == nodes.PrivTemporary:
			w.Push("CREATE TEMPORARY TABLES")
		default:
			w.Push(p.String())
		}
	}
	return true
}

// writeObjects writes the ON clause. MySQL takes a single privilege
// level, and databases and schemas are written as db.*.
func (b *baseBuilder) writeObjects(w *sqlwriter.Writer, typ nodes.ObjectType, objects []*nodes.TableRef) bool {
	if len(objects) == 0 {
		w.Fail(malformed("privilege statement without objects"))
		return false
	}
	for _, o := range objects {
		if o == nil || o.Name == "" {
			w.Fail(ErrNoTable)
			return false
		}
		if o.Alias != "" || o.SubQuery != nil {
			w.Fail(malformed("privileges apply to named objects only"))
			return false
		}
	}
	w.PushKeyword("ON")
	if !b.caps.accountGrants {
		if typ < nodes.OnTable || typ > nodes.OnFunction {
			w.Fail(malformed("unknown object type %d", typ))
			return false
		}
		w.PushKeyword(typ.String())
		sqlwriter.PushList(w, objects, ", ", b.writeTableRef)
		return true
	}
	if len(objects) > 1 {
		b.unsupported(w, "privileges on several objects in one statement")
		return false
	}
	switch typ {
	case nodes.OnTable, nodes.OnFunction:
		w.PushKeyword(typ.String())
		b.writeTableRef(w, objects[0])
	case nodes.OnDatabase, nodes.OnSchema:
		w.PushIdentifier(objects[0].Name)
		w.Push(".*")
	default:
		b.unsupported(w, "privileges ON "+typ.String())
		return false
	}
	return true
}

func (b *baseBuilder) writeGrantees(w *sqlwriter.Writer, gs []nodes.Grantee) bool {
	if len(gs) == 0 {
		w.Fail(malformed("privilege statement without grantees"))
		return false
	}
	for i, g := range gs {
		if i > 0 {
			w.Push(", ")
		}
		if !b.writeGrantee(w, g) {
			return false
		}
	}
	return true
}

func (b *baseBuilder) writeGrantee(w *sqlwriter.Writer, g nodes.Grantee) bool {
	switch g.Kind {
	case nodes.GranteeRole:
		if g.Name == "" {
			w.Fail(malformed("grantee without a name"))
			return false
		}
		w.PushIdentifier(g.Name)
	case nodes.GranteeUser:
		if !b.caps.accountGrants {
			b.unsupported(w, "user@host grantees")
			return false
		}
		if g.Name == "" {
			w.Fail(malformed("grantee without a name"))
			return false
		}
		w.PushIdentifier(g.Name)
		w.Push("@")
		host := g.Host
		if host == "" {
			host = "%"
		}
		w.PushIdentifier(host)
	case nodes.GranteeCurrentUser:
		w.Push("CURRENT_USER")
	case nodes.GranteePublic, nodes.GranteeCurrentRole, nodes.GranteeSessionUser:
		if b.caps.accountGrants {
			b.unsupported(w, granteeKeyword[g.Kind]+" grantee")
			return false
		}
		w.Push(granteeKeyword[g.Kind])
	default:
		w.Fail(malformed("unknown grantee kind %d", g.Kind))
		return false
	}
	return true
}

var granteeKeyword = map[nodes.GranteeKind]string{
	nodes.GranteePublic:      "PUBLIC",
	nodes.GranteeCurrentRole: "CURRENT_ROLE",
	nodes.GranteeSessionUser: "SESSION_USER",
}

func (b *baseBuilder) writeGrantedBy(w *sqlwriter.Writer, g *nodes.Grantee) bool {
	if g == nil {
		return true
	}
	if b.caps.accountGrants {
		b.unsupported(w, "GRANTED BY")
		return false
	}
	w.PushKeyword("GRANTED BY")
	return b.writeGrantee(w, *g)
}

func (b *baseBuilder) writeCascade(w *sqlwriter.Writer, cascade bool) {
	if !cascade {
		return
	}
	if b.caps.accountGrants {
		b.unsupported(w, "REVOKE ... CASCADE")
		return
	}
	pushTrailing(w, "CASCADE")
}

func (b *baseBuilder) writeRoleNames(w *sqlwriter.Writer, names []string) bool {
	if len(names) == 0 {
		w.Fail(malformed("role statement without roles"))
		return false
	}
	for i, name := range names {
		if name == "" {
			w.Fail(malformed("empty role name"))
			return false
		}
		if i > 0 {
			w.Push(", ")
		}
		w.PushIdentifier(name)
	}
	return true
}
