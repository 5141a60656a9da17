package visitors

import (
	"log/slog"

	"github.com/hashicorp/go-version"

	"github.com/bawdo/sqlweave/dialect"
	"github.com/bawdo/sqlweave/nodes"
)

// Option configures a builder at construction time.
type Option func(*baseBuilder)

// WithLogger sets the logger that receives a Debug record for every
// compiled statement. Builders log nothing by default.
func WithLogger(l *slog.Logger) Option {
	return func(b *baseBuilder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithServerVersion declares the server version the SQL will run on.
// Version-dependent features (RETURNING and outer joins on SQLite,
// LATERAL and INTERSECT/EXCEPT on MySQL) are gated against it. An
// unparsable version makes every Build call fail.
func WithServerVersion(v string) Option {
	return func(b *baseBuilder) {
		parsed, err := version.NewVersion(v)
		if err != nil {
			b.configErr = malformed("server version %q: %v", v, err)
			return
		}
		b.version = parsed
	}
}

// WithPretty renders each top-level clause on its own line.
func WithPretty() Option {
	return func(b *baseBuilder) {
		b.pretty = true
	}
}

// Default server versions assumed when WithServerVersion is not given.
const (
	DefaultPostgresVersion = "16.0"
	DefaultMySQLVersion    = "8.0.0"
	DefaultSQLiteVersion   = "3.45.0"
)

var (
	mysqlLateral      = version.MustConstraints(version.NewConstraint(">= 8.0.14"))
	mysqlSetOps       = version.MustConstraints(version.NewConstraint(">= 8.0.31"))
	sqliteReturning   = version.MustConstraints(version.NewConstraint(">= 3.35.0"))
	sqliteOuterJoins  = version.MustConstraints(version.NewConstraint(">= 3.39.0"))
	mysqlLockWaitOpts = version.MustConstraints(version.NewConstraint(">= 8.0.1"))
)

// capabilities is the feature matrix of one builder, resolved from its
// dialect and server version after the options are applied.
type capabilities struct {
	distinctOn    bool
	distinctRow   bool
	returning     bool
	fullJoin      bool
	rightJoin     bool
	lateral       bool
	groupsFrame   bool
	intersect     bool // INTERSECT and EXCEPT
	setOpAll      bool // INTERSECT ALL and EXCEPT ALL
	nativeNulls   bool // NULLS FIRST / NULLS LAST
	lockModes     []nodes.LockMode
	lockWait      bool
	onConflict    bool // ON CONFLICT rather than ON DUPLICATE KEY UPDATE
	defaultValues string
	offsetOnly    string // LIMIT written before a bare OFFSET
	dcl           bool   // GRANT, REVOKE and role statements
	accountGrants bool   // MySQL privilege levels, user@host accounts and SET ROLE ALL
}

func resolveCapabilities(d dialect.Name, v *version.Version) capabilities {
	switch d {
	case dialect.MySQL:
		return capabilities{
			distinctRow:   true,
			rightJoin:     true,
			lateral:       mysqlLateral.Check(v),
			intersect:     mysqlSetOps.Check(v),
			setOpAll:      mysqlSetOps.Check(v),
			lockModes:     []nodes.LockMode{nodes.ForUpdate, nodes.ForShare},
			lockWait:      mysqlLockWaitOpts.Check(v),
			defaultValues: "() VALUES ()",
			offsetOnly:    "18446744073709551615",
			dcl:           true,
			accountGrants: true,
		}
	case dialect.SQLite:
		return capabilities{
			returning:     sqliteReturning.Check(v),
			fullJoin:      sqliteOuterJoins.Check(v),
			rightJoin:     sqliteOuterJoins.Check(v),
			intersect:     true,
			nativeNulls:   true,
			onConflict:    true,
			defaultValues: "DEFAULT VALUES",
			offsetOnly:    "-1",
		}
	default:
		return capabilities{
			distinctOn:  true,
			returning:   true,
			fullJoin:    true,
			rightJoin:   true,
			lateral:     true,
			groupsFrame: true,
			intersect:   true,
			setOpAll:    true,
			nativeNulls: true,
			lockModes: []nodes.LockMode{
				nodes.ForUpdate, nodes.ForNoKeyUpdate, nodes.ForShare, nodes.ForKeyShare,
			},
			lockWait:      true,
			onConflict:    true,
			defaultValues: "DEFAULT VALUES",
			dcl:           true,
		}
	}
}
