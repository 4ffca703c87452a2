package sqlstore

import (
	"strconv"
	"strings"

	"github.com/runoshun/taskbot/internal/domain"
)

// dialect hides the differences between the supported engines.
type dialect struct {
	driver       string // database/sql driver name
	idColumn     string // DDL of the auto-assigned primary key
	numbered     bool   // placeholders are $1, $2 ... instead of ?
	singleWriter bool   // engine allows one writer connection only
}

var (
	sqliteDialect = dialect{
		driver:       "sqlite",
		idColumn:     "id INTEGER PRIMARY KEY AUTOINCREMENT",
		singleWriter: true,
	}
	postgresDialect = dialect{
		driver:   "pgx",
		idColumn: "id BIGSERIAL PRIMARY KEY",
		numbered: true,
	}
)

func dialectFor(driver string) (dialect, bool) {
	switch driver {
	case domain.DriverSQLite:
		return sqliteDialect, true
	case domain.DriverPostgres:
		return postgresDialect, true
	default:
		return dialect{}, false
	}
}

// rebind rewrites ? placeholders for engines that number them.
// Queries in this package never contain a literal '?'.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
