package repositories

import (
	"strconv"
	"strings"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver
)

// dialect captures the differences between the supported SQL databases.
type dialect struct {
	name       string
	driverName string
	schema     string
	// numbered placeholders ($1, $2) instead of ?
	numbered bool
	// INSERT ... RETURNING id instead of LastInsertId
	returning bool
	// single connection, required for sqlite in-memory databases
	singleConn bool
}

var dialects = map[string]dialect{
	"postgres": {
		name:       "postgres",
		driverName: "pgx",
		schema: `CREATE TABLE IF NOT EXISTS posts (
	id BIGSERIAL PRIMARY KEY,
	title VARCHAR(255) NOT NULL,
	content TEXT NOT NULL
)`,
		numbered:  true,
		returning: true,
	},
	"sqlite": {
		name:       "sqlite",
		driverName: "sqlite3",
		schema: `CREATE TABLE IF NOT EXISTS posts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title VARCHAR(255) NOT NULL,
	content TEXT NOT NULL
)`,
		singleConn: true,
	},
	"mysql": {
		name:       "mysql",
		driverName: "mysql",
		schema: `CREATE TABLE IF NOT EXISTS posts (
	id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
	title VARCHAR(255) NOT NULL,
	content LONGTEXT NOT NULL
) DEFAULT CHARSET=utf8mb4`,
	},
}

// rebind rewrites ? placeholders into the dialect's form.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}

	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}
