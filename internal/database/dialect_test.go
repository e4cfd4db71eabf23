package database

import "testing"

func TestRewritePlaceholdersToNumbered(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "no placeholders",
			query: "SELECT * FROM campers",
			want:  "SELECT * FROM campers",
		},
		{
			name:  "single placeholder",
			query: "SELECT * FROM campers WHERE id = ?",
			want:  "SELECT * FROM campers WHERE id = $1",
		},
		{
			name:  "multiple placeholders",
			query: "INSERT INTO campgroups (name, color) VALUES (?, ?)",
			want:  "INSERT INTO campgroups (name, color) VALUES ($1, $2)",
		},
		{
			name:  "placeholders in update",
			query: "UPDATE campevents SET title = ?, group_id = ? WHERE id = ?",
			want:  "UPDATE campevents SET title = $1, group_id = $2 WHERE id = $3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rewritePlaceholdersToNumbered(tt.query); got != tt.want {
				t.Errorf("rewritePlaceholdersToNumbered() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDialectProperties(t *testing.T) {
	sqlite := NewSQLiteDialect()
	if sqlite.DriverName() != "sqlite3" {
		t.Errorf("sqlite driver = %q", sqlite.DriverName())
	}
	if !sqlite.SupportsLastInsertId() {
		t.Error("sqlite should support LastInsertId")
	}
	if got := sqlite.RewriteQuery("WHERE id = ?"); got != "WHERE id = ?" {
		t.Errorf("sqlite rewrite changed query: %q", got)
	}

	postgres := NewPostgresDialect()
	if postgres.DriverName() != "postgres" {
		t.Errorf("postgres driver = %q", postgres.DriverName())
	}
	if postgres.SupportsLastInsertId() {
		t.Error("postgres should not support LastInsertId")
	}
	if got := postgres.RewriteQuery("WHERE id = ?"); got != "WHERE id = $1" {
		t.Errorf("postgres rewrite = %q", got)
	}

	mysql := NewMySQLDialect()
	if mysql.DriverName() != "mysql" {
		t.Errorf("mysql driver = %q", mysql.DriverName())
	}
	if mysql.MigrationsSubdir() != "mysql" {
		t.Errorf("mysql migrations subdir = %q", mysql.MigrationsSubdir())
	}
}
