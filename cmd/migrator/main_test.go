package main

import "testing"

func TestWithMigrationsTable(t *testing.T) {
	tests := []struct {
		dsn, want string
	}{
		{"postgres://u:p@db:5432/profiles", "postgres://u:p@db:5432/profiles?x-migrations-table=migrations"},
		{"postgres://u:p@db:5432/profiles?sslmode=disable", "postgres://u:p@db:5432/profiles?sslmode=disable&x-migrations-table=migrations"},
	}

	for _, tt := range tests {
		if got := withMigrationsTable(tt.dsn, "migrations"); got != tt.want {
			t.Errorf("withMigrationsTable(%q) = %q, want %q", tt.dsn, got, tt.want)
		}
	}
}
