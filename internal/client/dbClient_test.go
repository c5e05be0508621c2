package client

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"berrypay/internal/logging"
	"berrypay/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
)

func TestDialectorFor(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"postgres://u:p@localhost:5432/berrypay", postgres.Dialector{}.Name()},
		{"postgresql://u:p@localhost/berrypay", postgres.Dialector{}.Name()},
		{"sqlite:berrypay.db", sqlite.Dialector{}.Name()},
		{"file:berrypay.db?_busy_timeout=5000", sqlite.Dialector{}.Name()},
		{"user:pass@tcp(127.0.0.1:3306)/berrypay?parseTime=true", mysql.Dialector{}.Name()},
	}
	for _, tc := range cases {
		if got := dialectorFor(tc.url).Name(); got != tc.want {
			t.Errorf("dialectorFor(%q) = %s, want %s", tc.url, got, tc.want)
		}
	}
}

func TestInitDBClientMigratesSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "berrypay.db")
	db, err := InitDBClient("sqlite:"+path, logging.Discard())
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	for _, table := range []string{"users", "sessions", "products", "checkouts", "settings", "sales"} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("expected table %s to exist", table)
		}
	}
}

func TestInitDBClientLogsThroughSlog(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "berrypay.db")
	db, err := InitDBClient("sqlite:"+path, logging.New(&buf, "debug", "text"))
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	buf.Reset()
	if err := db.First(&model.User{}, "id = ?", "missing").Error; err == nil {
		t.Fatal("expected a not found error")
	}
	if strings.Contains(buf.String(), "record not found") {
		t.Fatalf("missing rows must not be logged: %s", buf.String())
	}

	var n int64
	if err := db.Table("no_such_table").Count(&n).Error; err == nil {
		t.Fatal("expected an error for an unknown table")
	}
	out := buf.String()
	if !strings.Contains(out, "SQL executed") || !strings.Contains(out, "component=db") || !strings.Contains(out, "no_such_table") {
		t.Fatalf("query error not logged through slog: %s", out)
	}
}
