package delivery

import (
	"context"
	"database/sql"
	"reflect"
	"testing"

	"filebulletin/internal/config"
	"filebulletin/internal/render"
	"filebulletin/internal/storage"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	cfg := &config.Config{
		Databases: map[string]config.DatabaseConfig{
			"sqlite3": {
				DSN: ":memory:",
			},
		},
	}
	db, err := storage.Open("sqlite3", cfg)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := storage.Migrate(db, "sqlite3"); err != nil {
		t.Fatalf("migrate db: %v", err)
	}
	return db
}

func TestDeliverWritesOneBulletinPerDestination(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	finalCtx := render.Context{
		"boardName":      "Testboard",
		"totalFileCount": "7",
	}
	env := Envelope{
		From:          "File Server",
		To:            "All",
		SubjectFormat: "New files on {boardName} ({totalFileCount})",
		Body:          "the report body\r\n",
		BodyEncoding:  "cp437",
	}

	delivered, err := NewOutbox(db).Deliver(context.Background(), env, []string{"a", "b", "c"}, finalCtx)
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if delivered != 3 {
		t.Fatalf("expected 3 deliveries, got %d", delivered)
	}

	rows, err := db.Query(`SELECT channel, from_name, to_name, subject, body, body_encoding FROM bulletins ORDER BY id`)
	if err != nil {
		t.Fatalf("query bulletins: %v", err)
	}
	defer rows.Close()

	var channels []string
	for rows.Next() {
		var channel, from, to, subject, body, enc string
		if err := rows.Scan(&channel, &from, &to, &subject, &body, &enc); err != nil {
			t.Fatalf("scan bulletin: %v", err)
		}
		channels = append(channels, channel)
		if subject != "New files on Testboard (7)" {
			t.Fatalf("subject not rendered from final totals: %q", subject)
		}
		if body != env.Body {
			t.Fatalf("body mismatch for %s: %q", channel, body)
		}
		if from != "File Server" || to != "All" || enc != "cp437" {
			t.Fatalf("envelope fields mismatch: %s/%s/%s", from, to, enc)
		}
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows: %v", err)
	}
	if !reflect.DeepEqual(channels, []string{"a", "b", "c"}) {
		t.Fatalf("destinations out of order: %v", channels)
	}
}

func TestDeliverStopsAtFirstFailure(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()
	// Closing the database makes every insert fail; nothing may be written
	// and the first destination's failure must surface.
	db.Close()

	delivered, err := NewOutbox(db).Deliver(context.Background(), Envelope{SubjectFormat: "s"}, []string{"a", "b"}, render.Context{})
	if err == nil {
		t.Fatalf("expected delivery failure")
	}
	if delivered != 0 {
		t.Fatalf("expected 0 deliveries, got %d", delivered)
	}
}

func TestParseDestinations(t *testing.T) {
	got := ParseDestinations(" a, b ,,c ")
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected destinations: %v", got)
	}
	if ParseDestinations(" , ") != nil {
		t.Fatalf("expected nil for blank list")
	}
}
