package delivery

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"filebulletin/internal/models"
	"filebulletin/internal/render"
)

// Envelope carries everything shared by the outbound copies of one report.
type Envelope struct {
	From          string
	To            string
	SubjectFormat string
	Body          string
	BodyEncoding  string
}

// Outbox hands rendered reports to the message channel store, one row per
// destination.
type Outbox struct {
	db  *sql.DB
	now func() time.Time
}

func NewOutbox(db *sql.DB) *Outbox {
	return &Outbox{db: db, now: time.Now}
}

// Deliver writes one bulletin per destination, strictly in listed order. The
// subject is substituted against the final report context, so every copy
// carries the same final totals. The first failure stops further
// destinations; rows already written stand.
func (o *Outbox) Deliver(ctx context.Context, env Envelope, destinations []string, finalCtx render.Context) (int, error) {
	subject := render.Substitute(env.SubjectFormat, finalCtx)
	now := o.now().UTC()

	delivered := 0
	for _, dest := range destinations {
		msg := models.Bulletin{
			Channel:      dest,
			FromName:     env.From,
			ToName:       env.To,
			Subject:      subject,
			Body:         env.Body,
			BodyEncoding: env.BodyEncoding,
			CreatedAt:    now,
		}
		_, err := o.db.ExecContext(ctx,
			`INSERT INTO bulletins (channel, from_name, to_name, subject, body, body_encoding, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			msg.Channel, msg.FromName, msg.ToName, msg.Subject, msg.Body, msg.BodyEncoding, msg.CreatedAt,
		)
		if err != nil {
			return delivered, fmt.Errorf("deliver to %s: %w", dest, err)
		}
		delivered++
	}
	return delivered, nil
}

// ParseDestinations splits a comma-separated destination list, trimming
// whitespace and dropping empty entries.
func ParseDestinations(list string) []string {
	var dests []string
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			dests = append(dests, part)
		}
	}
	return dests
}
