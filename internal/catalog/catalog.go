package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"filebulletin/internal/models"

	"github.com/dlclark/regexp2"
)

// ErrFileNotFound reports a file id that no longer resolves, e.g. deleted
// between listing and loading.
var ErrFileNotFound = errors.New("file not found")

// Store is the read-only query adapter over the file catalog.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ListAreas returns catalog areas whose tag matches the inclusion pattern,
// in the order the catalog yields them. The pattern runs in Go because the
// documented default uses lookahead, which SQL REGEXP and stdlib RE2 lack.
func (s *Store) ListAreas(ctx context.Context, include *regexp2.Regexp) ([]models.Area, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tag, name, description FROM areas ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	defer rows.Close()

	var areas []models.Area
	for rows.Next() {
		var a models.Area
		if err := rows.Scan(&a.ID, &a.Tag, &a.Name, &a.Description); err != nil {
			return nil, fmt.Errorf("scan area: %w", err)
		}
		if include != nil {
			ok, err := include.MatchString(a.Tag)
			if err != nil {
				return nil, fmt.Errorf("match area tag %q: %w", a.Tag, err)
			}
			if !ok {
				continue
			}
		}
		areas = append(areas, a)
	}
	return areas, rows.Err()
}

// FindNewFiles returns ids of files uploaded strictly after since and no
// later than until, for one area. Empty result is valid.
func (s *Store) FindNewFiles(ctx context.Context, areaTag string, since, until time.Time) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM files WHERE area_tag = ? AND uploaded_at > ? AND uploaded_at <= ? ORDER BY uploaded_at ASC, id ASC`,
		areaTag, since, until,
	)
	if err != nil {
		return nil, fmt.Errorf("find new files in %s: %w", areaTag, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan file id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// LoadFile fetches one full file record with its tags.
func (s *Store) LoadFile(ctx context.Context, id int64) (*models.FileRecord, error) {
	rec := new(models.FileRecord)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, area_tag, file_name, size, description, sha256, crc32, md5, sha1, uploaded_by, uploaded_at
		 FROM files WHERE id = ?`,
		id,
	).Scan(&rec.ID, &rec.AreaTag, &rec.FileName, &rec.Size, &rec.Description,
		&rec.SHA256, &rec.CRC32, &rec.MD5, &rec.SHA1, &rec.UploadedBy, &rec.UploadedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("load file %d: %w", id, ErrFileNotFound)
		}
		return nil, fmt.Errorf("load file %d: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT tag FROM file_tags WHERE file_id = ? ORDER BY tag ASC`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("load file tags %d: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scan file tag: %w", err)
		}
		rec.Tags = append(rec.Tags, tag)
	}
	return rec, rows.Err()
}
