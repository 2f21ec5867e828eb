package models

import "time"

// FileRecord represents one catalog entry enriched for reporting. Records are
// built transiently per run; only the description is rewritten (reflow), the
// rest stays as the catalog delivered it.
type FileRecord struct {
	ID          int64     `json:"id"`
	AreaTag     string    `json:"area_tag"`
	FileName    string    `json:"file_name"`
	Size        int64     `json:"size"`
	Description string    `json:"description"`
	SHA256      string    `json:"sha256"`
	CRC32       string    `json:"crc32"`
	MD5         string    `json:"md5"`
	SHA1        string    `json:"sha1"`
	UploadedBy  string    `json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
	Tags        []string  `json:"tags"`
}
