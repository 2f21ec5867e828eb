package models

// Area is a named partition of the file catalog. Areas are owned by the
// catalog; this service only reads them.
type Area struct {
	ID          int64  `json:"id"`
	Tag         string `json:"tag"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
