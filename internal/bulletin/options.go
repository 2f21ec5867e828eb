package bulletin

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dlclark/regexp2"
)

// Options is the per-run reporting configuration. Defaults below may be
// overridden, any subset at a time, by a JSON options file.
type Options struct {
	AreaTagsRegex     string `json:"area_tags_regex"`
	MaxFilesPerArea   int    `json:"max_files_per_area"`
	PostMaxSizeTarget int    `json:"post_max_size_target"`
	TemplateDir       string `json:"template_dir"`
	HeaderTpl         string `json:"header_tpl"`
	AreaHeaderTpl     string `json:"area_header_tpl"`
	EntryTpl          string `json:"entry_tpl"`
	AreaFooterTpl     string `json:"area_footer_tpl"`
	FooterTpl         string `json:"footer_tpl"`
	To                string `json:"to"`
	From              string `json:"from"`
	TSFormat          string `json:"ts_format"`
	SubjectFormat     string `json:"subject_format"`
	TemplateEncoding  string `json:"template_encoding"`
}

// DefaultOptions returns the documented defaults. The area pattern excludes
// tags starting with "uploads"; it needs lookahead, hence regexp2.
func DefaultOptions() Options {
	return Options{
		AreaTagsRegex:     `^(?!uploads).*$`,
		MaxFilesPerArea:   20,
		PostMaxSizeTarget: 512000,
		TemplateDir:       "templates",
		HeaderTpl:         "header.tpl",
		AreaHeaderTpl:     "area_header.tpl",
		EntryTpl:          "entry.tpl",
		AreaFooterTpl:     "area_footer.tpl",
		FooterTpl:         "footer.tpl",
		To:                "All",
		From:              "File Server",
		TSFormat:          "2006-01-02 15:04",
		SubjectFormat:     "New files on {boardName}",
		TemplateEncoding:  "cp437",
	}
}

// LoadOptions merges the override file at path over the defaults. An empty
// path means defaults only. A relative template dir resolves against the
// options file location.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	if path == "" {
		return opts, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("%w: read options %s: %w", ErrConfig, path, err)
	}
	if err := json.Unmarshal(raw, &opts); err != nil {
		return opts, fmt.Errorf("%w: decode options %s: %w", ErrConfig, path, err)
	}

	if opts.MaxFilesPerArea < 0 {
		return opts, fmt.Errorf("%w: max_files_per_area must not be negative", ErrConfig)
	}
	if !filepath.IsAbs(opts.TemplateDir) {
		opts.TemplateDir = filepath.Join(filepath.Dir(path), opts.TemplateDir)
	}
	return opts, nil
}

// CompileAreaPattern compiles the area inclusion pattern.
func (o Options) CompileAreaPattern() (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(o.AreaTagsRegex, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("%w: area pattern %q: %w", ErrConfig, o.AreaTagsRegex, err)
	}
	return re, nil
}
