package bulletin

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"filebulletin/internal/render"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// lineEnd is the canonical report line terminator. Template files may use
// any convention; they are normalized on load.
const lineEnd = "\r\n"

// loadTemplates reads the five report fragments from the options template
// dir, decoding each from the configured legacy encoding.
func loadTemplates(opts Options) (render.Templates, error) {
	enc, err := templateEncoding(opts.TemplateEncoding)
	if err != nil {
		return render.Templates{}, err
	}

	read := func(name string) (string, error) {
		path := filepath.Join(opts.TemplateDir, name)
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrTemplateLoad, path, err)
		}
		if enc != nil {
			raw, err = enc.NewDecoder().Bytes(raw)
			if err != nil {
				return "", fmt.Errorf("%w: decode %s: %w", ErrTemplateLoad, path, err)
			}
		}
		return normalizeLineEndings(string(raw)), nil
	}

	var tpls render.Templates
	if tpls.Header, err = read(opts.HeaderTpl); err != nil {
		return tpls, err
	}
	if tpls.AreaHeader, err = read(opts.AreaHeaderTpl); err != nil {
		return tpls, err
	}
	if tpls.Entry, err = read(opts.EntryTpl); err != nil {
		return tpls, err
	}
	if tpls.AreaFooter, err = read(opts.AreaFooterTpl); err != nil {
		return tpls, err
	}
	if tpls.Footer, err = read(opts.FooterTpl); err != nil {
		return tpls, err
	}
	return tpls, nil
}

// templateEncoding resolves the configured encoding name through the IANA
// registry. UTF-8 input needs no transform and returns nil.
func templateEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return nil, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: unknown template encoding %q", ErrConfig, name)
	}
	return enc, nil
}

func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.ReplaceAll(s, "\n", lineEnd)
}
