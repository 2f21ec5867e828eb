package render

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"filebulletin/internal/models"
)

// Context is the running key/value mapping placeholders resolve against.
// One instance lives for a whole run; totals written into it only grow.
type Context map[string]string

func (c Context) Set(key, value string) {
	c[key] = value
}

func (c Context) SetInt(key string, value int64) {
	c[key] = strconv.FormatInt(value, 10)
}

var tokenPattern = regexp.MustCompile(`\{[a-zA-Z][a-zA-Z0-9]*\}`)

// Substitute replaces every {token} that exists in ctx with its value.
// Unrecognized tokens stay verbatim so template authors can keep example
// or unsupported placeholders without breaking rendering.
func Substitute(template string, ctx Context) string {
	return tokenPattern.ReplaceAllStringFunc(template, func(match string) string {
		if value, ok := ctx[match[1:len(match)-1]]; ok {
			return value
		}
		return match
	})
}

// Templates holds the five report fragments, already decoded and with line
// endings normalized.
type Templates struct {
	Header     string
	AreaHeader string
	Entry      string
	AreaFooter string
	Footer     string
}

// Result is the rendered report plus its final totals.
type Result struct {
	Text       string
	TotalFiles int
	TotalBytes int64
}

// Render assembles the report: header, then per area with at least one
// included file an area header, one entry per file and an area footer, then
// the footer. Running totals update before each entry is substituted, so an
// entry sees its own size reflected in {totalFileBytes}. Areas without new
// files emit nothing. TotalFiles zero means nothing should be delivered.
func Render(tpls Templates, ctx Context, reports []models.AreaReport, tsFormat string) Result {
	var (
		totalFiles int
		totalBytes int64
	)
	ctx.SetInt("totalFileCount", 0)
	ctx.SetInt("totalFileBytes", 0)

	var b strings.Builder
	b.WriteString(Substitute(tpls.Header, ctx))

	for _, rep := range reports {
		if len(rep.Files) == 0 {
			continue
		}
		ctx.Set("areaName", rep.Area.Name)
		ctx.Set("areaDesc", rep.Area.Description)
		ctx.SetInt("areaFileCount", int64(len(rep.Files)))
		ctx.SetInt("areaRemainingFiles", int64(rep.Remaining))
		ctx.SetInt("areaFileBytes", rep.Bytes)
		b.WriteString(Substitute(tpls.AreaHeader, ctx))

		for _, f := range rep.Files {
			totalFiles++
			totalBytes += f.Size
			ctx.SetInt("totalFileCount", int64(totalFiles))
			ctx.SetInt("totalFileBytes", totalBytes)
			ctx.Set("fileName", f.FileName)
			ctx.SetInt("fileSize", f.Size)
			ctx.Set("fileDesc", f.Description)
			ctx.Set("fileSha256", f.SHA256)
			ctx.Set("fileCrc32", f.CRC32)
			ctx.Set("fileMd5", f.MD5)
			ctx.Set("fileSha1", f.SHA1)
			ctx.Set("uploadBy", f.UploadedBy)
			ctx.Set("fileUploadTs", f.UploadedAt.Format(tsFormat))
			ctx.Set("fileHashTags", HashTags(f.Tags))
			b.WriteString(Substitute(tpls.Entry, ctx))
		}

		b.WriteString(Substitute(tpls.AreaFooter, ctx))
	}

	if totalFiles == 0 {
		return Result{}
	}

	b.WriteString(Substitute(tpls.Footer, ctx))
	return Result{Text: b.String(), TotalFiles: totalFiles, TotalBytes: totalBytes}
}

// HashTags renders a tag set as sorted, deduplicated hashtags.
func HashTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	uniq := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		uniq = append(uniq, t)
	}
	sort.Strings(uniq)
	for i, t := range uniq {
		uniq[i] = "#" + t
	}
	return strings.Join(uniq, " ")
}
