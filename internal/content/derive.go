package content

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"git.home.luguber.info/inful/htmlgen/internal/route"
)

// FilenamePattern is the route pattern of time-stamped content file names,
// without the extension.
const FilenamePattern = `:time(\d+).:slug`

// DeriveDateSlug extracts the date and slug from a file name of the form
// "<epoch-millis>.<slug>.<ext>". Other names yield now and the base name
// without its extension; ok reports whether the time-stamped form matched.
func DeriveDateSlug(filename string, now time.Time) (date time.Time, slug string, ok bool) {
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	p, err := route.Compile(FilenamePattern + ext)
	if err == nil {
		if params, matched := p.Match(base); matched {
			if ms, perr := strconv.ParseInt(params["time"], 10, 64); perr == nil {
				return time.UnixMilli(ms).UTC(), params["slug"], true
			}
		}
	}
	return now.UTC(), stem, false
}

// DeriveCategories returns the directory segments between root and file.
// Files directly below root have no categories.
func DeriveCategories(root, file string) []string {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return []string{}
	}
	dir := filepath.ToSlash(filepath.Dir(rel))
	if dir == "." || dir == "" {
		return []string{}
	}
	parts := strings.Split(dir, "/")
	if parts[0] == "." {
		parts = parts[1:]
	}
	return parts
}

// FileName returns the content file name for slug, time-stamped when date is
// non-zero.
func FileName(date time.Time, slug, ext string) string {
	if date.IsZero() {
		return slug + ext
	}
	return strconv.FormatInt(date.UnixMilli(), 10) + "." + slug + ext
}
