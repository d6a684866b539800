package site

import (
	"path/filepath"
	"strings"
)

// PagePath maps a declared page to its file path relative to the destination:
// "/posts/foo/" becomes "posts/foo/index.html", "/404.html" stays "404.html"
// and "/about" becomes "about.html".
func PagePath(page string) string {
	p := strings.TrimLeft(page, "/")
	switch {
	case p == "" || strings.HasSuffix(page, "/"):
		p += "index.html"
	case strings.HasSuffix(p, ".html"):
	default:
		p += ".html"
	}
	return filepath.FromSlash(p)
}
