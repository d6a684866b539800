// Package site runs generation passes: load content, run the selected
// template, resolve every declared page and write the pages below the
// destination directory.
package site
