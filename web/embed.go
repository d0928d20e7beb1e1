// Package web holds the page shell and the bundled job dataset.
package web

import (
	"embed"
	"io/fs"
)

//go:embed index.html css js data
var files embed.FS

// Assets is the static asset tree rooted at the page shell.
func Assets() fs.FS {
	return files
}

// Dataset returns the bundled job dataset.
func Dataset() []byte {
	b, err := files.ReadFile("data/jobs.json")
	if err != nil {
		return nil
	}
	return b
}
