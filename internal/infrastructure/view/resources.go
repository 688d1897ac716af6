package view

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed resources
var resources embed.FS

// Resources returns the view descriptions, read from dir when it is set and
// from the copy compiled into the binary otherwise.
func Resources(dir string) fs.FS {
	if dir != "" {
		return os.DirFS(dir)
	}
	sub, err := fs.Sub(resources, "resources")
	if err != nil {
		panic(err)
	}
	return sub
}
