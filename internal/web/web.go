package web

import (
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
)

//go:embed static
var embedded embed.FS

const indexPath = "index.html"

// Handler serves the calculator UI. An empty dir serves the embedded copy.
// Unknown paths fall back to index.html.
func Handler(dir string) http.Handler {
	var files fs.FS
	if dir != "" {
		files = os.DirFS(dir)
	} else {
		sub, err := fs.Sub(embedded, "static")
		if err != nil {
			panic(err)
		}
		files = sub
	}
	return spaHandler{files: files}
}

type spaHandler struct {
	files fs.FS
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}

	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" {
		name = indexPath
	}
	info, err := fs.Stat(h.files, name)
	if err == nil && !info.IsDir() {
		http.ServeFileFS(w, r, h.files, name)
		return
	}

	if err == nil || errors.Is(err, fs.ErrNotExist) {
		http.ServeFileFS(w, r, h.files, indexPath)
		return
	}

	http.NotFound(w, r)
}
