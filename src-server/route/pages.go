package route

import (
	"bytes"
	"hallsite/src-server/utils"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
)

// Pages serves the static marketing site (home, booking) with an index.html
// fallback for unknown paths.
func Pages(muxer *http.ServeMux, as *utils.AppState) {
	files := http.FS(os.DirFS(as.Config.GetStaticWebClientDir()))
	indexFile, err := files.Open("index.html")
	if err != nil {
		slog.Error("can't open index.html", "err", err)
		return
	}
	indexFileStat, err := indexFile.Stat()
	if err != nil {
		slog.Error("can't get index.html stat", "err", err)
		return
	}
	// read once; each fallback gets its own reader, a shared handle would
	// leave the cursor at EOF for the next request
	indexBytes, err := io.ReadAll(indexFile)
	if err != nil {
		slog.Error("can't read index.html", "err", err)
		return
	}
	indexFile.Close()

	serveIndex := func(w http.ResponseWriter, r *http.Request) {
		http.ServeContent(w, r, indexFileStat.Name(), indexFileStat.ModTime(), bytes.NewReader(indexBytes))
	}

	muxer.HandleFunc("GET /{filepath...}", func(w http.ResponseWriter, r *http.Request) {
		filepath := filepath.Clean(r.PathValue("filepath"))
		switch filepath {
		case ".":
			filepath = "index.html"
		case "booking":
			filepath = "booking/index.html"
		case "404":
			filepath = "404.html"
		}

		file, err := files.Open(filepath)
		if err != nil {
			serveIndex(w, r)
			return
		}

		stat, err := file.Stat()
		if err != nil {
			serveIndex(w, r)
			return
		}

		http.ServeContent(w, r, stat.Name(), stat.ModTime(), file)
	})
}
