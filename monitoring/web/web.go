// Package web holds the page of the monitoring server.
package web

import (
	"embed"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

// DevModeEnv names the environment variable that makes the server read the
// page from the source tree, so that edits show up without rebuilding.
const DevModeEnv = "NDNAPPS_MONITOR_DEV"

//go:embed dist/*
var staticAssets embed.FS

// GetAssets returns the files of the monitoring page.
func GetAssets() http.FileSystem {
	if devMode() {
		return http.Dir(sourceDir())
	}

	dist, err := fs.Sub(staticAssets, "dist")
	if err != nil {
		panic(err)
	}

	return http.FS(dist)
}

func sourceDir() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		panic("cannot locate the monitoring page sources")
	}

	dir := filepath.Join(filepath.Dir(file), "dist")
	log.Printf("monitoring page served from %s", dir)

	return dir
}

func devMode() bool {
	on, err := strconv.ParseBool(os.Getenv(DevModeEnv))
	return err == nil && on
}
