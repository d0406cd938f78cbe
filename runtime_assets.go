package bookingform

import (
	"io/fs"

	"github.com/goliatone/go-bookingform/pkg/runtime"
)

// RuntimeAssetsFS exposes the live channel script so Go applications can
// serve it next to their own routes.
//
// Typical mount:
//
//	mux.Handle("/runtime/",
//	  http.StripPrefix("/runtime/",
//	    http.FileServerFS(bookingform.RuntimeAssetsFS()),
//	  ),
//	)
func RuntimeAssetsFS() fs.FS {
	return runtime.AssetsFS()
}
