// Package runtime embeds the browser script that connects rendered forms to
// the live channel.
package runtime

import (
	"embed"
	"io/fs"
)

// LiveScriptName is the file name of the live channel client.
const LiveScriptName = "booking-live.js"

//go:embed assets/*.js
var embeddedAssets embed.FS

// AssetsFS exposes the runtime bundle so servers can mount it, typically:
//
//	r.Handle("/runtime/*", http.StripPrefix("/runtime/", http.FileServerFS(runtime.AssetsFS())))
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}
