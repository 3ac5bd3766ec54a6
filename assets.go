package formbuilder

import (
	"io/fs"

	"github.com/goliatone/go-formbuilder/pkg/renderers/vanilla"
)

// AssetsFS exposes the stylesheet and browser script of the vanilla renderer
// so Go applications can serve them without importing the renderer package.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(formbuilder.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
