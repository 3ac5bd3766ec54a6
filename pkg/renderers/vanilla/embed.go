package vanilla

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

//go:embed assets/*
var embeddedAssets embed.FS

const (
	StylesheetName = "formbuilder.css"
	ScriptName     = "formbuilder.js"
)

// TemplatesFS exposes the embedded template bundle rooted at "templates/".
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

// AssetsFS exposes the stylesheet and browser script so callers can serve
// them over HTTP:
//
//	mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServerFS(vanilla.AssetsFS())))
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}
