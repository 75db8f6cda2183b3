package atelier

import "embed"

// EmbeddedAssets contains the default stylesheets shipped with the site:
// site.css and admin.css. Files in StaticDir cannot override them.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
