// Package assets serves the images and files a deck refers to by name.
//
// A Store opens assets by flat name ("logo.png"). DirStore reads a local
// directory; S3Store reads objects under a bucket prefix:
//
//	store := assets.NewDirStore("./slides/img")
//	r.Get("/assets/{name}", assets.Handler(store, logger).ServeHTTP)
//
// Preload reads a list of assets in the background and reports progress as
// a stream, so a slide can bind its loading state:
//
//	progress := assets.Preload(ctx, store, names, session)
package assets
