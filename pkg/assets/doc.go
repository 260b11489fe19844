// Package assets serves static files and resolves fingerprinted asset names.
//
// Files come from a Store: a local directory (DirStore) or an S3 bucket
// (S3Store). Handler serves a Store over HTTP with cache headers that depend
// on whether a file name carries a content hash.
//
// A build step may write a manifest.json mapping source names to their
// fingerprinted versions:
//
//	{
//	  "client.js": "client.a1b2c3d4.js",
//	  "app.css": "app.e5f6a7b8.css"
//	}
//
// The manifest is loaded once and turned into a Resolver:
//
//	manifest, _ := assets.LoadFromStore(ctx, store, "manifest.json")
//	resolver := assets.NewResolver(manifest, "/assets/")
//	resolver.Asset("client.js") // "/assets/client.a1b2c3d4.js"
package assets
