// Package dev provides live reload for development mode.
//
// A Watcher polls the asset and view directories for modified, new and
// deleted files. A ReloadServer keeps a WebSocket open to every browser
// tab and tells it to reload the page, or only its stylesheets when a CSS
// file changed. ReloadOn connects the two:
//
//	rs := dev.NewReloadServer()
//	w := dev.NewWatcher(dev.WatcherConfig{Paths: []string{"public"}})
//	dev.ReloadOn(w, rs)
//	go w.Start(ctx)
//
//	mux.HandleFunc(dev.ReloadPath, rs.HandleWebSocket)
//
// Pages opt in by embedding Script(basePath) in the document.
package dev
