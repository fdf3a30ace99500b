// Package storage defines the backend capability used by upload fields and
// an explicit registry that builds backends by name.
//
// A Backend only has to save a stream under a relative path and produce a URL
// for it. Backends may additionally implement Downloader, Deleter and Checker;
// Storage is the union of all four.
//
// Backend packages register their factory with the package default set from
// init, so importing them is enough:
//
//	import _ "github.com/kbukum/formkit/storage/local"
//
//	reg := storage.NewRegistry(&cfg.Storage, log)
//	b, err := reg.Resolve(storage.Named("local"))
package storage
