// Package log is a thin wrapper around the standard library logger used by
// every component of the archive site.
//
// Each component asks for its own named logger:
//
//	l := log.ForService("catalog")
//	l.Infof("fetched %d archives", n)
//	l.Warnf("reading %s from cache: %v", key, err)
//	l.Debugf("cache miss for %s", key) // printed only with debug enabled
//
// Lines look like:
//
//	2024/06/01 08:00:00.000000 INFO [catalog>] fetched 212 archives in 840ms
//
// Debug output is off by default. The --debug flag of the CLI calls
// SetGlobalDebug(true); EnableDebugFor turns it on for one component.
//
// The package name collides with the standard library "log". Alias one of
// them when both are needed.
//
// Tests redirect output with SetOutput and a bytes.Buffer. All exported
// functions are safe for concurrent use.
package log
