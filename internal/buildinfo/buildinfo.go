// Package buildinfo carries the version string stamped into release builds
// via -ldflags, for the CLI's --version flag.
package buildinfo

// Version is overridden at build time: -ldflags "-X
// github.com/photondrift/adrscan/internal/buildinfo.Version=v1.2.3".
var Version = "dev"
