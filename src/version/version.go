package version

// Version is overridden at build time with -ldflags "-X tmap-export/src/version.Version=...".
var Version = "0.3.0-dev"
