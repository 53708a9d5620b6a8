package app

// Version is stamped by the release workflow via -ldflags.
var Version = "dev"
