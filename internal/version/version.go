// Package version holds build identity for log lines and status output.
package version

const (
	AppName = "modbot"
	Version = "0.1.0"
)
