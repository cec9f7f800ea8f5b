// Package version carries the release identity printed by the CLI.
package version

const (
	AppName = "NewsReader CLI"
	Version = "1.0.1"
)

// String returns the line printed by the version command.
func String() string {
	return AppName + " version " + Version
}
