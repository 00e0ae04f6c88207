// ABOUTME: Version information for vagenc
// ABOUTME: Product name and version reported by the CLI
package version

const (
	// Version is the release version
	Version = "0.1.0"

	// Product is the command name
	Product = "vagenc"
)

// String returns the version line printed by the CLI
func String() string {
	return Product + " " + Version
}
