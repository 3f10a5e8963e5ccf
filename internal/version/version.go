package version

// version is set at build time via -ldflags "-X .../internal/version.version=v1.2.3".
var version = "dev"

func Version() string {
	return version
}
