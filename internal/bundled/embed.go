// Package bundled embeds the SDK version file shipped with the host binary.
package bundled

import (
	"embed"
	"io/fs"
)

// VersionsFile is the path of the version file inside FS.
const VersionsFile = "versions.yaml"

//go:embed versions.yaml
var files embed.FS

// FS returns the embedded filesystem holding the bundled version file.
func FS() fs.FS {
	return files
}
