package bundled

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFS_ContainsVersionsFile(t *testing.T) {
	content, err := fs.ReadFile(FS(), VersionsFile)
	require.NoError(t, err)
	require.Contains(t, string(content), "versions:")
}
