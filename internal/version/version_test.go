package version

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// TestVersionStrings ensures Short and Full return consistent information.
func TestVersionStrings(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, Short())
	require.Contains(t, Full(), Short())
}

// TestVersionCommand runs the attached subcommand.
func TestVersionCommand(t *testing.T) {
	t.Parallel()

	root := &cobra.Command{Use: "stopwatch"}
	AttachCobraVersionCommand(root)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), Full())
}
