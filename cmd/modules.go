package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/abikit/internal/modules"
	"github.com/zjrosen/abikit/internal/presentation"
	"github.com/zjrosen/abikit/internal/versions"
)

var (
	modulesSDKVersion string
	modulesKernel     bool
	modulesVerified   bool
)

var modulesListCmd = &cobra.Command{
	Use:   "modules:list",
	Short: "List the native modules a package receives",
	Long: `List the native modules installed for content running on an SDK version.

Kernel content receives only the core modules. Experiences additionally receive
the experience modules, and either the verified set (--verified) or the
unverified replacements.

Examples:
  abikit modules:list --sdk-version 7.0.0 --verified
  abikit modules:list --kernel`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		sdk := modulesSDKVersion
		if sdk == "" {
			sdk = rt.registry.DefaultVersion()
		}
		d, ok := rt.registry.Lookup(sdk)
		if !ok {
			return fmt.Errorf("sdk version %q is not bundled (available: %v)", sdk, rt.registry.SortedVersions())
		}

		table, err := modules.NewDefaultTable(rt.registry)
		if err != nil {
			return err
		}
		mods := table.BuildPackage(modules.Context{
			SDK:      d,
			Kernel:   modulesKernel,
			Manifest: versions.Manifest{"sdkVersion": sdk, "isVerified": modulesVerified},
		})

		f, err := formatter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return f.Format(presentation.FromModules(mods))
	},
}

func init() {
	modulesListCmd.Flags().StringVarP(&modulesSDKVersion, "sdk-version", "s", "", "SDK version (default: the default version)")
	modulesListCmd.Flags().BoolVar(&modulesKernel, "kernel", false, "list the kernel package")
	modulesListCmd.Flags().BoolVar(&modulesVerified, "verified", false, "treat the experience as verified")
	rootCmd.AddCommand(modulesListCmd)
}
