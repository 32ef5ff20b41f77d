package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/abikit/internal/presentation"
	"github.com/zjrosen/abikit/internal/versions"
)

var (
	symbolSDKVersion string
	symbolStrip      bool
	symbolPackage    bool
)

var symbolCmd = &cobra.Command{
	Use:   "symbol <name>",
	Short: "Namespace a symbol or java package for an SDK version",
	Long: `Rewrite a native symbol (or, with --package, a java package) into the
namespace of an SDK version. Without --sdk-version the default version is used.

With --strip the prefix is removed instead; when --sdk-version is omitted the
version is detected from the prefix the symbol carries.

Examples:
  abikit symbol RCTView --sdk-version 7.0.0          # ABI7_0_0RCTView
  abikit symbol ABI7_0_0RCTView --strip              # RCTView
  abikit symbol host.exp.exponent --package --sdk-version 6.0.0`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if symbolStrip && symbolPackage {
			return fmt.Errorf("--strip and --package cannot be combined")
		}

		sdk := symbolSDKVersion
		switch {
		case sdk == "" && symbolStrip:
			detected, ok := rt.registry.VersionOfSymbol(name)
			if !ok {
				return fmt.Errorf("%q carries no bundled version prefix", name)
			}
			sdk = detected
		case sdk == "":
			sdk = rt.registry.DefaultVersion()
		}
		if _, ok := rt.registry.Lookup(sdk); !ok && sdk != versions.Unversioned {
			return fmt.Errorf("sdk version %q is not bundled (available: %v)", sdk, rt.registry.SortedVersions())
		}

		var out string
		switch {
		case symbolStrip:
			out = versions.UnversionedString(name, rt.registry.SymbolPrefixForSDKVersion(sdk))
		case symbolPackage:
			out = versions.VersionedPackage(name, rt.registry.PackagePrefixForSDKVersion(sdk))
		default:
			out = rt.registry.VersionedSymbol(name, sdk)
		}

		f, err := formatter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return f.Format(presentation.SymbolDTO{Input: name, Output: out, SDKVersion: sdk})
	},
}

func init() {
	symbolCmd.Flags().StringVarP(&symbolSDKVersion, "sdk-version", "s", "", "SDK version (default: the default version)")
	symbolCmd.Flags().BoolVar(&symbolStrip, "strip", false, "remove the version prefix instead of adding it")
	symbolCmd.Flags().BoolVar(&symbolPackage, "package", false, "treat the name as a java package")
	rootCmd.AddCommand(symbolCmd)
}
