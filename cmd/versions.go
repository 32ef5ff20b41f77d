package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/abikit/internal/config"
	"github.com/zjrosen/abikit/internal/presentation"
)

var versionsListCmd = &cobra.Command{
	Use:   "versions:list",
	Short: "List the bundled SDK versions",
	Long: `List the bundled SDK versions, newest first, with their symbol and java
package prefixes. The default version is marked.

Examples:
  abikit versions:list
  abikit versions:list | jq -r '.[] | select(.default) | .version'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		f, err := formatter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return f.Format(presentation.FromRegistry(rt.registry))
	},
}

var versionsPrefixCmd = &cobra.Command{
	Use:   "versions:prefix <version>",
	Short: "Print the prefixes for an SDK version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, ok := rt.registry.Lookup(args[0])
		if !ok {
			return fmt.Errorf("sdk version %q is not bundled (available: %v)", args[0], rt.registry.SortedVersions())
		}
		f, err := formatter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return f.Format(presentation.FromDescriptor(d, d.Version == rt.registry.DefaultVersion()))
	},
}

var versionsUseCmd = &cobra.Command{
	Use:   "versions:use <version>",
	Short: "Set default_version in the config file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := rt.registry.Lookup(args[0]); !ok {
			return fmt.Errorf("sdk version %q is not bundled (available: %v)", args[0], rt.registry.SortedVersions())
		}
		path := configFilePath()
		if err := config.SaveDefaultVersion(path, args[0]); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "default_version set to %s in %s\n", args[0], path)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "config:init [path]",
	Short: "Write a commented default config file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFilePath()
		if len(args) == 1 {
			path = args[0]
		}
		if fileExists(path) {
			return fmt.Errorf("%s already exists", path)
		}
		if err := config.WriteDefaultConfig(path); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionsListCmd, versionsPrefixCmd, versionsUseCmd, configInitCmd)
}
