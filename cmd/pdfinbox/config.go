package main

import (
	"fmt"
	"os"

	"pdfinbox/internal/config"
	"pdfinbox/internal/errors"

	"github.com/spf13/cobra"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
		// The file may not exist or be invalid yet.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	}
	cmd.AddCommand(a.configInitCmd())
	cmd.AddCommand(a.configPathCmd())
	cmd.AddCommand(a.configThemesCmd())
	return cmd
}

func (a *app) configPath() string {
	if a.cfgFile != "" {
		return config.ExpandPath(a.cfgFile)
	}
	return config.DefaultPath()
}

func (a *app) configInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath()
			if _, err := os.Stat(path); err == nil && !force {
				return errors.NewConfigError("config file already exists, use --force to overwrite", path, errors.InvalidConfig, nil)
			}

			cfg := config.New()
			if a.managed != "" {
				cfg.Directories.Managed = config.ExpandPath(a.managed)
			}
			if a.unmanaged != "" {
				cfg.Directories.Unmanaged = config.ExpandPath(a.unmanaged)
			}
			if err := config.SaveConfig(cfg, path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successText("Wrote "+path))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}

func (a *app) configPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), a.configPath())
		},
	}
}

func (a *app) configThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List the built-in themes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListThemes() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}
