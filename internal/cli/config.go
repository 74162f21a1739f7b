package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pomo/internal/storage"
	"pomo/internal/ui/preferences"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and edit pomo settings",
	}
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigSetCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := resolvePaths()
			if err != nil {
				return err
			}
			settings, err := storage.LoadSettings(paths.SettingsFile)
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}

			out := cmd.OutOrStdout()
			if asYAML {
				serialized, err := storage.MarshalSettings(settings)
				if err != nil {
					return err
				}
				_, err = out.Write(serialized)
				return err
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tVALUE\tDESCRIPTION")
			for _, field := range settings.Fields() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", field.Key, field.Value, field.Help)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print in settings file format")
	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where pomo keeps its files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := resolvePaths()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "settings\t%s\n", paths.SettingsFile)
			fmt.Fprintf(w, "history\t%s\n", paths.HistoryFile)
			fmt.Fprintf(w, "log\t%s\n", paths.LogFile)
			return w.Flush()
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented settings file with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := resolvePaths()
			if err != nil {
				return err
			}
			if err := storage.WriteDefaultSettings(paths.SettingsFile, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", paths.SettingsFile)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing settings file")
	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Change one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := resolvePaths()
			if err != nil {
				return err
			}
			updated, err := storage.SetSetting(paths.SettingsFile, args[0], args[1])
			if err != nil {
				return err
			}
			key := preferences.CanonicalKey(args[0])
			value, _ := updated.Value(key)
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
			return nil
		},
	}
}
