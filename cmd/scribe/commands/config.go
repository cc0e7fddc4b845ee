package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/krakendreams/scribe/cmd/scribe/internal/config"
	"github.com/krakendreams/scribe/pkg/narrative"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage contexts and their settings.

A context is a named settings.yaml holding the provider, credentials, and
narrative options. Switch contexts to move between providers or accounts.

Examples:
  scribe config list-contexts
  scribe config add-context groq
  scribe config use-context groq
  scribe config set groq provider groq
  scribe config get groq model
  scribe config styles`,
}

var configListContextsCmd = &cobra.Command{
	Use:     "list-contexts",
	Aliases: []string{"ls"},
	Short:   "List all contexts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		names, err := cfg.ListContexts()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("No contexts configured.")
			fmt.Println("Create one with: scribe config add-context <name>")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CURRENT\tNAME\tPROVIDER\tMODEL")
		for _, name := range names {
			current := ""
			if name == cfg.CurrentContext {
				current = "*"
			}
			provider, model := "", ""
			if s, err := config.LoadSettings(cfg.ContextDir(name)); err == nil {
				provider, model = s.Provider, s.Model
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", current, name, provider, model)
		}
		w.Flush()
		return nil
	},
}

var configAddContextCmd = &cobra.Command{
	Use:   "add-context <name>",
	Short: "Create a new context with default settings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		if err := cfg.AddContext(args[0]); err != nil {
			return err
		}
		fmt.Printf("Context %q created.\n", args[0])
		fmt.Printf("Configure it with: scribe config set %s <key> <value>\n", args[0])
		return nil
	},
}

var configDeleteContextCmd = &cobra.Command{
	Use:   "delete-context <name>",
	Short: "Delete a context and its settings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		if err := cfg.DeleteContext(args[0]); err != nil {
			return err
		}
		fmt.Printf("Context %q deleted.\n", args[0])
		return nil
	},
}

var configUseContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Set the current context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		if err := cfg.UseContext(args[0]); err != nil {
			return err
		}
		fmt.Printf("Switched to context %q.\n", args[0])
		return nil
	},
}

var configCurrentContextCmd = &cobra.Command{
	Use:   "current-context",
	Short: "Show the current context",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		if cfg.CurrentContext == "" {
			fmt.Println("No current context set.")
			return nil
		}
		fmt.Println(cfg.CurrentContext)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <context> <key> <value>",
	Short: "Set a settings key in a context",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		dir, err := cfg.ResolveContext(args[0])
		if err != nil {
			return err
		}
		s, err := config.LoadSettings(dir)
		if err != nil {
			return err
		}
		if err := s.Set(args[1], args[2]); err != nil {
			return err
		}
		return config.SaveSettings(dir, s)
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <context> <key>",
	Short: "Read a settings key from a context",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		dir, err := cfg.ResolveContext(args[0])
		if err != nil {
			return err
		}
		s, err := config.LoadSettings(dir)
		if err != nil {
			return err
		}
		v, err := s.Get(args[1])
		if err != nil {
			return err
		}
		fmt.Println(v)
		return nil
	},
}

var configStylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List available narrative styles",
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tDESCRIPTION")
		for _, s := range narrative.Styles() {
			fmt.Fprintf(w, "%s\t%s\n", s.Name, s.Description)
		}
		w.Flush()
	},
}

func init() {
	configCmd.AddCommand(configListContextsCmd)
	configCmd.AddCommand(configAddContextCmd)
	configCmd.AddCommand(configDeleteContextCmd)
	configCmd.AddCommand(configUseContextCmd)
	configCmd.AddCommand(configCurrentContextCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configStylesCmd)
	rootCmd.AddCommand(configCmd)
}
