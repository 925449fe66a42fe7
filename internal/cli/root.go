// Package cli provides the command-line interface for leapmt.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/leapstack-labs/leapmt/internal/cli/commands"
	"github.com/leapstack-labs/leapmt/internal/cli/config"
	"github.com/leapstack-labs/leapmt/pkg/adapter"
	"github.com/spf13/cobra"

	// Register store backends.
	_ "github.com/leapstack-labs/leapmt/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/leapmt/pkg/adapters/mssql"
	_ "github.com/leapstack-labs/leapmt/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/leapmt/pkg/adapters/sqlite"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "leapmt",
		Short: "leapmt - Marathi to English translation data pipeline",
		Long: `leapmt moves Marathi-English sentence pairs from a spreadsheet into a
database and prepares them for fine-tuning a seq2seq translation model.

  leapmt load    read the spreadsheet and insert pairs into the store
  leapmt train   write datasets and a manifest, then run the trainer

Configuration comes from leapmt.yaml, a .env file, environment variables
(USE_SQLITE, EXCEL_PATH, ... or LEAPMT_SECTION__KEY) and flags.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "version" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			logger := config.NewLogger(cmd.ErrOrStderr(), cfg.LogFormat, cfg.Verbose)
			ctx := config.WithLogger(cmd.Context(), logger)
			ctx = config.WithConfig(ctx, cfg)
			cmd.SetContext(ctx)

			if configFile := config.GetConfigFileUsed(); configFile != "" {
				logger.Debug("using config file", "path", configFile)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./leapmt.yaml)")
	pf.BoolP("verbose", "v", false, "Verbose output")
	pf.StringP("output", "o", "", "Output format (auto|text|markdown|json)")
	pf.String("log-format", "", "Log format on stderr (text|json)")
	pf.String("backend", "", "Store backend (sqlite|mssql|postgres|duckdb)")
	pf.String("db-path", "", "Path to the embedded database file")
	pf.String("table", "", "Pairs table name")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "markdown", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("backend", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return adapter.ListAdapters(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version, BuildDate, GitCommit))
	rootCmd.AddCommand(commands.NewLoadCommand())
	rootCmd.AddCommand(commands.NewTrainCommand())
	rootCmd.AddCommand(commands.NewInspectCommand())
	rootCmd.AddCommand(commands.NewCountCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		PrintError(os.Stderr, err)
		return err
	}
	return nil
}

// PrintError writes err and, for unreachable stores, a recovery hint.
func PrintError(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	var connErr *adapter.ConnectError
	if errors.As(err, &connErr) {
		_, _ = fmt.Fprintln(w, connErr.Hint())
	}
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for leapmt.

To load completions:

Bash:
  $ source <(leapmt completion bash)

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  $ leapmt completion zsh > "${fpath[1]}/_leapmt"

Fish:
  $ leapmt completion fish | source

PowerShell:
  PS> leapmt completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
