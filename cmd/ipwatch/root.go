package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/user/ipwatch/internal/util"
)

var (
	cfgFile string
	cfg     *util.Config
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "ipwatch",
	Short: "Public IP timeline monitor",
	Long: `ipwatch periodically queries a public "what is my IP" service and
keeps a compressed timeline of the results: runs of identical readings
collapse into one line, and scheduling gaps and pauses are recorded
where they happened.

Run "ipwatch watch" for the interactive monitor, or "ipwatch check"
for a single probe.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.ipwatch/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("endpoint", "",
		"geolocation endpoint URL")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("endpoint", rootCmd.PersistentFlags().Lookup("endpoint"))

	// Add subcommands
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	// Add shell completion
	rootCmd.AddCommand(completionCmd)
}

func initConfig() {
	var err error
	cfg, err = util.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("ipwatch version 1.0.0")
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for ipwatch.

To load completions:

Bash:
  $ source <(ipwatch completion bash)

Zsh:
  $ source <(ipwatch completion zsh)

Fish:
  $ ipwatch completion fish | source

PowerShell:
  PS> ipwatch completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "bash":
			cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			cmd.Root().GenFishCompletion(os.Stdout, true)
		case "powershell":
			cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
		}
	},
}
