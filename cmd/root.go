package cmd

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/josephlewis42/sish/core/config"
	"github.com/josephlewis42/sish/core/shell"
)

var (
	cfgPath     string
	commandLine string

	exitCode int
)

func loadConfig() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		log.Println("Couldn't load config: did you run init?")
	}

	return configuration, err
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sish",
	Short: "Simple shell",
	Long: `A line oriented command interpreter that runs programs and pipelines
of programs, with a small set of builtins and a numbered history.`,
	Args: cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Run without persistence rather than refuse to start.
			configuration = config.Default()
		case err != nil:
			return err
		}

		s, err := shell.NewShell(configuration, shell.Stdio())
		if err != nil {
			return err
		}
		defer func() {
			if err := s.Close(); err != nil {
				log.Printf("Error closing shell: %v", err)
			}
		}()

		if cmd.Flags().Changed("command") {
			s.Eval(commandLine)
			exitCode = s.ExitCode
			return nil
		}

		exitCode = s.Run()
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
	os.Exit(exitCode)
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return config.DirName
	}
	return filepath.Join(home, config.DirName)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath(), "config path")
	rootCmd.Flags().StringVarP(&commandLine, "command", "c", "", "run a single command line and exit")
}
