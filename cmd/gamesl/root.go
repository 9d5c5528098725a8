package main

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"game-sl/config"
	"game-sl/constants"
	"game-sl/session"
)

var (
	workDir  string
	steamUID string
	verbose  bool

	sess *session.Session
)

var rootCmd = &cobra.Command{
	Use:           "gamesl",
	Short:         "Back up and restore game saves",
	Long:          `gamesl keeps zip snapshots of game save folders and restores them on demand.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			pterm.EnableDebugMessages()
		}
		if workDir != "" {
			os.Setenv(constants.WorkDirEnv, workDir)
		}
		cm := config.NewConfigManager()
		if err := cm.Load(); err != nil {
			return err
		}
		sess = session.New(cm, termUI{}, config.WorkDir())
		if err := sess.Refresh(cmd.Context()); err != nil {
			return err
		}
		if steamUID != "" {
			uid := steamUID
			sess.State.SelectSteamUID(&uid)
			return sess.State.RefreshPathState(cmd.Context())
		}
		return nil
	},
}

// Execute runs the root command and prints any error.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		pterm.Error.Println(err)
	}
	return err
}

func init() {
	// Keep stdout for command output
	pterm.SetDefaultOutput(os.Stderr)
	pterm.Success.Writer = os.Stderr
	pterm.Info.Writer = os.Stderr
	pterm.Error.Writer = os.Stderr
	pterm.Warning.Writer = os.Stderr
	pterm.Debug.Writer = os.Stderr
	pterm.DefaultHeader.Writer = os.Stderr

	rootCmd.PersistentFlags().StringVarP(&workDir, "workdir", "w", "", "working directory (default: "+constants.WorkDirEnv+" or next to the executable)")
	rootCmd.PersistentFlags().StringVarP(&steamUID, "uid", "u", "", "Steam account id used for {SteamUID}")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print service logs")
}
