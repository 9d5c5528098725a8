package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"game-sl/restore"
	"game-sl/types"
)

var restoreCmd = &cobra.Command{
	Use:   "restore <game> <file>",
	Short: "Replace a game's saves with a backup",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		game, err := sess.Game(args[0])
		if err != nil {
			return err
		}
		entry, err := sess.FindBackup(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}

		runErr := sess.Restore.Restore(cmd.Context(), game, entry)
		printStages(sess.Restore.State())
		if runErr != nil {
			return runErr
		}
		pterm.Success.Printfln("%s restored from %s", game.Name, entry.FileName)
		return nil
	},
}

func printStages(st restore.State) {
	for _, stage := range types.StageOrder {
		switch st.Status(stage) {
		case restore.StatusFinish:
			pterm.Success.Println(stage.Code())
		case restore.StatusError:
			pterm.Error.Printfln("%s: %s", stage.Code(), st.Detail)
		default:
			pterm.Debug.Println(stage.Code() + " skipped")
		}
	}
}

var setCmd = &cobra.Command{
	Use:   "set <relative-time|extra-backup> <on|off>",
	Short: "Change a preference",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var on bool
		switch args[1] {
		case "on", "true":
			on = true
		case "off", "false":
		default:
			_ = cmd.Usage()
			return fmt.Errorf("invalid value %q, want on or off", args[1])
		}
		var err error
		switch args[0] {
		case "relative-time":
			err = sess.Settings.SetUseRelativeTime(cmd.Context(), on)
		case "extra-backup":
			err = sess.Settings.SetRestoreExtraBackup(cmd.Context(), on)
		default:
			_ = cmd.Usage()
			return fmt.Errorf("unknown preference %q", args[0])
		}
		if err != nil {
			return err
		}
		pterm.Success.Printfln("%s = %v", args[0], on)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd, setCmd)
}
