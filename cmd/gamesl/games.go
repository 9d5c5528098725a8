package main

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"game-sl/utils"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List configured games and whether their save folders exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _ := sess.State.Store.Snapshot()
		if len(cfg.Games) == 0 {
			pterm.Info.Println("No games configured.")
			return nil
		}
		relative := sess.Settings.Current().UseRelativeTime
		data := pterm.TableData{{"GAME", "SAVES", "PATH", "LAST SAVE"}}
		for _, g := range cfg.Games {
			ps, _ := sess.State.PathState(g.Name)
			status := "missing"
			if ps.Exists {
				status = "ok"
			}
			data = append(data, []string{g.Name, status, ps.Resolved, utils.FormatLastSave(time.Now(), g.LastSave, relative)})
		}
		return renderTable(cmd, pterm.DefaultTable.WithHasHeader().WithData(data))
	},
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Show the detected user folder and Steam accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		env := sess.State.Env.TemplateEnv()
		steam := "not detected"
		if env.SteamDir != nil {
			steam = *env.SteamDir
		}
		selected := "-"
		if env.SteamUID != nil {
			selected = *env.SteamUID
		}
		data := pterm.TableData{
			{"User folder", env.UserFolder},
			{"Steam", steam},
			{"Accounts", pterm.Sprint(sess.State.Env.SteamUIDs())},
			{"Selected", selected},
		}
		return renderTable(cmd, pterm.DefaultTable.WithData(data))
	},
}

var moveCmd = &cobra.Command{
	Use:       "move <up|down|top> <game>",
	Short:     "Change a game's position in the list",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"up", "down", "top"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		var err error
		switch args[0] {
		case "up":
			err = sess.Ordering.MoveUp(ctx, args[1])
		case "down":
			err = sess.Ordering.MoveDown(ctx, args[1])
		case "top":
			err = sess.Ordering.PinToTop(ctx, args[1])
		default:
			return cmd.Usage()
		}
		if err != nil {
			return err
		}
		cfg, _ := sess.State.Store.Snapshot()
		pterm.Success.Printfln("Order: %v", cfg.GameNames())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(gamesCmd, envCmd, moveCmd)
}

func renderTable(cmd *cobra.Command, table *pterm.TablePrinter) error {
	out, err := table.Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}
