package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"game-sl/utils"
)

var backupRemark string

var backupCmd = &cobra.Command{
	Use:   "backup <game>",
	Short: "Zip a game's save folder into the backup directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		game, err := sess.Game(args[0])
		if err != nil {
			return err
		}
		resp, err := sess.Catalog.CreateBackup(cmd.Context(), game, sess.State.Env.SelectedSteamUID(), backupRemark)
		if err != nil {
			return err
		}
		pterm.Success.Printfln("Backup written: %s", resp.FilePath)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list <game>",
	Short: "List a game's backups, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := sess.Catalog.ListBackups(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(items) == 0 {
			pterm.Info.Printfln("No backups for %s.", args[0])
			return nil
		}
		relative := sess.Settings.Current().UseRelativeTime
		data := pterm.TableData{{"FILE", "TIME", "SIZE", "REMARK"}}
		for _, it := range items {
			when := "-"
			if it.Timestamp != nil {
				when = utils.FormatLastSave(time.Now(), it.Timestamp, relative)
			}
			remark := ""
			if it.Remark != nil {
				remark = *it.Remark
			}
			data = append(data, []string{it.FileName, when, fmt.Sprintf("%d", it.Size), remark})
		}
		return renderTable(cmd, pterm.DefaultTable.WithHasHeader().WithData(data))
	},
}

var remarkCmd = &cobra.Command{
	Use:   "remark <game> <file> [text...]",
	Short: "Set or clear a backup's remark",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := sess.Catalog.ListBackups(cmd.Context(), args[0]); err != nil {
			return err
		}
		text := strings.Join(args[2:], " ")
		if err := sess.Catalog.EditRemark(cmd.Context(), args[0], args[1], text); err != nil {
			return err
		}
		pterm.Success.Println("Remark saved.")
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <game> <file>",
	Short: "Move a backup and its remark to the trash",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := sess.Catalog.DeleteBackup(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		pterm.Success.Printfln("Moved %s to the trash.", args[1])
		return nil
	},
}

var trashCmd = &cobra.Command{
	Use:   "trash [entry]",
	Short: "List deleted backups, or move one entry back",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := sess.Backend.Backups()
		if len(args) == 1 {
			if err := svc.Untrash(args[0]); err != nil {
				return err
			}
			pterm.Success.Printfln("Restored %s from the trash.", args[0])
			return nil
		}
		items, err := svc.Trash()
		if err != nil {
			return err
		}
		if len(items) == 0 {
			pterm.Info.Println("Trash is empty.")
			return nil
		}
		data := pterm.TableData{{"ENTRY", "FILES"}}
		for _, it := range items {
			data = append(data, []string{it.Name, strings.Join(it.Files, ", ")})
		}
		return renderTable(cmd, pterm.DefaultTable.WithHasHeader().WithData(data))
	},
}

func init() {
	backupCmd.Flags().StringVarP(&backupRemark, "remark", "r", "", "note stored next to the backup")
	rootCmd.AddCommand(backupCmd, listCmd, remarkCmd, deleteCmd, trashCmd)
}
