package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nzbgetcom/webconf/pkg/audit"
	"github.com/nzbgetcom/webconf/pkg/editor"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage snapshots of saved values",
	Long:  "Every commit keeps the values it replaced in a snapshot",
}

var snapshotListCmd = &cobra.Command{
	Use:         "list",
	Short:       "List snapshots, newest first",
	Annotations: map[string]string{annotationNoModel: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshots, err := snapshotMgr.List()
		if err != nil {
			return err
		}
		if len(snapshots) == 0 {
			fmt.Println("No snapshots found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTIME\tOPTIONS\tMESSAGE")
		for _, s := range snapshots {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
				s.ID,
				s.Metadata.Timestamp.Format("2006-01-02 15:04:05"),
				s.Metadata.Options,
				s.Metadata.Message)
		}
		w.Flush()
		return nil
	},
}

var snapshotShowCmd = &cobra.Command{
	Use:         "show <id|latest>",
	Short:       "Print the values held by a snapshot",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationNoModel: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveSnapshotID(args[0])
		if err != nil {
			return err
		}
		vals, err := snapshotMgr.Restore(id)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		return writeValues(os.Stdout, vals, format)
	},
}

var snapshotRestoreCmd = &cobra.Command{
	Use:   "restore <id|latest>",
	Short: "Save the values of a snapshot, replacing the current ones",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveSnapshotID(args[0])
		if err != nil {
			return err
		}

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			ok, err := editor.NewSurveyDriver().Confirm(cmd.Context(), editor.ConfirmConfig{
				Message: fmt.Sprintf("Restore snapshot %s? Staged changes are dropped.", id),
			})
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Restore cancelled")
				return nil
			}
		}

		result, err := manager.Restore(cliContext(cmd.Context()), id)
		if err != nil {
			return err
		}

		fmt.Printf("Restored snapshot %s (%d change(s))\n", id, len(result.Changes))
		fmt.Printf("Previous values saved in snapshot %s\n", result.SnapshotID)
		return applyCommitted(cmd.Context(), result)
	},
}

var snapshotDeleteCmd = &cobra.Command{
	Use:         "delete <id>",
	Short:       "Delete a snapshot",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationNoModel: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cliContext(cmd.Context())
		err := snapshotMgr.Delete(args[0])
		audit.Record(ctx, audit.ActionSnapshotDelete, args[0], "", nil, err)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted snapshot %s\n", args[0])
		return nil
	},
}

var snapshotPruneCmd = &cobra.Command{
	Use:         "prune",
	Short:       "Delete all but the newest snapshots",
	Annotations: map[string]string{annotationNoModel: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		keep, _ := cmd.Flags().GetInt("keep")
		if keep < 1 {
			return fmt.Errorf("keep must be at least 1")
		}

		ctx := cliContext(cmd.Context())
		deleted, err := snapshotMgr.Prune(keep)
		for _, id := range deleted {
			audit.Record(ctx, audit.ActionSnapshotDelete, id, "pruned", nil, nil)
		}
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d snapshot(s)\n", len(deleted))
		return nil
	},
}

// resolveSnapshotID maps "latest" to the newest snapshot
func resolveSnapshotID(id string) (string, error) {
	if id != "latest" {
		return id, nil
	}
	snap, err := snapshotMgr.GetLatest()
	if err != nil {
		return "", err
	}
	return snap.ID, nil
}

func init() {
	snapshotShowCmd.Flags().String("format", "conf", "Output format (conf, json or yaml)")
	snapshotRestoreCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	snapshotPruneCmd.Flags().Int("keep", 10, "Number of snapshots to keep")

	snapshotCmd.AddCommand(
		snapshotListCmd,
		snapshotShowCmd,
		snapshotRestoreCmd,
		snapshotDeleteCmd,
		snapshotPruneCmd,
	)
}
