package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nzbgetcom/webconf/pkg/audit"
	"github.com/nzbgetcom/webconf/pkg/db"
	"github.com/nzbgetcom/webconf/pkg/editor"
)

var auditCmd = &cobra.Command{
	Use:         "audit",
	Short:       "View audit logs",
	Long:        "View and filter audit logs",
	Annotations: map[string]string{annotationNoModel: "true"},
}

var auditListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List audit logs",
	PreRunE: requireDB,
	RunE:    runAuditList,
}

var auditShowCmd = &cobra.Command{
	Use:     "show <id>",
	Short:   "Show detailed audit log entry",
	Args:    cobra.ExactArgs(1),
	PreRunE: requireDB,
	RunE:    runAuditShow,
}

var auditCleanupCmd = &cobra.Command{
	Use:     "cleanup",
	Short:   "Clean up old audit logs",
	PreRunE: requireDB,
	RunE:    runAuditCleanup,
}

var historyCmd = &cobra.Command{
	Use:         "history [commit-id]",
	Short:       "List commits, or show one with its audit trail",
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{annotationNoModel: "true"},
	PreRunE:     requireDB,
	RunE:        runHistory,
}

func init() {
	// Audit list flags
	auditListCmd.Flags().String("user", "", "Filter by username")
	auditListCmd.Flags().String("action", "", "Filter by action (e.g., option.set)")
	auditListCmd.Flags().String("status", "", "Filter by status (success/failure)")
	auditListCmd.Flags().String("resource", "", "Filter by resource")
	auditListCmd.Flags().String("from", "", "Filter from date (YYYY-MM-DD)")
	auditListCmd.Flags().String("to", "", "Filter to date (YYYY-MM-DD)")
	auditListCmd.Flags().Int("limit", 50, "Maximum number of logs to show")
	auditListCmd.Flags().Int("offset", 0, "Offset for pagination")

	// Audit cleanup flags
	auditCleanupCmd.Flags().Int("days", 0, "Delete logs older than N days (default: configured retention)")
	auditCleanupCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	historyCmd.Flags().String("user", "", "Filter by username")
	historyCmd.Flags().String("status", "", "Filter by status (pending, committed, failed, restored)")
	historyCmd.Flags().Int("limit", 20, "Maximum number of commits to show")

	auditCmd.AddCommand(
		auditListCmd,
		auditShowCmd,
		auditCleanupCmd,
	)
}

func requireDB(cmd *cobra.Command, args []string) error {
	if !audit.Enabled() {
		return fmt.Errorf("audit database is not available (check AuditEnabled and DatabasePath)")
	}
	return nil
}

// auditFilters turns the list flags into db.ListAuditLogs filters
func auditFilters(cmd *cobra.Command) (map[string]interface{}, error) {
	filters := make(map[string]interface{})

	for flag, key := range map[string]string{
		"user":     "username",
		"action":   "action",
		"status":   "status",
		"resource": "resource",
	} {
		if v, _ := cmd.Flags().GetString(flag); v != "" {
			filters[key] = v
		}
	}

	if fromStr, _ := cmd.Flags().GetString("from"); fromStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return nil, fmt.Errorf("invalid from date: %w", err)
		}
		filters["from"] = from
	}

	if toStr, _ := cmd.Flags().GetString("to"); toStr != "" {
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return nil, fmt.Errorf("invalid to date: %w", err)
		}
		// Set to end of day
		filters["to"] = to.Add(24*time.Hour - time.Second)
	}

	return filters, nil
}

func runAuditList(cmd *cobra.Command, args []string) error {
	filters, err := auditFilters(cmd)
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")

	logs, total, err := db.ListAuditLogs(filters, limit, offset)
	if err != nil {
		return fmt.Errorf("failed to list audit logs: %w", err)
	}

	if len(logs) == 0 {
		fmt.Println("No audit logs found")
		return nil
	}

	printAuditLogs(logs)

	fmt.Printf("\nShowing %d-%d of %d total logs\n", offset+1, offset+len(logs), total)
	if offset+len(logs) < int(total) {
		fmt.Printf("Use --offset=%d to see more\n", offset+len(logs))
	}

	return nil
}

func printAuditLogs(logs []db.AuditLog) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tUSER\tACTION\tRESOURCE\tSTATUS\tMESSAGE")
	fmt.Fprintln(w, "--\t----\t----\t------\t--------\t------\t-------")

	for _, log := range logs {
		message := log.Message
		if len(message) > 40 {
			message = message[:37] + "..."
		}

		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			log.ID,
			log.CreatedAt.Format("2006-01-02 15:04:05"),
			log.Username,
			log.Action,
			log.Resource,
			log.Status,
			message,
		)
	}

	w.Flush()
}

func runAuditShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid log ID: %w", err)
	}

	var log db.AuditLog
	if err := db.DB.First(&log, id).Error; err != nil {
		return fmt.Errorf("audit log not found: %w", err)
	}

	fmt.Printf("Audit Log #%d\n\n", log.ID)
	fmt.Printf("Timestamp:  %s\n", log.CreatedAt.Format(time.RFC3339))
	fmt.Printf("User:       %s\n", log.Username)
	fmt.Printf("Action:     %s\n", log.Action)
	fmt.Printf("Status:     %s\n", log.Status)

	if log.Resource != "" {
		fmt.Printf("Resource:   %s\n", log.Resource)
	}
	if log.Message != "" {
		fmt.Printf("Message:    %s\n", log.Message)
	}
	if log.IPAddress != "" {
		fmt.Printf("IP Address: %s\n", log.IPAddress)
	}
	if log.CommitID != "" {
		fmt.Printf("Commit:     %s\n", log.CommitID)
	}
	if log.Duration > 0 {
		fmt.Printf("Duration:   %dms\n", log.Duration)
	}
	if log.Error != "" {
		fmt.Printf("\nError:\n%s\n", log.Error)
	}
	if log.Details != "" {
		fmt.Printf("\nDetails:\n%s\n", log.Details)
	}

	return nil
}

func runAuditCleanup(cmd *cobra.Command, args []string) error {
	days, _ := cmd.Flags().GetInt("days")
	if days == 0 {
		days = appCfg.Audit.RetentionDays
	}
	if days < 1 {
		return fmt.Errorf("days must be at least 1")
	}

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		ok, err := editor.NewSurveyDriver().Confirm(cmd.Context(), editor.ConfirmConfig{
			Message: fmt.Sprintf("Delete all audit logs older than %d days?", days),
		})
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Cleanup cancelled")
			return nil
		}
	}

	count, err := audit.CleanupOldLogs(time.Duration(days) * 24 * time.Hour)
	audit.Record(cliContext(cmd.Context()), audit.ActionAuditCleanup, "",
		fmt.Sprintf("removed %d entries older than %d days", count, days), nil, err)
	if err != nil {
		return err
	}

	fmt.Printf("Deleted %d audit log(s) older than %d days\n", count, days)
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return showCommit(args[0])
	}

	filters := make(map[string]interface{})
	if user, _ := cmd.Flags().GetString("user"); user != "" {
		filters["username"] = user
	}
	if status, _ := cmd.Flags().GetString("status"); status != "" {
		filters["status"] = status
	}
	limit, _ := cmd.Flags().GetInt("limit")

	commits, total, err := db.ListCommits(filters, limit, 0)
	if err != nil {
		return fmt.Errorf("failed to list commits: %w", err)
	}
	if len(commits) == 0 {
		fmt.Println("No commits found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COMMIT\tTIME\tUSER\tSTATUS\tCHANGES\tMESSAGE")
	for _, c := range commits {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			c.CommitID,
			c.CreatedAt.Format("2006-01-02 15:04:05"),
			c.Username,
			c.Status,
			len(c.Changes),
			c.Message)
	}
	w.Flush()

	fmt.Printf("\nShowing %d of %d commits\n", len(commits), total)
	return nil
}

func showCommit(commitID string) error {
	c, err := db.GetCommitByID(commitID)
	if err != nil {
		return fmt.Errorf("commit not found: %w", err)
	}

	fmt.Printf("Commit %s\n\n", c.CommitID)
	fmt.Printf("Time:     %s\n", c.CreatedAt.Format(time.RFC3339))
	fmt.Printf("User:     %s\n", c.Username)
	fmt.Printf("Source:   %s\n", c.Source)
	fmt.Printf("Status:   %s\n", c.Status)
	if c.Message != "" {
		fmt.Printf("Message:  %s\n", c.Message)
	}
	if c.SnapshotID != "" {
		fmt.Printf("Snapshot: %s\n", c.SnapshotID)
	}
	if c.Error != "" {
		fmt.Printf("Error:    %s\n", c.Error)
	}

	if len(c.Changes) > 0 {
		fmt.Println("\nChanges:")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, ch := range c.Changes {
			fmt.Fprintf(w, "  %s\t%s\t->\t%s\n", ch.Name, ch.OldValue, ch.NewValue)
		}
		w.Flush()
	}

	logs, err := db.GetAuditLogsByCommit(commitID)
	if err != nil {
		return err
	}
	if len(logs) > 0 {
		fmt.Println("\nAudit trail:")
		printAuditLogs(logs)
	}
	return nil
}
