package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nzbgetcom/webconf/pkg/appconfig"
	"github.com/nzbgetcom/webconf/pkg/appliers"
	"github.com/nzbgetcom/webconf/pkg/audit"
	"github.com/nzbgetcom/webconf/pkg/auth"
	"github.com/nzbgetcom/webconf/pkg/config"
	"github.com/nzbgetcom/webconf/pkg/db"
	"github.com/nzbgetcom/webconf/pkg/editor"
	"github.com/nzbgetcom/webconf/pkg/logger"
	"github.com/nzbgetcom/webconf/pkg/rpc"
	"github.com/nzbgetcom/webconf/pkg/schema"
	"github.com/nzbgetcom/webconf/pkg/snapshot"
	"github.com/nzbgetcom/webconf/pkg/version"
)

var (
	configPath  string
	appCfg      *appconfig.Config
	manager     *config.Manager
	snapshotMgr *snapshot.Manager
)

// Command annotations controlling what PersistentPreRunE sets up
const (
	// annotationStandalone commands need neither the database nor the daemon configuration
	annotationStandalone = "webconf/standalone"
	// annotationNoModel commands use the database but never load the daemon configuration
	annotationNoModel = "webconf/no-model"
)

func annotated(cmd *cobra.Command, key string) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[key] != "" {
			return true
		}
	}
	return false
}

func isStandalone(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return true
	}
	return annotated(cmd, annotationStandalone)
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "webconf",
		Short:         "webconf - NZBGet configuration tool",
		Long:          "Inspect, edit and commit NZBGet and extension script settings",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load(configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid webconf configuration: %w", err)
			}
			if err := logger.Configure(cfg.Log.Level, cfg.Log.Format, os.Stderr); err != nil {
				return err
			}
			appCfg = cfg

			if isStandalone(cmd) {
				return nil
			}

			// The database is optional: without it audit entries only reach the log
			if cfg.Audit.Enabled {
				if err := db.Initialize(&db.Config{Path: cfg.Audit.DatabasePath}); err != nil {
					logger.Warn("Failed to initialize database", "error", err)
				}
			}

			snapshotMgr = snapshot.NewManager(cfg.Snapshot.Dir, cfg.Snapshot.Keep)
			if annotated(cmd, annotationNoModel) {
				return nil
			}

			source, err := newSource(cfg)
			if err != nil {
				return err
			}
			manager = config.NewManager(source, config.Options{
				Snapshots:   snapshotMgr,
				StagingPath: cfg.Files.StagingFile,
			})
			return manager.Load(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if db.DB != nil {
				_ = db.Close()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", appconfig.DefaultConfigPath, "webconf settings file")
	flags.String("source", appconfig.DefaultSource, "Where configuration comes from (file or rpc)")
	flags.String("template", appconfig.DefaultTemplateFile, "Configuration template file (file source)")
	flags.String("values", appconfig.DefaultConfigFile, "Configuration values file (file source)")
	flags.String("extensions", "", "Extension list as JSON (file source)")
	flags.String("daemon-url", appconfig.DefaultDaemonURL, "Daemon JSON-RPC address (rpc source)")
	flags.String("snapshot-dir", appconfig.DefaultSnapshotDir, "Snapshot directory")
	flags.String("db", appconfig.DefaultDatabasePath, "Audit database file path")
	flags.String("log-level", appconfig.DefaultLogLevel, "Log level (debug, info, warn, error)")
	flags.String("log-format", appconfig.DefaultLogFormat, "Log format (json or text)")

	// Config commands
	rootCmd.AddCommand(showCmd, getCmd, setCmd, searchCmd, editCmd, exportCmd)

	// Repeatable sections
	rootCmd.AddCommand(addCmd, deleteCmd, moveCmd)

	// Staging and history
	rootCmd.AddCommand(changesCmd, commitCmd, revertCmd, snapshotCmd, historyCmd, auditCmd)

	// API server and housekeeping
	rootCmd.AddCommand(serveCmd, versionCmd, initConfigCmd, settingsCmd, hashPasswordCmd)

	return rootCmd
}

// applyFlags overrides settings with the flags given on the command line
func applyFlags(cmd *cobra.Command, cfg *appconfig.Config) {
	flags := cmd.Flags()
	override := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}

	override("source", &cfg.Daemon.Source)
	override("template", &cfg.Files.TemplateFile)
	override("values", &cfg.Files.ConfigFile)
	override("extensions", &cfg.Files.ExtensionsFile)
	override("daemon-url", &cfg.Daemon.URL)
	override("snapshot-dir", &cfg.Snapshot.Dir)
	override("db", &cfg.Audit.DatabasePath)
	override("log-level", &cfg.Log.Level)
	override("log-format", &cfg.Log.Format)
}

func newSource(cfg *appconfig.Config) (config.Source, error) {
	switch cfg.Daemon.Source {
	case "file":
		return config.NewFileSource(cfg.Files.TemplateFile, cfg.Files.ConfigFile, cfg.Files.ExtensionsFile), nil
	case "rpc":
		client := rpc.NewClient(cfg.Daemon.URL, cfg.Daemon.Username, cfg.Daemon.Password, cfg.Daemon.Timeout)
		return config.NewRPCSource(client), nil
	default:
		return nil, fmt.Errorf("unknown source %q", cfg.Daemon.Source)
	}
}

// cliContext tags ctx with the local user for audit entries
func cliContext(ctx context.Context) context.Context {
	username := os.Getenv("USER")
	if username == "" {
		username = audit.DefaultUsername
	}
	return audit.WithUser(ctx, username)
}

var showCmd = &cobra.Command{
	Use:   "show [section]",
	Short: "Show config sets, or the options of one section",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			printSets(manager.Sets())
			return nil
		}

		section, err := manager.Section(args[0])
		if err != nil {
			return err
		}
		printSection(section)
		return nil
	},
}

func printSets(sets []*schema.ConfigSet) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SECTION\tNAME\tOPTIONS\tINSTANCES")
	for _, set := range sets {
		fmt.Fprintf(w, "[%s]\t%s\t\t\n", set.ID, set.DisplayName)
		for _, section := range set.Sections {
			if section.Hidden {
				continue
			}
			instances := "-"
			if section.Repeatable {
				instances = strconv.Itoa(len(section.Instances()))
			}
			fmt.Fprintf(w, "  %s\t%s\t%d\t%s\n", section.ID, section.Name, countOptions(section), instances)
		}
	}
	w.Flush()
}

func countOptions(section *schema.Section) int {
	n := 0
	for _, o := range section.Options {
		if !o.Template {
			n++
		}
	}
	return n
}

func printSection(section *schema.Section) {
	staged := make(map[string]bool)
	for _, c := range manager.Changes() {
		staged[strings.ToLower(c.Name)] = true
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "# %s\n", section.Name)
	for _, o := range section.Options {
		if o.Template || o.Info {
			continue
		}
		if o.IsCommand() {
			fmt.Fprintf(w, "%s\t(command)\n", o.Caption)
			continue
		}

		value, err := manager.Value(o.Name)
		if err != nil {
			value = o.Effective()
		}
		if o.Kind() == schema.KindPassword && value != "" {
			value = "********"
		}
		marker := ""
		if staged[strings.ToLower(o.Name)] {
			marker = "*"
		}
		fmt.Fprintf(w, "%s\t=\t%s\t%s\n", o.Name, value, marker)
	}
	w.Flush()
}

var getCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Get an option value (e.g., Server1.Host)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := manager.Value(args[0])
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set <name> <value>",
	Short: "Stage an option value (e.g., ArticleCache 200)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := manager.Set(cliContext(cmd.Context()), args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Staged: %s=%s\n", args[0], args[1])
		fmt.Println("Run 'webconf commit' to save")
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <words...>",
	Short: "Find options by name, value or description",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		found := manager.Search(strings.Join(args, " "))
		if len(found) == 0 {
			fmt.Println("No matching options")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, o := range found {
			fmt.Fprintf(w, "%s\t%s\t%s\n", o.SectionID, o.Name, firstLine(o.Description))
		}
		w.Flush()
		return nil
	},
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	if len(line) > 60 {
		line = line[:57] + "..."
	}
	return line
}

var editCmd = &cobra.Command{
	Use:   "edit <section>",
	Short: "Edit the options of a section interactively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		section, err := manager.Section(args[0])
		if err != nil {
			return err
		}

		n, err := editor.New(manager, nil).EditSection(cliContext(cmd.Context()), section)
		if n > 0 {
			fmt.Printf("Staged %d change(s); run 'webconf commit' to save\n", n)
		}
		if errors.Is(err, editor.ErrAborted) {
			return nil
		}
		return err
	},
}

var addCmd = &cobra.Command{
	Use:   "add <section>",
	Short: "Add an instance to a repeatable section (e.g., news servers)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := manager.AddInstance(cliContext(cmd.Context()), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Added instance %d to %s\n", id, args[0])
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <section> <instance>",
	Short: "Delete an instance; later instances are renumbered",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid instance number %q", args[1])
		}
		if err := manager.DeleteInstance(cliContext(cmd.Context()), args[0], id); err != nil {
			return err
		}
		fmt.Printf("Deleted instance %d from %s\n", id, args[0])
		return nil
	},
}

var moveCmd = &cobra.Command{
	Use:       "move <section> <instance> up|down",
	Short:     "Swap an instance with its neighbour",
	Args:      cobra.ExactArgs(3),
	ValidArgs: []string{"up", "down"},
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid instance number %q", args[1])
		}

		var up bool
		switch args[2] {
		case "up":
			up = true
		case "down":
		default:
			return fmt.Errorf("direction must be up or down, got %q", args[2])
		}

		if err := manager.MoveInstance(cliContext(cmd.Context()), args[0], id, up); err != nil {
			return err
		}
		fmt.Printf("Moved instance %d of %s %s\n", id, args[0], args[2])
		return nil
	},
}

var changesCmd = &cobra.Command{
	Use:   "changes",
	Short: "Show staged changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		changes := manager.Changes()
		if len(changes) == 0 {
			fmt.Println("No staged changes")
			return nil
		}
		printChanges(changes)
		return nil
	},
}

func printChanges(changes []config.Change) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tNAME\tOLD\tNEW")
	for _, c := range changes {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Type, c.Name, c.OldValue, c.NewValue)
	}
	w.Flush()
}

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Save staged changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		message, _ := cmd.Flags().GetString("message")

		result, err := manager.Commit(cliContext(cmd.Context()), message)
		if errors.Is(err, config.ErrNoChanges) {
			fmt.Println("No changes to commit")
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Printf("Committed %d change(s) as %s\n", len(result.Changes), result.ID)
		if result.SnapshotID != "" {
			fmt.Printf("Previous values saved in snapshot %s\n", result.SnapshotID)
		}
		return applyCommitted(cmd.Context(), result)
	},
}

// applyCommitted runs the appliers enabled in the settings, such as the
// daemon reload, for a saved result
func applyCommitted(ctx context.Context, result *config.CommitResult) error {
	registry := appliers.DefaultRegistry(appCfg)
	if registry.Len() == 0 {
		return nil
	}

	fmt.Println("Reloading daemon...")
	ctx, cancel := context.WithTimeout(cliContext(ctx), appCfg.Daemon.ReloadTimeout+appCfg.Daemon.Timeout)
	defer cancel()

	if err := registry.ApplyAll(audit.WithCommit(ctx, result.ID), result); err != nil {
		return fmt.Errorf("values saved but not applied: %w", err)
	}
	fmt.Println("Daemon reloaded")
	return nil
}

var revertCmd = &cobra.Command{
	Use:   "revert",
	Short: "Drop all staged changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		err := manager.Revert(cliContext(cmd.Context()))
		if errors.Is(err, config.ErrNoChanges) {
			fmt.Println("No staged changes")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Println("Staged changes dropped")
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the values a commit would save",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		return writeValues(os.Stdout, manager.Export(), format)
	},
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Show version information",
	Annotations: map[string]string{annotationStandalone: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("webconf " + version.GetFullVersion())
	},
}

var initConfigCmd = &cobra.Command{
	Use:         "init-config [path]",
	Short:       "Write a settings file with the default values",
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{annotationStandalone: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if len(args) == 1 {
			path = args[0]
		}
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		if err := appconfig.CreateDefaultConfig(path); err != nil {
			return err
		}
		fmt.Printf("Wrote default settings to %s\n", path)
		return nil
	},
}

var settingsCmd = &cobra.Command{
	Use:         "settings",
	Short:       "Show webconf's own settings",
	Annotations: map[string]string{annotationStandalone: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		set := appCfg.Schema()
		for _, section := range set.Sections {
			printSettings(section)
		}
		return nil
	},
}

var hashPasswordCmd = &cobra.Command{
	Use:         "hash-password",
	Short:       "Print a bcrypt hash to use as APIPassword",
	Annotations: map[string]string{annotationStandalone: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt := editor.NewSurveyDriver()
		password, err := prompt.Password(cmd.Context(), editor.InputConfig{Message: "Password:"})
		if err != nil {
			return err
		}
		again, err := prompt.Password(cmd.Context(), editor.InputConfig{Message: "Repeat password:"})
		if err != nil {
			return err
		}
		if password != again {
			return fmt.Errorf("passwords do not match")
		}

		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	},
}

func printSettings(section *schema.Section) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "# %s\n", section.Name)
	for _, o := range section.Options {
		value := o.Effective()
		if o.Kind() == schema.KindPassword && value != "" {
			value = "********"
		}
		fmt.Fprintf(w, "%s\t=\t%s\t%s\n", o.Name, value, firstLine(o.Description))
	}
	w.Flush()
}

func init() {
	commitCmd.Flags().StringP("message", "m", "", "Commit message")
	exportCmd.Flags().String("format", "conf", "Output format (conf, json or yaml)")
	initConfigCmd.Flags().Bool("force", false, "Overwrite an existing file")
}
