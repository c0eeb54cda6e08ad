package main

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gopkg.in/yaml.v3"

	"github.com/nzbgetcom/webconf/docs"
	"github.com/nzbgetcom/webconf/pkg/appconfig"
	"github.com/nzbgetcom/webconf/pkg/appliers"
	"github.com/nzbgetcom/webconf/pkg/audit"
	"github.com/nzbgetcom/webconf/pkg/auth"
	"github.com/nzbgetcom/webconf/pkg/bus"
	"github.com/nzbgetcom/webconf/pkg/config"
	"github.com/nzbgetcom/webconf/pkg/db"
	apierrors "github.com/nzbgetcom/webconf/pkg/errors"
	"github.com/nzbgetcom/webconf/pkg/logger"
	"github.com/nzbgetcom/webconf/pkg/middleware"
	"github.com/nzbgetcom/webconf/pkg/schema"
	"github.com/nzbgetcom/webconf/pkg/snapshot"
	"github.com/nzbgetcom/webconf/pkg/version"
)

// @title webconf API
// @version 1.0
// @description Stage, commit and audit NZBGet configuration changes

// @license.name GPL-2.0
// @license.url https://www.gnu.org/licenses/old-licenses/gpl-2.0.html

// @BasePath /
// @schemes http https
// @securityDefinitions.basic BasicAuth

const docsPrefix = "/api/docs"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")
		if cmd.Flags().Changed("port") {
			appCfg.API.Port = port
		}
		return startAPIServer(cmd.Context(), appCfg)
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", appconfig.DefaultAPIPort, "API server port")
}

func startAPIServer(ctx context.Context, cfg *appconfig.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid webconf configuration: %w", err)
	}
	if cfg.API.Username == "" {
		logger.Warn("API authentication is disabled; set APIUsername and APIPassword to enable it")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if audit.Enabled() && cfg.Audit.RetentionDays > 0 {
		audit.StartCleanupScheduler(ctx, cfg.Audit.RetentionDays, 24*time.Hour)
	}

	registry := appliers.DefaultRegistry(cfg)
	if registry.Len() > 0 {
		if err := registry.Validate(ctx); err != nil {
			logger.Warn("Daemon reload may fail", "error", err)
		}
		registry.Subscribe(bus.GlobalBus, cfg.Daemon.ReloadTimeout+cfg.Daemon.Timeout)
		logger.Info("Committed changes are applied", "appliers", registry.List())
	}

	gin.SetMode(gin.ReleaseMode)
	r := newRouter(ctx, cfg, manager, snapshotMgr)

	addr := fmt.Sprintf(":%d", cfg.API.Port)
	logger.Info("Starting API server", "addr", addr, "source", cfg.Daemon.Source)
	return r.Run(addr)
}

// newRouter wires the middleware chain and all API routes
func newRouter(ctx context.Context, cfg *appconfig.Config, manager *config.Manager, snapshots *snapshot.Manager) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	limiter := middleware.NewIPRateLimiter(ctx, cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)

	r.Use(middleware.SecurityHeadersMiddleware(docsPrefix))
	if cfg.API.EnableCORS {
		r.Use(corsMiddleware(cfg.API.AllowedOrigins))
	}
	r.Use(middleware.RequestLoggingMiddleware())
	r.Use(middleware.ContentTypeValidationMiddleware())
	r.Use(middleware.RateLimitWithHeadersMiddleware(limiter, cfg.RateLimit.RequestsPerMinute))

	// Health check (public)
	r.GET("/health", healthHandler(manager))

	protected := []gin.HandlerFunc{}
	if cfg.API.Username != "" {
		protected = append(protected, auth.BasicAuthMiddleware(auth.NewCredentials(cfg.API.Username, cfg.API.Password)))
	}
	protected = append(protected, middleware.AuditContextMiddleware())

	if cfg.API.EnableSwagger {
		docs.SwaggerInfo.Version = version.GetVersion()
		swagger := r.Group(docsPrefix, protected...)
		swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("/api", protected...)
	{
		// Read operations
		api.GET("/configs", listConfigsHandler(manager))
		api.GET("/configs/:id", getConfigHandler(manager))
		api.GET("/sections/:id", getSectionHandler(manager))
		api.GET("/options/:name", getOptionHandler(manager))
		api.GET("/search", searchHandler(manager))
		api.GET("/changes", changesHandler(manager))
		api.GET("/export", exportHandler(manager))

		// Staging
		api.PUT("/options/:name", setOptionHandler(manager))
		api.POST("/sections/:id/instances", addInstanceHandler(manager))
		api.DELETE("/sections/:id/instances/:n", deleteInstanceHandler(manager))
		api.POST("/sections/:id/instances/:n/move", moveInstanceHandler(manager))

		// Saving
		api.POST("/commit", commitHandler(manager))
		api.POST("/revert", revertHandler(manager))
		api.POST("/reload", reloadHandler(manager))

		// History
		api.GET("/snapshots", listSnapshotsHandler(snapshots))
		api.POST("/snapshots/:id/restore", restoreSnapshotHandler(manager))
		api.GET("/audit", auditHandler())
		api.GET("/commits", commitsHandler())
	}

	return r
}

// render writes obj as JSON, or as YAML when the request asks for ?format=yaml
func render(c *gin.Context, status int, obj interface{}) {
	if c.Query("format") != "yaml" {
		c.JSON(status, obj)
		return
	}

	data, err := yaml.Marshal(obj)
	if err != nil {
		apierrors.InternalServerError(c, err)
		return
	}
	c.Data(status, "application/yaml; charset=utf-8", data)
}

// HealthResponse reports whether the configuration is loaded
type HealthResponse struct {
	Status   string    `json:"status" yaml:"status" example:"ok"`
	LoadedAt time.Time `json:"loaded_at" yaml:"loaded_at"`
}

// healthHandler godoc
// @Summary Health check
// @Description Check if the API server is running and the configuration is loaded
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func healthHandler(manager *config.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		loadedAt := manager.LoadedAt()
		if loadedAt.IsZero() {
			c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "not loaded"})
			return
		}
		c.JSON(http.StatusOK, HealthResponse{Status: "ok", LoadedAt: loadedAt})
	}
}

// ConfigsResponse lists every loaded config set
type ConfigsResponse struct {
	Configs    []*schema.ConfigSet `json:"configs" yaml:"configs"`
	PostParams *schema.Section     `json:"post_params,omitempty" yaml:"post_params,omitempty"`
	Obsolete   []string            `json:"obsolete" yaml:"obsolete"`
	LoadedAt   time.Time           `json:"loaded_at" yaml:"loaded_at"`
}

// listConfigsHandler godoc
// @Summary List config sets
// @Description The daemon's own options followed by one set per extension script
// @Tags config
// @Produce json,application/yaml
// @Param format query string false "Response format" Enums(json, yaml)
// @Success 200 {object} ConfigsResponse
// @Security BasicAuth
// @Router /api/configs [get]
func listConfigsHandler(manager *config.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sets := manager.Sets()
		for _, set := range sets {
			maskSections(set.Sections...)
		}
		render(c, http.StatusOK, ConfigsResponse{
			Configs:    sets,
			PostParams: manager.PostParams(),
			Obsolete:   manager.Obsolete(),
			LoadedAt:   manager.LoadedAt(),
		})
	}
}

// getConfigHandler godoc
// @Summary Get config set
// @Tags config
// @Produce json,application/yaml
// @Param id path string true "Config set id (nzbget or an extension name)"
// @Param format query string false "Response format" Enums(json, yaml)
// @Success 200 {object} schema.ConfigSet
// @Failure 404 {object} map[string]string
// @Security BasicAuth
// @Router /api/configs/{id} [get]
func getConfigHandler(manager *config.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		set, err := manager.ConfigSet(c.Param("id"))
		if err != nil {
			apierrors.Respond(c, err)
			return
		}
		maskSections(set.Sections...)
		render(c, http.StatusOK, set)
	}
}

// getSectionHandler godoc
// @Summary Get section
// @Tags config
// @Produce json,application/yaml
// @Param id path string true "Section id"
// @Param format query string false "Response format" Enums(json, yaml)
// @Success 200 {object} schema.Section
// @Failure 404 {object} map[string]string
// @Security BasicAuth
// @Router /api/sections/{id} [get]
func getSectionHandler(manager *config.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		section, err := manager.Section(c.Param("id"))
		if err != nil {
			apierrors.Respond(c, err)
			return
		}
		maskSections(section)
		render(c, http.StatusOK, section)
	}
}

// OptionResponse describes one option with its staged value
type OptionResponse struct {
	Name         string      `json:"name" yaml:"name" example:"Server1.Host"`
	Section      string      `json:"section" yaml:"section"`
	Kind         schema.Kind `json:"kind" yaml:"kind" example:"text"`
	Value        string      `json:"value" yaml:"value"`
	Saved        string      `json:"saved" yaml:"saved"`
	DefaultValue string      `json:"default_value" yaml:"default_value"`
	Unit         string      `json:"unit,omitempty" yaml:"unit,omitempty"`
	Choices      []string    `json:"choices,omitempty" yaml:"choices,omitempty"`
	Staged       bool        `json:"staged" yaml:"staged"`
	Description  string      `json:"description,omitempty" yaml:"description,omitempty"`
}

func newOptionResponse(manager *config.Manager, option *schema.Option) (OptionResponse, error) {
	value, err := manager.Value(option.Name)
	if err != nil {
		return OptionResponse{}, err
	}

	resp := OptionResponse{
		Name:         option.Name,
		Section:      option.SectionID,
		Kind:         option.Kind(),
		Value:        value,
		Saved:        option.Effective(),
		DefaultValue: option.DefaultValue,
		Unit:         option.Unit(),
		Choices:      option.Choices,
		Staged:       value != option.Effective(),
		Description:  option.Description,
	}
	if resp.Kind == schema.KindPassword {
		resp.Value, resp.Saved = mask(resp.Value), mask(resp.Saved)
		resp.DefaultValue = mask(resp.DefaultValue)
	}
	return resp, nil
}

func mask(value string) string {
	if value == "" {
		return ""
	}
	return "********"
}

// maskSections hides password values in sections copied from the manager
func maskSections(sections ...*schema.Section) {
	for _, section := range sections {
		for _, option := range section.Options {
			if option.Kind() != schema.KindPassword {
				continue
			}
			if option.Value != nil {
				masked := mask(*option.Value)
				option.Value = &masked
			}
			option.DefaultValue = mask(option.DefaultValue)
		}
	}
}

// getOptionHandler godoc
// @Summary Get option
// @Description Get an option with the value a commit would save. Passwords are masked.
// @Tags config
// @Produce json,application/yaml
// @Param name path string true "Option name (e.g., Server1.Host)"
// @Param format query string false "Response format" Enums(json, yaml)
// @Success 200 {object} OptionResponse
// @Failure 404 {object} map[string]string
// @Security BasicAuth
// @Router /api/options/{name} [get]
func getOptionHandler(manager *config.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		option, err := manager.Get(c.Param("name"))
		if err != nil {
			apierrors.Respond(c, err)
			return
		}

		resp, err := newOptionResponse(manager, option)
		if err != nil {
			apierrors.Respond(c, err)
			return
		}
		render(c, http.StatusOK, resp)
	}
}

// SetOptionRequest represents the request body for setting an option
type SetOptionRequest struct {
	Value *string `json:"value" binding:"required" example:"news.example.com"`
}

// setOptionHandler godoc
// @Summary Set option
// @Description Validate and stage an option value (requires commit)
// @Tags staging
// @Accept json
// @Produce json
// @Param name path string true "Option name"
// @Param request body SetOptionRequest true "Option value"
// @Success 200 {object} OptionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BasicAuth
// @Router /api/options/{name} [put]
func setOptionHandler(manager *config.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SetOptionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, err)
			return
		}

		name := c.Param("name")
		if err := manager.Set(c.Request.Context(), name, *req.Value); err != nil {
			apierrors.Respond(c, err)
			return
		}

		option, err := manager.Get(name)
		if err != nil {
			apierrors.Respond(c, err)
			return
		}
		resp, err := newOptionResponse(manager, option)
		if err != nil {
			apierrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// InstanceResponse names an instance of a repeatable section
type InstanceResponse struct {
	Section  string `json:"section" yaml:"section" example:"NewsServers"`
	Instance int    `json:"instance" yaml:"instance" example:"2"`
}

// addInstanceHandler godoc
// @Summary Add instance
// @Description Append an instance to a repeatable section (requires commit)
// @Tags staging
// @Produce json
// @Param id path string true "Section id"
// @Success 201 {object} InstanceResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BasicAuth
// @Router /api/sections/{id}/instances [post]
func addInstanceHandler(manager *config.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sectionID := c.Param("id")
		id, err := manager.AddInstance(c.Request.Context(), sectionID)
		if err != nil {
			apierrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, InstanceResponse{Section: sectionID, Instance: id})
	}
}

func instanceParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("n"))
	if err != nil || id < 1 {
		apierrors.BadRequest(c, fmt.Errorf("invalid instance number %q", c.Param("n")))
		return 0, false
	}
	return id, true
}

// deleteInstanceHandler godoc
// @Summary Delete instance
// @Description Delete an instance; later instances are renumbered (requires commit)
// @Tags staging
// @Produce json
// @Param id path string true "Section id"
// @Param n path int true "Instance number"
// @Success 200 {object} InstanceResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BasicAuth
// @Router /api/sections/{id}/instances/{n} [delete]
func deleteInstanceHandler(manager *config.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := instanceParam(c)
		if !ok {
			return
		}

		sectionID := c.Param("id")
		if err := manager.DeleteInstance(c.Request.Context(), sectionID, id); err != nil {
			apierrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, InstanceResponse{Section: sectionID, Instance: id})
	}
}

// MoveInstanceRequest selects the direction of a move
type MoveInstanceRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down" example:"up"`
}

// moveInstanceHandler godoc
// @Summary Move instance
// @Description Swap an instance with its neighbour (requires commit)
// @Tags staging
// @Accept json
// @Produce json
// @Param id path string true "Section id"
// @Param n path int true "Instance number"
// @Param request body MoveInstanceRequest true "Direction"
// @Success 200 {object} InstanceResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BasicAuth
// @Router /api/sections/{id}/instances/{n}/move [post]
func moveInstanceHandler(manager *config.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := instanceParam(c)
		if !ok {
			return
		}

		var req MoveInstanceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, err)
			return
		}

		up := req.Direction == "up"
		target := id + 1
		if up {
			target = id - 1
		}

		sectionID := c.Param("id")
		if err := manager.MoveInstance(c.Request.Context(), sectionID, id, up); err != nil {
			apierrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, InstanceResponse{Section: sectionID, Instance: target})
	}
}

// searchHandler godoc
// @Summary Search options
// @Description Find options whose name, value or description contains every word
// @Tags config
// @Produce json,application/yaml
// @Param q query string true "Search words"
// @Param format query string false "Response format" Enums(json, yaml)
// @Success 200 {array} OptionResponse
// @Failure 400 {object} map[string]string
// @Security BasicAuth
// @Router /api/search [get]
func searchHandler(manager *config.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := strings.TrimSpace(c.Query("q"))
		if query == "" {
			apierrors.BadRequest(c, fmt.Errorf("missing query"))
			return
		}

		results := []OptionResponse{}
		for _, option := range manager.Search(query) {
			resp, err := newOptionResponse(manager, option)
			if err != nil {
				continue
			}
			results = append(results, resp)
		}
		render(c, http.StatusOK, results)
	}
}

// ChangesResponse lists staged changes
type ChangesResponse struct {
	Changes []config.Change `json:"changes" yaml:"changes"`
	Edits   []config.Edit   `json:"edits" yaml:"edits"`
}

// changesHandler godoc
// @Summary Get staged changes
// @Description Values a commit would write differently, and the staged edits behind them
// @Tags staging
// @Produce json,application/yaml
// @Param format query string false "Response format" Enums(json, yaml)
// @Success 200 {object} ChangesResponse
// @Security BasicAuth
// @Router /api/changes [get]
func changesHandler(manager *config.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		changes := manager.Changes()
		if changes == nil {
			changes = []config.Change{}
		}
		edits := manager.Edits()
		if edits == nil {
			edits = []config.Edit{}
		}
		render(c, http.StatusOK, ChangesResponse{Changes: changes, Edits: edits})
	}
}

// exportHandler godoc
// @Summary Export values
// @Description The complete value list a commit would save
// @Tags config
// @Produce json,application/yaml,text/plain
// @Param format query string false "Response format" Enums(json, yaml, conf)
// @Success 200 {array} schema.Value
// @Security BasicAuth
// @Router /api/export [get]
func exportHandler(manager *config.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		vals := manager.Export()
		if c.Query("format") != "conf" {
			render(c, http.StatusOK, vals)
			return
		}

		c.Header("Content-Type", "text/plain; charset=utf-8")
		c.Status(http.StatusOK)
		if err := writeValues(c.Writer, vals, "conf"); err != nil {
			logger.Error("Failed to write export", "error", err)
		}
	}
}

// CommitRequest carries an optional commit message
type CommitRequest struct {
	Message string `json:"message" example:"raise article cache"`
}

// commitHandler godoc
// @Summary Commit changes
// @Description Save staged changes through the configured source. The replaced values are snapshotted first.
// @Tags staging
// @Accept json
// @Produce json
// @Param request body CommitRequest false "Commit message"
// @Success 200 {object} config.CommitResult
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BasicAuth
// @Router /api/commit [post]
func commitHandler(manager *config.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CommitRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				apierrors.BadRequest(c, err)
				return
			}
		}

		result, err := manager.Commit(c.Request.Context(), req.Message)
		if err != nil {
			apierrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// revertHandler godoc
// @Summary Revert changes
// @Description Drop all staged changes and reload
// @Tags staging
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BasicAuth
// @Router /api/revert [post]
func revertHandler(manager *config.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := manager.Revert(c.Request.Context()); err != nil {
			apierrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "staged changes dropped"})
	}
}

// reloadHandler godoc
// @Summary Reload configuration
// @Description Re-read templates and values from the source; staged changes are replayed on top
// @Tags config
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 500 {object} map[string]string
// @Security BasicAuth
// @Router /api/reload [post]
func reloadHandler(manager *config.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := manager.Load(c.Request.Context()); err != nil {
			apierrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, HealthResponse{Status: "ok", LoadedAt: manager.LoadedAt()})
	}
}

// listSnapshotsHandler godoc
// @Summary List snapshots
// @Tags history
// @Produce json,application/yaml
// @Param format query string false "Response format" Enums(json, yaml)
// @Success 200 {array} snapshot.Snapshot
// @Security BasicAuth
// @Router /api/snapshots [get]
func listSnapshotsHandler(snapshots *snapshot.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if snapshots == nil {
			render(c, http.StatusOK, []*snapshot.Snapshot{})
			return
		}
		list, err := snapshots.List()
		if err != nil {
			apierrors.InternalServerError(c, err)
			return
		}
		render(c, http.StatusOK, list)
	}
}

// restoreSnapshotHandler godoc
// @Summary Restore snapshot
// @Description Save the values of a snapshot. Staged changes are dropped and the current values are snapshotted first.
// @Tags history
// @Produce json
// @Param id path string true "Snapshot id"
// @Success 200 {object} config.CommitResult
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BasicAuth
// @Router /api/snapshots/{id}/restore [post]
func restoreSnapshotHandler(manager *config.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := manager.Restore(c.Request.Context(), c.Param("id"))
		if err != nil {
			apierrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// pagination reads limit and offset query parameters
func pagination(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 500 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

// AuditResponse is one page of audit log entries
type AuditResponse struct {
	Logs  []db.AuditLog `json:"logs" yaml:"logs"`
	Total int64         `json:"total" yaml:"total"`
}

// auditHandler godoc
// @Summary List audit logs
// @Tags history
// @Produce json,application/yaml
// @Param user query string false "Filter by username"
// @Param action query string false "Filter by action (e.g., option.set)"
// @Param status query string false "Filter by status" Enums(success, failure)
// @Param commit query string false "Entries of one commit"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Param format query string false "Response format" Enums(json, yaml)
// @Success 200 {object} AuditResponse
// @Failure 503 {object} map[string]string
// @Security BasicAuth
// @Router /api/audit [get]
func auditHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !audit.Enabled() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audit log disabled"})
			return
		}

		if commitID := c.Query("commit"); commitID != "" {
			logs, err := db.GetAuditLogsByCommit(commitID)
			if err != nil {
				apierrors.InternalServerError(c, err)
				return
			}
			render(c, http.StatusOK, AuditResponse{Logs: logs, Total: int64(len(logs))})
			return
		}

		filters := make(map[string]interface{})
		for param, key := range map[string]string{"user": "username", "action": "action", "status": "status"} {
			if v := c.Query(param); v != "" {
				filters[key] = v
			}
		}

		limit, offset := pagination(c)
		logs, total, err := db.ListAuditLogs(filters, limit, offset)
		if err != nil {
			apierrors.InternalServerError(c, err)
			return
		}
		render(c, http.StatusOK, AuditResponse{Logs: logs, Total: total})
	}
}

// CommitsResponse is one page of saved commits
type CommitsResponse struct {
	Commits []db.Commit `json:"commits" yaml:"commits"`
	Total   int64       `json:"total" yaml:"total"`
}

// commitsHandler godoc
// @Summary List commits
// @Tags history
// @Produce json,application/yaml
// @Param user query string false "Filter by username"
// @Param status query string false "Filter by status" Enums(pending, committed, failed, restored)
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Param format query string false "Response format" Enums(json, yaml)
// @Success 200 {object} CommitsResponse
// @Failure 503 {object} map[string]string
// @Security BasicAuth
// @Router /api/commits [get]
func commitsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !audit.Enabled() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audit log disabled"})
			return
		}

		filters := make(map[string]interface{})
		if user := c.Query("user"); user != "" {
			filters["username"] = user
		}
		if status := c.Query("status"); status != "" {
			filters["status"] = status
		}

		limit, offset := pagination(c)
		commits, total, err := db.ListCommits(filters, limit, offset)
		if err != nil {
			apierrors.InternalServerError(c, err)
			return
		}
		render(c, http.StatusOK, CommitsResponse{Commits: commits, Total: total})
	}
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Add("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
