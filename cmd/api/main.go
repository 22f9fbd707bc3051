package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/agenciaiam/crm/internal/activity"
	activityStore "github.com/agenciaiam/crm/internal/activity/store"
	"github.com/agenciaiam/crm/internal/client"
	clientStore "github.com/agenciaiam/crm/internal/client/store"
	"github.com/agenciaiam/crm/internal/config"
	"github.com/agenciaiam/crm/internal/dashboard"
	crmHttp "github.com/agenciaiam/crm/internal/http"
	activityHandler "github.com/agenciaiam/crm/internal/http/activity"
	authHandler "github.com/agenciaiam/crm/internal/http/auth"
	clientHandler "github.com/agenciaiam/crm/internal/http/client"
	dashboardHandler "github.com/agenciaiam/crm/internal/http/dashboard"
	invoiceHandler "github.com/agenciaiam/crm/internal/http/invoice"
	projectHandler "github.com/agenciaiam/crm/internal/http/project"
	quoteHandler "github.com/agenciaiam/crm/internal/http/quote"
	taskHandler "github.com/agenciaiam/crm/internal/http/task"
	"github.com/agenciaiam/crm/internal/importer"
	"github.com/agenciaiam/crm/internal/invoice"
	invoiceStore "github.com/agenciaiam/crm/internal/invoice/store"
	"github.com/agenciaiam/crm/internal/lifecycle"
	"github.com/agenciaiam/crm/internal/project"
	projectStore "github.com/agenciaiam/crm/internal/project/store"
	"github.com/agenciaiam/crm/internal/quote"
	quoteStore "github.com/agenciaiam/crm/internal/quote/store"
	"github.com/agenciaiam/crm/internal/storage"
	"github.com/agenciaiam/crm/internal/task"
	taskStore "github.com/agenciaiam/crm/internal/task/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rs, err := storage.New(cfg.Storage.DataDir, cfg.Storage.BackupEvery)
	if err != nil {
		slog.Error("failed to open record store", "error", err)
		os.Exit(1)
	}

	var (
		clientRepo   = clientStore.New(rs)
		quoteRepo    = quoteStore.New(rs)
		projectRepo  = projectStore.New(rs)
		invoiceRepo  = invoiceStore.New(rs)
		taskRepo     = taskStore.New(rs)
		activityRepo = activityStore.New(rs)
	)

	var (
		clientService   = client.NewService(clientRepo)
		quoteService    = quote.NewService(quoteRepo, clientService)
		projectService  = project.NewService(projectRepo, clientService)
		invoiceService  = invoice.NewService(invoiceRepo, clientService, projectService)
		taskService     = task.NewService(taskRepo, projectService)
		activityService = activity.NewService(activityRepo)
		importService   = importer.NewService()

		engine           = lifecycle.NewEngine(quoteRepo, projectRepo, invoiceRepo, clientService, activityService)
		dashboardService = dashboard.NewService(clientService, quoteService, projectService, invoiceService)
	)

	var (
		authH      = authHandler.NewHandler([]byte(cfg.Auth.Secret), cfg.Auth.Password, cfg.Auth.TokenTTL)
		clientH    = clientHandler.NewHandler(clientService, importService)
		quoteH     = quoteHandler.NewHandler(quoteService, engine)
		projectH   = projectHandler.NewHandler(projectService, engine)
		invoiceH   = invoiceHandler.NewHandler(invoiceService, engine)
		taskH      = taskHandler.NewHandler(taskService)
		activityH  = activityHandler.NewHandler(activityService)
		dashboardH = dashboardHandler.NewHandler(dashboardService)
	)

	router := crmHttp.New(crmHttp.RouterConfig{
		AuthSecret:     []byte(cfg.Auth.Secret),
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	}, authH, clientH, quoteH, projectH, invoiceH, taskH, activityH, dashboardH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port, "data_dir", cfg.Storage.DataDir)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
