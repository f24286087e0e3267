package main

import (
	"log"
	"net/http"
	"os"

	_ "issuedesk/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"issuedesk/internal/auth"
	"issuedesk/internal/cache"
	"issuedesk/internal/config"
	"issuedesk/internal/db"
	"issuedesk/internal/handler"
	"issuedesk/internal/model"
	"issuedesk/internal/repository"
	"issuedesk/internal/router"
	"issuedesk/internal/service"
)

// @title Issuedesk API
// @version 1.0
// @description Issue tracker with role-gated lifecycle, auto-assignment and HTMX partial updates.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Comment{},
			&model.Issue{},
			&model.Project{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.Issue{},
		&model.Comment{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	projectRepo := repository.NewProjectRepository(gormDB)
	issueRepo := repository.NewIssueRepository(gormDB)
	commentRepo := repository.NewCommentRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo, cacheClient)
	selector := service.NewAssignmentSelector(userRepo)
	issueService := service.NewIssueService(issueRepo, projectRepo, commentRepo, selector)
	projectService := service.NewProjectService(projectRepo, issueRepo, cacheClient)

	// Initialize handlers
	principal := handler.NewPrincipal(userService)
	authHandler := handler.NewAuthHandler(authService)
	projectHandler := handler.NewProjectHandler(projectService, principal)
	issueHandler := handler.NewIssueHandler(issueService, userService, principal)
	userHandler := handler.NewUserHandler(userService, principal)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		projectHandler,
		issueHandler,
		userHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
