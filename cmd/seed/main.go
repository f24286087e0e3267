package main

import (
	"context"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"issuedesk/internal/config"
	"issuedesk/internal/db"
	"issuedesk/internal/model"
	"issuedesk/internal/repository"
)

type seedUser struct {
	Username  string
	Email     string
	Role      model.Role
	Superuser bool
}

var seedUsers = []seedUser{
	{Username: "admin", Email: "admin@issuedesk.local", Role: model.RoleAdmin, Superuser: true},
	{Username: "alice", Email: "alice@issuedesk.local", Role: model.RoleAssignee},
	{Username: "bob", Email: "bob@issuedesk.local", Role: model.RoleAssignee},
	{Username: "carol", Email: "carol@issuedesk.local", Role: model.RoleReporter},
}

var seedProjects = []model.Project{
	{Name: "Website", Description: "Public site and landing pages"},
	{Name: "Backend", Description: "API and persistence layer"},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Project{}, &model.Issue{}, &model.Comment{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "changeme1"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	projectRepo := repository.NewProjectRepository(gormDB)

	created := 0
	for _, su := range seedUsers {
		if _, err := userRepo.FindByUsername(ctx, su.Username); err == nil {
			log.Printf("User %q already exists, skipping", su.Username)
			continue
		} else if err != gorm.ErrRecordNotFound {
			log.Fatalf("Failed to check user %q: %v", su.Username, err)
		}

		user := &model.User{
			Username:     su.Username,
			Email:        su.Email,
			PasswordHash: string(hash),
			Role:         su.Role,
			Superuser:    su.Superuser,
			Active:       true,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create user %q: %v", su.Username, err)
		}
		created++
	}
	log.Printf("Created %d users", created)

	var existing int64
	if err := gormDB.Model(&model.Project{}).Count(&existing).Error; err != nil {
		log.Fatalf("Failed to count projects: %v", err)
	}
	if existing == 0 {
		for i := range seedProjects {
			if err := projectRepo.Create(ctx, &seedProjects[i]); err != nil {
				log.Fatalf("Failed to create project %q: %v", seedProjects[i].Name, err)
			}
		}
		log.Printf("Created %d projects", len(seedProjects))
	} else {
		log.Printf("%d projects already present, skipping project seed", existing)
	}

	log.Println("Seed completed")
}
