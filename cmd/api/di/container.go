package di

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"user-crud-service/cmd/api/infrastructure"
	"user-crud-service/internal/adapter/db/mongodb"
	ginhandler "user-crud-service/internal/adapter/gin/handler"
	"user-crud-service/internal/config"
	"user-crud-service/internal/usecase/user"
	"user-crud-service/pkg/security"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	MongoClient *mongo.Client
	DB          *mongo.Database
	UserUC      user.Usecase
	GinHandler  *ginhandler.UserHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	client, db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	repo := mongodb.NewUserRepoMongo(db, l)

	// The unique email index backs the duplicate-key branch of the error
	// classifier; without it concurrent registrations could slip through.
	idxCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Mongo.ConnectTimeoutSeconds)*time.Second)
	defer cancel()
	if err := repo.EnsureIndexes(idxCtx); err != nil {
		_ = infrastructure.CloseDatabase(client)
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	hasher := security.NewBcryptHasher(cfg.Security.BcryptCost)
	userUC := user.New(repo, hasher, l)
	ginHandler := ginhandler.NewUserHandler(userUC, l)

	return &Container{
		Config:      cfg,
		Logger:      l,
		MongoClient: client,
		DB:          db,
		UserUC:      userUC,
		GinHandler:  ginHandler,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.MongoClient == nil {
		return nil
	}
	if err := infrastructure.CloseDatabase(c.MongoClient); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
