package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/redis/go-redis/v9"

	"github.com/isaacgyampoh/recipe-saver/config"
	s3store "github.com/isaacgyampoh/recipe-saver/internal/adapters/s3"
	"github.com/isaacgyampoh/recipe-saver/internal/data"
	"github.com/isaacgyampoh/recipe-saver/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Recipes *service.RecipeService
	Uploads *service.UploadService
	Auth    *service.AuthService
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	DB         *sql.DB
	Redis      redis.UniversalClient
	RecipeRepo *data.RecipeRepo
	UserRepo   *data.UserRepo
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(db *sql.DB, redis redis.UniversalClient) *serviceRepositories {
	return &serviceRepositories{
		DB:         db,
		Redis:      redis,
		RecipeRepo: data.NewRecipeRepo(db),
		UserRepo:   data.NewUserRepo(db),
	}
}

// NewServices wires business services using repositories and adapters.
func NewServices(ctx context.Context, deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil {
		return ServiceContainer{}, fmt.Errorf("service deps are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := deps.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	repos := buildRepositories(deps.DB, deps.RedisClient)

	recipeService := service.NewRecipeService(service.RecipeServiceOptions{
		Recipes: repos.RecipeRepo,
	})

	objectStore, err := buildObjectStore(ctx, appCfg.Storage)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build object store: %w", err)
	}
	uploadService := service.NewUploadService(service.UploadServiceOptions{
		Store:    objectStore,
		MaxBytes: appCfg.Storage.MaxUploadBytes,
	})

	authService := BuildAuthService(AuthConfig{
		Auth:        appCfg.Auth,
		Users:       repos.UserRepo,
		RedisClient: deps.RedisClient,
		Logger:      logger,
	})

	return ServiceContainer{
		Recipes: recipeService,
		Uploads: uploadService,
		Auth:    authService,
	}, nil
}

// buildObjectStore creates the S3-backed image store from storage config.
func buildObjectStore(ctx context.Context, cfg config.StorageConfig) (*s3store.ObjectStore, error) {
	client, err := buildS3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return s3store.NewObjectStore(client, cfg)
}

func buildS3Client(ctx context.Context, cfg config.StorageConfig) (*awss3.Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	// Static credentials for MinIO and CI; fall back to the ambient chain otherwise
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}
