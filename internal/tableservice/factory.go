package tableservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/sirupsen/logrus"

	"table-ops-api/internal/database"
)

// BackendType represents the storage backend behind the resolver
type BackendType string

const (
	BackendDynamoDB BackendType = "dynamodb"
	BackendSQLite   BackendType = "sqlite"
	BackendMemory   BackendType = "memory"
)

// BackendConfig represents configuration for table service backends
type BackendConfig struct {
	Type         string   // "dynamodb", "sqlite" or "memory"
	Region       string   // DynamoDB region
	Endpoint     string   // optional endpoint override (DynamoDB Local)
	AccessKey    string   // static credentials, local endpoints only
	SecretKey    string   //
	SQLitePath   string   // database file for the sqlite backend
	KeyAttrs     []string // key attributes for sqlite/memory backends
	RunMigration bool     // apply sqlite migrations on startup
}

// Factory creates Resolver instances based on configuration
type Factory struct {
	logger *logrus.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *logrus.Logger) *Factory {
	if logger == nil {
		logger = logrus.New()
	}
	return &Factory{logger: logger}
}

// Create creates a Resolver based on the provided configuration
func (f *Factory) Create(ctx context.Context, config *BackendConfig) (Resolver, error) {
	if config == nil {
		return nil, fmt.Errorf("backend config is required")
	}

	switch BackendType(strings.ToLower(config.Type)) {
	case BackendDynamoDB:
		return f.createDynamoResolver(ctx, config)
	case BackendSQLite:
		return f.createSQLiteResolver(ctx, config)
	case BackendMemory:
		return NewMemoryResolver(config.KeyAttrs...), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, config.Type)
	}
}

// createDynamoResolver builds the shared DynamoDB client. Static
// credentials and the endpoint override are only meant for DynamoDB
// Local; in a deployed function the default chain applies.
func (f *Factory) createDynamoResolver(ctx context.Context, config *BackendConfig) (Resolver, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if config.Region != "" {
		opts = append(opts, awsconfig.WithRegion(config.Region))
	}
	if config.AccessKey != "" && config.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.AccessKey, config.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := ddb.NewFromConfig(awsCfg, func(o *ddb.Options) {
		if config.Endpoint != "" {
			o.BaseEndpoint = aws.String(config.Endpoint)
		}
	})

	return NewDynamoResolver(client, f.logger), nil
}

func (f *Factory) createSQLiteResolver(ctx context.Context, config *BackendConfig) (Resolver, error) {
	path := config.SQLitePath
	if path == "" {
		path = "./data/tables.db"
	}

	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if config.RunMigration {
		if err := database.RunMigrations(db, f.logger); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return NewSQLiteResolver(db, config.KeyAttrs, f.logger), nil
}

// CreateFromConfig is a convenience function to create a resolver from config
func CreateFromConfig(ctx context.Context, config *BackendConfig) (Resolver, error) {
	return NewFactory(nil).Create(ctx, config)
}
