package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/refdata-io/valueset-backend/internal/config"
	"github.com/refdata-io/valueset-backend/internal/platform/logger"
	"github.com/refdata-io/valueset-backend/internal/types"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(cfg config.PostgresConfig, log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	serviceLog.Info("connecting to postgres", "host", cfg.Host, "database", cfg.Name)
	// TranslateError turns driver unique-violation errors into
	// gorm.ErrDuplicatedKey, which the repo layer maps to duplicate_key.
	gdb, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		serviceLog.Error("failed to connect to postgres", "error", err)
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		serviceLog.Error("failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) DB() *gorm.DB { return s.db }

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("auto migrating postgres tables")
	if err := s.db.AutoMigrate(&types.ValueSet{}); err != nil {
		s.log.Error("auto migration failed", "error", err)
		return err
	}
	return nil
}
