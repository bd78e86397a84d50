package loader

import (
	"context"
	"fmt"
	"strings"

	"github.com/AnasB0/Resto-Pro/internal/config"
	"github.com/AnasB0/Resto-Pro/internal/domain"
	"github.com/AnasB0/Resto-Pro/internal/drive"
	"github.com/AnasB0/Resto-Pro/internal/repository/postgres"
	"github.com/AnasB0/Resto-Pro/internal/storage"
)

// TablesReader is satisfied by repositories that load all input tables at once.
type TablesReader interface {
	LoadTables(ctx context.Context) (domain.Tables, error)
}

// RepositorySource adapts a TablesReader to Source.
type RepositorySource struct {
	repo TablesReader
}

func NewRepositorySource(repo TablesReader) *RepositorySource {
	return &RepositorySource{repo: repo}
}

func (s *RepositorySource) Load(ctx context.Context) (domain.Tables, error) {
	tables, err := s.repo.LoadTables(ctx)
	if err != nil {
		return domain.Tables{}, fmt.Errorf("load tables from database: %w", err)
	}
	return tables, nil
}

// StaticSource serves a fixed set of tables. Each Load returns a copy.
type StaticSource struct {
	tables domain.Tables
}

func NewStaticSource(tables domain.Tables) *StaticSource {
	return &StaticSource{tables: tables}
}

func (s *StaticSource) Load(ctx context.Context) (domain.Tables, error) {
	if err := ctx.Err(); err != nil {
		return domain.Tables{}, err
	}
	return domain.Tables{
		Reviews:   append([]domain.Review(nil), s.tables.Reviews...),
		HasText:   s.tables.HasText,
		Sales:     append([]domain.SaleRecord(nil), s.tables.Sales...),
		Inventory: append([]domain.InventoryItem(nil), s.tables.Inventory...),
	}, nil
}

// NewSource builds the Source selected by kind. An empty kind means local.
// The returned close function releases any connection the source holds.
func NewSource(ctx context.Context, kind string, cfg *config.Config) (Source, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", SourceLocal:
		return NewDirSource(cfg.App.DataDir), noop, nil

	case SourceS3:
		client, err := storage.New(cfg.ObjectStorage)
		if err != nil {
			return nil, nil, err
		}
		return NewObjectStoreSource(client, cfg.ObjectStorage.Prefix), noop, nil

	case SourceDrive:
		if cfg.Drive.CredentialsJSON == "" {
			return nil, nil, fmt.Errorf("drive source requires GOOGLE_DRIVE_CREDENTIALS_JSON")
		}
		svc, err := drive.NewService(ctx, cfg.Drive.CredentialsJSON)
		if err != nil {
			return nil, nil, err
		}
		return NewDriveSource(drive.NewDownloader(svc), cfg.Drive.FolderID, cfg.Drive.DownloadDir), noop, nil

	case SourcePostgres:
		db, err := postgres.NewDB(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return NewRepositorySource(postgres.NewTablesRepository(db)), db.Close, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownSource, kind)
	}
}
