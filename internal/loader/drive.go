package loader

import (
	"context"
	"fmt"
	"os"

	"github.com/AnasB0/Resto-Pro/internal/domain"
	"github.com/AnasB0/Resto-Pro/internal/drive"
)

// DriveSource pulls the table files of a Google Drive folder into a fresh
// directory on every load.
type DriveSource struct {
	downloader *drive.Downloader
	folderID   string
	baseDir    string
}

func NewDriveSource(downloader *drive.Downloader, folderID, baseDir string) *DriveSource {
	return &DriveSource{downloader: downloader, folderID: folderID, baseDir: baseDir}
}

func (s *DriveSource) Load(ctx context.Context) (domain.Tables, error) {
	if s.baseDir != "" {
		if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
			return domain.Tables{}, fmt.Errorf("failed to create drive download dir: %w", err)
		}
	}

	dir, err := os.MkdirTemp(s.baseDir, "restopro-drive-")
	if err != nil {
		return domain.Tables{}, fmt.Errorf("failed to create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	if _, err := s.downloader.DownloadFolder(ctx, drive.DownloadOptions{
		FolderID:    s.folderID,
		DownloadDir: dir,
		Match:       isTableFile,
	}); err != nil {
		return domain.Tables{}, fmt.Errorf("download drive folder %s: %w", s.folderID, err)
	}

	return NewDirSource(dir).Load(ctx)
}
