package drive

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/nhabuon/ToolTinhLai/internal/domain"
	"github.com/nhabuon/ToolTinhLai/internal/pipeline"
)

// Importer pulls the dated seller exports of a Drive folder and records
// their weekly totals.
type Importer struct {
	files         Files
	orchestrator  *pipeline.Orchestrator
	defaultFolder string
}

func NewImporter(files Files, orchestrator *pipeline.Orchestrator, defaultFolder string) *Importer {
	return &Importer{files: files, orchestrator: orchestrator, defaultFolder: defaultFolder}
}

// Import runs the folder through the pipeline. An empty folderID falls back
// to the configured folder.
func (i *Importer) Import(ctx context.Context, folderID string) ([]domain.ImportSummary, error) {
	if folderID == "" {
		folderID = i.defaultFolder
	}
	if folderID == "" {
		return nil, fmt.Errorf("no drive folder given and none configured")
	}

	summaries, err := i.orchestrator.Run(ctx, NewFolderSource(i.files, folderID))
	if err != nil {
		return nil, fmt.Errorf("drive import failed: %w", err)
	}

	log.Info().Str("folder_id", folderID).Int("weeks", len(summaries)).Msg("drive import finished")
	return summaries, nil
}
