package projections

import (
	"context"
	"time"

	"lomba17/internal/domain/export"
)

// GetLegacyExportResult carries the CSV download.
type GetLegacyExportResult struct {
	Filename string
	Body     string
	Rows     int
}

// GetLegacyExportDeps holds dependencies for QueryLegacyExport.
type GetLegacyExportDeps struct {
	Legacy   LegacyReader
	Catalog  CatalogReader
	Location *time.Location
	Now      func() time.Time
}

// QueryLegacyExport renders the local participant list as CSV.
// POST: Body always starts with the header row
func QueryLegacyExport(ctx context.Context, deps GetLegacyExportDeps) GetLegacyExportResult {
	list := deps.Legacy.Load(ctx)
	now := deps.Now().In(deps.Location)
	return GetLegacyExportResult{
		Filename: export.Filename(now),
		Body:     export.CSV(list, deps.Catalog.Competitions(ctx), deps.Location),
		Rows:     len(list),
	}
}
