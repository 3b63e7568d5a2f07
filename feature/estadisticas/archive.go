package estadisticas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"pjstats/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// snapshotArchive persists the raw cell values of every fetched sheet so a
// parsing regression can be replayed against the exact input. Archive
// failures only warn; they never count against the sync run.
type snapshotArchive struct {
	client storage.Client
	bucket string
	logger *zap.Logger
}

func newSnapshotArchive(client storage.Client, bucket string, logger *zap.Logger) *snapshotArchive {
	return &snapshotArchive{client: client, bucket: bucket, logger: logger}
}

// Store uploads one sheet's raw rows under snapshots/<runID>/<sheet>.json.
func (a *snapshotArchive) Store(ctx context.Context, runID, sheetTitle string, rows [][]any) {
	if a == nil || a.client == nil {
		return
	}

	payload, err := json.Marshal(rows)
	if err != nil {
		a.logger.Warn("Failed to encode snapshot", zap.String("sheet", sheetTitle), zap.Error(err))
		return
	}

	objName := fmt.Sprintf("snapshots/%s/%s.json", runID, sanitizeObjectName(sheetTitle))
	_, err = a.client.PutObject(ctx, a.bucket, objName,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		a.logger.Warn("Failed to archive snapshot",
			zap.String("object", objName), zap.Error(err))
		return
	}

	a.logger.Debug("Archived sheet snapshot",
		zap.String("object", objName), zap.Int("bytes", len(payload)))
}

// sanitizeObjectName keeps object keys flat and path-safe.
func sanitizeObjectName(name string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", " ", "_", "'", "")
	return replacer.Replace(name)
}
