package parquet

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
	"go.uber.org/zap"

	"github.com/track-synthesizer/internal/domain"
	"github.com/track-synthesizer/internal/domain/repository"
	apperrors "github.com/track-synthesizer/internal/pkg/errors"
)

const writerParallelism = 4

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

type exporter struct {
	dir    string
	logger *zap.Logger
}

// NewExporter создает выгрузку сценариев в Parquet. Файлы пишутся в dir/<key>/.
func NewExporter(dir string, logger *zap.Logger) repository.DatasetExporter {
	return &exporter{
		dir:    dir,
		logger: logger,
	}
}

// Export пишет track_points, segments и efforts в отдельные файлы
func (e *exporter) Export(ctx context.Context, key string, sc *domain.Scenario) ([]string, error) {
	outDir := filepath.Join(e.dir, unsafeKeyChars.ReplaceAllString(key, "_"))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, apperrors.ErrExportError.Wrap(err)
	}

	tables := []struct {
		name string
		obj  interface{}
		rows []interface{}
	}{
		{"track_points", new(trackPointRow), trackPointRows(sc.Activities)},
		{"segments", new(segmentRow), segmentRows(sc.Segments)},
		{"efforts", new(effortRow), effortRows(sc.Efforts)},
	}

	paths := make([]string, 0, len(tables))
	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return paths, err
		}

		data, err := marshalRows(t.obj, t.rows)
		if err != nil {
			e.logger.Error("Failed to encode parquet table",
				zap.String("table", t.name),
				zap.Error(err))
			return paths, apperrors.ErrExportError.Wrap(fmt.Errorf("%s: %w", t.name, err))
		}

		path := filepath.Join(outDir, t.name+".parquet")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, apperrors.ErrExportError.Wrap(err)
		}
		paths = append(paths, path)

		e.logger.Debug("Parquet table written",
			zap.String("path", path),
			zap.Int("rows", len(t.rows)),
			zap.Int("bytes", len(data)))
	}

	e.logger.Info("Scenario exported", zap.String("key", key), zap.Strings("files", paths))
	return paths, nil
}

func marshalRows(obj interface{}, rows []interface{}) ([]byte, error) {
	fw := parquetbuffer.NewBufferFile()
	pw, err := writer.NewParquetWriter(fw, obj, writerParallelism)
	if err != nil {
		return nil, err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, row := range rows {
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			return nil, err
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return append([]byte(nil), fw.Bytes()...), nil
}
