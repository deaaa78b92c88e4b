package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"sheetsight/internal/comparison"
	"sheetsight/internal/infrastructure"
	"sheetsight/pkg/contracts/domain"
)

const compareIDPrefix = "compare_"

// DefaultCompareLabels name the two uploads when the caller gives none
var DefaultCompareLabels = [2]string{"Period 1", "Period 2"}

// CompareOptions are the inputs of a two-file comparison
type CompareOptions struct {
	Labels         [2]string
	PrimaryKey     string
	CompareColumns []string
}

// ComparedFile describes one side of a comparison
type ComparedFile struct {
	Filename string
	Columns  []string
	RowCount int
}

// CompareResult is a stored comparison
type CompareResult struct {
	CompareID  string
	Comparison *domain.ComparisonResult
	Files      []ComparedFile
}

// RankOptions are the inputs of a multi-dataset ranking
type RankOptions struct {
	Labels         []string
	CompareColumns []string
}

// RankResult ranks several datasets against each other
type RankResult struct {
	Ranking *domain.MultiComparisonResult
	Files   []ComparedFile
}

// CompareService compares uploaded datasets
type CompareService struct {
	store   SessionStore
	metrics *infrastructure.BusinessMetrics
	keep    int
	logger  *slog.Logger
	now     func() time.Time
}

// NewCompareService creates a compare service storing at most keep sessions
func NewCompareService(store SessionStore, metrics *infrastructure.BusinessMetrics, keep int, logger *slog.Logger) *CompareService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = infrastructure.NoopBusinessMetrics()
	}
	return &CompareService{
		store:   store,
		metrics: metrics,
		keep:    keep,
		logger:  logger.With(slog.String("component", "compare_service")),
		now:     time.Now,
	}
}

// Compare parses both uploads concurrently as custom tables and compares
// them. Exactly two uploads are required.
func (s *CompareService) Compare(ctx context.Context, uploads []Upload, opts CompareOptions) (*CompareResult, error) {
	if len(uploads) != 2 {
		return nil, s.fail(ctx, ErrTwoFilesRequired.WithContext("files", len(uploads)))
	}

	tables, err := s.parseAll(ctx, uploads)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	labels := opts.Labels
	if labels[0] == "" {
		labels[0] = DefaultCompareLabels[0]
	}
	if labels[1] == "" {
		labels[1] = DefaultCompareLabels[1]
	}

	s.logger.InfoContext(ctx, "comparing datasets",
		slog.String("first", uploads[0].Filename),
		slog.String("second", uploads[1].Filename),
		slog.String("primary_key", opts.PrimaryKey))

	result := comparison.Compare(tables[0], tables[1], comparison.Options{
		PrimaryKey:     opts.PrimaryKey,
		CompareColumns: opts.CompareColumns,
		Labels:         labels,
	})

	files := comparedFiles(uploads, tables)
	names := make([]string, len(uploads))
	for i, u := range uploads {
		names[i] = u.Filename
	}

	session := &Session{
		ID:         compareIDPrefix + uuid.NewString(),
		Kind:       SessionComparison,
		Files:      names,
		CreatedAt:  s.now().UTC(),
		Comparison: result,
	}
	if err := s.store.Save(session, s.keep); err != nil {
		return nil, s.fail(ctx, fmt.Errorf("failed to store comparison: %w", err))
	}

	s.metrics.RecordComparison(ctx, "dataset")
	s.logger.InfoContext(ctx, "comparison completed",
		slog.String("compare_id", session.ID),
		slog.Int("columns", len(result.Columns)),
		slog.Int("details", len(result.Details)),
		slog.Int("insights", len(result.Insights)))

	return &CompareResult{
		CompareID:  session.ID,
		Comparison: result,
		Files:      files,
	}, nil
}

// Rank parses two or more uploads concurrently and ranks them by their
// column totals. Labels default to the filenames. Rankings are not stored.
func (s *CompareService) Rank(ctx context.Context, uploads []Upload, opts RankOptions) (*RankResult, error) {
	if len(uploads) < 2 {
		return nil, s.fail(ctx, ErrTooFewFiles.WithContext("files", len(uploads)))
	}

	tables, err := s.parseAll(ctx, uploads)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	labels := make([]string, len(uploads))
	for i, u := range uploads {
		labels[i] = u.Filename
		if i < len(opts.Labels) && opts.Labels[i] != "" {
			labels[i] = opts.Labels[i]
		}
	}

	result := comparison.CompareMultiple(tables, comparison.MultiOptions{
		Labels:         labels,
		CompareColumns: opts.CompareColumns,
	})

	s.metrics.RecordComparison(ctx, "ranking")
	s.logger.InfoContext(ctx, "ranking completed",
		slog.Int("datasets", len(tables)),
		slog.Int("columns", len(result.Summary)))

	return &RankResult{Ranking: result, Files: comparedFiles(uploads, tables)}, nil
}

// parseAll parses every upload as a custom table, one goroutine per file.
// The first failure cancels the rest.
func (s *CompareService) parseAll(ctx context.Context, uploads []Upload) ([]*domain.NormalizedTable, error) {
	tables := make([]*domain.NormalizedTable, len(uploads))
	g, gctx := errgroup.WithContext(ctx)
	for i, upload := range uploads {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			table, err := parseUpload(gctx, s.logger, upload, domain.ReportTypeCustom)
			if err != nil {
				return err
			}
			tables[i] = table
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

func comparedFiles(uploads []Upload, tables []*domain.NormalizedTable) []ComparedFile {
	files := make([]ComparedFile, len(uploads))
	for i, u := range uploads {
		files[i] = ComparedFile{
			Filename: u.Filename,
			Columns:  tables[i].Columns,
			RowCount: tables[i].RowCount,
		}
	}
	return files
}

func (s *CompareService) fail(ctx context.Context, err error) error {
	kind := errorKind(err)
	s.metrics.RecordError(ctx, kind)
	s.logger.WarnContext(ctx, "comparison failed",
		slog.String("error_type", kind),
		slog.String("error", err.Error()))
	return err
}
