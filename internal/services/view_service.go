package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"movie-ratings/internal/views"
	"movie-ratings/pkg/logging"
	"movie-ratings/pkg/metrics"
)

// ViewService renders views over the current dataset.
type ViewService struct {
	datasets DatasetProvider
	logger   *logging.StructuredLogger
	metrics  *metrics.Collector
}

// NewViewService creates a new view service
func NewViewService(datasets DatasetProvider, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *ViewService {
	return &ViewService{
		datasets: datasets,
		logger:   logger,
		metrics:  metricsCollector,
	}
}

// List returns the view catalog.
func (s *ViewService) List() []views.Descriptor {
	return views.Catalog()
}

// Render computes one view. The name may be a view id or its title.
func (s *ViewService) Render(ctx context.Context, name string) (*views.Result, error) {
	id, err := views.Resolve(name)
	if err != nil {
		s.metrics.RecordViewRender("unknown", "error")
		s.logger.Warn(ctx, "[VIEW_UNKNOWN] Unknown view requested", logging.Fields{
			"view": name,
		})
		return nil, err
	}

	ds, err := s.datasets.Current()
	if err != nil {
		return nil, err
	}

	ctx = logging.WithView(ctx, string(id))
	timer := s.metrics.NewTimer(s.metrics.ViewRenderDuration.WithLabelValues(string(id)))

	res, err := views.Dispatch(ds, string(id))
	duration := timer.ObserveDuration()
	if err != nil {
		s.metrics.RecordViewRender(string(id), "error")
		s.logger.Error(ctx, "[VIEW_ERROR] View computation failed", logging.Fields{
			"duration_ms": duration.Milliseconds(),
		}, err)
		return nil, err
	}

	outcome := "ok"
	if res.Empty {
		outcome = "empty"
	}
	s.metrics.RecordViewRender(string(id), outcome)

	s.logger.Debug(ctx, "[VIEW_RENDERED] View computed", logging.Fields{
		"kind":        res.Kind,
		"empty":       res.Empty,
		"duration_ms": duration.Milliseconds(),
	})

	return res, nil
}

// RenderAll computes every view concurrently and returns the results in
// catalog order. The first failure cancels the remaining renders.
func (s *ViewService) RenderAll(ctx context.Context) ([]*views.Result, error) {
	catalog := views.Catalog()
	results := make([]*views.Result, len(catalog))

	g, gctx := errgroup.WithContext(ctx)
	for i, d := range catalog {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.Render(gctx, string(d.ID))
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
