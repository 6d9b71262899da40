package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// AdminStats backs the platform admin landing page.
type AdminStats struct {
	Companies int64
	Users     int64
}

// CompanyStats backs the company admin landing page.
type CompanyStats struct {
	Staff   int64
	Modules int64
}

// LearnStats backs the staff landing page.
type LearnStats struct {
	Assigned  int64
	Completed int64
}

// Service aggregates landing-page statistics.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// AdminStats fetches platform-wide counts in parallel.
func (s *Service) AdminStats(ctx context.Context) (AdminStats, error) {
	var stats AdminStats
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.Companies, err = s.repo.CountCompanies(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Users, err = s.repo.CountUsers(ctx)
		return err
	})
	return stats, g.Wait()
}

// CompanyStats fetches tenant-scoped counts in parallel.
func (s *Service) CompanyStats(ctx context.Context, companyID string) (CompanyStats, error) {
	var stats CompanyStats
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.Staff, err = s.repo.CountStaff(ctx, companyID)
		return err
	})
	g.Go(func() (err error) {
		stats.Modules, err = s.repo.CountModules(ctx, companyID)
		return err
	})
	return stats, g.Wait()
}

// LearnStats fetches the caller's assignment counts in parallel.
func (s *Service) LearnStats(ctx context.Context, userID int64) (LearnStats, error) {
	var stats LearnStats
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.Assigned, err = s.repo.CountAssigned(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		stats.Completed, err = s.repo.CountCompleted(ctx, userID)
		return err
	})
	return stats, g.Wait()
}
