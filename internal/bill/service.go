package bill

import (
	"context"
	"log/slog"
)

// Service handles the listing side: fetch the employee's bills from the
// store and shape them for display.
type Service struct {
	store  RemoteStore
	logger *slog.Logger
}

func NewService(store RemoteStore, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// ListBills returns the bills in display form, newest first. A store failure
// is passed through untouched: its error text ("Erreur 404", "Erreur 500")
// is exactly what the display surface shows.
func (s *Service) ListBills(ctx context.Context) ([]View, error) {
	bills, err := s.store.ListBills(ctx)
	if err != nil {
		s.logger.Error("failed to list bills", "error", err)
		return nil, err
	}

	views := make([]View, 0, len(bills))
	for _, b := range bills {
		views = append(views, b.ToView())
	}

	SortDescending(views)

	s.logger.Info("listed bills", "count", len(views))
	return views, nil
}
