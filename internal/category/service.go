package category

import "log/slog"

type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

func (s *Service) GetAllCategories() []Category {
	return ExpenseTypes
}

// IsValidCategory reports whether the name is one of the fixed expense
// types. The form only offers valid choices, so this exists for callers that
// bypass the form.
func (s *Service) IsValidCategory(name string) bool {
	for _, c := range ExpenseTypes {
		if c.Name == name {
			return true
		}
	}
	return false
}
