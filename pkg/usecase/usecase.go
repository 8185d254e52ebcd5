package usecase

import (
	"github.com/risklens-dev/risklens/pkg/domain/interfaces"
	"github.com/risklens-dev/risklens/pkg/domain/model/criteria"
	"github.com/risklens-dev/risklens/pkg/service/notify"
)

type UseCases struct {
	repo     interfaces.Repository
	criteria *criteria.RiskCriteria
	notifier notify.Service

	Assess   *AssessUseCase
	Forecast *ForecastUseCase
}

type Option func(*UseCases)

func WithNotifier(svc notify.Service) Option {
	return func(uc *UseCases) {
		uc.notifier = svc
	}
}

// New builds the use case set. Criteria default to the built-in policy when
// the caller supplies nil.
func New(repo interfaces.Repository, crit *criteria.RiskCriteria, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:     repo,
		criteria: crit,
	}
	if uc.criteria == nil {
		uc.criteria = criteria.Default()
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Assess = NewAssessUseCase(repo, uc.criteria, uc.notifier)
	uc.Forecast = NewForecastUseCase(repo, uc.criteria)

	return uc
}

// Repo exposes the underlying repository for read-only consumers
func (uc *UseCases) Repo() interfaces.Repository {
	return uc.repo
}
