package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/risklens-dev/risklens/pkg/domain/model"
	"github.com/risklens-dev/risklens/pkg/domain/types"
)

type registerRepository struct {
	mu        sync.RWMutex
	registers map[model.RegisterID]*model.RiskRegister
	order     []model.RegisterID
}

func newRegisterRepository() *registerRepository {
	return &registerRepository{
		registers: make(map[model.RegisterID]*model.RiskRegister),
	}
}

func copyRegister(reg *model.RiskRegister) *model.RiskRegister {
	copied := &model.RiskRegister{
		ID:                  reg.ID,
		GeneratedAt:         reg.GeneratedAt,
		MostVulnerableAsset: reg.MostVulnerableAsset,
		DroppedFindings:     reg.DroppedFindings,
	}
	copied.Risks = append([]model.EvaluatedRisk(nil), reg.Risks...)
	copied.AssetSummaries = append([]model.AssetSummary(nil), reg.AssetSummaries...)

	copied.Stats = reg.Stats
	copied.Stats.TopRisks = append([]model.EvaluatedRisk(nil), reg.Stats.TopRisks...)
	if reg.Stats.CountByLevel != nil {
		copied.Stats.CountByLevel = make(map[types.RiskLevel]int, len(reg.Stats.CountByLevel))
		for level, n := range reg.Stats.CountByLevel {
			copied.Stats.CountByLevel[level] = n
		}
	}
	return copied
}

func (r *registerRepository) Save(ctx context.Context, reg *model.RiskRegister) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.registers[reg.ID]; exists {
		return goerr.New("register already exists", goerr.V("id", reg.ID))
	}

	r.registers[reg.ID] = copyRegister(reg)
	r.order = append(r.order, reg.ID)
	return nil
}

func (r *registerRepository) Get(ctx context.Context, id model.RegisterID) (*model.RiskRegister, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, exists := r.registers[id]
	if !exists {
		return nil, goerr.New("register not found", goerr.V("id", id))
	}
	return copyRegister(reg), nil
}

func (r *registerRepository) GetLatest(ctx context.Context) (*model.RiskRegister, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.order) == 0 {
		return nil, nil
	}
	return copyRegister(r.registers[r.order[len(r.order)-1]]), nil
}
