package memory

import (
	"github.com/risklens-dev/risklens/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	register *registerRepository
	snapshot *snapshotRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		register: newRegisterRepository(),
		snapshot: newSnapshotRepository(),
	}
}

func (m *Memory) Register() interfaces.RegisterRepository {
	return m.register
}

func (m *Memory) Snapshot() interfaces.SnapshotRepository {
	return m.snapshot
}

func (m *Memory) Close() error {
	return nil
}
