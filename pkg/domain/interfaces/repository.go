package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Register() RegisterRepository
	Snapshot() SnapshotRepository

	// Close releases any resources held by the backend
	Close() error
}
