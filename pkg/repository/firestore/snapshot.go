package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/risklens-dev/risklens/pkg/domain/model"
	"github.com/risklens-dev/risklens/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type severeRiskDocument struct {
	EventID string `firestore:"event_id"`
	Level   string `firestore:"level"`
}

type snapshotDocument struct {
	ID              string               `firestore:"id"`
	RegisterID      string               `firestore:"register_id"`
	Timestamp       time.Time            `firestore:"timestamp"`
	TotalRisks      int                  `firestore:"total_risks"`
	MeanScore       float64              `firestore:"mean_score"`
	MedianScore     float64              `firestore:"median_score"`
	CountByLevel    map[string]int       `firestore:"count_by_level"`
	OpenSevereRisks []severeRiskDocument `firestore:"open_severe_risks"`
}

type snapshotRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newSnapshotRepository(client *firestore.Client) *snapshotRepository {
	return &snapshotRepository{client: client}
}

func (r *snapshotRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_snapshots"
	}
	return "snapshots"
}

func snapshotToDocument(snap *model.ForecastSnapshot) *snapshotDocument {
	doc := &snapshotDocument{
		ID:           string(snap.ID),
		RegisterID:   string(snap.RegisterID),
		Timestamp:    snap.Timestamp,
		TotalRisks:   snap.TotalRisks,
		MeanScore:    snap.MeanScore,
		MedianScore:  snap.MedianScore,
		CountByLevel: make(map[string]int, len(snap.CountByLevel)),
	}
	for level, n := range snap.CountByLevel {
		doc.CountByLevel[level.String()] = n
	}
	for _, sr := range snap.OpenSevereRisks {
		doc.OpenSevereRisks = append(doc.OpenSevereRisks, severeRiskDocument{
			EventID: sr.EventID.String(),
			Level:   sr.Level.String(),
		})
	}
	return doc
}

func documentToSnapshot(doc *snapshotDocument) *model.ForecastSnapshot {
	snap := &model.ForecastSnapshot{
		ID:           model.SnapshotID(doc.ID),
		RegisterID:   model.RegisterID(doc.RegisterID),
		Timestamp:    doc.Timestamp,
		TotalRisks:   doc.TotalRisks,
		MeanScore:    doc.MeanScore,
		MedianScore:  doc.MedianScore,
		CountByLevel: make(map[types.RiskLevel]int, len(doc.CountByLevel)),
	}
	for level, n := range doc.CountByLevel {
		snap.CountByLevel[types.RiskLevel(level)] = n
	}
	for _, sr := range doc.OpenSevereRisks {
		snap.OpenSevereRisks = append(snap.OpenSevereRisks, model.SevereRisk{
			EventID: model.EventID(sr.EventID),
			Level:   types.RiskLevel(sr.Level),
		})
	}
	return snap
}

func (r *snapshotRepository) Append(ctx context.Context, snap *model.ForecastSnapshot) error {
	docRef := r.client.Collection(r.collection()).Doc(string(snap.ID))

	// Create enforces append-only history: an existing snapshot is never
	// overwritten.
	if _, err := docRef.Create(ctx, snapshotToDocument(snap)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return goerr.Wrap(err, "snapshot already exists", goerr.V("id", snap.ID))
		}
		return goerr.Wrap(err, "failed to append snapshot", goerr.V("id", snap.ID))
	}
	return nil
}

func (r *snapshotRepository) List(ctx context.Context) ([]*model.ForecastSnapshot, error) {
	iter := r.client.Collection(r.collection()).
		OrderBy("timestamp", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var result []*model.ForecastSnapshot
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list snapshots")
		}

		var doc snapshotDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode snapshot document")
		}
		result = append(result, documentToSnapshot(&doc))
	}

	return result, nil
}
