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

type evaluatedRiskDocument struct {
	EventID         string  `firestore:"event_id"`
	SourceKind      string  `firestore:"source_kind"`
	AssetRef        string  `firestore:"asset_ref"`
	RawSeverity     float64 `firestore:"raw_severity"`
	Cause           string  `firestore:"cause"`
	ConsequenceHint string  `firestore:"consequence_hint,omitempty"`
	CVE             string  `firestore:"cve,omitempty"`
	Likelihood      string  `firestore:"likelihood"`
	Consequence     string  `firestore:"consequence"`
	NumericScore    float64 `firestore:"numeric_score"`
	Level           string  `firestore:"level"`
	PriorityRank    int     `firestore:"priority_rank"`
	ResidualScore   float64 `firestore:"residual_score"`
	Treatment       string  `firestore:"treatment"`
	Systemic        bool    `firestore:"systemic"`
}

type assetSummaryDocument struct {
	AssetRef        string  `firestore:"asset_ref"`
	CumulativeScore float64 `firestore:"cumulative_score"`
	RiskCount       int     `firestore:"risk_count"`
	HighestScore    float64 `firestore:"highest_score"`
}

type registerDocument struct {
	ID                  string                  `firestore:"id"`
	GeneratedAt         time.Time               `firestore:"generated_at"`
	Risks               []evaluatedRiskDocument `firestore:"risks"`
	CountByLevel        map[string]int          `firestore:"count_by_level"`
	MeanScore           float64                 `firestore:"mean_score"`
	MedianScore         float64                 `firestore:"median_score"`
	MaxScore            float64                 `firestore:"max_score"`
	MinScore            float64                 `firestore:"min_score"`
	StdDev              float64                 `firestore:"std_dev"`
	TotalExposure       float64                 `firestore:"total_exposure"`
	TopRiskIDs          []string                `firestore:"top_risk_ids"`
	AssetSummaries      []assetSummaryDocument  `firestore:"asset_summaries"`
	MostVulnerableAsset string                  `firestore:"most_vulnerable_asset,omitempty"`
	DroppedFindings     int                     `firestore:"dropped_findings"`
}

type registerRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newRegisterRepository(client *firestore.Client) *registerRepository {
	return &registerRepository{client: client}
}

func (r *registerRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_registers"
	}
	return "registers"
}

func riskToDocument(er *model.EvaluatedRisk) evaluatedRiskDocument {
	return evaluatedRiskDocument{
		EventID:         er.Event.ID.String(),
		SourceKind:      er.Event.SourceKind.String(),
		AssetRef:        er.Event.AssetRef,
		RawSeverity:     er.Event.RawSeverity,
		Cause:           er.Event.Cause,
		ConsequenceHint: er.Event.ConsequenceHint,
		CVE:             er.Event.CVE,
		Likelihood:      er.Likelihood.String(),
		Consequence:     er.Consequence.String(),
		NumericScore:    er.NumericScore,
		Level:           er.Level.String(),
		PriorityRank:    er.PriorityRank,
		ResidualScore:   er.ResidualScore,
		Treatment:       er.Treatment.String(),
		Systemic:        er.Systemic,
	}
}

func documentToRisk(doc *evaluatedRiskDocument) model.EvaluatedRisk {
	return model.EvaluatedRisk{
		Event: model.RiskEvent{
			ID:              model.EventID(doc.EventID),
			SourceKind:      types.SourceKind(doc.SourceKind),
			AssetRef:        doc.AssetRef,
			RawSeverity:     doc.RawSeverity,
			Cause:           doc.Cause,
			ConsequenceHint: doc.ConsequenceHint,
			CVE:             doc.CVE,
		},
		Likelihood:    types.Likelihood(doc.Likelihood),
		Consequence:   types.Consequence(doc.Consequence),
		NumericScore:  doc.NumericScore,
		Level:         types.RiskLevel(doc.Level),
		PriorityRank:  doc.PriorityRank,
		ResidualScore: doc.ResidualScore,
		Treatment:     types.Treatment(doc.Treatment),
		Systemic:      doc.Systemic,
	}
}

func registerToDocument(reg *model.RiskRegister) *registerDocument {
	doc := &registerDocument{
		ID:                  string(reg.ID),
		GeneratedAt:         reg.GeneratedAt,
		CountByLevel:        make(map[string]int, len(reg.Stats.CountByLevel)),
		MeanScore:           reg.Stats.MeanScore,
		MedianScore:         reg.Stats.MedianScore,
		MaxScore:            reg.Stats.MaxScore,
		MinScore:            reg.Stats.MinScore,
		StdDev:              reg.Stats.StdDev,
		TotalExposure:       reg.Stats.TotalExposure,
		MostVulnerableAsset: reg.MostVulnerableAsset,
		DroppedFindings:     reg.DroppedFindings,
	}
	for i := range reg.Risks {
		doc.Risks = append(doc.Risks, riskToDocument(&reg.Risks[i]))
	}
	for level, n := range reg.Stats.CountByLevel {
		doc.CountByLevel[level.String()] = n
	}
	for i := range reg.Stats.TopRisks {
		doc.TopRiskIDs = append(doc.TopRiskIDs, reg.Stats.TopRisks[i].Event.ID.String())
	}
	for _, s := range reg.AssetSummaries {
		doc.AssetSummaries = append(doc.AssetSummaries, assetSummaryDocument(s))
	}
	return doc
}

func documentToRegister(doc *registerDocument) *model.RiskRegister {
	reg := &model.RiskRegister{
		ID:          model.RegisterID(doc.ID),
		GeneratedAt: doc.GeneratedAt,
		Stats: model.RegisterStats{
			CountByLevel:  make(map[types.RiskLevel]int, len(doc.CountByLevel)),
			MeanScore:     doc.MeanScore,
			MedianScore:   doc.MedianScore,
			MaxScore:      doc.MaxScore,
			MinScore:      doc.MinScore,
			StdDev:        doc.StdDev,
			TotalExposure: doc.TotalExposure,
		},
		MostVulnerableAsset: doc.MostVulnerableAsset,
		DroppedFindings:     doc.DroppedFindings,
	}
	byID := make(map[string]model.EvaluatedRisk, len(doc.Risks))
	for i := range doc.Risks {
		er := documentToRisk(&doc.Risks[i])
		reg.Risks = append(reg.Risks, er)
		byID[doc.Risks[i].EventID] = er
	}
	for level, n := range doc.CountByLevel {
		reg.Stats.CountByLevel[types.RiskLevel(level)] = n
	}
	for _, id := range doc.TopRiskIDs {
		if er, ok := byID[id]; ok {
			reg.Stats.TopRisks = append(reg.Stats.TopRisks, er)
		}
	}
	for _, s := range doc.AssetSummaries {
		reg.AssetSummaries = append(reg.AssetSummaries, model.AssetSummary(s))
	}
	return reg
}

func (r *registerRepository) Save(ctx context.Context, reg *model.RiskRegister) error {
	docRef := r.client.Collection(r.collection()).Doc(string(reg.ID))

	// Create rejects overwrites: a register is saved once per run.
	if _, err := docRef.Create(ctx, registerToDocument(reg)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return goerr.Wrap(err, "register already exists", goerr.V("id", reg.ID))
		}
		return goerr.Wrap(err, "failed to save register", goerr.V("id", reg.ID))
	}
	return nil
}

func (r *registerRepository) Get(ctx context.Context, id model.RegisterID) (*model.RiskRegister, error) {
	snap, err := r.client.Collection(r.collection()).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(err, "register not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get register", goerr.V("id", id))
	}

	var doc registerDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode register document", goerr.V("id", id))
	}
	return documentToRegister(&doc), nil
}

func (r *registerRepository) GetLatest(ctx context.Context) (*model.RiskRegister, error) {
	iter := r.client.Collection(r.collection()).
		OrderBy("generated_at", firestore.Desc).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query latest register")
	}

	var doc registerDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode register document")
	}
	return documentToRegister(&doc), nil
}
