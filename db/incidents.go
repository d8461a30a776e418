package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go-safetyboard/dates"
	"go-safetyboard/normalize"
	"go-safetyboard/types"
)

// DefaultCollection is used when no collection name is configured.
const DefaultCollection = "incidents"

var ErrIncidentNotFound = errors.New("incident not found")

// IncidentStore reads and writes incident documents in one Firestore collection.
type IncidentStore struct {
	client     *firestore.Client
	collection string
}

func NewIncidentStore(client *firestore.Client, collection string) *IncidentStore {
	if collection == "" {
		collection = DefaultCollection
	}
	return &IncidentStore{client: client, collection: collection}
}

// Collection returns the name of the backing collection.
func (s *IncidentStore) Collection() string {
	return s.collection
}

// GetAllIncidents retrieves every document of the collection, newest first.
func (s *IncidentStore) GetAllIncidents(ctx context.Context) ([]types.Incident, error) {
	var incidents []types.Incident

	iter := s.client.Collection(s.collection).Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating %s collection: %w", s.collection, err)
		}
		incidents = append(incidents, normalize.FromDocument(doc.Ref.ID, doc.Data()))
	}

	SortNewestFirst(incidents)
	log.Printf("Fetched %d incidents from collection '%s'", len(incidents), s.collection)
	return incidents, nil
}

// GetIncident retrieves a single incident by document ID.
func (s *IncidentStore) GetIncident(ctx context.Context, id string) (types.Incident, error) {
	doc, err := s.client.Collection(s.collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return types.Incident{}, fmt.Errorf("%w: %s", ErrIncidentNotFound, id)
		}
		return types.Incident{}, fmt.Errorf("error getting incident %s: %w", id, err)
	}
	return normalize.FromDocument(doc.Ref.ID, doc.Data()), nil
}

// SaveIncidents writes incidents with the BulkWriter, keyed by incident ID.
// It returns the number of documents written.
func (s *IncidentStore) SaveIncidents(ctx context.Context, incidents []types.Incident) (int, error) {
	if len(incidents) == 0 {
		log.Println("No incidents to save.")
		return 0, nil
	}

	bw := s.client.BulkWriter(ctx)
	ref := s.client.Collection(s.collection)

	log.Printf("Preparing to save %d incidents using BulkWriter to collection '%s'...", len(incidents), s.collection)

	jobs := make([]*firestore.BulkWriterJob, 0, len(incidents))
	for _, inc := range incidents {
		if inc.ID == "" {
			log.Printf("Warning: Skipping incident with empty ID: %q", inc.Name)
			continue
		}
		job, err := bw.Set(ref.Doc(inc.ID), ToDocument(inc))
		if err != nil {
			log.Printf("Error enqueueing incident %s for save: %v", inc.ID, err)
			continue
		}
		jobs = append(jobs, job)
	}

	// End flushes the remaining writes and closes the writer.
	bw.End()

	saved := 0
	var errs []error
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			errs = append(errs, err)
			continue
		}
		saved++
	}
	log.Printf("BulkWriter finished. Saved %d of %d incidents.", saved, len(incidents))

	if len(errs) > 0 {
		return saved, fmt.Errorf("save incidents: %d writes failed: %w", len(errs), errors.Join(errs...))
	}
	return saved, nil
}

// ToDocument converts an incident to the stored document shape. The date keeps
// its original number or string form.
func ToDocument(inc types.Incident) map[string]any {
	var dateTime any = inc.DateTime.Text
	if inc.DateTime.IsSerial {
		dateTime = inc.DateTime.Serial
	}

	return map[string]any{
		"id":                   inc.ID,
		"name":                 inc.Name,
		"dateTime":             dateTime,
		"projectOwner":         inc.ProjectOwner,
		"projectType":          inc.ProjectType,
		"projectCost":          inc.ProjectCost,
		"constructionTypeMain": inc.ConstructionTypeMain,
		"constructionTypeSub":  inc.ConstructionTypeSub,
		"workType":             inc.WorkType,
		"objectMain":           inc.ObjectMain,
		"objectSub":            inc.ObjectSub,
		"causeMain":            inc.CauseMain,
		"causeMiddle":          inc.CauseMiddle,
		"causeSub":             inc.CauseSub,
		"causeDetail":          inc.CauseDetail,
		"resultMain":           inc.ResultMain,
		"resultDetail":         inc.ResultDetail,
		"fatalities":           inc.Fatalities,
		"injuries":             inc.Injuries,
		"costDamage":           inc.CostDamage,
		"riskIndex":            inc.RiskIndex,
	}
}

// SortNewestFirst orders incidents by resolved date, newest first. Undated
// incidents go last; equal dates keep their order.
func SortNewestFirst(incidents []types.Incident) {
	type keyed struct {
		inc   types.Incident
		unix  int64
		dated bool
	}
	ks := make([]keyed, len(incidents))
	for i, inc := range incidents {
		t, ok := dates.Resolve(inc.DateTime)
		ks[i] = keyed{inc: inc, unix: t.Unix(), dated: ok}
	}

	slices.SortStableFunc(ks, func(a, b keyed) int {
		switch {
		case a.dated && !b.dated:
			return -1
		case !a.dated && b.dated:
			return 1
		case a.unix > b.unix:
			return -1
		case a.unix < b.unix:
			return 1
		}
		return 0
	})

	for i := range ks {
		incidents[i] = ks[i].inc
	}
}
