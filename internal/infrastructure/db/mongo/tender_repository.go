package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/opencity/tender-marketplace/internal/core/domain"
	"github.com/opencity/tender-marketplace/internal/core/ports"
)

// TenderRepository implements ports.TenderRepository using MongoDB.
type TenderRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewTenderRepository(db *mongo.Database) *TenderRepository {
	return &TenderRepository{db: db, coll: db.Collection(collectionTenders)}
}

type tenderDoc struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	Title              string             `bson:"title"`
	Description        string             `bson:"description"`
	BudgetCents        int64              `bson:"budget_cents"`
	SubmissionDeadline time.Time          `bson:"submission_deadline"`
	CreatedAt          time.Time          `bson:"created_at"`
	Status             string             `bson:"status"`
	CreatedBy          string             `bson:"created_by"`
}

func (d tenderDoc) toDomain() *domain.Tender {
	return &domain.Tender{
		ID:                 d.ID.Hex(),
		Title:              d.Title,
		Description:        d.Description,
		Budget:             domain.Amount(d.BudgetCents),
		SubmissionDeadline: d.SubmissionDeadline,
		CreatedAt:          d.CreatedAt,
		Status:             domain.TenderStatus(d.Status),
		CreatedBy:          d.CreatedBy,
	}
}

func (r *TenderRepository) Create(ctx context.Context, t *domain.Tender) (*domain.Tender, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := tenderDoc{
		Title:              t.Title,
		Description:        t.Description,
		BudgetCents:        int64(t.Budget),
		SubmissionDeadline: t.SubmissionDeadline,
		CreatedAt:          t.CreatedAt,
		Status:             string(t.Status),
		CreatedBy:          t.CreatedBy,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert tender: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *TenderRepository) FindByID(ctx context.Context, id string) (*domain.Tender, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTenderNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc tenderDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTenderNotFound
		}
		return nil, fmt.Errorf("find tender: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TenderRepository) List(ctx context.Context, filter ports.ListTendersFilter) ([]*domain.Tender, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.CreatedBy != "" {
		query["created_by"] = filter.CreatedBy
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list tenders: %w", err)
	}
	defer cur.Close(ctx)

	tenders := []*domain.Tender{}
	for cur.Next(ctx) {
		var doc tenderDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode tender: %w", err)
		}
		tenders = append(tenders, doc.toDomain())
	}
	return tenders, cur.Err()
}

func (r *TenderRepository) Update(ctx context.Context, t *domain.Tender) error {
	oid, err := primitive.ObjectIDFromHex(t.ID)
	if err != nil {
		return domain.ErrTenderNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"title":               t.Title,
		"description":         t.Description,
		"budget_cents":        int64(t.Budget),
		"submission_deadline": t.SubmissionDeadline,
		"status":              string(t.Status),
	}}

	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("update tender: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTenderNotFound
	}
	return nil
}

// Delete removes the tender and every bid referencing it inside one
// multi-document transaction, so no orphan bids survive a partial failure.
func (r *TenderRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrTenderNotFound
	}

	session, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Majority()).
		SetWriteConcern(writeconcern.Majority())

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.db.Collection(collectionBids).DeleteMany(sc, bson.M{"tender_id": oid}); err != nil {
			return nil, err
		}
		res, err := r.coll.DeleteOne(sc, bson.M{"_id": oid})
		if err != nil {
			return nil, err
		}
		if res.DeletedCount == 0 {
			return nil, domain.ErrTenderNotFound
		}
		return nil, nil
	}, txnOpts)
	if err != nil {
		if errors.Is(err, domain.ErrTenderNotFound) {
			return domain.ErrTenderNotFound
		}
		return fmt.Errorf("delete tender: %w", err)
	}
	return nil
}

// EnsureIndexes creates the query indexes for tender listings.
func (r *TenderRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_by", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
