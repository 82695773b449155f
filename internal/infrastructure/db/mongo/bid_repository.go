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

// BidRepository implements ports.BidRepository using MongoDB.
type BidRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewBidRepository(db *mongo.Database) *BidRepository {
	return &BidRepository{db: db, coll: db.Collection(collectionBids)}
}

type bidDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	TenderID     primitive.ObjectID `bson:"tender_id"`
	CompanyID    string             `bson:"company_id"`
	CompanyName  string             `bson:"company_name,omitempty"`
	AmountCents  int64              `bson:"amount_cents"`
	DocumentRef  string             `bson:"document_ref,omitempty"`
	DocumentName string             `bson:"document_name,omitempty"`
	SubmittedAt  time.Time          `bson:"submitted_at"`
	IsWinner     bool               `bson:"is_winner"`
}

func (d bidDoc) toDomain() *domain.Bid {
	return &domain.Bid{
		ID:           d.ID.Hex(),
		TenderID:     d.TenderID.Hex(),
		CompanyID:    d.CompanyID,
		CompanyName:  d.CompanyName,
		Amount:       domain.Amount(d.AmountCents),
		DocumentRef:  d.DocumentRef,
		DocumentName: d.DocumentName,
		SubmittedAt:  d.SubmittedAt,
		IsWinner:     d.IsWinner,
	}
}

func (r *BidRepository) Create(ctx context.Context, b *domain.Bid) (*domain.Bid, error) {
	tenderOID, err := primitive.ObjectIDFromHex(b.TenderID)
	if err != nil {
		return nil, domain.ErrTenderNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bidDoc{
		TenderID:     tenderOID,
		CompanyID:    b.CompanyID,
		CompanyName:  b.CompanyName,
		AmountCents:  int64(b.Amount),
		DocumentRef:  b.DocumentRef,
		DocumentName: b.DocumentName,
		SubmittedAt:  time.Now().UTC(),
		IsWinner:     false,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert bid: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *BidRepository) FindByID(ctx context.Context, id string) (*domain.Bid, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrBidNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc bidDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBidNotFound
		}
		return nil, fmt.Errorf("find bid: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *BidRepository) List(ctx context.Context, filter ports.ListBidsFilter) ([]*domain.Bid, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.TenderID != "" {
		oid, err := primitive.ObjectIDFromHex(filter.TenderID)
		if err != nil {
			return []*domain.Bid{}, nil
		}
		query["tender_id"] = oid
	}
	if filter.CompanyID != "" {
		query["company_id"] = filter.CompanyID
	}

	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: 1}})
	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list bids: %w", err)
	}
	defer cur.Close(ctx)

	bids := []*domain.Bid{}
	for cur.Next(ctx) {
		var doc bidDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode bid: %w", err)
		}
		bids = append(bids, doc.toDomain())
	}
	return bids, cur.Err()
}

func (r *BidRepository) Update(ctx context.Context, b *domain.Bid) error {
	oid, err := primitive.ObjectIDFromHex(b.ID)
	if err != nil {
		return domain.ErrBidNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"amount_cents": int64(b.Amount),
	}})
	if err != nil {
		return fmt.Errorf("update bid: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBidNotFound
	}
	return nil
}

func (r *BidRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrBidNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete bid: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrBidNotFound
	}
	return nil
}

// Award runs the award transaction: reset every winner flag under the bid's
// tender, flag the target bid, mark the tender awarded. Majority read/write
// concern keeps concurrent awards on the same tender serialized; the driver
// retries transient conflicts inside WithTransaction, and anything still
// conflicting when the transaction window closes surfaces as ErrConflict.
func (r *BidRepository) Award(ctx context.Context, bidID string) error {
	oid, err := primitive.ObjectIDFromHex(bidID)
	if err != nil {
		return domain.ErrBidNotFound
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
		var bid bidDoc
		if err := r.coll.FindOne(sc, bson.M{"_id": oid}).Decode(&bid); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, domain.ErrBidNotFound
			}
			return nil, err
		}

		if _, err := r.coll.UpdateMany(sc,
			bson.M{"tender_id": bid.TenderID},
			bson.M{"$set": bson.M{"is_winner": false}},
		); err != nil {
			return nil, err
		}

		if _, err := r.coll.UpdateByID(sc, oid, bson.M{"$set": bson.M{"is_winner": true}}); err != nil {
			return nil, err
		}

		res, err := r.db.Collection(collectionTenders).UpdateByID(sc, bid.TenderID,
			bson.M{"$set": bson.M{"status": string(domain.StatusAwarded)}})
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, domain.ErrTenderNotFound
		}
		return nil, nil
	}, txnOpts)
	if err != nil {
		if errors.Is(err, domain.ErrBidNotFound) || errors.Is(err, domain.ErrTenderNotFound) {
			return err
		}
		var cmdErr mongo.CommandError
		if errors.As(err, &cmdErr) && cmdErr.HasErrorLabel("TransientTransactionError") {
			return domain.ErrConflict
		}
		return fmt.Errorf("award bid: %w", err)
	}
	return nil
}

// EnsureIndexes creates the query indexes for bid listings and the award path.
func (r *BidRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "tender_id", Value: 1}}},
		{Keys: bson.D{{Key: "company_id", Value: 1}}},
		{Keys: bson.D{{Key: "submitted_at", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
