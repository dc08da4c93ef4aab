package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dibsly/dibs-api/internal/core/domain"
	"github.com/dibsly/dibs-api/internal/core/ports"
)

const collectionItems = "items"

// CatalogRepository persists catalog items in MongoDB. Prices are stored as
// Decimal128 so numeric sort in the database matches exact-decimal compare.
// The claim write is a filtered FindOneAndUpdate: even outside the
// coordinator's in-process lock, the database itself refuses a lost
// compare-and-set.
type CatalogRepository struct {
	col *mongo.Collection
}

func NewCatalogRepository(db *mongo.Database) *CatalogRepository {
	return &CatalogRepository{col: db.Collection(collectionItems)}
}

type claimDoc struct {
	Username string `bson:"username"`
	Email    string `bson:"email"`
}

type itemDoc struct {
	ID          int64                `bson:"_id"`
	Name        string               `bson:"name"`
	Description string               `bson:"description"`
	Price       primitive.Decimal128 `bson:"price"`
	Stock       int                  `bson:"stock"`
	Claim       *claimDoc            `bson:"claim,omitempty"`
}

func toItemDoc(item *domain.Item) (itemDoc, error) {
	price, err := primitive.ParseDecimal128(item.Price.String())
	if err != nil {
		return itemDoc{}, fmt.Errorf("encode price: %w", err)
	}
	doc := itemDoc{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       price,
		Stock:       item.Stock,
	}
	if item.Claim != nil {
		doc.Claim = &claimDoc{
			Username: item.Claim.Holder.Username,
			Email:    item.Claim.Holder.Email,
		}
	}
	return doc, nil
}

func fromItemDoc(doc itemDoc) (*domain.Item, error) {
	price, err := decimal.NewFromString(doc.Price.String())
	if err != nil {
		return nil, fmt.Errorf("decode price: %w", err)
	}
	item := &domain.Item{
		ID:          doc.ID,
		Name:        doc.Name,
		Description: doc.Description,
		Price:       price,
		Stock:       doc.Stock,
	}
	if doc.Claim != nil {
		item.Claim = &domain.Claim{
			Holder: domain.Identity{Username: doc.Claim.Username, Email: doc.Claim.Email},
		}
	}
	return item, nil
}

func (r *CatalogRepository) Insert(ctx context.Context, item *domain.Item) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toItemDoc(item)
	if err != nil {
		return err
	}
	_, err = r.col.InsertOne(ctx, doc)
	return err
}

func (r *CatalogRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *CatalogRepository) Get(ctx context.Context, itemID int64) (*domain.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc itemDoc
	err := r.col.FindOne(ctx, bson.M{"_id": itemID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return fromItemDoc(doc)
}

// List queries with a case-insensitive substring filter on name and sorts in
// the database, using _id ascending as the tie-break so equal keys keep
// catalog order.
func (r *CatalogRepository) List(ctx context.Context, filter ports.ListItemsFilter) ([]*domain.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Search != "" {
		query["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
	}

	sortDoc := bson.D{{Key: "_id", Value: 1}}
	if filter.SortBy != "" {
		dir := 1
		if filter.SortOrder == domain.SortDesc {
			dir = -1
		}
		sortDoc = bson.D{{Key: string(filter.SortBy), Value: dir}, {Key: "_id", Value: 1}}
	}

	cur, err := r.col.Find(ctx, query, options.Find().SetSort(sortDoc))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	items := make([]*domain.Item, 0)
	for cur.Next(ctx) {
		var doc itemDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		item, err := fromItemDoc(doc)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, cur.Err()
}

// SetClaim performs the guarded claim write. The filter pins the currently
// stored holder, so the update matches nothing when the expectation is stale.
func (r *CatalogRepository) SetClaim(ctx context.Context, itemID int64, expectedHolder string, claim *domain.Claim) (*domain.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{"_id": itemID}
	if expectedHolder == "" {
		query["claim"] = nil // matches both absent and null
	} else {
		query["claim.username"] = expectedHolder
	}

	var update bson.M
	if claim == nil {
		update = bson.M{"$unset": bson.M{"claim": ""}}
	} else {
		update = bson.M{"$set": bson.M{"claim": claimDoc{
			Username: claim.Holder.Username,
			Email:    claim.Holder.Email,
		}}}
	}

	var doc itemDoc
	err := r.col.FindOneAndUpdate(ctx, query, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return fromItemDoc(doc)
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	// No match: either the item is unknown or the holder moved underneath us.
	n, countErr := r.col.CountDocuments(ctx, bson.M{"_id": itemID})
	if countErr != nil {
		return nil, countErr
	}
	if n == 0 {
		return nil, domain.ErrItemNotFound
	}
	return nil, domain.ErrClaimConflict
}

func (r *CatalogRepository) ListClaimedBy(ctx context.Context, username string) ([]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"claim.username": username},
		options.Find().SetProjection(bson.M{"_id": 1}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []int64
	for cur.Next(ctx) {
		var doc struct {
			ID int64 `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.ID)
	}
	return ids, cur.Err()
}

// EnsureIndexes creates the indexes used by list and claim queries.
func (r *CatalogRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "claim.username", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
