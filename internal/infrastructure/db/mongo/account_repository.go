package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cafeteria/portal-system/internal/core/domain"
	"github.com/cafeteria/portal-system/internal/core/ports"
)

const countersCollection = "counters"

var _ ports.AccountBackend = (*Backend)(nil)

// Backend hands out one AccountRepository per account collection.
type Backend struct {
	db       *mongo.Database
	counters *mongo.Collection
}

// NewBackend creates the unique UserName index on every account collection.
func NewBackend(ctx context.Context, db *mongo.Database) (*Backend, error) {
	for _, name := range domain.Collections {
		_, err := db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "UserName", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_username"),
		})
		if err != nil {
			return nil, fmt.Errorf("create index on %s: %w", name, err)
		}
	}
	return &Backend{db: db, counters: db.Collection(countersCollection)}, nil
}

func (b *Backend) Repository(collection string) (ports.AccountRepository, error) {
	if !domain.IsCollection(collection) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCollection, collection)
	}
	return &AccountRepository{
		name:     collection,
		coll:     b.db.Collection(collection),
		counters: b.counters,
	}, nil
}

// AccountRepository stores one account collection. Documents keep the
// relational column names so both backends share a layout.
type AccountRepository struct {
	name     string
	coll     *mongo.Collection
	counters *mongo.Collection
}

type mongoAccount struct {
	ID          int64  `bson:"Id"`
	Name        string `bson:"Name"`
	PhoneNumber string `bson:"Phone_Number"`
	UserName    string `bson:"UserName"`
	Password    string `bson:"Password"`
}

func toDocument(acc domain.Account) mongoAccount {
	return mongoAccount{
		ID:          acc.ID,
		Name:        acc.Name,
		PhoneNumber: acc.PhoneNumber,
		UserName:    acc.UserName,
		Password:    acc.Password,
	}
}

func (m mongoAccount) toDomain() domain.Account {
	return domain.Account{
		ID:          m.ID,
		Name:        m.Name,
		PhoneNumber: m.PhoneNumber,
		UserName:    m.UserName,
		Password:    m.Password,
	}
}

// The counters document of a collection holds the id sequence (seq) and
// the number of rows inserted or being inserted (rows). Every write that adds
// or removes a row goes through it, so emptiness can be claimed atomically.
type counter struct {
	Seq  int64 `bson:"seq"`
	Rows int64 `bson:"rows"`
}

// reserve draws the next id and counts the row before it is written.
func (r *AccountRepository) reserve(ctx context.Context) (int64, error) {
	var c counter
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": r.name},
		bson.M{"$inc": bson.M{"seq": int64(1), "rows": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&c)
	if err != nil {
		return 0, fmt.Errorf("next id for %s: %w", r.name, err)
	}
	return c.Seq, nil
}

// claimEmpty reserves an id only while no row exists or is being written.
// ok is false when the collection is, or is about to be, populated.
func (r *AccountRepository) claimEmpty(ctx context.Context) (id int64, ok bool, err error) {
	var c counter
	err = r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": r.name, "$or": bson.A{
			bson.M{"rows": bson.M{"$lte": 0}},
			bson.M{"rows": bson.M{"$exists": false}},
		}},
		bson.M{"$inc": bson.M{"seq": int64(1)}, "$set": bson.M{"rows": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&c)
	switch {
	case err == nil:
		return c.Seq, true, nil
	case mongo.IsDuplicateKeyError(err):
		// The counters document exists and counts rows: not empty.
		return 0, false, nil
	default:
		return 0, false, fmt.Errorf("claim %s: %w", r.name, err)
	}
}

// release uncounts a row that was reserved but not written, or was deleted.
func (r *AccountRepository) release(ctx context.Context) error {
	_, err := r.counters.UpdateOne(ctx,
		bson.M{"_id": r.name},
		bson.M{"$inc": bson.M{"rows": int64(-1)}},
	)
	if err != nil {
		return fmt.Errorf("release row in %s: %w", r.name, err)
	}
	return nil
}

func (r *AccountRepository) Insert(ctx context.Context, acc domain.Account) (int64, error) {
	id, err := r.reserve(ctx)
	if err != nil {
		return 0, err
	}
	return r.write(ctx, id, acc)
}

func (r *AccountRepository) write(ctx context.Context, id int64, acc domain.Account) (int64, error) {
	acc.ID = id
	if _, err := r.coll.InsertOne(ctx, toDocument(acc)); err != nil {
		rerr := r.release(ctx)
		if mongo.IsDuplicateKeyError(err) && rerr == nil {
			return 0, domain.ErrDuplicateUserName
		}
		return 0, fmt.Errorf("insert account: %w", errors.Join(err, rerr))
	}
	return id, nil
}

// InsertIfEmpty claims the collection's counters document before writing, so
// it loses to any insert already reserved, even one not yet visible.
func (r *AccountRepository) InsertIfEmpty(ctx context.Context, acc domain.Account) (int64, bool, error) {
	n, err := r.Count(ctx)
	if err != nil {
		return 0, false, err
	}
	if n > 0 {
		return 0, false, nil
	}

	id, ok, err := r.claimEmpty(ctx)
	if err != nil || !ok {
		return 0, false, err
	}

	id, err = r.write(ctx, id, acc)
	if errors.Is(err, domain.ErrDuplicateUserName) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (r *AccountRepository) FindByUserName(ctx context.Context, username string) (domain.Account, error) {
	var doc mongoAccount
	if err := r.coll.FindOne(ctx, bson.M{"UserName": username}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Account{}, domain.ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("find account: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) FindAll(ctx context.Context) ([]domain.Account, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoAccount
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}
	out := make([]domain.Account, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *AccountRepository) Update(ctx context.Context, username string, acc domain.Account) (int64, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"UserName": username},
		bson.M{"$set": bson.M{
			"Name":         acc.Name,
			"Phone_Number": acc.PhoneNumber,
			"UserName":     acc.UserName,
			"Password":     acc.Password,
		}},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, domain.ErrDuplicateUserName
		}
		return 0, fmt.Errorf("update account: %w", err)
	}
	return res.MatchedCount, nil
}

func (r *AccountRepository) Delete(ctx context.Context, username string) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"UserName": username})
	if err != nil {
		return 0, fmt.Errorf("delete account: %w", err)
	}
	if res.DeletedCount > 0 {
		if err := r.release(ctx); err != nil {
			return res.DeletedCount, err
		}
	}
	return res.DeletedCount, nil
}

func (r *AccountRepository) Count(ctx context.Context) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return int(n), nil
}
