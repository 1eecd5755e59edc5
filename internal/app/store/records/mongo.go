// internal/app/store/records/mongo.go
package records

import (
	"context"
	"errors"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo is the production Store, one collection per table.
type Mongo struct {
	db *mongo.Database
}

// NewMongo wraps a connected database.
func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

func (s *Mongo) Query(ctx context.Context, table string, f Filter, opts Options, out any) error {
	findOpts := options.Find()
	if opts.OrderBy != "" {
		dir := 1
		if opts.Desc {
			dir = -1
		}
		findOpts.SetSort(bson.D{{Key: opts.OrderBy, Value: dir}})
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}
	cur, err := s.db.Collection(table).Find(ctx, bson.M(f), findOpts)
	if err != nil {
		return wrap("query", table, err)
	}
	defer cur.Close(ctx)

	if out == nil {
		return nil
	}
	if err := cur.All(ctx, out); err != nil {
		return wrap("query", table, err)
	}
	return nil
}

func (s *Mongo) QueryOne(ctx context.Context, table string, f Filter, out any) error {
	res := s.db.Collection(table).FindOne(ctx, bson.M(f))
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return wrap("query_one", table, ErrNoRows)
		}
		return wrap("query_one", table, err)
	}
	if out == nil {
		return nil
	}
	if err := res.Decode(out); err != nil {
		return wrap("query_one", table, err)
	}
	return nil
}

func (s *Mongo) Insert(ctx context.Context, table string, doc any, out any) error {
	row, err := toDoc(doc)
	if err != nil {
		return wrap("insert", table, err)
	}
	id, _ := row["_id"].(string)
	if id == "" {
		row["_id"] = newID()
	}
	if _, err := s.db.Collection(table).InsertOne(ctx, row); err != nil {
		if wafflemongo.IsDup(err) {
			return wrap("insert", table, ErrDuplicate)
		}
		return wrap("insert", table, err)
	}
	if out == nil {
		return nil
	}
	if err := decodeInto(row, out); err != nil {
		return wrap("insert", table, err)
	}
	return nil
}

func (s *Mongo) Update(ctx context.Context, table string, id string, patch Filter, out any) error {
	patchDoc, err := toDoc(bson.M(patch))
	if err != nil {
		return wrap("update", table, err)
	}
	delete(patchDoc, "_id")

	res := s.db.Collection(table).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": patchDoc},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return wrap("update", table, ErrNoRows)
		}
		if wafflemongo.IsDup(err) {
			return wrap("update", table, ErrDuplicate)
		}
		return wrap("update", table, err)
	}
	if out == nil {
		return nil
	}
	if err := res.Decode(out); err != nil {
		return wrap("update", table, err)
	}
	return nil
}

func (s *Mongo) Delete(ctx context.Context, table string, id string) error {
	res, err := s.db.Collection(table).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrap("delete", table, err)
	}
	if res.DeletedCount == 0 {
		return wrap("delete", table, ErrNoRows)
	}
	return nil
}

func (s *Mongo) Count(ctx context.Context, table string, f Filter) (int64, error) {
	n, err := s.db.Collection(table).CountDocuments(ctx, bson.M(f))
	if err != nil {
		return 0, wrap("count", table, err)
	}
	return n, nil
}
