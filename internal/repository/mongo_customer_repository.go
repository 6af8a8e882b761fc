package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mjosh1982/customerservice-repo/internal/model"
)

const customerCounterKey = "customer"

// MongoCustomerRepository stores customers as documents with integer ids taken
// from a counters collection.
type MongoCustomerRepository struct {
	customers *mongo.Collection
	counters  *mongo.Collection
}

func NewMongoCustomerRepository(db *mongo.Database) *MongoCustomerRepository {
	return &MongoCustomerRepository{
		customers: db.Collection("customer"),
		counters:  db.Collection("counters"),
	}
}

// Setup creates the unique email index.
func (r *MongoCustomerRepository) Setup(ctx context.Context) error {
	if _, err := r.customers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("failed to create customer indexes: %w", err)
	}
	return nil
}

func (r *MongoCustomerRepository) nextID(ctx context.Context) (int, error) {
	var counter struct {
		Seq int `bson:"seq"`
	}

	err := r.counters.FindOneAndUpdate(
		ctx,
		bson.D{{Key: "_id", Value: customerCounterKey}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "seq", Value: 1}}}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate customer id: %w", err)
	}

	return counter.Seq, nil
}

func (r *MongoCustomerRepository) SelectAllCustomers(ctx context.Context) ([]model.Customer, error) {
	cursor, err := r.customers.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}

	customers := []model.Customer{}
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *MongoCustomerRepository) SelectCustomerByID(ctx context.Context, id int) (*model.Customer, error) {
	var c model.Customer
	err := r.customers.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *MongoCustomerRepository) AddCustomer(ctx context.Context, c *model.Customer) error {
	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}

	c.ID = id
	if _, err := r.customers.InsertOne(ctx, c); err != nil {
		c.ID = 0
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrEmailTaken, c.Email)
		}
		return err
	}
	return nil
}

func (r *MongoCustomerRepository) ExistsCustomerWithEmail(ctx context.Context, email string) (bool, error) {
	n, err := r.customers.CountDocuments(ctx, bson.D{{Key: "email", Value: email}}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *MongoCustomerRepository) DeleteCustomerByID(ctx context.Context, id int) (bool, error) {
	res, err := r.customers.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoCustomerRepository) UpdateCustomer(ctx context.Context, c model.Customer) (*model.Customer, error) {
	res, err := r.customers.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: c.ID}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "name", Value: c.Name},
			{Key: "email", Value: c.Email},
			{Key: "age", Value: c.Age},
		}}},
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrEmailTaken, c.Email)
		}
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, nil
	}
	return &c, nil
}

var _ CustomerRepositoryInterface = (*MongoCustomerRepository)(nil)
