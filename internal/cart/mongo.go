package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Juan-JM/SmartCart-Frotend/internal/domain"
)

// MongoSnapshot stores one cart document per owner. The cart body is
// serialized through its JSON form so the stored layout matches the
// file and redis backends.
type MongoSnapshot struct {
	collection *mongo.Collection
	owner      string
}

// ConnectMongo dials the server and verifies the connection with a ping.
func ConnectMongo(ctx context.Context, uri, dbName string) (*mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client.Database(dbName), nil
}

func NewMongoSnapshot(db *mongo.Database, owner string) *MongoSnapshot {
	return &MongoSnapshot{
		collection: db.Collection("carts"),
		owner:      owner,
	}
}

// CreateIndexes sets up the unique owner index. Call once at startup.
func (m *MongoSnapshot) CreateIndexes(ctx context.Context) error {
	_, err := m.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "owner", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create cart index: %w", err)
	}
	return nil
}

func (m *MongoSnapshot) Load(ctx context.Context) (*domain.Cart, error) {
	var doc struct {
		Cart []byte `bson:"cart"`
	}
	filter := bson.M{"owner": m.owner}
	err := m.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	cart, err := unmarshalCart(doc.Cart)
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (m *MongoSnapshot) Save(ctx context.Context, cart *domain.Cart) error {
	data, err := marshalCart(cart)
	if err != nil {
		return err
	}

	filter := bson.M{"owner": m.owner}
	update := bson.M{"$set": bson.M{
		"owner":      m.owner,
		"cart":       data,
		"updated_at": time.Now(),
	}}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert cart: %w", err)
	}
	return nil
}

func (m *MongoSnapshot) Delete(ctx context.Context) error {
	if _, err := m.collection.DeleteOne(ctx, bson.M{"owner": m.owner}); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

func marshalCart(cart *domain.Cart) ([]byte, error) {
	data, err := json.Marshal(cart)
	if err != nil {
		return nil, fmt.Errorf("marshal cart failed: %w", err)
	}
	return data, nil
}

func unmarshalCart(data []byte) (*domain.Cart, error) {
	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return &cart, nil
}
