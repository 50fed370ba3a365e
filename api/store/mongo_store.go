/* mongo_store.go
 * Contains the MongoDB backend. The whole state is kept as one document carrying a version
 * number; writes are compare-and-swap on that version and retried on conflict, so several
 * bot processes can share one database without losing updates
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "poolmanager-bot/api/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	stateDocumentID  = "state"
	defaultMaxWrites = 5
)

var errVersionConflict = errors.New("state document was modified concurrently")

type MongoStore struct {
	Client     *mongo.Client
	Collection *mongo.Collection
	MaxRetries int
}

// selectionRecord is how a pending selection is stored. Identities are arbitrary strings, so they
// are kept as values rather than as field names
type selectionRecord struct {
	User string `bson:"user"`
	Pool int    `bson:"pool"`
}

type stateRecord struct {
	ID         string            `bson:"_id"`
	Version    int64             `bson:"version"`
	Pools      []Pool            `bson:"pools"`
	Users      []string          `bson:"usuarios"`
	Selections []selectionRecord `bson:"seleccion_temp"`
}

func toRecord(doc *Document, version int64) stateRecord {
	rec := stateRecord{
		ID:         stateDocumentID,
		Version:    version,
		Pools:      doc.Pools,
		Users:      doc.Users,
		Selections: make([]selectionRecord, 0, len(doc.Selections)),
	}
	for user, idx := range doc.Selections {
		rec.Selections = append(rec.Selections, selectionRecord{User: user, Pool: idx})
	}
	return rec
}

func (r stateRecord) toDocument() *Document {
	doc := &Document{
		Pools:      r.Pools,
		Users:      r.Users,
		Selections: make(map[string]int, len(r.Selections)),
	}
	for _, sel := range r.Selections {
		doc.Selections[sel.User] = sel.Pool
	}
	doc.normalize()
	return doc
}

// NewMongoStore connects to MongoDB and returns a store on dbName.collName
// Preconditions: Receives a context bounding the connection attempt, a mongo URI, database and collection names
// Postconditions: Returns a connected MongoStore, or an error if the server cannot be reached
func NewMongoStore(ctx context.Context, mongoURI string, dbName string, collName string) (*MongoStore, error) {
	if mongoURI == "" || dbName == "" || collName == "" {
		return nil, fmt.Errorf("mongoURI, dbName and collName are required")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	return &MongoStore{
		Client:     client,
		Collection: client.Database(dbName).Collection(collName),
		MaxRetries: defaultMaxWrites,
	}, nil
}

func (s *MongoStore) Load(ctx context.Context) (*Document, error) {
	doc, _, err := s.load(ctx)
	return doc, err
}

// Save replaces the state unconditionally, bumping the version so in-flight Updates retry
func (s *MongoStore) Save(ctx context.Context, doc *Document) error {
	doc.normalize()
	filter := bson.M{"_id": stateDocumentID}
	update := bson.M{
		"$set": bson.M{
			"pools":          doc.Pools,
			"usuarios":       doc.Users,
			"seleccion_temp": toRecord(doc, 0).Selections,
		},
		"$inc": bson.M{"version": 1},
	}
	_, err := s.Collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return apperrors.Persistence("saving state document", err)
	}
	return nil
}

// Update applies fn with optimistic concurrency: load version n, write only if the stored version
// is still n, otherwise reload and run fn again
func (s *MongoStore) Update(ctx context.Context, fn UpdateFunc) error {
	attempts := s.MaxRetries
	if attempts <= 0 {
		attempts = defaultMaxWrites
	}

	for attempt := 0; attempt < attempts; attempt++ {
		doc, version, err := s.load(ctx)
		if err != nil {
			return err
		}

		changed, err := fn(doc)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}

		err = s.write(ctx, doc, version)
		if errors.Is(err, errVersionConflict) {
			continue
		}
		return err
	}
	return apperrors.Persistence(fmt.Sprintf("giving up after %d conflicting writes", attempts), errVersionConflict)
}

func (s *MongoStore) Close(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	return s.Client.Disconnect(ctx)
}

func (s *MongoStore) load(ctx context.Context) (*Document, int64, error) {
	var rec stateRecord
	err := s.Collection.FindOne(ctx, bson.M{"_id": stateDocumentID}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return NewDocument(), 0, nil
	}
	if err != nil {
		return nil, 0, apperrors.Persistence("fetching state document", err)
	}
	return rec.toDocument(), rec.Version, nil
}

func (s *MongoStore) write(ctx context.Context, doc *Document, version int64) error {
	doc.normalize()

	// Nothing stored yet, the first writer inserts and any racing writer hits the unique _id
	if version == 0 {
		_, err := s.Collection.InsertOne(ctx, toRecord(doc, 1))
		if mongo.IsDuplicateKeyError(err) {
			return errVersionConflict
		}
		if err != nil {
			return apperrors.Persistence("inserting state document", err)
		}
		return nil
	}

	filter := bson.M{"_id": stateDocumentID, "version": version}
	res, err := s.Collection.ReplaceOne(ctx, filter, toRecord(doc, version+1))
	if err != nil {
		return apperrors.Persistence("replacing state document", err)
	}
	if res.MatchedCount == 0 {
		return errVersionConflict
	}
	return nil
}
