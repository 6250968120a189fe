package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/jhoicas/caja-registradora/internal/domain"
	"github.com/jhoicas/caja-registradora/internal/domain/repository"
)

var _ repository.RecordStore = (*RecordStore)(nil)

// Collection colección con un documento por recurso.
const Collection = "pos_resources"

type resourceDoc struct {
	ID      string              `bson:"_id"`
	Fields  []string            `bson:"fields"`
	Records []map[string]string `bson:"records"`
	SavedAt time.Time           `bson:"savedAt"`
}

// Connect abre el cliente y verifica la conexión.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10*time.Second).
		SetMaxPoolSize(4))
	if err != nil {
		return nil, fmt.Errorf("conectar a MongoDB: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	return client, nil
}

// RecordStore guarda cada recurso como un documento {_id: recurso, fields, records}.
type RecordStore struct {
	collection *mongo.Collection
}

// NewRecordStore construye el adaptador sobre la base indicada.
func NewRecordStore(db *mongo.Database) *RecordStore {
	return &RecordStore{collection: db.Collection(Collection)}
}

// Load devuelve los registros del recurso. Documento inexistente = vacío.
func (s *RecordStore) Load(ctx context.Context, resource string) ([]repository.Record, error) {
	var doc resourceDoc
	err := s.collection.FindOne(ctx, bson.M{"_id": resource}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []repository.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: leer %s: %v", domain.ErrPersistence, resource, err)
	}
	out := make([]repository.Record, 0, len(doc.Records))
	for _, r := range doc.Records {
		rec := make(repository.Record, len(doc.Fields))
		for _, f := range doc.Fields {
			rec[f] = r[f]
		}
		out = append(out, rec)
	}
	return out, nil
}

// Save reemplaza el documento del recurso (upsert).
func (s *RecordStore) Save(ctx context.Context, resource string, records []repository.Record, fields []string) error {
	doc := resourceDoc{
		ID:      resource,
		Fields:  fields,
		Records: make([]map[string]string, 0, len(records)),
		SavedAt: time.Now().UTC(),
	}
	for _, r := range records {
		row := make(map[string]string, len(fields))
		for _, f := range fields {
			row[f] = r[f]
		}
		doc.Records = append(doc.Records, row)
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.collection.ReplaceOne(ctx, bson.M{"_id": resource}, doc, opts); err != nil {
		return fmt.Errorf("%w: guardar %s: %v", domain.ErrPersistence, resource, err)
	}
	return nil
}
