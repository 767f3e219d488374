package optimals

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	errs "github.com/matzehuels/pcbgraph/pkg/errors"
	pcbio "github.com/matzehuels/pcbgraph/pkg/io"
	"github.com/matzehuels/pcbgraph/pkg/netlist"
)

// Store persists the optimals of designs by name.
type Store interface {
	// Load returns the stored optimals of design, or nil when none are
	// stored.
	Load(ctx context.Context, design string) ([]netlist.Optimal, error)

	// Save replaces the stored optimals of design.
	Save(ctx context.Context, design string, opts []netlist.Optimal) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// =============================================================================
// File store
// =============================================================================

// FileStore keeps one optimals record file per design in a directory.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "create %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(design string) string {
	return filepath.Join(s.dir, design+pcbio.ExtOptimals)
}

// Load reads the optimals file of design.
func (s *FileStore) Load(_ context.Context, design string) ([]netlist.Optimal, error) {
	f, err := os.Open(s.path(design))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "load optimals for %s", design)
	}
	defer f.Close()
	return pcbio.ReadOptimals(f)
}

// Save rewrites the optimals file of design.
func (s *FileStore) Save(_ context.Context, design string, opts []netlist.Optimal) error {
	path := s.path(design)
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return errs.Wrap(errs.ErrCodeStore, err, "save optimals for %s", design)
	}
	if err := pcbio.WriteOptimalRecords(f, opts); err != nil {
		f.Close()
		return errs.Wrap(errs.ErrCodeStore, err, "save optimals for %s", design)
	}
	if err := f.Close(); err != nil {
		return errs.Wrap(errs.ErrCodeStore, err, "save optimals for %s", design)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errs.Wrap(errs.ErrCodeStore, err, "save optimals for %s", design)
	}
	return nil
}

// Close does nothing.
func (s *FileStore) Close(context.Context) error { return nil }

// =============================================================================
// MongoDB store
// =============================================================================

// MongoConfig locates the collection holding design optimals.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// Default MongoDB names.
const (
	DefaultDatabase   = "pcbgraph"
	DefaultCollection = "optimals"
)

// MongoStore keeps one document per design, keyed by design name.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type designDoc struct {
	Design    string       `bson:"_id"`
	Version   string       `bson:"version"`
	UpdatedAt time.Time    `bson:"updated_at"`
	Optimals  []optimalDoc `bson:"optimals"`
}

type optimalDoc struct {
	ID        int     `bson:"id"`
	Name      string  `bson:"name"`
	Euclidean float64 `bson:"euclidean"`
	HPWL      float64 `bson:"hpwl"`
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "connect to %s", cfg.URI)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errs.Wrap(errs.ErrCodeStore, err, "ping %s", cfg.URI)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Load fetches the document of design.
func (s *MongoStore) Load(ctx context.Context, design string) ([]netlist.Optimal, error) {
	var doc designDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": design}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "load optimals for %s", design)
	}
	return fromDoc(doc), nil
}

// Save upserts the document of design.
func (s *MongoStore) Save(ctx context.Context, design string, opts []netlist.Optimal) error {
	doc := toDoc(design, opts, time.Now().UTC())
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": design}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errs.Wrap(errs.ErrCodeStore, err, "save optimals for %s", design)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func toDoc(design string, opts []netlist.Optimal, now time.Time) designDoc {
	doc := designDoc{
		Design:    design,
		Version:   netlist.RecordVersion,
		UpdatedAt: now,
		Optimals:  make([]optimalDoc, len(opts)),
	}
	for i, o := range opts {
		doc.Optimals[i] = optimalDoc{ID: o.ID, Name: o.Name, Euclidean: o.Euclidean, HPWL: o.HPWL}
	}
	return doc
}

func fromDoc(doc designDoc) []netlist.Optimal {
	out := make([]netlist.Optimal, len(doc.Optimals))
	for i, o := range doc.Optimals {
		out[i] = netlist.Optimal{ID: o.ID, Name: o.Name, Euclidean: o.Euclidean, HPWL: o.HPWL}
	}
	return out
}

var (
	_ Store = (*FileStore)(nil)
	_ Store = (*MongoStore)(nil)
)
