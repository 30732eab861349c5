package database

import (
	"container/list"
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrOffline is returned by reads that miss the cache while the database is
// unreachable.
var ErrOffline = stderrors.New("database not connected")

// DataManagerOptions contains configuration for a DataManager
type DataManagerOptions struct {
	MaxCacheSize int
}

// DefaultDataManagerOptions returns default options for DataManager
func DefaultDataManagerOptions() DataManagerOptions {
	return DataManagerOptions{
		MaxCacheSize: 1000,
	}
}

// DataManager provides cached, typed access to one MongoDB collection.
// Writes made while offline update the cache and are queued for replay.
type DataManager[T any] struct {
	name       string
	dbInstance *Database
	options    DataManagerOptions

	mu    sync.Mutex
	items map[string]*list.Element
	order *list.List
}

type cacheEntry[T any] struct {
	key   string
	value T
}

// NewDataManager creates a new DataManager for a collection
func NewDataManager[T any](collectionName string, db *Database, opts ...DataManagerOptions) *DataManager[T] {
	dmOptions := DefaultDataManagerOptions()
	if len(opts) > 0 {
		dmOptions = opts[0]
	}

	return &DataManager[T]{
		name:       collectionName,
		dbInstance: db,
		options:    dmOptions,
		items:      make(map[string]*list.Element),
		order:      list.New(),
	}
}

// Name returns the collection name
func (dm *DataManager[T]) Name() string {
	return dm.name
}

// cacheKey builds a deterministic key from a query regardless of map order
func (dm *DataManager[T]) cacheKey(query bson.M) string {
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, query[k]))
	}
	return fmt.Sprintf("%s:{%s}", dm.name, strings.Join(parts, ","))
}

func (dm *DataManager[T]) cached(key string) (T, bool) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	elem, ok := dm.items[key]
	if !ok {
		var zero T
		return zero, false
	}
	dm.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry[T]).value, true
}

func (dm *DataManager[T]) store(key string, value T) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if elem, ok := dm.items[key]; ok {
		elem.Value.(*cacheEntry[T]).value = value
		dm.order.MoveToFront(elem)
		return
	}
	dm.items[key] = dm.order.PushFront(&cacheEntry[T]{key: key, value: value})

	if dm.options.MaxCacheSize > 0 && dm.order.Len() > dm.options.MaxCacheSize {
		oldest := dm.order.Back()
		dm.order.Remove(oldest)
		delete(dm.items, oldest.Value.(*cacheEntry[T]).key)
	}
}

func (dm *DataManager[T]) evict(key string) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if elem, ok := dm.items[key]; ok {
		dm.order.Remove(elem)
		delete(dm.items, key)
	}
}

func (dm *DataManager[T]) collection() *mongo.Collection {
	if !dm.dbInstance.Connected() {
		return nil
	}
	return dm.dbInstance.GetCollection(dm.name)
}

// Get retrieves a document from cache or database. A missing document
// returns nil without error.
func (dm *DataManager[T]) Get(ctx context.Context, query bson.M) (*T, error) {
	key := dm.cacheKey(query)
	if v, ok := dm.cached(key); ok {
		return &v, nil
	}

	col := dm.collection()
	if col == nil {
		return nil, ErrOffline
	}

	var result T
	err := col.FindOne(ctx, query).Decode(&result)
	if err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		logger.Warn(fmt.Sprintf("Fallo al leer de la DB (%s): %v", dm.name, err), "DataManager")
		return nil, err
	}

	dm.store(key, result)
	return &result, nil
}

// GetAll retrieves all documents matching a query from the database
func (dm *DataManager[T]) GetAll(ctx context.Context, query bson.M) ([]*T, error) {
	col := dm.collection()
	if col == nil {
		return nil, ErrOffline
	}

	cursor, err := col.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	var results []*T
	for cursor.Next(ctx) {
		var doc T
		if err := cursor.Decode(&doc); err != nil {
			logger.Warn(fmt.Sprintf("Documento ilegible en '%s': %v", dm.name, err), "DataManager")
			continue
		}
		results = append(results, &doc)
	}
	return results, cursor.Err()
}

// Set upserts data under query. While offline the write is queued and the
// cache answers later reads.
func (dm *DataManager[T]) Set(ctx context.Context, query bson.M, data T) (*T, error) {
	key := dm.cacheKey(query)

	col := dm.collection()
	if col == nil {
		logger.Warn(fmt.Sprintf("DB offline. Encolando escritura para '%s'", dm.name), "DataManager")
		dm.dbInstance.AddToWriteQueue(QueuedOperation{
			CollectionName: dm.name,
			Query:          query,
			Operation:      OpSet,
			Data:           data,
		})
		dm.store(key, data)
		return &data, nil
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result T
	err := col.FindOneAndUpdate(ctx, query, bson.M{"$set": data}, opts).Decode(&result)
	if err != nil {
		logger.Error(fmt.Sprintf("Error en 'set' sobre '%s'. Encolando por seguridad: %v", dm.name, err), "DataManager")
		dm.dbInstance.AddToWriteQueue(QueuedOperation{
			CollectionName: dm.name,
			Query:          query,
			Operation:      OpSet,
			Data:           data,
		})
		if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
			dm.dbInstance.MarkDisconnected()
		}
		dm.store(key, data)
		return &data, nil
	}

	dm.store(key, result)
	return &result, nil
}

// Delete removes a document from the database and cache
func (dm *DataManager[T]) Delete(ctx context.Context, query bson.M) error {
	dm.evict(dm.cacheKey(query))

	col := dm.collection()
	if col == nil {
		logger.Warn(fmt.Sprintf("DB offline. Encolando eliminación para '%s'", dm.name), "DataManager")
		dm.dbInstance.AddToWriteQueue(QueuedOperation{
			CollectionName: dm.name,
			Query:          query,
			Operation:      OpDelete,
		})
		return nil
	}

	if _, err := col.DeleteOne(ctx, query); err != nil {
		logger.Error(fmt.Sprintf("Error en 'delete' sobre '%s'. Encolando por seguridad.", dm.name), "DataManager")
		dm.dbInstance.AddToWriteQueue(QueuedOperation{
			CollectionName: dm.name,
			Query:          query,
			Operation:      OpDelete,
		})
		return err
	}
	return nil
}

// CacheSize returns the current cache size
func (dm *DataManager[T]) CacheSize() int {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return dm.order.Len()
}
