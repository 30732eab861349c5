// Package database provides the MongoDB connection, an offline write queue
// and typed DataManagers with a small read cache.
package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Operation is the kind of a queued write.
type Operation string

const (
	OpSet    Operation = "set"
	OpDelete Operation = "delete"
)

// QueuedOperation is a write that could not reach the database and will be
// replayed after reconnecting.
type QueuedOperation struct {
	CollectionName string
	Query          bson.M
	Operation      Operation
	Data           interface{}
}

// Database manages the MongoDB connection. While disconnected, writes are
// queued and a reconnect loop runs every ReconnectInterval.
type Database struct {
	client      *mongo.Client
	db          *mongo.Database
	isConnected bool
	mongoURL    string
	dbName      string

	writeQueue []QueuedOperation
	queueMu    sync.Mutex

	reconnecting  bool
	stopReconnect chan struct{}
	stopOnce      sync.Once

	mu sync.RWMutex
}

// ReconnectInterval is the delay between reconnection attempts.
var ReconnectInterval = 15 * time.Second

var (
	database *Database
	dbOnce   sync.Once
)

// Init initializes the global database instance. A failed first connection
// is returned, but the instance keeps retrying in the background.
func Init(mongoURL, dbName string) (*Database, error) {
	var err error
	dbOnce.Do(func() {
		database = NewDatabase()
		err = database.Connect(mongoURL, dbName)
	})
	return database, err
}

// Get returns the global database instance
func Get() *Database {
	return database
}

// NewDatabase creates a disconnected Database
func NewDatabase() *Database {
	return &Database{
		writeQueue:    make([]QueuedOperation, 0),
		stopReconnect: make(chan struct{}),
	}
}

// Connect establishes a connection to MongoDB. On failure a background
// loop keeps retrying.
func (d *Database) Connect(mongoURL, dbName string) error {
	err := d.connect(mongoURL, dbName)
	if err != nil {
		d.mu.Lock()
		d.startReconnectLocked()
		d.mu.Unlock()
	}
	return err
}

func (d *Database) connect(mongoURL, dbName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.isConnected {
		return nil
	}
	d.mongoURL, d.dbName = mongoURL, dbName

	logger.System("Intentando conectar a la base de datos...", "DB")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(mongoURL).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		logger.Critical("Fallo al conectar con la base de datos.", "DB")
		return err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Critical("Fallo al verificar conexión con la base de datos.", "DB")
		_ = client.Disconnect(ctx)
		return err
	}

	d.client = client
	d.db = client.Database(dbName)
	d.isConnected = true
	logger.Success("Conectado exitosamente a la base de datos.", "DB")

	go d.syncOfflineWrites()
	return nil
}

// MarkDisconnected switches to offline mode after a failed operation and
// starts reconnecting.
func (d *Database) MarkDisconnected() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.isConnected {
		return
	}
	d.isConnected = false
	logger.Warn("Se perdió la conexión con la base de datos. Activando modo offline.", "DB")
	d.startReconnectLocked()
}

// startReconnectLocked runs the reconnect loop unless one is running.
// d.mu must be held.
func (d *Database) startReconnectLocked() {
	if d.reconnecting || d.mongoURL == "" {
		return
	}
	d.reconnecting = true
	url, name := d.mongoURL, d.dbName

	go func() {
		ticker := time.NewTicker(ReconnectInterval)
		defer ticker.Stop()
		defer func() {
			d.mu.Lock()
			d.reconnecting = false
			d.mu.Unlock()
		}()

		for {
			select {
			case <-ticker.C:
				logger.Info("Intentando reconectar a la base de datos...", "DB")
				if err := d.connect(url, name); err == nil {
					return
				}
			case <-d.stopReconnect:
				return
			}
		}
	}()
}

// Disconnect closes the database connection and stops reconnecting
func (d *Database) Disconnect() error {
	d.stopOnce.Do(func() { close(d.stopReconnect) })

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.client.Disconnect(ctx); err != nil {
		return err
	}
	d.isConnected = false
	logger.Warn("La base de datos ha sido desconectada", "DB")
	return nil
}

// Connected reports whether the database is reachable
func (d *Database) Connected() bool {
	if d == nil {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.isConnected
}

// Ping measures the database response time
func (d *Database) Ping(ctx context.Context) (time.Duration, error) {
	d.mu.RLock()
	client, connected := d.client, d.isConnected
	d.mu.RUnlock()

	if !connected || client == nil {
		return 0, fmt.Errorf("not connected to database")
	}

	start := time.Now()
	err := client.Ping(ctx, readpref.Primary())
	return time.Since(start), err
}

// GetStatus returns a human readable connection status
func (d *Database) GetStatus() (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := d.Ping(ctx); err != nil {
		return "🔴 | Desconectado", false
	}
	return "🟢 | En linea", true
}

// GetCollection returns a MongoDB collection, or nil while disconnected
func (d *Database) GetCollection(name string) *mongo.Collection {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.db == nil || !d.isConnected {
		return nil
	}
	return d.db.Collection(name)
}

// AddToWriteQueue adds an operation to the offline write queue
func (d *Database) AddToWriteQueue(op QueuedOperation) {
	d.queueMu.Lock()
	defer d.queueMu.Unlock()
	d.writeQueue = append(d.writeQueue, op)
}

// PendingWrites returns how many writes wait for the database
func (d *Database) PendingWrites() int {
	d.queueMu.Lock()
	defer d.queueMu.Unlock()
	return len(d.writeQueue)
}

// syncOfflineWrites replays queued operations. Failed ones are queued again.
func (d *Database) syncOfflineWrites() {
	d.queueMu.Lock()
	if len(d.writeQueue) == 0 {
		d.queueMu.Unlock()
		return
	}

	logger.System(fmt.Sprintf("Sincronizando %d operaciones pendientes con la DB...", len(d.writeQueue)), "DB-Sync")

	operations := d.writeQueue
	d.writeQueue = make([]QueuedOperation, 0)
	d.queueMu.Unlock()

	failedOps := make([]QueuedOperation, 0)

	for _, op := range operations {
		col := d.GetCollection(op.CollectionName)
		if col == nil {
			failedOps = append(failedOps, op)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

		var err error
		switch op.Operation {
		case OpSet:
			_, err = col.UpdateOne(ctx, op.Query, bson.M{"$set": op.Data}, options.Update().SetUpsert(true))
		case OpDelete:
			_, err = col.DeleteOne(ctx, op.Query)
		}
		cancel()

		if err != nil {
			logger.Error(fmt.Sprintf("Error al sincronizar operación para '%s'. La operación se volverá a encolar.", op.CollectionName), "DB-Sync")
			failedOps = append(failedOps, op)
		}
	}

	if len(failedOps) > 0 {
		d.queueMu.Lock()
		d.writeQueue = append(failedOps, d.writeQueue...)
		d.queueMu.Unlock()
		logger.Warn(fmt.Sprintf("%d operaciones no pudieron sincronizarse y se reintentarán.", len(failedOps)), "DB-Sync")
	} else {
		logger.Success("Sincronización completada exitosamente.", "DB-Sync")
	}
}

// Client returns the underlying MongoDB client
func (d *Database) Client() *mongo.Client {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.client
}
