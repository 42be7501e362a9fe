// internal/cache/scylladb/scylladb_cache.go
package scylladb

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/gocql/gocql"
	"github.com/taskfence/taskfence/internal/cache"
	"github.com/taskfence/taskfence/internal/observability"
)

var (
	ErrConfigOptionMissing = errors.New("ScyllaDB requires a config option")
)

// StoreName is the registered name of the ScyllaDB backend
const StoreName string = "scylladb"

func init() {
	cache.Register(StoreName, newCache)
}

func newCache(ctx context.Context, options cache.Options, logger *observability.SLogger) (cache.KVCache, error) {
	cfg, ok := options.(*ScyllaDBConfig)
	if !ok && options != nil {
		return nil, &cache.InvalidConfigurationError{Backend: StoreName, Config: options}
	}
	return New(ctx, cfg, logger)
}

// cqlSession is the slice of gocql.Session the backend needs.
// Kept as an interface so tests can substitute a mock session.
type cqlSession interface {
	Query(stmt string, values ...interface{}) cqlQuery
	Close()
}

// cqlQuery is the slice of gocql.Query the backend needs
type cqlQuery interface {
	WithContext(ctx context.Context) cqlQuery
	Exec() error
	ScanCAS(dest ...interface{}) (bool, error)
}

// gocqlSession adapts *gocql.Session to cqlSession
type gocqlSession struct {
	session *gocql.Session
}

func (s gocqlSession) Query(stmt string, values ...interface{}) cqlQuery {
	return gocqlQuery{query: s.session.Query(stmt, values...)}
}

func (s gocqlSession) Close() {
	s.session.Close()
}

// gocqlQuery adapts *gocql.Query to cqlQuery
type gocqlQuery struct {
	query *gocql.Query
}

func (q gocqlQuery) WithContext(ctx context.Context) cqlQuery {
	return gocqlQuery{query: q.query.WithContext(ctx)}
}

func (q gocqlQuery) Exec() error {
	return q.query.Exec()
}

func (q gocqlQuery) ScanCAS(dest ...interface{}) (bool, error) {
	return q.query.ScanCAS(dest...)
}

// Cache implements cache.KVCache on top of ScyllaDB using lightweight
// transactions. INSERT ... IF NOT EXISTS is linearizable per partition,
// which is all the atomicity the lock needs.
type Cache struct {
	session        cqlSession
	tableName      string
	keyspaceName   string
	fullTableName  string
	l              *observability.SLogger
	insertQuery    string
	deleteQuery    string
	config         *ScyllaDBConfig
}

// GetConfig returns the current backend configuration
func (c *Cache) GetConfig() cache.Config {
	return c.config
}

// parseConsistency converts string consistency to gocql.Consistency
func parseConsistency(consistency string) gocql.Consistency {
	switch consistency {
	case "CONSISTENCY_QUORUM":
		return gocql.Quorum
	case "CONSISTENCY_ONE":
		return gocql.One
	case "CONSISTENCY_ALL":
		return gocql.All
	default:
		return gocql.Quorum
	}
}

// New creates a new ScyllaDB backend
func New(ctx context.Context, config *ScyllaDBConfig, logger *observability.SLogger) (*Cache, error) {
	if config == nil {
		return nil, ErrConfigOptionMissing
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	cluster := gocql.NewCluster(config.Host + ":" + strconv.Itoa(int(config.Port)))
	cluster.ProtoVersion = 4
	cluster.Consistency = parseConsistency(config.Consistency)

	session, err := cluster.CreateSession()
	if err != nil {
		logger.Errorf("Error creating session: %v", err)
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	c := &Cache{
		session:       gocqlSession{session: session},
		tableName:     config.Table,
		keyspaceName:  config.Keyspace,
		fullTableName: fmt.Sprintf("%q.%q", config.Keyspace, config.Table),
		l:             logger,
		config:        config,
	}

	if err := c.initSchema(ctx); err != nil {
		session.Close()
		return nil, err
	}
	c.initQueries()

	return c, nil
}

func (c *Cache) initQueries() {
	c.insertQuery = fmt.Sprintf("INSERT INTO %s (name, owner) VALUES (?, ?) IF NOT EXISTS USING TTL ?", c.fullTableName)
	c.deleteQuery = fmt.Sprintf("DELETE FROM %s WHERE name = ?", c.fullTableName)
}

func (c *Cache) initSchema(ctx context.Context) error {
	err := c.session.Query(fmt.Sprintf(`CREATE KEYSPACE IF NOT EXISTS %s
	WITH replication = {
		'class' : 'SimpleStrategy',
		'replication_factor' : 3
	}`, c.keyspaceName)).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("failed to create keyspace: %w", err)
	}

	err = c.session.Query(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
        name text,
        owner text,
        PRIMARY KEY (name)
    )`, c.keyspaceName, c.tableName)).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	return nil
}

// ttlSeconds converts a duration to whole CQL TTL seconds, rounding up so a
// sub-second remainder never truncates to an immediate expiry
func ttlSeconds(ttl time.Duration) int {
	return int(math.Ceil(ttl.Seconds()))
}

// SetIfAbsent atomically creates key -> value via INSERT IF NOT EXISTS.
// The applied flag of the CAS result carries the stored/not-stored outcome.
func (c *Cache) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	var existingName, existingOwner string
	applied, err := c.session.Query(c.insertQuery, key, value, ttlSeconds(ttl)).
		WithContext(ctx).
		ScanCAS(&existingName, &existingOwner)
	if err != nil {
		return false, fmt.Errorf("scylladb conditional insert failed: %w", err)
	}

	return applied, nil
}

// Delete removes key. Deleting an absent row is a no-op in CQL.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.session.Query(c.deleteQuery, key).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("scylladb delete failed: %w", err)
	}
	return nil
}

// Close closes the ScyllaDB session
func (c *Cache) Close() {
	c.session.Close()
}
