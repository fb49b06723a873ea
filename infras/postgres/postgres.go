package postgres

import (
	"fmt"
	"net"
	"time"

	"github.com/JokoCodes/service-scheduler/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	maxIdleConnections = 10
	maxOpenConnections = 10
)

// Connection pairs the read and write pools. Repositories route queries to
// Read and mutations to Write so a replica can serve list traffic.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

type connInfo struct {
	name     string
	username string
	password string
	host     string
	port     string
	dbName   string
	sslMode  string
}

func New(cfg *config.Config) *Connection {
	pg := cfg.DB.Postgres

	write := connect(connInfo{
		name:     "write",
		username: pg.Write.Username,
		password: pg.Write.Password,
		host:     pg.Write.Host,
		port:     pg.Write.Port,
		dbName:   pg.Prefix + pg.Write.Name,
		sslMode:  pg.Write.SSLMode,
	}, pg.MaxRetry, pg.RetryWaitTime)

	read := connect(connInfo{
		name:     "read",
		username: pg.Read.Username,
		password: pg.Read.Password,
		host:     pg.Read.Host,
		port:     pg.Read.Port,
		dbName:   pg.Prefix + pg.Read.Name,
		sslMode:  pg.Read.SSLMode,
	}, pg.MaxRetry, pg.RetryWaitTime)

	return &Connection{Read: read, Write: write}
}

func connect(info connInfo, maxRetry, waitTime int) *sqlx.DB {
	descriptor := fmt.Sprintf(
		"postgres://%s:%s@%s/%s?sslmode=%s",
		info.username,
		info.password,
		net.JoinHostPort(info.host, info.port),
		info.dbName,
		info.sslMode,
	)

	for retry := range maxRetry {
		sqlDB, err := sqlx.Connect("postgres", descriptor)
		if err == nil {
			sqlDB.SetMaxIdleConns(maxIdleConnections)
			sqlDB.SetMaxOpenConns(maxOpenConnections)

			log.
				Info().
				Str("name", info.name).
				Str("host", info.host).
				Str("port", info.port).
				Str("dbName", info.dbName).
				Msg("Connected to database")

			return sqlDB
		}

		log.
			Error().
			Err(err).
			Str("name", info.name).
			Str("host", info.host).
			Str("port", info.port).
			Str("dbName", info.dbName).
			Int("attempt", retry+1).
			Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitTime) * time.Second)
	}

	return nil
}
