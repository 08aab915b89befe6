package database

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptcraft-studio/internal/common/config"
	"promptcraft-studio/internal/common/logger"
)

func newFakeElasticsearch(t *testing.T, status int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestOpen_NothingEnabled(t *testing.T) {
	conns, err := Open(context.Background(), config.DatabaseConfig{}, logger.NewTestLogger(t))
	require.NoError(t, err)

	assert.Empty(t, conns.Pingers())
	assert.NoError(t, conns.PingAll(context.Background()))
	assert.NoError(t, conns.Close())
}

func TestOpen_RedisAndElasticsearch(t *testing.T) {
	mr := miniredis.RunT(t)
	es := newFakeElasticsearch(t, http.StatusOK)

	cfg := config.DatabaseConfig{
		Redis:         config.RedisConfig{Enabled: true, Address: mr.Addr()},
		Elasticsearch: config.ElasticsearchConfig{Enabled: true, Addresses: []string{es.URL}},
	}

	conns, err := Open(context.Background(), cfg, logger.NewTestLogger(t))
	require.NoError(t, err)
	defer conns.Close()

	require.NotNil(t, conns.Redis)
	require.NotNil(t, conns.Elasticsearch)
	assert.Len(t, conns.Pingers(), 2)
	assert.NoError(t, conns.PingAll(context.Background()))

	mr.Close()
	err = conns.PingAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
}

func TestOpen_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := config.DatabaseConfig{Redis: config.RedisConfig{Enabled: true, Address: addr}}
	_, err := Open(context.Background(), cfg, logger.NewTestLogger(t))
	require.Error(t, err)
}

func TestOpen_ElasticsearchDownIsNotFatal(t *testing.T) {
	es := newFakeElasticsearch(t, http.StatusServiceUnavailable)

	cfg := config.DatabaseConfig{
		Elasticsearch: config.ElasticsearchConfig{Enabled: true, Addresses: []string{es.URL}},
	}
	conns, err := Open(context.Background(), cfg, logger.NewTestLogger(t))
	require.NoError(t, err)
	assert.Error(t, conns.PingAll(context.Background()))
}

func TestSQLPinger(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(errors.New("connection reset"))

	conns := &Connections{Postgres: db}
	assert.NoError(t, conns.PingAll(context.Background()))

	err = conns.PingAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres")

	assert.NoError(t, mock.ExpectationsWereMet())
}
