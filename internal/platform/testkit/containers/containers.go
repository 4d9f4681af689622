//go:build integration_pg || integration_ch

// Package containers starts disposable databases for integration tests
package containers

import (
	"context"
	"fmt"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// start runs req and returns host:port for the first exposed port
// the container is terminated by t.Cleanup
func start(t *testing.T, req tc.ContainerRequest) string {
	t.Helper()

	// first image pull can be slow
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start %s: %v", req.Image, err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, req.ExposedPorts[0])
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}
	return fmt.Sprintf("%s:%s", host, mapped.Port())
}

// Postgres starts postgres:16-alpine and returns its DSN
func Postgres(t *testing.T) string {
	t.Helper()
	addr := start(t, tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(2 * time.Minute),
	})
	return "postgres://postgres:postgres@" + addr + "/postgres?sslmode=disable"
}

// ClickHouse starts a clickhouse server and returns a native protocol DSN
func ClickHouse(t *testing.T) string {
	t.Helper()
	addr := start(t, tc.ContainerRequest{
		Image:        "clickhouse/clickhouse-server:24.8-alpine",
		ExposedPorts: []string{"9000/tcp", "8123/tcp"},
		Env: map[string]string{
			"CLICKHOUSE_USER":     "relay",
			"CLICKHOUSE_PASSWORD": "relay",
			"CLICKHOUSE_DB":       "relay",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("9000/tcp"),
			wait.ForHTTP("/ping").WithPort("8123/tcp"),
		).WithDeadline(2 * time.Minute),
	})
	return "clickhouse://relay:relay@" + addr + "/relay"
}
