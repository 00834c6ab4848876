//go:build integration
// +build integration

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package userlookup_test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"

	"github.com/suparena/userlookup"
	"github.com/suparena/userlookup/config"
	"github.com/suparena/userlookup/errors"
	"github.com/suparena/userlookup/logger"
	"github.com/suparena/userlookup/storagemodels"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, proceeding with environment variables")
	}
}

// setupPostgresTable seeds a uniquely named users table and returns its schema.
func setupPostgresTable(t *testing.T) (string, storagemodels.Schema) {
	dsn := os.Getenv("USERLOOKUP_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("USERLOOKUP_TEST_POSTGRES_DSN not set, skipping integration test")
	}

	schema := storagemodels.UserSchema.Clone()
	schema.Name = fmt.Sprintf("users_it_%d", time.Now().UnixNano())
	schema.Table = schema.Name

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	stmts := []string{
		fmt.Sprintf(`CREATE TABLE %s (username TEXT PRIMARY KEY, email TEXT NOT NULL)`, schema.Table),
		fmt.Sprintf(`INSERT INTO %s (username, email) VALUES ('alice', 'alice@example.com'), ('bob', 'bob@example.com')`, schema.Table),
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("seed %q: %v", s, err)
		}
	}
	t.Cleanup(func() {
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return
		}
		defer db.Close()
		db.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %s`, schema.Table))
	})

	return dsn, schema
}

func TestIntegrationPostgresLookup(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dsn, schema := setupPostgresTable(t)
	svc, err := userlookup.NewService(userlookup.WithSchema(schema), userlookup.WithTimeout(5*time.Second))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if out := svc.Lookup(ctx, dsn, "alice"); out.Status != userlookup.StatusFound {
		t.Fatalf("expected found, got %v", out)
	}
	if out := svc.Lookup(ctx, dsn, "carol"); out.Status != userlookup.StatusNotFound {
		t.Errorf("expected not found, got %v", out)
	}
	if out := svc.Lookup(ctx, dsn, "' OR '1'='1"); out.Status != userlookup.StatusNotFound {
		t.Errorf("expected not found, got %v", out)
	}

	u, err := url.Parse(dsn)
	if err != nil {
		t.Fatal(err)
	}
	u.User = url.UserPassword("nobody", "wrong")
	out := svc.Lookup(ctx, u.String(), "alice")
	if out.Kind() != errors.KindConnection {
		t.Errorf("bad credentials: Kind() = %q (%v)", out.Kind(), out)
	}
}

func TestIntegrationDynamoDBLookup(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tableName := os.Getenv("DDB_TEST_TABLE_NAME")
	if tableName == "" {
		t.Skip("DDB_TEST_TABLE_NAME not set, skipping integration test")
	}

	cfg := config.Default()
	cfg.DynamoDB = config.DynamoDBConfig{
		Region:    os.Getenv("AWS_REGION"),
		Endpoint:  os.Getenv("DDB_TEST_ENDPOINT"),
		AccessKey: os.Getenv("AWS_ACCESS_KEY"),
		SecretKey: os.Getenv("AWS_SECRET_KEY"),
	}
	svc, err := userlookup.NewServiceFromConfig(cfg, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}

	out := svc.Lookup(context.Background(), "dynamodb://"+tableName, "alice'; DROP TABLE users;--")
	if out.Status != userlookup.StatusNotFound {
		t.Errorf("expected not found, got %v", out)
	}
	if out := svc.Lookup(context.Background(), "dynamodb://no-such-table-"+tableName, "alice"); out.Kind() != errors.KindQuery {
		t.Errorf("missing table: Kind() = %q (%v)", out.Kind(), out)
	}
}
