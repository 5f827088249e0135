package main

import (
	"context"
	"fmt"

	"github.com/pigeonhole-ngx/pigeonhole/internal/config"
	"github.com/pigeonhole-ngx/pigeonhole/internal/engine"
	"github.com/pigeonhole-ngx/pigeonhole/internal/llm"
	"github.com/pigeonhole-ngx/pigeonhole/internal/paperless"
	"github.com/pigeonhole-ngx/pigeonhole/internal/reconcile"
	"github.com/pigeonhole-ngx/pigeonhole/internal/service"
	"github.com/pigeonhole-ngx/pigeonhole/internal/storage"
)

// initStorage opens the run-history database and applies migrations.
func initStorage(ctx context.Context) (service.RunStore, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// initPaperless builds the document store client from config.
func initPaperless() (*paperless.Client, error) {
	return paperless.NewClient(config.Paperless())
}

// initSession builds a reconciliation session over the given store.
func initSession(store service.EntityStore) (*reconcile.Session, error) {
	cfg, err := config.Reconcile()
	if err != nil {
		return nil, err
	}
	reconciler, err := reconcile.New(store, cfg)
	if err != nil {
		return nil, err
	}
	return reconcile.NewSession(reconciler), nil
}

// initEngine wires the full processing pipeline: paperless client,
// classifier, session and run history.
func initEngine(ctx context.Context, dryRun bool) (*engine.Engine, service.RunStore, error) {
	docs, err := initPaperless()
	if err != nil {
		return nil, nil, err
	}

	client, err := llm.NewClient(config.LLM())
	if err != nil {
		return nil, nil, err
	}
	classifier := llm.NewClassifier(client, service.RetryOptions{})

	session, err := initSession(docs)
	if err != nil {
		return nil, nil, err
	}

	runs, err := initStorage(ctx)
	if err != nil {
		return nil, nil, err
	}

	cfg := engine.Config{
		CustomFields: config.CustomFields(),
		DryRun:       dryRun,
	}
	return engine.New(docs, classifier, session, runs, cfg), runs, nil
}
