package main

import "contractor/internal/infrastructure/storage/postgres"

// schema creates the tables the server and worker expect. Statements are
// idempotent so the seed can run against an existing database.
var schema = []postgres.BatchQuery{
	{SQL: `CREATE TABLE IF NOT EXISTS country (
		id        VARCHAR(3) PRIMARY KEY,
		name      TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`},
	{SQL: `CREATE TABLE IF NOT EXISTS industry (
		id        BIGSERIAL PRIMARY KEY,
		name      TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`},
	{SQL: `CREATE TABLE IF NOT EXISTS org_form (
		id        BIGSERIAL PRIMARY KEY,
		name      TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`},
	{SQL: `CREATE TABLE IF NOT EXISTS contractor (
		id                   VARCHAR(12) PRIMARY KEY,
		parent_id            VARCHAR(12) REFERENCES contractor (id),
		name                 TEXT NOT NULL,
		name_full            TEXT,
		inn                  TEXT,
		ogrn                 TEXT,
		country              VARCHAR(3) REFERENCES country (id),
		industry             BIGINT REFERENCES industry (id),
		org_form             BIGINT REFERENCES org_form (id),
		active_main_borrower BOOLEAN NOT NULL DEFAULT FALSE,
		is_active            BOOLEAN NOT NULL DEFAULT TRUE,
		create_date          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		modify_date          TIMESTAMPTZ,
		create_user_id       TEXT,
		modify_user_id       TEXT
	)`},
	{SQL: `CREATE INDEX IF NOT EXISTS idx_contractor_active ON contractor (is_active, id)`},
	{SQL: `CREATE TABLE IF NOT EXISTS sys_outbox (
		id             UUID PRIMARY KEY,
		aggregate_type TEXT NOT NULL,
		aggregate_id   TEXT NOT NULL,
		event_type     TEXT NOT NULL,
		payload        JSONB NOT NULL,
		status         TEXT NOT NULL DEFAULT 'pending',
		retry_count    INT NOT NULL DEFAULT 0,
		last_error     TEXT,
		next_retry_at  TIMESTAMPTZ,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		published_at   TIMESTAMPTZ
	)`},
	{SQL: `CREATE INDEX IF NOT EXISTS idx_sys_outbox_pending ON sys_outbox (status, created_at)`},
	{SQL: `CREATE TABLE IF NOT EXISTS sys_outbox_dlq (
		id             UUID PRIMARY KEY,
		aggregate_type TEXT NOT NULL,
		aggregate_id   TEXT NOT NULL,
		event_type     TEXT NOT NULL,
		payload        JSONB NOT NULL,
		status         TEXT NOT NULL,
		retry_count    INT NOT NULL,
		last_error     TEXT,
		next_retry_at  TIMESTAMPTZ,
		created_at     TIMESTAMPTZ NOT NULL,
		published_at   TIMESTAMPTZ,
		failed_at      TIMESTAMPTZ NOT NULL,
		failure_reason TEXT
	)`},
}
