package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		uuid UUID NOT NULL UNIQUE DEFAULT uuid_generate_v4(),
		email VARCHAR(255) UNIQUE NOT NULL,
		username VARCHAR(255) NOT NULL,
		password VARCHAR(255) NOT NULL,
		refresh_token VARCHAR(255),
		roles TEXT[] NOT NULL DEFAULT '{AppUser}',
		status VARCHAR(50) NOT NULL DEFAULT 'Pending',
		first_name VARCHAR(255),
		last_name VARCHAR(255),
		phone VARCHAR(50),
		completed_welcome BOOLEAN NOT NULL DEFAULT FALSE,
		completed_additional_information BOOLEAN NOT NULL DEFAULT FALSE,
		metadata JSONB,
		last_login_time TIMESTAMP WITH TIME ZONE,
		deleted_at TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS auth_providers (
		id BIGSERIAL PRIMARY KEY,
		uuid UUID NOT NULL UNIQUE DEFAULT uuid_generate_v4(),
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		provider VARCHAR(50) NOT NULL,
		provider_id VARCHAR(255) NOT NULL,
		provider_data JSONB,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(user_id, provider)
	)`,

	`CREATE TABLE IF NOT EXISTS agents (
		id BIGSERIAL PRIMARY KEY,
		uuid UUID NOT NULL UNIQUE DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		description TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS agent_user_conversations (
		id BIGSERIAL PRIMARY KEY,
		uuid UUID NOT NULL UNIQUE DEFAULT uuid_generate_v4(),
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		agent_id BIGINT NOT NULL REFERENCES agents(id) ON DELETE CASCADE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS agent_user_messages (
		id BIGSERIAL PRIMARY KEY,
		uuid UUID NOT NULL UNIQUE DEFAULT uuid_generate_v4(),
		conversation_id BIGINT NOT NULL REFERENCES agent_user_conversations(id) ON DELETE CASCADE,
		sender VARCHAR(20) NOT NULL,
		content TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS collection_definitions (
		id BIGSERIAL PRIMARY KEY,
		uuid UUID NOT NULL UNIQUE DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		slug VARCHAR(255) NOT NULL UNIQUE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS collection_entries (
		id BIGSERIAL PRIMARY KEY,
		uuid UUID NOT NULL UNIQUE DEFAULT uuid_generate_v4(),
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		collection_definition_id BIGINT NOT NULL REFERENCES collection_definitions(id) ON DELETE CASCADE,
		data JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS audit_logs (
		id BIGSERIAL PRIMARY KEY,
		uuid UUID NOT NULL UNIQUE DEFAULT uuid_generate_v4(),
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		action VARCHAR(100) NOT NULL,
		resource VARCHAR(100) NOT NULL,
		resource_id VARCHAR(255),
		metadata JSONB,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS quota_definitions (
		id BIGSERIAL PRIMARY KEY,
		uuid UUID NOT NULL UNIQUE DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL UNIQUE,
		description TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS user_agent_quotas (
		id BIGSERIAL PRIMARY KEY,
		uuid UUID NOT NULL UNIQUE DEFAULT uuid_generate_v4(),
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		quota_definition_id BIGINT NOT NULL REFERENCES quota_definitions(id) ON DELETE CASCADE,
		current_usage BIGINT NOT NULL DEFAULT 0 CHECK (current_usage >= 0),
		quota_limit BIGINT NOT NULL DEFAULT 0,
		is_unlimited BOOLEAN NOT NULL DEFAULT FALSE,
		reset_date TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(user_id, quota_definition_id)
	)`,

	`CREATE TABLE IF NOT EXISTS quota_usage (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		quota_definition_id BIGINT NOT NULL REFERENCES quota_definitions(id) ON DELETE CASCADE,
		usage BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS quota_events (
		id BIGSERIAL PRIMARY KEY,
		uuid UUID NOT NULL UNIQUE DEFAULT uuid_generate_v4(),
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		quota_definition_id BIGINT NOT NULL REFERENCES quota_definitions(id) ON DELETE CASCADE,
		event_type VARCHAR(50) NOT NULL,
		amount BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_users_uuid ON users(uuid)`,
	`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
	`CREATE INDEX IF NOT EXISTS idx_auth_providers_user_id ON auth_providers(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_conversations_user_id ON agent_user_conversations(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_conversation_id ON agent_user_messages(conversation_id)`,
	`CREATE INDEX IF NOT EXISTS idx_collection_entries_user_id ON collection_entries(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_logs_user_id ON audit_logs(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_logs_created_at ON audit_logs(created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_user_agent_quotas_user_id ON user_agent_quotas(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_quota_usage_user_id ON quota_usage(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_quota_events_user_id ON quota_events(user_id)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
