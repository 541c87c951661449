package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			-- Create forms table
			CREATE TABLE forms (
				id UUID PRIMARY KEY,
				share_id UUID NOT NULL UNIQUE,
				owner VARCHAR(255),
				title VARCHAR(255) NOT NULL,
				steps JSONB NOT NULL DEFAULT '[]',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_forms_share_id ON forms(share_id);
			CREATE INDEX idx_forms_owner ON forms(owner);
			CREATE INDEX idx_forms_created_at ON forms(created_at);

			-- Create responses table
			CREATE TABLE responses (
				id UUID PRIMARY KEY,
				share_id UUID NOT NULL,
				steps JSONB NOT NULL DEFAULT '{}',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_responses_share_id ON responses(share_id);
			CREATE INDEX idx_responses_created_at ON responses(created_at);
		`,
		2: `
			-- Create users table
			CREATE TABLE users (
				id UUID PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				email VARCHAR(255) NOT NULL,
				password_hash VARCHAR(255) NOT NULL,
				verified BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE UNIQUE INDEX idx_users_email ON users(LOWER(email));
		`,
	}
}
