package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"syncwire/internal/pkg/randx"
)

// PostgresStore implements Store on top of a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an initialized connection pool. Migrations are
// expected to have run already (see the db package).
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const messageColumns = `id, sender, recipient, channel_id, message_type, content, file_url, audio_url, status, created_at`

func scanMessage(row pgx.Row) (Message, error) {
	var m Message
	err := row.Scan(
		&m.ID, &m.Sender, &m.Recipient, &m.ChannelID,
		&m.Type, &m.Content, &m.FileURL, &m.AudioURL,
		&m.Status, &m.Timestamp,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Message{}, ErrNotFound
	}
	if err != nil {
		return Message{}, err
	}
	return m, nil
}

func collectMessages(rows pgx.Rows) ([]Message, error) {
	defer rows.Close()

	var out []Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateMessage(ctx context.Context, m Message) (Message, error) {
	m.ID = randx.ID()
	m.Status = StatusSent
	if m.Type == "" {
		m.Type = TypeText
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO messages (id, sender, recipient, channel_id, message_type, content, file_url, audio_url, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		RETURNING `+messageColumns,
		m.ID, m.Sender, m.Recipient, m.ChannelID, m.Type, m.Content, m.FileURL, m.AudioURL, m.Status,
	)
	return scanMessage(row)
}

func (s *PostgresStore) GetMessage(ctx context.Context, id string) (Message, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, id)
	return scanMessage(row)
}

// UpdateMessageStatus writes the status and returns the row as stored after
// the write, so callers always broadcast the database's view of the message.
func (s *PostgresStore) UpdateMessageStatus(ctx context.Context, id string, status MessageStatus) (Message, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE messages SET status = $2 WHERE id = $1
		RETURNING `+messageColumns,
		id, status,
	)
	return scanMessage(row)
}

func (s *PostgresStore) FindUnread(ctx context.Context, sender, recipient string) ([]Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE channel_id = '' AND sender = $1 AND recipient = $2 AND status = $3
		ORDER BY created_at ASC`,
		sender, recipient, StatusSent,
	)
	if err != nil {
		return nil, err
	}
	return collectMessages(rows)
}

func (s *PostgresStore) ListDirectMessages(ctx context.Context, a, b string) ([]Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE channel_id = '' AND ((sender = $1 AND recipient = $2) OR (sender = $2 AND recipient = $1))
		ORDER BY created_at ASC`,
		a, b,
	)
	if err != nil {
		return nil, err
	}
	return collectMessages(rows)
}

func (s *PostgresStore) DeleteDirectMessages(ctx context.Context, a, b string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM messages
		WHERE channel_id = '' AND ((sender = $1 AND recipient = $2) OR (sender = $2 AND recipient = $1))`,
		a, b,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) CreateChannel(ctx context.Context, c Channel) (Channel, error) {
	c.ID = randx.ID()

	row := s.pool.QueryRow(ctx, `
		INSERT INTO channels (id, name, admin, members, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING id, name, admin, members, created_at`,
		c.ID, c.Name, c.Admin, c.Members,
	)

	var out Channel
	if err := row.Scan(&out.ID, &out.Name, &out.Admin, &out.Members, &out.CreatedAt); err != nil {
		return Channel{}, err
	}
	return out, nil
}

func (s *PostgresStore) GetChannel(ctx context.Context, id string) (Channel, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, admin, members, created_at FROM channels WHERE id = $1`, id)

	var c Channel
	err := row.Scan(&c.ID, &c.Name, &c.Admin, &c.Members, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Channel{}, ErrNotFound
	}
	if err != nil {
		return Channel{}, err
	}
	return c, nil
}

func (s *PostgresStore) UpdateChannelMembers(ctx context.Context, id string, members []string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE channels SET members = $2 WHERE id = $1`, id, members)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteChannel(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM channels WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) AttachToChannel(ctx context.Context, channelID, messageID string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO channel_messages (channel_id, message_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`,
		channelID, messageID,
	)
	return err
}

func (s *PostgresStore) ListChannelMessages(ctx context.Context, channelID string) ([]Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE channel_id = $1
		ORDER BY created_at ASC`,
		channelID,
	)
	if err != nil {
		return nil, err
	}
	return collectMessages(rows)
}

func (s *PostgresStore) DeleteChannelMessages(ctx context.Context, channelID string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM messages WHERE channel_id = $1`, channelID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
