// ABOUTME: Server, channel and membership store methods
// ABOUTME: Memberships join users to channels; server/channel ids are not validated

package store

import (
	"context"
	"database/sql"
	"fmt"
)

// AddServer inserts a server and returns its id
func (s *SQLiteStore) AddServer(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO Servers (name) VALUES (?)`, name)
		if err != nil {
			return fmt.Errorf("inserting server: %w", err)
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}

	s.logger.Debug("added server", "id", id, "name", name)
	return id, nil
}

// AddChannel inserts a channel owned by serverID and returns its id.
// serverID is stored as given; it is only checked when foreign keys are enforced.
func (s *SQLiteStore) AddChannel(ctx context.Context, name string, serverID int64) (int64, error) {
	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO Channels (name, server_id) VALUES (?, ?)`, name, serverID)
		if err != nil {
			if isConstraintViolation(err) {
				return fmt.Errorf("inserting channel for server %d: %w", serverID, ErrConstraint)
			}
			return fmt.Errorf("inserting channel: %w", err)
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}

	s.logger.Debug("added channel", "id", id, "name", name, "server_id", serverID)
	return id, nil
}

// MapUserToChannel records that the user with handle follows channelID in
// serverID, and returns the new membership id. The handle lookup and the insert
// run in one transaction. Returns ErrUserNotFound if the handle is unknown.
// Mapping the same triple twice creates two memberships.
func (s *SQLiteStore) MapUserToChannel(ctx context.Context, handle string, channelID, serverID int64) (int64, error) {
	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		userID, ok, err := lookupUserID(ctx, tx, handle)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %q", ErrUserNotFound, handle)
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO UserChannelMapping (user_id, channel_id, server_id)
			VALUES (?, ?, ?)
		`, userID, channelID, serverID)
		if err != nil {
			if isConstraintViolation(err) {
				return fmt.Errorf("inserting membership: %w", ErrConstraint)
			}
			return fmt.Errorf("inserting membership: %w", err)
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}

	s.logger.Debug("mapped user to channel", "handle", handle, "channel_id", channelID, "server_id", serverID)
	return id, nil
}

// GetUserChannels lists the channels the user is mapped to, with their servers,
// in membership order. An unknown handle yields an empty slice.
func (s *SQLiteStore) GetUserChannels(ctx context.Context, handle string) ([]UserChannel, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	query := `
		SELECT Channels.id, Channels.name, Servers.id, Servers.name
		FROM UserChannelMapping
		INNER JOIN Users ON UserChannelMapping.user_id = Users.id
		INNER JOIN Channels ON UserChannelMapping.channel_id = Channels.id
		INNER JOIN Servers ON UserChannelMapping.server_id = Servers.id
		WHERE Users.handle = ?
		ORDER BY UserChannelMapping.id
	`

	rows, err := s.db.QueryContext(ctx, query, handle)
	if err != nil {
		return nil, fmt.Errorf("querying user channels: %w", err)
	}
	defer rows.Close()

	channels := []UserChannel{}
	for rows.Next() {
		var uc UserChannel
		if err := rows.Scan(&uc.ChannelID, &uc.ChannelName, &uc.ServerID, &uc.ServerName); err != nil {
			return nil, fmt.Errorf("scanning user channel: %w", err)
		}
		channels = append(channels, uc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user channels: %w", err)
	}

	return channels, nil
}

// ListChannelMembers returns the distinct users mapped to channelID, ordered by id
func (s *SQLiteStore) ListChannelMembers(ctx context.Context, channelID int64) ([]*User, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + userColumns + `
		FROM Users
		WHERE id IN (SELECT user_id FROM UserChannelMapping WHERE channel_id = ?)
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, channelID)
	if err != nil {
		return nil, fmt.Errorf("querying channel members: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}
