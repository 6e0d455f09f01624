// ABOUTME: Store interface and data types for solvedbot persistence
// ABOUTME: Defines User, Server, Channel, Membership and the sentinel errors callers match on

package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrConstraint is returned when a write violates a table constraint
var ErrConstraint = errors.New("constraint violation")

// Domain errors. Each wraps one of the base sentinels above so callers can match
// on either the specific or the general error with errors.Is.
var (
	ErrDuplicateHandle       = fmt.Errorf("handle already exists: %w", ErrConstraint)
	ErrUserNotFound          = fmt.Errorf("user %w", ErrNotFound)
	ErrInvalidHandle         = errors.New("handle must not be empty")
	ErrCorruptSolvedProblems = errors.New("solved problems column is not a JSON integer list")
	ErrStoreClosed           = errors.New("store is closed")
)

// User is a tracked competitive-programming account
type User struct {
	ID             int64
	Handle         string
	SolvedCount    int
	SolvedProblems []int
	LastCheckTime  time.Time // set once at creation
	LastUpdateTime time.Time // refreshed whenever SolvedProblems is written
}

// Server is a chat server (guild) that owns channels
type Server struct {
	ID   int64
	Name string
}

// Channel is a chat channel inside a server
type Channel struct {
	ID       int64
	Name     string
	ServerID int64
}

// Membership links one user to one channel within one server.
// Duplicate memberships are allowed; the store does not deduplicate them.
type Membership struct {
	ID        int64
	UserID    int64
	ChannelID int64
	ServerID  int64
}

// UserChannel is one row of GetUserChannels: a channel the user is mapped to,
// together with the server it belongs to.
type UserChannel struct {
	ChannelID   int64
	ChannelName string
	ServerID    int64
	ServerName  string
}

// Store defines the persistence operations used by the bot layer
type Store interface {
	// Users
	AddUser(ctx context.Context, handle string) (int64, error)
	GetUser(ctx context.Context, handle string) (*User, error)
	GetUserIDByHandle(ctx context.Context, handle string) (int64, bool, error)
	ListUsers(ctx context.Context) ([]*User, error)

	// UpdateUserSolvedProblems reports whether a user matched the handle.
	// An unknown handle is not an error.
	UpdateUserSolvedProblems(ctx context.Context, handle string, solved []int) (bool, error)

	// Servers and channels
	AddServer(ctx context.Context, name string) (int64, error)
	AddChannel(ctx context.Context, name string, serverID int64) (int64, error)

	// Memberships
	MapUserToChannel(ctx context.Context, handle string, channelID, serverID int64) (int64, error)
	GetUserChannels(ctx context.Context, handle string) ([]UserChannel, error)
	ListChannelMembers(ctx context.Context, channelID int64) ([]*User, error)

	// Close releases any resources held by the store
	Close() error
}
