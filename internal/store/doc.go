// Package store provides persistent storage for solvedbot using SQLite.
//
// # Data Models
//
//   - User: a tracked handle with its solved-problem list and check/update times
//   - Server: a chat server
//   - Channel: a channel inside a server
//   - Membership: a user following a channel (duplicates allowed)
//
// SQLiteStore implements Store. MockStore is an in-memory Store with the same
// error semantics for tests of code built on top of this package.
//
// # Opening a store
//
// Construct one store at startup and pass it to whatever needs it:
//
//	s, err := store.NewSQLiteStore(store.Options{Path: cfg.Database.Path})
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
// Entry points without a place to hold the store can use Shared, which opens
// the store once per process and hands the same instance to every caller.
//
// # Schema
//
// Four tables are created on open with CREATE TABLE IF NOT EXISTS: Users,
// Servers, Channels and UserChannelMapping. Opening an existing database leaves
// its rows alone. Foreign keys are declared but only enforced when
// Options.EnforceForeignKeys is set.
//
// Users.solved_problems holds a JSON integer array (see EncodeSolvedProblems).
// Its format version is kept in PRAGMA user_version.
//
// # Error Handling
//
//   - ErrDuplicateHandle (is ErrConstraint): AddUser with a taken handle
//   - ErrUserNotFound (is ErrNotFound): MapUserToChannel with an unknown handle
//   - ErrNotFound: GetUser with an unknown handle
//   - ErrStoreClosed: any call after Close
//
// UpdateUserSolvedProblems on an unknown handle is not an error; it returns
// false. GetUserIDByHandle reports a missing user through its boolean result.
//
// All methods accept context.Context for cancellation support.
package store
