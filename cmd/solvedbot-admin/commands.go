// ABOUTME: Subcommand implementations for solvedbot-admin
// ABOUTME: Each command runs against a store.Store and prints to the admin's writer

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/2389/solvedbot/internal/store"
)

var commands = []string{
	"init", "add-user", "add-server", "add-channel", "map",
	"solved", "channels", "members", "whois", "users", "demo",
}

func isCommand(name string) bool {
	return slices.Contains(commands, name)
}

type admin struct {
	store  store.Store
	out    io.Writer
	dbPath string
}

func (a *admin) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "init":
		return a.cmdInit()
	case "add-user":
		return a.cmdAddUser(ctx, args)
	case "add-server":
		return a.cmdAddServer(ctx, args)
	case "add-channel":
		return a.cmdAddChannel(ctx, args)
	case "map":
		return a.cmdMap(ctx, args)
	case "solved":
		return a.cmdSolved(ctx, args)
	case "channels":
		return a.cmdChannels(ctx, args)
	case "members":
		return a.cmdMembers(ctx, args)
	case "whois":
		return a.cmdWhois(ctx, args)
	case "users":
		return a.cmdUsers(ctx)
	case "demo":
		return a.cmdDemo(ctx)
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func (a *admin) cmdInit() error {
	// Opening the store already bootstrapped the schema
	green := color.New(color.FgGreen)
	green.Fprintf(a.out, "Database ready at %s\n", a.dbPath)
	return nil
}

func (a *admin) cmdAddUser(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: add-user <handle>")
	}
	id, err := a.store.AddUser(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added user %s (id %d)\n", args[0], id)
	return nil
}

func (a *admin) cmdAddServer(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: add-server <name>")
	}
	id, err := a.store.AddServer(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added server %s (id %d)\n", args[0], id)
	return nil
}

func (a *admin) cmdAddChannel(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: add-channel <name> <server-id>")
	}
	serverID, err := parseIntArg(args[1])
	if err != nil {
		return fmt.Errorf("server-id: %w", err)
	}
	id, err := a.store.AddChannel(ctx, args[0], serverID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added channel %s (id %d) on server %d\n", args[0], id, serverID)
	return nil
}

func (a *admin) cmdMap(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: map <handle> <channel-id> <server-id>")
	}
	channelID, err := parseIntArg(args[1])
	if err != nil {
		return fmt.Errorf("channel-id: %w", err)
	}
	serverID, err := parseIntArg(args[2])
	if err != nil {
		return fmt.Errorf("server-id: %w", err)
	}
	if _, err := a.store.MapUserToChannel(ctx, args[0], channelID, serverID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Mapped %s to channel %d on server %d\n", args[0], channelID, serverID)
	return nil
}

func (a *admin) cmdSolved(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: solved <handle> [problem-id...]")
	}
	handle := args[0]
	solved := make([]int, 0, len(args)-1)
	for _, s := range args[1:] {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid problem id %q", s)
		}
		solved = append(solved, n)
	}

	ok, err := a.store.UpdateUserSolvedProblems(ctx, handle, solved)
	if err != nil {
		return err
	}
	if !ok {
		color.New(color.FgYellow).Fprintf(a.out, "No user %s; nothing updated\n", handle)
		return nil
	}
	fmt.Fprintf(a.out, "Recorded %d solved problems for %s\n", len(solved), handle)
	return nil
}

func (a *admin) cmdChannels(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: channels <handle>")
	}
	channels, err := a.store.GetUserChannels(ctx, args[0])
	if err != nil {
		return err
	}
	a.printChannels(args[0], channels)
	return nil
}

func (a *admin) printChannels(handle string, channels []store.UserChannel) {
	cyan := color.New(color.FgCyan)
	fmt.Fprintln(a.out)
	cyan.Fprintf(a.out, "  Channels for %s\n", handle)
	cyan.Fprintln(a.out, "  "+strings.Repeat("-", len("Channels for ")+len(handle)))

	if len(channels) == 0 {
		fmt.Fprintln(a.out, "  (no channels)")
		fmt.Fprintln(a.out)
		return
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  CHANNEL ID\tCHANNEL\tSERVER ID\tSERVER")
	fmt.Fprintln(w, "  ----------\t-------\t---------\t------")
	for _, c := range channels {
		fmt.Fprintf(w, "  %d\t%s\t%d\t%s\n", c.ChannelID, c.ChannelName, c.ServerID, c.ServerName)
	}
	w.Flush()
	fmt.Fprintln(a.out)
}

func (a *admin) cmdMembers(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: members <channel-id>")
	}
	channelID, err := parseIntArg(args[0])
	if err != nil {
		return fmt.Errorf("channel-id: %w", err)
	}
	users, err := a.store.ListChannelMembers(ctx, channelID)
	if err != nil {
		return err
	}
	a.printUsers(fmt.Sprintf("Members of channel %d", channelID), users)
	return nil
}

func (a *admin) cmdWhois(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: whois <handle>")
	}
	u, err := a.store.GetUser(ctx, args[0])
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no user with handle %q", args[0])
	}
	if err != nil {
		return err
	}

	yellow := color.New(color.FgYellow)
	fmt.Fprintln(a.out)
	yellow.Fprintf(a.out, "  %s\n", u.Handle)
	fmt.Fprintf(a.out, "  ID:            %d\n", u.ID)
	fmt.Fprintf(a.out, "  Solved:        %d\n", u.SolvedCount)
	fmt.Fprintf(a.out, "  Problems:      %s\n", formatProblems(u.SolvedProblems))
	fmt.Fprintf(a.out, "  Last checked:  %s\n", u.LastCheckTime.Local().Format("Jan 02 15:04"))
	fmt.Fprintf(a.out, "  Last updated:  %s\n", u.LastUpdateTime.Local().Format("Jan 02 15:04"))
	fmt.Fprintln(a.out)
	return nil
}

func (a *admin) cmdUsers(ctx context.Context) error {
	users, err := a.store.ListUsers(ctx)
	if err != nil {
		return err
	}
	a.printUsers("Users", users)
	return nil
}

func (a *admin) printUsers(title string, users []*store.User) {
	cyan := color.New(color.FgCyan)
	fmt.Fprintln(a.out)
	cyan.Fprintf(a.out, "  %s\n", title)
	cyan.Fprintln(a.out, "  "+strings.Repeat("-", len(title)))

	if len(users) == 0 {
		fmt.Fprintln(a.out, "  (no users)")
		fmt.Fprintln(a.out)
		return
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tHANDLE\tSOLVED\tUPDATED")
	fmt.Fprintln(w, "  --\t------\t------\t-------")
	for _, u := range users {
		fmt.Fprintf(w, "  %d\t%s\t%d\t%s\n", u.ID, u.Handle, u.SolvedCount, u.LastUpdateTime.Local().Format("Jan 02 15:04"))
	}
	w.Flush()
	fmt.Fprintln(a.out)
}

// cmdDemo loads the sample dataset the bot has always shipped with:
// one user on three channels across two servers.
func (a *admin) cmdDemo(ctx context.Context) error {
	const handle = "user1"

	if _, err := a.store.AddUser(ctx, handle); err != nil && !errors.Is(err, store.ErrDuplicateHandle) {
		return err
	}

	server1, err := a.store.AddServer(ctx, "Server1")
	if err != nil {
		return err
	}
	server2, err := a.store.AddServer(ctx, "Server2")
	if err != nil {
		return err
	}

	type demoChannel struct {
		name     string
		serverID int64
	}
	for _, c := range []demoChannel{
		{"Channel1", server1},
		{"Channel2", server1},
		{"Channel3", server2},
	} {
		channelID, err := a.store.AddChannel(ctx, c.name, c.serverID)
		if err != nil {
			return err
		}
		if _, err := a.store.MapUserToChannel(ctx, handle, channelID, c.serverID); err != nil {
			return err
		}
	}

	if _, err := a.store.UpdateUserSolvedProblems(ctx, handle, []int{1001, 1002, 1003}); err != nil {
		return err
	}

	channels, err := a.store.GetUserChannels(ctx, handle)
	if err != nil {
		return err
	}
	a.printChannels(handle, channels)
	return nil
}

func parseIntArg(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return n, nil
}

func formatProblems(ids []int) string {
	if len(ids) == 0 {
		return "(none)"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}
