package console

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"
	"text/tabwriter"

	"photojay_admin/internal/model"
	"photojay_admin/internal/notification"
	"photojay_admin/internal/session"
	"photojay_admin/internal/stream"
)

// Navbar shows the user's initials, the unread badge and the notification list.
type Navbar struct {
	claims session.Claims
	store  *notification.Store
	out    io.Writer
	group  stream.Group

	mu     sync.Mutex
	unread int
	list   []model.Notification
}

// NewNavbar subscribes the navbar to store for as long as it is open.
func NewNavbar(claims session.Claims, store *notification.Store, out io.Writer) *Navbar {
	n := &Navbar{claims: claims, store: store, out: out}
	n.group.Add(store.SubscribeUnreadCount(func(count int) {
		n.mu.Lock()
		n.unread = count
		n.mu.Unlock()
	}))
	n.group.Add(store.Subscribe(func(list []model.Notification) {
		n.mu.Lock()
		n.list = list
		n.mu.Unlock()
	}))
	return n
}

// Load fetches the notification list.
func (n *Navbar) Load(ctx context.Context) error {
	_, err := n.store.FetchAll(ctx)
	return err
}

// Unread returns the badge value last delivered by the store.
func (n *Navbar) Unread() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.unread
}

// Render prints the header line.
func (n *Navbar) Render() {
	badge := ""
	if u := n.Unread(); u > 0 {
		badge = fmt.Sprintf(" (%d unread)", u)
	}
	fmt.Fprintf(n.out, "[%s] %s%s\n", n.claims.Initials(), n.claims.UserName, badge)
}

// RenderList prints every notification with its icon.
func (n *Navbar) RenderList() {
	n.mu.Lock()
	list := n.list
	n.mu.Unlock()

	if len(list) == 0 {
		fmt.Fprintln(n.out, "No notifications")
		return
	}

	tw := tabwriter.NewWriter(n.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tICON\tSTATUS\tCREATED\tMESSAGE")
	for _, notif := range list {
		status := "unread"
		if notif.IsRead {
			status = "read"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			notif.ID, notification.Icon(notif.Kind), status, notif.CreatedAt.Format("2006-01-02 15:04"), notif.Message)
	}
	tw.Flush()
}

// Handle runs the notification commands. handled is false for anything else.
func (n *Navbar) Handle(ctx context.Context, cmd string, args []string) (handled bool, err error) {
	switch cmd {
	case "notifications":
		if err := n.Load(ctx); err != nil {
			return true, err
		}
		n.Render()
		n.RenderList()
		return true, nil

	case "read":
		if len(args) != 1 {
			return true, fmt.Errorf("usage: read <id>")
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return true, fmt.Errorf("invalid notification id %q", args[0])
		}
		if err := n.store.MarkRead(ctx, id); err != nil {
			return true, err
		}
		n.Render()
		return true, nil

	case "readall":
		if err := n.store.MarkAllRead(ctx); err != nil {
			return true, err
		}
		n.Render()
		return true, nil

	case "badge":
		server, err := n.store.CheckUnreadCount(ctx)
		if err != nil {
			return true, err
		}
		fmt.Fprintf(n.out, "Unread: %d local, %d server\n", n.Unread(), server)
		return true, nil
	}
	return false, nil
}

// Close releases the store subscriptions and empties the notification snapshot.
func (n *Navbar) Close() {
	n.group.Close()
	n.store.Clear()
}
