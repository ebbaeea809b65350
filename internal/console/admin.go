package console

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync/atomic"
	"text/tabwriter"

	"photojay_admin/internal/model"
	"photojay_admin/internal/moderation"
	"photojay_admin/internal/stream"
)

var adminCommands = map[string]bool{
	"stats": true, "pending": true, "all": true, "sort": true,
	"next": true, "prev": true, "page": true, "reload": true,
	"approve": true, "reject": true, "reason": true, "confirm": true,
	"cancel": true, "vip": true, "show": true, "close": true,
}

// AdminPanel renders the moderation table and runs the moderation commands.
type AdminPanel struct {
	view  *moderation.View
	out   io.Writer
	group stream.Group

	revision atomic.Uint64
}

// NewAdminPanel subscribes the panel to view for as long as it is open.
func NewAdminPanel(view *moderation.View, out io.Writer) *AdminPanel {
	p := &AdminPanel{view: view, out: out}
	p.group.Add(view.Subscribe(func(rev uint64) {
		p.revision.Store(rev)
	}))
	return p
}

// View exposes the underlying moderation view.
func (p *AdminPanel) View() *moderation.View {
	return p.view
}

// Revision returns the last view revision the panel was told about.
func (p *AdminPanel) Revision() uint64 {
	return p.revision.Load()
}

// Load fetches stats and the active collection.
func (p *AdminPanel) Load(ctx context.Context) error {
	return p.view.LoadAdminData(ctx)
}

// Handle runs one moderation command. rest is the raw text after the command word.
func (p *AdminPanel) Handle(ctx context.Context, cmd string, args []string, rest string) (handled bool, err error) {
	switch cmd {
	case "stats":
		p.RenderStats()
	case "pending", "all":
		if err := p.view.SwitchView(ctx, model.ViewMode(cmd)); err != nil {
			return true, err
		}
		p.Render()
	case "reload":
		if err := p.view.Reload(ctx); err != nil {
			return true, err
		}
		p.Render()
	case "sort":
		if len(args) != 1 {
			return true, fmt.Errorf("usage: sort <title|userName|createdAt|status>")
		}
		field, ok := model.ParseSortField(args[0])
		if !ok {
			return true, fmt.Errorf("%w: %s", model.ErrUnknownSortField, args[0])
		}
		if err := p.view.SortBy(field); err != nil {
			return true, err
		}
		p.Render()
	case "next":
		if !p.view.NextPage() {
			fmt.Fprintln(p.out, "Already on the last page")
		}
		p.Render()
	case "prev":
		if !p.view.PreviousPage() {
			fmt.Fprintln(p.out, "Already on the first page")
		}
		p.Render()
	case "page":
		p.Render()
	case "approve":
		id, err := listingArg(cmd, args)
		if err != nil {
			return true, err
		}
		if err := p.view.Approve(ctx, id); err != nil {
			return true, err
		}
		fmt.Fprintf(p.out, "Approved listing %d\n", id)
		p.Render()
	case "reject":
		id, err := listingArg(cmd, args)
		if err != nil {
			return true, err
		}
		if err := p.view.OpenReject(id); err != nil {
			return true, err
		}
		p.RenderRejectModal()
	case "reason":
		p.view.SetRejectReason(rest)
		p.RenderRejectModal()
	case "confirm":
		modal := p.view.RejectModal()
		if err := p.view.ConfirmReject(ctx); err != nil {
			return true, err
		}
		fmt.Fprintf(p.out, "Rejected listing %d\n", modal.Listing.ID)
		p.Render()
	case "cancel":
		p.view.CancelReject()
		fmt.Fprintln(p.out, "Rejection cancelled")
	case "vip":
		id, err := listingArg(cmd, args)
		if err != nil {
			return true, err
		}
		if err := p.view.ToggleVIP(ctx, id); err != nil {
			return true, err
		}
		fmt.Fprintf(p.out, "Toggled VIP on listing %d\n", id)
		p.Render()
	case "show":
		id, err := listingArg(cmd, args)
		if err != nil {
			return true, err
		}
		if err := p.view.ViewDetails(id); err != nil {
			return true, err
		}
		p.RenderDetails()
	case "close":
		p.view.CloseDetails()
	default:
		return false, nil
	}
	return true, nil
}

func listingArg(cmd string, args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: %s <id>", cmd)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid listing id %q", args[0])
	}
	return id, nil
}

// RenderStats prints the dashboard counters.
func (p *AdminPanel) RenderStats() {
	s := p.view.Stats()
	tw := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TOTAL\tPENDING\tAPPROVED\tREJECTED\tVIP\tUSERS")
	fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%d\n",
		s.TotalProducts, s.PendingProducts, s.ApprovedProducts, s.RejectedProducts, s.VIPProducts, s.TotalUsers)
	tw.Flush()
}

// Render prints the visible page of the moderation table.
func (p *AdminPanel) Render() {
	state := p.view.State()
	page := p.view.VisiblePage()

	fmt.Fprintf(p.out, "%s listings, sorted by %s %s, page %d/%d (%d total)\n",
		state.ViewMode, state.SortField, state.SortOrder, state.CurrentPage, p.view.TotalPages(), p.view.TotalItems())
	if len(page) == 0 {
		fmt.Fprintln(p.out, "No listings")
		return
	}

	tw := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tOWNER\tSTATUS\tVIP\tCREATED")
	for _, l := range page {
		vip := ""
		if l.IsVIP {
			vip = "*"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			l.ID, l.Title, l.Owner.UserName, l.Status, vip, l.CreatedAt.Format("2006-01-02 15:04"))
	}
	tw.Flush()
}

// RenderRejectModal prints the staged rejection.
func (p *AdminPanel) RenderRejectModal() {
	m := p.view.RejectModal()
	if !m.Open {
		fmt.Fprintln(p.out, "No listing staged for rejection")
		return
	}
	fmt.Fprintf(p.out, "Reject %d %q, reason: %q (type reason <text>, then confirm or cancel)\n",
		m.Listing.ID, m.Listing.Title, m.Reason)
}

// RenderDetails prints the listing open in the detail panel.
func (p *AdminPanel) RenderDetails() {
	l, ok := p.view.Selected()
	if !ok {
		return
	}
	tw := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%d\n", l.ID)
	fmt.Fprintf(tw, "Title\t%s\n", l.Title)
	fmt.Fprintf(tw, "Description\t%s\n", l.Description)
	fmt.Fprintf(tw, "Owner\t%s\n", l.Owner.UserName)
	fmt.Fprintf(tw, "Status\t%s\n", l.Status)
	fmt.Fprintf(tw, "VIP\t%t\n", l.IsVIP)
	fmt.Fprintf(tw, "Created\t%s\n", l.CreatedAt.Format("2006-01-02 15:04:05"))
	tw.Flush()
}

// Close releases the view subscription and clears the view.
func (p *AdminPanel) Close() {
	p.group.Close()
	p.view.Close()
}
