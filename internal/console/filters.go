package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"photojay_admin/internal/filter"
	"photojay_admin/internal/stream"
)

// CategoryWidget tracks the selected category it was last told about.
type CategoryWidget struct {
	mu       sync.Mutex
	selected *int64
	updates  int
}

func (w *CategoryWidget) onCategory(id *int64) {
	w.mu.Lock()
	w.selected = id
	w.updates++
	w.mu.Unlock()
}

// Selected returns the category the widget currently shows.
func (w *CategoryWidget) Selected() *int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selected
}

// Updates counts deliveries, the initial replay included.
func (w *CategoryWidget) Updates() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.updates
}

// ProductListWidget tracks both filter values independently of CategoryWidget.
type ProductListWidget struct {
	mu       sync.Mutex
	category *int64
	showAll  bool
}

func (w *ProductListWidget) onCategory(id *int64) {
	w.mu.Lock()
	w.category = id
	w.mu.Unlock()
}

func (w *ProductListWidget) onShowAll(v bool) {
	w.mu.Lock()
	w.showAll = v
	w.mu.Unlock()
}

// Describe summarizes what the list would show.
func (w *ProductListWidget) Describe() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	scope := "my products"
	if w.showAll {
		scope = "all products"
	}
	if w.category == nil {
		return scope + " in every category"
	}
	return fmt.Sprintf("%s in category %d", scope, *w.category)
}

// FilterPanel wires both widgets to the shared filter broadcast.
type FilterPanel struct {
	broadcast *filter.Broadcast
	out       io.Writer
	group     stream.Group

	Category *CategoryWidget
	Products *ProductListWidget
}

// NewFilterPanel subscribes each widget to b separately.
func NewFilterPanel(b *filter.Broadcast, out io.Writer) *FilterPanel {
	p := &FilterPanel{
		broadcast: b,
		out:       out,
		Category:  &CategoryWidget{},
		Products:  &ProductListWidget{},
	}
	p.group.Add(b.SubscribeSelectedCategoryID(p.Category.onCategory))
	p.group.Add(b.SubscribeSelectedCategoryID(p.Products.onCategory))
	p.group.Add(b.SubscribeShowAllProducts(p.Products.onShowAll))
	return p
}

// Handle runs the filter commands. handled is false for anything else.
func (p *FilterPanel) Handle(cmd string, args []string) (handled bool, err error) {
	switch cmd {
	case "category":
		if len(args) != 1 {
			return true, fmt.Errorf("usage: category <id|none>")
		}
		if strings.EqualFold(args[0], "none") {
			p.broadcast.SetSelectedCategoryID(nil)
		} else {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return true, fmt.Errorf("invalid category id %q", args[0])
			}
			p.broadcast.SetSelectedCategoryID(&id)
		}
	case "toggle":
		p.broadcast.ToggleShowAllProducts()
	case "showall":
		if len(args) != 1 {
			return true, fmt.Errorf("usage: showall on|off")
		}
		switch strings.ToLower(args[0]) {
		case "on":
			p.broadcast.SetShowAllProducts(true)
		case "off":
			p.broadcast.SetShowAllProducts(false)
		default:
			return true, fmt.Errorf("usage: showall on|off")
		}
	case "filters":
	default:
		return false, nil
	}

	p.Render()
	return true, nil
}

// Render prints what the product list currently shows.
func (p *FilterPanel) Render() {
	fmt.Fprintf(p.out, "Showing %s\n", p.Products.Describe())
}

// Close releases both widgets' subscriptions.
func (p *FilterPanel) Close() {
	p.group.Close()
}
