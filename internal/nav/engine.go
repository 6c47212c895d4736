// Package nav is the state machine behind the interactive explorer. It
// tracks the current position in the organization tree, keeps a history
// stack for back navigation, and computes the selectable items for the
// presentation layer. It never mutates the loaded data.
package nav

import (
	"fmt"
	"strings"

	"github.com/orgmap/orgmap/internal/model"
)

// State identifies where in the hierarchy the session currently is.
type State int

const (
	StateRoot State = iota
	StateOU
	StateAccountDetail
	StateExit
)

func (s State) String() string {
	switch s {
	case StateRoot:
		return "root"
	case StateOU:
		return "ou"
	case StateAccountDetail:
		return "account"
	case StateExit:
		return "exit"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ItemKind tags a selectable item so the presentation layer can style
// OUs and accounts differently.
type ItemKind int

const (
	ItemOU ItemKind = iota
	ItemAccount
)

// Item is one selectable entry at the current position.
type Item struct {
	ID       string
	Kind     ItemKind
	Label    string // rendered text
	Name     string // bare name, for breadcrumbs and filtering
	Accounts int    // total accounts under an OU item, zero for accounts
}

// View is everything the presentation layer needs to render the current
// position. Access is non-nil only in the account detail state.
type View struct {
	State      State
	Title      string
	Breadcrumb string
	Items      []Item
	Access     *model.AccountAccess
}

// ExitID is the sentinel item id that ends the session from any state.
const ExitID = "__exit__"

// RootLabel is the fixed first breadcrumb segment.
const RootLabel = "Root"

// DefaultPageSize bounds one page of selectable items.
const DefaultPageSize = 100

type position struct {
	state State
	id    string // OU or account id, empty at root
}

// Engine holds the navigation session state over an immutable
// ExplorerData. It is not safe for concurrent use; a session has a
// single input source.
type Engine struct {
	data    *model.ExplorerData
	ousByID map[string]*model.OrganizationalUnit

	current position
	history []position
	lastErr error
}

// NewEngine builds an engine positioned at the root. A nil model is a
// programmer error, not a runtime condition, so it panics.
func NewEngine(data *model.ExplorerData) *Engine {
	if data == nil || data.Organization == nil {
		panic("nav: NewEngine called with nil explorer data")
	}
	e := &Engine{
		data:    data,
		ousByID: make(map[string]*model.OrganizationalUnit),
		current: position{state: StateRoot},
	}
	data.Organization.WalkOUs(func(ou *model.OrganizationalUnit) {
		e.ousByID[ou.ID] = ou
	})
	return e
}

// State returns the current state.
func (e *Engine) State() State { return e.current.state }

// LastErr returns the most recent defensive-navigation error, or nil.
// It is cleared by the next successful transition.
func (e *Engine) LastErr() error { return e.lastErr }

// Select applies a user selection by item id. Selecting an OU or an
// account pushes the current position onto the history stack; ExitID
// ends the session from any state. An id that does not resolve resets
// the engine to the root and reports false, recording the error for
// the controller to surface.
func (e *Engine) Select(itemID string) bool {
	if e.current.state == StateExit {
		return false
	}
	if itemID == ExitID {
		e.current = position{state: StateExit}
		e.history = nil
		e.lastErr = nil
		return true
	}

	if ou, ok := e.ousByID[itemID]; ok {
		e.history = append(e.history, e.current)
		e.current = position{state: StateOU, id: ou.ID}
		e.lastErr = nil
		return true
	}
	if _, ok := e.data.Organization.AccountByID(itemID); ok {
		e.history = append(e.history, e.current)
		e.current = position{state: StateAccountDetail, id: itemID}
		e.lastErr = nil
		return true
	}

	e.lastErr = fmt.Errorf("unknown item %q selected, returning to root", itemID)
	e.current = position{state: StateRoot}
	e.history = nil
	return false
}

// Back pops the history stack. At the root (empty stack) it is a no-op
// reporting false.
func (e *Engine) Back() bool {
	if len(e.history) == 0 {
		return false
	}
	e.current = e.history[len(e.history)-1]
	e.history = e.history[:len(e.history)-1]
	return true
}

// CurrentView computes the view for the current position.
func (e *Engine) CurrentView() View {
	v := View{
		State:      e.current.state,
		Breadcrumb: e.Breadcrumb(0),
	}
	switch e.current.state {
	case StateRoot:
		v.Title = RootLabel
		v.Items = e.currentItems()
	case StateOU:
		if ou, ok := e.ousByID[e.current.id]; ok {
			v.Title = ou.Name
		}
		v.Items = e.currentItems()
	case StateAccountDetail:
		if acct, ok := e.data.Organization.AccountByID(e.current.id); ok {
			v.Title = acct.Label()
			access := e.data.AccessFor(acct)
			v.Access = &access
		}
	}
	return v
}

// currentItems lists the direct children of the current position: one
// level of lookahead, OUs before accounts.
func (e *Engine) currentItems() []Item {
	var ous []*model.OrganizationalUnit
	var accounts []*model.Account

	switch e.current.state {
	case StateRoot:
		ous = e.data.Organization.RootOUs
		accounts = e.data.Organization.RootAccounts
	case StateOU:
		ou, ok := e.ousByID[e.current.id]
		if !ok {
			return nil
		}
		ous = ou.ChildOUs
		accounts = ou.Accounts
	default:
		return nil
	}

	items := make([]Item, 0, len(ous)+len(accounts))
	for _, ou := range ous {
		total := len(ou.AllAccounts())
		items = append(items, Item{
			ID:       ou.ID,
			Kind:     ItemOU,
			Label:    fmt.Sprintf("%s (%d accounts)", ou.Name, total),
			Name:     ou.Name,
			Accounts: total,
		})
	}
	for _, acct := range accounts {
		items = append(items, Item{
			ID:    acct.ID,
			Kind:  ItemAccount,
			Label: acct.Label(),
			Name:  acct.Name,
		})
	}
	return items
}

// ItemsPage returns a bounded page of the current selectable items
// starting at offset, plus the offset of the next page, or -1 when
// there is none. A size of zero or less means DefaultPageSize.
func (e *Engine) ItemsPage(offset, size int) ([]Item, int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	items := e.currentItems()
	if offset < 0 || offset >= len(items) {
		return nil, -1
	}
	end := offset + size
	if end >= len(items) {
		return items[offset:], -1
	}
	return items[offset:end], end
}

// path returns the breadcrumb segments for the current position,
// starting with the root label.
func (e *Engine) path() []string {
	segments := []string{RootLabel}

	appendOUChain := func(ouID string) {
		var chain []string
		for id := ouID; id != ""; {
			ou, ok := e.ousByID[id]
			if !ok {
				break
			}
			chain = append(chain, ou.Name)
			id = ou.ParentID
		}
		for i := len(chain) - 1; i >= 0; i-- {
			segments = append(segments, chain[i])
		}
	}

	switch e.current.state {
	case StateOU:
		appendOUChain(e.current.id)
	case StateAccountDetail:
		if acct, ok := e.data.Organization.AccountByID(e.current.id); ok {
			appendOUChain(acct.ParentOUID)
			segments = append(segments, acct.Name)
		}
	}
	return segments
}

const breadcrumbSep = " > "

// Breadcrumb renders the path from the root to the current position.
// When maxWidth is positive and the full path does not fit, segments
// are elided from the front; the innermost segment and, when possible,
// its immediate parent always survive.
func (e *Engine) Breadcrumb(maxWidth int) string {
	segments := e.path()
	full := strings.Join(segments, breadcrumbSep)
	if maxWidth <= 0 || len(full) <= maxWidth {
		return full
	}

	// Drop interior segments after the root first, then the root
	// itself, keeping at least parent and current.
	for keep := len(segments) - 1; keep >= 2; keep-- {
		tail := segments[len(segments)-keep:]
		candidate := strings.Join(append([]string{RootLabel, "..."}, tail...), breadcrumbSep)
		if len(candidate) <= maxWidth {
			return candidate
		}
		candidate = strings.Join(append([]string{"..."}, tail...), breadcrumbSep)
		if len(candidate) <= maxWidth {
			return candidate
		}
	}

	last := segments[len(segments)-1]
	candidate := "..." + breadcrumbSep + last
	if len(candidate) <= maxWidth {
		return candidate
	}
	if maxWidth > 3 {
		return "..." + last[max(0, len(last)-(maxWidth-3)):]
	}
	return full[:maxWidth]
}
