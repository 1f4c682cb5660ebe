// Package navigation maps application routes to entity views
//
// Every kind is mounted under /entity/<segment>:
//
//	/entity/file               list
//	/entity/file/new           create form
//	/entity/file/:id           detail
//	/entity/file/:id/edit      update form
//	/entity/file/:id/delete    delete confirmation
package navigation

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"fileupload/internal/entity"
)

const prefix = "/entity/"

// ErrUnknownRoute is returned by Resolve for paths no view is mounted at
var ErrUnknownRoute = errors.New("unknown route")

type View int

const (
	ViewList View = iota
	ViewNew
	ViewDetail
	ViewEdit
	ViewDelete
)

func (v View) String() string {
	switch v {
	case ViewList:
		return "list"
	case ViewNew:
		return "new"
	case ViewDetail:
		return "detail"
	case ViewEdit:
		return "edit"
	case ViewDelete:
		return "delete"
	}
	return fmt.Sprintf("View(%d)", int(v))
}

// Target is a resolved route
type Target struct {
	Kind entity.Kind
	View View
	ID   string
}

// Path renders t back into a route
func (t Target) Path() string {
	switch t.View {
	case ViewNew:
		return NewPath(t.Kind)
	case ViewDetail:
		return DetailPath(t.Kind, t.ID)
	case ViewEdit:
		return EditPath(t.Kind, t.ID)
	case ViewDelete:
		return DeletePath(t.Kind, t.ID)
	}
	return ListPath(t.Kind)
}

// Resolve parses a route. A trailing slash and a query string are ignored
func Resolve(path string) (Target, error) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	rest, ok := strings.CutPrefix(path, prefix)
	if !ok {
		return Target{}, fmt.Errorf("%w: %s", ErrUnknownRoute, path)
	}
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	kind, ok := entity.BySegment(parts[0])
	if !ok {
		return Target{}, fmt.Errorf("%w: %s", ErrUnknownRoute, path)
	}
	t := Target{Kind: kind}

	switch len(parts) {
	case 1:
		t.View = ViewList
		return t, nil
	case 2:
		if parts[1] == "new" {
			t.View = ViewNew
			return t, nil
		}
		t.View = ViewDetail
	case 3:
		switch parts[2] {
		case "edit":
			t.View = ViewEdit
		case "delete":
			t.View = ViewDelete
		default:
			return Target{}, fmt.Errorf("%w: %s", ErrUnknownRoute, path)
		}
	default:
		return Target{}, fmt.Errorf("%w: %s", ErrUnknownRoute, path)
	}

	id, err := url.PathUnescape(parts[1])
	if err != nil || id == "" {
		return Target{}, fmt.Errorf("%w: %s", ErrUnknownRoute, path)
	}
	t.ID = id
	return t, nil
}

func ListPath(k entity.Kind) string {
	return k.Route()
}

func NewPath(k entity.Kind) string {
	return k.Route() + "/new"
}

func DetailPath(k entity.Kind, id string) string {
	return k.Route() + "/" + url.PathEscape(id)
}

func EditPath(k entity.Kind, id string) string {
	return DetailPath(k, id) + "/edit"
}

func DeletePath(k entity.Kind, id string) string {
	return DetailPath(k, id) + "/delete"
}

// MenuItem is one entry of the entities menu
type MenuItem struct {
	Label string
	Route string
}

// Menu returns the entities menu in display order
func Menu() []MenuItem {
	kinds := entity.Kinds()
	items := make([]MenuItem, 0, len(kinds))
	for _, k := range kinds {
		items = append(items, MenuItem{Label: k.Label, Route: k.Route()})
	}
	return items
}
