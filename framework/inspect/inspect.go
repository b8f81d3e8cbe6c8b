// Package inspect exposes a read-only JSON view of a container over HTTP.
//
//	GET /entries        registered identifiers with their kind
//	                    (?kind=function|pair|type|value, ?resolved=true|false)
//	GET /entries/{id}   one entry (identifiers may contain slashes)
//	GET /resolved       identifiers held by the resolved cache
//	GET /types          identifiers defined in the catalog
//	GET /autowiring     the autowiring switch
//
// Nothing here resolves or builds a value; inspecting a container never
// changes it.
package inspect

import (
	"fmt"
	"net/http"

	"github.com/km-arc/go-injector/framework/container"
	gohttp "github.com/km-arc/go-injector/http"
	"github.com/km-arc/go-injector/routing"
)

// Entry is the JSON shape of one registered entry.
type Entry struct {
	ID       string              `json:"id"`
	Kind     container.EntryKind `json:"kind"`
	Resolved bool                `json:"resolved"`
	Entry    string              `json:"entry,omitempty"`
}

// Routes registers the inspection endpoints on r.
//
//	router.Prefix("/container", func(r *routing.Router) { inspect.Routes(r, c) })
func Routes(r *routing.Router, c *container.Container) {
	h := &handler{c: c}
	r.Get("/entries", h.entries)
	r.Get("/entries/*", h.entry)
	r.Get("/resolved", h.resolved)
	r.Get("/types", h.types)
	r.Get("/autowiring", h.autowiring)
}

type handler struct {
	c *container.Container
}

func (h *handler) entries(w http.ResponseWriter, r *http.Request) {
	req, res := gohttp.NewRequest(r), gohttp.NewResponse(w)

	kind := container.EntryKind(req.Query("kind"))
	switch kind {
	case "", container.KindFunction, container.KindPair, container.KindType, container.KindValue:
	default:
		res.Error(http.StatusBadRequest, fmt.Sprintf("unknown kind %q", kind))
		return
	}
	wantResolved, filterResolved, err := req.QueryBool("resolved")
	if err != nil {
		res.Error(http.StatusBadRequest, "resolved must be a boolean")
		return
	}

	resolved := h.resolvedSet()
	ids := h.c.Entries()
	out := make([]Entry, 0, len(ids))
	for _, id := range ids {
		raw, err := h.c.Get(id)
		if err != nil {
			// unset between Entries and Get
			continue
		}
		e := Entry{ID: id, Kind: h.c.KindOf(raw), Resolved: resolved[id]}
		if kind != "" && e.Kind != kind {
			continue
		}
		if filterResolved && e.Resolved != wantResolved {
			continue
		}
		out = append(out, e)
	}
	res.Success(out)
}

func (h *handler) entry(w http.ResponseWriter, r *http.Request) {
	res := gohttp.NewResponse(w)
	id := gohttp.NewRequest(r).RouteParam("*")

	raw, err := h.c.Get(id)
	if err != nil {
		res.Fail(err)
		return
	}
	res.Success(Entry{
		ID:       id,
		Kind:     h.c.KindOf(raw),
		Resolved: h.resolvedSet()[id],
		Entry:    render(raw),
	})
}

func (h *handler) resolved(w http.ResponseWriter, _ *http.Request) {
	gohttp.NewResponse(w).Success(h.c.ResolvedIDs())
}

func (h *handler) types(w http.ResponseWriter, _ *http.Request) {
	gohttp.NewResponse(w).Success(h.c.Types().Names())
}

func (h *handler) autowiring(w http.ResponseWriter, _ *http.Request) {
	gohttp.NewResponse(w).Success(map[string]bool{"enabled": h.c.Autowiring()})
}

func (h *handler) resolvedSet() map[string]bool {
	ids := h.c.ResolvedIDs()
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// render prints an entry for humans. Functions show their name only.
func render(entry any) string {
	if f, ok := entry.(*container.Func); ok {
		return f.Name()
	}
	return fmt.Sprintf("%#v", entry)
}
