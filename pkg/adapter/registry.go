package adapter

import "github.com/getmockd/mockadapter/internal/matching"

// Verbs are the HTTP verbs handlers are registered under.
var Verbs = []string{"get", "post", "head", "delete", "patch", "put", "options", "list"}

const verbAny = "any"

// registry holds the ordered handler list of every verb. It is not safe for
// concurrent use; the Adapter serializes access.
type registry struct {
	handlers map[string][]*Handler
}

func newRegistry() *registry {
	r := &registry{}
	r.reset()
	return r
}

func (r *registry) reset() {
	r.handlers = make(map[string][]*Handler, len(Verbs))
	for _, verb := range Verbs {
		r.handlers[verb] = nil
	}
}

// add registers h. An "any" handler is appended to every verb. Otherwise a
// persistent handler replaces the last equivalent persistent handler in
// place, and anything else is appended.
func (r *registry) add(h *Handler) {
	if h.verb == verbAny {
		for _, verb := range Verbs {
			r.handlers[verb] = append(r.handlers[verb], h)
		}
		return
	}
	list := r.handlers[h.verb]
	if i := r.lastEquivalent(list, h); i >= 0 {
		list[i] = h
		return
	}
	r.handlers[h.verb] = append(list, h)
}

func (r *registry) lastEquivalent(list []*Handler, h *Handler) int {
	if h.once {
		return -1
	}
	for i := len(list) - 1; i >= 0; i-- {
		if !list[i].once && list[i].equivalent(h) {
			return i
		}
	}
	return -1
}

// find returns the first handler of method's list that accepts target.
func (r *registry) find(target matching.Target) *Handler {
	for _, h := range r.handlers[target.Method] {
		if matching.Match(h.rule, target) {
			return h
		}
	}
	return nil
}

// remove deletes h from every verb list it appears in.
func (r *registry) remove(h *Handler) {
	for verb, list := range r.handlers {
		kept := list[:0]
		for _, item := range list {
			if item.id != h.id {
				kept = append(kept, item)
			}
		}
		for i := len(kept); i < len(list); i++ {
			list[i] = nil
		}
		r.handlers[verb] = kept
	}
}

func (r *registry) snapshot(method string) []HandlerInfo {
	var out []HandlerInfo
	verbs := Verbs
	if method != "" {
		verbs = []string{method}
	}
	for _, verb := range verbs {
		for _, h := range r.handlers[verb] {
			out = append(out, h.info(verb))
		}
	}
	return out
}
