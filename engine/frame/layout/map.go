package layout

import (
	"sort"
	"sync"

	"golang.org/x/net/html"
)

// idRegistry maps element IDs to elements. IDs need not be unique:
// content may be repeated on a page.
type idRegistry struct {
	sync.RWMutex
	m map[string][]*html.Node
}

func newIDRegistry() *idRegistry {
	return &idRegistry{
		m: make(map[string][]*html.Node),
	}
}

func (reg *idRegistry) Put(id string, elem *html.Node) {
	reg.Lock()
	defer reg.Unlock()
	for _, e := range reg.m[id] {
		if e == elem {
			return
		}
	}
	reg.m[id] = append(reg.m[id], elem)
}

func (reg *idRegistry) Get(id string) []*html.Node {
	reg.RLock()
	defer reg.RUnlock()
	return reg.m[id]
}

// Prune removes all elements for which keep returns false. IDs without
// elements are dropped.
func (reg *idRegistry) Prune(keep func(*html.Node) bool) {
	reg.Lock()
	defer reg.Unlock()
	for id, elems := range reg.m {
		kept := elems[:0]
		for _, e := range elems {
			if keep(e) {
				kept = append(kept, e)
			}
		}
		if len(kept) == 0 {
			delete(reg.m, id)
		} else {
			reg.m[id] = kept
		}
	}
}

func (reg *idRegistry) IDs() []string {
	reg.RLock()
	defer reg.RUnlock()
	ids := make([]string, 0, len(reg.m))
	for id := range reg.m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (reg *idRegistry) Length() int {
	reg.RLock()
	defer reg.RUnlock()
	return len(reg.m)
}
