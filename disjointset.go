package wheelhouse

// disjointSet tracks connected components of symbols, with path compression
// on find.
type disjointSet struct {
	parent map[string]string
}

func newDisjointSet() *disjointSet {
	return &disjointSet{parent: make(map[string]string)}
}

// find returns the root of x's component, registering x on first sight.
func (s *disjointSet) find(x string) string {
	p, ok := s.parent[x]
	if !ok {
		s.parent[x] = x
		return x
	}
	if p != x {
		p = s.find(p)
		s.parent[x] = p
	}
	return p
}

// union merges the components containing a and b.
func (s *disjointSet) union(a, b string) {
	s.parent[s.find(a)] = s.find(b)
}

// groupSymbolsByOrder buckets symbols that share at least one opening order
// into a single group, transitively: if A and B share an order and B and C
// share another, A, B and C form one group. This is what turns the legs of
// an iron condor, or a rolled spread, into a single trade.
func groupSymbolsByOrder(symbolOrders map[string][]string) map[string][]string {
	orderSymbols := make(map[string][]string)
	for sym, orders := range symbolOrders {
		for _, id := range orders {
			orderSymbols[id] = append(orderSymbols[id], sym)
		}
	}
	set := newDisjointSet()
	for _, syms := range orderSymbols {
		for i := 1; i < len(syms); i++ {
			set.union(syms[0], syms[i])
		}
	}
	groups := make(map[string][]string)
	for sym := range symbolOrders {
		root := set.find(sym)
		groups[root] = append(groups[root], sym)
	}
	return groups
}
