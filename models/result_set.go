package models

import (
	"sort"
)

// ResultSet accumulates products across keyword searches, deduplicating by
// link. The first occurrence of a link wins; later duplicates are discarded,
// including across different keywords. Order is insertion order until sorted.
type ResultSet struct {
	products []*Product
	seen     map[string]bool
}

// NewResultSet creates an empty result set.
func NewResultSet() *ResultSet {
	return &ResultSet{
		seen: make(map[string]bool),
	}
}

// Add appends a product unless its link was already seen. Returns true if the
// product entered the set.
func (rs *ResultSet) Add(p *Product) bool {
	if p == nil || rs.seen[p.Link] {
		return false
	}
	rs.seen[p.Link] = true
	rs.products = append(rs.products, p)
	return true
}

// AddBatch adds a keyword batch in order and returns how many products were
// actually added after deduplication.
func (rs *ResultSet) AddBatch(batch []*Product) int {
	added := 0
	for _, p := range batch {
		if rs.Add(p) {
			added++
		}
	}
	return added
}

// Products returns the backing slice. Sorting and enrichment operate on it in
// place.
func (rs *ResultSet) Products() []*Product {
	return rs.products
}

// Len returns the number of deduplicated products.
func (rs *ResultSet) Len() int {
	return len(rs.products)
}

// SortByPrice orders the set by total price, or per-unit price when byUnit is
// set. The sort is stable: equal keys keep their relative insertion order.
func (rs *ResultSet) SortByPrice(ascending, byUnit bool) {
	key := func(p *Product) float64 {
		if byUnit {
			return p.UnitPrice()
		}
		return float64(p.Price)
	}
	sort.SliceStable(rs.products, func(i, j int) bool {
		if ascending {
			return key(rs.products[i]) < key(rs.products[j])
		}
		return key(rs.products[i]) > key(rs.products[j])
	})
}

// Partition splits the set into organic and ad listings, preserving the
// current order within each subset.
func (rs *ResultSet) Partition() (organic, ads []*Product) {
	for _, p := range rs.products {
		if p.IsAd {
			ads = append(ads, p)
		} else {
			organic = append(organic, p)
		}
	}
	return organic, ads
}

// Stats summarizes a result set for headers and API responses.
type Stats struct {
	Total           int `json:"total"`
	Organic         int `json:"organic"`
	Ads             int `json:"ads"`
	AvgOrganicPrice int `json:"avg_organic_price"`
	FreeDelivery    int `json:"free_delivery"`
}

// Stats computes aggregate counts over the current contents.
func (rs *ResultSet) Stats() Stats {
	s := Stats{Total: len(rs.products)}
	priceSum := 0
	for _, p := range rs.products {
		if p.IsAd {
			s.Ads++
		} else {
			s.Organic++
			priceSum += p.Price
		}
		if p.HasFreeDelivery() {
			s.FreeDelivery++
		}
	}
	if s.Organic > 0 {
		s.AvgOrganicPrice = priceSum / s.Organic
	}
	return s
}
