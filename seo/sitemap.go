package seo

import (
	"slices"
	"strings"
)

// ExcludeFromSitemap reports whether an item must be left out of the
// sitemap: it is marked noindex, or it declares a canonical URL elsewhere.
// The noindex match ignores ASCII case, like SQL LIKE.
func ExcludeFromSitemap(meta Metadata) bool {
	return containsFold(string(meta.Robots), "noindex") || meta.Canonical != ""
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Compare is the operator of a MetaClause.
type Compare string

const (
	CompareEqual     Compare = "="
	CompareNotLike   Compare = "NOT LIKE"
	CompareNotExists Compare = "NOT EXISTS"
)

// MetaClause matches one stored metadata key. Value is unused for
// CompareNotExists; for CompareNotLike it is a case-insensitive substring.
type MetaClause struct {
	Key     string
	Value   string
	Compare Compare
}

// MetaGroup joins its clauses with OR. Groups in a QueryArgs are ANDed.
type MetaGroup struct {
	Clauses []MetaClause
}

// QueryArgs describes an item listing for the host's store.
type QueryArgs struct {
	Type      string
	MetaQuery []MetaGroup
}

// SitemapTypes are the item types the sitemap filter applies to.
var SitemapTypes = []string{"post", "page"}

// FilterSitemapQuery narrows a sitemap listing for itemType so that items
// ExcludeFromSitemap would drop are not returned. Other types are returned
// untouched.
func FilterSitemapQuery(args QueryArgs, itemType string) QueryArgs {
	if !slices.Contains(SitemapTypes, itemType) {
		return args
	}
	meta := make([]MetaGroup, 0, len(args.MetaQuery)+2)
	meta = append(meta, args.MetaQuery...)
	meta = append(meta,
		MetaGroup{Clauses: []MetaClause{
			{Key: MetaRobots, Value: "noindex", Compare: CompareNotLike},
			{Key: MetaRobots, Compare: CompareNotExists},
		}},
		MetaGroup{Clauses: []MetaClause{
			{Key: MetaCanonical, Value: "", Compare: CompareEqual},
			{Key: MetaCanonical, Compare: CompareNotExists},
		}},
	)
	args.MetaQuery = meta
	return args
}

// Match evaluates args' meta query against stored values in memory, using
// the same semantics the store applies in SQL. A key absent from values
// does not exist.
func (args QueryArgs) Match(values map[string]string) bool {
	for _, g := range args.MetaQuery {
		if !g.match(values) {
			return false
		}
	}
	return true
}

func (g MetaGroup) match(values map[string]string) bool {
	for _, c := range g.Clauses {
		v, ok := values[c.Key]
		switch c.Compare {
		case CompareNotExists:
			if !ok {
				return true
			}
		case CompareNotLike:
			if ok && !containsFold(v, c.Value) {
				return true
			}
		case CompareEqual:
			if ok && v == c.Value {
				return true
			}
		}
	}
	return len(g.Clauses) == 0
}
