package constants

// Cache key namespaces. Invalidation operates on whole namespaces, so every
// key written by the cache service must start with one of these prefixes.
const (
	SearchResultsPrefix   = "search:results:"
	PropertyDetailsPrefix = "property:details:"
	PropertyViewsPrefix   = "property:views:"
	SearchHistoryPrefix   = "search:history:"
	PopularTermsKey       = "search:popular:terms"
)
