package search

import "go.uber.org/fx"

// Module provides the Elasticsearch searcher
var Module = fx.Options(
	fx.Provide(NewSearcher),
)
