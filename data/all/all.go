// Package all registers every search engine and store driver at once.
//
//	import _ "github.com/ncobase/searchsync/data/all"
//
// Binaries that need only one backend should import its package directly:
//
//	import (
//	    _ "github.com/ncobase/searchsync/data/elasticsearch"
//	    _ "github.com/ncobase/searchsync/data/redis"
//	)
package all

import (
	// Search drivers
	_ "github.com/ncobase/searchsync/data/bleve"
	_ "github.com/ncobase/searchsync/data/elasticsearch"
	_ "github.com/ncobase/searchsync/data/meilisearch"
	_ "github.com/ncobase/searchsync/data/opensearch"

	// Store drivers
	_ "github.com/ncobase/searchsync/data/mongodb"
	_ "github.com/ncobase/searchsync/data/redis"
	_ "github.com/ncobase/searchsync/data/store"
)
