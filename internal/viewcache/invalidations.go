package viewcache

// Mutation kinds issued by the queue gateway.
const (
	MutationJoin      = "join"
	MutationGroupJoin = "group_join"
	MutationDirectAdd = "direct_add"
	MutationCall      = "call"
	MutationTransfer  = "transfer"
)

// invalidationMap is the single source of truth for which derived views each
// mutation dirties. Handlers and the gateway never invalidate inline; they go
// through TagsFor so the dependency set stays testable configuration.
var invalidationMap = map[string][]string{
	MutationJoin: {
		TagQueueItems, TagTodayQueue, TagPublicQueue,
		TagQueueStats, TagBarberQueue, TagItemServices,
	},
	MutationGroupJoin: {
		TagQueueItems, TagTodayQueue, TagPublicQueue,
		TagQueueStats, TagBarberQueue, TagItemServices,
	},
	MutationDirectAdd: {
		TagQueueItems, TagTodayQueue, TagPublicQueue,
		TagQueueStats, TagBarberQueue, TagItemServices,
	},
	MutationCall: {
		TagQueueItems, TagTodayQueue, TagPublicQueue,
		TagQueueStats, TagBarberQueue, TagItemServices,
		TagServicesAvailability,
	},
	MutationTransfer: {
		TagQueueItems, TagTodayQueue, TagPublicQueue,
		TagBarberQueue, TagTransferHistory,
	},
}

// AggregateQueueTags is the set dropped on every queue change-feed event,
// whatever its type.
var AggregateQueueTags = []string{
	TagQueueItems, TagTodayQueue, TagPublicQueue,
	TagQueueStats, TagBarberQueue,
}

// TagsFor returns the invalidation set for a mutation kind. Unknown kinds map
// to nothing.
func TagsFor(mutation string) []string {
	return invalidationMap[mutation]
}

// InvalidateFor drops every view the mutation could have affected.
func (c *Cache) InvalidateFor(mutation string) {
	c.Invalidate(TagsFor(mutation)...)
}
