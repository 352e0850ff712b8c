package viewcache

import (
	"errors"
	"sort"
	"testing"
)

func TestTagsForEnumeratedSets(t *testing.T) {
	tests := []struct {
		mutation string
		want     []string
	}{
		{MutationJoin, []string{
			TagBarberQueue, TagItemServices, TagPublicQueue,
			TagQueueItems, TagQueueStats, TagTodayQueue,
		}},
		{MutationGroupJoin, []string{
			TagBarberQueue, TagItemServices, TagPublicQueue,
			TagQueueItems, TagQueueStats, TagTodayQueue,
		}},
		{MutationDirectAdd, []string{
			TagBarberQueue, TagItemServices, TagPublicQueue,
			TagQueueItems, TagQueueStats, TagTodayQueue,
		}},
		{MutationCall, []string{
			TagBarberQueue, TagItemServices, TagPublicQueue,
			TagQueueItems, TagQueueStats, TagServicesAvailability,
			TagTodayQueue,
		}},
		{MutationTransfer, []string{
			TagBarberQueue, TagPublicQueue, TagQueueItems,
			TagTodayQueue, TagTransferHistory,
		}},
	}
	for _, tc := range tests {
		t.Run(tc.mutation, func(t *testing.T) {
			got := append([]string(nil), TagsFor(tc.mutation)...)
			sort.Strings(got)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d tags, got %d: %v", len(tc.want), len(got), got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("tag mismatch at %d: expected %s, got %s", i, tc.want[i], got[i])
				}
			}
		})
	}
}

func TestTagsForUnknownMutation(t *testing.T) {
	if tags := TagsFor("complete"); len(tags) != 0 {
		t.Fatalf("expected no tags for unknown mutation, got %v", tags)
	}
}

func TestInvalidateForDropsOnlyListedTags(t *testing.T) {
	cache := New()
	cache.Put(TagQueueItems, "items")
	cache.Put(TagTransferHistory, "history")
	cache.Put(TagQueueSettings, "settings")

	cache.InvalidateFor(MutationJoin)

	if _, ok := cache.Get(TagQueueItems); ok {
		t.Fatalf("queue-items should be invalidated by join")
	}
	if _, ok := cache.Get(TagTransferHistory); !ok {
		t.Fatalf("transfer-history must survive a join")
	}
	if _, ok := cache.Get(TagQueueSettings); !ok {
		t.Fatalf("queue-settings must survive a join")
	}
}

func TestGetOrFillsOnMiss(t *testing.T) {
	cache := New()
	calls := 0
	fill := func() (interface{}, error) {
		calls++
		return "filled", nil
	}

	for i := 0; i < 3; i++ {
		value, err := cache.GetOr(TagPublicQueue, fill)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if value != "filled" {
			t.Fatalf("unexpected value: %v", value)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one fill, got %d", calls)
	}

	cache.Invalidate(TagPublicQueue)
	if _, err := cache.GetOr(TagPublicQueue, fill); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected refill after invalidation, got %d calls", calls)
	}
}

func TestGetOrPropagatesFillError(t *testing.T) {
	cache := New()
	fillErr := errors.New("remote unavailable")
	if _, err := cache.GetOr(TagQueueStats, func() (interface{}, error) {
		return nil, fillErr
	}); !errors.Is(err, fillErr) {
		t.Fatalf("expected fill error, got %v", err)
	}
	if _, ok := cache.Get(TagQueueStats); ok {
		t.Fatalf("failed fill must not cache a value")
	}
}

func TestGetOrDoesNotStoreFillRacedByInvalidation(t *testing.T) {
	cache := New()
	value, err := cache.GetOr(TagQueueItems, func() (interface{}, error) {
		// A mutation lands while the fill is in flight.
		cache.Invalidate(TagQueueItems)
		return "pre-mutation", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "pre-mutation" {
		t.Fatalf("caller still gets the filled value, got %v", value)
	}
	if _, ok := cache.Get(TagQueueItems); ok {
		t.Fatalf("a fill older than the invalidation must not be cached")
	}
}

func TestItemTagInvalidation(t *testing.T) {
	cache := New()
	cache.Put(ItemTag("t1"), "one")
	cache.Put(ItemTag("t2"), "two")

	cache.InvalidateItem("t1")

	if _, ok := cache.Get(ItemTag("t1")); ok {
		t.Fatalf("t1 entry should be gone")
	}
	if _, ok := cache.Get(ItemTag("t2")); !ok {
		t.Fatalf("t2 entry should survive")
	}
	if cache.Generation(ItemTag("t1")) != 1 {
		t.Fatalf("expected generation bump for t1")
	}
}
