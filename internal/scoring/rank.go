package scoring

import (
	"sort"

	"poprank/internal/models"
)

// Less 列表排序比较：落库分数降序，同分时新内容（CreatedAt 大）在前，
// 再同则按 ID 降序兜底，保证同一份快照怎么排结果都一样。
func Less(a, b *models.ContentItem) bool {
	if a.CachedScore != b.CachedScore {
		return a.CachedScore > b.CachedScore
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// SortRanked 对内存中的一份内容快照按排名排序（原地）
func SortRanked(items []models.ContentItem) {
	sort.Slice(items, func(i, j int) bool {
		return Less(&items[i], &items[j])
	})
}
