package scoring

import (
	"math"
	"time"

	"poprank/internal/models"
)

// 衰减起算点类型
const (
	OriginNatural = "natural" // 创建时间
	OriginPower   = "power"   // 神力券使用时间
)

// BoostOrigin 返回 now 时刻生效的衰减起算点。
// 神力券生效期间完全覆盖创建时间锚点，二者同一时刻只有一个说了算；
// 券一过期就当它不存在，回落到创建时间。
func BoostOrigin(item *models.ContentItem, now time.Time) (time.Time, string) {
	if item.PowerBoostActive(now) {
		return *item.BoostUsedAt, OriginPower
	}
	return item.CreatedAt, OriginNatural
}

// DecayedBoost 计算 now 时刻剩余的新鲜度加成。
// 从起算点开始在 DecayWindow 内线性衰减到 0，结果四舍五入，
// 永远落在 [0, InitialBoost] 区间。
// 起算点缺失（CreatedAt 为零值）按已完全衰减处理，脏数据不能搞挂整个排序。
func DecayedBoost(item *models.ContentItem, now time.Time) float64 {
	if item.InitialBoost <= 0 {
		return 0
	}

	origin, _ := BoostOrigin(item, now)
	if origin.IsZero() {
		return 0
	}

	elapsed := now.Sub(origin)
	if elapsed >= DecayWindow {
		return 0
	}
	if elapsed < 0 {
		// 起算点在未来（时钟漂移），按刚起算处理
		elapsed = 0
	}

	remain := 1.0 - float64(elapsed)/float64(DecayWindow)
	return math.Round(item.InitialBoost * remain)
}

// BoostFromTopScore 按当前榜首分数给新加成定一个初始值
func BoostFromTopScore(topScore float64) float64 {
	boost := math.Round(topScore * BoostTopRatio)
	if boost < MinInitialBoost {
		boost = MinInitialBoost
	}
	return boost
}
