package scoring

import (
	"time"
)

// Weights 各类互动的计分权重。
// 全站共用一张权重表，保证"一个赞"在图片/视频/音频之间的排序价值一致。
type Weights struct {
	Click    float64 // 点击/浏览详情
	Like     float64 // 点赞
	View     float64 // 视频播放量（数量级大，权重压低）
	Play     float64 // 音频播放
	Complete float64 // 完整度分（0-100），权重给得很小，只做同分时的微调
}

var DefaultWeights = Weights{
	Click:    1.0,
	Like:     8.0,
	View:     0.5,
	Play:     1.0,
	Complete: 0.1,
}

// DecayWindow 新鲜度加成的衰减窗口：从起算点开始 10 小时内线性衰减到 0
const DecayWindow = 10 * time.Hour

// Epsilon 对账容差，落库分数与实时计算差值超过这个数才改写
const Epsilon = 0.25

// 初始加成按当前榜首分数的比例来定，让新内容能上榜但不至于压过老内容
const (
	BoostTopRatio   = 0.8
	MinInitialBoost = 10.0
)
