package solver

import "github.com/nurseopt/core/pkg/model"

// noGoodCut 记录一个已发出的方案，供多样枚举的汉明距离下界检查使用：
// Σ_{(n,d): A_i[n][d]=s} (1 − x[n][d][s]) ≥ δ
type noGoodCut struct {
	prior *model.Assignment
	delta int
}

// noGoodPenalty 对违反最小汉明距离的候选解施加软惩罚，引导退火跳出已发方案的邻域
func noGoodPenalty(a *model.Assignment, cuts []noGoodCut) float64 {
	var penalty float64
	for _, cut := range cuts {
		dist := model.HammingDistance(a, cut.prior)
		if dist < cut.delta {
			penalty += float64(cut.delta-dist) * 50
		}
	}
	return penalty
}

// hammingDelta 计算 δ = max(delta_min, ceil(fraction·N·D))
func hammingDelta(deltaMin int, fraction float64, n, d int) int {
	v := int(fraction * float64(n) * float64(d))
	if float64(v) < fraction*float64(n)*float64(d) {
		v++
	}
	if v < deltaMin {
		return deltaMin
	}
	return v
}

// satisfiesNoGoods 判断某方案是否满足全部已登记的汉明距离下界
func satisfiesNoGoods(a *model.Assignment, cuts []noGoodCut) bool {
	for _, cut := range cuts {
		if model.HammingDistance(a, cut.prior) < cut.delta {
			return false
		}
	}
	return true
}
