package models

// 各種行為對應的積分變化
const (
	PointsRegister   = 20  // 註冊時的初始積分
	PointsCreatePoll = -10 // 創建投票的花費
	PointsVote       = 5   // 首次在某投票中投票的獎勵
)

// CanAfford 檢查餘額是否足以承擔一次積分變化
// 只有扣分的行為才會受餘額限制，加分的行為永遠允許
func CanAfford(balance, delta int) bool {
	return balance+delta >= 0 || delta >= 0
}
