package domain

type LivenessState string

const (
	LivenessNormal LivenessState = "normal" // 不在值班中，不参与评估
	LivenessGreen  LivenessState = "green"
	LivenessAmber  LivenessState = "amber"
	LivenessRed    LivenessState = "red"
)

type AlertLevel string

const (
	AlertLevelLow  AlertLevel = "low"
	AlertLevelHigh AlertLevel = "high"
)
