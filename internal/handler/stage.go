package handler

// Stage names a step of the webhook processing state machine. Stages only
// drive logging and dispatch; no stage state outlives a request.
type Stage string

const (
	StageVerifying  Stage = "verifying"
	StageFetching   Stage = "fetching"
	StageAssembling Stage = "assembling"
	StageRendering  Stage = "rendering"
	StageBrowsing   Stage = "browsing"
	StageDone       Stage = "done"
)
