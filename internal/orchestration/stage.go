package orchestration

// Stage is one ordered phase of the per-device creation pipeline.
type Stage string

const (
	// StageInit acquires or reuses the backing compute resource.
	StageInit Stage = "init"
	// StageArtifact stages device images and binaries into place.
	StageArtifact Stage = "artifact"
	// StageLaunch invokes the device bring-up command.
	StageLaunch Stage = "launch"
	// StageBootWait polls the liveness signal until ready.
	StageBootWait Stage = "boot-wait"
)

// PipelineStages is the fixed stage order. A later stage never runs before an
// earlier one completes for the same attempt.
var PipelineStages = []Stage{StageInit, StageArtifact, StageLaunch, StageBootWait}
