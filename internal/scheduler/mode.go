package scheduler

// Mode is the scheduler's closed set of operating states (§4.4).
type Mode string

const (
	ModeTaskDriven         Mode = "task_driven"
	ModeCognitiveIdle      Mode = "cognitive_idle"
	ModeDeepReflection     Mode = "deep_reflection"
	ModeCreativeIdeation   Mode = "creative_ideation"
	ModeKnowledgeExploration Mode = "knowledge_exploration"
)
