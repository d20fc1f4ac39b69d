package types

import "time"

// Metadata is a generic string-keyed bag used across the cognitive
// subsystems wherever a record needs an open-ended, JSON-serializable
// extension point (reasoning path metadata documents, MAB outcome context,
// knowledge-graph node metadata, ...).
type Metadata map[string]interface{}

// ToolCall records a single tool invocation within a conversation turn.
type ToolCall struct {
	ToolName   string   `json:"tool_name"`
	Parameters Metadata `json:"parameters"`
	Success    bool     `json:"success"`
}

// ToolResult records the outcome of a tool invocation.
type ToolResult struct {
	ToolName string   `json:"tool_name"`
	Output   string   `json:"output,omitempty"`
	Error    string   `json:"error,omitempty"`
	Metadata Metadata `json:"metadata,omitempty"`
}

// MABDecision records a strategy-selection decision made during a turn, as
// surfaced by the consumed state store for retrospective analysis.
type MABDecision struct {
	StrategyID string  `json:"strategy_id"`
	Reward     float64 `json:"reward"`
	Source     string  `json:"source"`
}

// ConversationTurn is a read-only record supplied by the state store. The
// scheduler and retrospection engine never mutate it.
type ConversationTurn struct {
	TurnID       string        `json:"turn_id"`
	UserInput    string        `json:"user_input"`
	Response     string        `json:"response"`
	Timestamp    time.Time     `json:"timestamp"`
	Success      bool          `json:"success"`
	Phase        string        `json:"phase"`
	ToolCalls    []ToolCall    `json:"tool_calls,omitempty"`
	ToolResults  []ToolResult  `json:"tool_results,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
	MABDecisions []MABDecision `json:"mab_decisions,omitempty"`
	ExecutionTime time.Duration `json:"execution_time,omitempty"`
}

// JobKind enumerates the kinds of cognitive job the scheduler dispatches.
type JobKind string

const (
	JobRetrospection JobKind = "retrospection"
	JobIdeation      JobKind = "ideation"
	JobSynthesis     JobKind = "synthesis"
	JobExploration   JobKind = "exploration"
)

// CognitiveJob is a unit of background work enqueued by the scheduler.
// insertionSeq breaks ties between equal-priority jobs (FIFO) and is set
// exclusively by the queue on push.
type CognitiveJob struct {
	JobID             string        `json:"job_id"`
	Kind              JobKind       `json:"kind"`
	Priority          int           `json:"priority"` // 1-10, 10 highest
	Context           Metadata      `json:"context"`
	CreatedAt         time.Time     `json:"created_at"`
	EstimatedDuration time.Duration `json:"estimated_duration,omitempty"`

	insertionSeq uint64
}

// InsertionSeq returns the queue-assigned FIFO tiebreaker. Zero until the
// job has been pushed onto a queue.
func (j *CognitiveJob) InsertionSeq() uint64 { return j.insertionSeq }

// SetInsertionSeq is called exclusively by the priority queue implementation.
func (j *CognitiveJob) SetInsertionSeq(seq uint64) { j.insertionSeq = seq }

// ExplorationMode distinguishes externally-requested from self-scheduled
// knowledge exploration jobs.
type ExplorationMode string

const (
	ExplorationUserDirected ExplorationMode = "user_directed"
	ExplorationAutonomous   ExplorationMode = "autonomous"
)

// ExplorationTarget names something the Knowledge Explorer should look into.
type ExplorationTarget struct {
	TargetID string   `json:"target_id"`
	Type     string   `json:"type"` // concept/trend/methodology/...
	Description string `json:"description"`
	Keywords []string `json:"keywords,omitempty"`
	Priority float64  `json:"priority"` // 0..1
	Depth    int      `json:"depth"`
	Metadata Metadata `json:"metadata,omitempty"`
}

// ExplorationModeOf reads the exploration_mode out of a target's metadata,
// defaulting to autonomous when absent.
func (t *ExplorationTarget) ExplorationModeOf() ExplorationMode {
	if t.Metadata == nil {
		return ExplorationAutonomous
	}
	if v, ok := t.Metadata["exploration_mode"].(string); ok && v == string(ExplorationUserDirected) {
		return ExplorationUserDirected
	}
	return ExplorationAutonomous
}

// UserQueryOf reads the optional user_query out of a target's metadata.
func (t *ExplorationTarget) UserQueryOf() string {
	if t.Metadata == nil {
		return ""
	}
	q, _ := t.Metadata["user_query"].(string)
	return q
}

// KnowledgeQuality is the discrete quality band assigned during the
// Knowledge Explorer's Evaluate stage.
type KnowledgeQuality string

const (
	QualityExcellent  KnowledgeQuality = "excellent"
	QualityGood       KnowledgeQuality = "good"
	QualityFair       KnowledgeQuality = "fair"
	QualityPoor       KnowledgeQuality = "poor"
	QualityUnreliable KnowledgeQuality = "unreliable"
)

// KnowledgeItem is an immutable (post-evaluation) unit of discovered
// information.
type KnowledgeItem struct {
	KnowledgeID     string           `json:"knowledge_id"` // content-hash derived
	Content         string           `json:"content"`
	Source          string           `json:"source"`
	SourceType      string           `json:"source_type"`
	Quality         KnowledgeQuality `json:"quality"`
	Confidence      float64          `json:"confidence"` // 0..1
	Relevance       float64          `json:"relevance"`  // 0..1
	Novelty         float64          `json:"novelty"`    // 0..1
	Tags            []string         `json:"tags,omitempty"`
	RelatedConcepts []string         `json:"related_concepts,omitempty"`
	DiscoveredAt    time.Time        `json:"discovered_at"`
}

// Overall returns the weighted score used to assign Quality:
// 0.4 confidence + 0.4 relevance + 0.2 novelty.
func (k *KnowledgeItem) Overall() float64 {
	return 0.4*k.Confidence + 0.4*k.Relevance + 0.2*k.Novelty
}

// CreativityLevel grades how unconventional a thinking seed or assimilated
// strategy is.
type CreativityLevel string

const (
	CreativityLow    CreativityLevel = "low"
	CreativityMedium CreativityLevel = "medium"
	CreativityHigh   CreativityLevel = "high"
)

// ThinkingSeed is a short textual prompt derived from discovered knowledge,
// used to nucleate new reasoning paths.
type ThinkingSeed struct {
	SeedID                  string          `json:"seed_id"`
	Content                 string          `json:"content"`
	SourceKnowledge         []string        `json:"source_knowledge"` // KnowledgeItem IDs, >= 1
	CreativityLevel         CreativityLevel `json:"creativity_level"`
	Confidence              float64         `json:"confidence"` // 0..1
	SuggestedPaths          []string        `json:"suggested_paths,omitempty"`
	CrossDomainConnections  []string        `json:"cross_domain_connections,omitempty"`
	GenerationContext       Metadata        `json:"generation_context,omitempty"`
}

// PathCategory is the closed set of reasoning-path categories.
type PathCategory string

const (
	PathAnalytical   PathCategory = "analytical"
	PathCreative     PathCategory = "creative"
	PathCritical     PathCategory = "critical"
	PathPractical    PathCategory = "practical"
	PathCollaborative PathCategory = "collaborative"
	PathAdaptive     PathCategory = "adaptive"
	PathSystematic   PathCategory = "systematic"
	PathIntuitive    PathCategory = "intuitive"
	PathStrategic    PathCategory = "strategic"
	PathExperimental PathCategory = "experimental"
)

// PathStatus is the closed set of reasoning-path lifecycle states.
type PathStatus string

const (
	PathStatusActive       PathStatus = "active"
	PathStatusExperimental PathStatus = "experimental"
	PathStatusDeprecated   PathStatus = "deprecated"
	PathStatusRetired      PathStatus = "retired"
)

// PathMetadata is the mutable performance/bookkeeping block of a
// ReasoningPath. ratingCount/totalSuccesses are private: they back the
// rolling success_rate/average_rating computations in the path library and
// must only change through UpdatePerformance, never direct assignment.
type PathMetadata struct {
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
	Version             int          `json:"version"`
	Author              string       `json:"author,omitempty"`
	Category            PathCategory `json:"category"`
	Status              PathStatus   `json:"status"`
	UsageCount          int          `json:"usage_count"`
	SuccessRate         float64      `json:"success_rate"`
	AverageRating       float64      `json:"average_rating"`
	TotalExecutionTime  float64      `json:"total_execution_time"`
	Tags                []string     `json:"tags,omitempty"`
	Keywords            []string     `json:"keywords,omitempty"`
	ComplexityLevel     string       `json:"complexity_level,omitempty"`
	EffectivenessScore  float64      `json:"effectiveness_score"` // [0.1, 1.0]
	IsLearned           bool         `json:"is_learned"`
	LearningSource      string       `json:"learning_source,omitempty"`

	ratingCount    int
	totalSuccesses int
}

// RecordOutcome applies one update_performance application: rolling
// success_rate, accumulated execution time, rolling average_rating (only
// when rated), and the multiplicative effectiveness_score adjustment
// (x1.05 capped at 1.0 on success, x0.95 floored at 0.1 on failure).
func (m *PathMetadata) RecordOutcome(success bool, executionTime float64, rating *float64) {
	m.UsageCount++
	if success {
		m.totalSuccesses++
	}
	m.SuccessRate = float64(m.totalSuccesses) / float64(m.UsageCount)
	m.TotalExecutionTime += executionTime

	if rating != nil {
		m.AverageRating = (m.AverageRating*float64(m.ratingCount) + *rating) / float64(m.ratingCount+1)
		m.ratingCount++
	}

	if success {
		m.EffectivenessScore = min(1.0, m.EffectivenessScore*1.05)
	} else {
		m.EffectivenessScore = max(0.1, m.EffectivenessScore*0.95)
	}
	m.UpdatedAt = time.Now()
}

// ReasoningPath is a persisted record in the Path Library (C1).
type ReasoningPath struct {
	PathID         string       `json:"path_id"`
	PathType       string       `json:"path_type"`
	Description    string       `json:"description"`
	PromptTemplate string       `json:"prompt_template"` // {task}/{thinking_seed} slots
	StrategyID     string       `json:"strategy_id"`
	InstanceID     string       `json:"instance_id,omitempty"`
	Metadata       PathMetadata `json:"metadata"`
}

// TaskContext is optional context supplied to recommend() for context_match
// scoring.
type TaskContext struct {
	TaskType   string   `json:"task_type,omitempty"`
	Complexity string   `json:"complexity,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// Dimension is an alternative solution angle suggested by the LLM-driven
// dimension creator during Ideate.
type Dimension struct {
	DimensionID     string          `json:"dimension_id"`
	Description     string          `json:"description"`
	CreativityLevel CreativityLevel `json:"creativity_level"`
	Metadata        Metadata        `json:"metadata,omitempty"`
}

// MABUpdate is one arm-creation + reward application performed by
// Assimilate, tagged with the originating subsystem so the MAB store can
// apply source-specific weighting.
type MABUpdate struct {
	StrategyID string  `json:"strategy_id"`
	Success    bool    `json:"success"`
	Reward     float64 `json:"reward"`
	Source     string  `json:"source"` // user_feedback | retrospection | tool_verification | ...
}

// RetrospectionStatus discriminates the outcome of a one-shot retrospection
// invocation.
type RetrospectionStatus string

const (
	RetrospectionOK               RetrospectionStatus = "ok"
	RetrospectionNoSuitableTasks  RetrospectionStatus = "no_suitable_tasks"
	RetrospectionError            RetrospectionStatus = "error"
)

// RetrospectionTask is the turn selected by Stage 1 (Select), carrying the
// strategy used to pick it.
type RetrospectionTask struct {
	TaskID       string            `json:"task_id"`
	OriginalTurn ConversationTurn  `json:"original_turn"`
	Strategy     string            `json:"strategy"`
	Complexity   float64           `json:"complexity"`
}

// ToolUsagePatterns summarizes how tools were sequenced within a turn.
type ToolUsagePatterns struct {
	CallSequence      []string            `json:"call_sequence"`
	SequenceLength    int                 `json:"sequence_length"`
	UniqueTools       int                 `json:"unique_tools"`
	Diversity         float64             `json:"diversity"` // unique/total
	ToolFrequency     map[string]int      `json:"tool_frequency"`
	MostUsedTool      string              `json:"most_used_tool,omitempty"`
	AdjacentPairs     map[string]int      `json:"adjacent_pairs,omitempty"`
	ParameterKeys     map[string][]string `json:"parameter_keys,omitempty"`
	ArgumentCounts    map[string][]int    `json:"argument_counts,omitempty"`
}

// ToolSuccessFactors summarizes what correlated with successful tool calls.
type ToolSuccessFactors struct {
	OverallSuccessRate float64            `json:"overall_success_rate"`
	PerToolSuccessRate map[string]float64 `json:"per_tool_success_rate"`
	CommonParameterKeys []string          `json:"common_parameter_keys,omitempty"`
}

// ToolFailureAnalysis summarizes failures observed in a turn's tool calls.
type ToolFailureAnalysis struct {
	FailedTools          []string           `json:"failed_tools"`
	PerToolFailureRate   map[string]float64 `json:"per_tool_failure_rate"`
	ErrorCategories      map[string]int     `json:"error_categories"` // timeout/permission/parameter/network/other
	ConsecutiveFailures  int                `json:"consecutive_failures"`
	FirstCallFailed      bool               `json:"first_call_failed"`
	LastCallFailed       bool               `json:"last_call_failed"`
}

// ToolRetrospection is the always-on post-mortem over a turn's tool calls.
type ToolRetrospection struct {
	UsagePatterns        ToolUsagePatterns   `json:"usage_patterns"`
	SuccessFactors        ToolSuccessFactors  `json:"success_factors"`
	FailureAnalysis       ToolFailureAnalysis `json:"failure_analysis"`
	SelectionInsights     []string            `json:"selection_insights"`
	OptimizationSuggestions []string          `json:"optimization_suggestions"`
}

// RetrospectionResult is the output of a complete Select->Ideate->Assimilate
// pass (plus the tool post-mortem when applicable).
type RetrospectionResult struct {
	RetroID                string               `json:"retro_id"`
	Status                 RetrospectionStatus  `json:"status"`
	ErrorMessage           string               `json:"error_message,omitempty"`
	Task                   *RetrospectionTask   `json:"task,omitempty"`
	Dimensions             []Dimension          `json:"dimensions,omitempty"`
	CreativePaths          []ReasoningPath      `json:"creative_paths,omitempty"`
	Insights               []string             `json:"insights,omitempty"`
	SuccessPatterns        []string             `json:"success_patterns,omitempty"`
	FailureCauses          []string             `json:"failure_causes,omitempty"`
	ImprovementSuggestions []string             `json:"improvement_suggestions,omitempty"`
	ToolRetrospection      *ToolRetrospection   `json:"tool_retrospection,omitempty"`
	AssimilatedStrategyIDs []string             `json:"assimilated_strategy_ids,omitempty"`
	MABUpdates             []MABUpdate          `json:"mab_updates,omitempty"`
}

// Trend is a word-frequency-derived signal surfaced by the Knowledge
// Explorer's Trend stage.
type Trend struct {
	Word                string   `json:"word"`
	Confidence          float64  `json:"confidence"`
	SupportingKnowledge []string `json:"supporting_knowledge"` // KnowledgeItem IDs
}

// CrossDomainInsight is emitted by the Cross-domain stage for seeds that
// carry cross-domain connections.
type CrossDomainInsight struct {
	InsightID  string  `json:"insight_id"`
	Type       string  `json:"type"` // cross_domain_connection
	SeedID     string  `json:"seed_id"`
	Content    string  `json:"content"`
	Confidence float64 `json:"confidence"`
}

// ExplorationResult is the output of a complete five-stage exploration
// pipeline run.
type ExplorationResult struct {
	ExplorationID       string               `json:"exploration_id"`
	Strategy            string               `json:"strategy"`
	Targets             []ExplorationTarget  `json:"targets"`
	DiscoveredKnowledge []KnowledgeItem      `json:"discovered_knowledge"`
	GeneratedSeeds      []ThinkingSeed       `json:"generated_seeds"`
	IdentifiedTrends    []Trend              `json:"identified_trends"`
	CrossDomainInsights []CrossDomainInsight `json:"cross_domain_insights"`
	ExecutionTime       time.Duration        `json:"execution_time"`
	SuccessRate         float64              `json:"success_rate"`
	QualityScore        float64              `json:"quality_score"`
}
