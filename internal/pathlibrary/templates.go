package pathlibrary

import "unified-thinking/internal/types"

// PathTemplate is one entry in the map passed to MigrateFromTemplates.
type PathTemplate struct {
	PathType       string
	Description    string
	PromptTemplate string
	StrategyID     string
	Category       types.PathCategory
}

// DefaultTemplates is a starter set of one canonical reasoning-path template
// per category, used to seed a freshly created library.
func DefaultTemplates() map[string]PathTemplate {
	return map[string]PathTemplate{
		"template_analytical": {
			PathType: "analytical", Category: types.PathAnalytical,
			Description:    "Break the task into component facts and derive a conclusion step by step.",
			PromptTemplate: "Analyze the task: {task}\n\nConsider this seed: {thinking_seed}\n\nDerive a conclusion through explicit, stepwise reasoning.",
			StrategyID:     "template_analytical",
		},
		"template_creative": {
			PathType: "creative", Category: types.PathCreative,
			Description:    "Explore unconventional framings before converging on a solution.",
			PromptTemplate: "Task: {task}\n\nSeed: {thinking_seed}\n\nGenerate an unconventional angle before answering.",
			StrategyID:     "template_creative",
		},
		"template_critical": {
			PathType: "critical", Category: types.PathCritical,
			Description:    "Stress-test the obvious answer for hidden assumptions.",
			PromptTemplate: "Task: {task}\n\nSeed: {thinking_seed}\n\nIdentify and challenge the weakest assumption before answering.",
			StrategyID:     "template_critical",
		},
		"template_practical": {
			PathType: "practical", Category: types.PathPractical,
			Description:    "Favor the simplest solution that satisfies the constraints.",
			PromptTemplate: "Task: {task}\n\nSeed: {thinking_seed}\n\nPropose the most direct, implementable solution.",
			StrategyID:     "template_practical",
		},
		"template_collaborative": {
			PathType: "collaborative", Category: types.PathCollaborative,
			Description:    "Frame the task from multiple stakeholder perspectives.",
			PromptTemplate: "Task: {task}\n\nSeed: {thinking_seed}\n\nConsider how different stakeholders would approach this.",
			StrategyID:     "template_collaborative",
		},
		"template_adaptive": {
			PathType: "adaptive", Category: types.PathAdaptive,
			Description:    "Draw an analogy from an unrelated domain to reframe the task.",
			PromptTemplate: "Task: {task}\n\nSeed: {thinking_seed}\n\nFind a cross-domain analogy and apply it.",
			StrategyID:     "template_adaptive",
		},
		"template_systematic": {
			PathType: "systematic", Category: types.PathSystematic,
			Description:    "Apply a fixed checklist-style procedure.",
			PromptTemplate: "Task: {task}\n\nSeed: {thinking_seed}\n\nWork through a systematic checklist before concluding.",
			StrategyID:     "template_systematic",
		},
		"template_intuitive": {
			PathType: "intuitive", Category: types.PathIntuitive,
			Description:    "Favor a fast, pattern-matched first response.",
			PromptTemplate: "Task: {task}\n\nSeed: {thinking_seed}\n\nGive your immediate instinct, then justify it briefly.",
			StrategyID:     "template_intuitive",
		},
		"template_strategic": {
			PathType: "strategic", Category: types.PathStrategic,
			Description:    "Weigh longer-horizon tradeoffs before committing.",
			PromptTemplate: "Task: {task}\n\nSeed: {thinking_seed}\n\nConsider second-order effects before proposing a solution.",
			StrategyID:     "template_strategic",
		},
		"template_experimental": {
			PathType: "experimental", Category: types.PathExperimental,
			Description:    "Try a deliberately untested approach and flag the risk.",
			PromptTemplate: "Task: {task}\n\nSeed: {thinking_seed}\n\nPropose a speculative approach and note what could go wrong.",
			StrategyID:     "template_experimental",
		},
	}
}

// MigrateFromTemplates inserts one path per template keyed by path_id,
// skipping any path_id already present. Running this twice over the same
// map yields the same path set as running it once.
func (l *Library) MigrateFromTemplates(templates map[string]PathTemplate) ([]string, error) {
	var created []string

	for id, tmpl := range templates {
		l.mu.Lock()
		_, exists := l.cache[id]
		l.mu.Unlock()
		if exists {
			continue
		}

		path := &types.ReasoningPath{
			PathID:         id,
			PathType:       tmpl.PathType,
			Description:    tmpl.Description,
			PromptTemplate: tmpl.PromptTemplate,
			StrategyID:     tmpl.StrategyID,
			Metadata: types.PathMetadata{
				Category:           tmpl.Category,
				Status:             types.PathStatusActive,
				EffectivenessScore: 0.5,
			},
		}

		if err := l.Add(path); err != nil {
			continue
		}
		created = append(created, id)
	}

	return created, nil
}
