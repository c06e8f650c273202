package gamification

import (
	"encoding/json"
	"fmt"
)

// RuleKind identifies one of the supported unlock condition variants.
type RuleKind string

const (
	RuleTaskCount       RuleKind = "task_count"
	RuleStreakDays      RuleKind = "streak_days"
	RuleCategoryTasks   RuleKind = "category_tasks"
	RuleDifficultyTasks RuleKind = "difficulty_tasks"
)

// UnlockRule is a declarative achievement condition. Exactly one kind is
// set; Category and Difficulty qualify their respective kinds only.
type UnlockRule struct {
	Kind       RuleKind `json:"kind"`
	Count      int      `json:"count"`
	Category   string   `json:"category,omitempty"`
	Difficulty string   `json:"difficulty,omitempty"`
}

// ruleJSON is the stored wire shape, e.g. {"task_count": 1} or
// {"category_tasks": 5, "category": "ROMANCE"}.
type ruleJSON struct {
	TaskCount       *int   `json:"task_count,omitempty"`
	StreakDays      *int   `json:"streak_days,omitempty"`
	CategoryTasks   *int   `json:"category_tasks,omitempty"`
	Category        string `json:"category,omitempty"`
	DifficultyTasks *int   `json:"difficulty_tasks,omitempty"`
	Difficulty      string `json:"difficulty,omitempty"`
}

// MarshalJSON writes the compact stored shape
func (r UnlockRule) MarshalJSON() ([]byte, error) {
	var raw ruleJSON
	switch r.Kind {
	case RuleTaskCount:
		raw.TaskCount = &r.Count
	case RuleStreakDays:
		raw.StreakDays = &r.Count
	case RuleCategoryTasks:
		raw.CategoryTasks = &r.Count
		raw.Category = r.Category
	case RuleDifficultyTasks:
		raw.DifficultyTasks = &r.Count
		raw.Difficulty = r.Difficulty
	default:
		return nil, fmt.Errorf("unknown rule kind %q", r.Kind)
	}
	return json.Marshal(raw)
}

// UnmarshalJSON parses the stored shape into the tagged variant
func (r *UnlockRule) UnmarshalJSON(data []byte) error {
	var raw ruleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.TaskCount != nil:
		*r = UnlockRule{Kind: RuleTaskCount, Count: *raw.TaskCount}
	case raw.StreakDays != nil:
		*r = UnlockRule{Kind: RuleStreakDays, Count: *raw.StreakDays}
	case raw.CategoryTasks != nil:
		*r = UnlockRule{Kind: RuleCategoryTasks, Count: *raw.CategoryTasks, Category: raw.Category}
	case raw.DifficultyTasks != nil:
		*r = UnlockRule{Kind: RuleDifficultyTasks, Count: *raw.DifficultyTasks, Difficulty: raw.Difficulty}
	default:
		return fmt.Errorf("unlock rule has no recognized condition: %s", data)
	}
	return nil
}

// CoupleStats is the snapshot of a couple's history a rule is evaluated
// against.
type CoupleStats struct {
	CompletedTasks  int
	CurrentStreak   int
	CompletedByCat  map[string]int
	CompletedByDiff map[string]int
}

// Evaluate reports whether the couple's history satisfies the rule.
func Evaluate(rule UnlockRule, stats CoupleStats) bool {
	switch rule.Kind {
	case RuleTaskCount:
		return stats.CompletedTasks >= rule.Count
	case RuleStreakDays:
		return stats.CurrentStreak >= rule.Count
	case RuleCategoryTasks:
		return stats.CompletedByCat[rule.Category] >= rule.Count
	case RuleDifficultyTasks:
		return stats.CompletedByDiff[rule.Difficulty] >= rule.Count
	default:
		return false
	}
}
