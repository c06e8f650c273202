package gamification

import (
	"encoding/json"
	"testing"
)

func TestUnlockRule_UnmarshalStoredShapes(t *testing.T) {
	cases := []struct {
		raw  string
		want UnlockRule
	}{
		{`{"task_count": 1}`, UnlockRule{Kind: RuleTaskCount, Count: 1}},
		{`{"streak_days": 3}`, UnlockRule{Kind: RuleStreakDays, Count: 3}},
		{`{"category_tasks": 5, "category": "ROMANCE"}`, UnlockRule{Kind: RuleCategoryTasks, Count: 5, Category: "ROMANCE"}},
		{`{"difficulty_tasks": 5, "difficulty": "HARD"}`, UnlockRule{Kind: RuleDifficultyTasks, Count: 5, Difficulty: "HARD"}},
	}
	for _, c := range cases {
		var got UnlockRule
		if err := json.Unmarshal([]byte(c.raw), &got); err != nil {
			t.Fatalf("unmarshal %s: %v", c.raw, err)
		}
		if got != c.want {
			t.Errorf("unmarshal %s = %+v, want %+v", c.raw, got, c.want)
		}
	}
}

func TestUnlockRule_UnmarshalRejectsUnknown(t *testing.T) {
	var r UnlockRule
	if err := json.Unmarshal([]byte(`{"points_spent": 9}`), &r); err == nil {
		t.Fatal("expected error for unrecognized rule")
	}
}

func TestUnlockRule_RoundTrip(t *testing.T) {
	orig := UnlockRule{Kind: RuleCategoryTasks, Count: 3, Category: "FITNESS"}
	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got UnlockRule
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != orig {
		t.Fatalf("round trip changed rule: %+v != %+v", got, orig)
	}
}

func TestEvaluate(t *testing.T) {
	stats := CoupleStats{
		CompletedTasks: 4,
		CurrentStreak:  6,
		CompletedByCat: map[string]int{"ROMANCE": 2, "CHORES": 2},
		CompletedByDiff: map[string]int{
			"HARD": 1,
			"EASY": 3,
		},
	}

	cases := []struct {
		name string
		rule UnlockRule
		want bool
	}{
		{"first task", UnlockRule{Kind: RuleTaskCount, Count: 1}, true},
		{"task count met", UnlockRule{Kind: RuleTaskCount, Count: 4}, true},
		{"task count not met", UnlockRule{Kind: RuleTaskCount, Count: 5}, false},
		{"streak met", UnlockRule{Kind: RuleStreakDays, Count: 3}, true},
		{"streak not met", UnlockRule{Kind: RuleStreakDays, Count: 7}, false},
		{"category met", UnlockRule{Kind: RuleCategoryTasks, Count: 2, Category: "ROMANCE"}, true},
		{"category not met", UnlockRule{Kind: RuleCategoryTasks, Count: 3, Category: "ROMANCE"}, false},
		{"category absent", UnlockRule{Kind: RuleCategoryTasks, Count: 1, Category: "ADVENTURE"}, false},
		{"difficulty met", UnlockRule{Kind: RuleDifficultyTasks, Count: 1, Difficulty: "HARD"}, true},
		{"difficulty not met", UnlockRule{Kind: RuleDifficultyTasks, Count: 2, Difficulty: "HARD"}, false},
		{"unknown kind", UnlockRule{Kind: "points", Count: 1}, false},
	}
	for _, c := range cases {
		if got := Evaluate(c.rule, stats); got != c.want {
			t.Errorf("%s: Evaluate = %v, want %v", c.name, got, c.want)
		}
	}
}
