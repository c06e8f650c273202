package services

import (
	"context"
	"testing"
	"time"

	"github.com/officialryder1/couplequest-backend/internal/gamification"
	"github.com/officialryder1/couplequest-backend/internal/models"
)

func newAchievementFixture() (*AchievementService, *memStore) {
	store := newMemStore()
	svc := NewAchievementService(store)
	svc.now = func() time.Time { return testNow }
	seedUser(store, "alice", "alice")
	seedUser(store, "bob", "bob")
	seedActiveCouple(store, "c1", "alice", "bob")
	return svc, store
}

func seedCompletedTask(store *memStore, id string, category, difficulty string) {
	by := "alice"
	at := testNow
	store.tasks[id] = models.Task{
		ID: id, CoupleID: "c1", Title: "Task " + id,
		Points: 10, Category: category, Difficulty: difficulty,
		IsCompleted: true, CompletedAt: &at, CompletedBy: &by,
		CreatedBy: "alice", CreatedAt: testNow,
	}
}

func TestCheckAll_GrantsAndCreditsBothMembers(t *testing.T) {
	svc, store := newAchievementFixture()
	store.achievements = []models.Achievement{
		{ID: "a1", Name: "First Task", XPReward: 25,
			UnlockRule: gamification.UnlockRule{Kind: gamification.RuleTaskCount, Count: 1}},
		{ID: "a2", Name: "Romantic", XPReward: 50,
			UnlockRule: gamification.UnlockRule{Kind: gamification.RuleCategoryTasks, Count: 3, Category: models.CategoryRomance}},
	}
	seedCompletedTask(store, "t1", models.CategoryRomance, models.DifficultyEasy)

	couple := store.couples["c1"]
	unlocked, err := svc.CheckAll(context.Background(), &couple)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(unlocked) != 1 || unlocked[0].ID != "a1" {
		t.Fatalf("unlocked = %+v, want just a1", unlocked)
	}

	if store.profiles["alice"].XP != 25 || store.profiles["bob"].XP != 25 {
		t.Fatalf("both members must receive the reward, got %d/%d",
			store.profiles["alice"].XP, store.profiles["bob"].XP)
	}
	if _, ok := store.unlocked["c1"]["a1"]; !ok {
		t.Fatal("unlock not recorded")
	}
}

func TestCheckAll_SecondRunGrantsNothing(t *testing.T) {
	svc, store := newAchievementFixture()
	store.achievements = []models.Achievement{
		{ID: "a1", Name: "First Task", XPReward: 25,
			UnlockRule: gamification.UnlockRule{Kind: gamification.RuleTaskCount, Count: 1}},
	}
	seedCompletedTask(store, "t1", models.CategoryOther, models.DifficultyMedium)

	couple := store.couples["c1"]
	if _, err := svc.CheckAll(context.Background(), &couple); err != nil {
		t.Fatalf("first check: %v", err)
	}

	unlocked, err := svc.CheckAll(context.Background(), &couple)
	if err != nil {
		t.Fatalf("second check: %v", err)
	}
	if len(unlocked) != 0 {
		t.Fatalf("second run unlocked %+v, want nothing", unlocked)
	}
	if store.profiles["alice"].XP != 25 {
		t.Fatalf("reward credited twice: xp = %d", store.profiles["alice"].XP)
	}
}

func TestCheckAll_StreakRuleUsesCoupleStreak(t *testing.T) {
	svc, store := newAchievementFixture()
	store.achievements = []models.Achievement{
		{ID: "a1", Name: "On Fire", XPReward: 30,
			UnlockRule: gamification.UnlockRule{Kind: gamification.RuleStreakDays, Count: 3}},
	}

	couple := store.couples["c1"]
	couple.CurrentStreak = 2
	unlocked, err := svc.CheckAll(context.Background(), &couple)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(unlocked) != 0 {
		t.Fatal("streak 2 must not satisfy a 3-day rule")
	}

	couple.CurrentStreak = 3
	unlocked, err = svc.CheckAll(context.Background(), &couple)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(unlocked) != 1 || unlocked[0].ID != "a1" {
		t.Fatalf("unlocked = %+v, want a1", unlocked)
	}
}

func TestCheckAll_DifficultyRule(t *testing.T) {
	svc, store := newAchievementFixture()
	store.achievements = []models.Achievement{
		{ID: "a1", Name: "Hard Mode", XPReward: 40,
			UnlockRule: gamification.UnlockRule{Kind: gamification.RuleDifficultyTasks, Count: 2, Difficulty: models.DifficultyHard}},
	}
	seedCompletedTask(store, "t1", models.CategoryChores, models.DifficultyHard)
	seedCompletedTask(store, "t2", models.CategoryFitness, models.DifficultyHard)

	couple := store.couples["c1"]
	unlocked, err := svc.CheckAll(context.Background(), &couple)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(unlocked) != 1 {
		t.Fatalf("unlocked = %+v, want the hard-mode achievement", unlocked)
	}
}
