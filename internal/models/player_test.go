package models

import "testing"

func TestApplyCompletionIncrementsCounters(t *testing.T) {
	p := Player{}

	if earned := p.ApplyCompletion(); earned {
		t.Fatal("first completion must not earn a reward")
	}
	if p.GamesCompleted != 1 || p.LoyaltyPoints != 1 || p.RewardsEarned != 0 {
		t.Fatalf("counters = %d/%d/%d, want 1/1/0", p.GamesCompleted, p.LoyaltyPoints, p.RewardsEarned)
	}
}

func TestApplyCompletionRewardThreshold(t *testing.T) {
	p := Player{GamesCompleted: 9, LoyaltyPoints: 9}

	if earned := p.ApplyCompletion(); !earned {
		t.Fatal("tenth completion must earn a reward")
	}
	if p.GamesCompleted != 10 || p.LoyaltyPoints != 10 || p.RewardsEarned != 1 {
		t.Fatalf("counters = %d/%d/%d, want 10/10/1", p.GamesCompleted, p.LoyaltyPoints, p.RewardsEarned)
	}

	if earned := p.ApplyCompletion(); earned {
		t.Fatal("eleventh completion must not earn a reward")
	}
	if p.RewardsEarned != 1 {
		t.Fatalf("rewards earned = %d, want unchanged at 1", p.RewardsEarned)
	}
}

func TestApplyClaimPreservesRewards(t *testing.T) {
	p := Player{GamesCompleted: 23, LoyaltyPoints: 23, RewardsEarned: 2}

	p.ApplyClaim()

	if p.GamesCompleted != 0 || p.LoyaltyPoints != 0 {
		t.Fatalf("claimable counters = %d/%d, want 0/0", p.GamesCompleted, p.LoyaltyPoints)
	}
	if p.RewardsEarned != 2 {
		t.Fatalf("rewards earned = %d, want preserved at 2", p.RewardsEarned)
	}
}

func TestPlayerValidate(t *testing.T) {
	if err := (&Player{Name: "Alex"}).Validate(); err != nil {
		t.Fatalf("valid player rejected: %v", err)
	}
	if err := (&Player{Name: "   "}).Validate(); err == nil {
		t.Fatal("blank name must be rejected")
	}
}
