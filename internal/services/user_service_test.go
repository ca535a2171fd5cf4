package services

import (
	"testing"

	"github.com/kidwild/coinarena/internal/config"
	"github.com/kidwild/coinarena/internal/models"
	"github.com/kidwild/coinarena/pkg/errors"
)

func testConfig() *config.Config {
	return &config.Config{
		InitialCoins:     1000,
		CheckInRewardMin: 50,
		CheckInRewardMax: 200,
	}
}

func TestUserService_GetOrCreateUser_New(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store, testConfig())

	user, isNew, err := svc.GetOrCreateUser("u1", "Alice")
	if err != nil {
		t.Fatalf("GetOrCreateUser() error = %v", err)
	}
	if !isNew {
		t.Error("isNew = false, want true")
	}
	if user.Coins != 1000 {
		t.Errorf("Coins = %d, want 1000", user.Coins)
	}
	if user.Level != 1 {
		t.Errorf("Level = %d, want 1", user.Level)
	}
	if user.Title != models.DefaultTitle {
		t.Errorf("Title = %q, want %q", user.Title, models.DefaultTitle)
	}

	stored, err := store.GetUserByID("u1")
	if err != nil {
		t.Fatalf("user not persisted: %v", err)
	}
	if stored.Username != "Alice" {
		t.Errorf("stored Username = %q, want Alice", stored.Username)
	}
}

func TestUserService_GetOrCreateUser_RefreshesUsername(t *testing.T) {
	store := newFakeUserStore()
	store.users["u1"] = models.User{UserID: "u1", Username: "Alice", Coins: 500}
	svc := NewUserService(store, testConfig())

	user, isNew, err := svc.GetOrCreateUser("u1", "Alicia")
	if err != nil {
		t.Fatalf("GetOrCreateUser() error = %v", err)
	}
	if isNew {
		t.Error("isNew = true for existing user")
	}
	if user.Coins != 500 {
		t.Errorf("Coins = %d, want untouched 500", user.Coins)
	}

	stored, _ := store.GetUserByID("u1")
	if stored.Username != "Alicia" {
		t.Errorf("stored Username = %q, want Alicia", stored.Username)
	}
}

func TestUserService_GetOrCreateUser_KeepsNameWhenCleanedAway(t *testing.T) {
	store := newFakeUserStore()
	store.users["u1"] = models.User{UserID: "u1", Username: "Alice"}
	svc := NewUserService(store, testConfig())

	if _, _, err := svc.GetOrCreateUser("u1", "<i></i>"); err != nil {
		t.Fatalf("GetOrCreateUser() error = %v", err)
	}

	stored, _ := store.GetUserByID("u1")
	if stored.Username != "Alice" {
		t.Errorf("stored Username = %q, want Alice kept", stored.Username)
	}
}

func TestUserService_GetOrCreateUser_EmptyID(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), testConfig())

	_, _, err := svc.GetOrCreateUser("", "Alice")
	if !errors.IsCode(err, errors.ErrCodeValidation) {
		t.Errorf("error code = %q, want %q", errors.CodeOf(err), errors.ErrCodeValidation)
	}
}

func TestUserService_AddCoins(t *testing.T) {
	store := newFakeUserStore()
	store.users["u1"] = models.User{UserID: "u1", Coins: 100}
	svc := NewUserService(store, testConfig())

	if err := svc.AddCoins("u1", 50, "test credit"); err != nil {
		t.Fatalf("AddCoins() error = %v", err)
	}

	stored, _ := store.GetUserByID("u1")
	if stored.Coins != 150 {
		t.Errorf("Coins = %d, want 150", stored.Coins)
	}
	if stored.TotalEarned != 50 {
		t.Errorf("TotalEarned = %d, want 50", stored.TotalEarned)
	}

	if err := svc.AddCoins("u1", 0, "zero"); !errors.IsCode(err, errors.ErrCodeValidation) {
		t.Errorf("AddCoins(0) error code = %q, want %q", errors.CodeOf(err), errors.ErrCodeValidation)
	}
	if err := svc.AddCoins("u1", -5, "negative"); !errors.IsCode(err, errors.ErrCodeValidation) {
		t.Errorf("AddCoins(-5) error code = %q, want %q", errors.CodeOf(err), errors.ErrCodeValidation)
	}
}

func TestUserService_SpendCoins(t *testing.T) {
	store := newFakeUserStore()
	store.users["u1"] = models.User{UserID: "u1", Coins: 100}
	svc := NewUserService(store, testConfig())

	if err := svc.SpendCoins("u1", 60, "bet"); err != nil {
		t.Fatalf("SpendCoins() error = %v", err)
	}

	stored, _ := store.GetUserByID("u1")
	if stored.Coins != 40 {
		t.Errorf("Coins = %d, want 40", stored.Coins)
	}
	if stored.TotalSpent != 60 {
		t.Errorf("TotalSpent = %d, want 60", stored.TotalSpent)
	}

	err := svc.SpendCoins("u1", 100, "too much")
	if !errors.IsCode(err, errors.ErrCodeInsufficientFunds) {
		t.Errorf("error code = %q, want %q", errors.CodeOf(err), errors.ErrCodeInsufficientFunds)
	}
}

func TestUserService_TransferCoins(t *testing.T) {
	store := newFakeUserStore()
	store.users["u1"] = models.User{UserID: "u1", Coins: 100}
	store.users["u2"] = models.User{UserID: "u2", Coins: 10}
	svc := NewUserService(store, testConfig())

	tests := []struct {
		name     string
		from, to string
		amount   int64
		wantCode string
	}{
		{"zero amount", "u1", "u2", 0, errors.ErrCodeValidation},
		{"self transfer", "u1", "u1", 10, errors.ErrCodeValidation},
		{"insufficient", "u2", "u1", 999, errors.ErrCodeInsufficientFunds},
		{"ok", "u1", "u2", 30, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.TransferCoins(tt.from, tt.to, tt.amount)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("TransferCoins() error = %v", err)
				}
				return
			}
			if !errors.IsCode(err, tt.wantCode) {
				t.Errorf("error code = %q, want %q", errors.CodeOf(err), tt.wantCode)
			}
		})
	}

	from, _ := store.GetUserByID("u1")
	to, _ := store.GetUserByID("u2")
	if from.Coins != 70 {
		t.Errorf("sender Coins = %d, want 70", from.Coins)
	}
	if to.Coins != 40 {
		t.Errorf("receiver Coins = %d, want 40", to.Coins)
	}
}

func TestUserService_AddExperience(t *testing.T) {
	store := newFakeUserStore()
	store.users["u1"] = models.User{UserID: "u1", Level: 1, Experience: 80}
	svc := NewUserService(store, testConfig())

	leveledUp, level, err := svc.AddExperience("u1", 30)
	if err != nil {
		t.Fatalf("AddExperience() error = %v", err)
	}
	if !leveledUp {
		t.Error("leveledUp = false, want true (80+30 crosses 100)")
	}
	if level != 2 {
		t.Errorf("level = %d, want 2", level)
	}

	stored, _ := store.GetUserByID("u1")
	if stored.Level != 2 || stored.Experience != 10 {
		t.Errorf("stored level/exp = %d/%d, want 2/10", stored.Level, stored.Experience)
	}

	if _, _, err := svc.AddExperience("u1", 0); !errors.IsCode(err, errors.ErrCodeValidation) {
		t.Errorf("AddExperience(0) error code = %q, want %q", errors.CodeOf(err), errors.ErrCodeValidation)
	}
}

func TestUserService_SetTitle(t *testing.T) {
	store := newFakeUserStore()
	store.users["u1"] = models.User{UserID: "u1", Title: models.DefaultTitle}
	svc := NewUserService(store, testConfig())

	if err := svc.SetTitle("u1", "幸运儿"); err != nil {
		t.Fatalf("SetTitle() error = %v", err)
	}
	stored, _ := store.GetUserByID("u1")
	if stored.Title != "幸运儿" {
		t.Errorf("Title = %q, want 幸运儿", stored.Title)
	}

	if err := svc.SetTitle("u1", ""); !errors.IsCode(err, errors.ErrCodeValidation) {
		t.Errorf("SetTitle(\"\") error code = %q, want %q", errors.CodeOf(err), errors.ErrCodeValidation)
	}
}

func TestUserService_Profile(t *testing.T) {
	store := newFakeUserStore()
	store.users["u1"] = models.User{UserID: "u1", Coins: 900, TotalEarned: 600, TotalSpent: 400}
	store.users["u2"] = models.User{UserID: "u2", Coins: 2000}
	svc := NewUserService(store, testConfig())

	profile, err := svc.Profile("u1")
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if profile.Rank != 2 {
		t.Errorf("Rank = %d, want 2", profile.Rank)
	}
	if profile.NetProfit != 200 {
		t.Errorf("NetProfit = %d, want 200", profile.NetProfit)
	}
	if profile.ProfitRate != 0.5 {
		t.Errorf("ProfitRate = %v, want 0.5", profile.ProfitRate)
	}
}

func TestUserService_Profile_NoSpend(t *testing.T) {
	store := newFakeUserStore()
	store.users["u1"] = models.User{UserID: "u1", Coins: 1000, TotalEarned: 100}
	svc := NewUserService(store, testConfig())

	profile, err := svc.Profile("u1")
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if profile.ProfitRate != 0 {
		t.Errorf("ProfitRate = %v, want 0 with no spend", profile.ProfitRate)
	}
}

func TestUserService_Leaderboard(t *testing.T) {
	store := newFakeUserStore()
	store.users["u1"] = models.User{UserID: "u1", Username: "A", Coins: 100}
	store.users["u2"] = models.User{UserID: "u2", Username: "B", Coins: 300}
	store.users["u3"] = models.User{UserID: "u3", Username: "C", Coins: 200}
	svc := NewUserService(store, testConfig())

	entries, err := svc.Leaderboard(10, 0)
	if err != nil {
		t.Fatalf("Leaderboard() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3", len(entries))
	}

	wantOrder := []string{"B", "C", "A"}
	for i, entry := range entries {
		if entry.Username != wantOrder[i] {
			t.Errorf("entries[%d].Username = %q, want %q", i, entry.Username, wantOrder[i])
		}
		if entry.Rank != i+1 {
			t.Errorf("entries[%d].Rank = %d, want %d", i, entry.Rank, i+1)
		}
	}
}

func TestUserService_Leaderboard_Offset(t *testing.T) {
	store := newFakeUserStore()
	store.users["u1"] = models.User{UserID: "u1", Username: "A", Coins: 100}
	store.users["u2"] = models.User{UserID: "u2", Username: "B", Coins: 300}
	store.users["u3"] = models.User{UserID: "u3", Username: "C", Coins: 200}
	svc := NewUserService(store, testConfig())

	entries, err := svc.Leaderboard(10, 1)
	if err != nil {
		t.Fatalf("Leaderboard() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].Rank != 2 || entries[0].Username != "C" {
		t.Errorf("entries[0] = rank %d %q, want rank 2 C", entries[0].Rank, entries[0].Username)
	}
}
