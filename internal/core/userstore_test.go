package core

import (
	"reflect"
	"testing"

	"github.com/cosmic-jellyfish/boardly/internal/storage"
	"github.com/cosmic-jellyfish/boardly/pkg/models"
)

func TestProfileRoundTrip(t *testing.T) {
	store := NewUserStore(storage.NewMemoryKV())

	if store.CurrentUser() != nil {
		t.Fatal("expected no profile before onboarding")
	}
	if store.HasCompletedOnboarding() {
		t.Fatal("expected onboarding incomplete")
	}

	profile := models.Profile{Name: "Ada", Avatar: "🙂", AvatarType: models.AvatarEmoji}
	if err := store.SetCurrentUser(profile); err != nil {
		t.Fatalf("SetCurrentUser failed: %v", err)
	}

	got := store.CurrentUser()
	if got == nil || *got != profile {
		t.Fatalf("expected stored profile back, got %+v", got)
	}
	if !store.HasCompletedOnboarding() {
		t.Error("expected onboarding complete once a profile exists")
	}

	if err := store.ClearUser(); err != nil {
		t.Fatalf("ClearUser failed: %v", err)
	}
	if store.CurrentUser() != nil {
		t.Error("expected no profile after clear")
	}
}

func TestAddUserDeduplicates(t *testing.T) {
	store := NewUserStore(storage.NewMemoryKV())

	for _, name := range []string{"Ada", "Grace", "Ada"} {
		if err := store.AddUser(name); err != nil {
			t.Fatalf("AddUser failed: %v", err)
		}
	}

	if got := store.AllUsers(); !reflect.DeepEqual(got, []string{"Ada", "Grace"}) {
		t.Errorf("expected deduplicated cache, got %v", got)
	}
}

func TestRemoveUser(t *testing.T) {
	store := NewUserStore(storage.NewMemoryKV())
	_ = store.AddUser("Ada")
	_ = store.AddUser("Grace")

	if err := store.RemoveUser("Ada"); err != nil {
		t.Fatalf("RemoveUser failed: %v", err)
	}
	if got := store.AllUsers(); !reflect.DeepEqual(got, []string{"Grace"}) {
		t.Errorf("expected Ada removed, got %v", got)
	}

	// Removing an absent name is not an error.
	if err := store.RemoveUser("Nobody"); err != nil {
		t.Errorf("RemoveUser of absent name failed: %v", err)
	}
}

func TestInitializeSeedsDefault(t *testing.T) {
	store := NewUserStore(storage.NewMemoryKV())

	if err := store.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if got := store.AllUsers(); !reflect.DeepEqual(got, []string{models.DefaultAssignee}) {
		t.Errorf("expected default assignee seeded, got %v", got)
	}

	// Second run must not duplicate.
	if err := store.Initialize(); err != nil {
		t.Fatalf("second Initialize failed: %v", err)
	}
	if got := store.AllUsers(); len(got) != 1 {
		t.Errorf("expected single seeded name, got %v", got)
	}
}

func TestInitializeMigratesLegacyUsers(t *testing.T) {
	kv := storage.NewMemoryKV()
	legacy := `[{"name":"Ada Lovelace","username":"ada"},{"name":"","username":"grace"}]`
	if err := kv.Set(storage.UsersSlot, legacy); err != nil {
		t.Fatalf("seeding legacy slot: %v", err)
	}

	store := NewUserStore(kv)
	if err := store.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if got := store.AllUsers(); !reflect.DeepEqual(got, []string{"Ada Lovelace", "grace"}) {
		t.Errorf("expected migrated display names, got %v", got)
	}
}

func TestInitializeResetsCorruptSlot(t *testing.T) {
	kv := storage.NewMemoryKV()
	if err := kv.Set(storage.UsersSlot, "{not json"); err != nil {
		t.Fatalf("seeding corrupt slot: %v", err)
	}

	store := NewUserStore(kv)
	if err := store.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if got := store.AllUsers(); !reflect.DeepEqual(got, []string{models.DefaultAssignee}) {
		t.Errorf("expected reset to default, got %v", got)
	}
}

func TestUserReplaceAll(t *testing.T) {
	store := NewUserStore(storage.NewMemoryKV())
	_ = store.AddUser("Ada")

	if err := store.ReplaceAll([]string{"Grace", "Margaret"}); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
	if got := store.AllUsers(); !reflect.DeepEqual(got, []string{"Grace", "Margaret"}) {
		t.Errorf("expected replacement cache, got %v", got)
	}
}
