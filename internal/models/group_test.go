package models

import "testing"

func TestGetGroup(t *testing.T) {
	tests := []struct {
		id        int
		wantTitle string
		wantFound bool
	}{
		{0, "User", true},
		{1, "Moderator", true},
		{10, "Admin", true},
		{100, "Owner", true},
		{2, "", false},
		{-1, "", false},
		{99, "", false},
	}

	for _, tt := range tests {
		group, found := GetGroup(tt.id)
		if found != tt.wantFound {
			t.Errorf("GetGroup(%d) found = %v, want %v", tt.id, found, tt.wantFound)
			continue
		}
		if found && group.Title != tt.wantTitle {
			t.Errorf("GetGroup(%d) title = %q, want %q", tt.id, group.Title, tt.wantTitle)
		}
	}
}

func TestGetGroupByTitle(t *testing.T) {
	group, found := GetGroupByTitle("Admin")
	if !found || group.ID != 10 {
		t.Errorf("GetGroupByTitle(Admin) = %+v, %v, want id 10", group, found)
	}

	if _, found := GetGroupByTitle("Root"); found {
		t.Error("GetGroupByTitle(Root) should not be found")
	}
}

func TestIsAtLeast(t *testing.T) {
	tests := []struct {
		level, required int
		want            bool
	}{
		{0, 0, true},
		{1, 1, true},
		{10, 1, true},
		{100, 10, true},
		{0, 1, false},
		{1, 10, false},
	}

	for _, tt := range tests {
		if got := IsAtLeast(tt.level, tt.required); got != tt.want {
			t.Errorf("IsAtLeast(%d, %d) = %v, want %v", tt.level, tt.required, got, tt.want)
		}
	}
}

func TestIsAbove(t *testing.T) {
	tests := []struct {
		actor, target int
		want          bool
	}{
		{1, 0, true},
		{10, 1, true},
		{100, 10, true},
		{1, 1, false}, // 同級不允許互相操作
		{0, 1, false},
		{10, 100, false},
	}

	for _, tt := range tests {
		if got := IsAbove(tt.actor, tt.target); got != tt.want {
			t.Errorf("IsAbove(%d, %d) = %v, want %v", tt.actor, tt.target, got, tt.want)
		}
	}
}
