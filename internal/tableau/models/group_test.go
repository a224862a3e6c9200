package models

import "testing"

func TestGroupKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  GroupKey
		want string
	}{
		{"full key", GroupKey{"db", "5432", "admin"}, "db:5432/admin"},
		{"no port", GroupKey{"db", "", "admin"}, "db/admin"},
		{"no user", GroupKey{"db", "5432", ""}, "db:5432/(no user)"},
		{"empty", GroupKey{}, "(none)/(no user)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGroupKey_SeparatorInFieldsDoesNotCollide(t *testing.T) {
	a := GroupKey{ServerAddress: "db|5432", ServerPort: "", UserName: "admin"}
	b := GroupKey{ServerAddress: "db", ServerPort: "5432|", UserName: "admin"}

	if a == b {
		t.Fatal("keys with different fields compared equal")
	}

	m := map[GroupKey]int{a: 1, b: 2}
	if len(m) != 2 {
		t.Errorf("map has %d entries, want 2", len(m))
	}
}

func TestFindGroup(t *testing.T) {
	groups := []ConnectionGroup{
		{ID: 1, Key: GroupKey{"db", "5432", "admin"}},
		{ID: 2, Key: GroupKey{"db", "5432", ""}},
	}

	g, ok := FindGroupByID(groups, 2)
	if !ok || g.Key.UserName != "" {
		t.Errorf("FindGroupByID(2) = %v, %v", g, ok)
	}
	if _, ok := FindGroupByID(groups, 3); ok {
		t.Error("FindGroupByID(3) should miss")
	}

	g, ok = FindGroupByKey(groups, GroupKey{"db", "5432", "admin"})
	if !ok || g.ID != 1 {
		t.Errorf("FindGroupByKey = %v, %v", g, ok)
	}
	if _, ok := FindGroupByKey(groups, GroupKey{"db2", "5432", "admin"}); ok {
		t.Error("FindGroupByKey should miss unknown key")
	}
}
