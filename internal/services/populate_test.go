package services

import (
	"context"
	"reflect"
	"testing"

	"github.com/tbourn/go-social-backend/internal/domain"
)

func TestDistinct(t *testing.T) {
	cases := []struct {
		in   []string
		want []string
	}{
		{nil, []string{}},
		{[]string{"a"}, []string{"a"}},
		{[]string{"a", "b", "a", "c", "b"}, []string{"a", "b", "c"}},
		{[]string{"", "a", "", "b"}, []string{"a", "b"}}, // empties dropped
	}
	for _, tc := range cases {
		if got := distinct(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("distinct(%v) = %v; want %v", tc.in, got, tc.want)
		}
	}
}

func TestLookupUsers_EmptyKeysSkipsDirectory(t *testing.T) {
	dir := &fakeUserDirectory{}

	m, err := lookupUsers(context.Background(), nil, dir, []string{"", ""})
	if err != nil {
		t.Fatalf("lookupUsers: %v", err)
	}
	if len(m) != 0 {
		t.Fatalf("expected empty map, got %v", m)
	}
	if dir.calls != 0 {
		t.Fatalf("directory must not be called for empty key sets")
	}
}

func TestLookupUsers_MapsByID(t *testing.T) {
	dir := &fakeUserDirectory{users: map[string]domain.User{
		"u1": {ID: "u1", Username: "alice"},
		"u2": {ID: "u2", Username: "bob"},
	}}

	m, err := lookupUsers(context.Background(), nil, dir, []string{"u2", "u1", "u2", "missing"})
	if err != nil {
		t.Fatalf("lookupUsers: %v", err)
	}
	if dir.calls != 1 {
		t.Fatalf("expected a single batch, got %d", dir.calls)
	}
	if m["u1"] == nil || m["u1"].Username != "alice" {
		t.Fatalf("u1 missing or wrong: %v", m)
	}
	if m["missing"] != nil {
		t.Fatalf("unresolved key should be absent, got %v", m["missing"])
	}
}

func TestLookupPosts_MapsByID(t *testing.T) {
	dir := &fakePostDirectory{posts: map[string]domain.Post{
		"p1": {ID: "p1", Title: "Hello", Content: "World"},
	}}

	m, err := lookupPosts(context.Background(), nil, dir, []string{"p1", "p1", "p2"})
	if err != nil {
		t.Fatalf("lookupPosts: %v", err)
	}
	if len(dir.lastIDs) != 2 {
		t.Fatalf("batch should deduplicate, asked for %v", dir.lastIDs)
	}
	if m["p1"] == nil || m["p1"].Title != "Hello" {
		t.Fatalf("p1 missing or wrong: %v", m)
	}
	if m["p2"] != nil {
		t.Fatalf("unresolved key should be absent")
	}
}
