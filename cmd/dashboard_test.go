package main

import (
	"net/http"
	"testing"

	"blogspace/internal/auth"
)

func TestDashboardStatsRequireAuthentication(t *testing.T) {
	app, _ := newTestApplication(t)

	resp := app.doRequest(t, http.MethodGet, "/api/dashboard/stats", "", nil)
	if resp.code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want %d", resp.code, http.StatusUnauthorized)
	}
}

func TestDashboardStatsForNewUser(t *testing.T) {
	app, _ := newTestApplication(t)

	_, token, _ := app.registerTestUser(t, "Author", "author@example.com", auth.RoleAuthor)

	resp := app.doRequest(t, http.MethodGet, "/api/dashboard/stats", token, nil)
	if resp.code != http.StatusOK {
		t.Fatalf("got status %d, want %d", resp.code, http.StatusOK)
	}

	stats := resp.body["stats"].(map[string]any)
	if stats["totalBlogs"].(float64) != 0 {
		t.Errorf("totalBlogs = %v, want 0", stats["totalBlogs"])
	}
	if stats["totalViews"].(float64) != 0 {
		t.Errorf("totalViews = %v, want 0", stats["totalViews"])
	}
	if stats["followersCount"].(float64) != 0 {
		t.Errorf("followersCount = %v, want 0", stats["followersCount"])
	}

	// Must serialize as an empty array, not null.
	recent, ok := stats["recentBlogs"].([]any)
	if !ok {
		t.Fatalf("recentBlogs = %v, want an array", stats["recentBlogs"])
	}
	if len(recent) != 0 {
		t.Errorf("recentBlogs = %v, want empty", recent)
	}
}

func TestDashboardStatsCountOwnBlogsOnly(t *testing.T) {
	app, store := newTestApplication(t)

	categoryID := app.createTestCategory(t, store, "golang")
	_, aliceToken, _ := app.registerTestUser(t, "Alice", "alice@example.com", auth.RoleAuthor)
	_, bobToken, _ := app.registerTestUser(t, "Bob", "bob@example.com", auth.RoleAuthor)

	blogID := app.createTestBlog(t, aliceToken, categoryID, "Alice writes")
	app.createTestBlog(t, bobToken, categoryID, "Bob writes")

	// Two reads of Alice's blog land in her view total.
	app.doRequest(t, http.MethodGet, blogPath(blogID, ""), "", nil)
	app.doRequest(t, http.MethodGet, blogPath(blogID, ""), "", nil)

	resp := app.doRequest(t, http.MethodGet, "/api/dashboard/stats", aliceToken, nil)
	if resp.code != http.StatusOK {
		t.Fatalf("got status %d", resp.code)
	}

	stats := resp.body["stats"].(map[string]any)
	if stats["totalBlogs"].(float64) != 1 {
		t.Errorf("totalBlogs = %v, want 1", stats["totalBlogs"])
	}
	if stats["totalViews"].(float64) != 2 {
		t.Errorf("totalViews = %v, want 2", stats["totalViews"])
	}

	recent := stats["recentBlogs"].([]any)
	if len(recent) != 1 {
		t.Fatalf("recentBlogs has %d entries, want 1", len(recent))
	}
	entry := recent[0].(map[string]any)
	if got := int64(entry["id"].(float64)); got != blogID {
		t.Errorf("recent blog id = %d, want %d", got, blogID)
	}
	if entry["title"] != "Alice writes" {
		t.Errorf("recent blog title = %v", entry["title"])
	}
}

func TestDashboardRecentBlogsCappedAtFive(t *testing.T) {
	app, store := newTestApplication(t)

	categoryID := app.createTestCategory(t, store, "golang")
	_, token, _ := app.registerTestUser(t, "Author", "author@example.com", auth.RoleAuthor)

	titles := []string{"One", "Two", "Three", "Four", "Five", "Six", "Seven"}
	for _, title := range titles {
		app.createTestBlog(t, token, categoryID, title)
	}

	resp := app.doRequest(t, http.MethodGet, "/api/dashboard/stats", token, nil)
	stats := resp.body["stats"].(map[string]any)
	if stats["totalBlogs"].(float64) != float64(len(titles)) {
		t.Errorf("totalBlogs = %v, want %d", stats["totalBlogs"], len(titles))
	}

	recent := stats["recentBlogs"].([]any)
	if len(recent) != 5 {
		t.Fatalf("recentBlogs has %d entries, want 5", len(recent))
	}
	// Newest first.
	if recent[0].(map[string]any)["title"] != "Seven" {
		t.Errorf("newest recent blog = %v, want %q", recent[0].(map[string]any)["title"], "Seven")
	}
}
