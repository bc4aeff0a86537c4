package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"blogspace/internal/auth"
	"blogspace/internal/config"
	"blogspace/internal/core"
	"blogspace/internal/filter"
	"blogspace/internal/utils/databaseutils"
	"blogspace/models"
)

const testJWTSecret = "test-secret"

// memstore is an in-memory datastore with the same contract as the Postgres
// core: duplicate email and duplicate like are errors, unlike of an absent
// member is a no-op, the view increment is atomic under the lock.
type memstore struct {
	mu           sync.Mutex
	nextID       int64
	users        map[int64]*auth.User
	blogs        map[int64]*models.Blog
	comments     map[int64]*models.Comment
	categories   map[int64]*models.Category
	blogLikes    map[int64][]int64
	commentLikes map[int64][]int64
}

func newMemstore() *memstore {
	return &memstore{
		users:        make(map[int64]*auth.User),
		blogs:        make(map[int64]*models.Blog),
		comments:     make(map[int64]*models.Comment),
		categories:   make(map[int64]*models.Category),
		blogLikes:    make(map[int64][]int64),
		commentLikes: make(map[int64][]int64),
	}
}

func (m *memstore) newID() int64 {
	m.nextID++
	return m.nextID
}

func (m *memstore) CreateUser(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Email == user.Email {
			return core.ErrDuplicateEmail
		}
	}

	user.ID = m.newID()
	user.CreatedAt = time.Now()
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *memstore) GetUserByEmail(_ context.Context, email string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, core.NoRecordFound
}

func (m *memstore) GetUserByID(_ context.Context, id int64) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return nil, core.NoRecordFound
	}
	copied := *user
	return &copied, nil
}

func (m *memstore) GetUsersByIDList(_ context.Context, userIDList []int64) ([]*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []*auth.User
	seen := make(map[int64]bool)
	for _, id := range userIDList {
		if seen[id] {
			continue
		}
		seen[id] = true
		if user, ok := m.users[id]; ok {
			copied := *user
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *memstore) deleteUser(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
}

func (m *memstore) CreateBlog(_ context.Context, blog *models.Blog) (*models.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.blogs {
		if existing.Slug == blog.Slug {
			return nil, core.ErrDuplicateSlug
		}
	}

	copied := *blog
	copied.ID = m.newID()
	copied.CreatedAt = time.Now()
	copied.UpdatedAt = copied.CreatedAt
	if copied.Tags == nil {
		copied.Tags = []string{}
	}
	m.blogs[copied.ID] = &copied

	result := copied
	return &result, nil
}

func (m *memstore) GetBlogs(_ context.Context, blogFilter filter.BlogFilter) ([]*models.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []*models.Blog
	for _, blog := range m.blogs {
		if blog.Status != models.StatusPublished {
			continue
		}
		if blogFilter.Keyword != "" && !strings.Contains(strings.ToLower(blog.Title), strings.ToLower(blogFilter.Keyword)) {
			continue
		}
		if blogFilter.CategoryID > 0 && blog.CategoryID != blogFilter.CategoryID {
			continue
		}
		copied := *blog
		result = append(result, &copied)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if blogFilter.Offset >= int64(len(result)) {
		return []*models.Blog{}, nil
	}
	result = result[blogFilter.Offset:]
	if blogFilter.Limit < int64(len(result)) {
		result = result[:blogFilter.Limit]
	}

	return result, nil
}

func (m *memstore) ViewBlog(_ context.Context, id int64) (*models.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	blog, ok := m.blogs[id]
	if !ok {
		return nil, core.NoRecordFound
	}

	blog.Views++
	copied := *blog
	return &copied, nil
}

func (m *memstore) BlogExists(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.blogs[id]
	return ok, nil
}

func (m *memstore) SlugExists(_ context.Context, slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, blog := range m.blogs {
		if blog.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *memstore) LikeBlog(_ context.Context, blogID, userID int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.blogs[blogID]; !ok {
		return nil, core.NoRecordFound
	}

	for _, liker := range m.blogLikes[blogID] {
		if liker == userID {
			return nil, core.ErrAlreadyLiked
		}
	}

	m.blogLikes[blogID] = append(m.blogLikes[blogID], userID)
	return append([]int64{}, m.blogLikes[blogID]...), nil
}

func (m *memstore) UnlikeBlog(_ context.Context, blogID, userID int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.blogs[blogID]; !ok {
		return nil, core.NoRecordFound
	}

	likers := m.blogLikes[blogID][:0:0]
	for _, liker := range m.blogLikes[blogID] {
		if liker != userID {
			likers = append(likers, liker)
		}
	}
	m.blogLikes[blogID] = likers

	return append([]int64{}, likers...), nil
}

func (m *memstore) LikersByBlogIDs(_ context.Context, blogIDList []int64) (map[int64][]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make(map[int64][]int64)
	for _, id := range blogIDList {
		if likers, ok := m.blogLikes[id]; ok && len(likers) > 0 {
			result[id] = append([]int64{}, likers...)
		}
	}
	return result, nil
}

func (m *memstore) CreateComment(_ context.Context, comment *models.Comment) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *comment
	copied.ID = m.newID()
	copied.CreatedAt = time.Now()
	copied.UpdatedAt = copied.CreatedAt
	m.comments[copied.ID] = &copied

	result := copied
	return &result, nil
}

func (m *memstore) GetCommentsByBlogID(_ context.Context, blogID int64) ([]*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []*models.Comment
	for _, comment := range m.comments {
		if comment.BlogID == blogID {
			copied := *comment
			result = append(result, &copied)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func (m *memstore) LikeComment(_ context.Context, commentID, userID int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.comments[commentID]; !ok {
		return nil, core.NoRecordFound
	}

	for _, liker := range m.commentLikes[commentID] {
		if liker == userID {
			return nil, core.ErrAlreadyLiked
		}
	}

	m.commentLikes[commentID] = append(m.commentLikes[commentID], userID)
	return append([]int64{}, m.commentLikes[commentID]...), nil
}

func (m *memstore) UnlikeComment(_ context.Context, commentID, userID int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.comments[commentID]; !ok {
		return nil, core.NoRecordFound
	}

	likers := m.commentLikes[commentID][:0:0]
	for _, liker := range m.commentLikes[commentID] {
		if liker != userID {
			likers = append(likers, liker)
		}
	}
	m.commentLikes[commentID] = likers

	return append([]int64{}, likers...), nil
}

func (m *memstore) LikersByCommentIDs(_ context.Context, commentIDList []int64) (map[int64][]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make(map[int64][]int64)
	for _, id := range commentIDList {
		if likers, ok := m.commentLikes[id]; ok && len(likers) > 0 {
			result[id] = append([]int64{}, likers...)
		}
	}
	return result, nil
}

func (m *memstore) CreateCategory(_ context.Context, name string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.categories {
		if existing.Name == name {
			return nil, core.ErrDuplicateCategory
		}
	}

	category := &models.Category{ID: m.newID(), Name: name}
	m.categories[category.ID] = category

	copied := *category
	return &copied, nil
}

func (m *memstore) GetCategories(_ context.Context) ([]*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []*models.Category
	for _, category := range m.categories {
		copied := *category
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *memstore) GetCategoryByID(_ context.Context, id int64) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	category, ok := m.categories[id]
	if !ok {
		return nil, core.NoRecordFound
	}
	copied := *category
	return &copied, nil
}

func (m *memstore) GetCategoriesByIDList(_ context.Context, categoryIDList []int64) ([]*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []*models.Category
	seen := make(map[int64]bool)
	for _, id := range categoryIDList {
		if seen[id] {
			continue
		}
		seen[id] = true
		if category, ok := m.categories[id]; ok {
			copied := *category
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *memstore) DashboardStats(_ context.Context, userID int64) (*models.DashboardStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := &models.DashboardStats{RecentBlogs: []models.BlogSummary{}}

	var owned []*models.Blog
	for _, blog := range m.blogs {
		if blog.AuthorID == userID {
			owned = append(owned, blog)
			stats.TotalBlogs++
			stats.TotalViews += blog.Views
		}
	}

	sort.Slice(owned, func(i, j int) bool {
		if owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].ID > owned[j].ID
		}
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})

	for i, blog := range owned {
		if i == 5 {
			break
		}
		stats.RecentBlogs = append(stats.RecentBlogs, models.BlogSummary{
			ID:        blog.ID,
			Title:     blog.Title,
			CreatedAt: blog.CreatedAt,
			Status:    blog.Status,
			Views:     blog.Views,
		})
	}

	return stats, nil
}

var _ datastore = (*memstore)(nil)

// fakeSession satisfies databaseutils.Session without a database; the
// memstore needs no transactions.
type fakeSession struct{}

func (fakeSession) BeginTx(context.Context, *sql.TxOptions) (databaseutils.Session, error) {
	return fakeSession{}, nil
}

func (fakeSession) DoTransactionally(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

func (fakeSession) Rollback() error                        { return nil }
func (fakeSession) Commit() error                          { return nil }
func (fakeSession) Context() context.Context               { return context.Background() }
func (fakeSession) GetExecutor() databaseutils.SQLExecutor { return nil }

func newTestApplication(t *testing.T) (*application, *memstore) {
	t.Helper()

	store := newMemstore()
	app := &application{
		config:  config.Config{Environment: "test"},
		core:    store,
		auth:    auth.New(testJWTSecret, 15*time.Minute, 7*24*time.Hour, false),
		session: fakeSession{},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	return app, store
}

type testResponse struct {
	code    int
	body    map[string]any
	cookies []*http.Cookie
}

func (app *application) doRequest(t *testing.T, method, path, token string, body any, cookies ...*http.Cookie) testResponse {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	app.routes().ServeHTTP(w, req)

	response := testResponse{code: w.Code, cookies: w.Result().Cookies()}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &response.body); err != nil {
			t.Fatalf("unmarshal response body %q: %v", w.Body.String(), err)
		}
	}

	return response
}

// registerTestUser registers a user through the API and returns its id,
// access token and refresh cookie.
func (app *application) registerTestUser(t *testing.T, name, email, role string) (int64, string, *http.Cookie) {
	t.Helper()

	payload := map[string]string{
		"name":     name,
		"email":    email,
		"password": "pa55word123",
	}
	if role != "" {
		payload["role"] = role
	}

	resp := app.doRequest(t, http.MethodPost, "/api/auth/register", "", payload)
	if resp.code != http.StatusCreated {
		t.Fatalf("register %s: got status %d, want %d (body %v)", email, resp.code, http.StatusCreated, resp.body)
	}

	token, _ := resp.body["token"].(string)
	if token == "" {
		t.Fatalf("register %s: no access token in response", email)
	}

	user, _ := resp.body["user"].(map[string]any)
	id := int64(user["id"].(float64))

	var refreshCookie *http.Cookie
	for _, cookie := range resp.cookies {
		if cookie.Name == auth.RefreshCookieName {
			refreshCookie = cookie
		}
	}
	if refreshCookie == nil {
		t.Fatalf("register %s: no refresh cookie set", email)
	}

	return id, token, refreshCookie
}

func (app *application) createTestCategory(t *testing.T, store *memstore, name string) int64 {
	t.Helper()

	category, err := store.CreateCategory(context.Background(), name)
	if err != nil {
		t.Fatalf("create category %s: %v", name, err)
	}
	return category.ID
}

func (app *application) createTestBlog(t *testing.T, token string, categoryID int64, title string) int64 {
	t.Helper()

	resp := app.doRequest(t, http.MethodPost, "/api/blogs", token, map[string]any{
		"title":    title,
		"content":  "some content",
		"tags":     []string{"go", "testing"},
		"category": categoryID,
	})
	if resp.code != http.StatusCreated {
		t.Fatalf("create blog %q: got status %d (body %v)", title, resp.code, resp.body)
	}

	blog, _ := resp.body["blog"].(map[string]any)
	return int64(blog["id"].(float64))
}

func likersFromBody(t *testing.T, body map[string]any) []int64 {
	t.Helper()

	raw, ok := body["likes"].([]any)
	if !ok {
		t.Fatalf("response has no likes array: %v", body)
	}

	likers := make([]int64, len(raw))
	for i, v := range raw {
		likers[i] = int64(v.(float64))
	}
	return likers
}

func blogPath(id int64, suffix string) string {
	return fmt.Sprintf("/api/blogs/%d%s", id, suffix)
}
