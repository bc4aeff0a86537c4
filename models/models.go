package models

import "time"

const (
	StatusPublished = "published"
	StatusDraft     = "draft"
)

type Blog struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Content    string    `json:"content"`
	Image      *string   `json:"image"`
	Tags       []string  `json:"tags"`
	CategoryID int64     `json:"categoryId"`
	AuthorID   int64     `json:"authorId"`
	Status     string    `json:"status"`
	Views      int64     `json:"views"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Comment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	BlogID    int64     `json:"blogId"`
	AuthorID  int64     `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BlogSummary is the projection used by the dashboard's recent-blogs list.
type BlogSummary struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	Status    string    `json:"status"`
	Views     int64     `json:"views"`
}

type DashboardStats struct {
	TotalBlogs     int64         `json:"totalBlogs"`
	TotalViews     int64         `json:"totalViews"`
	FollowersCount int64         `json:"followersCount"`
	RecentBlogs    []BlogSummary `json:"recentBlogs"`
}
