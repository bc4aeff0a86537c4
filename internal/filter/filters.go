package filter

import "blogspace/internal/validator"

// BlogFilter narrows the public blog listing. Keyword matches the title
// case-insensitively, CategoryID of zero means no category restriction.
type BlogFilter struct {
	Keyword    string
	CategoryID int64
	Limit      int64
	Offset     int64
}

func NewBlogFilter(keyword string, categoryID, limit, offset int64) BlogFilter {
	return BlogFilter{
		Keyword:    keyword,
		CategoryID: categoryID,
		Limit:      limit,
		Offset:     offset,
	}
}

func ValidateBlogFilter(f BlogFilter, v *validator.Validator) {
	v.Check(f.Limit > 0, "limit", "must be greater than 0")
	v.Check(f.Limit <= 100, "limit", "must be a maximum of 100")
	v.Check(f.Offset >= 0, "offset", "must be greater than or equal to 0")
	v.Check(f.Offset <= 10_000_000, "offset", "must be a maximum of 10_000_000")
	v.Check(f.CategoryID >= 0, "category", "must be a valid category id")
}
