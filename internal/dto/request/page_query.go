package request

const maxPageLimit = 100

// PageQuery 通用分页参数，page 从 1 开始
type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// Normalize 填充缺省值，返回 (page, limit)
func (q PageQuery) Normalize(defaultLimit int) (int, int) {
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
