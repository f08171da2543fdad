package entity

// ContentQuery 是列表接口的查询参数。
type ContentQuery struct {
	BaseParams
	Keyword string                 `json:"q" form:"q"`
	Filters map[string]interface{} `json:"-" form:"-"`
}

// ListQuery 是仓库层的列表查询，列名均由服务层给出。
type ListQuery struct {
	Page          int
	PageSize      int
	Order         string
	OwnerColumn   string
	OwnerID       uint
	Filters       map[string]interface{}
	Keyword       string
	SearchColumns []string
}
