package shared

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// NormalizePagination 将分页参数收敛到合法区间
func NormalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case pageSize <= 0:
		pageSize = defaultPageSize
	case pageSize > maxPageSize:
		pageSize = maxPageSize
	}
	return page, pageSize
}
