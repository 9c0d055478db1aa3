package handler

import (
	"github.com/fueltrade/backend/internal/domain/shared"
	"github.com/fueltrade/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// bindListFilter binds common pagination query parameters onto a domain
// filter, starting from the defaults so absent parameters keep sane values.
func bindListFilter(c *gin.Context) (shared.Filter, error) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		return shared.Filter{}, err
	}
	return shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	}, nil
}
