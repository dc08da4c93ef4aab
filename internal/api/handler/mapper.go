package handler

import (
	"github.com/dibsly/dibs-api/internal/core/domain"
	"github.com/dibsly/dibs-api/internal/core/ports"
)

// --- Query → Service input ---

func toListFilter(q listItemsQuery) ports.ListItemsFilter {
	return ports.ListItemsFilter{
		Search:    q.Search,
		SortBy:    domain.SortField(q.SortBy),
		SortOrder: domain.SortOrder(q.SortOrder),
	}
}

// --- Domain → HTTP response ---

func toItemResponse(item *domain.Item) itemResponse {
	resp := itemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price.String(),
		Stock:       item.Stock,
	}
	if item.Claim != nil {
		resp.ClaimedBy = item.Claim.Holder.Username
	}
	return resp
}

func toItemResponses(items []*domain.Item) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	return out
}
