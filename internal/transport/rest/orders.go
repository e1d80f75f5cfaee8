package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/orders"
)

// parseTimeParam принимает RFC3339 или дату без времени (2006-01-02).
func parseTimeParam(value string) (time.Time, bool) {
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, true
	}
	if ts, err := time.Parse("2006-01-02", value); err == nil {
		return ts, true
	}
	return time.Time{}, false
}

func (s *Server) dateRangeParams(c *gin.Context) (time.Time, time.Time, bool) {
	start, ok := parseTimeParam(c.Query("start"))
	if !ok {
		badRequest(c, "query parameter start must be RFC3339 or YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	end, ok := parseTimeParam(c.Query("end"))
	if !ok {
		badRequest(c, "query parameter end must be RFC3339 or YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func (s *Server) listOrders(c *gin.Context) {
	list, err := s.orders.List()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(list))
}

func (s *Server) getOrder(c *gin.Context) {
	order, err := s.orders.Get(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

func (s *Server) getOrderByNumber(c *gin.Context) {
	order, err := s.orders.GetByNumber(c.Param("number"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

func (s *Server) listOrdersByUser(c *gin.Context) {
	list, err := s.orders.ListByUser(c.Param("userId"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(list))
}

func (s *Server) listOrdersByStatus(c *gin.Context) {
	status, err := domain.ParseOrderStatus(c.Param("status"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	list, err := s.orders.ListByStatus(status)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(list))
}

func (s *Server) listOrdersInDateRange(c *gin.Context) {
	start, end, ok := s.dateRangeParams(c)
	if !ok {
		return
	}

	list, err := s.orders.ListInDateRange(start, end)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(list))
}

func (s *Server) listOrdersWithMinimumAmount(c *gin.Context) {
	amount, err := strconv.ParseInt(c.Query("amount"), 10, 64)
	if err != nil {
		badRequest(c, "query parameter amount must be an integer")
		return
	}

	list, err := s.orders.ListWithMinimumAmount(amount)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(list))
}

func (s *Server) revenueInRange(c *gin.Context) {
	start, end, ok := s.dateRangeParams(c)
	if !ok {
		return
	}

	total, err := s.orders.RevenueInRange(start, end)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"start":         start,
		"end":           end,
		"revenue_minor": total,
	})
}

func (s *Server) recentOrdersByUser(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "query parameter limit must be an integer")
			return
		}
		limit = parsed
	}

	list, err := s.orders.RecentByUser(c.Param("userId"), limit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(list))
}

func (s *Server) countOrdersByUserAndStatus(c *gin.Context) {
	status, err := domain.ParseOrderStatus(c.Query("status"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	count, err := s.orders.CountByUserAndStatus(c.Param("userId"), status)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (s *Server) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	items := make([]orders.NewOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, orders.NewOrderItem{
			ProductID:  item.ProductID,
			Qty:        item.Qty,
			PriceMinor: item.PriceMinor,
		})
	}

	order, err := s.orders.Create(orders.NewOrder{
		UserID:      req.UserID,
		OrderNumber: req.OrderNumber,
		AmountMinor: req.AmountMinor,
		Items:       items,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(order))
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		s.respondError(c, err)
		return
	}

	order, err := s.orders.UpdateStatus(c.Param("id"), status)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

func (s *Server) cancelOrder(c *gin.Context) {
	order, err := s.orders.Cancel(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

func (s *Server) orderTimeline(c *gin.Context) {
	events, err := s.orders.Timeline(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTimelineResponses(events))
}
