package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/edgard/loandesk/internal/backoffice"
	"github.com/edgard/loandesk/internal/database"
	"github.com/edgard/loandesk/internal/loan"
	"github.com/edgard/loandesk/internal/text"
)

const msgCaseNotFound = "ไม่พบเคส"

type tab struct {
	Name  string
	Label string
	Href  string
}

var dashboardTabs = []tab{
	{Name: "all", Label: "ทั้งหมด", Href: "/admin/dashboard"},
	{Name: string(loan.GroupPending), Label: "รอดำเนินการ", Href: "/admin/dashboard?tab=pending"},
	{Name: string(loan.GroupApproved), Label: "อนุมัติแล้ว", Href: "/admin/dashboard?tab=approved"},
	{Name: string(loan.GroupRejected), Label: "ไม่อนุมัติ", Href: "/admin/dashboard?tab=rejected"},
}

type dashboardPage struct {
	Tabs    []tab
	Current string
	Cases   []database.Application
}

// Dashboard lists cases, optionally filtered by status group tab.
func (s *Server) Dashboard(c *gin.Context) {
	current := c.DefaultQuery("tab", "all")
	if _, ok := loan.ParseGroup(current); !ok {
		current = "all"
	}

	apps, err := s.deps.Backoffice.List(c.Request.Context(), current)
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", dashboardPage{
		Tabs:    dashboardTabs,
		Current: current,
		Cases:   apps,
	})
}

type casePage struct {
	*backoffice.CaseView
	Statuses      []string
	CurrentStatus string
}

// CaseDetail renders a case with its update form and conversation.
func (s *Server) CaseDetail(c *gin.Context) {
	view, err := s.deps.Backoffice.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, backoffice.ErrCaseNotFound) {
		c.String(http.StatusNotFound, msgCaseNotFound)
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	current := view.Application.Status
	if strings.TrimSpace(current) == "" {
		current = loan.InitialStatus
	}
	c.HTML(http.StatusOK, "case.html", casePage{
		CaseView:      view,
		Statuses:      loan.Statuses,
		CurrentStatus: current,
	})
}

// UpdateCaseForm applies the detail page form and returns to the dashboard.
func (s *Server) UpdateCaseForm(c *gin.Context) {
	upd := backoffice.StatusUpdate{
		ID:              c.Param("id"),
		Status:          c.DefaultPostForm("status", loan.InitialStatus),
		CreditScore:     c.PostForm("credit_score"),
		OfficerName:     c.PostForm("officer_name"),
		CollateralValue: text.ParseAmount(c.PostForm("collateral_value")),
	}
	if strings.TrimSpace(upd.Status) == "" {
		upd.Status = loan.InitialStatus
	}

	err := s.deps.Backoffice.ApplyStatusUpdate(c.Request.Context(), upd)
	switch {
	case err == nil:
		c.Redirect(http.StatusFound, "/admin/dashboard")
	case errors.Is(err, backoffice.ErrCaseNotFound):
		c.String(http.StatusNotFound, msgCaseNotFound)
	case errors.Is(err, backoffice.ErrInvalidUpdate):
		_ = c.Error(err)
		c.String(http.StatusBadRequest, "Bad Request")
	default:
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
	}
}

type updateRequest struct {
	ID              string              `json:"id"`
	Status          string              `json:"status"`
	CreditScore     string              `json:"credit_score"`
	OfficerName     string              `json:"officer_name"`
	CollateralValue decimal.NullDecimal `json:"collateral_value"`
}

// UpdateCaseJSON is the machine-facing update. It always answers 200 with
// {"ok": bool}.
func (s *Server) UpdateCaseJSON(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusOK, gin.H{"ok": false})
		return
	}

	err := s.deps.Backoffice.ApplyStatusUpdate(c.Request.Context(), backoffice.StatusUpdate{
		ID:              req.ID,
		Status:          req.Status,
		CreditScore:     req.CreditScore,
		OfficerName:     req.OfficerName,
		CollateralValue: req.CollateralValue,
	})
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusOK, gin.H{"ok": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DeleteCase purges a case and its conversation.
func (s *Server) DeleteCase(c *gin.Context) {
	id := c.Param("id")
	if err := s.deps.Backoffice.DeleteCase(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}
	c.String(http.StatusOK, "Deleted case: %s", id)
}

// DeletePartner purges a partner and its channel's conversation.
func (s *Server) DeletePartner(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid partner id")
		return
	}

	err = s.deps.Backoffice.DeletePartner(c.Request.Context(), id)
	switch {
	case err == nil:
		c.String(http.StatusOK, "Deleted partner: %d", id)
	case errors.Is(err, backoffice.ErrPartnerNotFound):
		c.String(http.StatusNotFound, "partner not found: %d", id)
	default:
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
	}
}
