package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (s *Server) mint(c *gin.Context) {
	req := shareRequest{Visits: 1}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, badRequest("invalid body", err))
		return
	}

	res, err := s.svc.Sharing.Mint(c.Request.Context(), currentUser(c), c.Param("document"), req.Visits, req.ShareTo)
	if err != nil {
		s.fail(c, err)
		return
	}

	body := gin.H{
		"personal_url": res.Link.URL,
		"share_this":   res.URL,
		"visits":       res.Link.Visits,
		"expires_at":   res.Link.ExpiresAt,
		"existing":     res.Existing,
	}
	if res.Existing {
		body["detail"] = fmt.Sprintf("Links already shared... valid Till %s", res.Link.ExpiresAt.Format(time.RFC3339))
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) follow(c *gin.Context) {
	url, err := s.svc.Sharing.Follow(c.Request.Context(), currentUser(c), c.Param("token"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}

func (s *Server) sendAttachment(c *gin.Context) {
	var req attachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, badRequest("invalid body", err))
		return
	}
	notify := req.Notify == nil || *req.Notify

	if err := s.svc.Sharing.SendAsAttachment(c.Request.Context(), currentUser(c), c.Param("document"), req.ShareTo, notify); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
