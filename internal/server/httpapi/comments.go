package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) createComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, badRequest("invalid body", err))
		return
	}
	cm, err := s.svc.Comments.Create(c.Request.Context(), currentUser(c), req.DocID, req.Comment)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newCommentView(cm))
}

func (s *Server) listComments(c *gin.Context) {
	thread, err := s.svc.Comments.List(c.Request.Context(), currentUser(c), c.Param("doc_id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	out := make([]commentView, 0, len(thread))
	for _, cm := range thread {
		out = append(out, newCommentView(cm))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) updateComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, badRequest("invalid body", err))
		return
	}
	cm, err := s.svc.Comments.Update(c.Request.Context(), currentUser(c), c.Param("id"), req.Comment)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newCommentView(cm))
}

func (s *Server) deleteComment(c *gin.Context) {
	if err := s.svc.Comments.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
