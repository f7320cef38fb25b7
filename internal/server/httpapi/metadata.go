package httpapi

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/docflow/internal/server/models"
	"github.com/dmitrijs2005/docflow/internal/server/services"
	"github.com/gin-gonic/gin"
)

func queryInt(c *gin.Context, name string) (int, error) {
	v := c.Query(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, badRequest(name+" must be an integer", err)
	}
	return n, nil
}

func (s *Server) listDocuments(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		s.fail(c, err)
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		s.fail(c, err)
		return
	}

	docs, err := s.svc.Metadata.List(c.Request.Context(), currentUser(c), limit, offset)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newDocumentList(docs))
}

func (s *Server) getDocument(c *gin.Context) {
	s.respondDocument(c, func(u *models.User) (*models.Document, error) {
		return s.svc.Metadata.Get(c.Request.Context(), u, c.Param("document"))
	})
}

func (s *Server) patchDocument(c *gin.Context) {
	var req patchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, badRequest("invalid body", err))
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respondDocument(c, func(u *models.User) (*models.Document, error) {
		return s.svc.Metadata.Patch(c.Request.Context(), u, c.Param("document"), patch, true)
	})
}

func (s *Server) deleteDocument(c *gin.Context) {
	if _, err := s.svc.Metadata.SoftDelete(c.Request.Context(), currentUser(c), c.Param("document")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) restore(c *gin.Context) {
	s.respondDocument(c, func(u *models.User) (*models.Document, error) {
		return s.svc.Metadata.Restore(c.Request.Context(), u, c.Param("document"))
	})
}

func (s *Server) archive(c *gin.Context) {
	s.respondDocument(c, func(u *models.User) (*models.Document, error) {
		return s.svc.Metadata.Archive(c.Request.Context(), u, c.Param("document"))
	})
}

func (s *Server) unarchive(c *gin.Context) {
	s.respondDocument(c, func(u *models.User) (*models.Document, error) {
		return s.svc.Metadata.Unarchive(c.Request.Context(), u, c.Param("document"))
	})
}

func (s *Server) archiveList(c *gin.Context) {
	docs, err := s.svc.Metadata.ArchiveList(c.Request.Context(), currentUser(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newDocumentList(docs))
}

func (s *Server) search(c *gin.Context) {
	res, err := s.svc.Metadata.Search(c.Request.Context(), currentUser(c), services.SearchQuery{
		Tags:       c.Query("tags"),
		Categories: c.Query("categories"),
		FileTypes:  c.Query("file_types"),
		Statuses:   c.Query("status"),
	})
	if err != nil {
		s.fail(c, err)
		return
	}

	out := gin.H{}
	for key, group := range map[string][]*models.Document{
		"tags":       res.Tags,
		"categories": res.Categories,
		"file_types": res.FileTypes,
		"status":     res.Statuses,
	} {
		if group != nil {
			out[key] = newDocumentViews(group)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) respondDocument(c *gin.Context, fn func(*models.User) (*models.Document, error)) {
	doc, err := fn(currentUser(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newDocumentView(doc))
}
