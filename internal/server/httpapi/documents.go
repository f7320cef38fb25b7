package httpapi

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/dmitrijs2005/docflow/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (s *Server) me(c *gin.Context) {
	c.JSON(http.StatusOK, newUserView(currentUser(c)))
}

// upload accepts one or more multipart "files" parts and an optional
// "folder" field.
func (s *Server) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadBytes)

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"detail": "upload too large"})
			return
		}
		s.fail(c, badRequest("invalid multipart form", err))
		return
	}
	files := append(form.File["files"], form.File["file"]...)
	if len(files) == 0 {
		s.fail(c, badRequest("No input files provided...", nil))
		return
	}
	folder := c.PostForm("folder")

	user := currentUser(c)
	status := http.StatusOK
	out := make([]uploadView, 0, len(files))
	for _, fh := range files {
		content, err := readPart(fh)
		if err != nil {
			s.fail(c, badRequest("reading "+fh.Filename, err))
			return
		}
		res, err := s.svc.Documents.Upload(c.Request.Context(), user, services.UploadInput{
			Filename:    fh.Filename,
			Content:     content,
			ContentType: fh.Header.Get("Content-Type"),
			Folder:      folder,
		})
		if err != nil {
			s.fail(c, err)
			return
		}
		if res.Outcome == services.OutcomeAdded {
			status = http.StatusCreated
		}
		out = append(out, uploadView{Outcome: string(res.Outcome), IsOwner: res.IsOwner, Document: newDocumentView(res.Document)})
	}
	c.JSON(status, out)
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (s *Server) download(c *gin.Context) {
	ctx := c.Request.Context()
	doc, err := s.svc.Metadata.Get(ctx, currentUser(c), c.Param("document"))
	if err != nil {
		s.fail(c, err)
		return
	}
	obj, err := s.svc.Documents.Download(ctx, doc.S3URL, doc.Name)
	if err != nil {
		s.fail(c, err)
		return
	}

	contentType := doc.FileType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": obj.Name}))
	c.Data(http.StatusOK, contentType, obj.Data)
}

func (s *Server) preview(c *gin.Context) {
	ctx := c.Request.Context()
	doc, err := s.svc.Metadata.Get(ctx, currentUser(c), c.Param("document"))
	if err != nil {
		s.fail(c, err)
		return
	}
	p, err := s.svc.Documents.Preview(ctx, doc)
	if err != nil {
		s.fail(c, err)
		return
	}
	defer p.Close()

	c.DataFromReader(http.StatusOK, p.Size, p.MediaType, p, map[string]string{
		"Content-Disposition": mime.FormatMediaType("inline", map[string]string{"filename": doc.Name}),
	})
}

func (s *Server) binList(c *gin.Context) {
	docs, err := s.svc.Metadata.BinList(c.Request.Context(), currentUser(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newDocumentList(docs))
}

func (s *Server) purge(c *gin.Context) {
	n, err := s.svc.Documents.PermanentlyDelete(c.Request.Context(), currentUser(c), c.Param("document"), false)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purged": n})
}

func (s *Server) emptyBin(c *gin.Context) {
	n, err := s.svc.Documents.PermanentlyDelete(c.Request.Context(), currentUser(c), "", true)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purged": n, "detail": fmt.Sprintf("%d documents removed from trash", n)})
}
