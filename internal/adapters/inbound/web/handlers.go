package web

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/etlvalidator/etlvalidator/internal/application"
	"github.com/etlvalidator/etlvalidator/internal/domain"
)

type downloads struct {
	PDF       string `json:"pdf"`
	Docx      string `json:"docx"`
	Corrected string `json:"corrected,omitempty"`
}

type runResponse struct {
	Notice    application.Notice       `json:"notice"`
	Result    *domain.ValidationResult `json:"result"`
	Downloads downloads                `json:"downloads"`
}

type errorResponse struct {
	Notice application.Notice `json:"notice"`
}

func runDownloads(r *domain.ValidationResult) downloads {
	base := "/api/runs/" + r.RunID
	d := downloads{PDF: base + "/report.pdf", Docx: base + "/report.docx"}
	if r.HasCorrection() {
		d.Corrected = base + "/corrected.py"
	}
	return d
}

func (s *Server) validate(c *gin.Context) {
	kind := domain.ETLKindInformatica
	if k := c.PostForm("kind"); k != "" {
		parsed, err := domain.ParseETLKind(k)
		if err != nil {
			warn(c, http.StatusBadRequest, err.Error())
			return
		}
		kind = parsed
	}

	correct := s.opts.GenerateCorrection
	if v, ok := c.GetPostForm("correct"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			warn(c, http.StatusBadRequest, fmt.Sprintf("invalid correct value %q", v))
			return
		}
		correct = b
	}

	etl, err := formUpload(c, "etl_file", domain.RoleETL)
	if err != nil {
		warn(c, http.StatusBadRequest, err.Error())
		return
	}
	pyspark, err := formUpload(c, "pyspark_file", domain.RolePySpark)
	if err != nil {
		warn(c, http.StatusBadRequest, err.Error())
		return
	}

	session := application.NewSession(s.validator, nil, s.logger)
	session.SetKind(kind)
	session.SetETL(etl)
	session.SetPySpark(pyspark)

	result, err := session.Validate(c.Request.Context(), domain.Options{GenerateCorrection: correct})
	switch {
	case errors.Is(err, domain.ErrMissingInput), errors.Is(err, domain.ErrUnsupportedFile):
		warn(c, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		c.JSON(http.StatusBadGateway, errorResponse{Notice: session.Notice()})
		return
	}

	s.runs.Put(result)
	c.JSON(http.StatusOK, runResponse{
		Notice:    session.Notice(),
		Result:    result,
		Downloads: runDownloads(result),
	})
}

// formUpload returns nil, nil when the field was not sent.
func formUpload(c *gin.Context, field string, role domain.FileRole) (*domain.UploadedFile, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", field, err)
	}
	data, err := readPart(fh)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", field, err)
	}
	return domain.NewUploadedFile(fh.Filename, role, data), nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > maxUploadBytes {
		return nil, fmt.Errorf("file %q exceeds %d bytes", fh.Filename, maxUploadBytes)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxUploadBytes))
}

func warn(c *gin.Context, status int, msg string) {
	c.JSON(status, errorResponse{Notice: application.Notice{Level: application.NoticeWarning, Message: msg}})
}

func (s *Server) lookup(c *gin.Context) (*domain.ValidationResult, bool) {
	r, ok := s.runs.Get(c.Param("id"))
	if !ok {
		warn(c, http.StatusNotFound, "run not found or expired")
		return nil, false
	}
	return r, true
}

func (s *Server) getRun(c *gin.Context) {
	r, ok := s.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, runResponse{
		Notice:    application.Notice{Level: application.NoticeSuccess, Message: application.CompleteMessage},
		Result:    r,
		Downloads: runDownloads(r),
	})
}

func (s *Server) downloadPDF(c *gin.Context) {
	s.download(c, s.export.PDF)
}

func (s *Server) downloadDocx(c *gin.Context) {
	s.download(c, s.export.Docx)
}

func (s *Server) downloadCorrected(c *gin.Context) {
	r, ok := s.lookup(c)
	if !ok {
		return
	}
	a, ok := s.export.Corrected(r)
	if !ok {
		warn(c, http.StatusNotFound, "run has no corrected code")
		return
	}
	sendArtifact(c, a)
}

func (s *Server) download(c *gin.Context, render func(*domain.ValidationResult) (*domain.Artifact, error)) {
	r, ok := s.lookup(c)
	if !ok {
		return
	}
	a, err := render(r)
	if err != nil {
		s.logger.Error("rendering artifact", zap.String("run_id", r.RunID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{
			Notice: application.Notice{Level: application.NoticeError, Message: "could not render document"},
		})
		return
	}
	sendArtifact(c, a)
}

func sendArtifact(c *gin.Context, a *domain.Artifact) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.FileName))
	c.Data(http.StatusOK, a.MIMEType, a.Data)
}
