package review

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-review/internal/intake"
	"resume-review/internal/shared/util"
)

const (
	uploadField = "file"
	// multipart framing allowance on top of the file limit
	bodySlack = 1 << 20
)

var (
	errNoFile       = errors.New("no file in request")
	errTooManyFiles = errors.New("more than one file in request")
	errBadFileName  = errors.New("invalid file name")
)

// readUpload pulls exactly one file out of a multipart request. The body is
// capped so an oversize upload fails with *http.MaxBytesError.
func readUpload(c *gin.Context, rules intake.Rules) (intake.File, error) {
	limit := rules.MaxBytes + bodySlack
	if c.Request.ContentLength > limit {
		return intake.File{}, &http.MaxBytesError{Limit: limit}
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	form, err := c.MultipartForm()
	if err != nil {
		return intake.File{}, err
	}
	headers := form.File[uploadField]
	switch {
	case len(headers) == 0:
		return intake.File{}, errNoFile
	case len(headers) > 1:
		return intake.File{}, errTooManyFiles
	}
	fh := headers[0]

	name, err := util.SanitizeFileName(fh.Filename)
	if err != nil {
		return intake.File{}, errBadFileName
	}
	c.Set("fileName", name)

	f, err := fh.Open()
	if err != nil {
		return intake.File{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return intake.File{}, err
	}
	return intake.File{
		Name:         name,
		DeclaredType: fh.Header.Get("Content-Type"),
		Size:         int64(len(data)),
		Data:         data,
	}, nil
}
