package review

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-review/internal/extraction"
	"resume-review/internal/intake"
	"resume-review/resume/contract"
	"resume-review/resume/model"
)

type extractorFunc func(ctx context.Context, f intake.File) (extraction.Result, error)

func (fn extractorFunc) Extract(ctx context.Context, f intake.File) (extraction.Result, error) {
	return fn(ctx, f)
}

func pdfOfSize(n int) intake.File {
	data := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("0"), n-9)...)
	return intake.File{Name: "resume.pdf", DeclaredType: intake.MimePDF, Size: int64(len(data)), Data: data}
}

func newTestService(extractor, text extraction.Extractor) (*Service, *MemoryRepo) {
	repo := NewMemoryRepo(intake.DefaultRules(), nil)
	return NewService(repo, extractor, text), repo
}

func TestUploadMockProducesSample(t *testing.T) {
	svc, _ := newTestService(extraction.NewMock(10*time.Millisecond), nil)

	view, err := svc.Upload(context.Background(), "s1", pdfOfSize(2<<20))
	require.NoError(t, err)

	assert.Equal(t, PhaseResult, view.Phase)
	require.NotNil(t, view.Data)
	assert.Equal(t, "John Doe", view.Data.PersonalInfo.Name)
	assert.Len(t, view.Data.Skills, 10)
	assert.Len(t, view.Data.WorkExperience, 3)
	assert.Len(t, view.Data.Education, 1)
	require.NotNil(t, view.Notice)
	assert.Equal(t, NoticeSuccess, view.Notice.Kind)
	require.NotNil(t, view.File)
	assert.Equal(t, intake.MimePDF, view.File.Type)
}

func TestUploadReleasesFileBytesAfterExtraction(t *testing.T) {
	var seen int
	svc, repo := newTestService(extractorFunc(func(ctx context.Context, f intake.File) (extraction.Result, error) {
		seen = len(f.Data)
		data := model.Sample()
		return extraction.Result{Data: &data}, nil
	}), nil)

	file := pdfOfSize(1 << 20)
	view, err := svc.Upload(context.Background(), "s1", file)
	require.NoError(t, err)
	assert.Equal(t, len(file.Data), seen)
	require.NotNil(t, view.File)
	assert.Equal(t, file.Size, view.File.Size)

	sess, err := repo.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Nil(t, sess.queued)
	held, ok := sess.intake.Selected()
	require.True(t, ok)
	assert.Nil(t, held.Data)
}

func TestUploadTooLargeNeverExtracts(t *testing.T) {
	var calls atomic.Int32
	svc, _ := newTestService(extractorFunc(func(ctx context.Context, f intake.File) (extraction.Result, error) {
		calls.Add(1)
		return extraction.Result{}, nil
	}), nil)

	view, err := svc.Upload(context.Background(), "s1", pdfOfSize(15<<20))
	var rej *intake.Rejection
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, intake.CodeTooLarge, rej.Code)
	assert.Equal(t, "File is too large. Maximum size is 10MB.", rej.Message)
	assert.Equal(t, int32(0), calls.Load())
	assert.Equal(t, PhaseIdle, view.Phase)
	require.NotNil(t, view.Rejection)
	assert.Nil(t, view.File)
}

func TestUploadSetsProcessingDuringExtraction(t *testing.T) {
	var repo *MemoryRepo
	var during Phase
	svc, repo := newTestService(extractorFunc(func(ctx context.Context, f intake.File) (extraction.Result, error) {
		sess, err := repo.Get(ctx, "s1")
		if err != nil {
			return extraction.Result{}, err
		}
		during = sess.Snapshot().Phase
		data := model.Sample()
		return extraction.Result{Data: &data}, nil
	}), nil)

	view, err := svc.Upload(context.Background(), "s1", pdfOfSize(1024))
	require.NoError(t, err)
	assert.Equal(t, PhaseProcessing, during)
	assert.Equal(t, PhaseResult, view.Phase)
}

func TestUploadFailureReturnsToIdle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	svc, _ := newTestService(extraction.NewRemote(srv.URL, srv.Client()), nil)

	view, err := svc.Upload(context.Background(), "s1", pdfOfSize(1024))
	assert.ErrorIs(t, err, extraction.ErrExtractionFailed)
	assert.Equal(t, PhaseIdle, view.Phase)
	assert.Nil(t, view.Data)
	require.NotNil(t, view.Notice)
	assert.Equal(t, NoticeError, view.Notice.Kind)
}

func TestUploadTextOnlyResponseIsNotStructured(t *testing.T) {
	svc, _ := newTestService(extractorFunc(func(ctx context.Context, f intake.File) (extraction.Result, error) {
		return extraction.Result{Text: "plain"}, nil
	}), nil)

	view, err := svc.Upload(context.Background(), "s1", pdfOfSize(1024))
	assert.ErrorIs(t, err, ErrUnstructured)
	assert.Equal(t, PhaseIdle, view.Phase)
}

func TestExtractTextRemoteFailureShowsFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	svc, _ := newTestService(nil, extraction.NewRemote(srv.URL, srv.Client()))

	view, err := svc.ExtractText(context.Background(), "s1", pdfOfSize(1024))
	require.NoError(t, err)
	assert.Equal(t, extraction.FallbackMessage, view.TextResult)
	assert.False(t, view.TextBusy)
	assert.Equal(t, PhaseIdle, view.Phase)
}

func TestExtractTextRemoteSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"text":"John Doe\nSoftware Engineer"}`))
	}))
	defer srv.Close()
	svc, _ := newTestService(nil, extraction.NewRemote(srv.URL, srv.Client()))

	view, err := svc.ExtractText(context.Background(), "s1", pdfOfSize(1024))
	require.NoError(t, err)
	assert.Equal(t, "John Doe\nSoftware Engineer", view.TextResult)
}

func TestEditorOperationsRequireRecord(t *testing.T) {
	svc, _ := newTestService(extraction.NewMock(0), nil)
	ctx := context.Background()

	_, err := svc.AddSkill(ctx, "s1", "Go")
	assert.ErrorIs(t, err, ErrNoResume)
	_, err = svc.ToggleEdit(ctx, "s1", EditingSkills)
	assert.ErrorIs(t, err, ErrNoResume)
	_, err = svc.Export(ctx, "s1")
	assert.ErrorIs(t, err, ErrNoResume)
}

func TestServiceEditSaveResetFlow(t *testing.T) {
	svc, _ := newTestService(extraction.NewMock(0), nil)
	ctx := context.Background()

	_, err := svc.Upload(ctx, "s1", pdfOfSize(1024))
	require.NoError(t, err)

	view, err := svc.ToggleEdit(ctx, "s1", EditingPersonal)
	require.NoError(t, err)
	assert.Equal(t, "personal", view.EditMode)

	view, err = svc.UpdatePersonal(ctx, "s1", model.FieldEmail, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", view.Data.PersonalInfo.Email)

	view, err = svc.UpdateExperience(ctx, "s1", 7, model.FieldTitle, "ignored")
	require.NoError(t, err)
	assert.Len(t, view.Data.WorkExperience, 3)

	view, err = svc.Save(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "", view.EditMode)
	require.NotNil(t, view.Notice)
	assert.Equal(t, "Changes Saved", view.Notice.Title)

	view, err = svc.DismissNotice(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, view.Notice)

	view, err = svc.Reset(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, PhaseIdle, view.Phase)
	assert.Nil(t, view.Data)
	assert.Nil(t, view.File)
}

func TestServiceExportTwoSkills(t *testing.T) {
	svc, _ := newTestService(extractorFunc(func(ctx context.Context, f intake.File) (extraction.Result, error) {
		data := model.Sample()
		data.Skills = []string{"Go", "SQL"}
		return extraction.Result{Data: &data}, nil
	}), nil)
	ctx := context.Background()

	_, err := svc.Upload(ctx, "s1", pdfOfSize(1024))
	require.NoError(t, err)

	out, err := svc.Export(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, contract.ExportFileName, out.FileName)

	var decoded model.ResumeData
	require.NoError(t, json.Unmarshal(out.Body, &decoded))
	assert.Equal(t, []string{"Go", "SQL"}, decoded.Skills)

	view, err := svc.Session(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, decoded, *view.Data)
	assert.Equal(t, "Data Exported", view.Notice.Title)
}

func TestServiceSweep(t *testing.T) {
	now := time.Date(2026, time.March, 3, 12, 0, 0, 0, time.UTC)
	repo := NewMemoryRepo(intake.DefaultRules(), func() time.Time { return now })
	svc := NewService(repo, extraction.NewMock(0), nil)
	svc.Now = func() time.Time { return now }

	_, err := svc.Session(context.Background(), "idle")
	require.NoError(t, err)

	now = now.Add(3 * time.Hour)
	assert.Equal(t, 1, svc.Sweep(2*time.Hour))
	assert.Equal(t, 0, repo.Len())
}
