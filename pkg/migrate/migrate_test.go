package migrate

import (
	"context"
	"errors"
	"testing"

	"github.com/harrisonrobin/auditboard/pkg/model"
	"github.com/harrisonrobin/auditboard/pkg/store"
	"github.com/harrisonrobin/auditboard/pkg/store/memory"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSheet struct {
	records []model.Record
	err     error
}

func (s staticSheet) Read(ctx context.Context) ([]model.Record, error) {
	return s.records, s.err
}

func (s staticSheet) Write(ctx context.Context, tasks []model.Task) error {
	return errors.New("read only")
}

// rejecting refuses documents whose title is "reject".
type rejecting struct {
	*memory.Store
	attempts int
}

func (r *rejecting) Add(ctx context.Context, data map[string]any) (string, error) {
	r.attempts++
	if data["משימה"] == "reject" {
		return "", errors.New("invalid nested entity")
	}
	return r.Store.Add(ctx, data)
}

func rows(titles ...string) []model.Record {
	var out []model.Record
	for i, title := range titles {
		out = append(out, model.Record{"משימה": title, "סטטוס": "טרם התחיל", model.KeySourceRow: i + 2})
	}
	return out
}

func TestRunUploadsEveryRow(t *testing.T) {
	ctx := context.Background()
	dst := memory.New()
	logger, _ := test.NewNullLogger()

	report, err := Run(ctx, staticSheet{records: rows("a", "b", "c")}, dst, logger)

	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 3, report.Uploaded)
	assert.Nil(t, report.Failed)

	docs, _ := dst.Stream(ctx)
	require.Len(t, docs, 3)
	assert.Equal(t, 2, docs[0].Data[model.KeySourceRow])
	assert.Contains(t, docs[0].Data, model.KeyUploadedAt)
	assert.Contains(t, docs[0].Data, model.KeyUpdatedAt)
}

func TestRunAbortsOnFirstError(t *testing.T) {
	logger, hook := test.NewNullLogger()
	dst := &rejecting{Store: memory.New()}

	report, err := Run(context.Background(), staticSheet{records: rows("a", "reject", "c", "d")}, dst, logger)

	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 1, report.Uploaded)
	assert.Equal(t, 2, dst.attempts)
	require.NotNil(t, report.Failed)
	assert.Equal(t, 1, report.Failed.Index)
	assert.Equal(t, "reject", report.FailedRecord["משימה"])
	assert.True(t, report.Result.Aborted)

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, logrus.ErrorLevel, last.Level)
	assert.Equal(t, 3, last.Data["sheet_row"])
}

func TestRunNothingUploaded(t *testing.T) {
	logger, _ := test.NewNullLogger()

	report, err := Run(context.Background(), staticSheet{records: rows("reject")}, &rejecting{Store: memory.New()}, logger)

	require.NoError(t, err)
	assert.False(t, report.OK())
}

func TestRunUnreadableSpreadsheet(t *testing.T) {
	logger, _ := test.NewNullLogger()
	src := staticSheet{err: &store.ConnectionError{Op: "open", Err: errors.New("no such file")}}

	_, err := Run(context.Background(), src, memory.New(), logger)

	require.Error(t, err)
	assert.True(t, store.IsConnection(err))
}
