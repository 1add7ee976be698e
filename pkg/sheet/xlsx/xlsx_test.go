package xlsx

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/harrisonrobin/auditboard/pkg/model"
	"github.com/harrisonrobin/auditboard/pkg/normalize"
	"github.com/harrisonrobin/auditboard/pkg/store"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteThenRead(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tasks.xlsx")
	due := civil.Date{Year: 2026, Month: time.May, Day: 31}
	f := New(path, "")

	require.NoError(t, f.Write(ctx, []model.Task{
		{Serial: 1, Standard: "ISO 9001", Title: "Inspect line 3", DueDate: &due, Priority: model.PriorityCritical, Status: model.StatusInProgress},
		{Serial: 2, Title: "Update pest log", Priority: model.PriorityLow, Status: model.StatusDone},
	}))

	records, err := f.Read(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 2, records[0][model.KeySourceRow])
	assert.Equal(t, 3, records[1][model.KeySourceRow])

	logger, _ := test.NewNullLogger()
	table := normalize.New(logger).Table(records)
	first := table.Rows[0]
	assert.Equal(t, 1, first.Serial)
	assert.Equal(t, "Inspect line 3", first.Title)
	assert.Equal(t, model.PriorityCritical, first.Priority)
	assert.Equal(t, model.StatusInProgress, first.Status)
	require.NotNil(t, first.DueDate)
	assert.Equal(t, due, *first.DueDate)
	assert.Equal(t, 2, first.SourceRow)
	assert.Nil(t, table.Rows[1].DueDate)
}

func TestWriteOverwritesWholeFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tasks.xlsx")
	f := New(path, "Tasks")

	require.NoError(t, f.Write(ctx, []model.Task{{Title: "a"}, {Title: "b"}, {Title: "c"}}))
	require.NoError(t, f.Write(ctx, []model.Task{{Title: "only"}}))

	records, err := f.Read(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "only", records[0]["משימה"])
}

func TestReadDateSerialCell(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "legacy.xlsx")

	wb := excelize.NewFile()
	require.NoError(t, wb.SetSheetRow("Sheet1", "A1", &[]any{"משימה", "תאריך יעד", "סטטוס"}))
	require.NoError(t, wb.SetSheetRow("Sheet1", "A2", &[]any{"Audit prep", time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), "✅ בוצע"}))
	require.NoError(t, wb.SaveAs(path))
	require.NoError(t, wb.Close())

	records, err := New(path, "").Read(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	logger, _ := test.NewNullLogger()
	task := normalize.New(logger).Task(records[0])
	require.NotNil(t, task.DueDate)
	assert.Equal(t, civil.Date{Year: 2026, Month: time.June, Day: 1}, *task.DueDate)
	assert.Equal(t, model.StatusDone, task.Status)
}

func TestReadMissingFileIsConnectionError(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope.xlsx"), "").Read(context.Background())

	require.Error(t, err)
	assert.True(t, store.IsConnection(err))
}
