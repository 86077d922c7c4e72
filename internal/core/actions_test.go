package core

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/voidshard/slipway/internal/mocks/pkg/database_mock"
	"github.com/voidshard/slipway/internal/mocks/pkg/remote_mock"
	"github.com/voidshard/slipway/pkg/database"
	"github.com/voidshard/slipway/pkg/errors"
	"github.com/voidshard/slipway/pkg/queue"
	"github.com/voidshard/slipway/pkg/remote"
	"github.com/voidshard/slipway/pkg/structs"
)

func TestCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := database_mock.NewMockDatabase(ctrl)
	ch := remote_mock.NewMockChannel(ctrl)
	svc := testService(t, db, ch, nil)

	j := testJobAt("aaa", "cluster-a", "9001", structs.RUNNING)
	db.EXPECT().Jobs(gomock.Any()).Return([]*structs.Job{j}, nil)

	var command string
	ch.EXPECT().Execute(gomock.Any(), hostNamed("cluster-a"), gomock.Any()).DoAndReturn(
		func(ctx context.Context, h *structs.RemoteHost, cmd string) (*remote.Result, error) {
			command = cmd
			return remoteResult(""), nil
		})

	got, err := svc.Cancel(context.Background(), "aaa")

	require.Nil(t, err)
	assert.Contains(t, command, "scancel")
	assert.Contains(t, command, "9001")
	// the status isn't guessed at; reconciliation picks up CANCELLED later
	assert.Equal(t, structs.RUNNING, got.Status)
}

func TestCancelTerminal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := database_mock.NewMockDatabase(ctrl)
	ch := remote_mock.NewMockChannel(ctrl)
	svc := testService(t, db, ch, nil)

	j := testJobAt("aaa", "cluster-a", "9001", structs.COMPLETED)
	db.EXPECT().Jobs(gomock.Any()).Return([]*structs.Job{j}, nil)
	// no Execute expectations: nothing to cancel remotely

	_, err := svc.Cancel(context.Background(), "aaa")

	assert.ErrorIs(t, err, errors.ErrInvalidState)
}

func TestCancelNeverDispatched(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := database_mock.NewMockDatabase(ctrl)
	ch := remote_mock.NewMockChannel(ctrl)
	svc := testService(t, db, ch, nil)

	j := testJobAt("aaa", "cluster-a", "", structs.SUBMITTING)
	db.EXPECT().Jobs(gomock.Any()).Return([]*structs.Job{j}, nil)

	_, err := svc.Cancel(context.Background(), "aaa")

	assert.ErrorIs(t, err, errors.ErrInvalidState)
}

func TestCancelRemoteFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := database_mock.NewMockDatabase(ctrl)
	ch := remote_mock.NewMockChannel(ctrl)
	svc := testService(t, db, ch, nil)

	j := testJobAt("aaa", "cluster-a", "9001", structs.RUNNING)
	db.EXPECT().Jobs(gomock.Any()).Return([]*structs.Job{j}, nil)
	ch.EXPECT().Execute(gomock.Any(), hostNamed("cluster-a"), gomock.Any()).Return(
		&remote.Result{ExitCode: 1, Stderr: "scancel: error: Invalid job id"}, nil)

	_, err := svc.Cancel(context.Background(), "aaa")

	assert.ErrorIs(t, err, errors.ErrRemoteCommand)
}

func TestLogs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := database_mock.NewMockDatabase(ctrl)
	ch := remote_mock.NewMockChannel(ctrl)
	svc := testService(t, db, ch, nil)

	j := testJobAt("aaa", "cluster-a", "9001", structs.RUNNING)
	db.EXPECT().Jobs(gomock.Any()).Return([]*structs.Job{j}, nil)

	var command string
	ch.EXPECT().Execute(gomock.Any(), hostNamed("cluster-a"), gomock.Any()).DoAndReturn(
		func(ctx context.Context, h *structs.RemoteHost, cmd string) (*remote.Result, error) {
			command = cmd
			return remoteResult("epoch 1 loss 0.4\nepoch 2 loss 0.3\n"), nil
		})

	logs, err := svc.Logs(context.Background(), "aaa")

	require.Nil(t, err)
	assert.True(t, strings.Contains(command, "/scratch/jobs/job-aaa/slurm-9001.out"), command)
	assert.Contains(t, logs, "epoch 2 loss 0.3")
}

func TestLogsNeverDispatched(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := database_mock.NewMockDatabase(ctrl)
	ch := remote_mock.NewMockChannel(ctrl)
	svc := testService(t, db, ch, nil)

	j := testJobAt("aaa", "cluster-a", "", structs.SUBMITTING)
	db.EXPECT().Jobs(gomock.Any()).Return([]*structs.Job{j}, nil)

	_, err := svc.Logs(context.Background(), "aaa")

	assert.ErrorIs(t, err, errors.ErrInvalidState)
}

func TestArchive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := database_mock.NewMockDatabase(ctrl)
	ch := remote_mock.NewMockChannel(ctrl)
	svc := testService(t, db, ch, nil)

	ja := testJobAt("aaa", "cluster-a", "9001", structs.COMPLETED)
	jb := testJobAt("bbb", "cluster-a", "9002", structs.FAILED)
	jb.Archived = true // already archived, skipped

	db.EXPECT().Jobs(gomock.Any()).Return([]*structs.Job{ja, jb}, nil)

	var refs []*structs.JobRef
	db.EXPECT().SetJobsArchived(true, gomock.Any(), gomock.Any()).DoAndReturn(
		func(archived bool, tag string, in []*structs.JobRef) (int64, error) {
			refs = in
			return int64(len(in)), nil
		})

	count, err := svc.Archive([]string{"aaa", "bbb"})

	require.Nil(t, err)
	assert.Equal(t, int64(1), count)
	require.Len(t, refs, 1)
	assert.Equal(t, "aaa", refs[0].ID)
	assert.Equal(t, ja.ETag, refs[0].ETag)
}

func TestArchiveNoIDs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := database_mock.NewMockDatabase(ctrl)
	ch := remote_mock.NewMockChannel(ctrl)
	svc := testService(t, db, ch, nil)

	_, err := svc.Archive([]string{})

	assert.ErrorIs(t, err, errors.ErrInvalidArg)
}

func TestArchiveNoMatches(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := database_mock.NewMockDatabase(ctrl)
	ch := remote_mock.NewMockChannel(ctrl)
	svc := testService(t, db, ch, nil)

	db.EXPECT().Jobs(gomock.Any()).Return([]*structs.Job{}, nil)

	_, err := svc.Archive([]string{"nope"})

	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestUnarchiveAllAtState(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := database_mock.NewMockDatabase(ctrl)
	ch := remote_mock.NewMockChannel(ctrl)
	svc := testService(t, db, ch, nil)

	// not archived, so unarchive has nothing to write
	j := testJobAt("aaa", "cluster-a", "9001", structs.COMPLETED)
	db.EXPECT().Jobs(gomock.Any()).Return([]*structs.Job{j}, nil)

	count, err := svc.Unarchive([]string{"aaa"})

	require.Nil(t, err)
	assert.Equal(t, int64(0), count)
}

func TestHandleScanFindsURL(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := database_mock.NewMockDatabase(ctrl)
	ch := remote_mock.NewMockChannel(ctrl)
	svc := testService(t, db, ch, nil)

	j := testJobAt("aaa", "cluster-a", "9001", structs.RUNNING)
	db.EXPECT().Jobs(gomock.Any()).Return([]*structs.Job{j}, nil)
	ch.EXPECT().Execute(gomock.Any(), hostNamed("cluster-a"), gomock.Any()).Return(
		remoteResult("wandb: View run at https://wandb.ai/team/proj/runs/xyz\n"), nil)

	var got *database.JobUpdate
	db.EXPECT().UpdateJob(j.ID, j.ETag, gomock.Any(), gomock.Any()).DoAndReturn(
		func(id, etag, tag string, upd *database.JobUpdate) (int64, error) {
			got = upd
			return 1, nil
		})

	err := svc.HandleScan(context.Background(), &queue.ScanRequest{JobID: "aaa", Host: "cluster-a", RemoteJobID: "9001"})

	require.Nil(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.MetricsURL)
	assert.Equal(t, "https://wandb.ai/team/proj/runs/xyz", *got.MetricsURL)
}

func TestHandleScanAlreadySet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := database_mock.NewMockDatabase(ctrl)
	ch := remote_mock.NewMockChannel(ctrl)
	svc := testService(t, db, ch, nil)

	j := testJobAt("aaa", "cluster-a", "9001", structs.RUNNING)
	j.MetricsURL = "https://wandb.ai/team/proj/runs/xyz"
	db.EXPECT().Jobs(gomock.Any()).Return([]*structs.Job{j}, nil)
	// no Execute expectations: the url is only ever fetched once

	err := svc.HandleScan(context.Background(), &queue.ScanRequest{JobID: "aaa", Host: "cluster-a", RemoteJobID: "9001"})

	assert.Nil(t, err)
}

func TestHandleScanTerminalWithoutURL(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := database_mock.NewMockDatabase(ctrl)
	ch := remote_mock.NewMockChannel(ctrl)
	svc := testService(t, db, ch, nil)

	// the job finished without ever printing one; give up quietly
	j := testJobAt("aaa", "cluster-a", "9001", structs.FAILED)
	db.EXPECT().Jobs(gomock.Any()).Return([]*structs.Job{j}, nil)
	ch.EXPECT().Execute(gomock.Any(), hostNamed("cluster-a"), gomock.Any()).Return(
		remoteResult("Traceback (most recent call last):\n"), nil)

	err := svc.HandleScan(context.Background(), &queue.ScanRequest{JobID: "aaa", Host: "cluster-a", RemoteJobID: "9001"})

	assert.Nil(t, err)
}

func TestHandleScanRunningWithoutURLRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := database_mock.NewMockDatabase(ctrl)
	ch := remote_mock.NewMockChannel(ctrl)
	svc := testService(t, db, ch, nil)

	j := testJobAt("aaa", "cluster-a", "9001", structs.RUNNING)
	db.EXPECT().Jobs(gomock.Any()).Return([]*structs.Job{j}, nil)
	ch.EXPECT().Execute(gomock.Any(), hostNamed("cluster-a"), gomock.Any()).Return(
		remoteResult("still warming up\n"), nil)

	err := svc.HandleScan(context.Background(), &queue.ScanRequest{JobID: "aaa", Host: "cluster-a", RemoteJobID: "9001"})

	// still running, no url yet: error so the queue retries later
	assert.NotNil(t, err)
}

func TestHandleScanLogFileMissingRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := database_mock.NewMockDatabase(ctrl)
	ch := remote_mock.NewMockChannel(ctrl)
	svc := testService(t, db, ch, nil)

	j := testJobAt("aaa", "cluster-a", "9001", structs.RUNNING)
	db.EXPECT().Jobs(gomock.Any()).Return([]*structs.Job{j}, nil)
	ch.EXPECT().Execute(gomock.Any(), hostNamed("cluster-a"), gomock.Any()).Return(
		&remote.Result{ExitCode: 1, Stderr: "tail: cannot open"}, nil)

	err := svc.HandleScan(context.Background(), &queue.ScanRequest{JobID: "aaa", Host: "cluster-a", RemoteJobID: "9001"})

	assert.ErrorIs(t, err, errors.ErrRemoteCommand)
}
