package core

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/voidshard/slipway/internal/mocks/pkg/database_mock"
	"github.com/voidshard/slipway/internal/mocks/pkg/queue_mock"
	"github.com/voidshard/slipway/internal/mocks/pkg/remote_mock"
	"github.com/voidshard/slipway/pkg/database"
	"github.com/voidshard/slipway/pkg/errors"
	"github.com/voidshard/slipway/pkg/queue"
	"github.com/voidshard/slipway/pkg/structs"
)

func testJobAt(id, host, remoteID string, status structs.Status) *structs.Job {
	j := &structs.Job{
		ID:          id,
		Status:      status,
		ETag:        "etag-" + id,
		RemoteJobID: remoteID,
		CreatedAt:   999000,
		UpdatedAt:   999000,
	}
	j.Name = "job-" + id
	j.Host = host
	return j
}

func TestReconcileOneQueryPerHost(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := database_mock.NewMockDatabase(ctrl)
	ch := remote_mock.NewMockChannel(ctrl)
	svc := testService(t, db, ch, nil)

	// three in-flight jobs over two hosts; nothing changed remotely
	jobs := []*structs.Job{
		testJobAt("aaa", "cluster-a", "9001", structs.RUNNING),
		testJobAt("bbb", "cluster-a", "9002", structs.RUNNING),
		testJobAt("ccc", "cluster-b", "9003", structs.PENDING),
	}
	db.EXPECT().Jobs(gomock.Any()).Return(jobs, nil)

	// one remote call per host, no matter how many jobs it runs
	ch.EXPECT().Execute(gomock.Any(), hostNamed("cluster-a"), gomock.Any()).Return(
		remoteResult("9001 RUNNING\n9002 RUNNING\n"), nil).Times(1)
	ch.EXPECT().Execute(gomock.Any(), hostNamed("cluster-b"), gomock.Any()).Return(
		remoteResult("9003 PENDING\n"), nil).Times(1)

	err := svc.ReconcileOnce(context.Background())

	assert.Nil(t, err)
}

func TestReconcileNoJobsNoRemoteCalls(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := database_mock.NewMockDatabase(ctrl)
	ch := remote_mock.NewMockChannel(ctrl)
	svc := testService(t, db, ch, nil)

	db.EXPECT().Jobs(gomock.Any()).Return([]*structs.Job{}, nil)
	// no Execute expectations: any remote call fails the test

	err := svc.ReconcileOnce(context.Background())

	assert.Nil(t, err)
}

func TestReconcileAppliesTransition(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := database_mock.NewMockDatabase(ctrl)
	ch := remote_mock.NewMockChannel(ctrl)
	qu := queue_mock.NewMockQueue(ctrl)
	svc := testService(t, db, ch, qu)

	j := testJobAt("aaa", "cluster-a", "9001", structs.PENDING)
	db.EXPECT().Jobs(gomock.Any()).Return([]*structs.Job{j}, nil)
	ch.EXPECT().Execute(gomock.Any(), hostNamed("cluster-a"), gomock.Any()).Return(
		remoteResult("9001 RUNNING\n"), nil)

	var got *database.JobUpdate
	db.EXPECT().UpdateJob(j.ID, j.ETag, gomock.Any(), gomock.Any()).DoAndReturn(
		func(id, etag, tag string, upd *database.JobUpdate) (int64, error) {
			got = upd
			return 1, nil
		})

	// first time we see it running the logs become worth scanning
	qu.EXPECT().EnqueueScan(&queue.ScanRequest{JobID: "aaa", Host: "cluster-a", RemoteJobID: "9001"}).Return("task-1", nil)

	err := svc.ReconcileOnce(context.Background())

	require.Nil(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.Status)
	assert.Equal(t, structs.RUNNING, *got.Status)
	require.NotNil(t, got.StartedAt)
	assert.Equal(t, timeNow(), *got.StartedAt)
	assert.Nil(t, got.FinishedAt)
}

func TestReconcileAbsentJobCompleted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := database_mock.NewMockDatabase(ctrl)
	ch := remote_mock.NewMockChannel(ctrl)
	qu := queue_mock.NewMockQueue(ctrl)
	svc := testService(t, db, ch, qu)

	// the scheduler answered but no longer knows this job
	j := testJobAt("aaa", "cluster-a", "9001", structs.RUNNING)
	j.StartedAt = 999500
	db.EXPECT().Jobs(gomock.Any()).Return([]*structs.Job{j}, nil)
	ch.EXPECT().Execute(gomock.Any(), hostNamed("cluster-a"), gomock.Any()).Return(
		remoteResult(""), nil)

	var got *database.JobUpdate
	db.EXPECT().UpdateJob(j.ID, j.ETag, gomock.Any(), gomock.Any()).DoAndReturn(
		func(id, etag, tag string, upd *database.JobUpdate) (int64, error) {
			got = upd
			return 1, nil
		})
	qu.EXPECT().EnqueueScan(gomock.Any()).Return("task-1", nil)

	err := svc.ReconcileOnce(context.Background())

	require.Nil(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.Status)
	assert.Equal(t, structs.COMPLETED, *got.Status)
	require.NotNil(t, got.FinishedAt)
	assert.Equal(t, timeNow(), *got.FinishedAt)
	// we'd already seen it start; don't rewrite history
	assert.Nil(t, got.StartedAt)
}

func TestReconcileFailedHostIsolated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := database_mock.NewMockDatabase(ctrl)
	ch := remote_mock.NewMockChannel(ctrl)
	qu := queue_mock.NewMockQueue(ctrl)
	svc := testService(t, db, ch, qu)

	ja := testJobAt("aaa", "cluster-a", "9001", structs.RUNNING)
	jb := testJobAt("bbb", "cluster-b", "9002", structs.PENDING)
	db.EXPECT().Jobs(gomock.Any()).Return([]*structs.Job{ja, jb}, nil)

	// cluster-a is down; its job must keep its status, not drift to COMPLETED
	ch.EXPECT().Execute(gomock.Any(), hostNamed("cluster-a"), gomock.Any()).Return(
		nil, fmt.Errorf("connection refused"))
	ch.EXPECT().Execute(gomock.Any(), hostNamed("cluster-b"), gomock.Any()).Return(
		remoteResult("9002 RUNNING\n"), nil)

	db.EXPECT().UpdateJob(jb.ID, jb.ETag, gomock.Any(), gomock.Any()).Return(int64(1), nil)
	qu.EXPECT().EnqueueScan(gomock.Any()).Return("task-1", nil)

	err := svc.ReconcileOnce(context.Background())

	assert.Nil(t, err)
}

func TestReconcileLostWriteRaceDropsScan(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := database_mock.NewMockDatabase(ctrl)
	ch := remote_mock.NewMockChannel(ctrl)
	qu := queue_mock.NewMockQueue(ctrl)
	svc := testService(t, db, ch, qu)

	j := testJobAt("aaa", "cluster-a", "9001", structs.PENDING)
	db.EXPECT().Jobs(gomock.Any()).Return([]*structs.Job{j}, nil)
	ch.EXPECT().Execute(gomock.Any(), hostNamed("cluster-a"), gomock.Any()).Return(
		remoteResult("9001 RUNNING\n"), nil)

	// someone updated the row mid-cycle; they win and we don't enqueue
	db.EXPECT().UpdateJob(j.ID, j.ETag, gomock.Any(), gomock.Any()).Return(int64(0), nil)

	err := svc.ReconcileOnce(context.Background())

	assert.Nil(t, err)
}

func TestReconcileScanNotReEnqueued(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := database_mock.NewMockDatabase(ctrl)
	ch := remote_mock.NewMockChannel(ctrl)
	qu := queue_mock.NewMockQueue(ctrl)
	svc := testService(t, db, ch, qu)

	// job already has its metrics url; a further transition shouldn't rescan
	j := testJobAt("aaa", "cluster-a", "9001", structs.RUNNING)
	j.StartedAt = 999500
	j.MetricsURL = "https://wandb.ai/team/proj/runs/xyz"
	db.EXPECT().Jobs(gomock.Any()).Return([]*structs.Job{j}, nil)
	ch.EXPECT().Execute(gomock.Any(), hostNamed("cluster-a"), gomock.Any()).Return(
		remoteResult("9001 COMPLETED\n"), nil)

	db.EXPECT().UpdateJob(j.ID, j.ETag, gomock.Any(), gomock.Any()).Return(int64(1), nil)

	err := svc.ReconcileOnce(context.Background())

	assert.Nil(t, err)
}

func TestRefreshStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := database_mock.NewMockDatabase(ctrl)
	ch := remote_mock.NewMockChannel(ctrl)
	svc := testService(t, db, ch, nil)

	j := testJobAt("aaa", "cluster-a", "9001", structs.PENDING)
	after := testJobAt("aaa", "cluster-a", "9001", structs.RUNNING)

	db.EXPECT().Jobs(gomock.Any()).Return([]*structs.Job{j}, nil).Times(1)
	ch.EXPECT().Execute(gomock.Any(), hostNamed("cluster-a"), gomock.Any()).Return(
		remoteResult("9001 RUNNING\n"), nil)
	db.EXPECT().UpdateJob(j.ID, j.ETag, gomock.Any(), gomock.Any()).Return(int64(1), nil)
	db.EXPECT().Jobs(gomock.Any()).Return([]*structs.Job{after}, nil).Times(1)

	got, err := svc.RefreshStatus(context.Background(), "aaa")

	require.Nil(t, err)
	assert.Equal(t, structs.RUNNING, got.Status)
}

func TestRefreshStatusTerminalNoRemoteCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := database_mock.NewMockDatabase(ctrl)
	ch := remote_mock.NewMockChannel(ctrl)
	svc := testService(t, db, ch, nil)

	j := testJobAt("aaa", "cluster-a", "9001", structs.COMPLETED)
	db.EXPECT().Jobs(gomock.Any()).Return([]*structs.Job{j}, nil)
	// no Execute expectations: a terminal job is never queried

	got, err := svc.RefreshStatus(context.Background(), "aaa")

	require.Nil(t, err)
	assert.Equal(t, structs.COMPLETED, got.Status)
}

func TestRefreshStatusHostDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := database_mock.NewMockDatabase(ctrl)
	ch := remote_mock.NewMockChannel(ctrl)
	svc := testService(t, db, ch, nil)

	j := testJobAt("aaa", "cluster-a", "9001", structs.RUNNING)
	db.EXPECT().Jobs(gomock.Any()).Return([]*structs.Job{j}, nil)
	ch.EXPECT().Execute(gomock.Any(), hostNamed("cluster-a"), gomock.Any()).Return(
		nil, fmt.Errorf("connection refused"))

	_, err := svc.RefreshStatus(context.Background(), "aaa")

	assert.ErrorIs(t, err, errors.ErrTransport)
}
