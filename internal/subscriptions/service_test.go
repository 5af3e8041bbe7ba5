package subscriptions

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aisynapse/synapse-backend/internal/repo/sqlitetest"
	"github.com/aisynapse/synapse-backend/pkg/db"
	"github.com/aisynapse/synapse-backend/pkg/enums"
	pkgerrors "github.com/aisynapse/synapse-backend/pkg/errors"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newTestService(t *testing.T, conn *gorm.DB, c *clock) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:              NewRepository(conn),
		TransactionRunner: db.FromGorm(conn),
		Now:               c.Now,
	})
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)

	_, err = NewService(ServiceParams{Repo: NewRepository(sqlitetest.Open(t))})
	require.Error(t, err)
}

func TestCreateOpensOneMonthPeriod(t *testing.T) {
	c := &clock{now: time.Date(2026, time.January, 31, 10, 0, 0, 0, time.UTC)}
	svc := newTestService(t, sqlitetest.Open(t), c)
	userID := uuid.New()

	sub, err := svc.Create(context.Background(), userID, "professional")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, sub.ID)
	assert.Equal(t, userID, sub.UserID)
	assert.Equal(t, "professional", sub.PlanID)
	assert.Equal(t, enums.SubscriptionStatusActive, sub.Status)
	assert.True(t, sub.CurrentPeriodStart.Equal(c.now))
	// calendar month arithmetic normalizes Feb 31 to Mar 3
	assert.True(t, sub.CurrentPeriodEnd.Equal(time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC)), sub.CurrentPeriodEnd)
}

func TestCreateTwiceConflictsAndKeepsOriginal(t *testing.T) {
	c := &clock{now: time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)}
	svc := newTestService(t, sqlitetest.Open(t), c)
	userID := uuid.New()
	ctx := context.Background()

	first, err := svc.Create(ctx, userID, "starter")
	require.NoError(t, err)

	c.now = c.now.Add(time.Hour)
	_, err = svc.Create(ctx, userID, "enterprise")
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))
	assert.Equal(t, "subscription already exists", pkgerrors.As(err).Message())

	current, err := svc.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, current.ID)
	assert.Equal(t, "starter", current.PlanID)
	assert.True(t, current.CurrentPeriodStart.Equal(first.CurrentPeriodStart))
}

func TestCreateRequiresPlan(t *testing.T) {
	svc := newTestService(t, sqlitetest.Open(t), &clock{now: time.Now()})

	_, err := svc.Create(context.Background(), uuid.New(), " ")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = svc.Create(context.Background(), uuid.Nil, "starter")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestOverlongPlanRejected(t *testing.T) {
	svc := newTestService(t, sqlitetest.Open(t), &clock{now: time.Now()})
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.Create(ctx, userID, strings.Repeat("p", 85))
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = svc.Get(ctx, userID)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	_, err = svc.Create(ctx, userID, "starter")
	require.NoError(t, err)
	_, err = svc.Update(ctx, userID, strings.Repeat("p", 65))
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestCancelKeepsPlan(t *testing.T) {
	c := &clock{now: time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)}
	svc := newTestService(t, sqlitetest.Open(t), c)
	userID := uuid.New()
	ctx := context.Background()

	created, err := svc.Create(ctx, userID, "professional")
	require.NoError(t, err)

	canceled, err := svc.Cancel(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, enums.SubscriptionStatusCanceled, canceled.Status)
	assert.Equal(t, "professional", canceled.PlanID)
	assert.True(t, canceled.CurrentPeriodEnd.Equal(created.CurrentPeriodEnd))
}

func TestCancelWithoutSubscription(t *testing.T) {
	svc := newTestService(t, sqlitetest.Open(t), &clock{now: time.Now()})

	_, err := svc.Cancel(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestUpdateReactivatesWithoutMovingPeriod(t *testing.T) {
	c := &clock{now: time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)}
	svc := newTestService(t, sqlitetest.Open(t), c)
	userID := uuid.New()
	ctx := context.Background()

	created, err := svc.Create(ctx, userID, "starter")
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, userID)
	require.NoError(t, err)

	c.now = c.now.AddDate(0, 0, 20)
	updated, err := svc.Update(ctx, userID, "enterprise")
	require.NoError(t, err)

	assert.Equal(t, "enterprise", updated.PlanID)
	assert.Equal(t, enums.SubscriptionStatusActive, updated.Status)
	assert.True(t, updated.CurrentPeriodEnd.Equal(created.CurrentPeriodEnd))
	assert.True(t, updated.UpdatedAt.Equal(c.now), updated.UpdatedAt)
}

func TestUpdateWithoutSubscription(t *testing.T) {
	svc := newTestService(t, sqlitetest.Open(t), &clock{now: time.Now()})

	_, err := svc.Update(context.Background(), uuid.New(), "starter")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestGetWithoutSubscription(t *testing.T) {
	svc := newTestService(t, sqlitetest.Open(t), &clock{now: time.Now()})

	_, err := svc.Get(context.Background(), uuid.New())
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestStoreFailureIsDependencyError(t *testing.T) {
	conn := sqlitetest.Open(t)
	svc := newTestService(t, conn, &clock{now: time.Now()})
	require.NoError(t, conn.Exec("DROP TABLE subscriptions").Error)

	_, err := svc.Get(context.Background(), uuid.New())
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))

	_, err = svc.Create(context.Background(), uuid.New(), "starter")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
}
