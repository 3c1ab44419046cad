package app

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gymdesk/gymdesk-backend/api/auth"
	"github.com/gymdesk/gymdesk-backend/api/services/billing/db"
	gw "github.com/gymdesk/gymdesk-backend/api/services/billing/gateway"
	"github.com/gymdesk/gymdesk-backend/api/services/billing/gateway/instamojo"
)

type fakeGateway struct {
	pr         gw.PaymentRequest
	err        error
	calls      int
	lastParams gw.PaymentRequestParams
}

func (f *fakeGateway) CreatePaymentRequest(_ context.Context, params gw.PaymentRequestParams) (gw.PaymentRequest, error) {
	f.calls++
	f.lastParams = params
	return f.pr, f.err
}

type activation struct {
	id        string
	paymentID string
	start     time.Time
	end       time.Time
}

type fakeStore struct {
	plans       map[string]db.Plan
	pending     []db.Subscription
	pendingErr  error
	inserted    []db.Subscription
	insertErr   error
	activations []activation
	activateErr error
	approved    []string
	approveErr  error
	current     db.Subscription
	currentErr  error
}

func (f *fakeStore) GetPlan(_ context.Context, id string) (db.Plan, error) {
	plan, ok := f.plans[id]
	if !ok {
		return db.Plan{}, sql.ErrNoRows
	}
	return plan, nil
}

func (f *fakeStore) ListPlans(_ context.Context) ([]db.Plan, error) {
	var plans []db.Plan
	for _, p := range f.plans {
		plans = append(plans, p)
	}
	return plans, nil
}

func (f *fakeStore) InsertPendingSubscription(_ context.Context, sub db.Subscription) (string, error) {
	if f.insertErr != nil {
		return "", f.insertErr
	}
	f.inserted = append(f.inserted, sub)
	return "sub-1", nil
}

func (f *fakeStore) PendingByPaymentRequest(_ context.Context, _ string) ([]db.Subscription, error) {
	return f.pending, f.pendingErr
}

func (f *fakeStore) ActivateSubscription(_ context.Context, id, paymentID string, start, end time.Time) error {
	if f.activateErr != nil {
		return f.activateErr
	}
	f.activations = append(f.activations, activation{id: id, paymentID: paymentID, start: start, end: end})
	return nil
}

func (f *fakeStore) ApproveOwner(_ context.Context, ownerID string) error {
	if f.approveErr != nil {
		return f.approveErr
	}
	f.approved = append(f.approved, ownerID)
	return nil
}

func (f *fakeStore) CurrentSubscription(_ context.Context, _ string, _ time.Time) (db.Subscription, error) {
	return f.current, f.currentErr
}

var fixedNow = time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

func newTestService(g *fakeGateway, store *fakeStore, salt string) *serviceImpl {
	svc := NewService(zap.NewNop(), g, store, salt, "https://api.example.com/api/v1/billing/webhook").(*serviceImpl)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func quarterlyPlan() db.Plan {
	return db.Plan{ID: "plan-1", Name: "Quarterly", Price: 999, DurationDays: 90, Features: []string{"Unlimited members"}}
}

func owner() auth.Identity {
	return auth.Identity{UserID: "owner-1", Email: "owner@example.com", Phone: "9999999999", FullName: "Asha Patel"}
}

func Test_CreatePayment_IssuesRequestAndRecordsPending(t *testing.T) {
	g := &fakeGateway{pr: gw.PaymentRequest{ID: "PR123", LongURL: "https://www.instamojo.com/@gym/PR123"}}
	store := &fakeStore{plans: map[string]db.Plan{"plan-1": quarterlyPlan()}}
	svc := newTestService(g, store, "")

	resp, err := svc.CreatePayment(context.Background(), owner(), "plan-1")
	require.NoError(t, err)
	assert.Equal(t, "https://www.instamojo.com/@gym/PR123", resp.URL)
	assert.Equal(t, "PR123", resp.PaymentRequest.ID)

	assert.Equal(t, "Subscription: Quarterly", g.lastParams.Purpose)
	assert.Equal(t, "999", g.lastParams.Amount)
	assert.Equal(t, "Asha Patel", g.lastParams.BuyerName)
	assert.Equal(t, "gymdesk://payment-status", g.lastParams.RedirectURL)
	assert.Equal(t, "https://api.example.com/api/v1/billing/webhook", g.lastParams.WebhookURL)

	require.Len(t, store.inserted, 1)
	pending := store.inserted[0]
	assert.Equal(t, "owner-1", pending.OwnerID)
	assert.Equal(t, "plan-1", pending.PlanID)
	assert.Equal(t, "PR123", pending.PaymentID)
	assert.Equal(t, int64(999), pending.Amount)
	assert.Equal(t, fixedNow.Add(90*24*time.Hour), pending.EndDate)
}

func Test_CreatePayment_FallsBackToDefaultBuyerName(t *testing.T) {
	g := &fakeGateway{pr: gw.PaymentRequest{ID: "PR123"}}
	store := &fakeStore{plans: map[string]db.Plan{"plan-1": quarterlyPlan()}}
	svc := newTestService(g, store, "")

	ident := owner()
	ident.FullName = ""
	_, err := svc.CreatePayment(context.Background(), ident, "plan-1")
	require.NoError(t, err)
	assert.Equal(t, "Gym Owner", g.lastParams.BuyerName)
}

func Test_CreatePayment_UnknownPlan(t *testing.T) {
	g := &fakeGateway{}
	store := &fakeStore{plans: map[string]db.Plan{}}
	svc := newTestService(g, store, "")

	_, err := svc.CreatePayment(context.Background(), owner(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, g.calls, "gateway must not be called for an unknown plan")
}

func Test_CreatePayment_Unauthenticated(t *testing.T) {
	svc := newTestService(&fakeGateway{}, &fakeStore{}, "")

	_, err := svc.CreatePayment(context.Background(), auth.Identity{}, "plan-1")
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func Test_CreatePayment_GatewayError(t *testing.T) {
	g := &fakeGateway{err: errors.New("instamojo rejected payment request")}
	store := &fakeStore{plans: map[string]db.Plan{"plan-1": quarterlyPlan()}}
	svc := newTestService(g, store, "")

	_, err := svc.CreatePayment(context.Background(), owner(), "plan-1")
	assert.ErrorIs(t, err, ErrGateway)
	assert.Empty(t, store.inserted, "no pending row on gateway failure")
}

func Test_CreatePayment_InsertFailureIsSwallowed(t *testing.T) {
	g := &fakeGateway{pr: gw.PaymentRequest{ID: "PR123", LongURL: "https://pay.example/PR123"}}
	store := &fakeStore{plans: map[string]db.Plan{"plan-1": quarterlyPlan()}, insertErr: errors.New("connection reset")}
	svc := newTestService(g, store, "")

	resp, err := svc.CreatePayment(context.Background(), owner(), "plan-1")
	require.NoError(t, err, "a bookkeeping failure must not block the payment flow")
	assert.Equal(t, "https://pay.example/PR123", resp.URL)
}

func creditFields(salt string) map[string]string {
	fields := map[string]string{
		"status":             "Credit",
		"payment_request_id": "PR123",
		"payment_id":         "PAY456",
		"amount":             "999.00",
		"buyer":              "owner@example.com",
	}
	if salt != "" {
		fields["mac"] = instamojo.ComputeMAC(fields, salt)
	}
	return fields
}

func pendingSub() db.Subscription {
	return db.Subscription{
		ID:        "sub-1",
		OwnerID:   "owner-1",
		PlanID:    "plan-1",
		PaymentID: "PR123",
		Amount:    999,
		Status:    db.StatusPending,
		EndDate:   fixedNow.Add(90 * 24 * time.Hour),
		Plan:      quarterlyPlan(),
	}
}

func Test_HandleWebhook_CreditActivatesAndApproves(t *testing.T) {
	store := &fakeStore{pending: []db.Subscription{pendingSub()}}
	svc := newTestService(&fakeGateway{}, store, "salt123")

	outcome, err := svc.HandleWebhook(context.Background(), creditFields("salt123"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeActivated, outcome)

	require.Len(t, store.activations, 1)
	act := store.activations[0]
	assert.Equal(t, "sub-1", act.id)
	assert.Equal(t, "PAY456", act.paymentID, "stored payment id replaced with the settled id")
	assert.Equal(t, fixedNow, act.start)
	assert.Equal(t, fixedNow.Add(90*24*time.Hour), act.end)

	assert.Equal(t, []string{"owner-1"}, store.approved)
}

func Test_HandleWebhook_InvalidMAC(t *testing.T) {
	store := &fakeStore{pending: []db.Subscription{pendingSub()}}
	svc := newTestService(&fakeGateway{}, store, "salt123")

	fields := creditFields("salt123")
	fields["mac"] = "0000000000000000000000000000000000000000"
	_, err := svc.HandleWebhook(context.Background(), fields)
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Empty(t, store.activations, "no writes on a bad signature")
	assert.Empty(t, store.approved)
}

func Test_HandleWebhook_NoSaltSkipsVerification(t *testing.T) {
	store := &fakeStore{pending: []db.Subscription{pendingSub()}}
	svc := newTestService(&fakeGateway{}, store, "")

	// Unsigned payload, no mac field at all
	outcome, err := svc.HandleWebhook(context.Background(), creditFields(""))
	require.NoError(t, err)
	assert.Equal(t, OutcomeActivated, outcome)
}

func Test_HandleWebhook_NonCreditAcknowledgedWithoutWrites(t *testing.T) {
	store := &fakeStore{pending: []db.Subscription{pendingSub()}}
	svc := newTestService(&fakeGateway{}, store, "salt123")

	fields := map[string]string{
		"status":             "Failed",
		"payment_request_id": "PR123",
		"payment_id":         "PAY456",
	}
	fields["mac"] = instamojo.ComputeMAC(fields, "salt123")

	outcome, err := svc.HandleWebhook(context.Background(), fields)
	require.NoError(t, err, "failed payments are acknowledged so the gateway stops retrying")
	assert.Equal(t, OutcomeIgnored, outcome)
	assert.Empty(t, store.activations)
	assert.Empty(t, store.approved)
}

func Test_HandleWebhook_UnresolvedSubscription(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(&fakeGateway{}, store, "salt123")

	_, err := svc.HandleWebhook(context.Background(), creditFields("salt123"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, store.activations)
	assert.Empty(t, store.approved)
}

func Test_HandleWebhook_DuplicatePendingRowsSurfaceConflict(t *testing.T) {
	store := &fakeStore{pending: []db.Subscription{pendingSub(), pendingSub()}}
	svc := newTestService(&fakeGateway{}, store, "salt123")

	_, err := svc.HandleWebhook(context.Background(), creditFields("salt123"))
	assert.ErrorIs(t, err, ErrConflict)
	assert.Empty(t, store.activations, "never silently pick one of several matches")
}

func Test_HandleWebhook_ActivationFailureIsFatal(t *testing.T) {
	store := &fakeStore{pending: []db.Subscription{pendingSub()}, activateErr: errors.New("connection reset")}
	svc := newTestService(&fakeGateway{}, store, "salt123")

	_, err := svc.HandleWebhook(context.Background(), creditFields("salt123"))
	assert.ErrorIs(t, err, ErrDatabase)
	assert.Empty(t, store.approved, "owner approval must not run if activation failed")
}

func Test_HandleWebhook_ApprovalFailureIsFatal(t *testing.T) {
	store := &fakeStore{pending: []db.Subscription{pendingSub()}, approveErr: errors.New("connection reset")}
	svc := newTestService(&fakeGateway{}, store, "salt123")

	_, err := svc.HandleWebhook(context.Background(), creditFields("salt123"))
	assert.ErrorIs(t, err, ErrDatabase)
	// The activation already landed: the two writes are not atomic. The
	// gateway retry re-runs both.
	assert.Len(t, store.activations, 1)
}

// Racing deliveries that both resolved the pending row each recompute the
// entitlement window from their own clock, so the later one wins and the
// window drifts. There is no idempotency guard; this pins the current
// behavior as a known design risk rather than papering over it.
func Test_HandleWebhook_RetryRace_RecomputesWindow(t *testing.T) {
	store := &fakeStore{pending: []db.Subscription{pendingSub()}}
	svc := newTestService(&fakeGateway{}, store, "salt123")

	_, err := svc.HandleWebhook(context.Background(), creditFields("salt123"))
	require.NoError(t, err)

	svc.now = func() time.Time { return fixedNow.Add(45 * time.Minute) }
	_, err = svc.HandleWebhook(context.Background(), creditFields("salt123"))
	require.NoError(t, err)

	require.Len(t, store.activations, 2)
	assert.Equal(t, store.activations[0].end.Add(45*time.Minute), store.activations[1].end,
		"replayed credit recomputes end_date from the new clock")
}

func Test_CurrentSubscription(t *testing.T) {
	active := pendingSub()
	active.Status = db.StatusActive
	store := &fakeStore{current: active}
	svc := newTestService(&fakeGateway{}, store, "")

	sub, err := svc.CurrentSubscription(context.Background(), owner())
	require.NoError(t, err)
	assert.Equal(t, db.StatusActive, sub.Status)

	store.currentErr = sql.ErrNoRows
	_, err = svc.CurrentSubscription(context.Background(), owner())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CurrentSubscription(context.Background(), auth.Identity{})
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}
