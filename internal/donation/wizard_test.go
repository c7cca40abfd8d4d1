package donation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DukeRupert/kebaikan/internal/catalog"
	"github.com/DukeRupert/kebaikan/internal/clock/clocktest"
	"github.com/DukeRupert/kebaikan/internal/connectivity"
	"github.com/DukeRupert/kebaikan/internal/domain"
)

var epoch = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type navCall struct {
	dest     string
	campaign *domain.Campaign
}

type harness struct {
	wizard *Wizard
	clock  *clocktest.Clock
	conn   *connectivity.Monitor
	navs   []navCall
}

func newHarness(t *testing.T, outcomes ...Outcome) *harness {
	t.Helper()
	if len(outcomes) == 0 {
		outcomes = []Outcome{OutcomeSuccess}
	}
	h := &harness{
		clock: clocktest.New(epoch),
		conn:  connectivity.NewMonitor(true),
	}
	nav := NavigatorFunc(func(dest string, cp *domain.Campaign) {
		h.navs = append(h.navs, navCall{dest: dest, campaign: cp})
	})
	h.wizard = New(DefaultConfig(), h.clock, Scripted(outcomes...), nav, h.conn,
		catalog.NewDefault().Default(), nil)
	t.Cleanup(h.wizard.Close)
	return h
}

// toMethod fills a valid amount and advances to the method step.
func (h *harness) toMethod(t *testing.T, amount string) {
	t.Helper()
	require.NoError(t, h.wizard.SetAmountText(amount))
	require.NoError(t, h.wizard.Advance())
	require.Equal(t, domain.StepMethod, h.wizard.Snapshot().Step)
}

func (h *harness) pay(t *testing.T) {
	t.Helper()
	require.NoError(t, h.wizard.Advance())
	require.True(t, h.wizard.Snapshot().Pending)
	h.clock.Advance(DefaultConfig().PaymentDelay)
}

func asNotice(t *testing.T, err error) *domain.Notice {
	t.Helper()
	n, ok := err.(*domain.Notice)
	require.True(t, ok, "expected *domain.Notice, got %T (%v)", err, err)
	return n
}

// =============================================================================
// Amount Step
// =============================================================================

func TestWizard_InitialState(t *testing.T) {
	h := newHarness(t)
	s := h.wizard.Snapshot()

	assert.Equal(t, domain.StepAmount, s.Step)
	assert.Equal(t, 1, s.Campaign.ID, "falls back to the default campaign")
	assert.Empty(t, s.AmountText)
	assert.False(t, s.AmountValid)
	assert.False(t, s.CanContinue)
	assert.Nil(t, s.Notice)
	assert.Nil(t, s.Receipt)
}

func TestWizard_BelowMinimum(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.wizard.SetAmountText("500"))

	n := asNotice(t, h.wizard.Advance())
	assert.Equal(t, domain.KindValidation, n.Kind)
	assert.Equal(t, "Minimum donation amount is Rp 1,000", n.Message)
	assert.Equal(t, domain.StepAmount, h.wizard.Snapshot().Step)
}

func TestWizard_InappropriateMessage(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.wizard.SetAmountText("50000"))
	require.NoError(t, h.wizard.SetMessage("this is spam"))

	n := asNotice(t, h.wizard.Advance())
	assert.Equal(t, domain.KindValidation, n.Kind)
	assert.Equal(t, FieldMessage, n.Field)
	assert.Equal(t, "Message contains inappropriate content", n.Message)
	assert.Equal(t, domain.StepAmount, h.wizard.Snapshot().Step)
}

func TestWizard_MethodRequired(t *testing.T) {
	h := newHarness(t)
	h.toMethod(t, "100000")

	s := h.wizard.Snapshot()
	assert.Empty(t, s.Method)
	assert.False(t, s.CanContinue)

	n := asNotice(t, h.wizard.Advance())
	assert.Equal(t, "Please select a payment method", n.Message)
	assert.Equal(t, domain.StepMethod, h.wizard.Snapshot().Step)
	assert.Equal(t, 0, h.clock.Pending(), "no payment started")
}

func TestWizard_SelectQuickAmountIsIdempotent(t *testing.T) {
	once := newHarness(t)
	require.NoError(t, once.wizard.SelectQuickAmount(50000))

	twice := newHarness(t)
	require.NoError(t, twice.wizard.SelectQuickAmount(50000))
	require.NoError(t, twice.wizard.SelectQuickAmount(50000))

	assert.Equal(t, once.wizard.Snapshot(), twice.wizard.Snapshot())

	s := once.wizard.Snapshot()
	assert.Equal(t, "50000", s.AmountText)
	assert.Equal(t, int64(50000), s.Selected)
	assert.True(t, s.CanContinue)
}

func TestWizard_SelectQuickAmountRejectsUnknownPreset(t *testing.T) {
	h := newHarness(t)
	err := h.wizard.SelectQuickAmount(12345)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestWizard_SelectQuickAmountClearsNotice(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.wizard.SetAmountText("10"))
	_ = h.wizard.Advance()
	require.NotNil(t, h.wizard.Snapshot().Notice)

	require.NoError(t, h.wizard.SelectQuickAmount(10000))
	assert.Nil(t, h.wizard.Snapshot().Notice)
}

func TestWizard_TypingClearsValidationNotice(t *testing.T) {
	h := newHarness(t)
	_ = h.wizard.Advance()
	s := h.wizard.Snapshot()
	require.NotNil(t, s.Notice)
	assert.False(t, s.CanContinue)

	require.NoError(t, h.wizard.SetAmountText("20000"))
	s = h.wizard.Snapshot()
	assert.Nil(t, s.Notice)
	assert.Equal(t, int64(20000), s.ParsedAmount)
	assert.True(t, s.CanContinue)
}

func TestWizard_ValidationNoticeExpires(t *testing.T) {
	h := newHarness(t)
	_ = h.wizard.Advance()

	h.clock.Advance(4 * time.Second)
	assert.NotNil(t, h.wizard.Snapshot().Notice)
	h.clock.Advance(time.Second)
	assert.Nil(t, h.wizard.Snapshot().Notice)
}

func TestWizard_SilentValidation(t *testing.T) {
	h := newHarness(t)

	err := h.wizard.ValidateAmount("abc", false)
	n := asNotice(t, err)
	assert.Equal(t, "Please enter a valid donation amount", n.Message)
	assert.Nil(t, h.wizard.Snapshot().Notice, "silent check shows nothing")

	require.NoError(t, h.wizard.SetMessage("fake"))
	assert.False(t, h.wizard.BlurMessage())
	assert.False(t, h.wizard.BlurAmount())
	assert.Nil(t, h.wizard.Snapshot().Notice)

	require.Error(t, h.wizard.ValidateMessage("fake", true))
	assert.NotNil(t, h.wizard.Snapshot().Notice)
}

// =============================================================================
// Navigation
// =============================================================================

func TestWizard_GoBackFromMethodKeepsEntries(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.wizard.SetMessage("Semoga bermanfaat"))
	require.NoError(t, h.wizard.SetAnonymous(true))
	h.toMethod(t, "75000")

	require.NoError(t, h.wizard.GoBack())
	s := h.wizard.Snapshot()
	assert.Equal(t, domain.StepAmount, s.Step)
	assert.Equal(t, "75000", s.AmountText)
	assert.Equal(t, "Semoga bermanfaat", s.Message)
	assert.True(t, s.Anonymous)
	assert.Empty(t, h.navs)
}

func TestWizard_GoBackFromAmountLeavesFlow(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.wizard.SetAmountText("5000"))

	require.NoError(t, h.wizard.GoBack())
	assert.Equal(t, domain.StepAmount, h.wizard.Snapshot().Step)
	require.Len(t, h.navs, 1)
	assert.Equal(t, DestCampaign, h.navs[0].dest)
	require.NotNil(t, h.navs[0].campaign)
	assert.Equal(t, 1, h.navs[0].campaign.ID)
}

func TestWizard_StepGuards(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(h.wizard.SelectMethod("bca")))
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(h.wizard.Reset()))
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(h.wizard.ViewOtherDonations()))

	h.toMethod(t, "10000")
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(h.wizard.SelectMethod("paypal")))
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(h.wizard.SetAmountText("1")))
}

// =============================================================================
// Payment
// =============================================================================

func TestWizard_PaymentSuccess(t *testing.T) {
	h := newHarness(t, OutcomeSuccess)
	require.NoError(t, h.wizard.SetMessage("Semangat!"))
	h.toMethod(t, "100000")
	require.NoError(t, h.wizard.SelectMethod("gopay"))
	require.True(t, h.wizard.Snapshot().CanContinue)

	h.pay(t)

	s := h.wizard.Snapshot()
	assert.Equal(t, domain.StepSuccess, s.Step)
	assert.Equal(t, 2, s.StepIndex)
	assert.Equal(t, 0, s.Retries)
	require.NotNil(t, s.Flash)
	assert.Equal(t, domain.KindSuccess, s.Flash.Kind)
	assert.Equal(t, int64(2109000+100000), s.Campaign.Raised)

	require.NotNil(t, s.Receipt)
	assert.Equal(t, int64(100000), s.Receipt.Amount)
	assert.Equal(t, "Rp 100.000", s.Receipt.AmountDisplay)
	assert.Equal(t, "gopay", s.Receipt.Method)
	assert.Equal(t, "GoPay", s.Receipt.MethodName)
	assert.Equal(t, "Semangat!", s.Receipt.Message)
	assert.Equal(t, domain.ReceiptStatusCompleted, s.Receipt.Status)
	assert.Equal(t, epoch.Add(2*time.Second), s.Receipt.CompletedAt)

	h.clock.Advance(5 * time.Second)
	assert.Nil(t, h.wizard.Snapshot().Flash, "notification dismisses itself")
}

func TestWizard_PaymentFailureIncrementsRetries(t *testing.T) {
	h := newHarness(t, OutcomeFailure, OutcomeSuccess)
	h.toMethod(t, "100000")
	require.NoError(t, h.wizard.SelectMethod("gopay"))

	h.pay(t)
	s := h.wizard.Snapshot()
	assert.Equal(t, domain.StepMethod, s.Step)
	assert.Equal(t, 1, s.Retries)
	require.NotNil(t, s.Notice)
	assert.Equal(t, domain.KindPayment, s.Notice.Kind)
	assert.Equal(t, 1, s.Notice.Attempt)
	assert.Equal(t, "Payment failed. Please try again (attempt 1 of 3).", s.Notice.Message)
	assert.True(t, s.CanContinue, "payment notice does not block a retry")

	h.pay(t)
	s = h.wizard.Snapshot()
	assert.Equal(t, domain.StepSuccess, s.Step)
	assert.Equal(t, 0, s.Retries)
}

func TestWizard_PaymentRetriesExhausted(t *testing.T) {
	h := newHarness(t, OutcomeFailure)
	h.toMethod(t, "100000")
	require.NoError(t, h.wizard.SelectMethod("bca"))

	h.pay(t)
	h.pay(t)
	assert.Equal(t, 2, h.wizard.Snapshot().Retries)

	h.pay(t)
	s := h.wizard.Snapshot()
	assert.Equal(t, domain.StepMethod, s.Step)
	assert.Equal(t, 0, s.Retries, "counter resets after the last attempt")
	require.NotNil(t, s.Notice)
	assert.Equal(t, 3, s.Notice.Attempt)
	assert.Equal(t, "Payment failed after 3 attempts. Please try a different payment method.", s.Notice.Message)

	require.NoError(t, h.wizard.SelectMethod("ovo"))
	assert.Nil(t, h.wizard.Snapshot().Notice, "switching method clears the notice")

	h.pay(t)
	assert.Equal(t, 1, h.wizard.Snapshot().Retries)
}

func TestWizard_AdvanceWhilePendingIsRejected(t *testing.T) {
	h := newHarness(t, OutcomeSuccess)
	h.toMethod(t, "100000")
	require.NoError(t, h.wizard.SelectMethod("dana"))

	require.NoError(t, h.wizard.Advance())
	assert.Equal(t, domain.EBUSY, domain.ErrorCode(h.wizard.Advance()))
	assert.Equal(t, domain.EBUSY, domain.ErrorCode(h.wizard.GoBack()))
	assert.Equal(t, domain.EBUSY, domain.ErrorCode(h.wizard.SelectMethod("bca")))
	assert.False(t, h.wizard.Snapshot().CanContinue)

	h.clock.Advance(time.Second)
	assert.Equal(t, domain.StepMethod, h.wizard.Snapshot().Step)
	h.clock.Advance(time.Second)
	assert.Equal(t, domain.StepSuccess, h.wizard.Snapshot().Step)
}

func TestWizard_ResetRestoresFreshState(t *testing.T) {
	h := newHarness(t, OutcomeSuccess)
	require.NoError(t, h.wizard.SetMessage("Untuk Tambora"))
	require.NoError(t, h.wizard.SetAnonymous(true))
	h.toMethod(t, "200000")
	require.NoError(t, h.wizard.SelectMethod("ovo"))
	h.pay(t)

	require.NoError(t, h.wizard.Reset())
	got := h.wizard.Snapshot()

	fresh := New(DefaultConfig(), h.clock, Scripted(OutcomeSuccess), nil, nil, got.Campaign, nil)
	defer fresh.Close()
	assert.Equal(t, fresh.Snapshot(), got)
	assert.Equal(t, domain.StepAmount, got.Step)
	assert.Empty(t, got.AmountText)
	assert.Empty(t, got.Message)
	assert.Empty(t, got.Method)
}

func TestWizard_ViewOtherDonations(t *testing.T) {
	h := newHarness(t, OutcomeSuccess)
	h.toMethod(t, "10000")
	require.NoError(t, h.wizard.SelectMethod("bca"))
	h.pay(t)

	require.NoError(t, h.wizard.ViewOtherDonations())
	require.Len(t, h.navs, 1)
	assert.Equal(t, DestHome, h.navs[0].dest)
	assert.Nil(t, h.navs[0].campaign)
}

// =============================================================================
// Connectivity
// =============================================================================

func TestWizard_OfflineBlocksNavigation(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.wizard.SetAmountText("50000"))

	h.conn.Set(false)
	s := h.wizard.Snapshot()
	assert.True(t, s.Offline)
	require.NotNil(t, s.Notice)
	assert.Equal(t, domain.KindNetwork, s.Notice.Kind)
	assert.False(t, s.CanContinue)

	n := asNotice(t, h.wizard.Advance())
	assert.Equal(t, "No internet connection. Please check your network and try again.", n.Message)
	assert.Equal(t, domain.StepAmount, h.wizard.Snapshot().Step)

	require.Error(t, h.wizard.GoBack())
	assert.Empty(t, h.navs)

	h.clock.Advance(time.Hour)
	assert.NotNil(t, h.wizard.Snapshot().Notice, "offline notice does not expire")

	// Editing keeps the network notice.
	require.NoError(t, h.wizard.SelectQuickAmount(20000))
	assert.Equal(t, domain.KindNetwork, h.wizard.Snapshot().Notice.Kind)

	h.conn.Set(true)
	s = h.wizard.Snapshot()
	assert.False(t, s.Offline)
	assert.Nil(t, s.Notice)
	assert.Equal(t, domain.StepAmount, s.Step, "nothing is retried")

	require.NoError(t, h.wizard.Advance())
	assert.Equal(t, domain.StepMethod, h.wizard.Snapshot().Step)
}

func TestWizard_StartsOffline(t *testing.T) {
	conn := connectivity.NewMonitor(false)
	w := New(DefaultConfig(), clocktest.New(epoch), Scripted(OutcomeSuccess), nil, conn,
		catalog.NewDefault().Default(), nil)
	defer w.Close()

	s := w.Snapshot()
	assert.True(t, s.Offline)
	require.NotNil(t, s.Notice)
	assert.True(t, s.Notice.Persistent())
}

func TestWizard_FailedPaymentWhileOfflineKeepsNetworkNotice(t *testing.T) {
	h := newHarness(t, OutcomeFailure)
	h.toMethod(t, "100000")
	require.NoError(t, h.wizard.SelectMethod("gopay"))
	require.NoError(t, h.wizard.Advance())

	h.conn.Set(false)
	h.clock.Advance(DefaultConfig().PaymentDelay)

	s := h.wizard.Snapshot()
	assert.False(t, s.Pending)
	assert.Equal(t, 1, s.Retries, "the failure is still counted")
	require.NotNil(t, s.Notice)
	assert.Equal(t, domain.KindNetwork, s.Notice.Kind)

	h.clock.Advance(6 * time.Second)
	s = h.wizard.Snapshot()
	assert.True(t, s.Offline)
	require.NotNil(t, s.Notice, "network notice stays while offline")
	assert.Equal(t, domain.KindNetwork, s.Notice.Kind)

	h.conn.Set(true)
	assert.Nil(t, h.wizard.Snapshot().Notice)
}

func TestWizard_EmittedValidationWhileOfflineKeepsNetworkNotice(t *testing.T) {
	h := newHarness(t)
	h.conn.Set(false)

	n := asNotice(t, h.wizard.ValidateAmount("500", true))
	assert.Equal(t, domain.KindValidation, n.Kind)
	n = asNotice(t, h.wizard.ValidateMessage(strings.Repeat("a", 201), true))
	assert.Equal(t, FieldMessage, n.Field)

	h.clock.Advance(6 * time.Second)
	s := h.wizard.Snapshot()
	require.NotNil(t, s.Notice)
	assert.Equal(t, domain.KindNetwork, s.Notice.Kind)
}

func TestWizard_CloseReleasesResources(t *testing.T) {
	h := newHarness(t, OutcomeSuccess)
	h.toMethod(t, "10000")
	require.NoError(t, h.wizard.SelectMethod("bca"))
	require.NoError(t, h.wizard.Advance())
	require.Equal(t, 1, h.conn.Subscribers())

	h.wizard.Close()
	h.wizard.Close()
	assert.Equal(t, 0, h.conn.Subscribers())
	assert.Equal(t, 0, h.clock.Pending())

	h.clock.Advance(time.Minute)
	h.conn.Set(false)
	s := h.wizard.Snapshot()
	assert.Equal(t, domain.StepMethod, s.Step)
	assert.False(t, s.Offline)
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(h.wizard.Advance()))
}
