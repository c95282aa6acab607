package service

import (
	"context"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/pkg/api"
)

func TestPaymentWritesNeedUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.payments.SetPaidAmount(ctx, as("", &api.SetPaidAmountRequest{Name: "Alice", Amount: "5"}))
	requireCode(t, err, connect.CodeUnauthenticated)
	_, err = env.payments.FillPaidToTotal(ctx, as("", &api.FillPaidToTotalRequest{Name: "Alice"}))
	requireCode(t, err, connect.CodeUnauthenticated)
	_, err = env.payments.StagePaidAmount(ctx, as("", &api.StagePaidAmountRequest{Name: "Alice", Amount: "5"}))
	requireCode(t, err, connect.CodeUnauthenticated)
	_, err = env.payments.CommitPaidAmount(ctx, as("", &api.CommitPaidAmountRequest{Name: "Alice"}))
	requireCode(t, err, connect.CodeUnauthenticated)

	resp, err := env.payments.ListPayments(ctx, as("", &api.ListPaymentsRequest{}))
	require.NoError(t, err, "guests can read payments")
	assert.Empty(t, resp.Msg.Payments)
}

func TestSetPaidAmount(t *testing.T) {
	env := newTestEnv(t)
	seedLedger(t, env)
	ctx := context.Background()
	token := env.token(t, "u-bob")

	for _, bad := range []string{"-1", "12.345", "abc", "1e3", ""} {
		_, err := env.payments.SetPaidAmount(ctx, as(token, &api.SetPaidAmountRequest{Name: "Alice", Amount: bad}))
		requireCode(t, err, connect.CodeInvalidArgument)
	}

	resp, err := env.payments.SetPaidAmount(ctx, as(token, &api.SetPaidAmountRequest{Name: "Alice", Amount: "12.50"}))
	require.NoError(t, err)
	person := resp.Msg.Person
	requireDecimal(t, "30", person.Total)
	requireDecimal(t, "12.5", person.Paid)
	requireDecimal(t, "17.5", person.Remaining)
	assert.False(t, person.FullyPaid)

	// Overpaying clamps remaining and ratio.
	resp, err = env.payments.SetPaidAmount(ctx, as(token, &api.SetPaidAmountRequest{Name: "Alice", Amount: "45"}))
	require.NoError(t, err)
	requireDecimal(t, "0", resp.Msg.Person.Remaining)
	requireDecimal(t, "1", resp.Msg.Person.PaidRatio)
	assert.True(t, resp.Msg.Person.FullyPaid)

	list, err := env.payments.ListPayments(ctx, as("", &api.ListPaymentsRequest{}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Payments, 1)
	requireDecimal(t, "45", list.Msg.Payments[0].PaidAmount)
	assert.Equal(t, "u-bob", list.Msg.Payments[0].UpdatedBy)

	ledger, err := env.ledger.GetLedger(ctx, as("", &api.GetLedgerRequest{}))
	require.NoError(t, err)
	alice := ledger.Msg.People[2]
	requireDecimal(t, "30", alice.Total)
	requireDecimal(t, "45", alice.Paid)
	requireDecimal(t, "0", alice.Remaining)
	assert.True(t, alice.FullyPaid)
	assert.Equal(t, 2, alice.Bills)

	// People without a payment row have paid nothing.
	bob := ledger.Msg.People[1]
	requireDecimal(t, "0", bob.Paid)
	requireDecimal(t, "20", bob.Remaining)
	requireDecimal(t, "0", bob.PaidRatio)
	assert.False(t, bob.FullyPaid)
}

func TestFillPaidToTotal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	token := env.token(t, "u-alice")
	env.createBill(t, token, &api.CreateBillRequest{
		Title:        "Thirds",
		Date:         "2024-01-01",
		Participants: []string{"A", "B", "C"},
		Items:        []api.ItemInput{item("Cake", "10", "A", "B", "C")},
	})

	resp, err := env.payments.FillPaidToTotal(ctx, as(token, &api.FillPaidToTotalRequest{Name: "B"}))
	require.NoError(t, err)
	requireDecimal(t, "3.33", resp.Msg.Person.Paid)
	requireNear(t, "3.3333333333", resp.Msg.Person.Total)
	assert.True(t, resp.Msg.Person.FullyPaid)

	_, err = env.payments.FillPaidToTotal(ctx, as(token, &api.FillPaidToTotalRequest{Name: "Nobody"}))
	requireCode(t, err, connect.CodeNotFound)
}

func TestStageAndCommitPaidAmount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	token := env.token(t, "u-alice")

	for _, typed := range []string{"1", "12", "12.5"} {
		resp, err := env.payments.StagePaidAmount(ctx, as(token, &api.StagePaidAmountRequest{Name: "Alice", Amount: typed}))
		require.NoError(t, err)
		requireDecimal(t, typed, resp.Msg.Staged)
	}
	_, err := env.payments.StagePaidAmount(ctx, as(token, &api.StagePaidAmountRequest{Name: "Alice", Amount: "12.5x"}))
	requireCode(t, err, connect.CodeInvalidArgument)

	list, err := env.payments.ListPayments(ctx, as("", &api.ListPaymentsRequest{}))
	require.NoError(t, err)
	assert.Empty(t, list.Msg.Payments, "staged values are not written")

	commit, err := env.payments.CommitPaidAmount(ctx, as(token, &api.CommitPaidAmountRequest{Name: "Alice"}))
	require.NoError(t, err)
	assert.True(t, commit.Msg.Committed)
	requireDecimal(t, "12.5", commit.Msg.PaidAmount)

	list, err = env.payments.ListPayments(ctx, as("", &api.ListPaymentsRequest{}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Payments, 1)
	requireDecimal(t, "12.5", list.Msg.Payments[0].PaidAmount)

	commit, err = env.payments.CommitPaidAmount(ctx, as(token, &api.CommitPaidAmountRequest{Name: "Alice"}))
	require.NoError(t, err)
	assert.False(t, commit.Msg.Committed)
}

func TestStagedAmountCommitsWhenIdle(t *testing.T) {
	env := newTestEnv(t, withDraftIdle(20*time.Millisecond))
	ctx := context.Background()
	token := env.token(t, "u-alice")

	_, err := env.payments.StagePaidAmount(ctx, as(token, &api.StagePaidAmountRequest{Name: "Bob", Amount: "7"}))
	require.NoError(t, err)
	_, err = env.payments.StagePaidAmount(ctx, as(token, &api.StagePaidAmountRequest{Name: "Bob", Amount: "8.25"}))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		payments, err := env.store.ListPayments(ctx)
		return err == nil && len(payments) == 1 && payments[0].PaidAmount.Equal(d("8.25"))
	}, 2*time.Second, 10*time.Millisecond)
}

func TestFlushCommitsStagedAmounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	token := env.token(t, "u-alice")

	_, err := env.payments.StagePaidAmount(ctx, as(token, &api.StagePaidAmountRequest{Name: "Carol", Amount: "3"}))
	require.NoError(t, err)
	require.NoError(t, env.payment.Flush(ctx))

	payments, err := env.store.ListPayments(ctx)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "Carol", payments[0].Name)
}
