package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/pkg/api"
)

func dinner() *api.CreateBillRequest {
	return &api.CreateBillRequest{
		Title:        "Dinner",
		Date:         "2024-03-01",
		Payer:        "Alice",
		Participants: []string{"Alice", "Bob", "Carol"},
		Items: []api.ItemInput{
			{Name: "Menu", UnitPrice: d("100"), DiscountRatio: dp("0.9"), DiscountAdjustment: dp("-6"), Participants: []string{"Alice", "Bob", "Carol"}},
			item("Wine", "30", "Alice", "Bob"),
			item("Service", "5"),
		},
	}
}

func TestCreateAndGetBill(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.token(t, "u-alice")

	created := env.createBill(t, alice, dinner())
	assert.Equal(t, "u-alice", created.Bill.OwnerID)
	assert.Equal(t, "2024-03-01", created.Bill.Date)
	// 100 × 0.9 − 6 + 30 + 5; the unassigned item still counts.
	requireDecimal(t, "119", created.Bill.TotalAmount)
	require.Len(t, created.Items, 3)
	requireDecimal(t, "84", created.Items[0].Price)
	assert.Len(t, created.Items[0].Shares, 3)
	assert.Empty(t, created.Items[2].Shares)

	resp, err := env.bills.GetBill(ctx, as("", &api.GetBillRequest{BillID: created.Bill.ID}))
	require.NoError(t, err, "guests can read bills")
	got := resp.Msg.Bill

	require.Len(t, got.Totals, 3)
	assert.Equal(t, "Alice", got.Totals[0].Name)
	requireDecimal(t, "43", got.Totals[0].Amount)
	requireDecimal(t, "43", got.Totals[1].Amount)
	requireDecimal(t, "28", got.Totals[2].Amount)
}

func TestCreateBillRequiresUser(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.bills.CreateBill(context.Background(), as("", dinner()))
	requireCode(t, err, connect.CodeUnauthenticated)

	_, err = env.bills.CreateBill(context.Background(), as("not-a-token", dinner()))
	requireCode(t, err, connect.CodeUnauthenticated)
}

func TestCreateBillValidation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.token(t, "u-alice")

	tests := []struct {
		name   string
		mutate func(*api.CreateBillRequest)
	}{
		{"missing title", func(r *api.CreateBillRequest) { r.Title = "  " }},
		{"bad date", func(r *api.CreateBillRequest) { r.Date = "01/03/2024" }},
		{"payer not a participant", func(r *api.CreateBillRequest) { r.Payer = "Zed" }},
		{"duplicate participant", func(r *api.CreateBillRequest) { r.Participants = append(r.Participants, " Bob ") }},
		{"unknown item participant", func(r *api.CreateBillRequest) { r.Items[1].Participants = []string{"Zed"} }},
		{"negative ratio", func(r *api.CreateBillRequest) { r.Items[0].DiscountRatio = dp("-1") }},
		{"only guard items", func(r *api.CreateBillRequest) {
			r.Items = []api.ItemInput{item("", "10", "Alice"), item("Free", "0", "Alice")}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := dinner()
			tt.mutate(req)
			_, err := env.bills.CreateBill(context.Background(), as(alice, req))
			requireCode(t, err, connect.CodeInvalidArgument)
		})
	}
}

func TestGuardItemsAreDropped(t *testing.T) {
	env := newTestEnv(t)
	req := dinner()
	req.Items = append(req.Items, item("", "12", "Alice"), item("Refund", "-3", "Bob"))

	created := env.createBill(t, env.token(t, "u-alice"), req)
	assert.Len(t, created.Items, 3)
	requireDecimal(t, "119", created.Bill.TotalAmount)
}

func TestSaveBillItems(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.token(t, "u-alice")
	bob := env.token(t, "u-bob")
	created := env.createBill(t, alice, dinner())

	save := &api.SaveBillItemsRequest{
		BillID:       created.Bill.ID,
		Participants: []string{"Alice", "Bob", "Dave"},
		Items: []api.ItemInput{
			item("Pizza", "30", "Alice", "Bob", "Dave"),
			item("Beer", "8", "Dave"),
		},
	}

	_, err := env.bills.SaveBillItems(ctx, as("", save))
	requireCode(t, err, connect.CodeUnauthenticated)
	_, err = env.bills.SaveBillItems(ctx, as(bob, save))
	requireCode(t, err, connect.CodePermissionDenied)

	var first []string
	for round := 0; round < 2; round++ {
		resp, err := env.bills.SaveBillItems(ctx, as(alice, save))
		require.NoError(t, err)
		detail := resp.Msg.Bill
		requireDecimal(t, "38", detail.Bill.TotalAmount)

		var amounts []string
		for _, total := range detail.Totals {
			amounts = append(amounts, total.Name+"="+total.Amount.StringFixed(2))
		}
		if round == 0 {
			first = amounts
		} else {
			assert.Equal(t, first, amounts, "saving twice must yield the same shares")
		}
	}

	got, err := env.bills.GetBill(ctx, as("", &api.GetBillRequest{BillID: created.Bill.ID}))
	require.NoError(t, err)
	assert.Len(t, got.Msg.Bill.Participants, 3)
	assert.Len(t, got.Msg.Bill.Items, 2)
	requireDecimal(t, "38", got.Msg.Bill.Bill.TotalAmount)
	requireDecimal(t, "18", got.Msg.Bill.Totals[2].Amount)

	// Payer Alice must stay a participant.
	save.Participants = []string{"Bob", "Dave"}
	save.Items = []api.ItemInput{item("Pizza", "30", "Bob")}
	_, err = env.bills.SaveBillItems(ctx, as(alice, save))
	requireCode(t, err, connect.CodeInvalidArgument)
}

func TestUpdateBill(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.token(t, "u-alice")
	created := env.createBill(t, alice, dinner())

	title := "Birthday dinner"
	checked := true
	date := "2024-03-02"
	resp, err := env.bills.UpdateBill(ctx, as(alice, &api.UpdateBillRequest{
		BillID:  created.Bill.ID,
		Title:   &title,
		Checked: &checked,
		Date:    &date,
	}))
	require.NoError(t, err)
	assert.Equal(t, title, resp.Msg.Bill.Title)
	assert.True(t, resp.Msg.Bill.Checked)
	assert.Equal(t, "2024-03-02", resp.Msg.Bill.Date)
	assert.Equal(t, "Alice", resp.Msg.Bill.Payer)
	requireDecimal(t, "119", resp.Msg.Bill.TotalAmount)

	payer := "Zed"
	_, err = env.bills.UpdateBill(ctx, as(alice, &api.UpdateBillRequest{BillID: created.Bill.ID, Payer: &payer}))
	requireCode(t, err, connect.CodeInvalidArgument)

	_, err = env.bills.UpdateBill(ctx, as(env.token(t, "u-bob"), &api.UpdateBillRequest{BillID: created.Bill.ID, Title: &title}))
	requireCode(t, err, connect.CodePermissionDenied)

	_, err = env.bills.UpdateBill(ctx, as(alice, &api.UpdateBillRequest{BillID: "missing", Title: &title}))
	requireCode(t, err, connect.CodeNotFound)
}

func TestListAndDeleteBills(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.token(t, "u-alice")
	bob := env.token(t, "u-bob")

	first := env.createBill(t, alice, dinner())
	later := dinner()
	later.Date = "2024-04-01"
	second := env.createBill(t, alice, later)
	env.createBill(t, bob, dinner())

	all, err := env.bills.ListBills(ctx, as("", &api.ListBillsRequest{}))
	require.NoError(t, err)
	assert.Len(t, all.Msg.Bills, 3)

	_, err = env.bills.ListBills(ctx, as("", &api.ListBillsRequest{Mine: true}))
	requireCode(t, err, connect.CodeUnauthenticated)

	mine, err := env.bills.ListBills(ctx, as(alice, &api.ListBillsRequest{Mine: true}))
	require.NoError(t, err)
	require.Len(t, mine.Msg.Bills, 2)
	assert.Equal(t, second.Bill.ID, mine.Msg.Bills[0].ID, "newest bill first")

	_, err = env.bills.DeleteBill(ctx, as(bob, &api.DeleteBillRequest{BillID: first.Bill.ID}))
	requireCode(t, err, connect.CodePermissionDenied)

	_, err = env.bills.DeleteBill(ctx, as(alice, &api.DeleteBillRequest{BillID: first.Bill.ID}))
	require.NoError(t, err)

	_, err = env.bills.GetBill(ctx, as("", &api.GetBillRequest{BillID: first.Bill.ID}))
	requireCode(t, err, connect.CodeNotFound)
}

func TestImportBills(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	doc := `
bills:
  - title: Groceries
    date: 2024-05-01
    participants: [Alice, Bob]
    items:
      - name: Apples
        price: "2.50"
        quantity: 2
        participants: [Alice, Bob]
      - name: Coffee
        price: 12
        participants: [Bob]
  - title: Taxi
    date: 2024-05-02
    participants: [Alice]
    items:
      - {name: Ride, price: 20, participants: [Alice]}
`
	_, err := env.bills.ImportBills(ctx, as("", &api.ImportBillsRequest{Document: doc}))
	requireCode(t, err, connect.CodeUnauthenticated)

	alice := env.token(t, "u-alice")
	resp, err := env.bills.ImportBills(ctx, as(alice, &api.ImportBillsRequest{Format: "yaml", Document: doc}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Bills, 2)
	requireDecimal(t, "17", resp.Msg.Bills[0].TotalAmount)
	assert.Equal(t, "u-alice", resp.Msg.Bills[1].OwnerID)

	got, err := env.bills.GetBill(ctx, as("", &api.GetBillRequest{BillID: resp.Msg.Bills[0].ID}))
	require.NoError(t, err)
	assert.Len(t, got.Msg.Bill.Items, 3, "quantity 2 expands into two items")

	_, err = env.bills.ImportBills(ctx, as(alice, &api.ImportBillsRequest{Format: "xml", Document: doc}))
	requireCode(t, err, connect.CodeInvalidArgument)
}
