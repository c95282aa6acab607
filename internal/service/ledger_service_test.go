package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
)

// seedLedger creates two bills sharing Alice and "2 - Bob" and returns their
// IDs, older first.
//
//	X (2024-03-01): Menu 30 split by Alice, 2 - Bob, 1 - Carol
//	Y (2024-04-01): Cab 20 split by Alice, 2 - Bob; Tip 10 for Alice
func seedLedger(t *testing.T, env *testEnv) (string, string) {
	t.Helper()
	token := env.token(t, "u-alice")
	x := env.createBill(t, token, &api.CreateBillRequest{
		Title:        "X",
		Date:         "2024-03-01",
		Participants: []string{"Alice", "2 - Bob", "1 - Carol"},
		Items:        []api.ItemInput{item("Menu", "30", "Alice", "2 - Bob", "1 - Carol")},
	})
	y := env.createBill(t, token, &api.CreateBillRequest{
		Title:        "Y",
		Date:         "2024-04-01",
		Participants: []string{"Alice", "2 - Bob"},
		Items: []api.ItemInput{
			item("Cab", "20", "Alice", "2 - Bob"),
			item("Tip", "10", "Alice"),
		},
	})
	return x.Bill.ID, y.Bill.ID
}

func names(people []api.PersonSummary) []string {
	out := make([]string, len(people))
	for i, p := range people {
		out[i] = p.Name
	}
	return out
}

func TestGetLedger(t *testing.T) {
	for _, chunk := range []int{1, 100} {
		env := newTestEnv(t, withLedgerOptions(LedgerOptions{ChunkSize: chunk, Timeout: 5 * time.Second}))
		x, _ := seedLedger(t, env)

		resp, err := env.ledger.GetLedger(context.Background(), as("", &api.GetLedgerRequest{}))
		require.NoError(t, err, "chunk size %d", chunk)
		people := resp.Msg.People

		assert.Equal(t, []string{"1 - Carol", "2 - Bob", "Alice"}, names(people))
		requireDecimal(t, "10", people[0].Total)
		requireDecimal(t, "20", people[1].Total)
		requireDecimal(t, "30", people[2].Total)
		assert.Equal(t, 2, people[2].Bills)
		assert.Zero(t, resp.Msg.Skipped)

		resp, err = env.ledger.GetLedger(context.Background(), as("", &api.GetLedgerRequest{BillIDs: []string{x}}))
		require.NoError(t, err)
		for _, p := range resp.Msg.People {
			requireDecimal(t, "10", p.Total)
		}
	}
}

func TestGetPersonHistory(t *testing.T) {
	env := newTestEnv(t)
	x, y := seedLedger(t, env)
	ctx := context.Background()

	resp, err := env.ledger.GetPersonHistory(ctx, as("", &api.GetPersonHistoryRequest{Name: "Alice"}))
	require.NoError(t, err)
	requireDecimal(t, "30", resp.Msg.Person.Total)

	bills := resp.Msg.Bills
	require.Len(t, bills, 2)
	assert.Equal(t, y, bills[0].BillID, "newest bill first")
	assert.Equal(t, "2024-04-01", bills[0].BillDate)
	requireDecimal(t, "20", bills[0].Subtotal)
	assert.Len(t, bills[0].Details, 2)
	assert.Equal(t, x, bills[1].BillID)
	requireDecimal(t, "10", bills[1].Subtotal)

	_, err = env.ledger.GetPersonHistory(ctx, as("", &api.GetPersonHistoryRequest{Name: "alice"}))
	requireCode(t, err, connect.CodeNotFound)

	_, err = env.ledger.GetPersonHistory(ctx, as("", &api.GetPersonHistoryRequest{Name: " "}))
	requireCode(t, err, connect.CodeInvalidArgument)
}

// danglingStore returns extra share records that point nowhere.
type danglingStore struct {
	storage.Store
	extra []models.ShareRecord
}

func (s *danglingStore) ListShares(ctx context.Context) ([]models.ShareRecord, error) {
	shares, err := s.Store.ListShares(ctx)
	if err != nil {
		return nil, err
	}
	return append(shares, s.extra...), nil
}

func TestLedgerSkipsUnresolvedShares(t *testing.T) {
	env := newTestEnv(t, withStore(func(st storage.Store) storage.Store {
		return &danglingStore{Store: st, extra: []models.ShareRecord{
			{ItemID: "not-a-uuid", ParticipantID: uuid.New().String(), Amount: d("5")},
			{ItemID: uuid.New().String(), ParticipantID: uuid.New().String(), Amount: d("7")},
		}}
	}))
	seedLedger(t, env)

	resp, err := env.ledger.GetLedger(context.Background(), as("", &api.GetLedgerRequest{}))
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Msg.Skipped)
	assert.Len(t, resp.Msg.People, 3)
	requireDecimal(t, "30", resp.Msg.People[2].Total)
}

type failingStore struct {
	storage.Store
}

func (failingStore) GetParticipantsByIDs(context.Context, []string) (map[string]*models.Participant, error) {
	return nil, errors.New("disk on fire")
}

func TestLedgerFailsOnFetchError(t *testing.T) {
	env := newTestEnv(t, withStore(func(st storage.Store) storage.Store {
		return failingStore{Store: st}
	}))
	seedLedger(t, env)

	_, err := env.ledger.GetLedger(context.Background(), as("", &api.GetLedgerRequest{}))
	requireCode(t, err, connect.CodeInternal)
}

// slowStore blocks listing shares until the caller gives up.
type slowStore struct {
	storage.Store
}

func (slowStore) ListShares(ctx context.Context) ([]models.ShareRecord, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestLedgerTimeout(t *testing.T) {
	env := newTestEnv(t,
		withStore(func(st storage.Store) storage.Store { return slowStore{Store: st} }),
		withLedgerOptions(LedgerOptions{ChunkSize: 10, Timeout: 20 * time.Millisecond}),
	)

	_, err := env.ledger.GetLedger(context.Background(), as("", &api.GetLedgerRequest{}))
	requireCode(t, err, connect.CodeDeadlineExceeded)
}

// batchRecordingStore records the largest bill ID batch it was asked for.
type batchRecordingStore struct {
	storage.Store
	mu       sync.Mutex
	maxBatch int
	calls    int
}

func (s *batchRecordingStore) ListSharesByBills(ctx context.Context, billIDs []string) ([]models.ShareRecord, error) {
	s.mu.Lock()
	s.calls++
	s.maxBatch = max(s.maxBatch, len(billIDs))
	s.mu.Unlock()
	return s.Store.ListSharesByBills(ctx, billIDs)
}

func TestGetLedgerChunksBillIDs(t *testing.T) {
	rec := &batchRecordingStore{}
	env := newTestEnv(t,
		withStore(func(st storage.Store) storage.Store {
			rec.Store = st
			return rec
		}),
		withLedgerOptions(LedgerOptions{ChunkSize: 100, Timeout: 5 * time.Second}),
	)
	x, y := seedLedger(t, env)

	billIDs := []string{x, y}
	for len(billIDs) < 250 {
		billIDs = append(billIDs, uuid.New().String())
	}
	billIDs = append(billIDs, x)

	resp, err := env.ledger.GetLedger(context.Background(), as("", &api.GetLedgerRequest{BillIDs: billIDs}))
	require.NoError(t, err)
	assert.LessOrEqual(t, rec.maxBatch, 100)
	assert.Equal(t, 3, rec.calls)

	people := resp.Msg.People
	assert.Equal(t, []string{"1 - Carol", "2 - Bob", "Alice"}, names(people))
	requireDecimal(t, "30", people[2].Total)
	assert.Zero(t, resp.Msg.Skipped)
}
