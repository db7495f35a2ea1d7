package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/SShoshia/book-giveaway/models"
	"github.com/SShoshia/book-giveaway/services"
	"github.com/SShoshia/book-giveaway/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type transferFixture struct {
	db        *gorm.DB
	transfers *services.TransferService
	interests *services.InterestService
	owner     *models.User
	reader    *models.User
	book      *models.Book
}

func newTransferFixture(t *testing.T, requireInterest bool) transferFixture {
	db := testutil.NewDB(t, testutil.NewConfig(t))
	owner := testutil.CreateTestUser(t, db, "owner")
	reader := testutil.CreateTestUser(t, db, "reader")
	return transferFixture{
		db:        db,
		transfers: services.NewTransferService(db, requireInterest),
		interests: services.NewInterestService(db),
		owner:     owner,
		reader:    reader,
		book:      testutil.CreateTestBook(t, db, owner.ID, "Dune", "Frank Herbert", "SF"),
	}
}

func TestTransferOwnership(t *testing.T) {
	f := newTransferFixture(t, true)
	ctx := context.Background()
	testutil.AddTestInterest(t, f.db, f.reader.ID, f.book.ID)

	require.NoError(t, f.transfers.TransferOwnership(ctx, f.book.ID, f.owner.ID, f.reader.ID))

	assert.Equal(t, f.reader.ID, testutil.ReloadBook(t, f.db, f.book.ID).OwnerID)
	interested, err := f.interests.IsInterested(ctx, f.reader.ID, f.book.ID)
	require.NoError(t, err)
	assert.False(t, interested, "the new owner's interest is retracted")

	err = f.transfers.TransferOwnership(ctx, f.book.ID, f.owner.ID, f.reader.ID)
	assert.ErrorIs(t, err, services.ErrForbidden, "the previous owner can no longer transfer")
}

func TestTransferOwnership_KeepsOtherInterests(t *testing.T) {
	f := newTransferFixture(t, true)
	ctx := context.Background()
	bystander := testutil.CreateTestUser(t, f.db, "bystander")
	testutil.AddTestInterest(t, f.db, f.reader.ID, f.book.ID)
	testutil.AddTestInterest(t, f.db, bystander.ID, f.book.ID)

	require.NoError(t, f.transfers.TransferOwnership(ctx, f.book.ID, f.owner.ID, f.reader.ID))

	users, err := f.interests.ListInterestedUsers(ctx, f.book.ID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, bystander.ID, users[0].ID)
}

func TestTransferOwnership_Rejections(t *testing.T) {
	f := newTransferFixture(t, true)
	ctx := context.Background()
	stranger := testutil.CreateTestUser(t, f.db, "stranger")
	testutil.AddTestInterest(t, f.db, f.reader.ID, f.book.ID)

	tests := []struct {
		name      string
		bookID    uint
		requester uint
		candidate uint
		want      error
	}{
		{"unknown book", f.book.ID + 100, f.owner.ID, f.reader.ID, services.ErrNotFound},
		{"requester is not the owner", f.book.ID, stranger.ID, f.reader.ID, services.ErrForbidden},
		{"interested user cannot take the book", f.book.ID, f.reader.ID, f.reader.ID, services.ErrForbidden},
		{"no candidate", f.book.ID, f.owner.ID, 0, services.ErrInvalidCandidate},
		{"candidate is the owner", f.book.ID, f.owner.ID, f.owner.ID, services.ErrInvalidCandidate},
		{"unknown candidate", f.book.ID, f.owner.ID, stranger.ID + 100, services.ErrInvalidCandidate},
		{"candidate is not interested", f.book.ID, f.owner.ID, stranger.ID, services.ErrInvalidCandidate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.transfers.TransferOwnership(ctx, tt.bookID, tt.requester, tt.candidate)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, f.owner.ID, testutil.ReloadBook(t, f.db, f.book.ID).OwnerID)
		})
	}

	interested, err := f.interests.IsInterested(ctx, f.reader.ID, f.book.ID)
	require.NoError(t, err)
	assert.True(t, interested, "failed transfers leave interests untouched")
}

func TestTransferOwnership_WithoutInterestRequirement(t *testing.T) {
	f := newTransferFixture(t, false)
	ctx := context.Background()

	require.NoError(t, f.transfers.TransferOwnership(ctx, f.book.ID, f.owner.ID, f.reader.ID))
	assert.Equal(t, f.reader.ID, testutil.ReloadBook(t, f.db, f.book.ID).OwnerID)
}

func TestTransferOwnership_ConcurrentRequestsHaveOneWinner(t *testing.T) {
	f := newTransferFixture(t, true)
	ctx := context.Background()
	other := testutil.CreateTestUser(t, f.db, "other")
	testutil.AddTestInterest(t, f.db, f.reader.ID, f.book.ID)
	testutil.AddTestInterest(t, f.db, other.ID, f.book.ID)

	candidates := []uint{f.reader.ID, other.ID}
	errs := make([]error, len(candidates))

	var wg sync.WaitGroup
	for i, candidate := range candidates {
		wg.Add(1)
		go func(i int, candidate uint) {
			defer wg.Done()
			errs[i] = f.transfers.TransferOwnership(ctx, f.book.ID, f.owner.ID, candidate)
		}(i, candidate)
	}
	wg.Wait()

	var winners []uint
	for i, err := range errs {
		if err == nil {
			winners = append(winners, candidates[i])
			continue
		}
		assert.ErrorIs(t, err, services.ErrForbidden)
	}
	require.Len(t, winners, 1)
	assert.Equal(t, winners[0], testutil.ReloadBook(t, f.db, f.book.ID).OwnerID)
}
