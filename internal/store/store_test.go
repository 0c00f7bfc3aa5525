package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partnerpay/partnerpay/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.Context(), filepath.Join(t.TempDir(), "data", "partnerpay.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func seedPartner(t *testing.T, s *Store, name string) model.Partner {
	t.Helper()
	p, err := s.CreatePartner(t.Context(), model.Partner{Name: name, ContractTotal: dec("1000")})
	require.NoError(t, err)
	return p
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partnerpay.db")
	s, err := Open(t.Context(), path, nil)
	require.NoError(t, err)
	_, err = s.CreatePartner(t.Context(), model.Partner{Name: "Nike"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(t.Context(), path, nil)
	require.NoError(t, err)
	defer s.Close()
	ps, err := s.ListPartners(t.Context())
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, "Nike", ps[0].Name)
}

func TestCreatePartner(t *testing.T) {
	s := openTestStore(t)
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	p, err := s.CreatePartner(t.Context(), model.Partner{Name: "  Nike ", ContractTotal: dec("5000000.00")})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Nike", p.Name)
	assert.Equal(t, fixed, p.CreatedAt)

	got, err := s.GetPartner(t.Context(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.True(t, dec("5000000").Equal(got.ContractTotal))
	assert.False(t, got.IsFlexFund)
	assert.Equal(t, fixed, got.CreatedAt)
}

func TestCreatePartner_KeepsGivenID(t *testing.T) {
	s := openTestStore(t)
	p, err := s.CreatePartner(t.Context(), model.Partner{ID: "nike", Name: "Nike"})
	require.NoError(t, err)
	assert.Equal(t, "nike", p.ID)
}

func TestCreatePartner_FlexFundForcesZeroContract(t *testing.T) {
	s := openTestStore(t)
	p, err := s.CreatePartner(t.Context(), model.Partner{Name: "EA Sports", ContractTotal: dec("99"), IsFlexFund: true})
	require.NoError(t, err)

	got, err := s.GetPartner(t.Context(), p.ID)
	require.NoError(t, err)
	assert.True(t, got.IsFlexFund)
	assert.True(t, got.ContractTotal.IsZero())
}

func TestCreatePartner_Invalid(t *testing.T) {
	s := openTestStore(t)
	_, err := s.CreatePartner(t.Context(), model.Partner{Name: " "})
	assert.Error(t, err)

	_, err = s.CreatePartner(t.Context(), model.Partner{Name: "X", ContractTotal: dec("-1")})
	assert.Error(t, err)
}

func TestCreatePartner_Duplicate(t *testing.T) {
	s := openTestStore(t)
	seedPartner(t, s, "Nike")
	_, err := s.CreatePartner(t.Context(), model.Partner{Name: "Nike"})
	assert.ErrorIs(t, err, ErrDuplicatePartner)
}

func TestUpdatePartner(t *testing.T) {
	s := openTestStore(t)
	p := seedPartner(t, s, "Nike")

	p.Name = "Nike Inc"
	p.IsFlexFund = true
	got, err := s.UpdatePartner(t.Context(), p)
	require.NoError(t, err)
	assert.Equal(t, "Nike Inc", got.Name)
	assert.True(t, got.ContractTotal.IsZero())

	_, err = s.UpdatePartner(t.Context(), model.Partner{ID: "missing", Name: "X"})
	assert.ErrorIs(t, err, ErrNotFound)

	other := seedPartner(t, s, "Gatorade")
	other.Name = "Nike Inc"
	_, err = s.UpdatePartner(t.Context(), other)
	assert.ErrorIs(t, err, ErrDuplicatePartner)
}

func TestListPartners_InsertionOrder(t *testing.T) {
	s := openTestStore(t)
	for _, name := range []string{"Nike", "Gatorade", "EA Sports"} {
		seedPartner(t, s, name)
	}
	ps, err := s.ListPartners(t.Context())
	require.NoError(t, err)
	require.Len(t, ps, 3)
	assert.Equal(t, "Nike", ps[0].Name)
	assert.Equal(t, "Gatorade", ps[1].Name)
	assert.Equal(t, "EA Sports", ps[2].Name)
}

func TestDeletePartner(t *testing.T) {
	s := openTestStore(t)
	p := seedPartner(t, s, "Nike")

	require.NoError(t, s.DeletePartner(t.Context(), p.ID))
	_, err := s.GetPartner(t.Context(), p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.DeletePartner(t.Context(), p.ID), ErrNotFound)
}

func TestDeletePartner_InUse(t *testing.T) {
	s := openTestStore(t)
	p := seedPartner(t, s, "Nike")
	_, err := s.CreatePayment(t.Context(), model.Payment{PartnerID: p.ID, PlayerName: "A", Amount: dec("1")})
	require.NoError(t, err)

	err = s.DeletePartner(t.Context(), p.ID)
	assert.ErrorIs(t, err, ErrPartnerInUse)

	_, err = s.GetPartner(t.Context(), p.ID)
	assert.NoError(t, err)
}
