package service

import (
	"context"
	"testing"

	"github.com/abdesslemchebili/rebornBackend/internal/adapter/repository/memory"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/apperror"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/client"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/user"
	"github.com/abdesslemchebili/rebornBackend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin      = user.Actor{ID: "admin-1", Role: user.RoleAdmin}
	commercial = user.Actor{ID: "com-1", Role: user.RoleCommercial}
	otherAgent = user.Actor{ID: "com-2", Role: user.RoleCommercial}
)

func strPtr(s string) *string { return &s }

func newClientService() (ClientService, *memory.ClientRepository) {
	repo := memory.NewClientRepository(memory.NewStore())
	return NewClientService(repo, logger.NewNop()), repo
}

func TestClientScope(t *testing.T) {
	ctx := context.Background()
	svc, _ := newClientService()

	mine, err := svc.Create(ctx, commercial, ClientInput{Name: strPtr("Garage Ben Ali"), Type: strPtr("mechanic")})
	require.NoError(t, err)
	assert.Equal(t, commercial.ID, mine.CreatedBy)
	assert.True(t, mine.TotalDebt.IsZero())
	assert.Equal(t, client.SegmentStandard, mine.Segment)

	_, err = svc.Create(ctx, otherAgent, ClientInput{Name: strPtr("Lavage Nour")})
	require.NoError(t, err)

	t.Run("agents only see their own clients", func(t *testing.T) {
		page, err := svc.List(ctx, commercial, ClientQuery{})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Total)
		assert.Equal(t, mine.ID, page.Results[0].ID)

		_, err = svc.Get(ctx, otherAgent, mine.ID)
		assert.True(t, apperror.HasCode(err, CodeClientNotFound))

		err = svc.Delete(ctx, otherAgent, mine.ID)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("admins see everything", func(t *testing.T) {
		page, err := svc.List(ctx, admin, ClientQuery{})
		require.NoError(t, err)
		assert.Equal(t, 2, page.Total)
	})
}

func TestClientValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newClientService()

	_, err := svc.Create(ctx, admin, ClientInput{Name: strPtr("  ")})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	lat := 36.8
	_, err = svc.Create(ctx, admin, ClientInput{Name: strPtr("X"), Latitude: &lat})
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "location", appErr.Details[0].Field)

	_, err = svc.Create(ctx, admin, ClientInput{Name: strPtr("X"), Segment: strPtr("gold"), Type: strPtr("bakery")})
	appErr, _ = apperror.As(err)
	require.NotNil(t, appErr)
	assert.Len(t, appErr.Details, 2)

	_, err = svc.Create(ctx, admin, ClientInput{Name: strPtr("A"), Code: strPtr("C-1")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, admin, ClientInput{Name: strPtr("B"), Code: strPtr("C-1")})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestClientSortAndSearch(t *testing.T) {
	ctx := context.Background()
	svc, _ := newClientService()
	for _, name := range []string{"Bravo", "Alpha", "Charlie"} {
		_, err := svc.Create(ctx, admin, ClientInput{Name: strPtr(name)})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, admin, ClientQuery{Sort: "name"})
	require.NoError(t, err)
	assert.Equal(t, "Alpha", page.Results[0].Name)
	assert.Equal(t, "Charlie", page.Results[2].Name)

	page, err = svc.List(ctx, admin, ClientQuery{Sort: "-name"})
	require.NoError(t, err)
	assert.Equal(t, "Charlie", page.Results[0].Name)

	page, err = svc.List(ctx, admin, ClientQuery{Search: "rav"})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "Bravo", page.Results[0].Name)

	_, err = svc.List(ctx, admin, ClientQuery{Sort: "password"})
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidSortSpec))
}

func TestParseClientSort(t *testing.T) {
	s, err := ParseClientSort("")
	require.NoError(t, err)
	assert.Equal(t, client.Sort{Field: client.SortCreatedAt, Desc: true}, s)

	s, err = ParseClientSort("-totalDebt")
	require.NoError(t, err)
	assert.Equal(t, client.Sort{Field: client.SortTotalDebt, Desc: true}, s)

	s, err = ParseClientSort("shopName")
	require.NoError(t, err)
	assert.False(t, s.Desc)
}

func TestClientsNear(t *testing.T) {
	ctx := context.Background()
	svc, _ := newClientService()

	at := func(name string, lat, lng float64) {
		_, err := svc.Create(ctx, admin, ClientInput{Name: strPtr(name), Latitude: &lat, Longitude: &lng})
		require.NoError(t, err)
	}
	at("Tunis Centre", 36.8065, 10.1815)
	at("La Marsa", 36.8782, 10.3247)
	at("Sfax", 34.7406, 10.7603)

	got, err := svc.Near(ctx, admin, NearQuery{Latitude: 36.8065, Longitude: 10.1815})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Tunis Centre", got[0].Name)
	assert.Equal(t, "La Marsa", got[1].Name)

	got, err = svc.Near(ctx, admin, NearQuery{Latitude: 36.8065, Longitude: 10.1815, MaxDistanceKm: 400})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = svc.Near(ctx, admin, NearQuery{Latitude: 91})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestUpdateClientKeepsDebt(t *testing.T) {
	ctx := context.Background()
	svc, repo := newClientService()
	c, err := svc.Create(ctx, admin, ClientInput{Name: strPtr("Garage")})
	require.NoError(t, err)
	require.NoError(t, repo.AddDebt(ctx, c.ID, dec("120")))

	got, err := svc.Update(ctx, admin, c.ID, ClientInput{Phone: strPtr(" +216 71 000 000 "), Segment: strPtr("premium")})
	require.NoError(t, err)
	assert.Equal(t, "+216 71 000 000", got.Phone)
	assert.Equal(t, client.SegmentPremium, got.Segment)
	assert.True(t, got.TotalDebt.Equal(dec("120")))
}
