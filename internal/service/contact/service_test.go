package contact

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindline/practice-api/internal/model"
	"github.com/mindline/practice-api/internal/repository/memory"
)

func TestSubmitNormalizes(t *testing.T) {
	svc := NewService(memory.NewContactRepository())

	request, err := svc.Submit(context.Background(), &model.CreateContactRequest{
		Name:    "  Prospective Client  ",
		Email:   " Prospect@Example.COM ",
		Message: "Do you take new patients?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Prospective Client", request.Name)
	assert.Equal(t, "prospect@example.com", request.Email)
}

func TestListPaginates(t *testing.T) {
	svc := NewService(memory.NewContactRepository())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Submit(ctx, &model.CreateContactRequest{
			Name:    fmt.Sprintf("Lead %d", i),
			Email:   fmt.Sprintf("lead%d@example.com", i),
			Message: "Do you take new patients?",
		})
		require.NoError(t, err)
	}

	// Newest first, default page size covers everything.
	all, err := svc.List(ctx, model.Pagination{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "Lead 4", all[0].Name)

	first, err := svc.List(ctx, model.Pagination{Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "Lead 4", first[0].Name)
	assert.Equal(t, "Lead 3", first[1].Name)

	second, err := svc.List(ctx, model.Pagination{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, "Lead 2", second[0].Name)

	last, err := svc.List(ctx, model.Pagination{Page: 3, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.Equal(t, "Lead 0", last[0].Name)

	empty, err := svc.List(ctx, model.Pagination{Page: 4, PageSize: 2})
	require.NoError(t, err)
	assert.Empty(t, empty)
}
