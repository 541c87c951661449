package file

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formlane/formlane/pkg/models"
	"github.com/formlane/formlane/pkg/persistence"
)

func TestFormRepository_SaveAndGetByID(t *testing.T) {
	repo := NewFormRepository(t.TempDir())
	ctx := context.Background()

	form := models.NewForm()
	form.ID = "form-1"
	form.ShareID = "share-1"
	form.Title = "Customer Survey"
	form.Steps[0] = append(form.Steps[0], models.DefaultField(models.FieldTypeEmail))

	require.NoError(t, repo.Save(ctx, form))
	assert.False(t, form.CreatedAt.IsZero())
	assert.False(t, form.UpdatedAt.IsZero())

	fetched, err := repo.GetByID(ctx, "form-1")
	require.NoError(t, err)
	assert.Equal(t, "Customer Survey", fetched.Title)
	assert.Equal(t, "share-1", fetched.ShareID)
	require.Len(t, fetched.Steps, 1)
	require.Len(t, fetched.Steps[0], 1)
	assert.Equal(t, models.FieldTypeEmail, fetched.Steps[0][0].Type)
}

func TestFormRepository_GetByID_NotFound(t *testing.T) {
	repo := NewFormRepository(t.TempDir())

	_, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, persistence.IsFormNotFound(err))
	assert.ErrorIs(t, err, persistence.ErrFormNotFound)
}

func TestFormRepository_GetByShareID(t *testing.T) {
	repo := NewFormRepository(t.TempDir())
	ctx := context.Background()

	for _, ids := range [][2]string{{"f1", "s1"}, {"f2", "s2"}} {
		form := models.NewForm()
		form.ID = ids[0]
		form.ShareID = ids[1]
		require.NoError(t, repo.Save(ctx, form))
	}

	found, err := repo.GetByShareID(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, "f2", found.ID)

	_, err = repo.GetByShareID(ctx, "s3")
	require.Error(t, err)
	assert.True(t, persistence.IsFormNotFound(err))
}

func TestFormRepository_Delete(t *testing.T) {
	repo := NewFormRepository(t.TempDir())
	ctx := context.Background()

	form := models.NewForm()
	form.ID = "gone"
	form.ShareID = "gone-share"
	require.NoError(t, repo.Save(ctx, form))

	require.NoError(t, repo.Delete(ctx, "gone"))

	_, err := repo.GetByID(ctx, "gone")
	assert.True(t, persistence.IsFormNotFound(err))

	// Deleting a missing form is not an error.
	require.NoError(t, repo.Delete(ctx, "never-existed"))
}
