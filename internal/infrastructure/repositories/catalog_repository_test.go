package repositories

import (
	"context"
	"testing"

	"github.com/nexus/jobboard/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxonomyRepositoryImpl(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaxonomyRepository(db)
	ctx := context.Background()

	design := &domain.JobCategory{Name: "Product Design"}
	require.NoError(t, repo.CreateCategory(ctx, design))
	assert.Equal(t, "product-design", design.Slug)
	assert.ErrorIs(t, repo.CreateCategory(ctx, &domain.JobCategory{Name: "Product Design"}), domain.ErrTaxonomyExists)

	cats, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)

	_, err = repo.FindCategory(ctx, 77)
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)

	goTag := &domain.JobTag{Name: "Go"}
	sqlTag := &domain.JobTag{Name: "SQL", Slug: "structured-query"}
	require.NoError(t, repo.CreateTag(ctx, goTag))
	require.NoError(t, repo.CreateTag(ctx, sqlTag))
	assert.Equal(t, "structured-query", sqlTag.Slug)

	tags, err := repo.FindTags(ctx, []uint{goTag.ID, sqlTag.ID, goTag.ID})
	require.NoError(t, err)
	assert.Len(t, tags, 2)

	_, err = repo.FindTags(ctx, []uint{goTag.ID, 999})
	assert.ErrorIs(t, err, domain.ErrTagNotFound)

	none, err := repo.FindTags(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := repo.ListTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Go", all[0].Name)
}

func TestCompanyRepositoryImpl(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCompanyRepository(db)
	ctx := context.Background()
	owner := createUser(t, db, "owner@example.com")

	company := &domain.CompanyProfile{UserID: owner.ID, Name: "Acme", Website: "https://acme.test"}
	require.NoError(t, repo.Create(ctx, company))
	assert.NotZero(t, company.ID)

	assert.ErrorIs(t, repo.Create(ctx, &domain.CompanyProfile{UserID: owner.ID, Name: "Acme 2"}), domain.ErrCompanyExists)

	company.Description = "Rockets"
	company.Website = ""
	require.NoError(t, repo.Update(ctx, company))

	found, err := repo.FindByID(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rockets", found.Description)
	assert.Empty(t, found.Website)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = repo.FindByID(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &domain.CompanyProfile{ID: 404, Name: "x"}), domain.ErrCompanyNotFound)
}

func TestNotificationRepositoryImpl(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")

	first := &domain.Notification{RecipientID: alice.ID, Message: "first"}
	second := &domain.Notification{RecipientID: alice.ID, Message: "second"}
	other := &domain.Notification{RecipientID: bob.ID, Message: "for bob"}
	for _, n := range []*domain.Notification{first, second, other} {
		require.NoError(t, repo.Create(ctx, n))
	}

	list, err := repo.ListByRecipient(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Message)
	for _, n := range list {
		assert.Equal(t, alice.ID, n.RecipientID)
	}

	_, err = repo.FindForRecipient(ctx, other.ID, alice.ID)
	assert.ErrorIs(t, err, domain.ErrNotificationNotFound)

	require.NoError(t, repo.MarkRead(ctx, first.ID))
	require.NoError(t, repo.MarkRead(ctx, first.ID))
	found, err := repo.FindForRecipient(ctx, first.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, found.IsRead)
}
