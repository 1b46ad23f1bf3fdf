package postgres

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPostgreSQL_SearchTreatsWildcardsLiterally(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	repo := NewUserPostgreSQL(db)
	ctx := context.Background()

	underscore := fx.Student("ana_b@example.com")
	lookalike := fx.Student("anaxb@example.com")
	percent := fx.Student("full%stop@example.com")
	fx.Student("fullystop@example.com")

	tests := []struct {
		search string
		want   []uint
	}{
		{"ana_b", []uint{underscore.ID}},
		{"_", []uint{underscore.ID}},
		{"l%s", []uint{percent.ID}},
		{"%", []uint{percent.ID}},
		{"ANAXB", []uint{lookalike.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			users, total, err := repo.Search(ctx, nil, repositories.UserFilters{Search: tt.search})
			require.NoError(t, err)

			var got []uint
			for _, u := range users {
				got = append(got, u.ID)
			}
			assert.Equal(t, int64(len(tt.want)), total)
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}
