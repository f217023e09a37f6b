package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson"
)

func TestProfileFieldsStripsCreatedAt(t *testing.T) {
	fields := profileFields(bson.M{
		"display_name": "Alice",
		"created_at":   time.Now(),
	})

	require.Equal(t, "Alice", fields["display_name"])
	require.NotContains(t, fields, "created_at")
	require.Contains(t, fields, "updated_at")
}

func TestProfileFieldsAlwaysRefreshesUpdatedAt(t *testing.T) {
	fields := profileFields(bson.M{})

	require.Len(t, fields, 1)
	require.Contains(t, fields, "updated_at")
}
