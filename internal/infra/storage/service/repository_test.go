package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetByIDQuery(t *testing.T) {
	query, args, err := getByIDQuery(7).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, business_user_id, name, duration_minutes, is_active, created_at FROM services WHERE id = $1",
		query)
	assert.Equal(t, []interface{}{int64(7)}, args)
}
