package staff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEligibleStaffQuery(t *testing.T) {
	query, args, err := eligibleStaffQuery(100, 10).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT DISTINCT sp.staff_user_id FROM staff_profiles sp "+
			"JOIN staff_services ss ON ss.staff_user_id = sp.staff_user_id "+
			"WHERE sp.business_user_id = $1 AND sp.is_active = $2 AND ss.service_id = $3 "+
			"ORDER BY sp.staff_user_id ASC",
		query)
	assert.Equal(t, []interface{}{int64(100), true, int64(10)}, args)
}

func TestProfileQuery(t *testing.T) {
	query, args, err := profileQuery(11).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT staff_user_id, business_user_id, display_name, is_active, created_at "+
			"FROM staff_profiles WHERE staff_user_id = $1",
		query)
	assert.Equal(t, []interface{}{int64(11)}, args)
}

func TestToggleActiveQuery(t *testing.T) {
	query, args, err := toggleActiveQuery(11).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"UPDATE staff_profiles SET is_active = NOT is_active WHERE staff_user_id = $1 "+
			"RETURNING staff_user_id, business_user_id, display_name, is_active, created_at",
		query)
	assert.Equal(t, []interface{}{int64(11)}, args)
}
