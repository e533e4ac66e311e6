package dashboard_test

import (
	"testing"

	"github.com/Kyz7/wip/internal/area"
	"github.com/Kyz7/wip/internal/dashboard"
	"github.com/Kyz7/wip/internal/politician"
	"github.com/Kyz7/wip/internal/response"
	"github.com/Kyz7/wip/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newRequest(name, district string) *politician.Request {
	return &politician.Request{
		BaseInfo: politician.BaseInfo{
			Name:           name,
			AssemblyTerm:   21,
			PoliticalParty: "무소속",
		},
		Constituency: []area.ConstituencyInput{
			{Region: "seoul", District: strPtr(district)},
		},
	}
}

func TestAdminLogHandler(t *testing.T) {
	env := testutils.NewTestEnv(t)
	token := env.AdminToken(t)
	_, err := area.CreateConstituencies(env.DB, 21, []area.ConstituencyInput{{Region: "seoul", District: strPtr("종로구")}})
	require.NoError(t, err)

	actor := politician.Actor{AdminID: 1, Nickname: "admin"}
	first, err := politician.Create(env.DB, actor, newRequest("가", "종로구"))
	require.NoError(t, err)
	_, err = politician.Create(env.DB, actor, newRequest("나", "종로구"))
	require.NoError(t, err)
	require.NoError(t, politician.Delete(env.DB, actor, first.ID))

	t.Run("Success - Newest first", func(t *testing.T) {
		logs, total, err := dashboard.ListAdminLogs(env.DB, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, logs, 3)
		assert.Equal(t, "delete", string(logs[0].Action))
		assert.Equal(t, "가", *logs[0].PoliticianName)
		assert.Equal(t, "admin", logs[0].AdminNickname)
	})

	t.Run("Success - Paginated over HTTP", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "GET", "/admin/api/v1/admin-log?page=2&limit=2", nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		assert.Len(t, result.Data, 1)
		require.NotNil(t, result.Meta)
		assert.Equal(t, int64(3), result.Meta.Total)
		assert.Equal(t, int64(2), result.Meta.TotalPages)
	})

	t.Run("Success - Huge page is clamped", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "GET", "/admin/api/v1/admin-log?page=922337203685477582&limit=20", nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		assert.Empty(t, result.Data)
		require.NotNil(t, result.Meta)
		assert.Equal(t, response.MaxPage, result.Meta.Page)
	})

	t.Run("Error - Requires a bearer token", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "GET", "/admin/api/v1/admin-log", nil, "")
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.Code)
	})
}

func TestIntegrityErrorHandler(t *testing.T) {
	env := testutils.NewTestEnv(t)
	token := env.AdminToken(t)
	_, err := area.CreateConstituencies(env.DB, 21, []area.ConstituencyInput{
		{Region: "seoul", District: strPtr("종로구")},
		{Region: "seoul", District: strPtr("중구")},
	})
	require.NoError(t, err)

	actor := politician.Actor{AdminID: 1, Nickname: "admin"}

	t.Run("Success - Empty report", func(t *testing.T) {
		report, err := dashboard.IntegrityErrors(env.DB)
		require.NoError(t, err)
		assert.Empty(t, report.DuplicatedJurisdiction)
	})

	t.Run("Success - Shared constituency is reported", func(t *testing.T) {
		a, err := politician.Create(env.DB, actor, newRequest("가", "종로구"))
		require.NoError(t, err)
		b, err := politician.Create(env.DB, actor, newRequest("나", "종로구"))
		require.NoError(t, err)
		_, err = politician.Create(env.DB, actor, newRequest("다", "중구"))
		require.NoError(t, err)

		resp, err := testutils.MakeRequest(env.App, "GET", "/admin/api/v1/integrity-error", nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		report, err := dashboard.IntegrityErrors(env.DB)
		require.NoError(t, err)
		require.Len(t, report.DuplicatedJurisdiction, 1)
		dup := report.DuplicatedJurisdiction[0]
		assert.Equal(t, "서울", dup.Region)
		assert.Equal(t, "종로구", *dup.District)
		assert.Equal(t, []dashboard.PoliticianRef{{ID: a.ID, Name: "가"}, {ID: b.ID, Name: "나"}}, dup.PoliticianList)
	})
}
