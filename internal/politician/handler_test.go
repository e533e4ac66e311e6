package politician_test

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/url"
	"os"
	"testing"

	"github.com/Kyz7/wip/internal/area"
	"github.com/Kyz7/wip/internal/models"
	"github.com/Kyz7/wip/internal/testutils"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func setupConstituencies(t *testing.T, env *testutils.TestEnv) {
	t.Helper()
	_, err := area.CreateConstituencies(env.DB, 21, []area.ConstituencyInput{
		{Region: "seoul", District: strPtr("종로구")},
		{Region: "busan", District: strPtr("중구")},
	})
	require.NoError(t, err)
}

func politicianBody(name, party, district string, total, completed int) map[string]interface{} {
	return map[string]interface{}{
		"base_info": map[string]interface{}{
			"name":                    name,
			"assembly_term":           21,
			"political_party":         party,
			"elected_count":           1,
			"total_promise_count":     total,
			"completed_promise_count": completed,
		},
		"promise_count_detail": map[string]interface{}{
			"completed_national_promise_count": 1,
			"total_national_promise_count":     2,
		},
		"constituency": []map[string]interface{}{
			{"region": "seoul", "district": district},
		},
		"committee": []map[string]interface{}{
			{"is_main": true, "name": "법제사법위원회"},
		},
	}
}

func createPolitician(t *testing.T, env *testutils.TestEnv, token string, body map[string]interface{}) uint {
	t.Helper()
	resp, err := testutils.MakeRequest(env.App, "POST", "/admin/api/v1/politician/", body, token)
	require.NoError(t, err)
	require.Equal(t, 201, resp.Code, resp.Body.String())

	var result testutils.StandardResponse
	testutils.ParseResponse(t, resp, &result)
	data := result.Data.(map[string]interface{})
	return uint(data["politician_id"].(float64))
}

func TestCreatePoliticianHandler(t *testing.T) {
	env := testutils.NewTestEnv(t)
	token := env.AdminToken(t)
	setupConstituencies(t, env)

	t.Run("Success - Create with children and admin log", func(t *testing.T) {
		id := createPolitician(t, env, token, politicianBody("홍길동", "무소속", "종로구", 10, 4))

		var p models.Politician
		require.NoError(t, env.DB.Preload("Committees").Preload("PromiseCountDetail").Preload("Jurisdictions").First(&p, id).Error)
		assert.Equal(t, "홍길동", p.Name)
		require.Len(t, p.Committees, 1)
		require.NotNil(t, p.PromiseCountDetail)
		assert.Equal(t, 2, *p.PromiseCountDetail.TotalNationalPromiseCount)
		require.Len(t, p.Jurisdictions, 1)

		var logEntry models.AdminLog
		require.NoError(t, env.DB.Where("politician_id = ?", id).First(&logEntry).Error)
		assert.Equal(t, models.ActionCreate, logEntry.Action)
		assert.Equal(t, "admin", logEntry.Nickname)
	})

	t.Run("Success - Markup is stripped from free text", func(t *testing.T) {
		id := createPolitician(t, env, token, politicianBody("<b>김철수</b><script>x()</script>", "무소속", "종로구", 0, 0))

		var p models.Politician
		require.NoError(t, env.DB.First(&p, id).Error)
		assert.Equal(t, "김철수", p.Name)
	})

	t.Run("Error - Unknown constituency", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "POST", "/admin/api/v1/politician/",
			politicianBody("이영희", "무소속", "없는구", 1, 1), token)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.Code)
		testutils.AssertError(t, resp, "BAD_REQUEST")

		var count int64
		env.DB.Model(&models.Politician{}).Where("name = ?", "이영희").Count(&count)
		assert.Zero(t, count)
	})

	t.Run("Error - Missing constituency", func(t *testing.T) {
		body := politicianBody("이영희", "무소속", "종로구", 1, 1)
		delete(body, "constituency")

		resp, err := testutils.MakeRequest(env.App, "POST", "/admin/api/v1/politician/", body, token)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.Code)
		testutils.AssertError(t, resp, "VALIDATION_ERROR")
	})

	t.Run("Error - Requires a bearer token", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "POST", "/admin/api/v1/politician/",
			politicianBody("이영희", "무소속", "종로구", 1, 1), "")
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.Code)
	})
}

func TestBulkCreatePoliticianHandler(t *testing.T) {
	env := testutils.NewTestEnv(t)
	token := env.AdminToken(t)
	setupConstituencies(t, env)

	t.Run("Success - Imports every item", func(t *testing.T) {
		body := map[string]interface{}{
			"politicians": []map[string]interface{}{
				politicianBody("가", "A당", "종로구", 10, 5),
				politicianBody("나", "B당", "종로구", 10, 7),
			},
		}

		resp, err := testutils.MakeRequest(env.App, "POST", "/admin/api/v1/politician/bulk", body, token)
		assert.NoError(t, err)
		assert.Equal(t, 201, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		assert.Equal(t, float64(2), result.Data.(map[string]interface{})["new_politician_data_count"])

		var logs int64
		env.DB.Model(&models.AdminLog{}).Where("action = ?", models.ActionBulkCreate).Count(&logs)
		assert.Equal(t, int64(2), logs)
	})

	t.Run("Error - One bad item rolls back the batch", func(t *testing.T) {
		body := map[string]interface{}{
			"politicians": []map[string]interface{}{
				politicianBody("다", "A당", "종로구", 10, 5),
				politicianBody("라", "B당", "없는구", 10, 7),
			},
		}

		resp, err := testutils.MakeRequest(env.App, "POST", "/admin/api/v1/politician/bulk", body, token)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.Code)

		var count int64
		env.DB.Model(&models.Politician{}).Where("name = ?", "다").Count(&count)
		assert.Zero(t, count)
	})
}

func TestPoliticianReadUpdateDelete(t *testing.T) {
	env := testutils.NewTestEnv(t)
	token := env.AdminToken(t)
	setupConstituencies(t, env)
	id := createPolitician(t, env, token, politicianBody("홍길동", "무소속", "종로구", 10, 4))
	createPolitician(t, env, token, politicianBody("김철수", "A당", "종로구", 0, 0))
	path := fmt.Sprintf("/admin/api/v1/politician/%d", id)

	t.Run("Success - Get returns the execution rate", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "GET", path, nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		data := result.Data.(map[string]interface{})
		assert.InDelta(t, 40.0, data["promise_execution_rate"], 0.001)
		p := data["politician"].(map[string]interface{})
		assert.Equal(t, "홍길동", p["name"])
	})

	t.Run("Success - List filters by party and region", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "GET", "/admin/api/v1/politician/?region=seoul&party="+url.QueryEscape("A당"), nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		require.NotNil(t, result.Meta)
		assert.Equal(t, int64(1), result.Meta.Total)
	})

	t.Run("Success - List searches by name", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "GET", "/admin/api/v1/politician/?q="+url.QueryEscape("길동"), nil, token)
		assert.NoError(t, err)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		require.NotNil(t, result.Meta)
		assert.Equal(t, int64(1), result.Meta.Total)
	})

	t.Run("Success - Update replaces children", func(t *testing.T) {
		body := politicianBody("홍길동", "B당", "종로구", 10, 9)
		body["constituency"] = []map[string]interface{}{{"region": "busan", "district": "중구"}}
		body["committee"] = []map[string]interface{}{}

		resp, err := testutils.MakeRequest(env.App, "PUT", path, body, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var p models.Politician
		require.NoError(t, env.DB.Preload("Committees").Preload("Jurisdictions.Constituency.Region").First(&p, id).Error)
		assert.Equal(t, "B당", p.PoliticalParty)
		assert.Empty(t, p.Committees)
		require.Len(t, p.Jurisdictions, 1)
		assert.Equal(t, "busan", p.Jurisdictions[0].Constituency.Region.Code)
	})

	t.Run("Success - Delete removes children", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "DELETE", path, nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var count int64
		env.DB.Model(&models.Jurisdiction{}).Where("politician_id = ?", id).Count(&count)
		assert.Zero(t, count)

		var actions []models.AdminAction
		env.DB.Model(&models.AdminLog{}).Where("politician_id = ?", id).Order("id").Pluck("action", &actions)
		assert.Equal(t, []models.AdminAction{models.ActionCreate, models.ActionUpdate, models.ActionDelete}, actions)
	})

	t.Run("Error - Get deleted politician", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "GET", path, nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 404, resp.Code)
		testutils.AssertError(t, resp, "NOT_FOUND")
	})

	t.Run("Error - Invalid id", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "GET", "/admin/api/v1/politician/abc", nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.Code)
	})
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadProfileImageHandler(t *testing.T) {
	env := testutils.NewTestEnv(t)
	t.Cleanup(func() { os.RemoveAll("./uploads") })
	token := env.AdminToken(t)
	setupConstituencies(t, env)
	id := createPolitician(t, env, token, politicianBody("홍길동", "무소속", "종로구", 10, 4))
	path := fmt.Sprintf("/admin/api/v1/politician/%d/profile-image", id)

	t.Run("Success - Upload is stored as JPEG", func(t *testing.T) {
		files := map[string]testutils.UploadFile{
			"file": {Name: "face.png", ContentType: "image/png", Content: testPNG(t, 800, 600)},
		}

		resp, err := testutils.MakeMultipartRequestWithFile(env.App, "POST", path, nil, files, token)
		assert.NoError(t, err)
		require.Equal(t, 200, resp.Code, resp.Body.String())

		var p models.Politician
		require.NoError(t, env.DB.First(&p, id).Error)
		require.NotNil(t, p.ProfileURL)
		assert.Contains(t, *p.ProfileURL, "/uploads/profile/")
		assert.Contains(t, *p.ProfileURL, ".jpg")

		stored, err := os.ReadFile("." + *p.ProfileURL)
		require.NoError(t, err)
		assert.Equal(t, []byte{0xFF, 0xD8}, stored[:2])
	})

	t.Run("Success - Failed cleanup of the old image is logged with context", func(t *testing.T) {
		require.NoError(t, env.DB.Model(&models.Politician{}).Where("id = ?", id).
			Update("profile_url", "/etc/hostname").Error)
		env.Logs.Reset()

		files := map[string]testutils.UploadFile{
			"file": {Name: "face.png", ContentType: "image/png", Content: testPNG(t, 20, 20)},
		}
		resp, err := testutils.MakeMultipartRequestWithFile(env.App, "POST", path, nil, files, token)
		assert.NoError(t, err)
		require.Equal(t, 200, resp.Code, resp.Body.String())

		entry := env.Logs.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, logrus.WarnLevel, entry.Level)
		assert.Equal(t, "profile_image", entry.Data["action"])
		assert.Equal(t, uint(1), entry.Data["admin_id"])
		assert.Equal(t, fmt.Sprint(id), entry.Data["politician_id"])
		assert.Equal(t, "/etc/hostname", entry.Data["previous_url"])
	})

	t.Run("Error - Unsupported type", func(t *testing.T) {
		files := map[string]testutils.UploadFile{
			"file": {Name: "doc.pdf", ContentType: "application/pdf", Content: []byte("%PDF-1.4")},
		}

		resp, err := testutils.MakeMultipartRequestWithFile(env.App, "POST", path, nil, files, token)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.Code)
	})

	t.Run("Error - Not an image", func(t *testing.T) {
		files := map[string]testutils.UploadFile{
			"file": {Name: "fake.png", ContentType: "image/png", Content: []byte("not really a png")},
		}

		resp, err := testutils.MakeMultipartRequestWithFile(env.App, "POST", path, nil, files, token)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.Code)
	})

	t.Run("Error - Unknown politician", func(t *testing.T) {
		files := map[string]testutils.UploadFile{
			"file": {Name: "face.png", ContentType: "image/png", Content: testPNG(t, 10, 10)},
		}

		resp, err := testutils.MakeMultipartRequestWithFile(env.App, "POST", "/admin/api/v1/politician/999/profile-image", nil, files, token)
		assert.NoError(t, err)
		assert.Equal(t, 404, resp.Code)
	})
}
