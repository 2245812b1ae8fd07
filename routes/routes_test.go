package routes

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/surveybot/testutil"
)

// Luồng đầy đủ: đăng ký, tạo danh mục + khảo sát, gửi phản hồi công khai, xem thống kê.
func TestSurveyLifecycle(t *testing.T) {
	testutil.SetupTestDB(t)
	r := gin.New()
	SetupRoutes(r)

	w := testutil.MakeRequest(r, http.MethodGet, "/", nil, nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	w = testutil.MakeRequest(r, http.MethodPost, "/admin/signup", gin.H{"username": "alice", "password": "pw"}, nil)
	testutil.AssertStatus(t, w, http.StatusCreated)
	session := map[string]string{"Cookie": strings.SplitN(w.Header().Get("Set-Cookie"), ";", 2)[0]}
	issuer := testutil.DecodeJSON(t, w)["issuer"].(map[string]interface{})
	if issuer["username"] != "alice" {
		t.Fatalf("issuer = %v", issuer)
	}

	w = testutil.MakeRequest(r, http.MethodPost, "/api/categories", gin.H{"name": "Food"}, session)
	testutil.AssertStatus(t, w, http.StatusCreated)

	w = testutil.MakeRequest(r, http.MethodGet, "/api/categories", nil, session)
	categoryID := testutil.DecodeJSON(t, w)["categories"].([]interface{})[0].(map[string]interface{})["id"]

	w = testutil.MakeRequest(r, http.MethodPost, "/api/surveys",
		gin.H{"name": "Lunch", "slug": "lunch", "categoryId": categoryID}, session)
	testutil.AssertStatus(t, w, http.StatusCreated)

	w = testutil.MakeRequest(r, http.MethodGet, "/api/surveys/slug/lunch", nil, nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	surveyID := testutil.DecodeJSON(t, w)["survey"].(map[string]interface{})["id"].(float64)

	for _, rating := range []interface{}{4, "3", 2} {
		w = testutil.MakeRequest(r, http.MethodPost, "/api/surveys/lunch/responses", gin.H{"rating": rating}, nil)
		testutil.AssertStatus(t, w, http.StatusOK)
	}

	w = testutil.MakeRequest(r, http.MethodGet, fmt.Sprintf("/api/surveys/%d/stats", int(surveyID)), nil, nil)
	testutil.AssertError(t, w, http.StatusUnauthorized, "Unauthorized")

	w = testutil.MakeRequest(r, http.MethodGet, fmt.Sprintf("/api/surveys/%d/stats", int(surveyID)), nil, session)
	testutil.AssertStatus(t, w, http.StatusOK)
	stats := testutil.DecodeJSON(t, w)["stats"].(map[string]interface{})
	if stats["total"] != 3.0 || stats["average"] != "3.00" {
		t.Errorf("stats = %v", stats)
	}

	w = testutil.MakeRequest(r, http.MethodGet, "/api/categories/rollup", nil, session)
	testutil.AssertStatus(t, w, http.StatusOK)
	food := testutil.DecodeJSON(t, w)["rollup"].([]interface{})[0].(map[string]interface{})
	if food["name"] != "Food" || food["total"] != 3.0 {
		t.Errorf("rollup = %v", food)
	}

	w = testutil.MakeRequest(r, http.MethodPost, "/admin/logout", nil, session)
	testutil.AssertStatus(t, w, http.StatusOK)
}
