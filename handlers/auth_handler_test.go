package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"barber_pos/database"
	"barber_pos/models"
)

func TestMagicLinkLogin(t *testing.T) {
	app := newTestApp(t)

	collaborator := createCollaborator(t, "Carlos", 50, false)

	resp := doRequest(t, app, "POST", "/api/auth/login", map[string]string{
		"token":    collaborator.Token,
		"password": "senha123",
	}, 0)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("期望状态码200，得到%d", resp.StatusCode)
	}

	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)
	if body.Token == "" {
		t.Fatal("登录成功应返回JWT令牌")
	}

	// 令牌落库
	var count int64
	database.GetDB().Model(&models.CollaboratorToken{}).Count(&count)
	if count != 1 {
		t.Errorf("期望1条令牌记录，得到%d条", count)
	}

	// 签发的令牌可以通过认证中间件
	req := httptest.NewRequest("GET", "/api/me/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+body.Token)
	authResp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("发送测试请求失败: %v", err)
	}
	if authResp.StatusCode != http.StatusOK {
		t.Errorf("JWT令牌认证失败，状态码%d", authResp.StatusCode)
	}
}

func TestMagicLinkLoginWrongPassword(t *testing.T) {
	app := newTestApp(t)

	collaborator := createCollaborator(t, "Carlos", 50, false)

	resp := doRequest(t, app, "POST", "/api/auth/login", map[string]string{
		"token":    collaborator.Token,
		"password": "errada",
	}, 0)

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("密码错误应返回401，得到%d", resp.StatusCode)
	}
}

func TestMagicLinkLoginInactiveCollaborator(t *testing.T) {
	app := newTestApp(t)

	collaborator := createCollaborator(t, "Carlos", 50, false)
	if err := database.GetDB().Model(&models.Collaborator{}).
		Where("id = ?", collaborator.ID).
		UpdateColumn("active", false).Error; err != nil {
		t.Fatalf("停用协作者失败: %v", err)
	}

	resp := doRequest(t, app, "POST", "/api/auth/login", map[string]string{
		"token":    collaborator.Token,
		"password": "senha123",
	}, 0)

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("已离职协作者登录应被拒绝，得到%d", resp.StatusCode)
	}
}

func TestAdminLoginRequiresOwner(t *testing.T) {
	app := newTestApp(t)

	createCollaborator(t, "Carlos", 50, false)

	// 非店主不能走店主登录入口
	resp := doRequest(t, app, "POST", "/api/auth/admin/login", map[string]string{
		"name":     "Carlos",
		"password": "senha123",
	}, 0)

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("非店主走店主入口应被拒绝，得到%d", resp.StatusCode)
	}
}

func TestAdminLogin(t *testing.T) {
	app := newTestApp(t)

	createCollaborator(t, "Dono", 50, true)

	resp := doRequest(t, app, "POST", "/api/auth/admin/login", map[string]string{
		"name":     "Dono",
		"password": "senha123",
	}, 0)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("期望状态码200，得到%d", resp.StatusCode)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	app := newTestApp(t)

	collaborator := createCollaborator(t, "Carlos", 50, false)

	resp := doRequest(t, app, "POST", "/api/auth/login", map[string]string{
		"token":    collaborator.Token,
		"password": "senha123",
	}, 0)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("期望状态码200，得到%d", resp.StatusCode)
	}

	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)

	// 注销
	req := httptest.NewRequest("POST", "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+body.Token)
	logoutResp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("发送测试请求失败: %v", err)
	}
	if logoutResp.StatusCode != http.StatusOK {
		t.Fatalf("注销失败，状态码%d", logoutResp.StatusCode)
	}

	// 注销后的令牌即使JWT本身有效也无法再通过认证
	req = httptest.NewRequest("GET", "/api/me/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+body.Token)
	authResp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("发送测试请求失败: %v", err)
	}
	if authResp.StatusCode != http.StatusUnauthorized {
		t.Errorf("注销后的令牌应失效，得到状态码%d", authResp.StatusCode)
	}
}

func TestUnauthenticatedRequestRejected(t *testing.T) {
	app := newTestApp(t)

	resp := doRequest(t, app, "GET", "/api/me/dashboard", nil, 0)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("未认证请求应被拒绝，得到状态码%d", resp.StatusCode)
	}
}
