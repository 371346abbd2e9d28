// Package services 封装对外部系统的调用
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"barber_pos/models"
)

// WhatsApp Cloud API凭证，从环境变量读取
// 未设置时进入模拟模式：只打印消息内容，不发起真实请求
var (
	waPhoneID = os.Getenv("WA_PHONE_ID")
	waToken   = os.Getenv("WA_TOKEN")
)

// 发送超时，欢迎消息是尽力而为的，不应拖住创建协作者的请求
var httpClient = &http.Client{Timeout: 10 * time.Second}

// whatsappPayload WhatsApp Cloud API文本消息的请求体
type whatsappPayload struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             whatsappText `json:"text"`
}

type whatsappText struct {
	Body string `json:"body"`
}

// cleanPhone 清理电话号码，只保留数字
func cleanPhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SendWelcomeMessage 向新建协作者发送带登录链接和初始密码的欢迎消息
// 发送失败只返回错误，调用方负责把失败降级为警告：
// 欢迎消息发不出去绝不能阻止协作者创建成功
// 参数:
//   - collaborator: 新创建的协作者
//   - rawPassword: 未加密的初始密码（只在这条消息里出现一次）
func SendWelcomeMessage(collaborator *models.Collaborator, rawPassword string) error {
	phone := cleanPhone(collaborator.Phone)

	// 登录链接基于魔法链接令牌
	baseURL := os.Getenv("APP_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:" + os.Getenv("SERVER_PORT")
	}
	loginURL := fmt.Sprintf("%s/login/%s", baseURL, collaborator.Token)

	messageBody := fmt.Sprintf(
		"Olá, %s 👋\n\n"+
			"Você foi cadastrado no sistema da barbearia.\n\n"+
			"🔐 Acesso ao seu painel:\n%s\n\n"+
			"👤 Usuário: %s\n"+
			"🔑 Senha: %s\n\n"+
			"Qualquer dúvida, fale com a gestão.",
		collaborator.Name, loginURL, collaborator.Phone, rawPassword)

	// 凭证未配置时进入模拟模式
	if waPhoneID == "" || waToken == "" {
		logrus.Infof("WhatsApp凭证未配置，模拟发送欢迎消息到 %s:\n%s", phone, messageBody)
		return nil
	}

	// 构建请求
	payload := whatsappPayload{
		MessagingProduct: "whatsapp",
		To:               phone,
		Type:             "text",
		Text:             whatsappText{Body: messageBody},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("https://graph.facebook.com/v17.0/%s/messages", waPhoneID)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+waToken)
	req.Header.Set("Content-Type", "application/json")

	// 发送请求
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("WhatsApp接口返回状态码 %d", resp.StatusCode)
	}

	logrus.Infof("欢迎消息已发送到 %s", phone)
	return nil
}
