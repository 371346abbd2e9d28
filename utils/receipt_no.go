package utils

import (
	"crypto/rand"
	mathrand "math/rand"
	"strconv"
	"sync/atomic"
	"time"
)

// 字符集常量
const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// 全局原子计数器，用于确保生成的凭证号唯一
var receiptCounter int64

// GenerateRandomCode 生成指定长度的随机字符码
func GenerateRandomCode(length int) string {
	code := make([]byte, length)

	// 使用安全的随机数生成
	_, err := rand.Read(code)
	if err != nil {
		// 如果安全随机数生成失败，回退到不安全的方法
		r := mathrand.New(mathrand.NewSource(time.Now().UnixNano()))
		for i := range code {
			code[i] = charset[r.Intn(len(charset))]
		}
		return string(code)
	}

	// 将随机字节映射到字符集
	for i := range code {
		code[i] = charset[int(code[i])%len(charset)]
	}

	return string(code)
}

// GenerateReceiptNo 生成结算凭证号
// 时间戳 + 原子计数器 + 4位随机字符，保证同一进程内不会重复
func GenerateReceiptNo() string {
	counter := atomic.AddInt64(&receiptCounter, 1)
	randomPart := GenerateRandomCode(4)
	return "PAG" + strconv.FormatInt(time.Now().UnixNano(), 36) + strconv.FormatInt(counter, 36) + randomPart
}
