package utils

import (
	"github.com/go-playground/validator/v10"
)

// 全局验证器实例
// validator内部缓存结构体解析结果，复用单个实例即可
var validate = validator.New()

// ValidateStruct 按结构体上的validate标签验证请求参数
// 返回第一个验证错误，验证通过返回nil
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}
